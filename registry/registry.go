package registry

import "sync"

// ServiceFactory creates a service.Service
// Declared as any to keep the registry free of upward imports
type ServiceFactory func() any

var (
	servicesMu sync.RWMutex
	services   = make(map[string]ServiceFactory)
)

// RegisterService adds a service factory by name
func RegisterService(name string, factory ServiceFactory) {
	servicesMu.Lock()
	defer servicesMu.Unlock()
	services[name] = factory
}

// GetService retrieves a service factory by name
func GetService(name string) (ServiceFactory, bool) {
	servicesMu.RLock()
	defer servicesMu.RUnlock()
	f, ok := services[name]
	return f, ok
}

// ServiceNames returns all registered service names
func ServiceNames() []string {
	servicesMu.RLock()
	defer servicesMu.RUnlock()
	names := make([]string, 0, len(services))
	for name := range services {
		names = append(names, name)
	}
	return names
}
