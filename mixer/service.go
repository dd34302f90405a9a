package mixer

import (
	"sync/atomic"

	"github.com/claudehohl/SpatialAudio3D/registry"
	"github.com/claudehohl/SpatialAudio3D/service"
)

// Service wraps Engine with the service lifecycle
// Handles graceful degradation when no audio backend is available
type Service struct {
	engine   *Engine
	disabled atomic.Bool
}

var _ service.Service = (*Service)(nil)

func init() {
	registry.RegisterService("mixer", func() any { return NewService() })
}

// NewService creates a new mixer service
func NewService() *Service {
	return &Service{}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "mixer"
}

// Init implements service.Service
// args[0]: *Config - optional mixer configuration
func (s *Service) Init(args ...any) error {
	config := DefaultConfig()
	if len(args) > 0 {
		if cfg, ok := args[0].(*Config); ok && cfg != nil {
			config = cfg
		}
	}
	s.engine = NewEngine(config)
	return nil
}

// Start implements service.Service
// Opens the speaker; sets disabled on failure (no error returned)
func (s *Service) Start() error {
	if s.engine == nil {
		s.disabled.Store(true)
		return nil
	}
	if err := s.engine.Start(); err != nil {
		s.disabled.Store(true)
		s.engine = nil
		return nil
	}
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	if s.engine != nil && s.engine.IsRunning() {
		s.engine.Stop()
	}
	return nil
}

// Engine returns the underlying engine (nil if disabled)
func (s *Service) Engine() *Engine {
	if s.disabled.Load() {
		return nil
	}
	return s.engine
}
