// Interactive debug view: a top-down scene with one sound source inside a
// walled room, a listener steered with vi keys, and a live overlay of the
// reflection points, room estimate and propagation delay.
package main

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/claudehohl/SpatialAudio3D/asset"
	"github.com/claudehohl/SpatialAudio3D/internal/log"
	"github.com/claudehohl/SpatialAudio3D/mixer"
	"github.com/claudehohl/SpatialAudio3D/registry"
	"github.com/claudehohl/SpatialAudio3D/spatial"
	"github.com/claudehohl/SpatialAudio3D/trace"
	"github.com/claudehohl/SpatialAudio3D/vmath"
)

const (
	frameInterval = 33 * time.Millisecond
	moveStep      = 1.0
	toneHz        = 220.0
	toneSeconds   = 2.0
)

// engineChannels adapts the mixer engine to the spatial channel provider
type engineChannels struct {
	engine *mixer.Engine
}

func (p engineChannels) NewChannel() spatial.Channel {
	return p.engine.NewChannel()
}

type wall struct {
	min, max vmath.Vec3
}

type demo struct {
	screen tcell.Screen
	svc    *mixer.Service
	source *spatial.Source

	mu       sync.Mutex
	listener vmath.Vec3

	walls  []wall
	silent bool
}

func newDemo() (*demo, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	d := &demo{
		screen:   screen,
		listener: vmath.Vec3{X: 30, Y: 1.5, Z: 12},
	}

	factory, ok := registry.GetService("mixer")
	if !ok {
		screen.Fini()
		return nil, fmt.Errorf("mixer service not registered")
	}
	d.svc = factory().(*mixer.Service)
	if err := d.svc.Init(); err != nil {
		screen.Fini()
		return nil, err
	}
	if err := d.svc.Start(); err != nil {
		screen.Fini()
		return nil, err
	}
	engine := d.svc.Engine()
	if engine == nil {
		screen.Fini()
		return nil, fmt.Errorf("mixer service unavailable")
	}
	d.silent = engine.SilentMode()

	world := d.buildWorld()

	cfg := spatial.LoadConfig()
	cfg.Loop = true
	d.source = spatial.NewSource(cfg, world, spatial.PositionFunc(d.listenerPos), engineChannels{engine})
	d.source.SetPosition(vmath.Vec3{X: 10, Y: 1.5, Z: 10})

	stream, err := d.loadStream(engine.SampleRate())
	if err != nil {
		screen.Fini()
		return nil, err
	}
	d.source.SetStream(stream)
	d.source.Start()

	return d, nil
}

// buildWorld assembles a walled room with a door gap on its east side, an
// interior pillar for occlusion testing, and open ground outside
func (d *demo) buildWorld() *trace.World {
	w := trace.NewWorld()

	// Floor and ceiling
	w.AddPlane(trace.Plane{Point: vmath.Vec3{}, Normal: vmath.Vec3{Y: 1}})
	w.AddPlane(trace.Plane{Point: vmath.Vec3{Y: 8}, Normal: vmath.Vec3{Y: -1}})

	add := func(minX, minZ, maxX, maxZ float64) {
		min := vmath.Vec3{X: minX, Y: 0, Z: minZ}
		max := vmath.Vec3{X: maxX, Y: 8, Z: maxZ}
		w.AddBox(trace.Box{Min: min, Max: max})
		d.walls = append(d.walls, wall{min: min, max: max})
	}

	// Room shell, door gap on the east wall between z=8 and z=12
	add(0, 0, 20, 1)   // north
	add(0, 19, 20, 20) // south
	add(0, 1, 1, 19)   // west
	add(19, 1, 20, 8)  // east upper
	add(19, 12, 20, 19) // east lower

	// Pillar between source and door
	add(14, 9, 16, 11)

	return w
}

func (d *demo) loadStream(rate int) (*asset.Stream, error) {
	if len(os.Args) > 1 {
		return asset.Load(os.Args[1])
	}

	// Fallback test tone with a soft attack and release
	n := int(toneSeconds * float64(rate))
	samples := make([][2]float64, n)
	for i := range samples {
		v := 0.4 * math.Sin(2*math.Pi*toneHz*float64(i)/float64(rate))
		env := 1.0
		if i < rate/10 {
			env = float64(i) / float64(rate/10)
		} else if n-i < rate/10 {
			env = float64(n-i) / float64(rate/10)
		}
		samples[i] = [2]float64{v * env, v * env}
	}
	return asset.New("tone", rate, samples), nil
}

func (d *demo) listenerPos() vmath.Vec3 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.listener
}

func (d *demo) moveListener(dx, dz float64) {
	d.mu.Lock()
	d.listener.X += dx
	d.listener.Z += dz
	d.mu.Unlock()
}

func (d *demo) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			d.moveListener(-moveStep, 0)
		case tcell.KeyRight:
			d.moveListener(moveStep, 0)
		case tcell.KeyUp:
			d.moveListener(0, -moveStep)
		case tcell.KeyDown:
			d.moveListener(0, moveStep)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'h':
				d.moveListener(-moveStep, 0)
			case 'l':
				d.moveListener(moveStep, 0)
			case 'k':
				d.moveListener(0, -moveStep)
			case 'j':
				d.moveListener(0, moveStep)
			case ' ':
				if d.source.Playing() {
					d.source.Stop()
				} else {
					d.source.Play()
				}
			}
		}
	case *tcell.EventResize:
		d.screen.Sync()
	}
	return true
}

// cell projects a world position onto the screen, top-down, with z halved
// to roughly square up terminal cells
func cell(p vmath.Vec3) (int, int) {
	return int(math.Round(p.X)) + 2, int(math.Round(p.Z/2)) + 2
}

func (d *demo) draw() {
	d.screen.Clear()

	wallStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for _, w := range d.walls {
		for x := int(w.min.X); x < int(w.max.X); x++ {
			for z := int(w.min.Z); z < int(w.max.Z); z++ {
				sx, sy := cell(vmath.Vec3{X: float64(x), Z: float64(z)})
				d.screen.SetContent(sx, sy, '#', nil, wallStyle)
			}
		}
	}

	snap := d.source.DebugSnapshot()

	for _, rp := range snap.Reflections {
		sx, sy := cell(rp.Pos)
		ch := '.'
		style := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
		if rp.Reflecting {
			ch = '*'
			switch rp.ActiveState {
			case spatial.SlotActive:
				style = tcell.StyleDefault.Foreground(tcell.ColorGreen)
			case spatial.SlotFadingIn, spatial.SlotFadingOut:
				style = tcell.StyleDefault.Foreground(tcell.ColorYellow)
			default:
				style = tcell.StyleDefault.Foreground(tcell.ColorOlive)
			}
		}
		d.screen.SetContent(sx, sy, ch, nil, style)
	}

	sx, sy := cell(snap.SourcePos)
	d.screen.SetContent(sx, sy, 'S', nil, tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))

	lx, ly := cell(snap.ListenerPos)
	d.screen.SetContent(lx, ly, 'L', nil, tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true))

	_, height := d.screen.Size()
	status := fmt.Sprintf("delay %.0fms  size %.2f  wet %.2f  playing %v",
		snap.DelayMs, snap.Estimate.Size, snap.Estimate.Wetness, snap.Playing)
	if d.silent {
		status += "  [no audio device]"
	}
	drawText(d.screen, 0, height-2, status, tcell.StyleDefault)
	drawText(d.screen, 0, height-1, "hjkl/arrows move listener  space play/stop  q quit", tcell.StyleDefault.Foreground(tcell.ColorGray))

	d.screen.Show()
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}

func (d *demo) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			events <- d.screen.PollEvent()
		}
	}()

	d.source.Play()

	for {
		select {
		case ev := <-events:
			if !d.handleInput(ev) {
				return
			}
		case <-ticker.C:
			d.draw()
		}
	}
}

func (d *demo) cleanup() {
	d.source.Close()
	d.svc.Stop()
	d.screen.Fini()
}

func main() {
	log.Init("warn")

	d, err := newDemo()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}
	defer d.cleanup()

	d.run()
}
