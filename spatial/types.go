// Package spatial is the runtime audio-physics core: per-tick probing of
// nearby geometry, room acoustics estimation, and artifact-free parameter
// handover across paired playback slots.
package spatial

import (
	"github.com/gopxl/beep"

	"github.com/claudehohl/SpatialAudio3D/vmath"
)

// Channel is the private mixer channel owned by exactly one playback slot
// Every parameter is independently settable and queryable; mutating a
// channel never touches any other channel
type Channel interface {
	SetSource(src beep.Streamer)

	SetGain(db float64)
	Gain() float64

	SetDelay(ms float64)
	Delay() float64

	SetLowPass(hz float64)
	LowPass() float64

	SetReverb(roomSize, wetness float64)
	Reverb() (roomSize, wetness float64)

	SetBass(db float64)
	Bass() float64

	Close()
}

// ChannelProvider allocates private channels, one per slot
type ChannelProvider interface {
	NewChannel() Channel
}

// PositionProvider reports a world position, typically the listener's
// transform in the host scene graph
type PositionProvider interface {
	Position() vmath.Vec3
}

// PositionFunc adapts a closure to PositionProvider
type PositionFunc func() vmath.Vec3

func (f PositionFunc) Position() vmath.Vec3 { return f() }
