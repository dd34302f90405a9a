package parameter

import "time"

// Mixer Hardware Settings
const (
	SampleRate = 44100

	// MixerBufferDuration determines speaker latency
	MixerBufferDuration = 50 * time.Millisecond

	// MaxDelaySeconds bounds the per-channel delay line allocation
	MaxDelaySeconds = 2.0
)

// Gain
const (
	// SilenceDB is the floor treated as fully attenuated
	SilenceDB = -80.0

	// DryMaxGainDB caps the direct-path slot gain
	DryMaxGainDB = 0.0
)

// Dead-bands and rate limits for slot parameter churn
const (
	// DelayDeadBandMs suppresses delay flutter below audibility
	DelayDeadBandMs = 10.0

	// DelayMinInterval is the minimum spacing between accepted delay changes
	DelayMinInterval = time.Second

	CutoffDeadBandHz  = 20.0
	RoomParamDeadBand = 0.01
	BassDeadBand      = 0.01
)

// Low-pass cutoff range
const (
	// CutoffOpen is the fully-open cutoff, effectively no filtering
	CutoffOpen = 20000.0

	CutoffFloor = 10.0
)

// Fades
const (
	// FadeStepInterval is the ramp resolution of a fade driver
	FadeStepInterval = 10 * time.Millisecond

	// PlayFadeTime ramps a slot in on play dispatch
	PlayFadeTime = 100 * time.Millisecond

	// StopFadeTime ramps slots out on stop
	StopFadeTime = 200 * time.Millisecond

	// DelayCrossfade masks a dry-pair delay handover
	DelayCrossfade = 300 * time.Millisecond
)

// Dynamic reverb fades, scaled by wetness
const (
	DynamicFadeOutBase  = 500 * time.Millisecond
	DynamicFadeOutScale = 3 * time.Second
	DynamicFadeInBase   = 300 * time.Millisecond
	DynamicFadeInScale  = 500 * time.Millisecond
)

// Proximity shaping
const (
	// ProximityReductionDB is the attenuation range applied near the source
	ProximityReductionDB = 24.0

	// ProximityBassMaxDB caps the distance bass boost
	ProximityBassMaxDB = 9.0
)
