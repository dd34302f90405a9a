package parameter

import "time"

// Propagation defaults, overridable via spatial.Config
const (
	SpeedOfSoundDefault       = 340.0
	MaxProbeDistanceDefault   = 100.0
	RoomSizeMultiplierDefault = 2.0
	CollisionMaskDefault      = 0xFFFFFFFF
)

// Tick loop
const (
	// TickIntervalDefault decouples the audio-physics rate from the host
	// render rate
	TickIntervalDefault = 100 * time.Millisecond

	// StartupDelayDefault spaces Play from the first slot activation
	StartupDelayDefault = 200 * time.Millisecond
)
