package spatial

import (
	"os"
	"strconv"
	"time"

	"github.com/claudehohl/SpatialAudio3D/parameter"
	"github.com/claudehohl/SpatialAudio3D/vmath"
)

// Config is the per-source configuration block, set once at attach time
// Out-of-range values are clamped at the boundary, never rejected
type Config struct {
	// ReverbEnabled controls whether reflection point managers are created
	ReverbEnabled bool

	// ReverbMaxGainDB caps reflection slot gain
	ReverbMaxGainDB float64

	// ReverbFadeIn/Out are the fixed relocation fades; ignored when
	// DynamicFades derives them from current wetness instead
	ReverbFadeIn  time.Duration
	ReverbFadeOut time.Duration
	DynamicFades  bool

	// OcclusionBaseCutoff scales the obstructed low-pass cutoff
	OcclusionBaseCutoff float64

	// OcclusionFadeTime smooths large cutoff jumps
	OcclusionFadeTime time.Duration

	// BassProximityRadius enables distance bass boost; 0 disables
	BassProximityRadius float64

	MaxProbeDistance   float64
	CollisionMask      uint32
	RoomSizeMultiplier float64
	SpeedOfSound       float64

	// TickInterval is the fixed update rate, decoupled from render rate
	TickInterval time.Duration

	// StartupDelay spaces Play from the first slot activation
	StartupDelay time.Duration

	Loop  bool
	Mute  bool
	Debug bool
}

// DefaultConfig returns the stock configuration
func DefaultConfig() *Config {
	return &Config{
		ReverbEnabled:       true,
		ReverbMaxGainDB:     -6,
		ReverbFadeIn:        500 * time.Millisecond,
		ReverbFadeOut:       2 * time.Second,
		DynamicFades:        true,
		OcclusionBaseCutoff: 6000,
		OcclusionFadeTime:   300 * time.Millisecond,
		BassProximityRadius: 10,
		MaxProbeDistance:    parameter.MaxProbeDistanceDefault,
		CollisionMask:       parameter.CollisionMaskDefault,
		RoomSizeMultiplier:  parameter.RoomSizeMultiplierDefault,
		SpeedOfSound:        parameter.SpeedOfSoundDefault,
		TickInterval:        parameter.TickIntervalDefault,
		StartupDelay:        parameter.StartupDelayDefault,
	}
}

// LoadConfig loads configuration from environment variables on top of the
// defaults
func LoadConfig() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("SPATIAL_AUDIO_REVERB_ENABLED"); v != "" {
		if val, err := strconv.ParseBool(v); err == nil {
			cfg.ReverbEnabled = val
		}
	}
	if v := os.Getenv("SPATIAL_AUDIO_REVERB_MAX_GAIN_DB"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.ReverbMaxGainDB = val
		}
	}
	if v := os.Getenv("SPATIAL_AUDIO_MAX_PROBE_DISTANCE"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MaxProbeDistance = val
		}
	}
	if v := os.Getenv("SPATIAL_AUDIO_SPEED_OF_SOUND"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.SpeedOfSound = val
		}
	}
	if v := os.Getenv("SPATIAL_AUDIO_TICK_MS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.TickInterval = time.Duration(val) * time.Millisecond
		}
	}
	if v := os.Getenv("SPATIAL_AUDIO_MUTE"); v != "" {
		if val, err := strconv.ParseBool(v); err == nil {
			cfg.Mute = val
		}
	}
	if v := os.Getenv("SPATIAL_AUDIO_DEBUG"); v != "" {
		if val, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = val
		}
	}

	return cfg
}

// clamped returns a copy with every field forced into its operating range
func (c *Config) clamped() *Config {
	out := *c

	out.ReverbMaxGainDB = vmath.Clamp(out.ReverbMaxGainDB, parameter.SilenceDB, 0)
	if out.ReverbFadeIn < 0 {
		out.ReverbFadeIn = 0
	}
	if out.ReverbFadeOut < 0 {
		out.ReverbFadeOut = 0
	}
	out.OcclusionBaseCutoff = vmath.Clamp(out.OcclusionBaseCutoff, parameter.CutoffFloor, parameter.CutoffOpen)
	if out.OcclusionFadeTime < 0 {
		out.OcclusionFadeTime = 0
	}
	if out.BassProximityRadius < 0 {
		out.BassProximityRadius = 0
	}
	if out.MaxProbeDistance <= 0 {
		out.MaxProbeDistance = parameter.MaxProbeDistanceDefault
	}
	if out.CollisionMask == 0 {
		out.CollisionMask = parameter.CollisionMaskDefault
	}
	if out.RoomSizeMultiplier <= 0 {
		out.RoomSizeMultiplier = parameter.RoomSizeMultiplierDefault
	}
	if out.SpeedOfSound < 1 {
		out.SpeedOfSound = parameter.SpeedOfSoundDefault
	}
	if out.TickInterval < 10*time.Millisecond {
		out.TickInterval = parameter.TickIntervalDefault
	}
	if out.StartupDelay < 0 {
		out.StartupDelay = 0
	}

	return &out
}
