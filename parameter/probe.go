package parameter

// Reflection probes sense walls that can throw a discrete echo
const (
	// ReflectionLateralCount is the horizontal probe ring, 45 degree spacing
	ReflectionLateralCount = 8

	// ReflectionProbeCount adds the single vertical probe
	ReflectionProbeCount = ReflectionLateralCount + 1

	// ReflectionAngleMin rejects glancing hits; near-perpendicular incidence
	// only (radians)
	ReflectionAngleMin = 2.5

	// ReflectionSurfaceOffset lifts a reflection point off its surface so
	// occlusion probes do not self-collide
	ReflectionSurfaceOffset = 0.5

	// ReflectionMissScale parks a missing reflection point this many probe
	// ranges out, far outside audible range
	ReflectionMissScale = 2.0
)

// Room-size probe fan
const (
	RoomProbeBearings   = 12
	RoomProbeElevations = 3
	RoomProbeCount      = RoomProbeBearings * RoomProbeElevations
)

// Reflection point movement hysteresis, world units
const (
	// DriftThreshold repositions in place without a fade
	DriftThreshold = 0.3

	// RelocateThreshold triggers a full slot handover
	RelocateThreshold = 10.0

	// DelayRecomputeDistance is the listener movement that forces a delay
	// recompute on the dry pair
	DelayRecomputeDistance = 5.0
)
