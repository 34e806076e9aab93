// Package encoder converts exercise session records into fixed-length
// feature vectors suitable for cosine proximity search. Encoding is pure
// feature engineering: deterministic, total, and cheap, with no learned
// model behind it.
package encoder

import "time"

// VectorDim is the fixed length of every feature vector.
const VectorDim = 10

// ActivityType is the closed set of supported activity categories.
type ActivityType string

const (
	ActivityRun   ActivityType = "run"
	ActivityCycle ActivityType = "cycle"
	ActivityWalk  ActivityType = "walk"
	ActivitySwim  ActivityType = "swim"
	ActivityOther ActivityType = "other"
)

// ParseActivityType maps a raw string to an ActivityType. Unknown values
// map to ActivityOther, the documented neutral default.
func ParseActivityType(s string) ActivityType {
	switch ActivityType(s) {
	case ActivityRun, ActivityCycle, ActivityWalk, ActivitySwim, ActivityOther:
		return ActivityType(s)
	default:
		return ActivityOther
	}
}

// Ordinal returns the activity's position on the categorical axis.
func (a ActivityType) Ordinal() float64 {
	switch a {
	case ActivityRun:
		return 0
	case ActivityCycle:
		return 1
	case ActivityWalk:
		return 2
	case ActivitySwim:
		return 3
	case ActivityOther:
		return 4
	default:
		return 4
	}
}

// Intensity is the closed set of session intensity categories.
type Intensity string

const (
	IntensityLow      Intensity = "low"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
)

// ParseIntensity maps a raw string to an Intensity. Unknown values map to
// IntensityModerate, the documented neutral default.
func ParseIntensity(s string) Intensity {
	switch Intensity(s) {
	case IntensityLow, IntensityModerate, IntensityHigh:
		return Intensity(s)
	default:
		return IntensityModerate
	}
}

// Ordinal returns the intensity's position on the categorical axis.
func (i Intensity) Ordinal() float64 {
	switch i {
	case IntensityLow:
		return 0
	case IntensityModerate:
		return 1
	case IntensityHigh:
		return 2
	default:
		return 1
	}
}

// Session is one exercise session record as handed in by the caller. The
// encoder never mutates it; zero values stand for missing optional fields.
type Session struct {
	ActivityType   ActivityType
	Duration       float64 // minutes
	Distance       float64 // kilometers
	HeartRateAvg   float64 // beats/minute
	HeartRateMax   float64 // beats/minute
	Intensity      Intensity
	Date           time.Time
	VO2MaxEstimate float64 // mL/kg/min
}

// FeatureVector is an ordered sequence of VectorDim numbers derived from a
// Session. Base features land in [0,1]; the cross features may exceed 1,
// which the cosine distance metric tolerates without renormalization.
type FeatureVector []float32

// DefaultVO2Max is the neutral aerobic-capacity value substituted for
// missing estimates.
const DefaultVO2Max = 35

// Encode derives the feature vector for a session. It is total: missing
// fields fall back to neutral defaults (zero effort, moderate intensity,
// "other" activity, DefaultVO2Max capacity) and no input can make it fail.
//
// Feature order: duration (hours), distance (km), avg HR (/200),
// max HR (/200), activity ordinal (/4), intensity ordinal (/2),
// VO2max (/80), then three cross features: duration x distance
// (training-volume proxy), avg HR x duration (cardiac-load proxy), and
// distance over duration (pace proxy, denominator clamped at 0.1h).
func Encode(s Session) FeatureVector {
	durationH := s.Duration / 60
	distanceKm := s.Distance
	avgHR := s.HeartRateAvg / 200
	maxHR := s.HeartRateMax / 200
	activity := ParseActivityType(string(s.ActivityType)).Ordinal() / 4
	intensity := ParseIntensity(string(s.Intensity)).Ordinal() / 2

	vo2 := s.VO2MaxEstimate
	if vo2 == 0 {
		vo2 = DefaultVO2Max
	}

	paceDenom := durationH
	if paceDenom < 0.1 {
		paceDenom = 0.1
	}

	return FeatureVector{
		float32(durationH),
		float32(distanceKm),
		float32(avgHR),
		float32(maxHR),
		float32(activity),
		float32(intensity),
		float32(vo2 / 80),
		float32(durationH * distanceKm),
		float32(avgHR * durationH),
		float32(distanceKm / paceDenom),
	}
}
