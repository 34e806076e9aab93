// Package vo2max estimates aerobic capacity (VO2 max, mL/kg/min) from
// session data using closed-form field formulas. Estimates feed the session
// metadata that the pattern and trend services analyze.
package vo2max

import "github.com/airwave/airwave/fitness/encoder"

// Subject holds the per-user attributes the estimators need.
type Subject struct {
	Gender string // "male", "female", or anything else for the averaged formula
	Age    int
}

// defaultRestingHR is assumed when no resting heart rate is known.
const defaultRestingHR = 70

// EstimateCooper estimates VO2 max from a Cooper-test style run. The input
// distance is scaled to a 12-minute equivalent when the run lasted a
// different time. The result is floored at zero.
func EstimateCooper(distanceMeters, timeMinutes float64, gender string) float64 {
	if timeMinutes <= 0 {
		return 0
	}
	if timeMinutes != 12 {
		distanceMeters = distanceMeters * (12 / timeMinutes)
	}

	var offset float64
	switch gender {
	case "male":
		offset = 504.9
	case "female":
		offset = 504.1
	default:
		offset = 504.5
	}

	vo2 := (distanceMeters - offset) / 44.73
	if vo2 < 0 {
		return 0
	}
	return vo2
}

// EstimateHeartRateRatio estimates VO2 max from the ratio of maximum to
// resting heart rate. The second return value is false when no estimate is
// possible.
func EstimateHeartRateRatio(maxHR, restingHR float64) (float64, bool) {
	if restingHR <= 0 {
		return 0, false
	}
	return 15.3 * (maxHR / restingHR), true
}

// EstimateFromSession picks the best available estimator for a session:
// Cooper for runs with a recorded distance, the heart-rate ratio with the
// session's max HR when present, and an age-derived max HR (208 - 0.7*age)
// as a last resort. Returns false when nothing can be estimated.
func EstimateFromSession(s encoder.Session, subject Subject) (float64, bool) {
	switch {
	case s.ActivityType == encoder.ActivityRun && s.Distance > 0:
		return EstimateCooper(s.Distance*1000, s.Duration, subject.Gender), true
	case s.HeartRateMax > 0 && subject.Age > 0:
		return EstimateHeartRateRatio(s.HeartRateMax, defaultRestingHR)
	case subject.Age > 0:
		estimatedMaxHR := 208 - 0.7*float64(subject.Age)
		return EstimateHeartRateRatio(estimatedMaxHR, defaultRestingHR)
	default:
		return 0, false
	}
}

// Benefits returns qualitative guidance for an estimated VO2 max.
func Benefits(vo2 float64, ok bool) string {
	if !ok {
		return "Unable to estimate VO2 max."
	}

	var band string
	switch {
	case vo2 < 30:
		band = "Low VO2 max indicates room for improvement in aerobic fitness."
	case vo2 < 40:
		band = "Moderate VO2 max; regular training can significantly improve it."
	default:
		band = "Good VO2 max; maintain with consistent exercise."
	}

	return band + " Higher VO2 max correlates with lower risk of cardiovascular disease. Improves endurance and overall health."
}
