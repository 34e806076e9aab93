package vo2max

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airwave/airwave/fitness/encoder"
)

func TestEstimateCooper(t *testing.T) {
	// 2800 m in 12 minutes, male: (2800 - 504.9) / 44.73.
	got := EstimateCooper(2800, 12, "male")
	assert.InDelta(t, (2800-504.9)/44.73, got, 1e-9)

	// Female and averaged offsets differ slightly.
	assert.InDelta(t, (2800-504.1)/44.73, EstimateCooper(2800, 12, "female"), 1e-9)
	assert.InDelta(t, (2800-504.5)/44.73, EstimateCooper(2800, 12, "other"), 1e-9)
}

func TestEstimateCooper_ScalesToTwelveMinutes(t *testing.T) {
	// 1400 m in 6 minutes projects to 2800 m over 12.
	assert.InDelta(t, EstimateCooper(2800, 12, "male"), EstimateCooper(1400, 6, "male"), 1e-9)
}

func TestEstimateCooper_FlooredAtZero(t *testing.T) {
	assert.Zero(t, EstimateCooper(100, 12, "male"))
	assert.Zero(t, EstimateCooper(2800, 0, "male"))
}

func TestEstimateHeartRateRatio(t *testing.T) {
	got, ok := EstimateHeartRateRatio(180, 70)
	require.True(t, ok)
	assert.InDelta(t, 15.3*180/70, got, 1e-9)

	_, ok = EstimateHeartRateRatio(180, 0)
	assert.False(t, ok)
}

func TestEstimateFromSession_FallbackChain(t *testing.T) {
	subject := Subject{Gender: "male", Age: 30}

	t.Run("run with distance uses Cooper", func(t *testing.T) {
		s := encoder.Session{ActivityType: encoder.ActivityRun, Duration: 12, Distance: 2.8}
		got, ok := EstimateFromSession(s, subject)

		require.True(t, ok)
		assert.InDelta(t, EstimateCooper(2800, 12, "male"), got, 1e-9)
	})

	t.Run("max heart rate uses the ratio formula", func(t *testing.T) {
		s := encoder.Session{ActivityType: encoder.ActivityCycle, Duration: 45, HeartRateMax: 175}
		got, ok := EstimateFromSession(s, subject)

		require.True(t, ok)
		assert.InDelta(t, 15.3*175/70, got, 1e-9)
	})

	t.Run("age alone derives a max heart rate", func(t *testing.T) {
		s := encoder.Session{ActivityType: encoder.ActivityWalk, Duration: 30}
		got, ok := EstimateFromSession(s, subject)

		require.True(t, ok)
		assert.InDelta(t, 15.3*(208-0.7*30)/70, got, 1e-9)
	})

	t.Run("nothing to go on", func(t *testing.T) {
		_, ok := EstimateFromSession(encoder.Session{}, Subject{})
		assert.False(t, ok)
	})
}

func TestBenefits(t *testing.T) {
	assert.Contains(t, Benefits(25, true), "room for improvement")
	assert.Contains(t, Benefits(35, true), "Moderate VO2 max")
	assert.Contains(t, Benefits(45, true), "Good VO2 max")
	assert.Equal(t, "Unable to estimate VO2 max.", Benefits(0, false))
}
