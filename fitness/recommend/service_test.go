package recommend

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airwave/airwave/fitness/patterns"
)

type fakeAnalyzer struct {
	report *patterns.Report
	err    error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ string) (*patterns.Report, error) {
	return f.report, f.err
}

func emptyHistory() *fakeAnalyzer {
	return &fakeAnalyzer{report: &patterns.Report{}}
}

func containsPrefix(t *testing.T, recs []string, prefix string) bool {
	t.Helper()
	for _, r := range recs {
		if strings.HasPrefix(r, prefix) {
			return true
		}
	}
	return false
}

func TestRecommend_VO2MaxGoalBranches(t *testing.T) {
	svc := NewService(emptyHistory())

	low, err := svc.Recommend(context.Background(), "u1", []string{GoalImproveVO2Max}, FitnessLevel{VO2MaxEstimate: 30})
	require.NoError(t, err)
	assert.True(t, containsPrefix(t, low, "VO2 Max Focus"))

	high, err := svc.Recommend(context.Background(), "u1", []string{GoalImproveVO2Max}, FitnessLevel{VO2MaxEstimate: 42})
	require.NoError(t, err)
	assert.True(t, containsPrefix(t, high, "VO2 Max Maintenance"))

	// Unknown current VO2 max defaults to 35, landing on maintenance.
	unknown, err := svc.Recommend(context.Background(), "u1", []string{GoalImproveVO2Max}, FitnessLevel{})
	require.NoError(t, err)
	assert.True(t, containsPrefix(t, unknown, "VO2 Max Maintenance"))
}

func TestRecommend_EnduranceGoalBranches(t *testing.T) {
	svc := NewService(emptyHistory())

	low, err := svc.Recommend(context.Background(), "u1", []string{GoalBuildEndurance}, FitnessLevel{AvgWeeklyDistance: 10})
	require.NoError(t, err)
	assert.True(t, containsPrefix(t, low, "Endurance Building"))

	high, err := svc.Recommend(context.Background(), "u1", []string{GoalBuildEndurance}, FitnessLevel{AvgWeeklyDistance: 40})
	require.NoError(t, err)
	assert.True(t, containsPrefix(t, high, "Endurance Maintenance"))
}

func TestRecommend_WeightGoalAndUnknownGoals(t *testing.T) {
	svc := NewService(emptyHistory())

	recs, err := svc.Recommend(context.Background(), "u1", []string{GoalLoseWeight, "run_marathon"}, FitnessLevel{})

	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, containsPrefix(t, recs, "Weight Management"))
}

func TestRecommend_HistoryDerivedAdditions(t *testing.T) {
	analyzer := &fakeAnalyzer{report: &patterns.Report{
		Stats: patterns.Stats{
			TotalSessions: 6,
			ActivityTypes: []string{"run"},
			AvgIntensity:  0.5,
		},
	}}
	svc := NewService(analyzer)

	recs, err := svc.Recommend(context.Background(), "u1", nil, FitnessLevel{})

	require.NoError(t, err)
	assert.True(t, containsPrefix(t, recs, "Cross-Training"))
	assert.True(t, containsPrefix(t, recs, "Progressive Overload"))
}

func TestRecommend_NoHistoryNoAdditions(t *testing.T) {
	svc := NewService(emptyHistory())

	recs, err := svc.Recommend(context.Background(), "u1", nil, FitnessLevel{})

	require.NoError(t, err)
	assert.Empty(t, recs)
}
