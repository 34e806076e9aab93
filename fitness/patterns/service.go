// Package patterns derives qualitative insights and recommendations from a
// user's stored session history. The "model" is deliberately a set of small
// ordered rule tables, one per dimension, so individual thresholds stay
// testable and extensible without touching control flow.
package patterns

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/airwave/airwave/fitness/encoder"
	"github.com/airwave/airwave/store"
)

// OnboardingInsight is the single insight returned for users with no
// history yet.
const OnboardingInsight = "Start logging workouts to get personalized AI insights!"

// Stats summarizes a user's history; it is always populated, rules or not.
type Stats struct {
	TotalSessions int       `json:"total_sessions"`
	ActivityTypes []string  `json:"activity_types"`
	AvgIntensity  float64   `json:"avg_intensity"`
	RecentVO2Max  []float64 `json:"recent_vo2max"`
}

// Report is the outcome of one pattern analysis. It is recomputed on every
// call; the service holds no cached state.
type Report struct {
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
	Stats           Stats    `json:"stats"`
}

// Lister is the slice of the store this service needs.
type Lister interface {
	ListSessionMetadata(ctx context.Context, find *store.FindSessionMetadata) ([]*store.SessionRef, error)
}

// Service computes pattern reports from stored metadata.
type Service struct {
	store Lister
}

func NewService(store Lister) *Service {
	return &Service{store: store}
}

// facts are the derived quantities the rule tables fire on.
type facts struct {
	total         int
	activityCount int
	avgIntensity  float64
	vo2Samples    int     // non-zero samples, stored order
	vo2RecentAvg  float64 // mean of the last <=3 non-zero samples
}

type outcome int

const (
	insight outcome = iota
	recommendation
)

type rule struct {
	applies func(f *facts) bool
	out     outcome
	message string
}

// All rules are additive: every qualifying rule fires and none suppresses
// another. Gaps are intentional and preserved: exactly 2 activity types and
// a recent VO2max between 30 and 35 trigger nothing.
var (
	volumeRules = []rule{
		{func(f *facts) bool { return f.total < 3 }, insight,
			"You're just getting started! Keep logging workouts to build momentum."},
		{func(f *facts) bool { return f.total >= 3 && f.total < 10 }, insight,
			"Great progress! You're building a consistent workout habit."},
		{func(f *facts) bool { return f.total >= 10 }, insight,
			"Impressive consistency! Your training history shows real dedication."},
	}

	diversityRules = []rule{
		{func(f *facts) bool { return f.activityCount == 1 }, recommendation,
			"Consider cross-training with other activities to prevent overuse injuries."},
		{func(f *facts) bool { return f.activityCount >= 3 }, insight,
			"Excellent activity variety! Mixing disciplines builds balanced fitness."},
	}

	intensityRules = []rule{
		{func(f *facts) bool { return f.avgIntensity < 0.8 }, recommendation,
			"Try gradually increasing workout intensity to keep improving."},
		{func(f *facts) bool { return f.avgIntensity > 1.5 }, recommendation,
			"Make sure to schedule recovery sessions to avoid overtraining."},
	}

	capacityRules = []rule{
		{func(f *facts) bool { return f.vo2Samples >= 2 && f.vo2RecentAvg > 40 }, insight,
			"Your aerobic capacity is in the top tier. Keep up the excellent work!"},
		{func(f *facts) bool { return f.vo2Samples >= 2 && f.vo2RecentAvg > 35 && f.vo2RecentAvg <= 40 }, insight,
			"Good aerobic capacity! Consistent training is paying off."},
		{func(f *facts) bool { return f.vo2Samples > 5 && f.vo2RecentAvg < 30 }, recommendation,
			"Focus on aerobic base training to raise your VO2 max over time."},
	}

	ruleTables = [][]rule{volumeRules, diversityRules, intensityRules, capacityRules}
)

// Analyze reads all of the user's stored metadata and derives a pattern
// report. Zero stored sessions is not an error: the report then carries
// exactly one onboarding insight and no recommendations.
func (s *Service) Analyze(ctx context.Context, userID string) (*Report, error) {
	refs, err := s.store.ListSessionMetadata(ctx, &store.FindSessionMetadata{UserID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list session metadata")
	}

	report := &Report{
		Insights:        []string{},
		Recommendations: []string{},
	}

	if len(refs) == 0 {
		report.Insights = append(report.Insights, OnboardingInsight)
		report.Stats.ActivityTypes = []string{}
		report.Stats.RecentVO2Max = []float64{}
		return report, nil
	}

	f, stats := derive(refs)
	report.Stats = stats

	for _, table := range ruleTables {
		for _, r := range table {
			if !r.applies(f) {
				continue
			}
			switch r.out {
			case insight:
				report.Insights = append(report.Insights, r.message)
			case recommendation:
				report.Recommendations = append(report.Recommendations, r.message)
			}
		}
	}

	return report, nil
}

func derive(refs []*store.SessionRef) (*facts, Stats) {
	activities := map[string]struct{}{}
	intensitySum := 0.0
	vo2Series := []float64{}

	for _, ref := range refs {
		activities[ref.Metadata.ActivityType] = struct{}{}
		intensitySum += encoder.ParseIntensity(ref.Metadata.Intensity).Ordinal()
		if ref.Metadata.VO2MaxEstimate > 0 {
			vo2Series = append(vo2Series, ref.Metadata.VO2MaxEstimate)
		}
	}

	avgIntensity := intensitySum / float64(len(refs))

	f := &facts{
		total:         len(refs),
		activityCount: len(activities),
		avgIntensity:  avgIntensity,
		vo2Samples:    len(vo2Series),
		vo2RecentAvg:  tailMean(vo2Series, 3),
	}

	activityTypes := make([]string, 0, len(activities))
	for a := range activities {
		activityTypes = append(activityTypes, a)
	}
	sort.Strings(activityTypes)

	stats := Stats{
		TotalSessions: len(refs),
		ActivityTypes: activityTypes,
		AvgIntensity:  avgIntensity,
		RecentVO2Max:  tail(vo2Series, 5),
	}

	return f, stats
}

// tail returns the last n elements (fewer if unavailable), copied.
func tail(series []float64, n int) []float64 {
	if len(series) > n {
		series = series[len(series)-n:]
	}
	out := make([]float64, len(series))
	copy(out, series)
	return out
}

// tailMean averages the last n elements; zero if the series is empty.
func tailMean(series []float64, n int) float64 {
	t := tail(series, n)
	if len(t) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range t {
		sum += v
	}
	return sum / float64(len(t))
}
