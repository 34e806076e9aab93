// Package recommend generates goal-driven workout recommendations, blending
// the caller's stated goals and fitness profile with the user's analyzed
// history.
package recommend

import (
	"context"

	"github.com/pkg/errors"

	"github.com/airwave/airwave/fitness/patterns"
)

// Supported fitness goals.
const (
	GoalImproveVO2Max  = "improve_vo2max"
	GoalBuildEndurance = "build_endurance"
	GoalLoseWeight     = "lose_weight"
)

// FitnessLevel describes the user's current metrics as reported by the
// caller. Zero values mean unknown.
type FitnessLevel struct {
	VO2MaxEstimate      float64  `json:"vo2max_estimate"`
	AvgWeeklyDistance   float64  `json:"avg_weekly_distance"`
	PreferredActivities []string `json:"preferred_activities"`
	ExperienceLevel     string   `json:"experience_level"`
}

// Analyzer is the slice of the pattern service this service needs.
type Analyzer interface {
	Analyze(ctx context.Context, userID string) (*patterns.Report, error)
}

// Service produces recommendation lists.
type Service struct {
	patterns Analyzer
}

func NewService(patterns Analyzer) *Service {
	return &Service{patterns: patterns}
}

// Recommend builds an ordered recommendation list for the user. Goal rules
// fire first in the order goals were given, then history-derived rules from
// the pattern analysis. Unknown goals are ignored.
func (s *Service) Recommend(ctx context.Context, userID string, goals []string, current FitnessLevel) ([]string, error) {
	recommendations := []string{}

	for _, goal := range goals {
		switch goal {
		case GoalImproveVO2Max:
			vo2 := current.VO2MaxEstimate
			if vo2 == 0 {
				vo2 = 35
			}
			if vo2 < 35 {
				recommendations = append(recommendations,
					"VO2 Max Focus: incorporate 2-3 sessions of 20-30 minute continuous running at moderate intensity (70-80% max HR) weekly.")
			} else {
				recommendations = append(recommendations,
					"VO2 Max Maintenance: continue with interval training mixing high-intensity efforts with recovery periods.")
			}
		case GoalBuildEndurance:
			if current.AvgWeeklyDistance < 20 {
				recommendations = append(recommendations,
					"Endurance Building: gradually increase weekly distance by 10% per week, focusing on long, slow distance sessions.")
			} else {
				recommendations = append(recommendations,
					"Endurance Maintenance: include one long workout (2-3x normal distance) weekly to maintain your aerobic base.")
			}
		case GoalLoseWeight:
			recommendations = append(recommendations,
				"Weight Management: combine moderate-intensity cardio (45-60 min) with strength training 3-4x weekly for optimal calorie burn.")
		}
	}

	analysis, err := s.patterns.Analyze(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to analyze history for recommendations")
	}

	if analysis.Stats.TotalSessions > 0 {
		if len(analysis.Stats.ActivityTypes) == 1 {
			recommendations = append(recommendations,
				"Cross-Training: add variety to prevent overuse injuries and improve overall fitness.")
		}
		if analysis.Stats.AvgIntensity < 0.8 {
			recommendations = append(recommendations,
				"Progressive Overload: gradually increase workout intensity every 1-2 weeks to continue improving.")
		}
	}

	return recommendations, nil
}
