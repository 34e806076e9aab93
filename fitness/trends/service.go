// Package trends classifies the direction of a user's tracked fitness
// metric over their stored session history.
package trends

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/airwave/airwave/store"
)

// Direction classifications.
const (
	DirectionImproving        = "improving"
	DirectionPlateauing       = "plateauing"
	DirectionInsufficientData = "insufficient_data"
)

// MetricVO2Max is the only metric with a real series behind it today.
const MetricVO2Max = "vo2max"

// DefaultTimeframeWeeks labels reports when the caller passes no timeframe.
const DefaultTimeframeWeeks = 12

// MinSamples is the number of non-zero samples required for a
// classification.
const MinSamples = 3

// Report is the outcome of one trend analysis.
type Report struct {
	Metric         string  `json:"metric"`
	TimeframeWeeks int     `json:"timeframe_weeks"`
	Direction      string  `json:"direction"`
	AvgDelta       float64 `json:"avg_delta"`
	SampleCount    int     `json:"sample_count"`
	Current        float64 `json:"current"`
	NextMilestone  float64 `json:"next_milestone"`
	Note           string  `json:"note,omitempty"`
}

// Lister is the slice of the store this service needs.
type Lister interface {
	ListSessionMetadata(ctx context.Context, find *store.FindSessionMetadata) ([]*store.SessionRef, error)
}

// Service computes trend reports from stored metadata.
type Service struct {
	store Lister
}

func NewService(store Lister) *Service {
	return &Service{store: store}
}

// PredictTrend classifies the user's aerobic-capacity trajectory.
//
// Whatever metric name is requested, only the aerobic-capacity series is
// computed today; the report echoes the requested name as a label. The same
// goes for timeframeWeeks: it labels the report but does not gate which
// samples are included. Both are known gaps awaiting product direction.
//
// Fewer than MinSamples non-zero samples yields an insufficient-data report,
// not an error. Direction is improving only when the last sample strictly
// exceeds the first; equal endpoints classify as plateauing.
func (s *Service) PredictTrend(ctx context.Context, userID, metric string, timeframeWeeks int) (*Report, error) {
	if metric == "" {
		metric = MetricVO2Max
	}
	if timeframeWeeks <= 0 {
		timeframeWeeks = DefaultTimeframeWeeks
	}

	refs, err := s.store.ListSessionMetadata(ctx, &store.FindSessionMetadata{UserID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list session metadata")
	}

	series := []float64{}
	for _, ref := range refs {
		if ref.Metadata.VO2MaxEstimate > 0 {
			series = append(series, ref.Metadata.VO2MaxEstimate)
		}
	}

	report := &Report{
		Metric:         metric,
		TimeframeWeeks: timeframeWeeks,
		SampleCount:    len(series),
	}

	if len(series) < MinSamples {
		report.Direction = DirectionInsufficientData
		report.Note = fmt.Sprintf("only %d data points available; need at least %d for meaningful trend analysis", len(series), MinSamples)
		return report, nil
	}

	first, last := series[0], series[len(series)-1]

	report.Direction = DirectionPlateauing
	if last > first {
		report.Direction = DirectionImproving
	}
	report.AvgDelta = (last - first) / float64(len(series))
	report.Current = last
	report.NextMilestone = last + 2

	return report, nil
}
