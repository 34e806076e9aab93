// Package similarity answers "find sessions like this one" queries against
// the session vector index.
package similarity

import (
	"context"

	"github.com/pkg/errors"

	"github.com/airwave/airwave/fitness/encoder"
	"github.com/airwave/airwave/store"
)

const (
	// DefaultLimit is used when the caller passes a non-positive limit.
	DefaultLimit = 5
	// MaxLimit caps how many results a single query may request.
	MaxLimit = 20

	// overFetch is the extra neighbor margin requested from the index. No
	// post-filtering happens today; the margin is reserved for future
	// predicates so adding one doesn't change retrieval depth.
	overFetch = 10
)

// Searcher is the slice of the store this service needs.
type Searcher interface {
	SessionVectorSearch(ctx context.Context, opts *store.SessionVectorSearchOptions) ([]*store.SessionWithDistance, error)
}

// Result is one similar-session hit. Score is 1 minus the index's cosine
// distance; 1 means identical. It is deliberately not clamped, so callers
// must tolerate values outside [0,1] if the distance metric is unbounded.
type Result struct {
	ID             string  `json:"id"`
	Score          float64 `json:"similarity_score"`
	ActivityType   string  `json:"activity_type"`
	Duration       float64 `json:"duration"`
	Distance       float64 `json:"distance"`
	Intensity      string  `json:"intensity"`
	Date           string  `json:"date"`
	VO2MaxEstimate float64 `json:"vo2max_estimate"`
}

// Service performs user-scoped nearest-neighbor retrieval.
type Service struct {
	store Searcher
}

func NewService(store Searcher) *Service {
	return &Service{store: store}
}

// FindSimilar returns up to limit sessions most similar to the query
// vector, best match first. A user with no stored history yields an empty
// slice, not an error.
func (s *Service) FindSimilar(ctx context.Context, userID string, vector encoder.FeatureVector, limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	hits, err := s.store.SessionVectorSearch(ctx, &store.SessionVectorSearchOptions{
		Vector: vector,
		Limit:  limit + overFetch,
		UserID: userID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to search similar sessions")
	}

	results := make([]*Result, 0, len(hits))
	for _, hit := range hits {
		if len(results) == limit {
			break
		}
		results = append(results, &Result{
			ID:             hit.ID,
			Score:          1 - hit.Distance,
			ActivityType:   hit.Metadata.ActivityType,
			Duration:       hit.Metadata.Duration,
			Distance:       hit.Metadata.Distance,
			Intensity:      hit.Metadata.Intensity,
			Date:           hit.Metadata.Date,
			VO2MaxEstimate: hit.Metadata.VO2MaxEstimate,
		})
	}

	return results, nil
}
