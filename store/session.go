package store

import (
	"github.com/pkg/errors"
)

// EmbeddingDim is the fixed dimension of session feature vectors.
const EmbeddingDim = 10

// SessionMetadata is the denormalized session record stored alongside each
// vector. Fields mirror the ingested session; UserID always equals the owning
// SessionEmbedding's UserID.
type SessionMetadata struct {
	UserID         string  `json:"user_id"`
	ActivityType   string  `json:"activity_type"`
	Duration       float64 `json:"duration"`
	Distance       float64 `json:"distance"`
	HeartRateAvg   float64 `json:"heart_rate_avg"`
	HeartRateMax   float64 `json:"heart_rate_max"`
	Intensity      string  `json:"intensity"`
	Date           string  `json:"date"`
	VO2MaxEstimate float64 `json:"vo2max_estimate"`
}

// SessionEmbedding is one stored session: a feature vector plus its metadata
// and a human-readable document. IDs are unique within the index; upserting
// an existing ID overwrites it.
type SessionEmbedding struct {
	ID        string
	UserID    string
	Embedding []float32
	Metadata  SessionMetadata
	Document  string
	CreatedTs int64
	UpdatedTs int64
}

// SessionRef is an (id, metadata) pair returned by full metadata scans.
type SessionRef struct {
	ID        string
	Metadata  SessionMetadata
	CreatedTs int64
}

// SessionWithDistance is one vector search hit. Distance is the backend's
// native distance (cosine distance for both drivers); lower is more similar.
type SessionWithDistance struct {
	ID       string
	Metadata SessionMetadata
	Distance float64
}

// FindSessionMetadata is the find condition for metadata scans.
type FindSessionMetadata struct {
	UserID *string
}

// SessionVectorSearchOptions represents the options for session vector search.
type SessionVectorSearchOptions struct {
	Vector []float32
	Limit  int
	UserID string
}

// Validate validates the SessionVectorSearchOptions.
func (o *SessionVectorSearchOptions) Validate() error {
	if o.UserID == "" {
		return errors.New("user id cannot be empty")
	}
	if len(o.Vector) == 0 {
		return errors.New("vector cannot be empty")
	}
	if o.Limit < 0 {
		return errors.Errorf("limit cannot be negative: %d", o.Limit)
	}
	if o.Limit == 0 {
		o.Limit = 10 // Default limit
	}
	if o.Limit > 1000 {
		return errors.Errorf("limit too large (max 1000): %d", o.Limit)
	}
	return nil
}
