// Package store provides the session vector index used by the fitness
// intelligence core. A Store wraps a Driver (postgres with pgvector, or
// sqlite for development) and owns its lifecycle: the host process opens it
// on startup, runs Migrate once, and closes it on shutdown.
package store

import (
	"context"

	"github.com/airwave/airwave/internal/profile"
)

// Store provides access to the session vector index.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

// Migrate applies the session index schema.
func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// UpsertSessionEmbedding writes one session vector, overwriting on ID collision.
func (s *Store) UpsertSessionEmbedding(ctx context.Context, embedding *SessionEmbedding) (*SessionEmbedding, error) {
	return s.driver.UpsertSessionEmbedding(ctx, embedding)
}

// SessionVectorSearch performs a user-scoped nearest-neighbor search.
func (s *Store) SessionVectorSearch(ctx context.Context, opts *SessionVectorSearchOptions) ([]*SessionWithDistance, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return s.driver.SessionVectorSearch(ctx, opts)
}

// ListSessionMetadata scans all stored metadata matching the filter.
func (s *Store) ListSessionMetadata(ctx context.Context, find *FindSessionMetadata) ([]*SessionRef, error) {
	return s.driver.ListSessionMetadata(ctx, find)
}
