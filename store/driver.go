package store

import "context"

// Driver is the vector index capability required by the fitness core.
// Implementations live under store/db and must not leak engine-specific
// error types: failures are wrapped with a driver-neutral message before
// crossing this boundary.
type Driver interface {
	// UpsertSessionEmbedding writes one session vector. The write is
	// idempotent: an existing ID is overwritten.
	UpsertSessionEmbedding(ctx context.Context, embedding *SessionEmbedding) (*SessionEmbedding, error)

	// SessionVectorSearch returns up to Limit nearest neighbors of the query
	// vector, restricted to the given user, ordered by increasing distance.
	// Ordering is stable within a call (ties break on ID).
	SessionVectorSearch(ctx context.Context, opts *SessionVectorSearchOptions) ([]*SessionWithDistance, error)

	// ListSessionMetadata scans all stored metadata matching the filter, in
	// insertion order. No ranking is applied.
	ListSessionMetadata(ctx context.Context, find *FindSessionMetadata) ([]*SessionRef, error)

	Migrate(ctx context.Context) error

	Close() error
}
