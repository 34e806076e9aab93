package postgres

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/airwave/airwave/store"
)

// UpsertSessionEmbedding inserts or updates a session embedding.
func (d *DB) UpsertSessionEmbedding(ctx context.Context, embedding *store.SessionEmbedding) (*store.SessionEmbedding, error) {
	now := time.Now().Unix()
	if embedding.CreatedTs == 0 {
		embedding.CreatedTs = now
	}
	embedding.UpdatedTs = now

	metadata, err := json.Marshal(embedding.Metadata)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal session metadata")
	}

	stmt := `
		INSERT INTO session_embedding (id, user_id, embedding, metadata, document, created_ts, updated_ts)
		VALUES (` + placeholders(7) + `)
		ON CONFLICT (id)
		DO UPDATE SET
			user_id = EXCLUDED.user_id,
			embedding = EXCLUDED.embedding,
			metadata = EXCLUDED.metadata,
			document = EXCLUDED.document,
			updated_ts = EXCLUDED.updated_ts
		RETURNING created_ts, updated_ts
	`

	vector := pgvector.NewVector(embedding.Embedding)
	err = d.db.QueryRowContext(ctx, stmt,
		embedding.ID,
		embedding.UserID,
		vector,
		metadata,
		embedding.Document,
		embedding.CreatedTs,
		embedding.UpdatedTs,
	).Scan(&embedding.CreatedTs, &embedding.UpdatedTs)

	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert session embedding")
	}

	return embedding, nil
}

// SessionVectorSearch performs vector similarity search using pgvector.
// The <=> operator computes cosine distance, so ordering by it ascending
// yields most similar first. Ties break on id to keep ordering stable.
func (d *DB) SessionVectorSearch(ctx context.Context, opts *store.SessionVectorSearchOptions) ([]*store.SessionWithDistance, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT
			id, metadata, embedding <=> ` + placeholder(1) + ` AS distance
		FROM session_embedding
		WHERE user_id = ` + placeholder(2) + `
		ORDER BY distance, id
		LIMIT ` + placeholder(3)

	vector := pgvector.NewVector(opts.Vector)
	rows, err := d.db.QueryContext(ctx, query, vector, opts.UserID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to session vector search")
	}
	defer rows.Close()

	results := []*store.SessionWithDistance{}
	for rows.Next() {
		var result store.SessionWithDistance
		var metadata []byte

		if err := rows.Scan(&result.ID, &metadata, &result.Distance); err != nil {
			return nil, errors.Wrap(err, "failed to scan session vector search result")
		}
		if err := json.Unmarshal(metadata, &result.Metadata); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal session metadata")
		}

		results = append(results, &result)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// ListSessionMetadata lists stored session metadata in insertion order.
func (d *DB) ListSessionMetadata(ctx context.Context, find *store.FindSessionMetadata) ([]*store.SessionRef, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.UserID != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *find.UserID)
	}

	query := `
		SELECT id, metadata, created_ts
		FROM session_embedding
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts ASC, id ASC
	`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list session metadata")
	}
	defer rows.Close()

	list := []*store.SessionRef{}
	for rows.Next() {
		var ref store.SessionRef
		var metadata []byte

		if err := rows.Scan(&ref.ID, &metadata, &ref.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan session metadata")
		}
		if err := json.Unmarshal(metadata, &ref.Metadata); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal session metadata")
		}

		list = append(list, &ref)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}
