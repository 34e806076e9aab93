package sqlite

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/airwave/airwave/store"
)

// UpsertSessionEmbedding inserts or updates a session embedding. The vector
// is stored as a little-endian float32 BLOB.
func (d *DB) UpsertSessionEmbedding(ctx context.Context, embedding *store.SessionEmbedding) (*store.SessionEmbedding, error) {
	vectorBLOB, err := float32ArrayToBLOB(embedding.Embedding)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert embedding vector to BLOB")
	}

	metadata, err := json.Marshal(embedding.Metadata)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal session metadata")
	}

	now := time.Now().Unix()
	if embedding.CreatedTs == 0 {
		embedding.CreatedTs = now
	}
	embedding.UpdatedTs = now

	stmt := `INSERT INTO session_embedding (id, user_id, embedding, metadata, document, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			user_id = excluded.user_id,
			embedding = excluded.embedding,
			metadata = excluded.metadata,
			document = excluded.document,
			updated_ts = excluded.updated_ts
		RETURNING created_ts, updated_ts`

	err = d.db.QueryRowContext(ctx, stmt,
		embedding.ID,
		embedding.UserID,
		vectorBLOB,
		string(metadata),
		embedding.Document,
		embedding.CreatedTs,
		embedding.UpdatedTs,
	).Scan(&embedding.CreatedTs, &embedding.UpdatedTs)

	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert session embedding")
	}

	return embedding, nil
}

// SessionVectorSearch performs vector similarity search with an
// application-layer cosine distance scan over the user's rows.
func (d *DB) SessionVectorSearch(ctx context.Context, opts *store.SessionVectorSearchOptions) ([]*store.SessionWithDistance, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT id, metadata, embedding FROM session_embedding WHERE user_id = ?`
	rows, err := d.db.QueryContext(ctx, query, opts.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to session vector search")
	}
	defer rows.Close()

	results := []*store.SessionWithDistance{}
	for rows.Next() {
		var result store.SessionWithDistance
		var metadata string
		var vectorBLOB []byte

		if err := rows.Scan(&result.ID, &metadata, &vectorBLOB); err != nil {
			return nil, errors.Wrap(err, "failed to scan session vector search result")
		}
		if err := json.Unmarshal([]byte(metadata), &result.Metadata); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal session metadata")
		}

		embedding, err := blobToFloat32Array(vectorBLOB)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to convert embedding BLOB for session %s", result.ID)
		}

		result.Distance = cosineDistance(opts.Vector, embedding)
		results = append(results, &result)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rank by distance ascending; ties break on id for stable ordering.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ID < results[j].ID
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// ListSessionMetadata lists stored session metadata in insertion order.
func (d *DB) ListSessionMetadata(ctx context.Context, find *store.FindSessionMetadata) ([]*store.SessionRef, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.UserID != nil {
		where, args = append(where, "user_id = ?"), append(args, *find.UserID)
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
		var metadata string

		if err := rows.Scan(&ref.ID, &metadata, &ref.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan session metadata")
		}
		if err := json.Unmarshal([]byte(metadata), &ref.Metadata); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal session metadata")
		}

		list = append(list, &ref)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// float32ArrayToBLOB converts a float32 vector to a little-endian BLOB.
func float32ArrayToBLOB(vec []float32) ([]byte, error) {
	if len(vec) != store.EmbeddingDim {
		return nil, errors.Errorf("invalid vector dimension: got %d, want %d", len(vec), store.EmbeddingDim)
	}

	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	return buf, nil
}

// blobToFloat32Array converts a BLOB back to a float32 vector. This is the
// inverse of float32ArrayToBLOB.
func blobToFloat32Array(blob []byte) ([]float32, error) {
	expectedLen := store.EmbeddingDim * 4
	if len(blob) != expectedLen {
		return nil, errors.Errorf("invalid BLOB length: got %d, want %d", len(blob), expectedLen)
	}

	vec := make([]float32, store.EmbeddingDim)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4 : i*4+4]))
	}
	return vec, nil
}

// cosineDistance computes 1 - cosine similarity between two vectors,
// matching pgvector's <=> operator. Zero-norm vectors are treated as
// maximally distant from everything.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return 1
	}

	var dotProduct, normA, normB float64
	for i := 0; i < len(a); i++ {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 1
	}

	return 1 - dotProduct/(math.Sqrt(normA)*math.Sqrt(normB))
}
