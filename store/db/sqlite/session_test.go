package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airwave/airwave/internal/profile"
	"github.com/airwave/airwave/store"
)

func newTestDB(t *testing.T) store.Driver {
	t.Helper()

	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "airwave_test.db"),
	}
	driver, err := NewDB(p)
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })

	require.NoError(t, driver.Migrate(context.Background()))
	return driver
}

func testEmbedding(id, userID string, vec []float32) *store.SessionEmbedding {
	return &store.SessionEmbedding{
		ID:        id,
		UserID:    userID,
		Embedding: vec,
		Metadata: store.SessionMetadata{
			UserID:         userID,
			ActivityType:   "run",
			Duration:       30,
			Distance:       5,
			Intensity:      "moderate",
			VO2MaxEstimate: 38,
		},
		Document: "run session: 30 min, 5.0 km",
	}
}

func unitVector(hot int) []float32 {
	vec := make([]float32, store.EmbeddingDim)
	vec[hot] = 1
	return vec
}

func TestSessionVectorSearch_RoundTrip(t *testing.T) {
	ctx := context.Background()
	driver := newTestDB(t)

	own := unitVector(0)
	_, err := driver.UpsertSessionEmbedding(ctx, testEmbedding("u1_s1", "u1", own))
	require.NoError(t, err)
	_, err = driver.UpsertSessionEmbedding(ctx, testEmbedding("u1_s2", "u1", unitVector(1)))
	require.NoError(t, err)

	results, err := driver.SessionVectorSearch(ctx, &store.SessionVectorSearchOptions{
		Vector: own,
		Limit:  5,
		UserID: "u1",
	})

	require.NoError(t, err)
	require.Len(t, results, 2)
	// Searching with a stored session's own vector returns it first at
	// distance 0, i.e. similarity 1.
	assert.Equal(t, "u1_s1", results[0].ID)
	assert.InDelta(t, 0, results[0].Distance, 1e-6)
	assert.Less(t, results[0].Distance, results[1].Distance)
	assert.Equal(t, "u1", results[0].Metadata.UserID)
}

func TestSessionVectorSearch_ScopedToUser(t *testing.T) {
	ctx := context.Background()
	driver := newTestDB(t)

	vec := unitVector(0)
	_, err := driver.UpsertSessionEmbedding(ctx, testEmbedding("u1_s1", "u1", vec))
	require.NoError(t, err)
	_, err = driver.UpsertSessionEmbedding(ctx, testEmbedding("u2_s1", "u2", vec))
	require.NoError(t, err)

	results, err := driver.SessionVectorSearch(ctx, &store.SessionVectorSearchOptions{
		Vector: vec,
		Limit:  5,
		UserID: "u1",
	})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "u1_s1", results[0].ID)
}

func TestSessionVectorSearch_NoHistory(t *testing.T) {
	ctx := context.Background()
	driver := newTestDB(t)

	results, err := driver.SessionVectorSearch(ctx, &store.SessionVectorSearchOptions{
		Vector: unitVector(0),
		Limit:  5,
		UserID: "nobody",
	})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestUpsertSessionEmbedding_OverwritesOnSameID(t *testing.T) {
	ctx := context.Background()
	driver := newTestDB(t)

	_, err := driver.UpsertSessionEmbedding(ctx, testEmbedding("u1_s1", "u1", unitVector(0)))
	require.NoError(t, err)

	updated := testEmbedding("u1_s1", "u1", unitVector(2))
	updated.Metadata.ActivityType = "cycle"
	_, err = driver.UpsertSessionEmbedding(ctx, updated)
	require.NoError(t, err)

	userID := "u1"
	refs, err := driver.ListSessionMetadata(ctx, &store.FindSessionMetadata{UserID: &userID})
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "cycle", refs[0].Metadata.ActivityType)
}

func TestListSessionMetadata_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	driver := newTestDB(t)

	for i, id := range []string{"u1_a", "u1_b", "u1_c"} {
		e := testEmbedding(id, "u1", unitVector(i))
		e.CreatedTs = int64(100 + i)
		_, err := driver.UpsertSessionEmbedding(ctx, e)
		require.NoError(t, err)
	}

	userID := "u1"
	refs, err := driver.ListSessionMetadata(ctx, &store.FindSessionMetadata{UserID: &userID})

	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.Equal(t, "u1_a", refs[0].ID)
	assert.Equal(t, "u1_c", refs[2].ID)
}

func TestCosineDistance(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{0, 1, 0}

	assert.InDelta(t, 0, cosineDistance(a, a), 1e-9)
	assert.InDelta(t, 1, cosineDistance(a, b), 1e-9)
	assert.InDelta(t, 1, cosineDistance(a, []float32{0, 0, 0}), 1e-9)
	assert.InDelta(t, 2, cosineDistance(a, []float32{-1, 0, 0}), 1e-9)
}
