//go:build integration

package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollinet/knowledgebot/internal/log"
	"github.com/pollinet/knowledgebot/internal/store"
	"github.com/pollinet/knowledgebot/internal/testutil"
)

// testVector builds a unit-ish vector whose direction is controlled by seed,
// so cosine distance between different seeds is predictable and nonzero.
func testVector(seed int) []float32 {
	v := make([]float32, store.VectorDimension)
	for i := range v {
		v[i] = 0.001
	}
	v[seed%store.VectorDimension] = 1
	return v
}

func TestStore_UpsertAndSearch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	tdb := testutil.SetupTestDB(t)
	s := store.New(tdb.Pool, log.NewNop())

	for i := 0; i < 3; i++ {
		err := s.Upsert(ctx, store.Chunk{
			ID:        fmt.Sprintf("doc_%d", i),
			Content:   fmt.Sprintf("content number %d", i),
			Embedding: testVector(i),
			Metadata:  map[string]string{"source": "test"},
		})
		require.NoError(t, err)
	}

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	// The query vector points the same way as doc_1, so doc_1 must rank first.
	results, err := s.Search(ctx, testVector(1), 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "content number 1", results[0])
}

func TestStore_UpsertIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	tdb := testutil.SetupTestDB(t)
	s := store.New(tdb.Pool, log.NewNop())

	chunk := store.Chunk{
		ID:        "same_id",
		Content:   "original content",
		Embedding: testVector(0),
	}
	require.NoError(t, s.Upsert(ctx, chunk))

	var firstCreated string
	require.NoError(t, tdb.Pool.QueryRow(ctx,
		"SELECT created_at::text FROM document_embeddings WHERE id = 'same_id'").Scan(&firstCreated))

	chunk.Content = "updated content"
	require.NoError(t, s.Upsert(ctx, chunk))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "re-upsert must not create a second row")

	var content, created string
	require.NoError(t, tdb.Pool.QueryRow(ctx,
		"SELECT content, created_at::text FROM document_embeddings WHERE id = 'same_id'").Scan(&content, &created))
	assert.Equal(t, "updated content", content)
	assert.Equal(t, firstCreated, created, "created_at must survive an update")
}

func TestStore_ListRecent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	tdb := testutil.SetupTestDB(t)
	s := store.New(tdb.Pool, log.NewNop())

	// Insert with explicit timestamps so ordering is deterministic.
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Upsert(ctx, store.Chunk{
			ID:        fmt.Sprintf("t_%d", i),
			Content:   fmt.Sprintf("chunk %d", i),
			Embedding: testVector(i),
		}))
		_, err := tdb.Pool.Exec(ctx,
			"UPDATE document_embeddings SET created_at = now() + ($1 || ' seconds')::interval WHERE id = $2",
			fmt.Sprint(i), fmt.Sprintf("t_%d", i))
		require.NoError(t, err)
	}

	recent, err := s.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "chunk 0", recent[0], "oldest chunk first")
	assert.Equal(t, "chunk 1", recent[1])
}
