package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := Open(path, 5)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleDocument(path string) *Document {
	now := time.Now()
	return &Document{
		FilePath:    path,
		FileName:    filepath.Base(path),
		FileType:    "md",
		SizeBytes:   42,
		ContentHash: strings.Repeat("0", 64),
		Content:     "hello world",
		CreatedAt:   now,
		ModifiedAt:  now,
		IndexedAt:   now,
		Metadata:    map[string]string{"title": "Hello"},
	}
}

func TestStore_CreateAndGetByID(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	doc := sampleDocument("/docs/a.md")
	id, err := st.CreateDocument(ctx, doc)
	require.NoError(t, err)
	assert.NotZero(t, id)

	got, err := st.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, doc.FilePath, got.FilePath)
	assert.Equal(t, "Hello", got.Metadata["title"])
}

func TestStore_CreateDocument_DuplicatePathFails(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	doc := sampleDocument("/docs/dup.md")
	_, err := st.CreateDocument(ctx, doc)
	require.NoError(t, err)

	_, err = st.CreateDocument(ctx, sampleDocument("/docs/dup.md"))
	require.Error(t, err)
}

func TestStore_RenamePath_RewritesPathAndPreservesID(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	id, err := st.CreateDocument(ctx, sampleDocument("/docs/old.md"))
	require.NoError(t, err)

	require.NoError(t, st.RenamePath(ctx, "/docs/old.md", "/docs/new.md"))

	byOld, err := st.GetByPath(ctx, "/docs/old.md")
	require.NoError(t, err)
	assert.Nil(t, byOld)

	byNew, err := st.GetByPath(ctx, "/docs/new.md")
	require.NoError(t, err)
	require.NotNil(t, byNew)
	assert.Equal(t, id, byNew.ID)
}

func TestStore_RenamePath_UnknownOldPathFails(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	err := st.RenamePath(ctx, "/docs/nope.md", "/docs/new.md")
	assert.Error(t, err)
}

func TestStore_UpdateDocument_NotFound(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	doc := sampleDocument("/docs/missing.md")
	doc.ID = 999999
	err := st.UpdateDocument(ctx, doc)
	assert.Error(t, err)
}

func TestStore_DeleteDocument_CascadesMetadataAndIndex(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	doc := sampleDocument("/docs/cascade.md")
	id, err := st.CreateDocument(ctx, doc)
	require.NoError(t, err)

	require.NoError(t, st.RunInTransaction(ctx, func(tx *sql.Tx) error {
		return ReplaceIndexEntriesTx(ctx, tx, id, []IndexEntry{
			{DocumentID: id, Keyword: "hello", Frequency: 1, Positions: []int{0}, Relevance: 0.5},
		})
	}))

	require.NoError(t, st.DeleteDocument(ctx, id))

	got, err := st.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)

	meta, err := st.getMetadata(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, meta)

	matches, err := st.QueryIndexForKeywords(ctx, []string{"hello"}, "")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestStore_ListByType_OrdersByName(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.CreateDocument(ctx, sampleDocument("/docs/zeta.md"))
	require.NoError(t, err)
	_, err = st.CreateDocument(ctx, sampleDocument("/docs/alpha.md"))
	require.NoError(t, err)

	docs, err := st.ListByType(ctx, "md", 10, 0, OrderName)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "alpha.md", docs[0].FileName)
	assert.Equal(t, "zeta.md", docs[1].FileName)
}

func TestCache_PutGetExpiry(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	entry := &CacheEntry{
		QueryHash:         "deadbeef",
		OriginalQuery:     "hello",
		SerializedResults: `{"results":[]}`,
		CreatedAt:         now,
		ExpiresAt:         now.Add(time.Minute),
	}
	require.NoError(t, st.PutCache(ctx, entry))

	got, err := st.GetCache(ctx, "deadbeef")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry.SerializedResults, got.SerializedResults)
	assert.True(t, got.ExpiresAt.After(got.CreatedAt))

	expired := &CacheEntry{
		QueryHash:         "expired",
		OriginalQuery:     "old",
		SerializedResults: `{}`,
		CreatedAt:         now.Add(-time.Hour),
		ExpiresAt:         now.Add(-time.Minute),
	}
	require.NoError(t, st.PutCache(ctx, expired))
	miss, err := st.GetCache(ctx, "expired")
	require.NoError(t, err)
	assert.Nil(t, miss)
}
