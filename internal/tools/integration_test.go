package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario_IndexThenSearchUsesCacheOnRepeat(t *testing.T) {
	svc := newTestService(t)
	dir := t.TempDir()
	path := writeDoc(t, dir, "a.md", "# Hello\n\nworld example")
	ctx := context.Background()

	indexEnv := svc.Call(ctx, "indexDocument", map[string]any{"file_path": path})
	require.True(t, indexEnv.Success)
	data := indexEnv.Data.(map[string]any)
	assert.Equal(t, "indexed", data["status"])
	docID := data["document_id"]

	first := svc.Call(ctx, "searchDocuments", map[string]any{"query": "world"})
	require.True(t, first.Success)
	firstData := first.Data.(map[string]any)
	results := firstData["results"].([]map[string]any)
	require.Len(t, results, 1)
	assert.Equal(t, docID, results[0]["document_id"])
	assert.Contains(t, results[0]["content_snippet"].(string), "**world**")
	assert.False(t, firstData["from_cache"].(bool))

	second := svc.Call(ctx, "searchDocuments", map[string]any{"query": "world"})
	require.True(t, second.Success)
	secondData := second.Data.(map[string]any)
	assert.True(t, secondData["from_cache"].(bool))
}

func TestScenario_FilterByFileType(t *testing.T) {
	svc := newTestService(t)
	dir := t.TempDir()
	mdPath := writeDoc(t, dir, "alpha.md", "alpha content here")
	txtPath := writeDoc(t, dir, "alpha.txt", "alpha content here too")
	ctx := context.Background()

	require.True(t, svc.Call(ctx, "indexDocument", map[string]any{"file_path": mdPath}).Success)
	require.True(t, svc.Call(ctx, "indexDocument", map[string]any{"file_path": txtPath}).Success)

	env := svc.Call(ctx, "searchDocuments", map[string]any{"query": "alpha", "file_type": "markdown"})
	require.True(t, env.Success)
	data := env.Data.(map[string]any)
	results := data["results"].([]map[string]any)
	require.Len(t, results, 1)
	assert.Equal(t, "md", results[0]["file_type"])
}

func TestScenario_ReindexOnModification(t *testing.T) {
	svc := newTestService(t)
	dir := t.TempDir()
	path := writeDoc(t, dir, "b.txt", "red")
	ctx := context.Background()

	firstEnv := svc.Call(ctx, "indexDocument", map[string]any{"file_path": path})
	require.True(t, firstEnv.Success)
	firstID := firstEnv.Data.(map[string]any)["document_id"]

	writeDoc(t, dir, "b.txt", "red blue")
	secondEnv := svc.Call(ctx, "indexDocument", map[string]any{"file_path": path, "force_reindex": true})
	require.True(t, secondEnv.Success)
	secondData := secondEnv.Data.(map[string]any)
	assert.Equal(t, "reindexed", secondData["status"])

	searchEnv := svc.Call(ctx, "searchDocuments", map[string]any{"query": "blue"})
	require.True(t, searchEnv.Success)
	results := searchEnv.Data.(map[string]any)["results"].([]map[string]any)
	require.Len(t, results, 1)
	assert.Equal(t, firstID, results[0]["document_id"])
}

func TestScenario_NotFoundRetrievalIncludesIdentifier(t *testing.T) {
	svc := newTestService(t)
	env := svc.Call(context.Background(), "getDocument", map[string]any{"document_id": float64(99999)})
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "not found")
	assert.Contains(t, env.Error, "99999")
}

func TestScenario_SelectorConflict(t *testing.T) {
	svc := newTestService(t)
	env := svc.Call(context.Background(), "getDocument", map[string]any{"document_id": float64(1), "file_path": "/x"})
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "Only one")
}
