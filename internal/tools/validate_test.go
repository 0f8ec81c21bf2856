package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeIndexDocumentArgs(t *testing.T) {
	args, err := decodeIndexDocumentArgs(map[string]any{"file_path": "/tmp/a.md"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/a.md", args.FilePath)
	assert.False(t, args.ForceReindex)

	_, err = decodeIndexDocumentArgs(map[string]any{})
	assert.Error(t, err)
}

func TestDecodeSearchDocumentsArgs(t *testing.T) {
	args, err := decodeSearchDocumentsArgs(map[string]any{"query": "hello world"})
	require.NoError(t, err)
	assert.Equal(t, 10, args.Limit)
	assert.Equal(t, "relevance", args.SortBy)

	_, err = decodeSearchDocumentsArgs(map[string]any{"query": "x", "limit": 500})
	assert.Error(t, err)

	_, err = decodeSearchDocumentsArgs(map[string]any{"query": "x", "sort_by": "nonsense"})
	assert.Error(t, err)

	_, err = decodeSearchDocumentsArgs(map[string]any{})
	assert.Error(t, err)
}

func TestDecodeGetDocumentArgs_RequiresExactlyOneSelector(t *testing.T) {
	_, err := decodeGetDocumentArgs(map[string]any{})
	assert.Error(t, err)

	_, err = decodeGetDocumentArgs(map[string]any{"document_id": 1, "file_path": "/tmp/a.md"})
	assert.Error(t, err)

	args, err := decodeGetDocumentArgs(map[string]any{"document_id": 5})
	require.NoError(t, err)
	assert.EqualValues(t, 5, args.DocumentID)
	assert.Equal(t, "json", args.Format)
	assert.True(t, args.IncludeContent)

	args, err = decodeGetDocumentArgs(map[string]any{"file_path": "/tmp/a.md", "format": "text"})
	require.NoError(t, err)
	assert.Equal(t, "text", args.Format)
}
