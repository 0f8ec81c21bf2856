package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchema_IndexDocumentArgs(t *testing.T) {
	schema, err := generateSchema[IndexDocumentArgs]()
	require.NoError(t, err)

	assert.Equal(t, false, schema["additionalProperties"])
	assert.NotContains(t, schema, "$schema")
	assert.NotContains(t, schema, "$id")

	required, ok := schema["required"].([]any)
	require.True(t, ok)
	assert.Contains(t, required, "file_path")
}

func TestGenerateSchema_SearchDocumentsArgs(t *testing.T) {
	schema, err := generateSchema[SearchDocumentsArgs]()
	require.NoError(t, err)
	properties, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, properties, "query")
	assert.Contains(t, properties, "limit")
}
