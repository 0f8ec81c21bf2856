package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCoerceMetadata(t *testing.T) {
	meta := map[string]any{
		"title":   "Hello",
		"count":   3,
		"active":  true,
		"when":    time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		"tags":    []string{"a", "b"},
		"skipped": nil,
		"empty":   "",
	}
	out := CoerceMetadata(meta)

	assert.Equal(t, "Hello", out["title"])
	assert.Equal(t, "3", out["count"])
	assert.Equal(t, "true", out["active"])
	assert.Equal(t, "2024-01-15T10:30:00Z", out["when"])
	assert.JSONEq(t, `["a","b"]`, out["tags"])
	_, hasSkipped := out["skipped"]
	assert.False(t, hasSkipped)
	_, hasEmpty := out["empty"]
	assert.False(t, hasEmpty)
}
