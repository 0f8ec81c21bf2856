package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndexEntries_RelevanceInRangeAndFrequencyMatchesPositions(t *testing.T) {
	content := "search search search document document index"
	entries := BuildIndexEntries(content)
	require.NotEmpty(t, entries)

	byKeyword := make(map[string]int)
	for i, e := range entries {
		byKeyword[e.Keyword] = i
		assert.Equal(t, e.Frequency, len(e.Positions), "frequency must equal len(positions) for %q", e.Keyword)
		assert.GreaterOrEqual(t, e.Relevance, 0.0)
		assert.LessOrEqual(t, e.Relevance, 1.0)
	}

	searchEntry := entries[byKeyword["search"]]
	assert.Equal(t, 3, searchEntry.Frequency)
}

func TestBuildIndexEntries_EmptyContent(t *testing.T) {
	assert.Nil(t, BuildIndexEntries(""))
	assert.Nil(t, BuildIndexEntries("the and for"))
}
