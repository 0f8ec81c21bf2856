package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize_DropsStopWordsKeepsWhitelistedShort(t *testing.T) {
	tokens := Tokenize("The go programmer writes go code and uses c for speed")

	var keywords []string
	for _, tok := range tokens {
		keywords = append(keywords, tok.Keyword)
	}

	assert.Contains(t, keywords, "go")
	assert.Contains(t, keywords, "c")
	assert.Contains(t, keywords, "programmer")
	assert.NotContains(t, keywords, "the")
	assert.NotContains(t, keywords, "and")
	assert.NotContains(t, keywords, "for")
}

func TestTokenize_PositionsAreStableAndOrdered(t *testing.T) {
	tokens := Tokenize("alpha beta gamma")
	assert.Len(t, tokens, 3)
	assert.Equal(t, 0, tokens[0].Position)
	assert.Equal(t, 1, tokens[1].Position)
	assert.Equal(t, 2, tokens[2].Position)
}

func TestNormalizeQuery(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  []string
	}{
		{"drops short terms", "a document search", []string{"document", "search"}},
		{"keeps whitelisted short", "go vs js", []string{"go", "vs", "js"}},
		{"empty query", "   ", nil},
		{"lowercases", "DOCUMENT Search", []string{"document", "search"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeQuery(tc.query)
			if tc.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}
