package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryHash_DeterministicAndSensitiveToEachInput(t *testing.T) {
	base := QueryHash([]string{"alpha", "beta"}, "md", "relevance", 10)
	same := QueryHash([]string{"alpha", "beta"}, "md", "relevance", 10)
	assert.Equal(t, base, same)

	assert.NotEqual(t, base, QueryHash([]string{"alpha", "beta"}, "txt", "relevance", 10))
	assert.NotEqual(t, base, QueryHash([]string{"alpha", "beta"}, "md", "date", 10))
	assert.NotEqual(t, base, QueryHash([]string{"alpha", "beta"}, "md", "relevance", 20))
	assert.NotEqual(t, base, QueryHash([]string{"beta", "alpha"}, "md", "relevance", 10))
	assert.Len(t, base, 64)
}

func TestNormalizeFileType(t *testing.T) {
	cases := map[string]string{
		"md": "md", "markdown": "md", ".md": "md",
		"txt": "txt", "text": "txt", ".txt": "txt",
		"MD": "md", "": "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeFileType(in))
	}
}
