package search

import (
	"github.com/mydocs-mcp/mydocs-mcp/internal/store"
)

// BuildIndexEntries tokenizes content and produces the inverted-index rows
// for one document, per spec.md §4.2 steps 2-6.
func BuildIndexEntries(content string) []store.IndexEntry {
	tokens := Tokenize(content)
	totalWords := len(tokens)
	if totalWords == 0 {
		return nil
	}

	grouped := make(map[string][]int)
	order := make([]string, 0)
	for _, t := range tokens {
		if _, seen := grouped[t.Keyword]; !seen {
			order = append(order, t.Keyword)
		}
		grouped[t.Keyword] = append(grouped[t.Keyword], t.Position)
	}

	entries := make([]store.IndexEntry, 0, len(order))
	for _, kw := range order {
		positions := grouped[kw]
		frequency := len(positions)
		tf := float64(frequency) / float64(totalWords)
		relevance := tf * (1 + min1(float64(frequency)/5))
		if relevance > 1 {
			relevance = 1
		}
		if relevance < 0 {
			relevance = 0
		}
		entries = append(entries, store.IndexEntry{
			Keyword:   kw,
			Frequency: frequency,
			Positions: positions,
			Relevance: relevance,
		})
	}
	return entries
}

func min1(v float64) float64 {
	if v < 1.0 {
		return v
	}
	return 1.0
}
