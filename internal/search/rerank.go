package search

import (
	"strings"
	"time"
)

// titleHits counts query terms present in fileName, each worth 10, capped
// at 30.
func titleHits(fileName string, terms []string) float64 {
	lower := strings.ToLower(fileName)
	count := 0
	for _, t := range terms {
		if strings.Contains(lower, t) {
			count++
		}
	}
	score := float64(count) * 10
	if score > 30 {
		score = 30
	}
	return score
}

// contentHits sums, per term, min(5, 0.5*occurrences) in body, capped at
// 15 overall.
func contentHits(body string, terms []string) float64 {
	lower := strings.ToLower(body)
	total := 0.0
	for _, t := range terms {
		occurrences := strings.Count(lower, t)
		perTerm := 0.5 * float64(occurrences)
		if perTerm > 5 {
			perTerm = 5
		}
		total += perTerm
	}
	if total > 15 {
		total = 15
	}
	return total
}

// recencyScore buckets indexedAt's age relative to now.
func recencyScore(indexedAt time.Time, now time.Time) float64 {
	if indexedAt.IsZero() {
		return 0
	}
	age := now.Sub(indexedAt)
	switch {
	case age <= 7*24*time.Hour:
		return 5
	case age <= 30*24*time.Hour:
		return 3
	case age <= 90*24*time.Hour:
		return 1
	default:
		return 0.5
	}
}

// finalScore computes the composite re-rank per spec.md §4.2 step 4.
func finalScore(base, title, content, recency float64) float64 {
	return 0.4*base + 0.3*title + 0.2*content + 0.1*recency
}
