package search

import (
	"regexp"
	"strings"
)

const snippetMaxLength = 200
const snippetRadius = snippetMaxLength / 2

// Snippet produces a <=200-character excerpt of content centered on the
// first occurrence of any query term, with matched terms wrapped in
// **bold**, prepending/appending an ellipsis when truncated.
func Snippet(content string, terms []string) string {
	lower := strings.ToLower(content)
	firstIdx := -1
	for _, t := range terms {
		if idx := strings.Index(lower, strings.ToLower(t)); idx >= 0 && (firstIdx == -1 || idx < firstIdx) {
			firstIdx = idx
		}
	}
	if firstIdx == -1 {
		firstIdx = 0
	}

	start := firstIdx - snippetRadius
	truncatedStart := start > 0
	if start < 0 {
		start = 0
	}
	end := start + snippetMaxLength
	truncatedEnd := end < len(content)
	if end > len(content) {
		end = len(content)
	}

	excerpt := content[start:end]
	excerpt = highlightTerms(excerpt, terms)

	if truncatedStart {
		excerpt = "…" + excerpt
	}
	if truncatedEnd {
		excerpt = excerpt + "…"
	}
	return excerpt
}

func highlightTerms(s string, terms []string) string {
	for _, t := range terms {
		if t == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(t))
		s = re.ReplaceAllStringFunc(s, func(match string) string {
			return "**" + match + "**"
		})
	}
	return s
}
