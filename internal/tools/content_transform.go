package tools

import (
	"regexp"

	"github.com/mydocs-mcp/mydocs-mcp/internal/parser"
)

// truncationSentinel is appended when content is cut to max_content_length
// or the 5MB hard cap (spec.md §4.4).
const truncationSentinel = "\n\n[Content truncated due to size limits]\n"

const hardContentCapBytes = 5 * 1024 * 1024

var (
	mdHeaderRe = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdBoldRe   = regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`)
	mdLinkRe   = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)
	mdFenceRe  = regexp.MustCompile("(?m)^```[a-zA-Z0-9_+-]*\\n|```\\n?")
	mdListRe   = regexp.MustCompile(`(?m)^\s*([-*+]|\d+\.)\s+`)

	mdSyntaxDetectors = []*regexp.Regexp{mdHeaderRe, mdBoldRe, mdLinkRe, mdFenceRe, mdListRe}
)

// looksLikeMarkdown reports whether content contains recognizable markdown
// syntax (used by getDocument's format=markdown transform).
func looksLikeMarkdown(content string) bool {
	for _, re := range mdSyntaxDetectors {
		if re.MatchString(content) {
			return true
		}
	}
	return false
}

// stripMarkdown is the canonical markdown-to-plain-text transform used by
// getDocument's format=text output (spec.md §9 Open Question (c) names two
// diverging strippers in the original; this is the single transform this
// implementation picks). It delegates to parser.StripMarkup, the same
// stripper indexDocument's markdown parser already applies to indexing
// content, so both paths treat markdown syntax identically.
func stripMarkdown(content string) string {
	return parser.StripMarkup(content)
}

// wrapFenced wraps content in a fenced code block, used by getDocument's
// format=markdown transform when the source has no markdown syntax to
// preserve.
func wrapFenced(content string) string {
	return "```\n" + content + "\n```"
}

// truncate applies maxLen (0 = unlimited) and the 5MB hard cap, appending
// the sentinel when either bound is hit.
func truncate(content string, maxLen int) (out string, truncated bool) {
	limit := hardContentCapBytes
	if maxLen > 0 && maxLen < limit {
		limit = maxLen
	}
	if len(content) <= limit {
		return content, false
	}
	return content[:limit] + truncationSentinel, true
}
