package parser

import "regexp"

// These mirror the markers markdown.go already extracts into metadata
// (headers, links, images, fences, inline code) plus emphasis, list and
// blockquote markers, so StripMarkup removes the same kinds of markup that
// MarkdownParser.Parse counts rather than a second, independently-tuned
// pattern set.
var (
	stripHeaderRe   = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	stripBoldRe     = regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`)
	stripItalicRe   = regexp.MustCompile(`\*([^*]+)\*|_([^_]+)_`)
	stripFenceRe    = regexp.MustCompile("(?m)^```[a-zA-Z0-9_+-]*\\n|```\\n?")
	stripInlineCode = regexp.MustCompile("`([^`]+)`")
	stripLinkRe     = regexp.MustCompile(`!?\[([^\]]*)\]\(([^)]+)\)`)
	stripListRe     = regexp.MustCompile(`(?m)^\s*([-*+]|\d+\.)\s+`)
	stripBlockquote = regexp.MustCompile(`(?m)^\s*>\s?`)
)

// StripMarkup strips markdown syntax (headers, fences, inline code, links,
// images, emphasis, list markers, blockquotes) from content, leaving the
// prose and link/image text behind for indexing, grounded on
// original_source/src/parsers/markdown_parser.py's
// _clean_content_for_indexing.
func StripMarkup(content string) string {
	out := stripHeaderRe.ReplaceAllString(content, "")
	out = stripFenceRe.ReplaceAllString(out, "")
	out = stripInlineCode.ReplaceAllString(out, "$1")
	out = stripLinkRe.ReplaceAllString(out, "$1")
	out = stripBoldRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := stripBoldRe.FindStringSubmatch(m)
		if sub[1] != "" {
			return sub[1]
		}
		return sub[2]
	})
	out = stripItalicRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := stripItalicRe.FindStringSubmatch(m)
		if sub[1] != "" {
			return sub[1]
		}
		return sub[2]
	})
	out = stripListRe.ReplaceAllString(out, "")
	out = stripBlockquote.ReplaceAllString(out, "")
	return out
}
