package search

import "strings"

// NormalizeFileType maps any of the accepted spellings (md, markdown, txt,
// text, .md, .txt) onto the canonical file_type value stored in documents
// (the lowercased extension without a leading dot).
func NormalizeFileType(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.TrimPrefix(v, ".")
	switch v {
	case "md", "markdown":
		return "md"
	case "txt", "text":
		return "txt"
	default:
		return v
	}
}
