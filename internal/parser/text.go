package parser

import (
	"os"
	"regexp"
	"strings"
)

// TextParser handles .txt files (and serves as the registry fallback): it
// heuristically classifies the document sub-type and surfaces contact-ish
// metadata (emails, URLs, phone numbers, dates, times).
type TextParser struct{}

func (p *TextParser) Extensions() []string { return []string{".txt"} }

var (
	emailPattern = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)
	urlPattern   = regexp.MustCompile(`https?://[^\s]+`)
	phonePattern = regexp.MustCompile(`\b\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)
	datePattern  = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b|\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
	timePattern  = regexp.MustCompile(`\b\d{1,2}:\d{2}(:\d{2})?\s?(AM|PM|am|pm)?\b`)

	logLinePattern = regexp.MustCompile(`(?m)^\s*\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}:\d{2}`)
	kvLinePattern  = regexp.MustCompile(`(?m)^\s*[A-Za-z_][A-Za-z0-9_.]*\s*=\s*\S+`)
	iniSection     = regexp.MustCompile(`(?m)^\s*\[[^\]]+\]\s*$`)
	codeLikeLine   = regexp.MustCompile(`(?m)^\s*(func |def |class |import |package |#include|public |private |return\b|if\s*\(|for\s*\()`)
)

func (p *TextParser) Parse(path string) (*Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return &Result{Success: false, ErrorMessage: err.Error()}, err
	}
	info, err := statFile(path)
	if err != nil {
		return &Result{Success: false, ErrorMessage: err.Error()}, err
	}

	content := string(raw)
	hash := contentHash(content)
	info.Hash = hash

	metadata := map[string]any{
		"sub_type": detectSubType(content),
		"emails":   uniqueMatches(emailPattern, content),
		"urls":     uniqueMatches(urlPattern, content),
		"phones":   uniqueMatches(phonePattern, content),
		"dates":    uniqueMatches(datePattern, content),
		"times":    uniqueMatches(timePattern, content),
	}

	return &Result{
		Success:  true,
		Content:  content,
		Metadata: metadata,
		Keywords: extractKeywords(content),
		FileInfo: info,
		Stats: map[string]any{
			"line_count": strings.Count(content, "\n") + 1,
		},
	}, nil
}

// detectSubType checks the heuristics in a fixed order and returns the
// first that applies: "log" if at least a quarter of the lines (minimum
// one) start with a timestamp, "ini" if any [section] header is present,
// then "config" or "code" under the same quarter-of-lines threshold for
// key=value and code-like lines, otherwise "plain".
func detectSubType(content string) string {
	lines := strings.Split(content, "\n")
	total := len(lines)
	if total == 0 {
		return "plain"
	}

	logCount := len(logLinePattern.FindAllString(content, -1))
	iniCount := len(iniSection.FindAllString(content, -1))
	kvCount := len(kvLinePattern.FindAllString(content, -1))
	codeCount := len(codeLikeLine.FindAllString(content, -1))

	threshold := total / 4
	if threshold < 1 {
		threshold = 1
	}

	switch {
	case logCount >= threshold:
		return "log"
	case iniCount > 0:
		return "ini"
	case kvCount >= threshold:
		return "config"
	case codeCount >= threshold:
		return "code"
	default:
		return "plain"
	}
}

func uniqueMatches(re *regexp.Regexp, content string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range re.FindAllString(content, -1) {
		if _, ok := seen[m]; !ok {
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}
