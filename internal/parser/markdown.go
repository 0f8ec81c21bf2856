package parser

import (
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarkdownParser handles .md/.markdown files: YAML frontmatter, header
// hierarchy, link/image lists, fenced code blocks, and inline-code counts.
type MarkdownParser struct{}

func (p *MarkdownParser) Extensions() []string { return []string{".md", ".markdown"} }

var frontmatterPattern = regexp.MustCompile(`(?s)\A---\r?\n(.*?)\r?\n---\r?\n?`)
var headerPattern = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
var linkPattern = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)
var imagePattern = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
var fencePattern = regexp.MustCompile("(?s)```([a-zA-Z0-9_+-]*)\\n(.*?)```")
var inlineCodePattern = regexp.MustCompile("`[^`\\n]+`")

func (p *MarkdownParser) Parse(path string) (*Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return &Result{Success: false, ErrorMessage: err.Error()}, err
	}
	info, err := statFile(path)
	if err != nil {
		return &Result{Success: false, ErrorMessage: err.Error()}, err
	}

	text := string(raw)
	metadata := make(map[string]any)

	if loc := frontmatterPattern.FindStringSubmatchIndex(text); loc != nil {
		block := text[loc[2]:loc[3]]
		var fm map[string]any
		if err := yaml.Unmarshal([]byte(block), &fm); err == nil {
			for k, v := range fm {
				metadata[k] = v
			}
		}
		text = text[loc[1]:]
	}

	headers := headerPattern.FindAllStringSubmatch(text, -1)
	headerList := make([]string, 0, len(headers))
	for _, h := range headers {
		headerList = append(headerList, strings.TrimSpace(h[2]))
	}
	metadata["headers"] = headerList

	images := imagePattern.FindAllStringSubmatch(text, -1)
	imageList := make([]string, 0, len(images))
	for _, im := range images {
		imageList = append(imageList, im[2])
	}
	metadata["images"] = imageList

	// Links, excluding the image syntax already captured above (images are
	// links prefixed with '!').
	withoutImages := imagePattern.ReplaceAllString(text, "")
	links := linkPattern.FindAllStringSubmatch(withoutImages, -1)
	linkList := make([]string, 0, len(links))
	for _, l := range links {
		linkList = append(linkList, l[2])
	}
	metadata["links"] = linkList

	fences := fencePattern.FindAllStringSubmatch(text, -1)
	codeLangs := make([]string, 0, len(fences))
	for _, f := range fences {
		lang := f[1]
		if lang == "" {
			lang = "text"
		}
		codeLangs = append(codeLangs, lang)
	}
	metadata["code_block_languages"] = codeLangs

	inlineCodeCount := len(inlineCodePattern.FindAllString(text, -1))
	metadata["inline_code_count"] = inlineCodeCount

	content := strings.TrimSpace(StripMarkup(text))
	hash := contentHash(content)
	info.Hash = hash

	stats := map[string]any{
		"header_count":     len(headerList),
		"link_count":       len(linkList),
		"image_count":      len(imageList),
		"code_block_count": len(fences),
	}

	return &Result{
		Success:  true,
		Content:  content,
		Metadata: metadata,
		Keywords: extractKeywords(content),
		FileInfo: info,
		Stats:    stats,
	}, nil
}
