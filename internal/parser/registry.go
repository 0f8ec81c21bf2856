package parser

import (
	"strings"

	"github.com/mydocs-mcp/mydocs-mcp/internal/apperrors"
)

const component = "parser"

// Registry dispatches by file extension to a registered Parser, falling
// back to the plain-text parser for any extension with no dedicated parser
// (mirrors the teacher's NewNativeParserRegistry extension dispatch,
// generalized from binary document extraction to markdown/text). Registry
// itself has no notion of an "unsupported" extension: callers that must
// reject extensions outside a configured whitelist (tools.Service) gate on
// that whitelist before calling For.
type Registry struct {
	byExt   map[string]Parser
	fallback Parser
}

// NewRegistry builds a registry with the markdown and text parsers
// pre-registered.
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]Parser)}
	md := &MarkdownParser{}
	txt := &TextParser{}
	r.Register(md)
	r.Register(txt)
	r.fallback = txt
	return r
}

// Register adds p for every extension it declares.
func (r *Registry) Register(p Parser) {
	for _, ext := range p.Extensions() {
		r.byExt[strings.ToLower(ext)] = p
	}
}

// For selects the parser for path's extension, or the fallback if the
// extension carries no specific parser. Returns UnsupportedType if there
// is no fallback either.
func (r *Registry) For(ext string) (Parser, error) {
	ext = strings.ToLower(ext)
	if p, ok := r.byExt[ext]; ok {
		return p, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, apperrors.New(apperrors.KindUnsupportedType, component, "for", "no parser registered for "+ext, nil)
}

// SupportedExtensions lists every extension with a dedicated (non-fallback)
// parser. The indexDocument whitelist check does not consult it; it uses
// the configured extension list instead.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}
