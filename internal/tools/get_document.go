package tools

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/mydocs-mcp/mydocs-mcp/internal/apperrors"
	"github.com/mydocs-mcp/mydocs-mcp/internal/store"
)

// GetDocument implements the getDocument tool (spec.md §4.4): fetch by
// document_id or file_path, then apply the format/truncation/metadata
// transforms the caller asked for.
func (s *Service) GetDocument(ctx context.Context, args *GetDocumentArgs) (map[string]any, error) {
	start := time.Now()

	var (
		doc      *store.Document
		method   string
		selector string
		err      error
	)
	if args.DocumentID > 0 {
		doc, err = s.store.GetByID(ctx, args.DocumentID)
		method = "by_id"
		selector = strconv.FormatInt(args.DocumentID, 10)
	} else {
		doc, err = s.store.GetByPath(ctx, args.FilePath)
		method = "by_path"
		selector = args.FilePath
	}
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperrors.NotFound("tools", "getDocument", "document not found: "+selector)
	}

	out := map[string]any{
		"document_id":      doc.ID,
		"file_path":        doc.FilePath,
		"file_name":        doc.FileName,
		"file_type":        doc.FileType,
		"file_size_bytes":  doc.SizeBytes,
		"file_hash":        doc.ContentHash,
		"created_at":       doc.CreatedAt,
		"modified_at":      doc.ModifiedAt,
		"indexed_at":       doc.IndexedAt,
		"file_stats":       fileStats(doc.Content),
		"retrieval_time_ms": time.Since(start).Milliseconds(),
		"retrieval_method":  method,
	}

	if args.IncludeMetadata {
		out["metadata"] = doc.Metadata
	}

	if args.IncludeContent {
		content, contentFormat := transformContent(doc.Content, args.Format)
		content, truncated := truncate(content, args.MaxContentLength)
		out["content"] = content
		out["content_length"] = len(content)
		out["content_format"] = contentFormat
		if truncated {
			out["content_truncated"] = true
		}
	}

	return out, nil
}

// transformContent applies the format selector: json/markdown return the
// stored text (markdown wraps plain text in a fenced block when it has no
// markdown syntax of its own), text strips markdown markers entirely.
func transformContent(content, format string) (out string, contentFormat string) {
	switch format {
	case "text":
		return stripMarkdown(content), "text"
	case "markdown":
		if looksLikeMarkdown(content) {
			return content, "markdown"
		}
		return wrapFenced(content), "markdown"
	default:
		return content, "json"
	}
}

// fileStats computes the lightweight retrieval-time stats getDocument
// reports alongside content, independent of whatever stats the parser
// captured at index time.
func fileStats(content string) map[string]any {
	lines := strings.Count(content, "\n") + 1
	words := len(strings.Fields(content))
	return map[string]any{
		"line_count": lines,
		"word_count": words,
		"char_count": len(content),
	}
}
