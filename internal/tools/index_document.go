package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mydocs-mcp/mydocs-mcp/internal/apperrors"
	"github.com/mydocs-mcp/mydocs-mcp/internal/parser"
	"github.com/mydocs-mcp/mydocs-mcp/internal/store"
)

// IndexDocument implements the indexDocument tool (spec.md §4.4).
func (s *Service) IndexDocument(ctx context.Context, args *IndexDocumentArgs) (map[string]any, error) {
	info, err := os.Stat(args.FilePath)
	if err != nil {
		return nil, apperrors.NotFound("tools", "indexDocument", "file not found: "+args.FilePath)
	}
	if !info.Mode().IsRegular() {
		return nil, apperrors.NotFound("tools", "indexDocument", "not a regular file: "+args.FilePath)
	}

	ext := strings.ToLower(filepath.Ext(args.FilePath))
	if !s.isSupportedExtension(ext) {
		return nil, apperrors.New(apperrors.KindUnsupportedType, "tools", "indexDocument", "unsupported file type: "+ext, nil)
	}

	if info.Size() > s.maxDocumentSize {
		return nil, apperrors.New(apperrors.KindTooLarge, "tools", "indexDocument", "file exceeds maximum document size", nil)
	}

	existing, err := s.store.GetByPath(ctx, args.FilePath)
	if err != nil {
		return nil, err
	}

	if existing != nil && !args.ForceReindex && !info.ModTime().After(existing.ModifiedAt) {
		return map[string]any{
			"status":                    "already_indexed",
			"document_id":               existing.ID,
			"file_path":                 existing.FilePath,
			"file_size_bytes":           existing.SizeBytes,
			"content_length":            len(existing.Content),
			"indexed_at":                existing.IndexedAt,
			"metadata_fields_extracted": len(existing.Metadata),
		}, nil
	}

	p, err := s.parsers.For(ext)
	if err != nil {
		return nil, apperrors.New(apperrors.KindUnsupportedType, "tools", "indexDocument", "unsupported file type: "+ext, nil)
	}
	result, err := p.Parse(args.FilePath)
	if err != nil || !result.Success {
		msg := "failed to parse document"
		if result != nil && result.ErrorMessage != "" {
			msg = result.ErrorMessage
		}
		return nil, apperrors.New(apperrors.KindParseFailed, "tools", "indexDocument", msg, err)
	}
	if strings.TrimSpace(result.Content) == "" {
		return nil, apperrors.New(apperrors.KindEmptyContent, "tools", "indexDocument", "parsed content is empty", nil)
	}

	now := time.Now()
	doc := &store.Document{
		FilePath:   args.FilePath,
		FileName:   result.FileInfo.Name,
		FileType:   strings.TrimPrefix(ext, "."),
		SizeBytes:  int64(len(result.Content)),
		ModifiedAt: info.ModTime(),
		IndexedAt:  now,
		Content:    result.Content,
		Metadata:   parser.CoerceMetadata(result.Metadata),
	}
	if existing != nil {
		doc.CreatedAt = existing.CreatedAt
	} else {
		doc.CreatedAt = now
	}
	doc.ContentHash = contentHashOf(result.Content)

	var existingID int64
	if existing != nil {
		existingID = existing.ID
	}

	ingestResult, err := s.engine.Ingest(ctx, doc, existingID)
	if err != nil {
		return nil, apperrors.New(apperrors.KindStoreFailed, "tools", "indexDocument", "failed to store document", err)
	}

	status := "indexed"
	if existingID != 0 {
		status = "reindexed"
	}

	return map[string]any{
		"status":                    status,
		"document_id":               ingestResult.DocumentID,
		"file_path":                 doc.FilePath,
		"file_size_bytes":           doc.SizeBytes,
		"content_length":            len(doc.Content),
		"indexed_at":                doc.IndexedAt,
		"metadata_fields_extracted": len(doc.Metadata),
		"keywords_extracted":        result.Keywords,
	}, nil
}
