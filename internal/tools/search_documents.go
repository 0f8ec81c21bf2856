package tools

import (
	"context"

	"github.com/mydocs-mcp/mydocs-mcp/internal/search"
)

// SearchDocuments implements the searchDocuments tool (spec.md §4.4).
func (s *Service) SearchDocuments(ctx context.Context, args *SearchDocumentsArgs) (map[string]any, error) {
	resp, err := s.engine.Search(ctx, args.Query, args.FileType, search.SortKey(args.SortBy), args.Limit)
	if err != nil {
		return nil, err
	}

	results := make([]map[string]any, 0, len(resp.Results))
	for _, hit := range resp.Results {
		results = append(results, map[string]any{
			"document_id":      hit.DocumentID,
			"file_path":        hit.FilePath,
			"file_name":        hit.FileName,
			"file_type":        hit.FileType,
			"file_size_bytes":  hit.FileSizeBytes,
			"relevance_score":  hit.RelevanceScore,
			"indexed_at":       hit.IndexedAt,
			"modified_at":      hit.ModifiedAt,
			"content_snippet":  hit.ContentSnippet,
			"metadata":         hit.Metadata,
		})
	}

	out := map[string]any{
		"results":         results,
		"total_found":     resp.TotalFound,
		"returned_count":  resp.ReturnedCount,
		"search_time_ms":  resp.SearchTimeMs,
		"query_processed": resp.QueryProcessed,
		"from_cache":      resp.FromCache,
	}
	if resp.FileTypeFilter != "" {
		out["file_type_filter"] = resp.FileTypeFilter
	}
	if resp.SortBy != "" {
		out["sort_by"] = resp.SortBy
	}
	return out, nil
}
