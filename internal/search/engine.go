// Package search implements the search engine (C3): keyword indexing at
// ingest time, query scoring and composite re-ranking, snippet generation,
// and a bounded TTL query-result cache.
package search

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"github.com/mydocs-mcp/mydocs-mcp/internal/apperrors"
	"github.com/mydocs-mcp/mydocs-mcp/internal/store"
)

const component = "search"

// SortKey selects the query result ordering.
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortDate      SortKey = "date"
	SortName      SortKey = "name"
)

// Hit is one enriched search result.
type Hit struct {
	DocumentID     int64             `json:"document_id"`
	FilePath       string            `json:"file_path"`
	FileName       string            `json:"file_name"`
	FileType       string            `json:"file_type"`
	FileSizeBytes  int64             `json:"file_size_bytes"`
	RelevanceScore float64           `json:"relevance_score"`
	IndexedAt      time.Time         `json:"indexed_at"`
	ModifiedAt     time.Time         `json:"modified_at"`
	ContentSnippet string            `json:"content_snippet"`
	Metadata       map[string]string `json:"metadata"`
}

// Response is the full searchDocuments result payload.
type Response struct {
	Results        []Hit  `json:"results"`
	TotalFound     int    `json:"total_found"`
	ReturnedCount  int    `json:"returned_count"`
	SearchTimeMs   int64  `json:"search_time_ms"`
	QueryProcessed string `json:"query_processed"`
	FromCache      bool   `json:"from_cache"`
	FileTypeFilter string `json:"file_type_filter,omitempty"`
	SortBy         string `json:"sort_by,omitempty"`
}

// Engine wires the document store to the indexing/scoring/caching
// pipeline.
type Engine struct {
	store *store.Store
	ttl   time.Duration
}

// NewEngine builds a search engine over st with the given query-cache TTL.
func NewEngine(st *store.Store, ttl time.Duration) *Engine {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Engine{store: st, ttl: ttl}
}

// IngestResult describes the outcome of Ingest.
type IngestResult struct {
	DocumentID int64
	Reindexed  bool
	Keywords   int
}

// Ingest writes doc's row, metadata, and inverted-index entries inside one
// transaction — full ingest if existingID is 0, reindex otherwise.
func (e *Engine) Ingest(ctx context.Context, doc *store.Document, existingID int64) (*IngestResult, error) {
	entries := BuildIndexEntries(doc.Content)

	result := &IngestResult{Keywords: len(entries)}
	err := e.store.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if existingID != 0 {
			doc.ID = existingID
			if err := store.UpdateDocumentTx(ctx, tx, doc); err != nil {
				return err
			}
			result.DocumentID = existingID
			result.Reindexed = true
		} else {
			id, err := store.CreateDocumentTx(ctx, tx, doc)
			if err != nil {
				return err
			}
			result.DocumentID = id
		}
		return store.ReplaceIndexEntriesTx(ctx, tx, result.DocumentID, entries)
	})
	if err != nil {
		return nil, err
	}
	if err := e.store.SweepExpiredCache(ctx); err != nil {
		slog.Warn("search: cache sweep failed after ingest", "error", apperrors.Internal(component, "ingest", "sweeping expired cache", err))
	}
	return result, nil
}

// Search runs the full query path of spec.md §4.2: normalize, cache
// lookup, score, re-rank, sort, trim, enrich, cache.
func (e *Engine) Search(ctx context.Context, rawQuery string, fileType string, sortBy SortKey, limit int) (*Response, error) {
	start := time.Now()

	terms := NormalizeQuery(rawQuery)
	if len(terms) == 0 {
		return nil, apperrors.New(apperrors.KindInvalidQuery, component, "search", "query has no usable terms after normalization", nil)
	}
	if sortBy == "" {
		sortBy = SortRelevance
	}
	if limit <= 0 {
		limit = 10
	}

	normalizedFileType := ""
	if fileType != "" {
		normalizedFileType = NormalizeFileType(fileType)
	}

	hash := QueryHash(terms, normalizedFileType, string(sortBy), limit)
	if cached, err := e.store.GetCache(ctx, hash); err != nil {
		return nil, err
	} else if cached != nil {
		var resp Response
		if err := json.Unmarshal([]byte(cached.SerializedResults), &resp); err != nil {
			return nil, apperrors.Internal(component, "search", "decoding cached results", err)
		}
		resp.FromCache = true
		return &resp, nil
	}

	matches, err := e.store.QueryIndexForKeywords(ctx, terms, normalizedFileType)
	if err != nil {
		return nil, err
	}

	type aggregate struct {
		base float64
	}
	byDoc := make(map[int64]*aggregate)
	for _, m := range matches {
		agg, ok := byDoc[m.DocumentID]
		if !ok {
			agg = &aggregate{}
			byDoc[m.DocumentID] = agg
		}
		agg.base += m.Relevance * float64(m.Frequency)
	}

	now := time.Now()
	hits := make([]Hit, 0, len(byDoc))
	for docID, agg := range byDoc {
		doc, err := e.store.GetByID(ctx, docID)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			continue
		}
		title := titleHits(doc.FileName, terms)
		content := contentHits(doc.Content, terms)
		recency := recencyScore(doc.IndexedAt, now)
		final := finalScore(agg.base, title, content, recency)

		hits = append(hits, Hit{
			DocumentID:     doc.ID,
			FilePath:       doc.FilePath,
			FileName:       doc.FileName,
			FileType:       doc.FileType,
			FileSizeBytes:  doc.SizeBytes,
			RelevanceScore: round3(final),
			IndexedAt:      doc.IndexedAt,
			ModifiedAt:     doc.ModifiedAt,
			ContentSnippet: Snippet(doc.Content, terms),
			Metadata:       doc.Metadata,
		})
	}

	sortHits(hits, sortBy)

	totalFound := len(hits)
	if limit < len(hits) {
		hits = hits[:limit]
	}

	resp := &Response{
		Results:        hits,
		TotalFound:     totalFound,
		ReturnedCount:  len(hits),
		SearchTimeMs:   time.Since(start).Milliseconds(),
		QueryProcessed: joinTerms(terms),
		FromCache:      false,
	}
	if fileType != "" {
		resp.FileTypeFilter = fileType
	}
	if sortBy != "" {
		resp.SortBy = string(sortBy)
	}

	serialized, err := json.Marshal(resp)
	if err != nil {
		return nil, apperrors.Internal(component, "search", "encoding results for cache", err)
	}
	cacheEntry := &store.CacheEntry{
		QueryHash:         hash,
		OriginalQuery:     rawQuery,
		SerializedResults: string(serialized),
		CreatedAt:         now,
		ExpiresAt:         now.Add(e.ttl),
	}
	if err := e.store.PutCache(ctx, cacheEntry); err != nil {
		return nil, err
	}

	return resp, nil
}

func sortHits(hits []Hit, sortBy SortKey) {
	switch sortBy {
	case SortDate:
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].IndexedAt.After(hits[j].IndexedAt) })
	case SortName:
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].FileName < hits[j].FileName })
	default:
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].RelevanceScore > hits[j].RelevanceScore })
	}
}

func round3(v float64) float64 {
	return float64(int64(v*1000+0.5)) / 1000
}

func joinTerms(terms []string) string {
	out := ""
	for i, t := range terms {
		if i > 0 {
			out += " "
		}
		out += t
	}
	return out
}
