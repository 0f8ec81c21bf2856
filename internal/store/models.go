package store

import "time"

// Document is the canonical record of one ingested file.
type Document struct {
	ID          int64
	FilePath    string
	FileName    string
	FileType    string
	SizeBytes   int64
	ContentHash string
	Content     string
	CreatedAt   time.Time
	ModifiedAt  time.Time
	IndexedAt   time.Time
	Metadata    map[string]string
}

// MetadataEntry is one (document_id, key, value) row.
type MetadataEntry struct {
	DocumentID int64
	Key        string
	Value      string
}

// IndexEntry is one (document_id, keyword, frequency, positions, relevance) row.
type IndexEntry struct {
	DocumentID int64
	Keyword    string
	Frequency  int
	Positions  []int
	Relevance  float64
}

// CacheEntry is one (query_hash, original_query, serialized_results, ...) row.
type CacheEntry struct {
	QueryHash          string
	OriginalQuery      string
	SerializedResults  string
	CreatedAt          time.Time
	ExpiresAt          time.Time
	HitCount           int
}

// ListOrder picks the ordering for ListByType.
type ListOrder string

const (
	OrderRelevance ListOrder = "relevance"
	OrderDate      ListOrder = "date"
	OrderName      ListOrder = "name"
)
