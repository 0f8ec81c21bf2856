package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mydocs-mcp/mydocs-mcp/internal/apperrors"
)

// ReplaceIndexEntriesTx deletes all existing index rows for docID and
// bulk-inserts entries, as one step of the ingest transaction (spec.md
// §4.2 step 7).
func ReplaceIndexEntriesTx(ctx context.Context, tx *sql.Tx, docID int64, entries []IndexEntry) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM search_index WHERE document_id = ?`, docID); err != nil {
		return apperrors.StoreFailed(component, "replaceIndexEntries", "clearing index", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO search_index (document_id, keyword, frequency, positions, relevance) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return apperrors.StoreFailed(component, "replaceIndexEntries", "preparing insert", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		positionsJSON, err := json.Marshal(e.Positions)
		if err != nil {
			return apperrors.Internal(component, "replaceIndexEntries", "encoding positions", err)
		}
		if _, err := stmt.ExecContext(ctx, docID, e.Keyword, e.Frequency, string(positionsJSON), e.Relevance); err != nil {
			return apperrors.StoreFailed(component, "replaceIndexEntries", "inserting index entry", err)
		}
	}
	return nil
}

// KeywordMatch is one row of the scoring query: a document's aggregate
// relevance signal against the submitted query terms.
type KeywordMatch struct {
	DocumentID int64
	Keyword    string
	Frequency  int
	Relevance  float64
}

// QueryIndexForKeywords returns every (document_id, keyword, frequency,
// relevance) row whose keyword is in keywords, optionally restricted to
// fileType.
func (s *Store) QueryIndexForKeywords(ctx context.Context, keywords []string, fileType string) ([]KeywordMatch, error) {
	if len(keywords) == 0 {
		return nil, nil
	}
	if err := s.acquire(ctx); err != nil {
		return nil, apperrors.New(apperrors.KindTimeout, component, "queryIndex", "acquiring connection slot", err)
	}
	defer s.release()

	placeholders := make([]byte, 0, len(keywords)*2)
	args := make([]any, 0, len(keywords)+1)
	for i, kw := range keywords {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
		args = append(args, kw)
	}

	query := `
		SELECT si.document_id, si.keyword, si.frequency, si.relevance
		FROM search_index si`
	if fileType != "" {
		query += ` JOIN documents d ON d.id = si.document_id`
	}
	query += ` WHERE si.keyword IN (` + string(placeholders) + `)`
	if fileType != "" {
		query += ` AND d.file_type = ?`
		args = append(args, fileType)
	}

	var matches []KeywordMatch
	err := s.timed("queryIndex", func() error {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var m KeywordMatch
			if err := rows.Scan(&m.DocumentID, &m.Keyword, &m.Frequency, &m.Relevance); err != nil {
				return err
			}
			matches = append(matches, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, apperrors.StoreFailed(component, "queryIndex", "querying index", err)
	}
	return matches, nil
}
