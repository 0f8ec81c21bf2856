package store

import (
	"context"
	"database/sql"

	"github.com/mydocs-mcp/mydocs-mcp/internal/apperrors"
)

// replaceMetadataTx deletes all existing metadata rows for docID and
// inserts the given map, as a single transaction step (rewritten wholesale
// on every create/reindex per spec.md §3).
func replaceMetadataTx(ctx context.Context, tx *sql.Tx, docID int64, meta map[string]string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM document_metadata WHERE document_id = ?`, docID); err != nil {
		return apperrors.StoreFailed(component, "replaceMetadata", "clearing metadata", err)
	}
	for k, v := range meta {
		if k == "" || v == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO document_metadata (document_id, key, value) VALUES (?, ?, ?)`, docID, k, v); err != nil {
			return apperrors.StoreFailed(component, "replaceMetadata", "inserting metadata", err)
		}
	}
	return nil
}

func (s *Store) getMetadata(ctx context.Context, docID int64) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM document_metadata WHERE document_id = ?`, docID)
	if err != nil {
		return nil, apperrors.StoreFailed(component, "getMetadata", "querying metadata", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, apperrors.StoreFailed(component, "getMetadata", "scanning metadata", err)
		}
		meta[k] = v
	}
	return meta, rows.Err()
}
