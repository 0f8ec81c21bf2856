package store

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/mydocs-mcp/mydocs-mcp/internal/apperrors"
)

// GetCache returns the non-expired cache entry for hash, or nil if absent
// or expired. A hit also increments hit_count.
func (s *Store) GetCache(ctx context.Context, hash string) (*CacheEntry, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, apperrors.New(apperrors.KindTimeout, component, "getCache", "acquiring connection slot", err)
	}
	defer s.release()

	var entry CacheEntry
	err := s.timed("getCache", func() error {
		row := s.db.QueryRowContext(ctx, `
			SELECT query_hash, original_query, serialized_results, created_at, expires_at, hit_count
			FROM search_cache WHERE query_hash = ? AND expires_at > ?`, hash, time.Now())
		return row.Scan(&entry.QueryHash, &entry.OriginalQuery, &entry.SerializedResults,
			&entry.CreatedAt, &entry.ExpiresAt, &entry.HitCount)
	})
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.StoreFailed(component, "getCache", "querying cache", err)
	}

	if _, err := s.db.ExecContext(ctx, `UPDATE search_cache SET hit_count = hit_count + 1 WHERE query_hash = ?`, hash); err != nil {
		slog.Warn("store: cache hit-count increment failed", "error", apperrors.StoreFailed(component, "getCache", "incrementing hit count", err))
	}
	entry.HitCount++
	return &entry, nil
}

// PutCache upserts a cache entry, created on a query miss with expiry
// now+TTL.
func (s *Store) PutCache(ctx context.Context, entry *CacheEntry) error {
	return s.RunInTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO search_cache (query_hash, original_query, serialized_results, created_at, expires_at, hit_count)
			VALUES (?, ?, ?, ?, ?, 0)
			ON CONFLICT(query_hash) DO UPDATE SET
				original_query=excluded.original_query,
				serialized_results=excluded.serialized_results,
				created_at=excluded.created_at,
				expires_at=excluded.expires_at,
				hit_count=0`,
			entry.QueryHash, entry.OriginalQuery, entry.SerializedResults, entry.CreatedAt, entry.ExpiresAt,
		)
		if err != nil {
			return apperrors.StoreFailed(component, "putCache", "upserting cache entry", err)
		}
		return nil
	})
}

// SweepExpiredCache deletes every expired cache row. Every
// createDocument/updateDocument/deleteDocument triggers this sweep
// (spec.md §4.2 Invalidation).
func (s *Store) SweepExpiredCache(ctx context.Context) error {
	return s.RunInTransaction(ctx, func(tx *sql.Tx) error {
		return sweepExpiredCacheTx(ctx, tx)
	})
}

func sweepExpiredCacheTx(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM search_cache WHERE expires_at <= ?`, time.Now()); err != nil {
		return apperrors.StoreFailed(component, "sweepExpiredCache", "deleting expired cache rows", err)
	}
	return nil
}
