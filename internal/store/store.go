// Package store implements the document store (C2): transactional CRUD over
// documents, their metadata, the inverted search index, and the query
// cache, backed by SQLite through database/sql.
package store

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/mydocs-mcp/mydocs-mcp/internal/apperrors"
)

const component = "store"

// slowQueryThreshold is the boundary past which a query is logged as slow
// but still allowed to complete (spec.md §4.1).
const slowQueryThreshold = 200 * time.Millisecond

// Store is the document store. It owns one *sql.DB (via Pool) and a
// semaphore bounding concurrent logical callers, mirroring the teacher's
// indexingSemaphore pattern generalized from a single store to every tool
// call.
type Store struct {
	db  *sql.DB
	sem chan struct{}
}

// Open opens (creating if necessary) the SQLite file at databaseURL,
// applies tuning pragmas, and runs any pending migrations. maxConnections
// bounds concurrent logical callers multiplexed onto the single
// connection.
func Open(databaseURL string, maxConnections int) (*Store, error) {
	pool := NewPool()
	db, err := pool.Get(databaseURL)
	if err != nil {
		return nil, apperrors.New(apperrors.KindInternal, component, "open", "connecting", err)
	}
	if maxConnections <= 0 {
		maxConnections = 10
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, apperrors.New(apperrors.KindInternal, component, "open", "running migrations", err)
	}
	return &Store{db: db, sem: make(chan struct{}, maxConnections)}, nil
}

// Close releases the backing connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// acquire/release implement the configurable-ceiling multiplexing the
// document-store spec calls for; the underlying connection itself is
// already serialized to one writer by Pool.
func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.sem
}

func (s *Store) timed(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	if elapsed := time.Since(start); elapsed > slowQueryThreshold {
		slog.Warn("slow store operation", "operation", op, "elapsed_ms", elapsed.Milliseconds())
	}
	return err
}

// RunInTransaction executes fn inside one SQLite transaction, rolling back
// on any error fn returns.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if err := s.acquire(ctx); err != nil {
		return apperrors.New(apperrors.KindTimeout, component, "runInTransaction", "acquiring connection slot", err)
	}
	defer s.release()

	var txErr error
	err := s.timed("runInTransaction", func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return apperrors.StoreFailed(component, "runInTransaction", "beginning transaction", err)
		}
		if err := fn(tx); err != nil {
			tx.Rollback()
			txErr = err
			return nil
		}
		if err := tx.Commit(); err != nil {
			return apperrors.StoreFailed(component, "runInTransaction", "committing transaction", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return txErr
}

// CreateDocument inserts record and returns its assigned id, failing with
// Duplicate if file_path already exists.
func (s *Store) CreateDocument(ctx context.Context, d *Document) (int64, error) {
	var id int64
	err := s.RunInTransaction(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = CreateDocumentTx(ctx, tx, d)
		if err != nil {
			return err
		}
		return sweepExpiredCacheTx(ctx, tx)
	})
	return id, err
}

// UpdateDocument rewrites the row identified by d.ID, failing with NotFound
// if it does not exist.
func (s *Store) UpdateDocument(ctx context.Context, d *Document) error {
	return s.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if err := UpdateDocumentTx(ctx, tx, d); err != nil {
			return err
		}
		return sweepExpiredCacheTx(ctx, tx)
	})
}

// CreateDocumentTx is the transaction-scoped half of CreateDocument. The
// search engine (C3) calls this from inside its own RunInTransaction block
// so the document row and its index entries land in one transaction, per
// spec.md §5's ordering guarantee.
func CreateDocumentTx(ctx context.Context, tx *sql.Tx, d *Document) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO documents (file_path, file_name, file_type, size_bytes, content_hash, content, created_at, modified_at, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.FilePath, d.FileName, d.FileType, d.SizeBytes, d.ContentHash, d.Content,
		d.CreatedAt, d.ModifiedAt, d.IndexedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.Duplicate(component, "createDocument", "path already indexed: "+d.FilePath)
		}
		return 0, apperrors.StoreFailed(component, "createDocument", "inserting document", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperrors.StoreFailed(component, "createDocument", "reading inserted id", err)
	}
	if err := replaceMetadataTx(ctx, tx, id, d.Metadata); err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateDocumentTx is the transaction-scoped half of UpdateDocument.
func UpdateDocumentTx(ctx context.Context, tx *sql.Tx, d *Document) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE documents SET file_path=?, file_name=?, file_type=?, size_bytes=?, content_hash=?, content=?, modified_at=?, indexed_at=?
		WHERE id=?`,
		d.FilePath, d.FileName, d.FileType, d.SizeBytes, d.ContentHash, d.Content, d.ModifiedAt, d.IndexedAt, d.ID,
	)
	if err != nil {
		return apperrors.StoreFailed(component, "updateDocument", "updating document", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.StoreFailed(component, "updateDocument", "reading rows affected", err)
	}
	if n == 0 {
		return apperrors.NotFound(component, "updateDocument", "document not found")
	}
	return replaceMetadataTx(ctx, tx, d.ID, d.Metadata)
}

// GetByID returns the document with the given id, or nil if not found.
func (s *Store) GetByID(ctx context.Context, id int64) (*Document, error) {
	return s.getOne(ctx, `WHERE id = ?`, id)
}

// GetByPath returns the document with the given file path, or nil if not found.
func (s *Store) GetByPath(ctx context.Context, path string) (*Document, error) {
	return s.getOne(ctx, `WHERE file_path = ?`, path)
}

func (s *Store) getOne(ctx context.Context, where string, arg any) (*Document, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, apperrors.New(apperrors.KindTimeout, component, "get", "acquiring connection slot", err)
	}
	defer s.release()

	var d Document
	err := s.timed("get", func() error {
		row := s.db.QueryRowContext(ctx, `
			SELECT id, file_path, file_name, file_type, size_bytes, content_hash, content, created_at, modified_at, indexed_at
			FROM documents `+where, arg)
		return row.Scan(&d.ID, &d.FilePath, &d.FileName, &d.FileType, &d.SizeBytes, &d.ContentHash, &d.Content,
			&d.CreatedAt, &d.ModifiedAt, &d.IndexedAt)
	})
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.StoreFailed(component, "get", "querying document", err)
	}
	meta, err := s.getMetadata(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	d.Metadata = meta
	return &d, nil
}

// ListByType returns up to limit documents of the given file type (empty
// means any), starting at offset, ordered per order.
func (s *Store) ListByType(ctx context.Context, fileType string, limit, offset int, order ListOrder) ([]*Document, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, apperrors.New(apperrors.KindTimeout, component, "listByType", "acquiring connection slot", err)
	}
	defer s.release()

	orderClause := "indexed_at DESC"
	switch order {
	case OrderName:
		orderClause = "file_name ASC"
	case OrderDate:
		orderClause = "indexed_at DESC"
	}

	query := `SELECT id, file_path, file_name, file_type, size_bytes, content_hash, content, created_at, modified_at, indexed_at FROM documents`
	args := []any{}
	if fileType != "" {
		query += ` WHERE file_type = ?`
		args = append(args, fileType)
	}
	query += ` ORDER BY ` + orderClause + ` LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var docs []*Document
	err := s.timed("listByType", func() error {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var d Document
			if err := rows.Scan(&d.ID, &d.FilePath, &d.FileName, &d.FileType, &d.SizeBytes, &d.ContentHash, &d.Content,
				&d.CreatedAt, &d.ModifiedAt, &d.IndexedAt); err != nil {
				return err
			}
			docs = append(docs, &d)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, apperrors.StoreFailed(component, "listByType", "querying documents", err)
	}
	return docs, nil
}

// DeleteDocument removes the document and cascades to its metadata and
// index entries via ON DELETE CASCADE, plus a cache sweep.
func (s *Store) DeleteDocument(ctx context.Context, id int64) error {
	err := s.RunInTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
		if err != nil {
			return apperrors.StoreFailed(component, "deleteDocument", "deleting document", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return apperrors.StoreFailed(component, "deleteDocument", "reading rows affected", err)
		}
		if n == 0 {
			return apperrors.NotFound(component, "deleteDocument", "document not found")
		}
		return sweepExpiredCacheTx(ctx, tx)
	})
	return err
}

// RenamePath rewrites the file_path column for the document currently at
// oldPath to newPath, used by the watcher's moved dispatch (spec.md §4.3)
// to preserve the document's id and history across a filesystem move
// instead of deleting and recreating it.
func (s *Store) RenamePath(ctx context.Context, oldPath, newPath string) error {
	return s.RunInTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE documents SET file_path = ? WHERE file_path = ?`, newPath, oldPath)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.Duplicate(component, "renamePath", "path already indexed: "+newPath)
			}
			return apperrors.StoreFailed(component, "renamePath", "rewriting file path", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return apperrors.StoreFailed(component, "renamePath", "reading rows affected", err)
		}
		if n == 0 {
			return apperrors.NotFound(component, "renamePath", "document not found at "+oldPath)
		}
		return sweepExpiredCacheTx(ctx, tx)
	})
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	// mattn/go-sqlite3 reports unique violations with this substring; a
	// dedicated error-code type import would add a hard dependency on the
	// driver's internal error struct just for this one check.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
