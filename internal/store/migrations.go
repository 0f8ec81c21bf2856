package store

import (
	"database/sql"
	"fmt"
)

// Migration is one forward/backward schema step, tracked by version in the
// schema_migrations log table and mirrored into the SQLite user_version
// pragma. Modeled on the Migration/upgrade/rollback pair from the original
// Python project's migration sequencer.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
	Down        func(tx *sql.Tx) error
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema: documents, metadata, search_index, search_cache, fts mirror",
		Up:          migration001Up,
		Down:        migration001Down,
	},
}

func migration001Up(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			file_path TEXT NOT NULL UNIQUE,
			file_name TEXT NOT NULL,
			file_type TEXT NOT NULL,
			size_bytes INTEGER NOT NULL,
			content_hash TEXT NOT NULL CHECK(LENGTH(content_hash)=64),
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			modified_at TIMESTAMP NOT NULL,
			indexed_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS document_metadata (
			document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (document_id, key)
		)`,
		`CREATE TABLE IF NOT EXISTS search_index (
			document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			keyword TEXT NOT NULL,
			frequency INTEGER NOT NULL,
			positions TEXT NOT NULL,
			relevance REAL NOT NULL,
			PRIMARY KEY (document_id, keyword)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_search_index_keyword ON search_index(keyword)`,
		`CREATE TABLE IF NOT EXISTS search_cache (
			query_hash TEXT PRIMARY KEY,
			original_query TEXT NOT NULL,
			serialized_results TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			expires_at TIMESTAMP NOT NULL CHECK(expires_at > created_at),
			hit_count INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL
		)`,
		// Full-text mirror, kept in sync by triggers; not queried by the
		// keyword scoring path (see SPEC_FULL.md §7) but required by the
		// persistent store format.
		`CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
			content, file_name, content='documents', content_rowid='id'
		)`,
		`CREATE TRIGGER IF NOT EXISTS documents_fts_insert AFTER INSERT ON documents BEGIN
			INSERT INTO documents_fts(rowid, content, file_name) VALUES (new.id, new.content, new.file_name);
		END`,
		`CREATE TRIGGER IF NOT EXISTS documents_fts_delete AFTER DELETE ON documents BEGIN
			INSERT INTO documents_fts(documents_fts, rowid, content, file_name) VALUES ('delete', old.id, old.content, old.file_name);
		END`,
		`CREATE TRIGGER IF NOT EXISTS documents_fts_update AFTER UPDATE ON documents BEGIN
			INSERT INTO documents_fts(documents_fts, rowid, content, file_name) VALUES ('delete', old.id, old.content, old.file_name);
			INSERT INTO documents_fts(rowid, content, file_name) VALUES (new.id, new.content, new.file_name);
		END`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return fmt.Errorf("migration 1: %s: %w", s, err)
		}
	}
	return nil
}

func migration001Down(tx *sql.Tx) error {
	stmts := []string{
		`DROP TRIGGER IF EXISTS documents_fts_update`,
		`DROP TRIGGER IF EXISTS documents_fts_delete`,
		`DROP TRIGGER IF EXISTS documents_fts_insert`,
		`DROP TABLE IF EXISTS documents_fts`,
		`DROP TABLE IF EXISTS schema_migrations`,
		`DROP TABLE IF EXISTS search_cache`,
		`DROP TABLE IF EXISTS search_index`,
		`DROP TABLE IF EXISTS document_metadata`,
		`DROP TABLE IF EXISTS documents`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return fmt.Errorf("migration 1 rollback: %s: %w", s, err)
		}
	}
	return nil
}

// currentVersion reads the SQLite user_version pragma.
func currentVersion(db *sql.DB) (int, error) {
	row := db.QueryRow("PRAGMA user_version")
	var v int
	if err := row.Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}

func setVersion(tx *sql.Tx, v int) error {
	_, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", v))
	return err
}

// migrateUp applies every migration with version greater than the current
// one, in ascending order, each in its own transaction, recording it in
// schema_migrations and advancing user_version.
func migrateUp(db *sql.DB) error {
	cur, err := currentVersion(db)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	for _, m := range migrations {
		if m.Version <= cur {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: begin: %w", m.Version, err)
		}
		if err := m.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d up: %w", m.Version, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO schema_migrations(version, description, applied_at) VALUES (?, ?, datetime('now'))`,
			m.Version, m.Description,
		); err != nil {
			// schema_migrations itself may not exist before migration 1 runs;
			// migration 1 creates it in the same transaction so this always
			// succeeds from version 1 onward.
			tx.Rollback()
			return fmt.Errorf("migration %d: recording log: %w", m.Version, err)
		}
		if err := setVersion(tx, m.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: setting user_version: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: commit: %w", m.Version, err)
		}
	}
	return nil
}

// migrateDownTo rolls back migrations in descending order until the target
// version is reached.
func migrateDownTo(db *sql.DB, target int) error {
	cur, err := currentVersion(db)
	if err != nil {
		return err
	}
	for i := len(migrations) - 1; i >= 0; i-- {
		m := migrations[i]
		if m.Version <= target || m.Version > cur {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: begin: %w", m.Version, err)
		}
		// Clear the log row before Down runs: migration 1's Down drops
		// schema_migrations itself.
		if _, err := tx.Exec(`DELETE FROM schema_migrations WHERE version = ?`, m.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: clearing log: %w", m.Version, err)
		}
		if err := m.Down(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d down: %w", m.Version, err)
		}
		if err := setVersion(tx, m.Version-1); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: setting user_version: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: commit: %w", m.Version, err)
		}
	}
	return nil
}
