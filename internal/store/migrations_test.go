package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateUp_AppliesAndRecordsVersion(t *testing.T) {
	pool := NewPool()
	path := filepath.Join(t.TempDir(), "migrate.db")
	db, err := pool.Get(path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, migrateUp(db))

	v, err := currentVersion(db)
	require.NoError(t, err)
	assert.Equal(t, migrations[len(migrations)-1].Version, v)

	row := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`)
	var count int
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, len(migrations), count)

	// Idempotent: running again applies nothing new.
	require.NoError(t, migrateUp(db))
	v2, err := currentVersion(db)
	require.NoError(t, err)
	assert.Equal(t, v, v2)
}

func TestMigrateDownTo_DropsSchemaAndResetsVersion(t *testing.T) {
	pool := NewPool()
	path := filepath.Join(t.TempDir(), "migrate_down.db")
	db, err := pool.Get(path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, migrateUp(db))
	require.NoError(t, migrateDownTo(db, 0))

	v, err := currentVersion(db)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	_, err = db.Exec(`SELECT 1 FROM documents`)
	assert.Error(t, err, "documents table should have been dropped by the rollback")
}
