package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations(t *testing.T) {
	connection := filepath.Join(t.TempDir(), "data", "test.db") + "?_pragma=foreign_keys(1)"
	database, err := Init("sqlite", connection)
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, RunMigrations(database.DB, "sqlite"))

	version, err := MigrationVersion(database.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)

	// idempotent
	require.NoError(t, RunMigrations(database.DB, "sqlite"))

	require.NoError(t, MigrateDown(database.DB, "sqlite"))
	version, err = MigrationVersion(database.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	var tables int
	err = database.Get(&tables, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'practice_sessions'`)
	require.NoError(t, err)
	assert.Equal(t, 0, tables)
}
