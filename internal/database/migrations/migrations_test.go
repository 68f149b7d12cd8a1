package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "migrations.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count))
	return count == 1
}

func TestEmbedded(t *testing.T) {
	migrations, err := Embedded()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Contains(t, migrations[0].Up, "CREATE TABLE IF NOT EXISTS articles")
	assert.Contains(t, migrations[0].Down, "DROP TABLE IF EXISTS articles")
}

func TestLoadMigrationsSortsAndSkipsInvalid(t *testing.T) {
	fsys := fstest.MapFS{
		"002_second.up.sql":   {Data: []byte("CREATE TABLE b (id INTEGER);")},
		"001_first.up.sql":    {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"001_first.down.sql":  {Data: []byte("DROP TABLE a;")},
		"readme.md":           {Data: []byte("ignored")},
		"not_a_migration.sql": {Data: []byte("ignored")},
	}

	migrations, err := LoadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "DROP TABLE a;", migrations[0].Down)
	assert.Equal(t, 2, migrations[1].Version)
	assert.Empty(t, migrations[1].Down)
}

func TestRunAndRollbackMigrations(t *testing.T) {
	db := openTestDB(t)

	migrations, err := Embedded()
	require.NoError(t, err)

	require.NoError(t, RunMigrations(db, migrations))
	require.NoError(t, RunMigrations(db, migrations), "second run is a no-op")
	assert.True(t, tableExists(t, db, "articles"))
	assert.True(t, tableExists(t, db, "suggestions"))

	require.NoError(t, RollbackMigrations(db, migrations, 1))
	assert.False(t, tableExists(t, db, "articles"))
	assert.False(t, tableExists(t, db, "suggestions"))

	var applied int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM migrations`).Scan(&applied))
	assert.Zero(t, applied)
}

func TestRunMigrationsFailureIsRolledBack(t *testing.T) {
	db := openTestDB(t)

	err := RunMigrations(db, []Migration{{Version: 1, Up: "CREATE TABLE ok (id INTEGER); THIS IS NOT SQL;"}})
	require.Error(t, err)

	var applied int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM migrations`).Scan(&applied))
	assert.Zero(t, applied)
}
