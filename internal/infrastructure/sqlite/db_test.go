package sqlite

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// TestNewDB_CreatesDirectory verifies that NewDB creates the parent directory if missing.
func TestNewDB_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "test.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err, "NewDB should succeed even with nested non-existent directories")
	defer db.Close()

	info, err := os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err, "Directory should exist after NewDB")
	require.True(t, info.IsDir())

	// Unix only - Windows doesn't support Unix permissions
	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), info.Mode().Perm(), "Directory should have 0700 permissions")
	}

	info, err = os.Stat(dbPath)
	require.NoError(t, err, "Database file should exist after NewDB")
	require.False(t, info.IsDir())
}

// TestNewDB_RunsMigrations verifies every table exists and the schema version is recorded.
func TestNewDB_RunsMigrations(t *testing.T) {
	db := newTestDB(t)

	for _, table := range []string{"builds", "datasets", "dataset_tags", "dataset_sources", "dataset_resources"} {
		var name string
		err := db.conn.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "%s table should exist after migrations", table)
	}

	var version int
	require.NoError(t, db.conn.QueryRow("PRAGMA user_version").Scan(&version))
	require.Equal(t, len(migrations), version)
}

// TestNewDB_ReopenIsIdempotent verifies migrations are not re-applied on an existing file.
func TestNewDB_ReopenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db1, err := NewDB(dbPath)
	require.NoError(t, err)
	_, err = db1.conn.Exec("INSERT INTO builds (id, created_at, dataset_count) VALUES ('b1', 1, 0)")
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	db2, err := NewDB(dbPath)
	require.NoError(t, err, "Second NewDB should succeed")
	defer db2.Close()

	var count int
	require.NoError(t, db2.conn.QueryRow("SELECT COUNT(*) FROM builds").Scan(&count))
	require.Equal(t, 1, count, "existing rows survive reopening")
}

// TestNewDB_RejectsNewerSchema verifies a database from a newer binary is not touched.
func TestNewDB_RejectsNewerSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err)
	_, err = db.conn.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = NewDB(dbPath)
	require.ErrorContains(t, err, "newer than supported")
}

// TestNewDB_Pragmas verifies foreign keys and the busy timeout are configured.
func TestNewDB_Pragmas(t *testing.T) {
	db := newTestDB(t)

	var foreignKeys int
	require.NoError(t, db.conn.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	require.Equal(t, 1, foreignKeys, "Foreign keys should be enabled (1)")

	var busyTimeout int
	require.NoError(t, db.conn.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	require.Equal(t, 5000, busyTimeout, "Busy timeout should be 5000ms")
}

// TestDB_Close verifies that connection closes cleanly.
func TestDB_Close(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	require.NoError(t, db.Close(), "Close should succeed")
	require.Error(t, db.conn.Ping(), "Ping should fail after Close")
}

// TestNewDB_InvalidPath verifies that NewDB returns an error when the directory cannot be created.
func TestNewDB_InvalidPath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := NewDB(filepath.Join(blocker, "test.db"))
	require.Error(t, err, "NewDB should fail when the parent is a regular file")
}
