package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fwojciec/wikitxt/sqlite"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		var count int
		err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM articles").Scan(&count)
		require.NoError(t, err)
		require.Zero(t, count)
	})

	t.Run("creates the parent directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "catalog.db")
		db := sqlite.NewDB(path)
		require.NoError(t, db.Open())
		defer db.Close()

		require.FileExists(t, path)
		require.Equal(t, path, db.Path())
	})

	t.Run("returns error when the directory cannot be created", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/dev/null/db.sqlite")
		require.Error(t, db.Open())
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, db.Open())
		defer db.Close()

		var journalMode string
		err := db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		require.Equal(t, "wal", journalMode)
	})
}
