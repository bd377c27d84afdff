package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunMigrationsIdempotent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, RunMigrations(dbPath))
	require.NoError(t, RunMigrations(dbPath))

	v, dirty, err := Version(dbPath)
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(1), v)

	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&n))
	require.Zero(t, n)
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, RunMigrations(dbPath))
	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	boom := errors.New("boom")
	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots(id, kind, source, source_hash, region_column, leading_columns, header, row_count)
		VALUES ('a', 'confirmed', 'x.csv', 'h', 'Province_State', 1, '[]', 0)`)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n))
	require.Zero(t, n)
}
