package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jask/casescope/internal/database"
)

func openRepo(t *testing.T) *DatasetRepo {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewDatasetRepo(db)
}

func snapshot(kind, hash string, rows ...SnapshotRow) Snapshot {
	return Snapshot{
		ID:             uuid.NewString(),
		Kind:           kind,
		Source:         kind + ".csv",
		SourceHash:     hash,
		RegionColumn:   "Province_State",
		LeadingColumns: 1,
		Header:         []string{"Province_State", "1/22/20", "1/23/20"},
		Rows:           rows,
	}
}

func TestReplaceAndLatest(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	repo := openRepo(t)

	in := snapshot(KindConfirmed, "h1",
		SnapshotRow{Region: "Texas", Identifiers: []string{"Texas"}, Counts: []int64{1, 100}},
		SnapshotRow{Region: "California", Identifiers: []string{"California"}, Counts: []int64{0, 30}},
		SnapshotRow{Region: "Texas", Identifiers: []string{"Texas"}, Counts: []int64{2, 50}},
	)
	require.NoError(t, repo.Replace(ctx, in))

	got, err := repo.Latest(ctx, KindConfirmed)
	require.NoError(t, err)
	require.Equal(t, in.ID, got.ID)
	require.Equal(t, in.Header, got.Header)
	require.Equal(t, 3, got.RowCount)
	require.Equal(t, in.Rows, got.Rows)
	require.False(t, got.ImportedAt.IsZero())

	h, err := repo.SourceHash(ctx, KindConfirmed)
	require.NoError(t, err)
	require.Equal(t, "h1", h)
}

func TestReplaceSwapsRows(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	repo := openRepo(t)

	require.NoError(t, repo.Replace(ctx, snapshot(KindDeaths, "a",
		SnapshotRow{Region: "Ohio", Identifiers: []string{"Ohio"}, Counts: []int64{1, 2}})))
	second := snapshot(KindDeaths, "b",
		SnapshotRow{Region: "Utah", Identifiers: []string{"Utah"}, Counts: []int64{3, 4}})
	require.NoError(t, repo.Replace(ctx, second))

	got, err := repo.Latest(ctx, KindDeaths)
	require.NoError(t, err)
	require.Equal(t, second.ID, got.ID)
	require.Equal(t, second.Rows, got.Rows)

	var orphans int
	require.NoError(t, repo.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM snapshot_rows WHERE snapshot_id <> ?`, second.ID).Scan(&orphans))
	require.Zero(t, orphans)
}

func TestLatestNotFound(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	repo := openRepo(t)

	_, err := repo.Latest(ctx, KindConfirmed)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = repo.SourceHash(ctx, KindConfirmed)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	repo := openRepo(t)

	require.NoError(t, repo.Replace(ctx, snapshot(KindDeaths, "d")))
	require.NoError(t, repo.Replace(ctx, snapshot(KindConfirmed, "c")))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, KindConfirmed, list[0].Kind)
	require.Equal(t, KindDeaths, list[1].Kind)
	require.Nil(t, list[0].Rows)
}
