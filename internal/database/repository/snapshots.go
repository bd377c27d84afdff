package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jask/casescope/internal/database"
)

// DatasetRepo stores imported count tables, one snapshot per kind.
type DatasetRepo struct {
	db *sql.DB
}

func NewDatasetRepo(db *sql.DB) *DatasetRepo { return &DatasetRepo{db: db} }

// Replace swaps the snapshot of s.Kind for s, rows included, in one transaction.
func (r *DatasetRepo) Replace(ctx context.Context, s Snapshot) error {
	header, err := json.Marshal(s.Header)
	if err != nil {
		return err
	}
	if s.ImportedAt.IsZero() {
		s.ImportedAt = database.Now()
	}
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		// rows go with it via ON DELETE CASCADE
		if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE kind = ?`, s.Kind); err != nil {
			return fmt.Errorf("delete snapshot: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots(id, kind, source, source_hash, region_column, leading_columns, header, row_count, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
		`, s.ID, s.Kind, s.Source, s.SourceHash, s.RegionColumn, s.LeadingColumns, string(header), len(s.Rows), s.ImportedAt)
		if err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_rows(snapshot_id, row_index, region, identifiers, counts)
		VALUES (?, ?, ?, ?, ?);
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, row := range s.Rows {
			ids, err := json.Marshal(row.Identifiers)
			if err != nil {
				return err
			}
			counts, err := json.Marshal(row.Counts)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, s.ID, i, row.Region, string(ids), string(counts)); err != nil {
				return fmt.Errorf("insert row %d: %w", i, err)
			}
		}
		return nil
	})
}

const snapshotColumns = `id, kind, source, source_hash, region_column, leading_columns, header, row_count, imported_at`

// Latest returns the snapshot of kind with all its rows in source order.
func (r *DatasetRepo) Latest(ctx context.Context, kind string) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM snapshots WHERE kind = ?`, kind)
	s, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("snapshot %q: %w", kind, ErrNotFound)
		}
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT region, identifiers, counts FROM snapshot_rows
	WHERE snapshot_id = ? ORDER BY row_index`, s.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	s.Rows = make([]SnapshotRow, 0, s.RowCount)
	for rows.Next() {
		var (
			sr          SnapshotRow
			ids, counts string
		)
		if err := rows.Scan(&sr.Region, &ids, &counts); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(ids), &sr.Identifiers); err != nil {
			return nil, fmt.Errorf("decode identifiers: %w", err)
		}
		if err := json.Unmarshal([]byte(counts), &sr.Counts); err != nil {
			return nil, fmt.Errorf("decode counts: %w", err)
		}
		s.Rows = append(s.Rows, sr)
	}
	return s, rows.Err()
}

// SourceHash returns the stored hash for kind, or ErrNotFound.
func (r *DatasetRepo) SourceHash(ctx context.Context, kind string) (string, error) {
	var h string
	err := r.db.QueryRowContext(ctx, `SELECT source_hash FROM snapshots WHERE kind = ?`, kind).Scan(&h)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return h, err
}

// List returns every snapshot without rows, ordered by kind.
func (r *DatasetRepo) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+snapshotColumns+` FROM snapshots ORDER BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(sc scanner) (*Snapshot, error) {
	var (
		s      Snapshot
		header string
	)
	if err := sc.Scan(&s.ID, &s.Kind, &s.Source, &s.SourceHash, &s.RegionColumn,
		&s.LeadingColumns, &header, &s.RowCount, &s.ImportedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(header), &s.Header); err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}
	return &s, nil
}
