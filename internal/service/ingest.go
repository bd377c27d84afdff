package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/casescope/internal/aggregate"
	"github.com/jask/casescope/internal/config"
	"github.com/jask/casescope/internal/database/repository"
	"github.com/jask/casescope/internal/dataset"
)

// ImportService copies count tables from CSV into the snapshot store.
type ImportService struct {
	Datasets *repository.DatasetRepo
	Log      *slog.Logger
}

type ImportResult struct {
	ID        string
	Kind      string
	Source    string
	Rows      int
	Unchanged bool
}

// Import reads the CSV at location and replaces the stored snapshot of kind. When
// the bytes and read options hash to the stored value nothing is written.
func (s *ImportService) Import(ctx context.Context, kind, location string, opts dataset.CSVOptions) (ImportResult, error) {
	res := ImportResult{Kind: kind, Source: location}
	rc, err := dataset.Open(ctx, location)
	if err != nil {
		return res, fmt.Errorf("import %s: %w", kind, err)
	}
	body, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		return res, fmt.Errorf("import %s: read: %w", kind, err)
	}

	hash := hashSource(string(body), opts.RegionColumn, strconv.Itoa(opts.LeadingColumns))
	prev, err := s.Datasets.SourceHash(ctx, kind)
	switch {
	case err == nil && prev == hash:
		res.Unchanged = true
		s.logger().Info("import_unchanged", "kind", kind, "source", location)
		return res, nil
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return res, err
	}

	if opts.Name == "" {
		opts.Name = kind
	}
	ds, err := dataset.ReadCSV(bytes.NewReader(body), opts)
	if err != nil {
		return res, fmt.Errorf("import %s: %w", kind, err)
	}
	if len(ds.Rows) == 0 {
		return res, fmt.Errorf("import %s: %w", kind, aggregate.ErrEmptyDataset)
	}

	snap := repository.Snapshot{
		ID:             uuid.NewString(),
		Kind:           kind,
		Source:         location,
		SourceHash:     hash,
		RegionColumn:   opts.RegionColumn,
		LeadingColumns: ds.LeadingColumns,
		Header:         ds.Header,
		Rows:           make([]repository.SnapshotRow, len(ds.Rows)),
	}
	for i, row := range ds.Rows {
		snap.Rows[i] = repository.SnapshotRow{Region: row.Region, Identifiers: row.Identifiers, Counts: row.Counts}
	}
	if err := s.Datasets.Replace(ctx, snap); err != nil {
		return res, fmt.Errorf("import %s: %w", kind, err)
	}
	res.ID = snap.ID
	res.Rows = len(snap.Rows)
	s.logger().Info("import_done", "kind", kind, "source", location, "rows", res.Rows, "id", res.ID)
	return res, nil
}

// ImportConfigured imports the given kinds from the configured CSV paths.
func (s *ImportService) ImportConfigured(ctx context.Context, cfg config.DataConfig, kinds ...string) ([]ImportResult, error) {
	out := make([]ImportResult, 0, len(kinds))
	for _, kind := range kinds {
		location, err := TablePath(cfg, kind)
		if err != nil {
			return out, err
		}
		res, err := s.Import(ctx, kind, location, CSVOptions(cfg, kind))
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (s *ImportService) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

func hashSource(parts ...string) string {
	joined := strings.Join(parts, "|")
	sum := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("%x", sum[:])
}
