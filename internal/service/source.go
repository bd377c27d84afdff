package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jask/casescope/internal/config"
	"github.com/jask/casescope/internal/database/repository"
	"github.com/jask/casescope/internal/dataset"
)

// Kinds lists the importable tables.
var Kinds = []string{repository.KindConfirmed, repository.KindDeaths}

// TablePath returns the configured location of a table.
func TablePath(cfg config.DataConfig, kind string) (string, error) {
	switch kind {
	case repository.KindConfirmed:
		return cfg.ConfirmedPath, nil
	case repository.KindDeaths:
		return cfg.DeathsPath, nil
	}
	return "", fmt.Errorf("unknown table kind %q", kind)
}

// CSVOptions returns the read options of a table.
func CSVOptions(cfg config.DataConfig, kind string) dataset.CSVOptions {
	lead := cfg.ConfirmedLeadingColumns
	if kind == repository.KindDeaths {
		lead = cfg.DeathsLeadingColumns
	}
	return dataset.CSVOptions{Name: kind, RegionColumn: cfg.RegionColumn, LeadingColumns: lead}
}

// Source loads the startup bundle from CSV or from the snapshot store. Boundaries
// always come from their file or URL.
type Source struct {
	Config   config.DataConfig
	Datasets *repository.DatasetRepo
	Log      *slog.Logger
}

// Loaders builds the three loads for the configured backend.
func (s Source) Loaders() (dataset.Loaders, error) {
	l := dataset.Loaders{
		Boundaries: dataset.FileBoundaries(s.Config.BoundariesPath, s.Config.BoundaryObject),
	}
	switch s.Config.Source {
	case config.SourceSQLite:
		if s.Datasets == nil {
			return l, fmt.Errorf("sqlite source: no snapshot store")
		}
		l.Confirmed = SnapshotTable(s.Datasets, repository.KindConfirmed)
		l.Deaths = SnapshotTable(s.Datasets, repository.KindDeaths)
	default:
		l.Confirmed = dataset.FileTable(s.Config.ConfirmedPath, CSVOptions(s.Config, repository.KindConfirmed))
		l.Deaths = dataset.FileTable(s.Config.DeathsPath, CSVOptions(s.Config, repository.KindDeaths))
	}
	return l, nil
}

// Load runs the loads concurrently under the configured timeout.
func (s Source) Load(ctx context.Context) (*dataset.Bundle, error) {
	l, err := s.Loaders()
	if err != nil {
		return nil, err
	}
	if s.Config.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Config.LoadTimeout)
		defer cancel()
	}
	b, err := dataset.LoadAll(ctx, l)
	if err != nil {
		return nil, err
	}
	log := s.Log
	if log == nil {
		log = slog.Default()
	}
	log.Info("dataset_loaded",
		"source", s.Config.Source,
		"confirmed_rows", len(b.Confirmed.Rows),
		"deaths_rows", len(b.Deaths.Rows),
		"boundaries", len(b.Boundaries.Features))
	return b, nil
}

// SnapshotTable reads the latest stored snapshot of kind as a dataset.
func SnapshotTable(repo *repository.DatasetRepo, kind string) dataset.TableLoader {
	return func(ctx context.Context) (*dataset.Dataset, error) {
		snap, err := repo.Latest(ctx, kind)
		if err != nil {
			return nil, err
		}
		ds := &dataset.Dataset{
			Name:           kind,
			Header:         snap.Header,
			LeadingColumns: snap.LeadingColumns,
			Rows:           make([]dataset.Row, len(snap.Rows)),
		}
		for i, r := range snap.Rows {
			ds.Rows[i] = dataset.Row{Region: r.Region, Identifiers: r.Identifiers, Counts: r.Counts}
		}
		return ds, nil
	}
}
