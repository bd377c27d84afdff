package repository

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no snapshot exists for a kind.
var ErrNotFound = errors.New("not found")

// Snapshot kinds.
const (
	KindConfirmed = "confirmed"
	KindDeaths    = "deaths"
)

// Snapshot is the latest import of one count table.
type Snapshot struct {
	ID             string
	Kind           string
	Source         string
	SourceHash     string
	RegionColumn   string
	LeadingColumns int
	Header         []string
	RowCount       int
	ImportedAt     time.Time
	Rows           []SnapshotRow
}

// SnapshotRow is one stored table row.
type SnapshotRow struct {
	Region      string
	Identifiers []string
	Counts      []int64
}
