package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jask/casescope/internal/config"
	"github.com/jask/casescope/internal/database"
	"github.com/jask/casescope/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	run := newRunCmd()
	root := &cobra.Command{
		Use:           "casescope",
		Short:         "Drill from regional case totals down to a region's trend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run.RunE,
	}
	root.AddCommand(run, newImportCmd(), newReportCmd(), newSampleCmd(), newStatusCmd())
	return root
}

// session is the configuration and logger every command starts from.
type session struct {
	cfg    config.Config
	log    *slog.Logger
	closer io.Closer
}

func (s *session) Close() {
	if s.closer != nil {
		_ = s.closer.Close()
	}
}

// newSession loads config and sets up logging. Without log.path, logs go to
// fallback; a nil fallback means the configured log file next to the database.
func newSession(fallback io.Writer) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	s := &session{cfg: cfg}
	w := fallback
	if cfg.Log.Path != "" || fallback == nil {
		path := cfg.LogPath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log: %w", err)
		}
		s.closer = f
		w = f
	}
	s.log = logger.Setup(cfg.Log, w)
	return s, nil
}

// openStore migrates and opens the snapshot database.
func (s *session) openStore() (*sql.DB, error) {
	path := s.cfg.Database.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(path); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return db, nil
}
