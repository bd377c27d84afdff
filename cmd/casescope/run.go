package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/casescope/internal/config"
	"github.com/jask/casescope/internal/database/repository"
	"github.com/jask/casescope/internal/dataset"
	"github.com/jask/casescope/internal/scene"
	"github.com/jask/casescope/internal/service"
	"github.com/jask/casescope/internal/tui"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the interactive narrative",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(nil)
			if err != nil {
				return err
			}
			defer s.Close()

			bundle, closeStore, err := loadBundle(cmd.Context(), s)
			if err != nil {
				return err
			}
			defer closeStore()

			app := tui.New(s.cfg.UI, s.log)
			ctrl := scene.NewController(controllerData(s.cfg, bundle), app, scene.WithLogger(s.log))
			app.Bind(ctrl)
			if err := ctrl.Start(); err != nil {
				return err
			}
			if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
				return fmt.Errorf("ui: %w", err)
			}
			return nil
		},
	}
}

// loadBundle loads the three sources, opening the snapshot store first when
// tables come from sqlite.
func loadBundle(ctx context.Context, s *session) (*dataset.Bundle, func(), error) {
	closeStore := func() {}
	src := service.Source{Config: s.cfg.Data, Log: s.log}
	if s.cfg.Data.Source == config.SourceSQLite {
		db, err := s.openStore()
		if err != nil {
			return nil, nil, err
		}
		closeStore = func() { _ = db.Close() }
		src.Datasets = repository.NewDatasetRepo(db)
	}
	bundle, err := src.Load(ctx)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("load: %w", err)
	}
	return bundle, closeStore, nil
}

func controllerData(cfg config.Config, b *dataset.Bundle) scene.Data {
	return scene.DataFromBundle(b, dataset.RegionKeys(cfg.Data.BoundaryKeys), cfg.Data.DateLayout)
}
