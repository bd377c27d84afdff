package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/casescope/internal/database/repository"
	"github.com/jask/casescope/internal/service"
)

func newImportCmd() *cobra.Command {
	var (
		kind  string
		reset bool
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the configured CSV tables into the snapshot store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			kinds := service.Kinds
			if kind != "all" {
				kinds = []string{kind}
			}
			db, err := s.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			if reset {
				if err := (&service.MaintenanceService{DB: db}).Reset(cmd.Context()); err != nil {
					return fmt.Errorf("reset: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "snapshots cleared")
			}

			svc := &service.ImportService{Datasets: repository.NewDatasetRepo(db), Log: s.log}
			results, err := svc.ImportConfigured(cmd.Context(), s.cfg.Data, kinds...)
			for _, r := range results {
				if r.Unchanged {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: unchanged (%s)\n", r.Kind, r.Source)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows from %s\n", r.Kind, r.Rows, r.Source)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "all", "Table to import: confirmed, deaths or all")
	cmd.Flags().BoolVar(&reset, "reset", false, "Drop stored snapshots before importing")
	return cmd
}
