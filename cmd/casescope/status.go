package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jask/casescope/internal/database"
	"github.com/jask/casescope/internal/database/repository"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the snapshot store schema version and imported tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			db, err := s.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			v, dirty, err := database.Version(s.cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("schema version: %w", err)
			}
			snaps, err := repository.NewDatasetRepo(db).List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list snapshots: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "store: %s\n", s.cfg.Database.Path)
			if dirty {
				fmt.Fprintf(out, "schema: %d (dirty)\n", v)
			} else {
				fmt.Fprintf(out, "schema: %d\n", v)
			}
			if len(snaps) == 0 {
				fmt.Fprintln(out, "no snapshots; run casescope import")
				return nil
			}
			for _, sn := range snaps {
				fmt.Fprintf(out, "%s: %s rows, %d date columns, imported %s from %s\n",
					sn.Kind, humanize.Comma(int64(sn.RowCount)), len(sn.Header)-sn.LeadingColumns,
					humanize.Time(sn.ImportedAt), sn.Source)
			}
			return nil
		},
	}
}
