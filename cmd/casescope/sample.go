package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/casescope/internal/testdata"
)

func newSampleCmd() *cobra.Command {
	var (
		dir  string
		opts testdata.Options
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write synthetic case tables and boundaries for a demo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			files, err := testdata.Generate(opts).WriteDir(dir)
			if err != nil {
				return fmt.Errorf("sample: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "wrote", files.Confirmed)
			fmt.Fprintln(out, "wrote", files.Deaths)
			fmt.Fprintln(out, "wrote", files.Boundaries)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "data", "Output directory")
	cmd.Flags().StringSliceVar(&opts.Regions, "regions", nil, "Region names (default: a fixed set of US states)")
	cmd.Flags().IntVar(&opts.Counties, "counties", 3, "Rows per region")
	cmd.Flags().IntVar(&opts.Days, "days", 30, "Number of date columns")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 1, "Random seed")
	return cmd
}
