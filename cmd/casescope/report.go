package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jask/casescope/internal/scene"
)

type reportOptions struct {
	region string
	metric string
	format string
	output string
}

func newReportCmd() *cobra.Command {
	var opts reportOptions
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Walk the narrative without a terminal UI and print the final scene",
		Example: `  casescope report
  casescope report --region Texas
  casescope report --region Texas --metric deaths --format json -o texas.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			bundle, closeStore, err := loadBundle(cmd.Context(), s)
			if err != nil {
				return err
			}
			defer closeStore()

			rec := &scene.Recorder{}
			ctrl := scene.NewController(controllerData(s.cfg, bundle), rec, scene.WithLogger(s.log))
			if err := walk(ctrl, opts); err != nil {
				return err
			}

			doc := newReportDoc(rec.Last())
			if opts.output == "" {
				return writeReport(cmd.OutOrStdout(), opts.format, doc)
			}
			return writeReportFile(opts.output, opts.format, doc)
		},
	}
	cmd.Flags().StringVar(&opts.region, "region", "", "Region to drill into")
	cmd.Flags().StringVar(&opts.metric, "metric", "", "Metric trend to open (cases or deaths); needs --region")
	cmd.Flags().StringVar(&opts.format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path (default: stdout)")
	return cmd
}

// writeReportFile writes doc to path. A failed close is reported since the
// last buffered bytes may not have reached the file.
func writeReportFile(path, format string, doc reportDoc) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", cerr)
		}
	}()
	return writeReport(f, format, doc)
}

// walk drives the controller the way a user would. Events the controller ignores
// are errors here, since nobody is watching the screen.
func walk(ctrl *scene.Controller, opts reportOptions) error {
	if err := ctrl.Start(); err != nil {
		return err
	}
	if opts.region == "" {
		if opts.metric != "" {
			return fmt.Errorf("--metric needs --region")
		}
		return nil
	}
	if err := ctrl.SelectRegion(opts.region); err != nil {
		return err
	}
	if ctrl.State().Scene != scene.RegionDetail {
		return fmt.Errorf("unknown region %q", opts.region)
	}
	if opts.metric == "" {
		return nil
	}
	m, err := scene.ParseMetric(opts.metric)
	if err != nil {
		return err
	}
	if err := ctrl.SelectMetric(m); err != nil {
		return err
	}
	if ctrl.State().Scene != scene.TrendDetail {
		return fmt.Errorf("%s has no time series", m)
	}
	return nil
}

type reportDoc struct {
	Scene   string       `json:"scene" yaml:"scene"`
	Region  string       `json:"region,omitempty" yaml:"region,omitempty"`
	Metric  string       `json:"metric,omitempty" yaml:"metric,omitempty"`
	Peak    *peakDoc     `json:"peak,omitempty" yaml:"peak,omitempty"`
	Totals  []totalDoc   `json:"totals,omitempty" yaml:"totals,omitempty"`
	Summary []summaryDoc `json:"summary,omitempty" yaml:"summary,omitempty"`
	Series  []pointDoc   `json:"series,omitempty" yaml:"series,omitempty"`
}

type peakDoc struct {
	Label string `json:"label" yaml:"label"`
	Value int64  `json:"value" yaml:"value"`
}

type totalDoc struct {
	Region string `json:"region" yaml:"region"`
	Total  int64  `json:"total" yaml:"total"`
}

// summaryDoc leaves Value out for metrics nobody reports.
type summaryDoc struct {
	Label     string `json:"label" yaml:"label"`
	Value     *int64 `json:"value,omitempty" yaml:"value,omitempty"`
	Available bool   `json:"available" yaml:"available"`
}

type pointDoc struct {
	Date  string `json:"date" yaml:"date"`
	Value int64  `json:"value" yaml:"value"`
}

func newReportDoc(vm scene.ViewModel) reportDoc {
	if vm == nil {
		return reportDoc{}
	}
	doc := reportDoc{Scene: vm.Scene().String()}
	switch vm := vm.(type) {
	case scene.OverviewView:
		if vm.HasPeak {
			doc.Peak = &peakDoc{Label: vm.Peak.Region, Value: vm.Peak.Total}
		}
		for _, r := range vm.Regions {
			doc.Totals = append(doc.Totals, totalDoc{Region: r, Total: vm.Totals.Get(r)})
		}
	case scene.RegionDetailView:
		doc.Region = vm.Region
		doc.Peak = &peakDoc{Label: vm.Peak.Label, Value: vm.Peak.Value}
		for _, e := range vm.Summary.Entries {
			sd := summaryDoc{Label: e.Label, Available: e.Available}
			if e.Available {
				v := e.Value
				sd.Value = &v
			}
			doc.Summary = append(doc.Summary, sd)
		}
	case scene.TrendDetailView:
		doc.Region = vm.Region
		doc.Metric = string(vm.Metric)
		if vm.PeakIndex >= 0 {
			doc.Peak = &peakDoc{Label: vm.Peak.Date.Format("2006-01-02"), Value: vm.Peak.Value}
		}
		for _, p := range vm.Series {
			doc.Series = append(doc.Series, pointDoc{Date: p.Date.Format("2006-01-02"), Value: p.Value})
		}
	}
	return doc
}

func writeReport(out io.Writer, format string, doc reportDoc) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "yaml", "yml", "":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	return fmt.Errorf("unsupported format %q (use yaml or json)", format)
}
