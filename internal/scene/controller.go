package scene

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jask/casescope/internal/aggregate"
	"github.com/jask/casescope/internal/dataset"
)

// ErrNotStarted is returned by Dispatch before Start has rendered the overview.
var ErrNotStarted = errors.New("scene controller not started")

// Data is what the controller aggregates from.
type Data struct {
	Confirmed  *dataset.Dataset
	Deaths     *dataset.Dataset
	Boundaries *dataset.Boundaries
	RegionKeys dataset.RegionKeys
	DateLayout string
}

// DataFromBundle pairs loaded sources with the settings needed to read them.
func DataFromBundle(b *dataset.Bundle, keys dataset.RegionKeys, layout string) Data {
	return Data{
		Confirmed:  b.Confirmed,
		Deaths:     b.Deaths,
		Boundaries: b.Boundaries,
		RegionKeys: keys,
		DateLayout: layout,
	}
}

type transitionKey struct {
	from SceneID
	kind EventKind
}

type transition struct {
	to    SceneID
	guard func(c *Controller, ev Event) bool
	apply func(s SelectionState, ev Event) SelectionState
}

// transitions is the whole machine. A (scene, event) pair absent from the table,
// or one whose guard fails, is ignored.
var transitions = map[transitionKey]transition{
	{Overview, EventSelectRegion}: {
		to: RegionDetail,
		guard: func(c *Controller, ev Event) bool {
			_, ok := c.known[ev.(SelectRegion).Region]
			return ok
		},
		apply: func(s SelectionState, ev Event) SelectionState {
			s.Region = ev.(SelectRegion).Region
			return s
		},
	},
	{RegionDetail, EventSelectMetric}: {
		to: TrendDetail,
		guard: func(_ *Controller, ev Event) bool {
			return ev.(SelectMetric).Metric.Drillable()
		},
		apply: func(s SelectionState, ev Event) SelectionState {
			s.Metric = ev.(SelectMetric).Metric
			return s
		},
	},
	{RegionDetail, EventBack}: {
		to: Overview,
		apply: func(s SelectionState, _ Event) SelectionState {
			s.Region = ""
			return s
		},
	},
	{TrendDetail, EventBack}: {
		to: RegionDetail,
		apply: func(s SelectionState, _ Event) SelectionState {
			s.Metric = ""
			return s
		},
	},
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for transition events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// Controller owns the SelectionState and is the only thing that changes it. It
// handles one event at a time and is not safe for concurrent use.
type Controller struct {
	data     Data
	renderer Renderer
	log      *slog.Logger
	state    SelectionState
	view     ViewModel
	known    map[string]struct{}
	regions  []string
	started  bool
}

// NewController prepares a controller at Overview. Nothing is rendered until Start.
func NewController(data Data, r Renderer, opts ...Option) *Controller {
	if r == nil {
		r = discardRenderer{}
	}
	c := &Controller{
		data:     data,
		renderer: r,
		log:      slog.Default(),
		known:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.indexRegions()
	return c
}

// known regions: every confirmed-table region, then boundary names not already seen
func (c *Controller) indexRegions() {
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := c.known[name]; ok {
			return
		}
		c.known[name] = struct{}{}
		c.regions = append(c.regions, name)
	}
	for _, r := range c.data.Confirmed.Regions() {
		add(r)
	}
	keys := c.data.RegionKeys
	if len(keys) == 0 {
		keys = dataset.DefaultRegionKeys
	}
	for _, name := range c.data.Boundaries.RegionNames(keys) {
		add(name)
	}
}

// Start checks both tables, then builds and renders the overview. An error here
// means the data cannot drive the narrative at all and the controller stays
// unstarted.
func (c *Controller) Start() error {
	if err := c.checkTables(); err != nil {
		c.log.Error("start_failed", "err", err)
		return fmt.Errorf("start: %w", err)
	}
	vm, err := c.build(SelectionState{Scene: Overview})
	if err != nil {
		c.log.Error("start_failed", "err", err)
		return fmt.Errorf("start: %w", err)
	}
	c.state = SelectionState{Scene: Overview}
	c.view = vm
	c.started = true
	c.log.Debug("transition", "to", Overview.String(), "regions", len(c.regions))
	c.renderer.Render(vm)
	return nil
}

// checkTables rejects a table with no rows or with a date header that does not
// parse under the configured layout.
func (c *Controller) checkTables() error {
	for _, t := range []struct {
		name string
		ds   *dataset.Dataset
	}{{"confirmed", c.data.Confirmed}, {"deaths", c.data.Deaths}} {
		if t.ds == nil || len(t.ds.Rows) == 0 {
			return fmt.Errorf("%s table: %w", t.name, aggregate.ErrEmptyDataset)
		}
		if _, err := aggregate.DateColumns(t.ds, c.data.DateLayout); err != nil {
			return fmt.Errorf("%s table: %w", t.name, err)
		}
	}
	return nil
}

// Dispatch runs one event to completion. Ignored events return nil without
// rendering. When building the target scene fails the state is left as it was,
// the error goes to the renderer and is returned.
func (c *Controller) Dispatch(ev Event) error {
	if !c.started {
		return ErrNotStarted
	}
	if ev == nil {
		return nil
	}
	from := c.state
	t, ok := transitions[transitionKey{from.Scene, ev.Kind()}]
	if !ok || (t.guard != nil && !t.guard(c, ev)) {
		c.log.Debug("transition_ignored", "scene", from.Scene.String(), "event", ev.Kind().String())
		return nil
	}
	next := t.apply(from, ev)
	next.Scene = t.to

	vm, err := c.build(next)
	if err != nil {
		err = fmt.Errorf("%s -> %s: %w", from.Scene, next.Scene, err)
		c.log.Warn("transition_failed",
			"from", from.Scene.String(), "to", next.Scene.String(),
			"region", next.Region, "metric", string(next.Metric), "err", err)
		c.renderer.ReportError(err)
		return err
	}
	c.state = next
	c.view = vm
	c.log.Debug("transition",
		"from", from.Scene.String(), "to", next.Scene.String(),
		"region", next.Region, "metric", string(next.Metric))
	c.renderer.Render(vm)
	return nil
}

func (c *Controller) SelectRegion(region string) error {
	return c.Dispatch(SelectRegion{Region: region})
}

func (c *Controller) SelectMetric(m MetricID) error {
	return c.Dispatch(SelectMetric{Metric: m})
}

func (c *Controller) Back() error {
	return c.Dispatch(Back{})
}

// State returns a copy of the current selection.
func (c *Controller) State() SelectionState { return c.state }

// View returns the last committed view-model, nil before Start.
func (c *Controller) View() ViewModel { return c.view }

// Regions lists the regions selectRegion accepts.
func (c *Controller) Regions() []string { return append([]string(nil), c.regions...) }

// Known reports whether region can be selected.
func (c *Controller) Known(region string) bool {
	_, ok := c.known[region]
	return ok
}

func (c *Controller) build(s SelectionState) (ViewModel, error) {
	switch s.Scene {
	case Overview:
		totals, err := aggregate.TotalsByRegion(c.data.Confirmed)
		if err != nil {
			return nil, err
		}
		_, peak, ok := aggregate.Extremum(totals.Entries(), func(t aggregate.RegionTotal) int64 { return t.Total })
		return OverviewView{
			Totals:     totals,
			Peak:       peak,
			HasPeak:    ok,
			Regions:    c.Regions(),
			Boundaries: c.data.Boundaries,
		}, nil
	case RegionDetail:
		summary := aggregate.SummaryForRegion(c.data.Confirmed, c.data.Deaths, s.Region)
		_, peak, _ := aggregate.Extremum(summary.Entries, func(e aggregate.SummaryEntry) int64 { return e.Value })
		return RegionDetailView{Region: s.Region, Summary: summary, Peak: peak}, nil
	case TrendDetail:
		series, err := aggregate.TrendForRegion(c.metricTable(s.Metric), s.Region, c.data.DateLayout)
		if err != nil {
			return nil, err
		}
		idx, peak, _ := aggregate.Extremum(series, func(p aggregate.TrendPoint) int64 { return p.Value })
		return TrendDetailView{Region: s.Region, Metric: s.Metric, Series: series, Peak: peak, PeakIndex: idx}, nil
	}
	return nil, fmt.Errorf("unknown scene %s", s.Scene)
}

func (c *Controller) metricTable(m MetricID) *dataset.Dataset {
	if m == MetricDeaths {
		return c.data.Deaths
	}
	return c.data.Confirmed
}
