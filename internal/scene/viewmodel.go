package scene

import (
	"github.com/jask/casescope/internal/aggregate"
	"github.com/jask/casescope/internal/dataset"
)

// ViewModel is the immutable description of one scene handed to a Renderer. It is
// one of OverviewView, RegionDetailView or TrendDetailView.
type ViewModel interface {
	Scene() SceneID
	CanGoBack() bool
}

// OverviewView carries the latest totals of every region and the boundary
// collection, passed through untouched.
type OverviewView struct {
	Totals     aggregate.RegionTotals
	Peak       aggregate.RegionTotal
	HasPeak    bool
	Regions    []string
	Boundaries *dataset.Boundaries
}

func (OverviewView) Scene() SceneID  { return Overview }
func (OverviewView) CanGoBack() bool { return false }

// RegionDetailView is the per-region metric summary.
type RegionDetailView struct {
	Region  string
	Summary aggregate.RegionSummary
	Peak    aggregate.SummaryEntry
}

func (RegionDetailView) Scene() SceneID  { return RegionDetail }
func (RegionDetailView) CanGoBack() bool { return true }

// TrendDetailView is one metric's series for a region. PeakIndex is -1 for an
// empty series.
type TrendDetailView struct {
	Region    string
	Metric    MetricID
	Series    aggregate.TrendSeries
	Peak      aggregate.TrendPoint
	PeakIndex int
}

func (TrendDetailView) Scene() SceneID  { return TrendDetail }
func (TrendDetailView) CanGoBack() bool { return true }
