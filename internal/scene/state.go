// Package scene is the navigation core of the narrative: the selection state, the
// events a renderer may send, the view-models it receives, and the controller that
// moves between Overview, RegionDetail and TrendDetail.
package scene

import (
	"fmt"
	"strings"

	"github.com/jask/casescope/internal/aggregate"
)

// SceneID names one of the three views.
type SceneID int

const (
	Overview SceneID = iota
	RegionDetail
	TrendDetail
)

func (s SceneID) String() string {
	switch s {
	case Overview:
		return "overview"
	case RegionDetail:
		return "region_detail"
	case TrendDetail:
		return "trend_detail"
	}
	return fmt.Sprintf("scene(%d)", int(s))
}

// MetricID names a tracked measure. Values match the summary labels.
type MetricID string

const (
	MetricCases     MetricID = aggregate.LabelCases
	MetricDeaths    MetricID = aggregate.LabelDeaths
	MetricRecovered MetricID = aggregate.LabelRecovered
)

// Metrics lists every metric in summary order.
var Metrics = []MetricID{MetricCases, MetricDeaths, MetricRecovered}

// Drillable reports whether a time series backs the metric.
func (m MetricID) Drillable() bool {
	return m == MetricCases || m == MetricDeaths
}

// ParseMetric accepts a metric name in any case.
func ParseMetric(s string) (MetricID, error) {
	for _, m := range Metrics {
		if strings.EqualFold(strings.TrimSpace(s), string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// SelectionState is the navigation context. Region is empty only at Overview and
// Metric is empty unless Scene is TrendDetail.
type SelectionState struct {
	Scene  SceneID
	Region string
	Metric MetricID
}

// CanGoBack is false at the root scene.
func (s SelectionState) CanGoBack() bool { return s.Scene != Overview }

// Valid checks the region and metric invariants for the current scene.
func (s SelectionState) Valid() bool {
	switch s.Scene {
	case Overview:
		return s.Region == "" && s.Metric == ""
	case RegionDetail:
		return s.Region != "" && s.Metric == ""
	case TrendDetail:
		return s.Region != "" && s.Metric.Drillable()
	}
	return false
}
