package scene

import "fmt"

// EventKind identifies the shape of an Event.
type EventKind int

const (
	EventSelectRegion EventKind = iota
	EventSelectMetric
	EventBack
)

func (k EventKind) String() string {
	switch k {
	case EventSelectRegion:
		return "select_region"
	case EventSelectMetric:
		return "select_metric"
	case EventBack:
		return "back"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is a drill or back request from a renderer.
type Event interface {
	Kind() EventKind
}

// SelectRegion drills from the overview into a region.
type SelectRegion struct{ Region string }

// SelectMetric drills from a region summary into a metric's trend.
type SelectMetric struct{ Metric MetricID }

// Back returns to the parent scene.
type Back struct{}

func (SelectRegion) Kind() EventKind { return EventSelectRegion }
func (SelectMetric) Kind() EventKind { return EventSelectMetric }
func (Back) Kind() EventKind         { return EventBack }
