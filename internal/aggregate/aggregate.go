// Package aggregate reduces count tables into the numbers each scene shows:
// per-region rollups of the latest day, the per-region metric summary, per-region
// trends, and first-maximum lookups over any of them. Every function is pure.
package aggregate

import (
	"fmt"
	"strings"
	"time"

	"github.com/jask/casescope/internal/dataset"
)

// Summary labels, in display order.
const (
	LabelCases     = "Cases"
	LabelDeaths    = "Deaths"
	LabelRecovered = "Recovered"
)

// RegionTotal is one region's latest cumulative count.
type RegionTotal struct {
	Region string
	Total  int64
}

// RegionTotals maps regions to their latest count and remembers the order in which
// regions first appeared in the table.
type RegionTotals struct {
	entries []RegionTotal
	index   map[string]int
}

// Entries returns a copy of the totals in first-appearance order.
func (t RegionTotals) Entries() []RegionTotal {
	return append([]RegionTotal(nil), t.entries...)
}

// Get returns the total for region; regions missing from the table count as zero.
func (t RegionTotals) Get(region string) int64 {
	if i, ok := t.index[region]; ok {
		return t.entries[i].Total
	}
	return 0
}

// Has reports whether the table had any row for region.
func (t RegionTotals) Has(region string) bool {
	_, ok := t.index[region]
	return ok
}

func (t RegionTotals) Len() int { return len(t.entries) }

// TotalsByRegion sums the last date column of every row per region. Regions that
// span several rows (counties of a state) are added together.
func TotalsByRegion(ds *dataset.Dataset) (RegionTotals, error) {
	if ds == nil || len(ds.Rows) == 0 {
		return RegionTotals{}, ErrEmptyDataset
	}
	out := RegionTotals{index: make(map[string]int)}
	for _, row := range ds.Rows {
		i, ok := out.index[row.Region]
		if !ok {
			i = len(out.entries)
			out.index[row.Region] = i
			out.entries = append(out.entries, RegionTotal{Region: row.Region})
		}
		out.entries[i].Total += row.Last()
	}
	return out, nil
}

// SummaryEntry is one bar of the region summary. Available is false for metrics
// no table supplies; their Value is a placeholder, not a measured zero.
type SummaryEntry struct {
	Label     string
	Value     int64
	Available bool
}

// RegionSummary is the fixed Cases, Deaths, Recovered triple for a region.
type RegionSummary struct {
	Region  string
	Entries []SummaryEntry
}

// Entry returns the entry with the given label.
func (s RegionSummary) Entry(label string) (SummaryEntry, bool) {
	for _, e := range s.Entries {
		if e.Label == label {
			return e, true
		}
	}
	return SummaryEntry{}, false
}

// SummaryForRegion sums the last date column of the rows matching region exactly in
// each table. A region with no rows yields zero for that table.
func SummaryForRegion(confirmed, deaths *dataset.Dataset, region string) RegionSummary {
	return RegionSummary{
		Region: region,
		Entries: []SummaryEntry{
			{Label: LabelCases, Value: lastColumnSum(confirmed, region), Available: true},
			{Label: LabelDeaths, Value: lastColumnSum(deaths, region), Available: true},
			{Label: LabelRecovered, Value: 0, Available: false},
		},
	}
}

func lastColumnSum(ds *dataset.Dataset, region string) int64 {
	if ds == nil {
		return 0
	}
	var sum int64
	for _, row := range ds.Rows {
		if row.Region == region {
			sum += row.Last()
		}
	}
	return sum
}

// TrendPoint is the summed count of one date column.
type TrendPoint struct {
	Date  time.Time
	Value int64
}

// TrendSeries has one point per date column, in source column order.
type TrendSeries []TrendPoint

// TrendForRegion sums every date column across the rows matching region. The date
// headers are parsed with layout; one bad header fails the whole series.
func TrendForRegion(ds *dataset.Dataset, region, layout string) (TrendSeries, error) {
	var rows []dataset.Row
	if ds != nil {
		for _, row := range ds.Rows {
			if row.Region == region {
				rows = append(rows, row)
			}
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("trend for %q: %w", region, ErrNoMatchingRows)
	}
	dates, err := DateColumns(ds, layout)
	if err != nil {
		return nil, err
	}
	series := make(TrendSeries, len(dates))
	for i, d := range dates {
		series[i].Date = d
	}
	for _, row := range rows {
		for i := range series {
			if i < len(row.Counts) {
				series[i].Value += row.Counts[i]
			}
		}
	}
	return series, nil
}

// DateColumns parses every date header of ds. The first header that does not
// parse is returned as a *MalformedDateColumnError.
func DateColumns(ds *dataset.Dataset, layout string) ([]time.Time, error) {
	if ds == nil {
		return nil, nil
	}
	headers := ds.DateHeaders()
	out := make([]time.Time, len(headers))
	for i, h := range headers {
		d, err := ParseDateHeader(h, layout)
		if err != nil {
			return nil, &MalformedDateColumnError{Column: ds.LeadingColumns + i, Header: h, Err: err}
		}
		out[i] = d
	}
	return out, nil
}

// ParseDateHeader parses a date column header into a UTC calendar date.
func ParseDateHeader(header, layout string) (time.Time, error) {
	t, err := time.Parse(layout, strings.TrimSpace(header))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// Extremum returns the index and value of the first element with the largest key.
// Later elements only win with a strictly larger key. ok is false for an empty slice.
func Extremum[T any](points []T, by func(T) int64) (idx int, point T, ok bool) {
	idx = -1
	for i, p := range points {
		if idx < 0 || by(p) > by(point) {
			idx, point = i, p
		}
	}
	return idx, point, idx >= 0
}
