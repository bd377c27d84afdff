package aggregate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/casescope/internal/dataset"
)

const layout = "1/2/06"

func table(name string, rows ...dataset.Row) *dataset.Dataset {
	return &dataset.Dataset{
		Name:           name,
		Header:         []string{"UID", "Province_State", "1/22/20", "1/23/20", "1/24/20"},
		LeadingColumns: 2,
		Rows:           rows,
	}
}

func row(region string, counts ...int64) dataset.Row {
	return dataset.Row{Region: region, Identifiers: []string{"0", region}, Counts: counts}
}

func confirmed() *dataset.Dataset {
	return table("confirmed",
		row("Texas", 10, 40, 100),
		row("California", 1, 10, 30),
		row("Texas", 5, 20, 50),
	)
}

func deaths() *dataset.Dataset {
	return table("deaths",
		row("Texas", 0, 1, 4),
		row("Texas", 0, 0, 2),
		row("California", 0, 1, 1),
	)
}

func TestTotalsByRegionRollup(t *testing.T) {
	t.Parallel()

	totals, err := TotalsByRegion(confirmed())
	require.NoError(t, err)
	require.Equal(t, []RegionTotal{{"Texas", 150}, {"California", 30}}, totals.Entries())
	require.Equal(t, int64(150), totals.Get("Texas"))
	require.Equal(t, int64(0), totals.Get("Ohio"))
	require.False(t, totals.Has("Ohio"))
	require.Equal(t, 2, totals.Len())

	idx, peak, ok := Extremum(totals.Entries(), func(r RegionTotal) int64 { return r.Total })
	require.True(t, ok)
	require.Equal(t, 0, idx)
	require.Equal(t, RegionTotal{"Texas", 150}, peak)
}

func TestTotalsByRegionIdempotent(t *testing.T) {
	t.Parallel()

	ds := confirmed()
	a, err := TotalsByRegion(ds)
	require.NoError(t, err)
	b, err := TotalsByRegion(ds)
	require.NoError(t, err)
	require.Equal(t, a.Entries(), b.Entries())
}

func TestTotalsByRegionEmpty(t *testing.T) {
	t.Parallel()

	_, err := TotalsByRegion(table("confirmed"))
	require.ErrorIs(t, err, ErrEmptyDataset)
	_, err = TotalsByRegion(nil)
	require.ErrorIs(t, err, ErrEmptyDataset)
}

func TestEntriesReturnsCopy(t *testing.T) {
	t.Parallel()

	totals, err := TotalsByRegion(confirmed())
	require.NoError(t, err)
	e := totals.Entries()
	e[0].Total = -1
	require.Equal(t, int64(150), totals.Get("Texas"))
}

func TestSummaryForRegion(t *testing.T) {
	t.Parallel()

	s := SummaryForRegion(confirmed(), deaths(), "Texas")
	require.Equal(t, "Texas", s.Region)
	require.Equal(t, []SummaryEntry{
		{Label: LabelCases, Value: 150, Available: true},
		{Label: LabelDeaths, Value: 6, Available: true},
		{Label: LabelRecovered, Value: 0, Available: false},
	}, s.Entries)

	rec, ok := s.Entry(LabelRecovered)
	require.True(t, ok)
	require.False(t, rec.Available)
}

func TestSummaryCasesMatchesRowSums(t *testing.T) {
	t.Parallel()

	ds := confirmed()
	for _, region := range ds.Regions() {
		var want int64
		for _, r := range ds.Rows {
			if r.Region == region {
				want += r.Last()
			}
		}
		cases, ok := SummaryForRegion(ds, deaths(), region).Entry(LabelCases)
		require.True(t, ok)
		require.Equal(t, want, cases.Value, region)
	}
}

func TestSummaryUnknownRegionIsZero(t *testing.T) {
	t.Parallel()

	s := SummaryForRegion(confirmed(), deaths(), "texas")
	require.Equal(t, int64(0), s.Entries[0].Value)
	require.Equal(t, int64(0), s.Entries[1].Value)
}

func TestTrendForRegion(t *testing.T) {
	t.Parallel()

	series, err := TrendForRegion(confirmed(), "Texas", layout)
	require.NoError(t, err)
	require.Equal(t, TrendSeries{
		{Date: time.Date(2020, 1, 22, 0, 0, 0, 0, time.UTC), Value: 15},
		{Date: time.Date(2020, 1, 23, 0, 0, 0, 0, time.UTC), Value: 60},
		{Date: time.Date(2020, 1, 24, 0, 0, 0, 0, time.UTC), Value: 150},
	}, series)

	idx, peak, ok := Extremum(series, func(p TrendPoint) int64 { return p.Value })
	require.True(t, ok)
	require.Equal(t, 2, idx)
	require.Equal(t, int64(150), peak.Value)
}

func TestTrendNoMatchingRows(t *testing.T) {
	t.Parallel()

	_, err := TrendForRegion(confirmed(), "Ohio", layout)
	require.ErrorIs(t, err, ErrNoMatchingRows)
	require.ErrorContains(t, err, "Ohio")
}

func TestTrendMalformedDateColumn(t *testing.T) {
	t.Parallel()

	ds := confirmed()
	ds.Header = []string{"UID", "Province_State", "1/22/20", "Population", "1/24/20"}

	_, err := TrendForRegion(ds, "Texas", layout)
	var mdc *MalformedDateColumnError
	require.True(t, errors.As(err, &mdc))
	require.Equal(t, 3, mdc.Column)
	require.Equal(t, "Population", mdc.Header)
}

func TestDateColumns(t *testing.T) {
	t.Parallel()

	dates, err := DateColumns(confirmed(), layout)
	require.NoError(t, err)
	require.NotEmpty(t, dates)
	require.Equal(t, time.UTC, dates[0].Location())

	ds := confirmed()
	ds.Header = append(append([]string{}, ds.Header[:ds.LeadingColumns]...), "Lat")
	_, err = DateColumns(ds, layout)
	var mdc *MalformedDateColumnError
	require.ErrorAs(t, err, &mdc)
	require.Equal(t, ds.LeadingColumns, mdc.Column)
}

func TestExtremumTiesKeepEarliest(t *testing.T) {
	t.Parallel()

	type point struct {
		Label string
		Value int64
	}
	points := []point{{"A", 5}, {"B", 5}, {"C", 3}}
	idx, p, ok := Extremum(points, func(p point) int64 { return p.Value })
	require.True(t, ok)
	require.Equal(t, 0, idx)
	require.Equal(t, point{"A", 5}, p)
}

func TestExtremumEmpty(t *testing.T) {
	t.Parallel()

	idx, _, ok := Extremum([]int64(nil), func(v int64) int64 { return v })
	require.False(t, ok)
	require.Equal(t, -1, idx)
}

func TestParseDateHeader(t *testing.T) {
	t.Parallel()

	d, err := ParseDateHeader(" 12/31/21 ", layout)
	require.NoError(t, err)
	require.Equal(t, time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDateHeader("Lat", layout)
	require.Error(t, err)
}
