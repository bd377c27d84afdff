// Package testdata writes synthetic case tables and boundaries shaped like the
// public US time-series files, for demos and tests.
package testdata

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Leading identifier columns of the generated tables. Deaths carries Population.
var (
	ConfirmedColumns = []string{"UID", "iso2", "iso3", "code3", "FIPS", "Admin2", "Province_State", "Country_Region", "Lat", "Long_", "Combined_Key"}
	DeathsColumns    = append(append([]string{}, ConfirmedColumns...), "Population")
)

// DefaultRegions is the region list used when Options.Regions is empty.
var DefaultRegions = []string{"Texas", "California", "New York", "Florida", "Ohio", "Washington"}

// DateLayout is the header layout of the generated date columns.
const DateLayout = "1/2/06"

// Options controls the generated sample.
type Options struct {
	Regions  []string
	// Counties per region; each becomes one row.
	Counties int
	Days     int
	Start    time.Time
	Seed     int64
}

func (o Options) withDefaults() Options {
	if len(o.Regions) == 0 {
		o.Regions = DefaultRegions
	}
	if o.Counties <= 0 {
		o.Counties = 3
	}
	if o.Days <= 0 {
		o.Days = 30
	}
	if o.Start.IsZero() {
		o.Start = time.Date(2020, 1, 22, 0, 0, 0, 0, time.UTC)
	}
	return o
}

// Sample holds both tables in memory. Deaths never exceed confirmed for the same row.
type Sample struct {
	Dates     []string
	Regions   []string
	Confirmed [][]int64
	Deaths    [][]int64
	rowRegion []int
}

// Generate builds a deterministic sample for o.Seed. Counts are cumulative.
func Generate(o Options) *Sample {
	o = o.withDefaults()
	rng := rand.New(rand.NewSource(o.Seed))

	s := &Sample{Regions: append([]string(nil), o.Regions...)}
	for d := 0; d < o.Days; d++ {
		s.Dates = append(s.Dates, o.Start.AddDate(0, 0, d).Format(DateLayout))
	}
	for ri := range o.Regions {
		for c := 0; c < o.Counties; c++ {
			growth := 1 + rng.Intn(40)
			var cases, deaths int64
			crow := make([]int64, o.Days)
			drow := make([]int64, o.Days)
			for d := 0; d < o.Days; d++ {
				cases += int64(rng.Intn(growth*(d+1) + 1))
				if cases > 0 && rng.Intn(4) == 0 {
					deaths += int64(rng.Intn(int(cases/50) + 2))
				}
				if deaths > cases {
					deaths = cases
				}
				crow[d], drow[d] = cases, deaths
			}
			s.Confirmed = append(s.Confirmed, crow)
			s.Deaths = append(s.Deaths, drow)
			s.rowRegion = append(s.rowRegion, ri)
		}
	}
	return s
}

func (s *Sample) identifiers(row int, population bool) []string {
	region := s.Regions[s.rowRegion[row]]
	county := fmt.Sprintf("County %d", row+1)
	uid := strconv.Itoa(84000000 + row + 1)
	ids := []string{uid, "US", "USA", "840", strconv.Itoa(1000 + row), county, region, "US", "0", "0", county + ", " + region + ", US"}
	if population {
		ids = append(ids, strconv.Itoa(10000*(row+1)))
	}
	return ids
}

// WriteConfirmed writes the confirmed table as CSV.
func (s *Sample) WriteConfirmed(w io.Writer) error {
	return s.writeTable(w, ConfirmedColumns, s.Confirmed, false)
}

// WriteDeaths writes the deaths table as CSV.
func (s *Sample) WriteDeaths(w io.Writer) error {
	return s.writeTable(w, DeathsColumns, s.Deaths, true)
}

func (s *Sample) writeTable(w io.Writer, leading []string, rows [][]int64, population bool) error {
	cw := csv.NewWriter(w)
	header := append(append([]string{}, leading...), s.Dates...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, counts := range rows {
		rec := s.identifiers(i, population)
		for _, c := range counts {
			rec = append(rec, strconv.FormatInt(c, 10))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type geoFeature struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Properties map[string]any `json:"properties"`
	Geometry   any            `json:"geometry"`
}

// WriteBoundaries writes a GeoJSON FeatureCollection with one unit square per region,
// laid out on a row so features do not overlap.
func (s *Sample) WriteBoundaries(w io.Writer) error {
	features := make([]geoFeature, 0, len(s.Regions))
	for i, name := range s.Regions {
		x := float64(i)
		features = append(features, geoFeature{
			Type:       "Feature",
			ID:         strconv.Itoa(i + 1),
			Properties: map[string]any{"name": name},
			Geometry: map[string]any{
				"type":        "Polygon",
				"coordinates": [][][2]float64{{{x, 0}, {x + 1, 0}, {x + 1, 1}, {x, 1}, {x, 0}}},
			},
		})
	}
	enc := json.NewEncoder(w)
	return enc.Encode(map[string]any{"type": "FeatureCollection", "features": features})
}

// Files names the three generated files.
type Files struct {
	Confirmed  string
	Deaths     string
	Boundaries string
}

// WriteDir writes the three sample files into dir, creating it when missing.
func (s *Sample) WriteDir(dir string) (Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Files{}, err
	}
	f := Files{
		Confirmed:  filepath.Join(dir, "time_series_covid19_confirmed_US.csv"),
		Deaths:     filepath.Join(dir, "time_series_covid19_deaths_US.csv"),
		Boundaries: filepath.Join(dir, "boundaries.geojson"),
	}
	for path, write := range map[string]func(io.Writer) error{
		f.Confirmed:  s.WriteConfirmed,
		f.Deaths:     s.WriteDeaths,
		f.Boundaries: s.WriteBoundaries,
	} {
		if err := writeFile(path, write); err != nil {
			return Files{}, fmt.Errorf("write %s: %w", filepath.Base(path), err)
		}
	}
	return f, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(out); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
