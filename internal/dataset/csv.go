package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// CSVOptions describes the layout of a count table.
type CSVOptions struct {
	Name           string
	RegionColumn   string
	LeadingColumns int
}

// ParseError reports a cell that could not be read as a count.
type ParseError struct {
	Source string
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s line %d column %q: %v", e.Source, e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	errNegativeCount = errors.New("negative count")
	errEmptyRegion   = errors.New("empty region")
)

// ReadCSV reads a header row followed by one row per region record. Every row must
// have as many fields as the header. An empty table is returned as such; callers that
// need rows reject it themselves.
func ReadCSV(r io.Reader, opts CSVOptions) (*Dataset, error) {
	if opts.LeadingColumns <= 0 {
		return nil, fmt.Errorf("%s: leading column count must be positive", opts.Name)
	}
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true

	header, err := csvr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: missing header row", opts.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s header: %w", opts.Name, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	regionIdx := -1
	for i, h := range header {
		if strings.TrimSpace(h) == opts.RegionColumn {
			regionIdx = i
			break
		}
	}
	if regionIdx < 0 {
		return nil, fmt.Errorf("%s: region column %q not in header", opts.Name, opts.RegionColumn)
	}
	if regionIdx >= opts.LeadingColumns {
		return nil, fmt.Errorf("%s: region column %q falls inside the date block", opts.Name, opts.RegionColumn)
	}
	if opts.LeadingColumns >= len(header) {
		return nil, fmt.Errorf("%s: no date columns after %d leading columns", opts.Name, opts.LeadingColumns)
	}

	ds := &Dataset{Name: opts.Name, Header: header, LeadingColumns: opts.LeadingColumns}
	line := 1
	for {
		line++
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", opts.Name, line, err)
		}
		region := strings.TrimSpace(rec[regionIdx])
		if region == "" {
			return nil, &ParseError{Source: opts.Name, Line: line, Column: opts.RegionColumn, Err: errEmptyRegion}
		}
		row := Row{
			Region:      region,
			Identifiers: append([]string(nil), rec[:opts.LeadingColumns]...),
			Counts:      make([]int64, 0, len(rec)-opts.LeadingColumns),
		}
		for i := opts.LeadingColumns; i < len(rec); i++ {
			n, err := ParseCount(rec[i])
			if err != nil {
				return nil, &ParseError{Source: opts.Name, Line: line, Column: header[i], Err: err}
			}
			row.Counts = append(row.Counts, n)
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// ParseCount reads a non-negative decimal count. Blank cells count as zero and
// whole-valued decimals such as "12.0" are accepted.
func ParseCount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, err
		}
		n = int64(f)
	}
	if n < 0 {
		return 0, errNegativeCount
	}
	return n, nil
}
