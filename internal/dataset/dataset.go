// Package dataset holds the tabular inputs of the narrative (per-region cumulative
// counts) and the boundary collection, plus the loaders that produce them.
package dataset

// Row is one record of a count table: the identifier cells it was read with and one
// cumulative count per date column, in source column order.
type Row struct {
	Region      string
	Identifiers []string
	Counts      []int64
}

// Last returns the most recent count of the row.
func (r Row) Last() int64 {
	if len(r.Counts) == 0 {
		return 0
	}
	return r.Counts[len(r.Counts)-1]
}

// Dataset is a loaded count table. Header covers every column; the first
// LeadingColumns entries are identifiers and the rest are date headers.
type Dataset struct {
	Name           string
	Header         []string
	LeadingColumns int
	Rows           []Row
}

// DateHeaders returns the headers of the date column block.
func (d *Dataset) DateHeaders() []string {
	if d == nil || d.LeadingColumns >= len(d.Header) {
		return nil
	}
	return d.Header[d.LeadingColumns:]
}

// Regions returns each distinct region once, in order of first appearance.
func (d *Dataset) Regions() []string {
	if d == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(d.Rows))
	var out []string
	for _, r := range d.Rows {
		if _, ok := seen[r.Region]; ok {
			continue
		}
		seen[r.Region] = struct{}{}
		out = append(out, r.Region)
	}
	return out
}

// Bundle is everything the narrative needs at startup.
type Bundle struct {
	Confirmed  *Dataset
	Deaths     *Dataset
	Boundaries *Boundaries
}
