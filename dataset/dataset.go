package dataset

import "github.com/ga4lens/ga4lens/schema"

// ============================================================================
// DATASET — Normalized, immutable export data
// ============================================================================
// A Dataset is created once by Load and never mutated afterward. Filtering
// and aggregation read it through engine views; derived metrics are computed
// exactly once, here, before any filtering happens.
// ============================================================================

// Record is one export row: a (country, continent, device) combination with
// its numeric metrics. A metric absent from the map is missing — either the
// column was absent, the cell failed numeric coercion, or a derived value had
// a missing or zero-valued input. Missing dimensions are likewise absent keys.
type Record struct {
	Dimensions map[string]string
	Metrics    map[string]float64
}

// Metric returns a metric value and whether it is present.
func (r Record) Metric(key string) (float64, bool) {
	v, ok := r.Metrics[key]
	return v, ok
}

// Dimension returns a dimension value and whether it is present.
func (r Record) Dimension(key string) (string, bool) {
	v, ok := r.Dimensions[key]
	return v, ok
}

// Dataset is an ordered sequence of normalized Records plus the set of
// columns (source and derived) the export actually carried.
type Dataset struct {
	records []Record
	columns schema.ColumnSet
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Record returns the record at index i.
func (d *Dataset) Record(i int) Record { return d.records[i] }

// Columns returns the set of columns present in this dataset.
// Callers must not mutate it.
func (d *Dataset) Columns() schema.ColumnSet { return d.columns }
