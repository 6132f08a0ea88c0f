package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ga4lens/ga4lens/schema"
)

// ============================================================================
// LOADER — CSV export → normalized Dataset
// ============================================================================
// Local recovery everywhere below the structural level: an unparsable numeric
// cell becomes a missing value, never an error and never a dropped row. Only
// input that cannot be read as tabular data at all fails, with a *LoadError.
// ============================================================================

// LoadError reports input that could not be parsed as tabular data.
// No partial Dataset accompanies it.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load dataset: %v", e.Err) }

func (e *LoadError) Unwrap() error { return e.Err }

// column mapping from CSV position to catalog entry.
type colMapping struct {
	key      string
	isMetric bool
}

// Load reads a GA4 CSV export and returns a normalized Dataset.
//
// Normalization, in order:
//   - column headers are whitespace-trimmed and matched against the catalog;
//     unknown columns are kept as plain text dimensions
//   - known numeric columns are coerced; coercion failures become missing
//   - the "(not set)" sentinel on any text column becomes missing
//   - derived metrics are computed per record where their source columns are
//     all present (see derive.go)
//
// Identical input yields an identical Dataset, so callers may cache results
// by source identity.
func Load(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)

	headers, err := cr.Read()
	if err != nil {
		return nil, &LoadError{Err: fmt.Errorf("read header: %w", err)}
	}

	columns := schema.NewColumnSet()
	mappings := make([]colMapping, len(headers))
	for i, h := range headers {
		if c, ok := schema.MatchHeader(h); ok {
			mappings[i] = colMapping{key: c.Key, isMetric: c.Kind == schema.Metric}
		} else {
			mappings[i] = colMapping{key: schema.UnknownKey(h)}
		}
		if mappings[i].key != "" {
			columns.Add(mappings[i].key)
		}
	}

	// Column-level capability: a derived column exists when its source
	// columns exist, even if individual rows end up missing.
	for _, d := range schema.DerivedMetrics() {
		if columns.HasAll(d.Requires...) {
			columns.Add(d.Key)
		}
	}

	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Structural damage (e.g. ragged rows, bad quoting) is fatal.
			return nil, &LoadError{Err: err}
		}

		rec := Record{
			Dimensions: make(map[string]string),
			Metrics:    make(map[string]float64),
		}
		for i, raw := range row {
			if i >= len(mappings) {
				break
			}
			m := mappings[i]
			val := strings.TrimSpace(raw)
			if m.isMetric {
				if f, err := strconv.ParseFloat(val, 64); err == nil {
					rec.Metrics[m.key] = f
				}
				continue
			}
			if val == "" || val == schema.NotSet {
				continue // missing
			}
			rec.Dimensions[m.key] = val
		}

		deriveMetrics(&rec, columns)
		records = append(records, rec)
	}

	return &Dataset{records: records, columns: columns}, nil
}

// LoadFile reads and normalizes a CSV export from disk.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	defer f.Close()
	return Load(f)
}

// LoadBytes reads and normalizes a CSV export held in memory.
func LoadBytes(data []byte) (*Dataset, error) {
	return Load(strings.NewReader(string(data)))
}
