package engine

import (
	"errors"
	"sort"

	"github.com/ga4lens/ga4lens/schema"
)

// ============================================================================
// FILTERS — selection → FilteredView
// ============================================================================
// Single pass: every record is checked against all three dimension
// constraints and the completeness rule in one loop, producing a subView
// (index list) into the parent. The view is recomputed from scratch on every
// selection change and replaces the previous one.
// ============================================================================

// All is the wildcard selection value: no constraint on that dimension.
// An empty string is treated the same way.
const All = "All"

// ErrEmptyResult signals that no records survive the current selection.
// The presentation layer short-circuits on it — no aggregates are computed
// and no charts are rendered for that cycle.
var ErrEmptyResult = errors.New("no records match the current selection")

// Selection is the user's filter choice, one value per dimension.
type Selection struct {
	Continent string `json:"continent"`
	Country   string `json:"country"`
	Device    string `json:"device"`
}

// IsAll reports whether the selection places no constraints at all.
func (s Selection) IsAll() bool {
	return isWild(s.Continent) && isWild(s.Country) && isWild(s.Device)
}

func isWild(v string) bool { return v == "" || v == All }

// ApplySelection filters a view by the selection and prunes incomplete rows.
//
// Matching is exact and case-sensitive. Regardless of which filters are set,
// records missing any of Country, Continent, or Device category are dropped:
// every downstream aggregation needs all three present.
//
// Returns ErrEmptyResult when nothing survives.
func ApplySelection(view RecordView, sel Selection) (RecordView, error) {
	constraints := []struct {
		key  string
		want string
	}{
		{schema.Continent, sel.Continent},
		{schema.Country, sel.Country},
		{schema.DeviceCategory, sel.Device},
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		keep := true
		for _, c := range constraints {
			val, ok := view.Dimension(i, c.key)
			if !ok {
				keep = false // completeness pruning, filtered or not
				break
			}
			if !isWild(c.want) && val != c.want {
				keep = false
				break
			}
		}
		if keep {
			indices = append(indices, i)
		}
	}

	if len(indices) == 0 {
		return nil, ErrEmptyResult
	}
	return newSubView(view, indices), nil
}

// FilterOptions are the selectable values per dimension, computed from the
// full Dataset (not the filtered view) so narrowing one dimension never
// hides the others' choices.
type FilterOptions struct {
	Continents []string `json:"continents"`
	Countries  []string `json:"countries"`
	Devices    []string `json:"devices"`
}

// Options returns the sorted distinct values of the three filter dimensions.
// The "All" wildcard is a presentation concern and is not included.
func Options(view RecordView) FilterOptions {
	return FilterOptions{
		Continents: distinctValues(view, schema.Continent),
		Countries:  distinctValues(view, schema.Country),
		Devices:    distinctValues(view, schema.DeviceCategory),
	}
}

func distinctValues(view RecordView, key string) []string {
	seen := make(map[string]bool)
	var values []string
	for i := 0; i < view.Len(); i++ {
		if v, ok := view.Dimension(i, key); ok && !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values
}
