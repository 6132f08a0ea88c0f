package engine

import (
	"github.com/ga4lens/ga4lens/dataset"
	"github.com/ga4lens/ga4lens/schema"
)

// ============================================================================
// RECORD VIEW — zero-copy access to dataset records
// ============================================================================
// The engine never copies record data. A FilteredView is a list of indices
// into its parent; aggregators read both through the same interface.
// ============================================================================

// RecordView provides indexed access to normalized records. Metric reads
// return a presence flag because every metric in this domain is nullable;
// aggregations ignore missing entries rather than treating them as zero.
type RecordView interface {
	Len() int
	Dimension(i int, key string) (string, bool)
	Metric(i int, key string) (float64, bool)
	Columns() schema.ColumnSet
}

// NewView wraps an immutable Dataset as a RecordView.
func NewView(ds *dataset.Dataset) RecordView {
	return &datasetView{ds: ds}
}

type datasetView struct {
	ds *dataset.Dataset
}

func (v *datasetView) Len() int { return v.ds.Len() }

func (v *datasetView) Dimension(i int, key string) (string, bool) {
	if i < 0 || i >= v.ds.Len() {
		return "", false
	}
	return v.ds.Record(i).Dimension(key)
}

func (v *datasetView) Metric(i int, key string) (float64, bool) {
	if i < 0 || i >= v.ds.Len() {
		return 0, false
	}
	return v.ds.Record(i).Metric(key)
}

func (v *datasetView) Columns() schema.ColumnSet { return v.ds.Columns() }

// subView is a filtered subset of a parent view: indices only, no data copy.
type subView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &subView{parent: parent, indices: indices}
}

func (v *subView) Len() int { return len(v.indices) }

func (v *subView) Dimension(i int, key string) (string, bool) {
	if i < 0 || i >= len(v.indices) {
		return "", false
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *subView) Metric(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.indices) {
		return 0, false
	}
	return v.parent.Metric(v.indices[i], key)
}

func (v *subView) Columns() schema.ColumnSet { return v.parent.Columns() }
