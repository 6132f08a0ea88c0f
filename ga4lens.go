// Package ga4lens turns a GA4 web-analytics export into a filterable
// single-page dashboard.
//
// Usage:
//
//	import (
//	    "github.com/ga4lens/ga4lens/dataset"
//	    "github.com/ga4lens/ga4lens/engine"
//	)
//
//	ds, err := dataset.LoadFile("export.csv")
//	dash, err := engine.BuildDashboard(ds, engine.Selection{Country: "United States"})
//
// The dataset package loads and normalizes the export (numeric coercion,
// missing-value handling, derived metrics). The engine package filters the
// immutable Dataset and computes the aggregates each chart consumes. The
// render and web packages are the presentation layer: PNG charts, terminal
// tables, and the dashboard HTTP server.
//
// All computation is local and synchronous — one filter change produces one
// recompute of a pure function of Dataset + selection.
package ga4lens
