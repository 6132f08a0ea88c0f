package dataset

import "github.com/ga4lens/ga4lens/schema"

// ============================================================================
// DERIVED METRICS — computed once at load, before any filtering
// ============================================================================
// Every ratio guards its denominator: a zero or missing denominator produces
// a missing value, never an infinity or NaN.
// ============================================================================

// deriveMetrics fills in the derived metrics for one record. Only derived
// columns present in the dataset's column set are attempted; within a record,
// a missing input leaves the derived value missing.
func deriveMetrics(rec *Record, columns schema.ColumnSet) {
	if columns.Has(schema.ReturningUsers) {
		active, okA := rec.Metric(schema.ActiveUsers)
		newUsers, okN := rec.Metric(schema.NewUsers)
		if okA && okN {
			rec.Metrics[schema.ReturningUsers] = active - newUsers
		}
	}

	if columns.Has(schema.EngagedSessionsRate) {
		engaged, okE := rec.Metric(schema.EngagedSessions)
		active, okA := rec.Metric(schema.ActiveUsers)
		if okE && okA && active != 0 {
			rec.Metrics[schema.EngagedSessionsRate] = engaged / active
		}
	}

	denom, okD := rec.Metric(schema.Day30ActiveUsers)
	if !okD || denom == 0 {
		return
	}
	retention := []struct {
		derived string
		source  string
	}{
		{schema.D1Retention, schema.OneDayActiveUsers},
		{schema.D7Retention, schema.SevenDayActiveUsers},
		{schema.D28Retention, schema.Day28ActiveUsers},
	}
	for _, r := range retention {
		if !columns.Has(r.derived) {
			continue
		}
		if num, ok := rec.Metric(r.source); ok {
			rec.Metrics[r.derived] = num / denom
		}
	}
}
