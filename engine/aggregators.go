package engine

import (
	"sort"

	"github.com/ga4lens/ga4lens/schema"
)

// ============================================================================
// AGGREGATORS — FilteredView → chart inputs
// ============================================================================
// Each aggregate is computed independently and is capability-gated: a missing
// source column skips that computation entirely (no output), it never errors.
// Sums and means ignore missing entries — missing is not zero.
// ============================================================================

// Stat is a nullable aggregate value. Valid == false means "no data": the
// source column was absent or no record carried a value. Invalid stats are
// excluded from rendering, never plotted as zero.
type Stat struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// SumMetric sums a metric across a view, ignoring missing entries.
func SumMetric(view RecordView, key string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		if v, ok := view.Metric(i, key); ok {
			total += v
		}
	}
	return total
}

// MeanMetric averages a metric across a view, ignoring missing entries.
// Invalid when no record carries a value.
func MeanMetric(view RecordView, key string) Stat {
	var total float64
	var count int
	for i := 0; i < view.Len(); i++ {
		if v, ok := view.Metric(i, key); ok {
			total += v
			count++
		}
	}
	if count == 0 {
		return Stat{}
	}
	return Stat{Value: total / float64(count), Valid: true}
}

func sumStat(view RecordView, key string) Stat {
	if !view.Columns().Has(key) {
		return Stat{}
	}
	return Stat{Value: SumMetric(view, key), Valid: true}
}

func meanStat(view RecordView, key string) Stat {
	if !view.Columns().Has(key) {
		return Stat{}
	}
	return MeanMetric(view, key)
}

// ============================================================================
// KPI SUMMARY
// ============================================================================

// KPISummary feeds the dashboard's headline cards.
type KPISummary struct {
	ActiveUsers      Stat `json:"activeUsers"`      // sum
	NewUsers         Stat `json:"newUsers"`         // sum
	ReturningUsers   Stat `json:"returningUsers"`   // sum of the row-wise derived metric
	EngagementRate   Stat `json:"engagementRate"`   // mean
	EventsPerSession Stat `json:"eventsPerSession"` // mean
}

// BuildKPISummary computes the headline totals and means for a view.
// Returning users is summed from the per-record derived column, not as
// sum(active) − sum(new): rows where either input is missing contribute to
// neither side.
func BuildKPISummary(view RecordView) KPISummary {
	return KPISummary{
		ActiveUsers:      sumStat(view, schema.ActiveUsers),
		NewUsers:         sumStat(view, schema.NewUsers),
		ReturningUsers:   sumStat(view, schema.ReturningUsers),
		EngagementRate:   meanStat(view, schema.EngagementRate),
		EventsPerSession: meanStat(view, schema.EventsPerSession),
	}
}

// ============================================================================
// GEO AGGREGATE
// ============================================================================

// CountryStat is one country's summed active users and its share of the
// view-wide total, as a percentage.
type CountryStat struct {
	Country     string  `json:"country"`
	ActiveUsers float64 `json:"activeUsers"`
	Share       float64 `json:"share"`
}

// BuildGeoAggregate groups the view by country and sums active users,
// attaching each country's percentage share of the total. Returns nil when
// the required columns are absent or the total is zero (no meaningful share).
// Countries appear in first-seen record order.
func BuildGeoAggregate(view RecordView) []CountryStat {
	if !view.Columns().HasAll(schema.Country, schema.ActiveUsers) {
		return nil
	}

	sums := make(map[string]float64)
	var order []string
	for i := 0; i < view.Len(); i++ {
		country, ok := view.Dimension(i, schema.Country)
		if !ok {
			continue
		}
		if _, seen := sums[country]; !seen {
			order = append(order, country)
		}
		if v, ok := view.Metric(i, schema.ActiveUsers); ok {
			sums[country] += v
		}
	}

	var total float64
	for _, c := range order {
		total += sums[c]
	}
	if total == 0 {
		return nil
	}

	geo := make([]CountryStat, 0, len(order))
	for _, c := range order {
		geo = append(geo, CountryStat{
			Country:     c,
			ActiveUsers: sums[c],
			Share:       sums[c] / total * 100,
		})
	}
	return geo
}

// DefaultTopCountries is how many countries the top-countries chart shows.
const DefaultTopCountries = 15

// TopCountries returns the geo aggregate sorted descending by summed active
// users, truncated to n. The sort is stable, so ties keep first-seen order.
func TopCountries(geo []CountryStat, n int) []CountryStat {
	top := make([]CountryStat, len(geo))
	copy(top, geo)
	sort.SliceStable(top, func(i, j int) bool { return top[i].ActiveUsers > top[j].ActiveUsers })
	if n > 0 && len(top) > n {
		top = top[:n]
	}
	return top
}

// ============================================================================
// DEVICE AGGREGATE
// ============================================================================

// DeviceStat is one device category's summed active users.
type DeviceStat struct {
	Device      string  `json:"device"`
	ActiveUsers float64 `json:"activeUsers"`
}

// BuildDeviceAggregate groups the view by device category and sums active
// users. Returns nil when the required columns are absent. Devices appear in
// first-seen record order.
func BuildDeviceAggregate(view RecordView) []DeviceStat {
	if !view.Columns().HasAll(schema.DeviceCategory, schema.ActiveUsers) {
		return nil
	}

	sums := make(map[string]float64)
	var order []string
	for i := 0; i < view.Len(); i++ {
		device, ok := view.Dimension(i, schema.DeviceCategory)
		if !ok {
			continue
		}
		if _, seen := sums[device]; !seen {
			order = append(order, device)
		}
		if v, ok := view.Metric(i, schema.ActiveUsers); ok {
			sums[device] += v
		}
	}

	devices := make([]DeviceStat, 0, len(order))
	for _, d := range order {
		devices = append(devices, DeviceStat{Device: d, ActiveUsers: sums[d]})
	}
	return devices
}

// ============================================================================
// RETENTION SUMMARY
// ============================================================================

// RetentionStat is one retention/engagement metric's mean across the view,
// normalized to a fraction in [0, 1].
type RetentionStat struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

var retentionMetrics = []struct {
	key   string
	label string
}{
	{schema.D1Retention, "Day 1 Retention"},
	{schema.D7Retention, "Day 7 Retention"},
	{schema.D28Retention, "Day 28 Retention"},
	{schema.EngagedSessionsRate, "Engaged Sessions Rate"},
}

// BuildRetentionSummary averages the retention ratios and engaged-sessions
// rate across the view. A metric whose derived column was never computed, or
// that has no values in the view, is omitted entirely — "no data", not 0%.
//
// Values are means of fractions, but an upstream export may carry them on a
// percentage scale; a mean above 1 is divided by 100. Results are sorted
// ascending by value for display.
func BuildRetentionSummary(view RecordView) []RetentionStat {
	var out []RetentionStat
	for _, m := range retentionMetrics {
		if !view.Columns().Has(m.key) {
			continue
		}
		mean := MeanMetric(view, m.key)
		if !mean.Valid {
			continue
		}
		v := mean.Value
		if v > 1 {
			v /= 100
		}
		out = append(out, RetentionStat{Metric: m.label, Value: v})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
