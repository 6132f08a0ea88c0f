package engine

import (
	"github.com/ga4lens/ga4lens/dataset"
	"github.com/ga4lens/ga4lens/schema"
)

// ============================================================================
// DASHBOARD — one filter change → one recompute
// ============================================================================

// EngagementPoint is one record's coordinates on the engagement-vs-events
// scatter plot. Only records carrying both metrics become points.
type EngagementPoint struct {
	EngagementRate   float64 `json:"engagementRate"`
	EventsPerSession float64 `json:"eventsPerSession"`
	ActiveUsers      float64 `json:"activeUsers"` // bubble size; 0 when missing
	Country          string  `json:"country"`
	Device           string  `json:"device"`
}

// Dashboard bundles every aggregate the presentation layer renders.
// A nil slice or an invalid Stat means the underlying columns were absent
// and the corresponding widget is skipped.
type Dashboard struct {
	RecordCount  int               `json:"recordCount"`
	KPI          KPISummary        `json:"kpi"`
	Geo          []CountryStat     `json:"geo,omitempty"`
	TopCountries []CountryStat     `json:"topCountries,omitempty"`
	Devices      []DeviceStat      `json:"devices,omitempty"`
	Retention    []RetentionStat   `json:"retention,omitempty"`
	Engagement   []EngagementPoint `json:"engagement,omitempty"`
	Distribution []float64         `json:"distribution,omitempty"` // events per session, per record
}

// BuildDashboard filters the dataset by the selection and computes every
// available aggregate. It is a pure function of (dataset, selection): the
// dataset is never mutated and repeated calls yield identical results.
//
// Returns ErrEmptyResult when the selection leaves no complete records; the
// caller must stop the render cycle rather than draw partial charts.
func BuildDashboard(ds *dataset.Dataset, sel Selection) (*Dashboard, error) {
	view, err := ApplySelection(NewView(ds), sel)
	if err != nil {
		return nil, err
	}
	return buildAggregates(view), nil
}

func buildAggregates(view RecordView) *Dashboard {
	geo := BuildGeoAggregate(view)
	return &Dashboard{
		RecordCount:  view.Len(),
		KPI:          BuildKPISummary(view),
		Geo:          geo,
		TopCountries: TopCountries(geo, DefaultTopCountries),
		Devices:      BuildDeviceAggregate(view),
		Retention:    BuildRetentionSummary(view),
		Engagement:   engagementPoints(view),
		Distribution: metricValues(view, schema.EventsPerSession),
	}
}

func engagementPoints(view RecordView) []EngagementPoint {
	if !view.Columns().HasAll(schema.EngagementRate, schema.EventsPerSession) {
		return nil
	}
	var points []EngagementPoint
	for i := 0; i < view.Len(); i++ {
		rate, okR := view.Metric(i, schema.EngagementRate)
		events, okE := view.Metric(i, schema.EventsPerSession)
		if !okR || !okE {
			continue
		}
		p := EngagementPoint{EngagementRate: rate, EventsPerSession: events}
		p.ActiveUsers, _ = view.Metric(i, schema.ActiveUsers)
		p.Country, _ = view.Dimension(i, schema.Country)
		p.Device, _ = view.Dimension(i, schema.DeviceCategory)
		points = append(points, p)
	}
	return points
}

func metricValues(view RecordView, key string) []float64 {
	if !view.Columns().Has(key) {
		return nil
	}
	var values []float64
	for i := 0; i < view.Len(); i++ {
		if v, ok := view.Metric(i, key); ok {
			values = append(values, v)
		}
	}
	return values
}
