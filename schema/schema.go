package schema

import "strings"

// ============================================================================
// SCHEMA — The GA4 export column catalog
// ============================================================================
// The export format is fixed but optional: any column may be absent, and a
// feature that depends on an absent column is skipped, never an error.
// Columns are addressed by canonical snake_case keys throughout the module;
// the raw export headers appear only here.
// ============================================================================

// Kind classifies a catalog column.
type Kind int

const (
	// Dimension is a text column used for filtering and grouping.
	Dimension Kind = iota
	// Metric is a numeric column coerced at load time.
	Metric
	// DerivedMetric is a numeric column computed at load time from Metrics.
	DerivedMetric
)

// Column describes one known export column.
type Column struct {
	Key    string // canonical snake_case key ("device_category")
	Header string // exact export header after whitespace trimming ("Device category")
	Kind   Kind
}

// Derived describes a metric computed at load time and the source columns it
// needs. A Dataset carries a derived column only when every requirement is
// present.
type Derived struct {
	Column
	Requires []string
}

// NotSet is the sentinel GA4 emits for an unattributed dimension value.
// The loader treats it as missing.
const NotSet = "(not set)"

// Canonical dimension keys.
const (
	Continent      = "continent"
	Country        = "country"
	DeviceCategory = "device_category"
)

// Canonical metric keys.
const (
	ActiveUsers         = "active_users"
	NewUsers            = "new_users"
	SessionsPerUser     = "sessions_per_user"
	ViewsPerSession     = "views_per_session"
	OneDayActiveUsers   = "one_day_active_users"
	SevenDayActiveUsers = "seven_day_active_users"
	Day28ActiveUsers    = "28_day_active_users"
	Day30ActiveUsers    = "30_day_active_users"
	EngagedSessions     = "engaged_sessions"
	EngagementRate      = "engagement_rate"
	EventsPerSession    = "events_per_session"
)

// Canonical derived metric keys.
const (
	ReturningUsers      = "returning_users"
	EngagedSessionsRate = "engaged_sessions_rate"
	D1Retention         = "d1_retention"
	D7Retention         = "d7_retention"
	D28Retention        = "d28_retention"
)

var dimensions = []Column{
	{Key: Continent, Header: "Continent", Kind: Dimension},
	{Key: Country, Header: "Country", Kind: Dimension},
	{Key: DeviceCategory, Header: "Device category", Kind: Dimension},
}

var metrics = []Column{
	{Key: ActiveUsers, Header: "Active users", Kind: Metric},
	{Key: NewUsers, Header: "New users", Kind: Metric},
	{Key: SessionsPerUser, Header: "Sessions per user", Kind: Metric},
	{Key: ViewsPerSession, Header: "Views per session", Kind: Metric},
	{Key: OneDayActiveUsers, Header: "One-day active users", Kind: Metric},
	{Key: SevenDayActiveUsers, Header: "Seven-day active users", Kind: Metric},
	{Key: Day28ActiveUsers, Header: "28-day active users", Kind: Metric},
	{Key: Day30ActiveUsers, Header: "30-day active users", Kind: Metric},
	{Key: EngagedSessions, Header: "Engaged sessions", Kind: Metric},
	{Key: EngagementRate, Header: "Engagement rate", Kind: Metric},
	{Key: EventsPerSession, Header: "Events per session", Kind: Metric},
}

var derived = []Derived{
	{
		Column:   Column{Key: ReturningUsers, Header: "Returning users", Kind: DerivedMetric},
		Requires: []string{ActiveUsers, NewUsers},
	},
	{
		Column:   Column{Key: EngagedSessionsRate, Header: "Engaged sessions rate", Kind: DerivedMetric},
		Requires: []string{EngagedSessions, ActiveUsers},
	},
	{
		Column:   Column{Key: D1Retention, Header: "Day 1 retention", Kind: DerivedMetric},
		Requires: []string{OneDayActiveUsers, Day30ActiveUsers},
	},
	{
		Column:   Column{Key: D7Retention, Header: "Day 7 retention", Kind: DerivedMetric},
		Requires: []string{SevenDayActiveUsers, Day30ActiveUsers},
	},
	{
		Column:   Column{Key: D28Retention, Header: "Day 28 retention", Kind: DerivedMetric},
		Requires: []string{Day28ActiveUsers, Day30ActiveUsers},
	},
}

var byHeader = func() map[string]Column {
	m := make(map[string]Column, len(dimensions)+len(metrics))
	for _, c := range dimensions {
		m[c.Header] = c
	}
	for _, c := range metrics {
		m[c.Header] = c
	}
	return m
}()

// Dimensions returns the known dimension columns in catalog order.
func Dimensions() []Column { return dimensions }

// Metrics returns the known numeric columns in catalog order.
func Metrics() []Column { return metrics }

// DerivedMetrics returns the derived columns in catalog order.
func DerivedMetrics() []Derived { return derived }

// MatchHeader resolves a raw export header against the catalog.
// Header whitespace is trimmed before matching; matching is case-sensitive
// since GA4 headers are stable.
func MatchHeader(header string) (Column, bool) {
	c, ok := byHeader[strings.TrimSpace(header)]
	return c, ok
}

// UnknownKey converts an unrecognized header into a snake_case dimension key.
// The export format may grow columns we do not know about; they are kept as
// plain text dimensions and never participate in derived math.
func UnknownKey(header string) string {
	s := strings.ToLower(strings.TrimSpace(header))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
