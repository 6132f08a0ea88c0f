package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ga4lens/ga4lens/schema"
)

// Sample GA4 export. Header whitespace is deliberately ragged, one row
// carries the "(not set)" sentinel, one an unparsable numeric cell, one a
// zero active-user count, and one a zero 30-day window.
var ga4CSV = []byte(`Continent, Country ,Device category,Active users,New users,One-day active users,Seven-day active users,28-day active users,30-day active users,Engaged sessions,Engagement rate,Events per session
Americas,United States,desktop,100,40,20,50,150,200,80,0.64,5.2
Americas,United States,mobile,50,50,5,20,40,50,30,0.55,3.1
Europe,(not set),desktop,10,5,1,2,8,10,6,0.60,4.0
Asia,Japan,tablet,0,0,0,0,0,0,5,n/a,2.5
Europe,Germany,desktop,30,12,3,9,25,30,20,0.70,6.0
`)

func loadFixture(t *testing.T) *Dataset {
	t.Helper()
	ds, err := LoadBytes(ga4CSV)
	require.NoError(t, err)
	return ds
}

func TestLoadColumns(t *testing.T) {
	ds := loadFixture(t)
	require.Equal(t, 5, ds.Len())

	cols := ds.Columns()
	assert.True(t, cols.HasAll(schema.Continent, schema.Country, schema.DeviceCategory))
	assert.True(t, cols.HasAll(schema.ActiveUsers, schema.NewUsers, schema.EngagementRate))
	// Sessions per user / Views per session were not exported
	assert.False(t, cols.Has(schema.SessionsPerUser))
	assert.False(t, cols.Has(schema.ViewsPerSession))
	// All derived columns have their prerequisites
	assert.True(t, cols.HasAll(
		schema.ReturningUsers, schema.EngagedSessionsRate,
		schema.D1Retention, schema.D7Retention, schema.D28Retention,
	))
}

func TestLoadDerivedFields(t *testing.T) {
	ds := loadFixture(t)
	rec := ds.Record(0) // US desktop

	returning, ok := rec.Metric(schema.ReturningUsers)
	require.True(t, ok)
	assert.Equal(t, 60.0, returning)

	rate, ok := rec.Metric(schema.EngagedSessionsRate)
	require.True(t, ok)
	assert.InDelta(t, 0.8, rate, 1e-9)

	d1, ok := rec.Metric(schema.D1Retention)
	require.True(t, ok)
	assert.InDelta(t, 0.1, d1, 1e-9)

	d7, ok := rec.Metric(schema.D7Retention)
	require.True(t, ok)
	assert.InDelta(t, 0.25, d7, 1e-9)

	d28, ok := rec.Metric(schema.D28Retention)
	require.True(t, ok)
	assert.InDelta(t, 0.75, d28, 1e-9)
}

func TestLoadZeroDenominatorsAreMissing(t *testing.T) {
	ds := loadFixture(t)
	rec := ds.Record(3) // Japan tablet: active=0, engaged=5, 30-day=0

	_, ok := rec.Metric(schema.EngagedSessionsRate)
	assert.False(t, ok, "engaged sessions rate with zero active users must be missing, not infinite")

	for _, key := range []string{schema.D1Retention, schema.D7Retention, schema.D28Retention} {
		_, ok := rec.Metric(key)
		assert.False(t, ok, "%s with zero 30-day window must be missing", key)
	}
}

func TestLoadUnparsableCellIsMissing(t *testing.T) {
	ds := loadFixture(t)
	rec := ds.Record(3)

	_, ok := rec.Metric(schema.EngagementRate)
	assert.False(t, ok, "unparsable numeric cell becomes missing, not an error")

	// The row itself survives with its other values intact.
	events, ok := rec.Metric(schema.EventsPerSession)
	require.True(t, ok)
	assert.Equal(t, 2.5, events)
}

func TestLoadNotSetSentinel(t *testing.T) {
	ds := loadFixture(t)
	rec := ds.Record(2)

	_, ok := rec.Dimension(schema.Country)
	assert.False(t, ok, `"(not set)" must become a missing dimension`)

	continent, ok := rec.Dimension(schema.Continent)
	require.True(t, ok)
	assert.Equal(t, "Europe", continent)
}

func TestLoadMissingColumnsSkipDerived(t *testing.T) {
	// No "New users" and no "30-day active users": returning users and the
	// retention ratios must not exist, even as all-missing columns.
	csv := []byte(`Country,Continent,Device category,Active users,Engaged sessions
United States,Americas,desktop,100,80
`)
	ds, err := LoadBytes(csv)
	require.NoError(t, err)

	cols := ds.Columns()
	assert.False(t, cols.Has(schema.ReturningUsers))
	assert.False(t, cols.Has(schema.D1Retention))
	assert.True(t, cols.Has(schema.EngagedSessionsRate), "engaged rate prerequisites are present")

	rate, ok := ds.Record(0).Metric(schema.EngagedSessionsRate)
	require.True(t, ok)
	assert.InDelta(t, 0.8, rate, 1e-9)
}

func TestLoadUnknownColumnsKeptAsDimensions(t *testing.T) {
	csv := []byte(`Country,Continent,Device category,Active users,Campaign name
United States,Americas,desktop,100,spring_sale
`)
	ds, err := LoadBytes(csv)
	require.NoError(t, err)
	assert.True(t, ds.Columns().Has("campaign_name"))

	v, ok := ds.Record(0).Dimension("campaign_name")
	require.True(t, ok)
	assert.Equal(t, "spring_sale", v)
}

func TestLoadMalformedInput(t *testing.T) {
	cases := map[string][]byte{
		"empty input": []byte(""),
		"ragged row":  []byte("Country,Active users\nUnited States,100,extra\n"),
		"bad quoting": []byte("Country,Active users\n\"United States,100\n"),
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			ds, err := LoadBytes(input)
			require.Error(t, err)
			assert.Nil(t, ds, "no partial dataset on LoadError")

			var loadErr *LoadError
			assert.True(t, errors.As(err, &loadErr))
		})
	}
}

func TestLoadDeterministic(t *testing.T) {
	first, err := LoadBytes(ga4CSV)
	require.NoError(t, err)
	second, err := LoadBytes(ga4CSV)
	require.NoError(t, err)
	require.Equal(t, first, second, "identical input must yield identical datasets")
}
