package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ga4lens/ga4lens/dataset"
	"github.com/ga4lens/ga4lens/schema"
)

// Fixture with one incomplete row (missing device) and one "(not set)"
// country, both of which completeness pruning must drop.
var filterCSV = []byte(`Continent,Country,Device category,Active users,New users
NA,US,desktop,100,40
NA,US,mobile,50,50
EU,Germany,desktop,30,12
EU,(not set),desktop,10,5
AS,Japan,,20,8
`)

func filterFixture(t *testing.T) RecordView {
	t.Helper()
	ds, err := dataset.LoadBytes(filterCSV)
	require.NoError(t, err)
	return NewView(ds)
}

func TestApplySelectionAllIsCompletenessOnly(t *testing.T) {
	view := filterFixture(t)
	require.Equal(t, 5, view.Len())

	filtered, err := ApplySelection(view, Selection{})
	require.NoError(t, err)
	// The "(not set)" country row and the missing-device row are pruned
	// even though no filter touched those dimensions.
	assert.Equal(t, 3, filtered.Len())
}

func TestApplySelectionSingleDimension(t *testing.T) {
	view := filterFixture(t)

	filtered, err := ApplySelection(view, Selection{Device: "desktop", Continent: All, Country: All})
	require.NoError(t, err)
	require.Equal(t, 2, filtered.Len())
	for i := 0; i < filtered.Len(); i++ {
		device, ok := filtered.Dimension(i, schema.DeviceCategory)
		require.True(t, ok)
		assert.Equal(t, "desktop", device)
	}
}

// Scenario from the dashboard contract: two US rows, device filter keeps one,
// and the KPI summary reflects just that row.
func TestApplySelectionScenarioKPI(t *testing.T) {
	view := filterFixture(t)

	filtered, err := ApplySelection(view, Selection{Country: "US", Device: "desktop"})
	require.NoError(t, err)
	require.Equal(t, 1, filtered.Len())

	kpi := BuildKPISummary(filtered)
	require.True(t, kpi.ActiveUsers.Valid)
	assert.Equal(t, 100.0, kpi.ActiveUsers.Value)
	require.True(t, kpi.NewUsers.Valid)
	assert.Equal(t, 40.0, kpi.NewUsers.Value)
	require.True(t, kpi.ReturningUsers.Valid)
	assert.Equal(t, 60.0, kpi.ReturningUsers.Value)
}

func TestApplySelectionIsCaseSensitive(t *testing.T) {
	view := filterFixture(t)

	_, err := ApplySelection(view, Selection{Country: "us"})
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestApplySelectionEmptyResult(t *testing.T) {
	view := filterFixture(t)

	filtered, err := ApplySelection(view, Selection{Continent: "EU", Device: "mobile"})
	require.ErrorIs(t, err, ErrEmptyResult)
	assert.Nil(t, filtered)
}

func TestOptionsSortedDistinct(t *testing.T) {
	view := filterFixture(t)

	opts := Options(view)
	assert.Equal(t, []string{"AS", "EU", "NA"}, opts.Continents)
	assert.Equal(t, []string{"Germany", "Japan", "US"}, opts.Countries)
	assert.Equal(t, []string{"desktop", "mobile"}, opts.Devices)
}

func TestSelectionIsAll(t *testing.T) {
	assert.True(t, Selection{}.IsAll())
	assert.True(t, Selection{Continent: All, Country: All, Device: All}.IsAll())
	assert.False(t, Selection{Country: "US"}.IsAll())
}

func TestErrEmptyResultIsSentinel(t *testing.T) {
	_, err := ApplySelection(filterFixture(t), Selection{Country: "Atlantis"})
	assert.True(t, errors.Is(err, ErrEmptyResult))
}
