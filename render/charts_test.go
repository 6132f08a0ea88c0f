package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ga4lens/ga4lens/engine"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func requirePNG(t *testing.T, data []byte) {
	t.Helper()
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, pngMagic), "output must be a PNG")
}

func TestTopCountriesChart(t *testing.T) {
	png, err := TopCountriesChart([]engine.CountryStat{
		{Country: "United States", ActiveUsers: 1500, Share: 60},
		{Country: "Germany", ActiveUsers: 700, Share: 28},
		{Country: "Japan", ActiveUsers: 300, Share: 12},
	})
	require.NoError(t, err)
	requirePNG(t, png)
}

func TestTopCountriesChartNoData(t *testing.T) {
	_, err := TopCountriesChart(nil)
	assert.ErrorIs(t, err, ErrNoChartData)
}

func TestDeviceShareChart(t *testing.T) {
	png, err := DeviceShareChart([]engine.DeviceStat{
		{Device: "desktop", ActiveUsers: 300},
		{Device: "mobile", ActiveUsers: 100},
	})
	require.NoError(t, err)
	requirePNG(t, png)
}

func TestDeviceShareChartZeroTotal(t *testing.T) {
	_, err := DeviceShareChart([]engine.DeviceStat{{Device: "desktop", ActiveUsers: 0}})
	assert.ErrorIs(t, err, ErrNoChartData)
}

func TestRetentionChart(t *testing.T) {
	png, err := RetentionChart([]engine.RetentionStat{
		{Metric: "Day 1 Retention", Value: 0.10},
		{Metric: "Day 7 Retention", Value: 0.27},
		{Metric: "Engaged Sessions Rate", Value: 0.73},
	})
	require.NoError(t, err)
	requirePNG(t, png)
}

func TestEngagementChart(t *testing.T) {
	png, err := EngagementChart([]engine.EngagementPoint{
		{EngagementRate: 0.64, EventsPerSession: 5.2},
		{EngagementRate: 0.55, EventsPerSession: 3.1},
		{EngagementRate: 0.70, EventsPerSession: 6.0},
	})
	require.NoError(t, err)
	requirePNG(t, png)
}

func TestEngagementChartNeedsTwoPoints(t *testing.T) {
	_, err := EngagementChart([]engine.EngagementPoint{{EngagementRate: 0.5, EventsPerSession: 2}})
	assert.ErrorIs(t, err, ErrNoChartData)
}
