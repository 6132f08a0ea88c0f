package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ga4lens/ga4lens/engine"
)

// ============================================================================
// CHARTS — aggregate structures → PNG
// ============================================================================
// A chart whose aggregate is unavailable (capability-skipped upstream, or too
// few points to draw) is not rendered: callers get ErrNoChartData and show
// nothing instead of an empty frame.
// ============================================================================

// ErrNoChartData signals an aggregate with nothing to draw.
var ErrNoChartData = errors.New("no data available for chart")

const (
	chartWidth  = 900
	chartHeight = 420
)

// palette for bars and scatter classes.
var palette = []drawing.Color{
	drawing.ColorFromHex("4F46E5"),
	drawing.ColorFromHex("10B981"),
	drawing.ColorFromHex("F59E0B"),
	drawing.ColorFromHex("EF4444"),
	drawing.ColorFromHex("8B5CF6"),
	drawing.ColorFromHex("06B6D4"),
	drawing.ColorFromHex("EC4899"),
	drawing.ColorFromHex("84CC16"),
}

// TopCountriesChart renders the top-countries bar chart. The input is
// expected sorted descending, as produced by engine.TopCountries.
func TopCountriesChart(top []engine.CountryStat) ([]byte, error) {
	if len(top) == 0 {
		return nil, ErrNoChartData
	}

	bars := make([]chart.Value, 0, len(top))
	for i, c := range top {
		bars = append(bars, chart.Value{
			Label: c.Country,
			Value: c.ActiveUsers,
			Style: barStyle(palette[i%len(palette)]),
		})
	}

	bc := chart.BarChart{
		Title:      fmt.Sprintf("Top %d Countries by Active Users", len(top)),
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   chartWidth / (2 * len(bars)),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 20}},
		Bars:       bars,
	}
	return renderPNG(&bc)
}

// DeviceShareChart renders the device share pie chart.
func DeviceShareChart(devices []engine.DeviceStat) ([]byte, error) {
	var total float64
	for _, d := range devices {
		total += d.ActiveUsers
	}
	if len(devices) == 0 || total == 0 {
		return nil, ErrNoChartData
	}

	values := make([]chart.Value, 0, len(devices))
	for i, d := range devices {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%.1f%%)", d.Device, d.ActiveUsers/total*100),
			Value: d.ActiveUsers,
			Style: chart.Style{FillColor: palette[i%len(palette)]},
		})
	}

	pc := chart.PieChart{
		Title:  "Device Share",
		Width:  chartHeight, // square
		Height: chartHeight,
		Values: values,
	}
	return renderPNG(&pc)
}

// RetentionChart renders the retention & engagement bar chart. Values are
// normalized fractions, labeled as percentages; the input arrives ascending
// from engine.BuildRetentionSummary and is drawn in that order.
func RetentionChart(retention []engine.RetentionStat) ([]byte, error) {
	if len(retention) == 0 {
		return nil, ErrNoChartData
	}

	bars := make([]chart.Value, 0, len(retention))
	for i, r := range retention {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%.1f%%)", r.Metric, r.Value*100),
			Value: r.Value,
			Style: barStyle(palette[i%len(palette)]),
		})
	}

	bc := chart.BarChart{
		Title:      "Retention & Engagement Metrics",
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   80,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 20}},
		Bars:       bars,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
	}
	return renderPNG(&bc)
}

// EngagementChart renders the engagement-rate vs events-per-session scatter
// with a linear regression trend overlay. go-chart needs at least two points
// for both the scatter and the regression.
func EngagementChart(points []engine.EngagementPoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, ErrNoChartData
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.EngagementRate
		ys[i] = p.EventsPerSession
	}

	scatter := chart.ContinuousSeries{
		Name:    "Records",
		XValues: xs,
		YValues: ys,
		// Points only, no connecting line.
		Style: chart.Style{
			StrokeWidth: 0,
			DotWidth:    5,
			DotColor:    palette[0],
		},
	}
	trend := &chart.LinearRegressionSeries{
		Name:        "Trend",
		InnerSeries: scatter,
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("9CA3AF"),
			StrokeWidth: 2,
		},
	}

	c := chart.Chart{
		Title:      "Engagement vs Events per Session",
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 20}},
		XAxis:      chart.XAxis{Name: "Engagement Rate"},
		YAxis:      chart.YAxis{Name: "Events per Session"},
		Series:     []chart.Series{scatter, trend},
	}
	return renderPNG(&c)
}

// pngRenderable is satisfied by every go-chart chart type.
type pngRenderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func renderPNG(c pngRenderable) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func barStyle(col drawing.Color) chart.Style {
	return chart.Style{
		FillColor:   col,
		StrokeColor: col.WithAlpha(160),
		StrokeWidth: 1,
	}
}
