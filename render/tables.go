package render

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/ga4lens/ga4lens/engine"
)

// ============================================================================
// TABLES — terminal report output
// ============================================================================

// WriteDashboard writes a filtered dashboard as terminal tables: KPI cards,
// top countries, device share, and retention. Sections whose aggregate was
// skipped upstream are omitted.
func WriteDashboard(w io.Writer, dash *engine.Dashboard) {
	fmt.Fprintf(w, "Records: %s\n\n", formatCount(float64(dash.RecordCount)))

	writeKPITable(w, dash.KPI)
	writeTopCountries(w, dash.TopCountries)
	writeDevices(w, dash.Devices)
	writeRetention(w, dash.Retention)
}

func writeKPITable(w io.Writer, kpi engine.KPISummary) {
	rows := [][]string{}
	if kpi.ActiveUsers.Valid {
		rows = append(rows, []string{"Active Users", formatCount(kpi.ActiveUsers.Value)})
	}
	if kpi.NewUsers.Valid {
		rows = append(rows, []string{"New Users", formatCount(kpi.NewUsers.Value)})
	}
	if kpi.ReturningUsers.Valid {
		rows = append(rows, []string{"Returning Users", formatCount(kpi.ReturningUsers.Value)})
	}
	if kpi.EngagementRate.Valid {
		rows = append(rows, []string{"Engagement Rate", formatPercent(kpi.EngagementRate.Value)})
	}
	if kpi.EventsPerSession.Valid {
		rows = append(rows, []string{"Events per Session", fmt.Sprintf("%.2f", kpi.EventsPerSession.Value)})
	}
	if len(rows) == 0 {
		return
	}

	table := newTable(w, "Metric", "Value")
	table.AppendBulk(rows)
	table.Render()
	fmt.Fprintln(w)
}

func writeTopCountries(w io.Writer, top []engine.CountryStat) {
	if len(top) == 0 {
		return
	}
	table := newTable(w, "Country", "Active Users", "% of Total")
	for _, c := range top {
		table.Append([]string{c.Country, formatCount(c.ActiveUsers), fmt.Sprintf("%.2f%%", c.Share)})
	}
	table.Render()
	fmt.Fprintln(w)
}

func writeDevices(w io.Writer, devices []engine.DeviceStat) {
	if len(devices) == 0 {
		return
	}
	table := newTable(w, "Device", "Active Users")
	for _, d := range devices {
		table.Append([]string{d.Device, formatCount(d.ActiveUsers)})
	}
	table.Render()
	fmt.Fprintln(w)
}

func writeRetention(w io.Writer, retention []engine.RetentionStat) {
	if len(retention) == 0 {
		return
	}
	table := newTable(w, "Metric", "Rate")
	for _, r := range retention {
		table.Append([]string{r.Metric, formatPercent(r.Value)})
	}
	table.Render()
	fmt.Fprintln(w)
}

func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetBorder(true)
	return table
}

// formatCount renders a metric total with comma separators, dropping the
// fractional part (user counts are integral in practice).
func formatCount(v float64) string {
	n := int64(v)
	if n < 0 {
		return "-" + formatCount(float64(-n))
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", formatCount(float64(n/1000)), n%1000)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
