package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/exp/slices"

	"github.com/inference-sim/line-sim/sim/experiment"
	"github.com/inference-sim/line-sim/sim/trace"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
)

var kindTitles = map[string]string{
	experiment.KindSource:    "Source",
	experiment.KindStation:   "Stations",
	experiment.KindLink:      "Links",
	experiment.KindTransport: "Transports",
	experiment.KindStore:     "Inventory",
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// renderTable draws a bordered table with the report's styling.
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

// writeSummary renders one table per entity kind, in line order.
func writeSummary(w io.Writer, s *experiment.Summary) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("=== Line Metrics (%d replication(s)) ===", s.Replications)))

	headers := []string{"Entity", "Metric", "Mean"}
	if s.Replications > 1 {
		headers = append(headers, "±95% CI", "Std Dev", "Min", "Max")
	}
	var kind string
	var rows [][]string
	flush := func() {
		if len(rows) == 0 {
			return
		}
		fmt.Fprintln(w, titleStyle.Render(kindTitles[kind]))
		fmt.Fprintln(w, renderTable(headers, rows))
		rows = nil
	}
	for _, e := range s.Entities {
		if e.Kind != kind {
			flush()
			kind = e.Kind
		}
		for i, m := range e.Metrics {
			entity := ""
			if i == 0 {
				entity = e.Name
			}
			row := []string{entity, m.Name, formatValue(m.Mean)}
			if s.Replications > 1 {
				row = append(row, formatValue(m.HalfWidth), formatValue(m.StdDev), formatValue(m.Min), formatValue(m.Max))
			}
			rows = append(rows, row)
		}
	}
	flush()
}

// writeTraceSummary prints the transition counts of one replication.
func writeTraceSummary(w io.Writer, rep int, ts *trace.TraceSummary) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("=== Trace Summary (replication %d) ===", rep)))
	fmt.Fprintf(w, "Transitions      : %d\n", ts.TotalTransitions)
	fmt.Fprintf(w, "Window           : %.3f .. %.3f\n", ts.FirstClock, ts.LastClock)
	fmt.Fprintf(w, "Shortfall orders : %d\n", ts.ShortfallOrders)

	entities := make([]string, 0, len(ts.ByEntity))
	for name := range ts.ByEntity {
		entities = append(entities, name)
	}
	slices.Sort(entities)
	var rows [][]string
	for _, name := range entities {
		counts := ts.ByEntity[name]
		kinds := make([]string, 0, len(counts))
		for k := range counts {
			kinds = append(kinds, string(k))
		}
		slices.Sort(kinds)
		for i, k := range kinds {
			entity := ""
			if i == 0 {
				entity = name
			}
			rows = append(rows, []string{entity, k, strconv.Itoa(counts[trace.Kind(k)])})
		}
	}
	fmt.Fprintln(w, renderTable([]string{"Entity", "Transition", "Count"}, rows))
}
