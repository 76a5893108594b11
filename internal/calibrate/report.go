package calibrate

import (
	"fmt"
	"strings"

	"whodunit/internal/format"
)

// FormatReport produces the human-readable calibration report.
func FormatReport(report *CalibrationReport, m format.Mode) string {
	var b strings.Builder
	cfg := report.Config

	b.WriteString("=== Whodunit Calibration Report ===\n")
	fmt.Fprintf(&b, "Cases:    %d (seeds %d-%d, %d workers)\n", len(report.CaseResults), cfg.Seed, cfg.Seed+uint64(len(report.CaseResults))-1, cfg.Parallel)
	fmt.Fprintf(&b, "Manor:    %d people, %d rooms, %d hours\n", cfg.Params.People, cfg.Params.Rooms, cfg.Params.Times)
	fmt.Fprintf(&b, "Elapsed:  %s\n\n", format.FmtDuration(report.Elapsed))

	writeSection := func(title string, metrics []Metric) {
		tb := format.NewTable(m)
		tb.Title(title)
		tb.Header("ID", "Metric", "Value", "Detail", "Pass", "Threshold")
		for _, mt := range metrics {
			tb.Row(mt.ID, mt.Name, fmt.Sprintf("%.2f", mt.Value), mt.Detail, format.BoolMark(mt.Pass), fmt.Sprintf("≥%.2f", mt.Threshold))
		}
		tb.Columns(format.ColumnConfig{Number: 3, Align: format.AlignRight})
		b.WriteString(tb.String())
		b.WriteString("\n\n")
	}
	writeSection("Soundness", report.Metrics.Soundness)
	writeSection("Coverage", report.Metrics.Coverage)

	passed, total := report.Metrics.PassCount()
	result := "PASS"
	if passed < total {
		result = "FAIL"
	}
	fmt.Fprintf(&b, "RESULT: %s (%d/%d metrics within threshold)\n\n", result, passed, total)

	tb := format.NewTable(m)
	tb.Title("Per-case breakdown")
	tb.Header("Seed", "Statements", "Decided", "Located", "Liars caught", "Rounds", "Murderer", "Notes")
	for _, cr := range report.CaseResults {
		note := ""
		switch {
		case cr.Contradiction:
			note = format.Truncate(cr.Error, 60)
		case cr.WrongLabels+cr.WrongLocations > 0:
			note = fmt.Sprintf("%d wrong labels, %d wrong locations", cr.WrongLabels, cr.WrongLocations)
		case !cr.Stable:
			note = "round cap reached"
		}
		tb.Row(cr.Seed, cr.Statements, cr.Decided, cr.Located,
			fmt.Sprintf("%d/%d", cr.LiarsCaught, cr.Liars), cr.Rounds, format.BoolMark(cr.MurdererPlaced), note)
	}
	b.WriteString(tb.String())
	b.WriteString("\n")
	return b.String()
}
