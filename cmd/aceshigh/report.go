package main

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/fadedpez/aceshigh/pkg/services/statistics"
)

// reportTable lays a report out as table rows, header first
func reportTable(report *statistics.Report) pterm.TableData {
	header := []string{"Score", "Count", "Percent"}
	if report.Mode.IsPoker() {
		header = []string{"Hand", "Count", "Percent", "Expected"}
	}

	data := pterm.TableData{header}
	for _, row := range report.Rows {
		line := []string{row.Label, strconv.FormatInt(row.Count, 10), report.FormatPercent(row)}
		if report.Mode.IsPoker() {
			line = append(line, row.Expected)
		}
		data = append(data, line)
	}
	if !report.Mode.IsPoker() {
		data = append(data, []string{"mean", fmt.Sprintf("%.3f", report.Mean), ""})
	}
	return data
}

func renderReport(report *statistics.Report) (string, error) {
	return pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(reportTable(report)).Srender()
}
