// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/doc2md/pkg/types"
)

type SummaryRow struct {
	Label string
	Value string
	Style lipgloss.Style
}

// SummaryRows lists the end-of-run figures. Non-zero failure and warning
// counts are highlighted.
func SummaryRows(s types.RunSummary) []SummaryRow {
	failures := valueStyle
	if s.FailureCount > 0 {
		failures = errorStyle
	}
	warnings := valueStyle
	if s.WarningCount > 0 {
		warnings = warnStyle
	}
	return []SummaryRow{
		{Label: "Total files", Value: fmt.Sprintf("%d", s.Total), Style: valueStyle},
		{Label: "Converted", Value: fmt.Sprintf("%d", s.SuccessCount), Style: successStyle},
		{Label: "Failed", Value: fmt.Sprintf("%d", s.FailureCount), Style: failures},
		{Label: "Warnings", Value: fmt.Sprintf("%d", s.WarningCount), Style: warnings},
		{Label: "Output folder", Value: s.OutputDir, Style: valueStyle},
		{Label: "Log file", Value: s.LogPath, Style: valueStyle},
	}
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(row.Label))
		valueWidth = max(valueWidth, lipgloss.Width(row.Value))
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		line := fmt.Sprintf("%s | %s", labelStyle.Render(label), row.Style.Render(value))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
