// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XlsxConverter reads .xlsx workbooks with excelize. Each sheet becomes a
// level-2 heading followed by a pipe table of its formatted cell values.
type XlsxConverter struct{}

// Convert renders every sheet of the workbook at path in workbook order.
func (XlsxConverter) Convert(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	var b strings.Builder
	for i, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("reading sheet %s of %s: %w", sheet, path, err)
		}
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## %s\n", sheet)
		if rows = trimEmptyRows(rows); len(rows) > 0 {
			b.WriteString("\n")
			writeTable(&b, rows)
		}
	}
	return b.String(), nil
}

// trimEmptyRows drops trailing rows whose cells are all blank.
func trimEmptyRows(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && blankRow(rows[end-1]) {
		end--
	}
	return rows[:end]
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
