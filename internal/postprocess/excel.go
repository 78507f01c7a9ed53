// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package postprocess

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/doc2md/pkg/types"
)

// ImageMarker is appended to the heading of a sheet that carries images.
const ImageMarker = "（画像あり）"

var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

// SheetHeading returns the canonical heading line for a sheet.
func SheetHeading(sheet string, hasImage bool) string {
	if hasImage {
		return "## " + sheet + ImageMarker
	}
	return "## " + sheet
}

// NormalizeExcelMarkdown rewrites every line that names a sheet, either as
// a heading of any level or as a bare line, into the canonical "## <sheet>"
// heading, adding ImageMarker for sheets in imageSheetNames. Sheets that
// never appear are reported in one warning, in workbook order. A workbook
// with a single sheet that never appears gets its heading prepended.
func NormalizeExcelMarkdown(markdown string, sheetNames, imageSheetNames []string) types.PostprocessResult {
	sheets := make(map[string]bool, len(sheetNames))
	for _, name := range sheetNames {
		sheets[strings.TrimSpace(name)] = true
	}
	images := make(map[string]bool, len(imageSheetNames))
	for _, name := range imageSheetNames {
		images[strings.TrimSpace(name)] = true
	}
	found := make(map[string]bool, len(sheetNames))

	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		name, ok := matchSheetLine(line, sheets)
		if !ok {
			continue
		}
		found[name] = true
		lines[i] = SheetHeading(name, images[name])
	}

	var missing []string
	for _, name := range sheetNames {
		if !found[strings.TrimSpace(name)] {
			missing = append(missing, name)
		}
	}

	var warnings []string
	if len(missing) > 0 {
		warnings = append(warnings, fmt.Sprintf("sheet headings not detected: %s", strings.Join(missing, ", ")))
		if len(sheetNames) == 1 {
			name := strings.TrimSpace(sheetNames[0])
			lines = append([]string{SheetHeading(name, images[name])}, lines...)
		}
	}

	return types.PostprocessResult{
		Markdown: strings.Join(lines, "\n"),
		Warnings: warnings,
	}
}

// matchSheetLine returns the sheet named by line, if any.
func matchSheetLine(line string, sheets map[string]bool) (string, bool) {
	m := headingPattern.FindStringSubmatch(line)
	if m == nil {
		name := strings.TrimSpace(line)
		return name, name != "" && sheets[name]
	}
	title := strings.TrimSpace(m[2])
	title = strings.TrimSpace(strings.TrimSuffix(title, ImageMarker))
	return title, title != "" && sheets[title]
}
