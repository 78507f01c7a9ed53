// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workbook

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdiddy/doc2md/pkg/types"
)

const (
	// maxFormulaSamples is how many SheetName!Ref locators a warning lists.
	maxFormulaSamples = 5
	// maxMissingFormulas stops the audit once this many cells are found.
	maxMissingFormulas = 50
)

// Inspector runs the workbook checks. The zero value opens files with Open.
type Inspector struct {
	Open Opener
}

func (in Inspector) open(path string, mode Mode) (Workbook, error) {
	if in.Open != nil {
		return in.Open(path, mode)
	}
	return Open(path, mode)
}

// DetectImages lists the sheets of an .xlsx workbook and the ones that
// carry embedded pictures. Chart sheets are listed but never scanned.
// Other formats and unreadable files yield empty lists and a warning;
// neither is an error.
func (in Inspector) DetectImages(path string) types.ImageDetectionResult {
	if strings.ToLower(filepath.Ext(path)) != ".xlsx" {
		return types.ImageDetectionResult{
			SheetNames:      []string{},
			ImageSheetNames: []string{},
			Warnings:        []string{"image detection skipped for non-.xlsx workbook"},
		}
	}

	wb, err := in.open(path, ModeValues)
	if err != nil {
		return types.ImageDetectionResult{
			SheetNames:      []string{},
			ImageSheetNames: []string{},
			Warnings:        []string{fmt.Sprintf("image detection failed: %v", err)},
		}
	}
	defer wb.Close()

	result := types.ImageDetectionResult{
		SheetNames:      append([]string{}, wb.SheetNames()...),
		ImageSheetNames: []string{},
	}
	for _, sheet := range result.SheetNames {
		n, err := wb.ImagesOn(sheet)
		if errors.Is(err, ErrNotWorksheet) {
			continue
		}
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("image detection failed for sheet %s: %v", sheet, err))
			continue
		}
		if n > 0 {
			result.ImageSheetNames = append(result.ImageSheetNames, sheet)
		}
	}
	return result
}

// MissingFormulaValues compares formula cells against their cached values
// and warns when results are absent, which happens when a workbook was saved
// without recalculation. At most maxFormulaSamples locations are listed and
// the scan stops after maxMissingFormulas hits.
func (in Inspector) MissingFormulaValues(path string) []string {
	formulas, err := in.open(path, ModeFormulas)
	if err != nil {
		return []string{fmt.Sprintf("formula result check failed: %v", err)}
	}
	defer formulas.Close()

	values, err := in.open(path, ModeValues)
	if err != nil {
		return []string{fmt.Sprintf("formula result check failed: %v", err)}
	}
	defer values.Close()

	var (
		missing   int
		samples   []string
		truncated bool
	)

scan:
	for _, sheet := range formulas.SheetNames() {
		refs, err := formulas.CellRefs(sheet)
		if err != nil {
			return []string{fmt.Sprintf("formula result check failed: %v", err)}
		}
		for _, ref := range refs {
			cell, err := formulas.CellAt(sheet, ref)
			if err != nil {
				return []string{fmt.Sprintf("formula result check failed: %v", err)}
			}
			if !cell.IsFormula {
				continue
			}
			cached, err := values.CellAt(sheet, ref)
			if err != nil {
				return []string{fmt.Sprintf("formula result check failed: %v", err)}
			}
			if cached.Value != "" {
				continue
			}
			missing++
			if len(samples) < maxFormulaSamples {
				samples = append(samples, sheet+"!"+ref)
			}
			if missing >= maxMissingFormulas {
				truncated = true
				break scan
			}
		}
	}

	if missing == 0 {
		return nil
	}
	sample := strings.Join(samples, ", ")
	if truncated {
		return []string{fmt.Sprintf("there are many cells whose formula results are unavailable (e.g. %s and more)", sample)}
	}
	return []string{fmt.Sprintf("some cells have no cached formula result (e.g. %s)", sample)}
}

// DetectImages runs Inspector.DetectImages with the default opener.
func DetectImages(path string) types.ImageDetectionResult {
	return Inspector{}.DetectImages(path)
}

// DetectMissingFormulaValues runs Inspector.MissingFormulaValues with the
// default opener.
func DetectMissingFormulaValues(path string) []string {
	return Inspector{}.MissingFormulaValues(path)
}
