// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workbook inspects spreadsheet files for the facts the converter
// cannot report: which sheets carry embedded images and which formula cells
// have no cached result.
package workbook

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNotWorksheet is returned by Workbook.ImagesOn for chart, dialog and
// macro sheets.
var ErrNotWorksheet = errors.New("not a worksheet")

// Mode selects how cell contents are reported.
type Mode int

const (
	// ModeFormulas reports formula text for formula cells.
	ModeFormulas Mode = iota
	// ModeValues reports the cached value stored with each cell.
	ModeValues
)

func (m Mode) String() string {
	if m == ModeFormulas {
		return "formulas"
	}
	return "values"
}

// Cell is one worksheet cell as seen in a given Mode. IsFormula is only
// ever set in ModeFormulas.
type Cell struct {
	Ref       string
	IsFormula bool
	Value     string
}

// Workbook is the read capability the inspectors need from a spreadsheet
// library.
type Workbook interface {
	// SheetNames lists worksheet titles in workbook order.
	SheetNames() []string

	// CellRefs lists the references of the used cells of sheet in row-major
	// order. Formula cells are included even when their value is empty.
	CellRefs(sheet string) ([]string, error)

	// CellAt returns the cell at ref on sheet.
	CellAt(sheet, ref string) (Cell, error)

	// ImagesOn returns the number of embedded pictures anchored on sheet,
	// or ErrNotWorksheet when sheet is not a worksheet.
	ImagesOn(sheet string) (int, error)

	// Close releases the underlying file.
	Close() error
}

// Opener opens the workbook at path in the given mode.
type Opener func(path string, mode Mode) (Workbook, error)

// Open opens an .xlsx workbook with excelize.
func Open(path string, mode Mode) (Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s (%s): %w", path, mode, err)
	}
	return &excelizeWorkbook{f: f, mode: mode}, nil
}

type excelizeWorkbook struct {
	f    *excelize.File
	mode Mode
}

var rawValues = excelize.Options{RawCellValue: true}

func (w *excelizeWorkbook) SheetNames() []string {
	return w.f.GetSheetList()
}

func (w *excelizeWorkbook) CellRefs(sheet string) ([]string, error) {
	rows, err := w.f.GetRows(sheet, rawValues)
	if err != nil {
		return nil, fmt.Errorf("reading rows of %s: %w", sheet, err)
	}
	var refs []string
	for r, row := range rows {
		for c := range row {
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

func (w *excelizeWorkbook) CellAt(sheet, ref string) (Cell, error) {
	if w.mode == ModeFormulas {
		formula, err := w.f.GetCellFormula(sheet, ref)
		if err != nil {
			return Cell{}, fmt.Errorf("reading formula %s!%s: %w", sheet, ref, err)
		}
		if formula != "" {
			return Cell{Ref: ref, IsFormula: true, Value: "=" + formula}, nil
		}
	}
	value, err := w.f.GetCellValue(sheet, ref, rawValues)
	if err != nil {
		return Cell{}, fmt.Errorf("reading value %s!%s: %w", sheet, ref, err)
	}
	return Cell{Ref: ref, Value: value}, nil
}

func (w *excelizeWorkbook) ImagesOn(sheet string) (int, error) {
	cells, err := w.f.GetPictureCells(sheet)
	if err != nil {
		// excelize reports non-worksheets with an unexported error.
		if strings.HasSuffix(err.Error(), "is not a worksheet") {
			return 0, fmt.Errorf("reading pictures of %s: %w", sheet, ErrNotWorksheet)
		}
		return 0, fmt.Errorf("reading pictures of %s: %w", sheet, err)
	}
	return len(cells), nil
}

func (w *excelizeWorkbook) Close() error {
	return w.f.Close()
}
