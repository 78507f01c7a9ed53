// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns office documents into Markdown. Backends implement
// Converter; Document runs a backend and applies the post-processing that
// every output file receives.
package convert

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdiddy/doc2md/internal/postprocess"
	"github.com/pdiddy/doc2md/internal/workbook"
	"github.com/pdiddy/doc2md/pkg/types"
)

// ErrUnsupportedFormat is returned when no backend can handle a file's
// extension.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Converter transforms a document into raw Markdown text. Different
// backends (native docx/xlsx readers, the markitdown container) implement
// this interface.
type Converter interface {
	// Convert reads the document at path and returns its Markdown content.
	Convert(path string) (string, error)
}

// Processor applies post-processing to converter output. The zero value
// inspects workbooks with the default excelize opener.
type Processor struct {
	Inspector workbook.Inspector
}

// Document converts path with c and cleans the result. Image markup is
// stripped from every document; workbooks additionally get canonical sheet
// headings and, for .xlsx, a check for formula cells without cached results.
// A conversion error is returned as is; everything after conversion only
// contributes warnings.
func (p Processor) Document(c Converter, path string) (types.ConversionResult, error) {
	raw, err := c.Convert(path)
	if err != nil {
		return types.ConversionResult{}, err
	}

	result := types.ConversionResult{
		Markdown: postprocess.RemoveImageMarkdown(raw),
		Warnings: []string{},
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".xls" {
		return result, nil
	}

	images := p.Inspector.DetectImages(path)
	result.Warnings = append(result.Warnings, images.Warnings...)

	post := postprocess.NormalizeExcelMarkdown(result.Markdown, images.SheetNames, images.ImageSheetNames)
	result.Markdown = post.Markdown
	result.Warnings = append(result.Warnings, post.Warnings...)

	if ext == ".xlsx" {
		result.Warnings = append(result.Warnings, p.Inspector.MissingFormulaValues(path)...)
	}
	return result, nil
}

// Document runs Processor.Document with the default inspector.
func Document(c Converter, path string) (types.ConversionResult, error) {
	return Processor{}.Document(c, path)
}

// unsupported wraps ErrUnsupportedFormat with the offending path.
func unsupported(path, reason string) error {
	return fmt.Errorf("%s: %s: %w", path, reason, ErrUnsupportedFormat)
}
