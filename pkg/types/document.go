// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data records shared by the conversion stages.
package types

// ConversionResult is the markdown produced for one input document together
// with the human-readable warnings raised while producing it.
type ConversionResult struct {
	Markdown string   `json:"markdown" yaml:"markdown"`
	Warnings []string `json:"warnings" yaml:"warnings"`
}

// ImageDetectionResult lists every worksheet of a workbook and the subset
// that carries at least one embedded image. ImageSheetNames is always a
// subset of SheetNames.
type ImageDetectionResult struct {
	SheetNames      []string `json:"sheet_names" yaml:"sheet_names"`
	ImageSheetNames []string `json:"image_sheet_names" yaml:"image_sheet_names"`
	Warnings        []string `json:"warnings" yaml:"warnings"`
}

// PostprocessResult is normalized markdown plus warnings about sheet
// headings that could not be matched.
type PostprocessResult struct {
	Markdown string   `json:"markdown" yaml:"markdown"`
	Warnings []string `json:"warnings" yaml:"warnings"`
}

// ProgressEvent reports that the index-th of total files is being converted.
type ProgressEvent struct {
	Index       int    `json:"index" yaml:"index"`
	Total       int    `json:"total" yaml:"total"`
	CurrentFile string `json:"current_file" yaml:"current_file"`
}

// Percent returns the completion percentage, or 0 when total is not positive.
func (e ProgressEvent) Percent() float64 {
	if e.Total <= 0 {
		return 0
	}
	return float64(e.Index) / float64(e.Total) * 100
}

// FileStatus indicates the outcome of converting one file.
type FileStatus string

const (
	FileConverted FileStatus = "converted"
	FileFailed    FileStatus = "failed"
)

// FileOutcome records what happened to one input file during a run.
type FileOutcome struct {
	Source   string     `json:"source" yaml:"source"`
	Output   string     `json:"output,omitempty" yaml:"output,omitempty"`
	Status   FileStatus `json:"status" yaml:"status"`
	Warnings []string   `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Error    string     `json:"error,omitempty" yaml:"error,omitempty"`
	Outline  []string   `json:"outline,omitempty" yaml:"outline,omitempty"`
}

// RunSummary holds the outcome of a conversion run.
type RunSummary struct {
	InputDir     string `json:"input_dir" yaml:"input_dir"`
	OutputDir    string `json:"output_dir" yaml:"output_dir"`
	LogPath      string `json:"log_path" yaml:"log_path"`
	Total        int    `json:"total" yaml:"total"`
	SuccessCount int    `json:"success_count" yaml:"success_count"`
	FailureCount int    `json:"failure_count" yaml:"failure_count"`
	WarningCount int    `json:"warning_count" yaml:"warning_count"`
}

// HasFailures reports whether any file failed conversion.
func (s RunSummary) HasFailures() bool {
	return s.FailureCount > 0
}
