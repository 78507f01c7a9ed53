// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan decides which files under an input folder are converted and
// collects them in a stable order.
package scan

import (
	"path/filepath"
	"strings"
)

// SupportedExtensions lists the document extensions accepted for conversion.
var SupportedExtensions = map[string]bool{
	".docx": true,
	".xls":  true,
	".xlsx": true,
}

const (
	tempOfficePrefix     = "~$"
	excludedDirSubstring = "_md"
)

// IsSupportedExtension reports whether path has a supported document
// extension. The comparison is case-insensitive.
func IsSupportedExtension(path string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsTempOfficeFile reports whether path names an Office lock file
// such as "~$report.docx".
func IsTempOfficeFile(path string) bool {
	return strings.HasPrefix(filepath.Base(path), tempOfficePrefix)
}

// IsExcludedDir reports whether a directory name looks like a previously
// generated output folder and must not be traversed.
func IsExcludedDir(name string) bool {
	return strings.Contains(strings.ToLower(name), excludedDirSubstring)
}
