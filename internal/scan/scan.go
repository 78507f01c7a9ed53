// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// ErrNotDirectory indicates the input path exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// ScanError reports an OS-level failure while walking the input tree.
// Any such failure aborts the whole scan.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("failed to scan %s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// CheckInputDir returns an error wrapping fs.ErrNotExist when root is
// missing and ErrNotDirectory when it is not a directory.
func CheckInputDir(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("input folder %s: %w", root, fs.ErrNotExist)
		}
		return fmt.Errorf("input folder %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input folder %s: %w", root, ErrNotDirectory)
	}
	return nil
}

// InputFiles walks root recursively and returns the supported documents
// sorted lexicographically. Directories below root whose names mark them
// as generated output are pruned and Office lock files are skipped.
// A failure to read any entry aborts the scan with a *ScanError.
func InputFiles(root string) ([]string, error) {
	if err := CheckInputDir(root); err != nil {
		return nil, err
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &ScanError{Path: path, Err: err}
		}
		if d.IsDir() {
			if path != root && IsExcludedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsTempOfficeFile(path) || !IsSupportedExtension(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		var scanErr *ScanError
		if errors.As(err, &scanErr) {
			return nil, scanErr
		}
		return nil, &ScanError{Path: root, Err: err}
	}

	sort.Strings(files)
	return files, nil
}
