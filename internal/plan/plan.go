// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan computes non-colliding destination paths for converted
// output. Plans are advisory: nothing is locked between planning and
// creation, so callers should create the planned entry promptly.
package plan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	outputDirSuffix = "_md"
	outputExt       = ".md"

	// DefaultMaxAttempts bounds the numeric suffix search.
	DefaultMaxAttempts = 10000
)

var (
	// ErrCollisionSearchExhausted indicates every candidate name up to the
	// attempt bound is already taken.
	ErrCollisionSearchExhausted = errors.New("collision search exhausted")

	// ErrOutsideRoot indicates an input file does not live under the input root.
	ErrOutsideRoot = errors.New("path is not under input root")
)

// Planner plans output paths. The zero value uses DefaultMaxAttempts.
type Planner struct {
	// MaxAttempts is the largest numeric suffix tried before giving up.
	MaxAttempts int
}

func (p Planner) maxAttempts() int {
	if p.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return p.MaxAttempts
}

// OutputDir returns <inputDir>_md when it does not exist, otherwise the
// first free name among <inputDir>_md_2, <inputDir>_md_3, and so on.
func (p Planner) OutputDir(inputDir string) (string, error) {
	clean := filepath.Clean(inputDir)
	base := filepath.Join(filepath.Dir(clean), filepath.Base(clean)+outputDirSuffix)

	for i := 1; i <= p.maxAttempts(); i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s_%d", base, i)
		}
		if !exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("planning output directory for %s: %w", inputDir, ErrCollisionSearchExhausted)
}

// OutputFile maps inputFile, which must live under inputRoot, to a .md path
// at the same relative location under outputRoot. When that path is taken
// it tries name_2.md, name_3.md, and so on.
func (p Planner) OutputFile(inputFile, inputRoot, outputRoot string) (string, error) {
	rel, err := relativeTo(inputFile, inputRoot)
	if err != nil {
		return "", err
	}

	candidate := filepath.Join(outputRoot, strings.TrimSuffix(rel, filepath.Ext(rel))+outputExt)
	if !exists(candidate) {
		return candidate, nil
	}

	stem := strings.TrimSuffix(candidate, outputExt)
	for i := 2; i <= p.maxAttempts(); i++ {
		next := fmt.Sprintf("%s_%d%s", stem, i, outputExt)
		if !exists(next) {
			return next, nil
		}
	}
	return "", fmt.Errorf("planning output file for %s: %w", inputFile, ErrCollisionSearchExhausted)
}

// OutputDir plans an output directory with the default attempt bound.
func OutputDir(inputDir string) (string, error) {
	return Planner{}.OutputDir(inputDir)
}

// OutputFile plans an output file with the default attempt bound.
func OutputFile(inputFile, inputRoot, outputRoot string) (string, error) {
	return Planner{}.OutputFile(inputFile, inputRoot, outputRoot)
}

func relativeTo(path, root string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", root, err)
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return "", fmt.Errorf("%s relative to %s: %w", path, root, ErrOutsideRoot)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s relative to %s: %w", path, root, ErrOutsideRoot)
	}
	return rel, nil
}

// exists treats any stat result other than "not exist" as taken.
func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}
