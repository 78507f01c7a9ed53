// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdiddy/doc2md/pkg/types"
)

// Router picks a backend per file extension according to the configured
// types.Backend.
//
//	auto:       .docx and .xlsx native, .xls via markitdown
//	native:     .docx and .xlsx native, .xls unsupported
//	markitdown: everything via markitdown
type Router struct {
	backend    types.Backend
	native     map[string]Converter
	markitdown Converter
}

// NewRouter builds a Router. markitdown may be nil for auto and native;
// the markitdown backend requires it.
func NewRouter(backend types.Backend, markitdown Converter) (*Router, error) {
	if backend == "" {
		backend = types.BackendAuto
	}
	if !backend.Valid() {
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
	if backend == types.BackendMarkitdown && markitdown == nil {
		return nil, fmt.Errorf("backend %s requires a markitdown converter", backend)
	}
	return &Router{
		backend: backend,
		native: map[string]Converter{
			".docx": DocxConverter{},
			".xlsx": XlsxConverter{},
		},
		markitdown: markitdown,
	}, nil
}

// Convert dispatches path to the selected backend.
func (r *Router) Convert(path string) (string, error) {
	c, err := r.route(path)
	if err != nil {
		return "", err
	}
	return c.Convert(path)
}

func (r *Router) route(path string) (Converter, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if r.backend == types.BackendMarkitdown {
		return r.markitdown, nil
	}
	if c, ok := r.native[ext]; ok {
		return c, nil
	}
	if r.backend == types.BackendAuto && r.markitdown != nil {
		return r.markitdown, nil
	}
	if r.backend == types.BackendAuto {
		return nil, unsupported(path, "no native backend and markitdown is unavailable")
	}
	return nil, unsupported(path, "no native backend")
}
