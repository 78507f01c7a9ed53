// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doc2md/internal/plan"
	"github.com/pdiddy/doc2md/internal/scan"
	"github.com/pdiddy/doc2md/pkg/types"
)

// fakeConverter returns canned Markdown keyed by file base name.
type fakeConverter struct {
	mu      sync.Mutex
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (f *fakeConverter) Convert(path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	base := filepath.Base(path)
	f.calls = append(f.calls, base)
	if err, ok := f.errs[base]; ok {
		return "", err
	}
	return f.outputs[base], nil
}

// fakeRecorder captures the recorded run.
type fakeRecorder struct {
	summary types.RunSummary
	files   []types.FileOutcome
	err     error
	calls   int
}

func (r *fakeRecorder) Record(_ context.Context, _, _ time.Time, summary types.RunSummary, files []types.FileOutcome) (int64, error) {
	r.calls++
	r.summary = summary
	r.files = files
	return int64(r.calls), r.err
}

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
}

func newInput(t *testing.T) string {
	t.Helper()
	in := filepath.Join(t.TempDir(), "docs")
	require.NoError(t, os.Mkdir(in, 0o755))
	writeFiles(t, in,
		"a.docx",
		"a.xls",
		"bad.docx",
		"sub/b.docx",
		"~$a.docx",
		"notes.txt",
		"old_md/ignored.docx",
	)
	return in
}

func newConverter() *fakeConverter {
	return &fakeConverter{
		outputs: map[string]string{
			"a.docx": "# Alpha\n\n![logo](media/logo.png)\n\nText\n",
			"a.xls":  "## Sheet1\n\n| v |\n",
			"b.docx": "# Beta\n",
		},
		errs: map[string]error{
			"bad.docx": errors.New("zip: not a valid zip file"),
		},
	}
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestPipeline_Run(t *testing.T) {
	in := newInput(t)
	conv := newConverter()
	rec := &fakeRecorder{}
	p := &Pipeline{Converter: conv, History: rec}

	var (
		startDir   string
		startTotal int
		events     []types.ProgressEvent
	)
	summary, err := p.Run(context.Background(), in, Observer{
		OnStart:    func(dir string, total int) { startDir, startTotal = dir, total },
		OnProgress: func(ev types.ProgressEvent) { events = append(events, ev) },
	})
	require.NoError(t, err)

	out := in + "_md"
	assert.Equal(t, types.RunSummary{
		InputDir:     in,
		OutputDir:    out,
		LogPath:      filepath.Join(out, "conversion.log"),
		Total:        4,
		SuccessCount: 3,
		FailureCount: 1,
		WarningCount: 1,
	}, summary)
	assert.Equal(t, out, startDir)
	assert.Equal(t, 4, startTotal)
	require.Len(t, events, 4)
	for i, ev := range events {
		assert.Equal(t, i+1, ev.Index)
		assert.Equal(t, 4, ev.Total)
	}
	assert.Equal(t, filepath.Join(in, "sub", "b.docx"), events[3].CurrentFile)
	assert.Equal(t, []string{"a.docx", "a.xls", "bad.docx", "b.docx"}, conv.calls)

	md, err := os.ReadFile(filepath.Join(out, "a.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Alpha\n\nText\n", string(md))

	md, err = os.ReadFile(filepath.Join(out, "a_2.md"))
	require.NoError(t, err)
	assert.Equal(t, "## Sheet1\n\n| v |\n", string(md))

	_, err = os.Stat(filepath.Join(out, "sub", "b.md"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "bad.md"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	log := readLog(t, summary.LogPath)
	assert.Contains(t, log, "] INFO: Input folder: "+in+"\n")
	assert.Contains(t, log, "INFO: SUCCESS: "+filepath.Join(in, "a.docx")+" -> "+filepath.Join(out, "a.md"))
	assert.Contains(t, log, "WARN: "+filepath.Join(in, "a.xls")+": image detection skipped")
	assert.Contains(t, log, "ERROR: FAILED: "+filepath.Join(in, "bad.docx")+": zip: not a valid zip file")
	assert.Contains(t, log, "INFO: Completed. total=4 success=3 failure=1 warnings=1\n")

	m, err := ReadManifest(filepath.Join(out, "manifest.yaml"))
	require.NoError(t, err)
	assert.Equal(t, summary, m.Summary)
	assert.Equal(t, types.BackendAuto, m.Backend)
	require.Len(t, m.Files, 4)
	assert.Equal(t, []string{"# Alpha"}, m.Files[0].Outline)
	assert.Equal(t, types.FileFailed, m.Files[2].Status)
	assert.Contains(t, m.Files[2].Error, "zip")

	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, summary, rec.summary)
	assert.Len(t, rec.files, 4)
}

func TestPipeline_SecondRunGetsNewFolder(t *testing.T) {
	in := filepath.Join(t.TempDir(), "docs")
	require.NoError(t, os.Mkdir(in, 0o755))
	writeFiles(t, in, "b.docx")
	p := &Pipeline{Converter: newConverter()}

	first, err := p.Run(context.Background(), in, Observer{})
	require.NoError(t, err)
	second, err := p.Run(context.Background(), in, Observer{})
	require.NoError(t, err)

	assert.Equal(t, in+"_md", first.OutputDir)
	assert.Equal(t, in+"_md_2", second.OutputDir)
}

func TestPipeline_EmptyFolder(t *testing.T) {
	in := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.Mkdir(in, 0o755))
	p := &Pipeline{Converter: newConverter()}

	summary, err := p.Run(context.Background(), in, Observer{})

	require.NoError(t, err)
	assert.Zero(t, summary.Total)
	log := readLog(t, summary.LogPath)
	assert.Contains(t, log, "WARN: No target files were found.")
	assert.Contains(t, log, "Completed. total=0 success=0 failure=0 warnings=0")
}

func TestPipeline_FatalInput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.docx")
	writeFiles(t, dir, "file.docx")

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"missing", filepath.Join(dir, "missing"), fs.ErrNotExist},
		{"not a directory", file, scan.ErrNotDirectory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Pipeline{Converter: newConverter()}
			_, err := p.Run(context.Background(), tt.input, Observer{})
			assert.ErrorIs(t, err, tt.want)
			_, statErr := os.Stat(tt.input + "_md")
			assert.ErrorIs(t, statErr, fs.ErrNotExist)
		})
	}
}

func TestPipeline_OutputDirFatal(t *testing.T) {
	t.Run("collision search exhausted", func(t *testing.T) {
		in := filepath.Join(t.TempDir(), "docs")
		require.NoError(t, os.Mkdir(in, 0o755))
		writeFiles(t, in, "a.docx")
		require.NoError(t, os.Mkdir(in+"_md", 0o755))

		conv := newConverter()
		rec := &fakeRecorder{}
		p := &Pipeline{Converter: conv, Config: types.Config{MaxCollisions: 1}, History: rec}
		started := false

		summary, err := p.Run(context.Background(), in, Observer{
			OnStart: func(string, int) { started = true },
		})

		assert.ErrorIs(t, err, plan.ErrCollisionSearchExhausted)
		assert.Equal(t, types.RunSummary{}, summary)
		assert.False(t, started)
		assert.Empty(t, conv.calls)
		assert.Zero(t, rec.calls)
		_, statErr := os.Stat(in + "_md_2")
		assert.ErrorIs(t, statErr, fs.ErrNotExist)
	})

	t.Run("parent not writable", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("permission checks do not apply to root")
		}
		parent := filepath.Join(t.TempDir(), "readonly")
		in := filepath.Join(parent, "docs")
		require.NoError(t, os.MkdirAll(in, 0o755))
		writeFiles(t, in, "a.docx")
		require.NoError(t, os.Chmod(parent, 0o555))
		t.Cleanup(func() { os.Chmod(parent, 0o755) })

		conv := newConverter()
		p := &Pipeline{Converter: conv}
		started := false

		summary, err := p.Run(context.Background(), in, Observer{
			OnStart: func(string, int) { started = true },
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, fs.ErrPermission)
		assert.Contains(t, err.Error(), "creating output folder")
		assert.Equal(t, types.RunSummary{}, summary)
		assert.False(t, started)
		assert.Empty(t, conv.calls)
	})
}

func TestPipeline_HistoryFailureIsLogged(t *testing.T) {
	in := filepath.Join(t.TempDir(), "docs")
	require.NoError(t, os.Mkdir(in, 0o755))
	writeFiles(t, in, "b.docx")
	p := &Pipeline{Converter: newConverter(), History: &fakeRecorder{err: errors.New("database is locked")}}

	summary, err := p.Run(context.Background(), in, Observer{})

	require.NoError(t, err)
	assert.Equal(t, 1, summary.SuccessCount)
	assert.True(t, strings.Contains(readLog(t, summary.LogPath), "WARN: History not recorded: database is locked"))
}

func TestPipeline_CustomFileNames(t *testing.T) {
	in := filepath.Join(t.TempDir(), "docs")
	require.NoError(t, os.Mkdir(in, 0o755))
	writeFiles(t, in, "b.docx")
	p := &Pipeline{
		Converter: newConverter(),
		Config:    types.Config{LogFile: "run.log", ManifestFile: "run.yaml"},
	}

	summary, err := p.Run(context.Background(), in, Observer{})

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(in+"_md", "run.log"), summary.LogPath)
	_, err = ReadManifest(filepath.Join(in+"_md", "run.yaml"))
	assert.NoError(t, err)
}
