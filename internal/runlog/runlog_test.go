// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runlog

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var linePattern = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] (INFO|WARN|ERROR): .*$`)

func TestHandler_Format(t *testing.T) {
	at := time.Date(2026, 3, 7, 9, 5, 2, 0, time.Local)

	tests := []struct {
		name  string
		level slog.Level
		msg   string
		want  string
	}{
		{"info", slog.LevelInfo, "Input folder: /data/in", "[2026-03-07 09:05:02] INFO: Input folder: /data/in\n"},
		{"warn", slog.LevelWarn, "a.xlsx: sheet headings not detected: S", "[2026-03-07 09:05:02] WARN: a.xlsx: sheet headings not detected: S\n"},
		{"error", slog.LevelError, "FAILED: b.docx: boom", "[2026-03-07 09:05:02] ERROR: FAILED: b.docx: boom\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := NewHandler(&buf, nil)
			require.NoError(t, h.Handle(context.Background(), slog.NewRecord(at, tt.level, tt.msg, 0)))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestHandler_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, nil))

	log.Debug("hidden")
	log.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "INFO: shown")
}

func TestHandler_Attrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, nil)).With("run", 3).WithGroup("file")

	log.Warn("odd", "index", 2)

	assert.True(t, strings.HasSuffix(buf.String(), "WARN: odd run=3 file.index=2\n"), buf.String())
}

func TestOpen_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversion.log")

	for _, msg := range []string{"first", "second"} {
		l, err := Open(path)
		require.NoError(t, err)
		l.Info(msg)
		require.NoError(t, l.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Regexp(t, linePattern, line)
	}
	assert.Contains(t, lines[0], "first")
	assert.Contains(t, lines[1], "second")
}

func TestOpen_MissingDir(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope", "conversion.log"))
	assert.Error(t, err)
}
