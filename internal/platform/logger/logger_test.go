package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		opts         Options
		wantContains []string
		wantEmpty    bool
	}{
		{
			name:         "json format",
			opts:         Options{Level: "info", Format: "json"},
			wantContains: []string{`"msg":"hello"`, `"symbol":"AAPL"`},
		},
		{
			name:         "text format",
			opts:         Options{Level: "info", Format: "text"},
			wantContains: []string{"msg=hello", "symbol=AAPL"},
		},
		{
			name:      "level filters lower records",
			opts:      Options{Level: "error"},
			wantEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			NewWithWriter(&buf, tt.opts).Info("hello", "symbol", "AAPL")

			if tt.wantEmpty {
				assert.Empty(t, buf.String())
				return
			}
			for _, s := range tt.wantContains {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}

func TestNew_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ingest.log")
	l, closer := New(Options{File: path})
	l.Warn("rotated output", "run_id", "r1")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"rotated output"`)
}

func TestNew_Stdout(t *testing.T) {
	t.Parallel()

	l, closer := New(Options{})
	assert.NotNil(t, l)
	assert.NoError(t, closer.Close())
}
