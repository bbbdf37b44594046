package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// captureStdout points osStdout at a pipe until the returned func is called,
// which restores it and returns what was written.
func captureStdout(t *testing.T) func() string {
	t.Helper()

	r, w, err := osPipe()
	require.NoError(t, err)
	orig := osStdout
	osStdout = w

	return func() string {
		w.Close()
		osStdout = orig
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		r.Close()
		return buf.String()
	}
}

func TestSetup_Destination(t *testing.T) {
	t.Run("log file keeps stdout quiet", func(t *testing.T) {
		stdout := captureStdout(t)
		var file bytes.Buffer

		m := NewSlogManager()
		m.Setup(&file, "info", nil)
		m.Logger().Info("Loaded catalog", "entries", 12)

		assert.Empty(t, stdout())
		assert.Contains(t, file.String(), "Logging initialized")
		assert.Contains(t, file.String(), "entries=12")
	})

	t.Run("no file falls back to stdout", func(t *testing.T) {
		stdout := captureStdout(t)

		m := NewSlogManager()
		m.Setup(nil, "info", nil)
		m.Logger().Info("Starting up...")

		assert.Contains(t, stdout(), "Starting up...")
	})
}

func TestSetup_Levels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warning", false, false},
		{"error", false, false},
		{"", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var file bytes.Buffer
			m := NewSlogManager()
			m.Setup(&file, tt.level, nil)

			m.Logger().Debug("Skipping ordnance, not enough players on team")
			m.Logger().Info("Ordnance spawned")

			assert.Equal(t, tt.wantDebug, bytes.Contains(file.Bytes(), []byte("Skipping ordnance")))
			assert.Equal(t, tt.wantInfo, bytes.Contains(file.Bytes(), []byte("Ordnance spawned")))
		})
	}
}

func TestSetup_UTCTimestamps(t *testing.T) {
	var file bytes.Buffer
	m := NewSlogManager()
	m.Setup(&file, "info", nil)

	assert.Regexp(t, `time=\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z `, file.String())
}

func TestSetup_SecondCallReplacesLogger(t *testing.T) {
	var boot, file bytes.Buffer
	m := NewSlogManager()

	m.Setup(&boot, "info", nil)
	m.Logger().Info("Loaded config")
	m.Setup(&file, "info", nil)
	m.Logger().Info("Dispatcher initialized")

	assert.Contains(t, boot.String(), "Loaded config")
	assert.NotContains(t, boot.String(), "Dispatcher initialized")
	assert.Contains(t, file.String(), "Dispatcher initialized")
}

func TestSetup_ContextProviderAppliesOnNextSetup(t *testing.T) {
	var before, after bytes.Buffer
	m := NewSlogManager()
	m.Setup(&before, "info", nil)

	m.SetContextProvider(func() []slog.Attr { return []slog.Attr{slog.String("map", "de_ancient")} })
	m.Logger().Info("before")
	m.Setup(&after, "info", nil)
	m.Logger().Info("after")

	assert.NotContains(t, before.String(), "map=de_ancient")
	assert.Contains(t, after.String(), "msg=after map=de_ancient")
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	assert.Same(t, slog.Default(), NewSlogManager().Logger())
}

func TestFlush(t *testing.T) {
	m := NewSlogManager()
	require.NoError(t, m.Flush(context.Background()), "no provider")

	exp := &memoryExporter{}
	m.Setup(&bytes.Buffer{}, "info", sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exp))))
	m.Logger().Info("Ordnance spawned")

	require.NoError(t, m.Flush(context.Background()))
	assert.Contains(t, exp.bodies, "Ordnance spawned")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"Warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}
