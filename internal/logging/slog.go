package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// InstrumentationName identifies log records bridged to OpenTelemetry.
const InstrumentationName = "cs2-retakes"

// swapped in tests
var (
	osStdout = os.Stdout
	osPipe   = os.Pipe
)

var levels = map[string]slog.Level{
	"DEBUG":   slog.LevelDebug,
	"INFO":    slog.LevelInfo,
	"WARN":    slog.LevelWarn,
	"WARNING": slog.LevelWarn,
	"ERROR":   slog.LevelError,
}

// SlogManager owns the plugin logger. Setup runs once with console output at
// boot and again after the config is read; each call replaces the logger.
type SlogManager struct {
	logger      *slog.Logger
	logProvider *sdklog.LoggerProvider
	context     ContextProvider
}

// NewSlogManager creates a manager whose Logger is slog.Default until Setup.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel maps a config level name to slog. Unknown names mean info.
func parseLevel(level string) slog.Level {
	if l, ok := levels[strings.ToUpper(strings.TrimSpace(level))]; ok {
		return l
	}
	return slog.LevelInfo
}

// utcTime renders record timestamps as RFC3339 in UTC.
func utcTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.TimeKey {
		return a
	}
	if t, ok := a.Value.Any().(time.Time); ok {
		a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
	}
	return a
}

// SetContextProvider installs the attributes stamped on every record, usually
// MatchAttrs. Takes effect on the next Setup.
func (m *SlogManager) SetContextProvider(p ContextProvider) {
	m.context = p
}

// Setup builds the logger. Text records go to file, or stdout when file is
// nil. The OTel bridge is added when provider is non-nil, followed by any
// extra sinks such as Graylog.
func (m *SlogManager) Setup(file io.Writer, level string, provider *sdklog.LoggerProvider, sinks ...slog.Handler) {
	lvl := parseLevel(level)
	if file == nil {
		file = osStdout
	}

	all := []slog.Handler{
		slog.NewTextHandler(file, &slog.HandlerOptions{Level: lvl, ReplaceAttr: utcTime}),
	}
	if provider != nil {
		all = append(all, otelslog.NewHandler(InstrumentationName, otelslog.WithLoggerProvider(provider)))
	}
	all = append(all, sinks...)

	var h slog.Handler = NewMultiHandler(all...)
	if m.context != nil {
		h = NewContextHandler(h, m.context)
	}

	m.logProvider = provider
	m.logger = slog.New(h)
	m.logger.Info("Logging initialized", "level", lvl.String(), "sinks", len(all))
}

// Logger returns the configured logger, or slog.Default before Setup.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush pushes buffered OTel records to their exporter.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider == nil {
		return nil
	}
	return m.logProvider.ForceFlush(ctx)
}
