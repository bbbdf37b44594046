// Package logging builds the plugin's slog logger and its sinks, plus the
// zerolog logger used by the database and InfluxDB layers.
package logging

import (
	"path/filepath"
	"time"
)

// sessionLayout formats the session start, always in UTC.
const sessionLayout = "20060102_150405"

// LogFilePath returns <logsDir>/<appName>.<start>.log.
func LogFilePath(logsDir, appName string, sessionStart time.Time) string {
	return filepath.Join(logsDir, appName+"."+sessionStart.UTC().Format(sessionLayout)+".log")
}
