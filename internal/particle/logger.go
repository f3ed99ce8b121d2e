package particle

import "log/slog"

// logger is the package-wide logger used for lifecycle events.
var logger *slog.Logger = slog.Default()

// SetLogger overrides the package logger.
//
// If not set, slog.Default() is used.
func SetLogger(l *slog.Logger) {
	if l == nil {
		panic("particle: nil logger")
	}
	logger = l
}
