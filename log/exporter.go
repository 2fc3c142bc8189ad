// Package log implements the structured json logger of fongo.
package log

import (
	"log/slog"
)

// Action set action filed for logger
func Action(action string) StdLogger {
	return std.Action(action)
}

// With any map data, the value of key must be string, int ... basic value
func With(m map[string]any) StdLogger {
	return std.With(m)
}

// Default the process wide logger.
func Default() Logger {
	return std
}

// SetLevel set the log level with: debug, info, warn, error
func SetLevel(level string) {
	if err := setLevel(std.level, level); err != nil {
		panic(err)
	}
	slog.SetLogLoggerLevel(std.level.Level())
}
