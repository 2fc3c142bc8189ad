package log

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"
)

var std *sLogger

const actionKey = "action"

func init() {
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelDebug)
	std = newSLogger(os.Stdout, lvl)
	slog.SetDefault(std.logger)
}

func newSLogger(w io.Writer, lvl *slog.LevelVar) *sLogger {
	return &sLogger{
		logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})),
		level:  lvl,
	}
}

// New a json logger writing to w, level is one of: debug, info, warn, error.
func New(w io.Writer, level string) (Logger, error) {
	lvl := new(slog.LevelVar)
	if err := setLevel(lvl, level); err != nil {
		return nil, err
	}
	return newSLogger(w, lvl), nil
}

type sLogger struct {
	logger *slog.Logger
	level  *slog.LevelVar
	fields []any
}

func (l *sLogger) log(level slog.Level, msgOrFormat string, args []any) {
	if len(args) > 0 {
		msgOrFormat = fmt.Sprintf(msgOrFormat, args...)
	}
	l.logger.With(l.fields...).Log(context.Background(), level, msgOrFormat)
}

// Debug logs a message at DebugLevel. The message includes any fields passed
// at the log site, as well as any fields accumulated on the logger.
func (l *sLogger) Debug(msgOrFormat string, args ...any) {
	l.log(slog.LevelDebug, msgOrFormat, args)
}

// Info logs a message at InfoLevel.
func (l *sLogger) Info(msgOrFormat string, args ...any) {
	l.log(slog.LevelInfo, msgOrFormat, args)
}

// Warn logs a message at WarnLevel.
func (l *sLogger) Warn(msgOrFormat string, args ...any) {
	l.log(slog.LevelWarn, msgOrFormat, args)
}

// Error logs a message at ErrorLevel.
func (l *sLogger) Error(msgOrFormat string, args ...any) {
	l.log(slog.LevelError, msgOrFormat, args)
}

// Fatal logs a message and then calls os.Exit(1), even if logging at
// FatalLevel is disabled.
func (l *sLogger) Fatal(msgOrFormat string, args ...any) {
	if len(args) > 0 {
		msgOrFormat = fmt.Sprintf(msgOrFormat, args...)
	}
	log.Fatalln(msgOrFormat)
}

// Action logger with just an action key.
func (l *sLogger) Action(action string) StdLogger {
	return l.derive([]any{slog.String(actionKey, action)})
}

// With add custom maps for logger
func (l *sLogger) With(m map[string]any) StdLogger {
	return l.derive(tagsToFields(m))
}

func (l *sLogger) derive(extra []any) *sLogger {
	fields := make([]any, 0, len(l.fields)+len(extra))
	fields = append(fields, l.fields...)
	fields = append(fields, extra...)
	return &sLogger{
		logger: l.logger,
		level:  l.level,
		fields: fields,
	}
}

// Inject inject data
func (l *sLogger) Inject(m map[string]any) {
	l.fields = append(l.fields, tagsToFields(m)...)
}

// newWithTags new logger with tags
func (l *sLogger) newWithTags(m map[string]any) Logger {
	return l.derive(tagsToFields(m))
}

func tagsToFields(m map[string]any) []any {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]any, len(keys))
	for i, key := range keys {
		switch v := m[key].(type) {
		case string:
			fields[i] = slog.String(key, v)
		case int:
			fields[i] = slog.Int(key, v)
		case int32:
			fields[i] = slog.Int(key, int(v))
		case int64:
			fields[i] = slog.Int64(key, v)
		case bool:
			fields[i] = slog.Bool(key, v)
		case float32:
			fields[i] = slog.Float64(key, float64(v))
		case float64:
			fields[i] = slog.Float64(key, v)
		default:
			fields[i] = slog.Any(key, v)
		}
	}
	return fields
}

func setLevel(lvl *slog.LevelVar, level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return err
	}
	lvl.Set(l)
	return nil
}
