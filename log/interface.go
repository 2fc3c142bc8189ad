package log

// Logger is a logger that with action or map labels
type Logger interface {
	// Action logger with action key filed
	Action(action string) StdLogger
	// With any map data, the value of key must be string, int ... basic value
	With(map[string]any) StdLogger
	// Inject tags to current logger, for all loggers derived afterwards.
	Inject(map[string]any)
}

// StdLogger the leveled logger, msgOrFormat is a format when args are given.
type StdLogger interface {
	Debug(msgOrFormat string, args ...any)
	Info(msgOrFormat string, args ...any)
	Warn(msgOrFormat string, args ...any)
	Error(msgOrFormat string, args ...any)
	Fatal(msgOrFormat string, args ...any)
}
