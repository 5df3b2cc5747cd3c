package interfaces

import "context"

// Logger is the leveled, structured logger used across the reconciler. Its
// method set matches github.com/goliatone/go-logger so a glog logger can be
// adapted with a thin wrapper.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	// WithFields returns a child logger that adds fields to every entry.
	WithFields(fields map[string]any) Logger
	// WithContext returns a child logger bound to ctx. Run fields stored on
	// ctx by the logging package are added to every entry.
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out named loggers, one per reconciler module.
type LoggerProvider interface {
	GetLogger(name string) Logger
}
