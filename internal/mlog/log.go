// Package mlog defines the narrow logging interface used across the engine.
package mlog

// Logger is the minimal logging surface every service-layer package depends on.
// Concrete implementations adapt a backend (zap, or none for tests) to this shape.
type Logger interface {
	Info(args ...any)
	Infof(format string, args ...any)
	Infoln(args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Warnln(args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
	Errorln(args ...any)
	Debug(args ...any)
	Debugf(format string, args ...any)
	Debugln(args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)

	// WithFields returns a new logger carrying the given key/value pairs as
	// structured context. The receiver is left unchanged.
	WithFields(fields ...any) Logger

	Sync() error
}

// NoneLogger discards everything. Useful as a context default so callers never
// need a nil check.
type NoneLogger struct{}

func (l *NoneLogger) Info(args ...any)                 {}
func (l *NoneLogger) Infof(format string, args ...any) {}
func (l *NoneLogger) Infoln(args ...any)               {}
func (l *NoneLogger) Warn(args ...any)                 {}
func (l *NoneLogger) Warnf(format string, args ...any) {}
func (l *NoneLogger) Warnln(args ...any)               {}
func (l *NoneLogger) Error(args ...any)                {}
func (l *NoneLogger) Errorf(format string, args ...any) {}
func (l *NoneLogger) Errorln(args ...any)              {}
func (l *NoneLogger) Debug(args ...any)                {}
func (l *NoneLogger) Debugf(format string, args ...any) {}
func (l *NoneLogger) Debugln(args ...any)              {}
func (l *NoneLogger) Fatal(args ...any)                {}
func (l *NoneLogger) Fatalf(format string, args ...any) {}

//nolint:ireturn
func (l *NoneLogger) WithFields(fields ...any) Logger { return l }

func (l *NoneLogger) Sync() error { return nil }
