package mlog

import "go.uber.org/zap"

// ZapLogger adapts a *zap.SugaredLogger to the Logger interface.
type ZapLogger struct {
	Sugar *zap.SugaredLogger
}

// NewZapLogger builds a ZapLogger using zap's production or development preset
// depending on envName.
func NewZapLogger(envName string) (*ZapLogger, error) {
	var cfg zap.Config
	if envName == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	cfg.DisableStacktrace = true

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	return &ZapLogger{Sugar: logger.Sugar()}, nil
}

func (l *ZapLogger) Info(args ...any)                  { l.Sugar.Info(args...) }
func (l *ZapLogger) Infof(format string, args ...any)  { l.Sugar.Infof(format, args...) }
func (l *ZapLogger) Infoln(args ...any)                { l.Sugar.Infoln(args...) }
func (l *ZapLogger) Warn(args ...any)                  { l.Sugar.Warn(args...) }
func (l *ZapLogger) Warnf(format string, args ...any)  { l.Sugar.Warnf(format, args...) }
func (l *ZapLogger) Warnln(args ...any)                { l.Sugar.Warnln(args...) }
func (l *ZapLogger) Error(args ...any)                 { l.Sugar.Error(args...) }
func (l *ZapLogger) Errorf(format string, args ...any) { l.Sugar.Errorf(format, args...) }
func (l *ZapLogger) Errorln(args ...any)               { l.Sugar.Errorln(args...) }
func (l *ZapLogger) Debug(args ...any)                 { l.Sugar.Debug(args...) }
func (l *ZapLogger) Debugf(format string, args ...any) { l.Sugar.Debugf(format, args...) }
func (l *ZapLogger) Debugln(args ...any)               { l.Sugar.Debugln(args...) }
func (l *ZapLogger) Fatal(args ...any)                 { l.Sugar.Fatal(args...) }
func (l *ZapLogger) Fatalf(format string, args ...any) { l.Sugar.Fatalf(format, args...) }

//nolint:ireturn
func (l *ZapLogger) WithFields(fields ...any) Logger {
	return &ZapLogger{Sugar: l.Sugar.With(fields...)}
}

func (l *ZapLogger) Sync() error { return l.Sugar.Sync() }
