package common

import (
	"fmt"

	"github.com/andersfylling/disgord"
	"go.uber.org/zap"
)

// GlobalLogger wraps a zap logger with variadic helpers.
type GlobalLogger struct {
	instance *zap.Logger
}

var (
	// Logger represents a globally usable logger.
	// It discards everything until InitLogger is called.
	Logger = NewLogger(zap.NewNop())

	// DisGordLogger represents a clone of Logger tagged for Disgord.
	DisGordLogger disgord.Logger
)

// NewLogger wraps an existing zap logger.
func NewLogger(instance *zap.Logger) *GlobalLogger {
	return &GlobalLogger{instance: instance}
}

// InitLogger initializes the global logger.
func InitLogger(debug bool) error {
	conf := zap.NewProductionConfig()

	if debug {
		conf.Development = true
		conf.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	instance, err := conf.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	Logger = NewLogger(instance)
	DisGordLogger = Logger.With(zap.String("lib", "disgord"))

	return nil
}

// getMessage is a slightly modified version of DisGord's logging wrapper for zap.
func (l *GlobalLogger) getMessage(v ...interface{}) string {
	var message string
	for i := range v {
		var str string
		switch t := v[i].(type) {
		case string:
			str = t
		case error:
			str = t.Error()
		default:
			str = fmt.Sprint(v[i])
		}

		if message != "" {
			message += " " + str
		} else {
			message = str
		}
	}

	return message
}

// With returns a child logger carrying the given fields.
func (l *GlobalLogger) With(fields ...zap.Field) *GlobalLogger {
	return NewLogger(l.instance.With(fields...))
}

// Debug logs a message at DebugLevel.
func (l *GlobalLogger) Debug(v ...interface{}) {
	l.instance.Debug(l.getMessage(v...))
}

// Info logs a message at InfoLevel.
func (l *GlobalLogger) Info(v ...interface{}) {
	l.instance.Info(l.getMessage(v...))
}

// Warn logs a message at WarnLevel.
func (l *GlobalLogger) Warn(v ...interface{}) {
	l.instance.Warn(l.getMessage(v...))
}

// Error logs a message at ErrorLevel.
func (l *GlobalLogger) Error(v ...interface{}) {
	l.instance.Error(l.getMessage(v...))
}

// Fatal logs a message at FatalLevel, flushes any buffered log entries and calls os.Exit(1).
func (l *GlobalLogger) Fatal(v ...interface{}) {
	defer l.instance.Sync()
	l.instance.Fatal(l.getMessage(v...))
}

// Sync flushes any buffered log entries.
func (l *GlobalLogger) Sync() {
	_ = l.instance.Sync()
}
