package observability

import (
	"log"
	"strings"
)

// Logger is the structured-logging contract the engine depends on,
// matching the shape used across the rest of this codebase: leveled calls
// taking a message plus key/value pairs, and Bind to attach fields that
// should appear on every subsequent call from the returned Logger.
type Logger interface {
	Info(msg string, fields ...any)
	Debug(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)
	Bind(fields ...any) Logger
}

// logLevel orders the severities a StdLogger can be floored at.
type logLevel int

const (
	levelDebug logLevel = iota
	levelInfo
	levelWarn
	levelError
)

// parseLogLevel maps a config.AnalysisConfig.LogLevel string to a logLevel,
// defaulting to INFO for an unrecognized value.
func parseLogLevel(s string) logLevel {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return levelDebug
	case "WARN", "WARNING":
		return levelWarn
	case "ERROR":
		return levelError
	default:
		return levelInfo
	}
}

// StdLogger implements Logger using the standard library log package,
// dropping any call below its configured minimum level.
type StdLogger struct {
	fields []any
	min    logLevel
}

// NewStdLogger returns a Logger backed by log.Printf at the default (INFO)
// level.
func NewStdLogger() *StdLogger { return &StdLogger{min: levelInfo} }

// NewStdLoggerAtLevel returns a Logger backed by log.Printf, floored at the
// given level name ("DEBUG", "INFO", "WARN", "ERROR"; unrecognized values
// fall back to INFO).
func NewStdLoggerAtLevel(level string) *StdLogger { return &StdLogger{min: parseLogLevel(level)} }

func (l *StdLogger) Debug(msg string, fields ...any) { l.log(levelDebug, "DEBUG", msg, fields) }
func (l *StdLogger) Info(msg string, fields ...any)  { l.log(levelInfo, "INFO", msg, fields) }
func (l *StdLogger) Warn(msg string, fields ...any)  { l.log(levelWarn, "WARN", msg, fields) }
func (l *StdLogger) Error(msg string, fields ...any) { l.log(levelError, "ERROR", msg, fields) }

func (l *StdLogger) log(lvl logLevel, tag, msg string, fields []any) {
	if lvl < l.min {
		return
	}
	log.Printf("[%s] %s %v", tag, msg, l.allFields(fields))
}

// Bind returns a Logger that always logs fields in addition to whatever is
// passed at the call site.
func (l *StdLogger) Bind(fields ...any) Logger {
	return &StdLogger{fields: append(append([]any{}, l.fields...), fields...), min: l.min}
}

func (l *StdLogger) allFields(fields []any) []any {
	return append(append([]any{}, l.fields...), fields...)
}
