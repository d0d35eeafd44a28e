package logging

import (
	"io"
	"log"
)

const (
	// TraceLevel indicates a log message's level of criticality
	TraceLevel = iota
	// DebugLevel indicates a log message's level of criticality
	DebugLevel
	// InfoLevel indicates a log message's level of criticality
	InfoLevel
	// WarnLevel indicates a log message's level of criticality
	WarnLevel
	// ErrorLevel indicates a log message's level of criticality
	ErrorLevel
	// FatalLevel indicates a log message's level of criticality
	FatalLevel
)

// LogLevelToString translates a log level enum to a string representation
func LogLevelToString(level int) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "TRACE"
	}
}

// A Logger filters messages below a configured level before handing them to a
// standard library logger. The zero value is unusable; use CreateLogger.
type Logger struct {
	level int
	out   *log.Logger
}

// CreateLogger creates a Logger writing messages at or above the given level to w
func CreateLogger(w io.Writer, level int) *Logger {
	return &Logger{
		level: level,
		out:   log.New(w, "", log.LstdFlags),
	}
}

// DiscardLogger creates a Logger which drops all messages
func DiscardLogger() *Logger {
	return CreateLogger(io.Discard, FatalLevel+1)
}

// Logf logs a message at an arbitrary level
func (l *Logger) Logf(level int, format string, v ...interface{}) {
	if l == nil || level < l.level {
		return
	}
	l.out.Printf("level ["+LogLevelToString(level)+"]: "+format, v...)
}

// Tracef logs a message at TraceLevel
func (l *Logger) Tracef(format string, v ...interface{}) {
	l.Logf(TraceLevel, format, v...)
}

// Debugf logs a message at DebugLevel
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.Logf(DebugLevel, format, v...)
}

// Infof logs a message at InfoLevel
func (l *Logger) Infof(format string, v ...interface{}) {
	l.Logf(InfoLevel, format, v...)
}

// Warnf logs a message at WarnLevel
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.Logf(WarnLevel, format, v...)
}

// Errorf logs a message at ErrorLevel
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.Logf(ErrorLevel, format, v...)
}
