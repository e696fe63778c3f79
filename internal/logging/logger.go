package logging

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
)

// Level is the minimum severity a Logger writes.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel converts a config value into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger provides synchronized, leveled logging.
type Logger struct {
	mu     *sync.Mutex
	l      *log.Logger
	level  Level
	prefix string
}

// New creates a logger writing to w.
func New(w io.Writer, level Level) *Logger {
	return &Logger{
		mu:    &sync.Mutex{},
		l:     log.New(w, "", log.Ldate|log.Ltime|log.Lmicroseconds),
		level: level,
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, LevelError+1)
}

// WithRun returns a logger that tags every line with a run id.
func (lg *Logger) WithRun(id string) *Logger {
	return &Logger{
		mu:     lg.mu,
		l:      lg.l,
		level:  lg.level,
		prefix: "[" + id + "] ",
	}
}

// Debugf writes a diagnostic message.
func (lg *Logger) Debugf(format string, args ...any) {
	lg.logf(LevelDebug, "DEBUG", format, args...)
}

// Infof writes an informational message.
func (lg *Logger) Infof(format string, args ...any) {
	lg.logf(LevelInfo, "INFO ", format, args...)
}

// Warnf writes a warning message.
func (lg *Logger) Warnf(format string, args ...any) {
	lg.logf(LevelWarn, "WARN ", format, args...)
}

// Errorf writes an error message.
func (lg *Logger) Errorf(format string, args ...any) {
	lg.logf(LevelError, "ERROR", format, args...)
}

func (lg *Logger) logf(level Level, token, format string, args ...any) {
	if level < lg.level {
		return
	}
	lg.mu.Lock()
	defer lg.mu.Unlock()
	lg.l.Printf("%s %s%s", token, lg.prefix, fmt.Sprintf(format, args...))
}
