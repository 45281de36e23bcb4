// Package logging provides leveled log helpers over the standard library's
// log package, matching the teacher's own convention across cmd/tqserver
// and server/: a level word as a literal prefix on log.Printf, rather than
// a structured-logging library. No example repo in the corpus reaches for
// a structured logger (zap, zerolog, logrus); carrying stdlib log forward
// here keeps that one ambient concern consistent with the rest of the
// pack instead of introducing a dependency nothing else in the corpus
// uses.
package logging

import (
	"log"
	"os"
)

// Level is a logging verbosity threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelSilent suppresses everything.
	LevelSilent
)

// ParseLevel maps a config string ("debug", "info", "warn", "error",
// "silent") to a Level, defaulting to LevelInfo for anything unrecognized.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	case "silent":
		return LevelSilent
	default:
		return LevelInfo
	}
}

// Logger wraps a *log.Logger with a minimum level below which messages are
// dropped.
type Logger struct {
	min    Level
	logger *log.Logger
}

// New builds a Logger writing to os.Stderr with the standard date/time
// prefix, at the given minimum level.
func New(min Level) *Logger {
	return &Logger{min: min, logger: log.New(os.Stderr, "", log.LstdFlags)}
}

func (l *Logger) logf(level Level, prefix, format string, args ...any) {
	if level < l.min {
		return
	}
	l.logger.Printf(prefix+" "+format, args...)
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, "DEBUG", format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, "INFO ", format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarn, "WARN ", format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, "ERROR", format, args...) }
