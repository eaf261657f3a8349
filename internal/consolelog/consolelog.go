// Package consolelog provides the daemon's own operational logging —
// startup, shutdown, and error conditions. It is distinct from the
// fixed-format DLT console mirror line, which the forwarder writes
// directly since its layout is part of the wire-adjacent contract
// under test, not an operational log line.
package consolelog

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Level is the severity of a logged line.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger wraps stdlib log with level filtering.
type Logger struct {
	logger *log.Logger
	level  Level
	mu     sync.Mutex
}

var (
	defaultLogger *Logger
	defaultMu     sync.RWMutex
)

// Config holds logger construction options.
type Config struct {
	Level  Level
	Output io.Writer
}

// DefaultConfig returns the daemon's standard logging configuration.
func DefaultConfig() *Config {
	return &Config{Level: LevelInfo, Output: os.Stderr}
}

// New creates a Logger from config, filling in defaults for a nil config
// or a nil Output.
func New(config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	output := config.Output
	if output == nil {
		output = os.Stderr
	}
	return &Logger{
		logger: log.New(output, "", log.LstdFlags),
		level:  config.Level,
	}
}

// Default returns the process-wide default logger, creating it on
// first use.
func Default() *Logger {
	defaultMu.RLock()
	if defaultLogger != nil {
		defer defaultMu.RUnlock()
		return defaultLogger
	}
	defaultMu.RUnlock()

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New(nil)
	}
	return defaultLogger
}

// SetDefault replaces the process-wide default logger.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

func (l *Logger) log(level Level, prefix, msg string) {
	if level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Printf("%s %s", prefix, msg)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.log(LevelDebug, "[DEBUG]", fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...any) {
	l.log(LevelInfo, "[INFO]", fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...any) {
	l.log(LevelWarn, "[WARN]", fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.log(LevelError, "[ERROR]", fmt.Sprintf(format, args...))
}

func Debugf(format string, args ...any) { Default().Debugf(format, args...) }
func Infof(format string, args ...any)  { Default().Infof(format, args...) }
func Warnf(format string, args ...any)  { Default().Warnf(format, args...) }
func Errorf(format string, args ...any) { Default().Errorf(format, args...) }
