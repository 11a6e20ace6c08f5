package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Level represents the logging level
type Level int

const (
	// DebugLevel logs everything
	DebugLevel Level = iota
	// InfoLevel logs info, warnings, and errors
	InfoLevel
	// WarnLevel logs warnings and errors
	WarnLevel
	// ErrorLevel logs only errors
	ErrorLevel
	// FatalLevel logs fatal errors and exits
	FatalLevel
)

var (
	defaultLogger *Logger
	once          sync.Once
)

// Logger is a leveled logger. Loggers derived with WithPrefix share the
// parent's level and output.
type Logger struct {
	core   *core
	prefix string
}

// core is the state shared between a logger and its derived loggers
type core struct {
	mu      sync.RWMutex
	level   Level
	colored bool
	logger  *log.Logger
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[37m"
)

// New creates a new logger instance
func New(output io.Writer, prefix string, level Level) *Logger {
	return &Logger{
		core: &core{
			level:   level,
			colored: isTerminal(output),
			logger:  log.New(output, "", log.LstdFlags),
		},
		prefix: prefix,
	}
}

// Default returns the process-wide logger writing to stderr
func Default() *Logger {
	once.Do(func() {
		defaultLogger = New(os.Stderr, "", InfoLevel)
	})
	return defaultLogger
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return New(io.Discard, "", FatalLevel+1)
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level Level) {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	l.core.level = level
}

// Level returns the current logging level
func (l *Logger) Level() Level {
	l.core.mu.RLock()
	defer l.core.mu.RUnlock()
	return l.core.level
}

// SetOutput sets the output writer
func (l *Logger) SetOutput(output io.Writer) {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	l.core.colored = isTerminal(output)
	l.core.logger.SetOutput(output)
}

// WithPrefix returns a logger that tags messages with prefix. Prefixes nest:
// "analyzer" then "job-1" yields "[analyzer/job-1]".
func (l *Logger) WithPrefix(prefix string) *Logger {
	if l.prefix != "" {
		prefix = l.prefix + "/" + prefix
	}
	return &Logger{core: l.core, prefix: prefix}
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.core.mu.RLock()
	defer l.core.mu.RUnlock()

	if level < l.core.level {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		msg = fmt.Sprintf("[%s] %s", l.prefix, msg)
	}

	if l.core.level == DebugLevel {
		if _, file, line, ok := runtime.Caller(2); ok {
			msg = fmt.Sprintf("%s:%d %s", filepath.Base(file), line, msg)
		}
	}

	tag := "[" + level.String() + "] "
	if l.core.colored {
		tag = levelColor(level) + tag + colorReset
	}

	l.core.logger.Println(tag + msg)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DebugLevel, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(InfoLevel, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WarnLevel, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ErrorLevel, format, args...)
}

// Fatal logs a fatal error message and exits
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.log(FatalLevel, format, args...)
	os.Exit(1)
}

// Package-level convenience functions using the default logger

// Debug logs a debug message using the default logger
func Debug(format string, args ...interface{}) {
	Default().Debug(format, args...)
}

// Info logs an info message using the default logger
func Info(format string, args ...interface{}) {
	Default().Info(format, args...)
}

// Warn logs a warning message using the default logger
func Warn(format string, args ...interface{}) {
	Default().Warn(format, args...)
}

// Error logs an error message using the default logger
func Error(format string, args ...interface{}) {
	Default().Error(format, args...)
}

// SetLevel sets the logging level for the default logger
func SetLevel(level Level) {
	Default().SetLevel(level)
}

// isTerminal reports whether w is a terminal that should receive colors.
// NO_COLOR (https://no-color.org) always wins.
func isTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func levelColor(level Level) string {
	switch level {
	case DebugLevel:
		return colorGray
	case InfoLevel:
		return colorBlue
	case WarnLevel:
		return colorYellow
	default:
		return colorRed
	}
}

// String returns the upper-case level name
func (l Level) String() string {
	switch l {
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
		return "UNKNOWN"
	}
}

// ParseLevel parses a string into a log level
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DebugLevel, nil
	case "INFO":
		return InfoLevel, nil
	case "WARN", "WARNING":
		return WarnLevel, nil
	case "ERROR":
		return ErrorLevel, nil
	case "FATAL":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level: %s", s)
	}
}
