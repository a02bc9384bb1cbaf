// Package logger provides leveled logging for salesdash with debug, info, warn, and error levels.
// Output goes to stderr, either as bracketed text lines or as one JSON object per line.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents a logging level
type Level int

const (
	// DebugLevel logs pipeline details such as discarded stale results.
	DebugLevel Level = iota
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel logs sink failures that leave the view intact.
	WarnLevel
	// ErrorLevel logs failed fetches and other absorbed failures.
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	default:
		return "ERROR"
	}
}

// ParseLevel maps a config string to a Level, falling back to InfoLevel.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger provides leveled logging
type Logger struct {
	level Level
	json  bool
	out   io.Writer
	text  *log.Logger
	mu    sync.Mutex
	nowFn func() time.Time
}

var defaultLogger *Logger

// New builds a Logger writing to w.
func New(w io.Writer, level string, format string) *Logger {
	l := &Logger{
		level: ParseLevel(level),
		json:  strings.ToLower(format) == "json",
		out:   w,
		nowFn: time.Now,
	}
	l.text = log.New(w, "", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return l
}

// Init initializes the default logger with the specified level and format
func Init(level string, format string) {
	defaultLogger = New(os.Stderr, level, format)
}

// SetDefault replaces the package logger; nil disables logging.
func SetDefault(l *Logger) {
	defaultLogger = l
}

type jsonLine struct {
	Time  string `json:"time"`
	Level string `json:"level"`
	Msg   string `json:"msg"`
}

func (l *Logger) output(depth int, lvl Level, format string, args ...interface{}) {
	if l == nil || lvl < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if !l.json {
		_ = l.text.Output(depth+1, "["+lvl.String()+"] "+msg)
		return
	}

	line, err := json.Marshal(jsonLine{
		Time:  l.nowFn().UTC().Format(time.RFC3339Nano),
		Level: strings.ToLower(lvl.String()),
		Msg:   msg,
	})
	if err != nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(append(line, '\n'))
}

// Debug logs a message at DebugLevel
func Debug(format string, args ...interface{}) {
	defaultLogger.output(2, DebugLevel, format, args...)
}

// Info logs a message at InfoLevel
func Info(format string, args ...interface{}) {
	defaultLogger.output(2, InfoLevel, format, args...)
}

// Warn logs a message at WarnLevel
func Warn(format string, args ...interface{}) {
	defaultLogger.output(2, WarnLevel, format, args...)
}

// Error logs a message at ErrorLevel
func Error(format string, args ...interface{}) {
	defaultLogger.output(2, ErrorLevel, format, args...)
}

// Fatal logs a message at ErrorLevel and exits
func Fatal(format string, args ...interface{}) {
	if defaultLogger == nil {
		log.Fatalf("[FATAL] "+format, args...)
	}
	defaultLogger.output(2, ErrorLevel, "[FATAL] "+format, args...)
	os.Exit(1)
}
