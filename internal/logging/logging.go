// Package logging is a small leveled wrapper around the standard log package.
//
// Output goes wherever the standard logger points; the server binary sends it
// to stderr because stdout carries the MCP protocol.
package logging

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"
)

// Log level constants
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

var levels = []string{LevelDebug, LevelInfo, LevelWarn, LevelError}

var currentLevel atomic.Int32

func init() {
	currentLevel.Store(int32(levelIndex(LevelInfo)))
}

// SetLevel sets the global logging level. Unknown names fall back to info.
func SetLevel(level string) {
	idx := levelIndex(strings.ToLower(strings.TrimSpace(level)))
	if idx < 0 {
		idx = levelIndex(LevelInfo)
	}
	currentLevel.Store(int32(idx))
}

// Level returns the name of the current logging level.
func Level() string {
	return levels[currentLevel.Load()]
}

// Enabled reports whether messages at level would be written.
func Enabled(level string) bool {
	idx := levelIndex(level)
	return idx >= 0 && idx >= int(currentLevel.Load())
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	logAt(LevelDebug, format, args...)
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	logAt(LevelInfo, format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	logAt(LevelWarn, format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	logAt(LevelError, format, args...)
}

func logAt(level, format string, args ...interface{}) {
	if !Enabled(level) {
		return
	}
	// depth 3: caller -> Debug/Info/... -> logAt -> Output
	_ = log.Output(3, "["+strings.ToUpper(level)+"] "+fmt.Sprintf(format, args...))
}

func levelIndex(level string) int {
	for i, l := range levels {
		if l == level {
			return i
		}
	}
	return -1
}
