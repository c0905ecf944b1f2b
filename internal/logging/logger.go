// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging provides a leveled logger with an optional file sink.
// Verbosity maps -v counts to levels: 0 warn, 1 info, 2+ debug.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Level is a log severity threshold.
type Level int

const (
	LevelWarn Level = iota
	LevelInfo
	LevelDebug
)

// FromVerbosity converts a -v flag count to a Level, clamping at debug.
func FromVerbosity(v int) Level {
	if v <= 0 {
		return LevelWarn
	}
	if v == 1 {
		return LevelInfo
	}
	return LevelDebug
}

// Logger writes timestamped, leveled lines to stderr and, when configured,
// to a log file. pdf-rename processes files sequentially, so Logger does
// no locking.
type Logger struct {
	level Level
	out   io.Writer
	file  *os.File
}

// New creates a Logger at the given level. When logFile is non-empty the
// file (and its parent directory) is created and every line is mirrored
// into it.
func New(level Level, logFile string) (*Logger, error) {
	l := &Logger{level: level, out: os.Stderr}
	if logFile != "" {
		if dir := filepath.Dir(logFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating log directory: %w", err)
			}
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		l.file = f
	}
	return l, nil
}

// Close releases the file sink, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// SetOutput redirects console output. Tests use this to capture lines.
func (l *Logger) SetOutput(w io.Writer) { l.out = w }

// Errorf always writes, regardless of level.
func (l *Logger) Errorf(format string, args ...any) {
	l.write("ERROR", format, args...)
}

// Warnf writes at warn level and above.
func (l *Logger) Warnf(format string, args ...any) {
	l.write("WARN", format, args...)
}

// Infof writes at info level and above.
func (l *Logger) Infof(format string, args ...any) {
	if l.level < LevelInfo {
		return
	}
	l.write("INFO", format, args...)
}

// Debugf writes at debug level only.
func (l *Logger) Debugf(format string, args ...any) {
	if l.level < LevelDebug {
		return
	}
	l.write("DEBUG", format, args...)
}

func (l *Logger) write(tag, format string, args ...any) {
	line := fmt.Sprintf("[%s] [%s] %s\n",
		time.Now().Format("2006-01-02 15:04:05"), tag, fmt.Sprintf(format, args...))
	if l.out != nil {
		io.WriteString(l.out, line)
	}
	if l.file != nil {
		io.WriteString(l.file, line)
	}
}
