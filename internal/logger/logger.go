// Package logger provides structured logging for looseleaf.
//
// The TUI owns stdout, so all logging goes to a rotated JSON file under
// ~/.config/looseleaf by default.
package logger

import (
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the logging verbosity.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	// Log is the global logger instance.
	Log *slog.Logger

	// LogPath is the resolved path of the log file.
	LogPath string

	logWriter    *lumberjack.Logger
	debugEnabled bool
)

// InitLogger initializes the global logger with the specified level and
// optional path. If logPath is empty, defaults to
// ~/.config/looseleaf/looseleaf.log.
func InitLogger(level LogLevel, logPath string) {
	debugEnabled = level == LevelDebug

	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelInfo:
		slogLevel = slog.LevelInfo
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	if logPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.TempDir()
		}
		logDir := filepath.Join(homeDir, ".config", "looseleaf")
		_ = os.MkdirAll(logDir, 0755)
		logPath = filepath.Join(logDir, "looseleaf.log")
	}

	LogPath = logPath

	logWriter = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   true,
	}

	handler := slog.NewJSONHandler(logWriter, &slog.HandlerOptions{
		Level: slogLevel,
	})

	Log = slog.New(handler)
	slog.SetDefault(Log)
}

// Close closes the log file.
func Close() {
	if logWriter != nil {
		logWriter.Close()
	}
}

// getLogger returns the global logger, initializing with defaults if needed.
func getLogger() *slog.Logger {
	if Log == nil {
		InitLogger(LevelInfo, "")
	}
	return Log
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	getLogger().Debug(msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	getLogger().Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	getLogger().Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	getLogger().Error(msg, args...)
}

// With returns a logger with the given attributes.
func With(args ...any) *slog.Logger {
	return getLogger().With(args...)
}

// IsDebugEnabled returns whether debug logging is enabled.
func IsDebugEnabled() bool {
	return debugEnabled
}
