package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultLogPath is the default location for the log file
	DefaultLogPath = "/var/log/sitehost.log"
	// MaxLogSize is the maximum size in megabytes of a log file before rotation
	MaxLogSize = 5
	// MaxLogAge is the maximum age in days of log files to keep
	MaxLogAge = 7
	// MaxLogBackups is the maximum number of old log files to keep
	MaxLogBackups = 7
)

// Logger handles application logging with rotation
type Logger struct {
	log  *logrus.Logger
	file *lumberjack.Logger
}

// NewLogger creates a logger writing to stdout and a rotated file at path
func NewLogger(path string) (*Logger, error) {
	// Create log directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// lumberjack opens the file lazily, fail early on permission problems
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	f.Close()

	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    MaxLogSize,
		MaxBackups: MaxLogBackups,
		MaxAge:     MaxLogAge,
	}

	l := NewConsoleLogger(io.MultiWriter(file, os.Stdout))
	l.file = file
	return l, nil
}

// NewConsoleLogger creates a logger writing only to w
func NewConsoleLogger(w io.Writer) *Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &Logger{log: log}
}

// SetVerbose enables debug output
func (l *Logger) SetVerbose(verbose bool) {
	if verbose {
		l.log.SetLevel(logrus.DebugLevel)
	} else {
		l.log.SetLevel(logrus.InfoLevel)
	}
}

// Close closes the log file
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log.Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log.Errorf(format, args...)
}
