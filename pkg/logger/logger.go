package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger printf-style logger used across the service.
// Writes to stdout and, if a file path is configured, to that file as well.
type Logger struct {
	entry *logrus.Logger
	file  *os.File
}

type appNameHook struct {
	appName string
}

// Levels implements logrus.Hook.
func (h *appNameHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (h *appNameHook) Fire(entry *logrus.Entry) error {
	entry.Message = "[" + h.appName + "] " + entry.Message
	return nil
}

// New creates a logger writing to stdout and the optional file.
// Unknown levels fall back to info.
func New(filePath string, level string) (*Logger, error) {
	return NewWithAppName("garden-booking", filePath, level)
}

// NewWithAppName same as New, with a custom message prefix.
func NewWithAppName(appName, filePath, level string) (*Logger, error) {
	l := logrus.New()

	var out io.Writer = os.Stdout
	var file *os.File
	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", filePath, err)
		}
		file = f
		out = io.MultiWriter(os.Stdout, f)
	}
	l.SetOutput(out)

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if appName != "" {
		l.AddHook(&appNameHook{appName: appName})
	}

	return &Logger{entry: l, file: file}, nil
}

// NewNop returns a logger that discards everything. Handy in tests.
func NewNop() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Logger{entry: l}
}

func (l *Logger) Debug(format string, v ...interface{}) { l.entry.Debugf(format, v...) }
func (l *Logger) Info(format string, v ...interface{}) { l.entry.Infof(format, v...) }
func (l *Logger) Warn(format string, v ...interface{}) { l.entry.Warnf(format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.entry.Errorf(format, v...) }
func (l *Logger) Fatal(format string, v ...interface{}) { l.entry.Fatalf(format, v...) }

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
