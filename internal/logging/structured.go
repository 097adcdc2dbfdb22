// Package logging provides structured JSON logging for urp-models components.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var (
	std   = newBase(os.Stderr)
	stdMu sync.Mutex
)

func newBase(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "ts",
			logrus.FieldKeyMsg:  "event",
		},
	})
	return l
}

// SetOutput redirects all loggers. Returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	stdMu.Lock()
	defer stdMu.Unlock()
	prev := std.Out
	std.SetOutput(w)
	return prev
}

// SetLevel sets the minimum level emitted.
func SetLevel(level Level) {
	lvl, err := logrus.ParseLevel(string(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	std.SetLevel(lvl)
}

// OpenFile redirects log output to path, creating parent directories.
// The returned closer restores the previous output.
func OpenFile(path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	prev := SetOutput(f)
	return &fileSink{f: f, prev: prev}, nil
}

type fileSink struct {
	f    *os.File
	prev io.Writer
}

func (s *fileSink) Close() error {
	SetOutput(s.prev)
	return s.f.Close()
}

// Logger provides structured logging
type Logger struct {
	component string
	run       string
}

// New creates a new logger for a component
func New(component string) *Logger {
	return &Logger{component: component}
}

// WithRun sets the run context
func (l *Logger) WithRun(run string) *Logger {
	return &Logger{
		component: l.component,
		run:       run,
	}
}

func (l *Logger) entry(extra map[string]interface{}, err error) *logrus.Entry {
	fields := logrus.Fields{"component": l.component}
	if l.run != "" {
		fields["run"] = l.run
	}
	if len(extra) > 0 {
		fields["extra"] = extra
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	return std.WithFields(fields)
}

// Debug logs a debug event
func (l *Logger) Debug(event string, extra map[string]interface{}) {
	l.entry(extra, nil).Debug(event)
}

// Info logs an info event
func (l *Logger) Info(event string, extra map[string]interface{}) {
	l.entry(extra, nil).Info(event)
}

// Warn logs a warning event
func (l *Logger) Warn(event string, extra map[string]interface{}, err error) {
	l.entry(extra, err).Warn(event)
}

// Error logs an error event
func (l *Logger) Error(event string, extra map[string]interface{}, err error) {
	l.entry(extra, err).Error(event)
}

// TimedEvent logs an event with duration
func (l *Logger) TimedEvent(event string, start time.Time, extra map[string]interface{}) {
	l.entry(extra, nil).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Info(event)
}
