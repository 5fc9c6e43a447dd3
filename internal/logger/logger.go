// Package logger wraps logrus with a compact console format.
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Logger is the structured logger used across the application.
type Logger interface {
	Debug(message string, fields ...Field)
	Info(message string, fields ...Field)
	Warn(message string, fields ...Field)
	Error(message string, fields ...Field)
	WithComponent(name string) Logger
}

// Field is a single structured logging field.
type Field struct {
	Key   string
	Value interface{}
}

// WithField creates a new field.
func WithField(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Formatter renders entries as "time LEVEL [component] message {k=v, ...}".
type Formatter struct {
	TimestampFormat string
	DisableColors   bool
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var levelColor *color.Color
	switch entry.Level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		levelColor = color.New(color.FgRed, color.Bold)
	case logrus.WarnLevel:
		levelColor = color.New(color.FgYellow, color.Bold)
	case logrus.InfoLevel:
		levelColor = color.New(color.FgCyan)
	default:
		levelColor = color.New(color.FgWhite, color.Faint)
	}
	level := strings.ToUpper(entry.Level.String())
	if entry.Level == logrus.WarnLevel {
		level = "WARN"
	}
	if !f.DisableColors {
		level = levelColor.Sprint(level)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s ", entry.Time.Format(f.TimestampFormat), level)

	if comp, ok := entry.Data["component"]; ok {
		fmt.Fprintf(&b, "[%v] ", comp)
	}
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k != "component" {
			keys = append(keys, k)
		}
	}
	if len(keys) > 0 {
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = fmt.Sprintf("%s=%v", k, entry.Data[k])
		}
		fields := " {" + strings.Join(pairs, ", ") + "}"
		if !f.DisableColors {
			fields = color.New(color.FgWhite, color.Faint).Sprint(fields)
		}
		b.WriteString(fields)
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}

type logrusLogger struct {
	logger    *logrus.Logger
	component string
}

// New creates a logger writing to out. Unknown levels fall back to info.
// Colors are only used when out is a terminal.
func New(level string, out io.Writer) Logger {
	log := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	disableColors := true
	if f, ok := out.(*os.File); ok {
		disableColors = !isTerminal(f)
	}
	log.SetFormatter(&Formatter{
		TimestampFormat: "15:04:05",
		DisableColors:   disableColors,
	})
	log.SetOutput(out)

	return &logrusLogger{logger: log}
}

// NewFile creates a logger appending to the file at path.
// The returned closer releases the file.
func NewFile(path, level string) (Logger, io.Closer, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return New(level, file), file, nil
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	return New("panic", io.Discard)
}

func isTerminal(f *os.File) bool {
	return !color.NoColor && (f == os.Stdout || f == os.Stderr)
}

// WithComponent returns a logger tagging every entry with the component name.
func (l *logrusLogger) WithComponent(name string) Logger {
	return &logrusLogger{logger: l.logger, component: name}
}

func (l *logrusLogger) entry(fields []Field) *logrus.Entry {
	data := make(logrus.Fields, len(fields)+1)
	if l.component != "" {
		data["component"] = l.component
	}
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return l.logger.WithFields(data)
}

// Debug logs a debug message.
func (l *logrusLogger) Debug(message string, fields ...Field) {
	l.entry(fields).Debug(message)
}

// Info logs an info message.
func (l *logrusLogger) Info(message string, fields ...Field) {
	l.entry(fields).Info(message)
}

// Warn logs a warning.
func (l *logrusLogger) Warn(message string, fields ...Field) {
	l.entry(fields).Warn(message)
}

// Error logs an error.
func (l *logrusLogger) Error(message string, fields ...Field) {
	l.entry(fields).Error(message)
}
