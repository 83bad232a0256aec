// Package logx is the module's structured logger: component-tagged slog
// records, a process-wide level, and an optional rotating file sink.
package logx

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Component identifies a subsystem for log filtering.
type Component string

const (
	ComponentHAL      Component = "hal"
	ComponentNotifier Component = "notifier"
	ComponentSim      Component = "sim"
	ComponentDS       Component = "ds"
)

// Format specifies the output encoding.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// ParseFormat accepts "text" or "json"; anything else is text.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, "json") {
		return FormatJSON
	}
	return FormatText
}

// ParseLevel accepts debug/info/warn/error (case-insensitive). Unknown
// strings map to info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// FileConfig configures the rotating file sink.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

var (
	logger *slog.Logger
	level  = new(slog.LevelVar)
	mu     sync.RWMutex
	file   io.Closer
)

func init() {
	level.Set(slog.LevelWarn)
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// SetLevel sets the minimum level for all module logging.
func SetLevel(l slog.Level) { level.Set(l) }

// Level returns the current minimum level.
func Level() slog.Level { return level.Level() }

// SetLogger replaces the process logger.
func SetLogger(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// Logger returns the process logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// New builds a logger writing to w in the given format, honouring the
// process-wide level.
func New(w io.Writer, f Format) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if f == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Configure installs a logger writing to stderr, and additionally to a
// rotating file when fc.Path is set. The previous file sink, if any, is
// closed.
func Configure(f Format, fc FileConfig) {
	var w io.Writer = os.Stderr
	var c io.Closer
	if fc.Path != "" {
		lj := &lumberjack.Logger{
			Filename:   fc.Path,
			MaxSize:    fc.MaxSizeMB,
			MaxBackups: fc.MaxBackups,
			MaxAge:     fc.MaxAgeDays,
			Compress:   fc.Compress,
		}
		w = io.MultiWriter(os.Stderr, lj)
		c = lj
	}
	mu.Lock()
	old := file
	logger = New(w, f)
	file = c
	mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
}

// Close releases the file sink, if any.
func Close() error {
	mu.Lock()
	c := file
	file = nil
	mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Close()
}

func with(c Component, args []any) []any {
	return append([]any{"component", string(c)}, args...)
}

func Debug(c Component, msg string, args ...any) { Logger().Debug(msg, with(c, args)...) }
func Info(c Component, msg string, args ...any)  { Logger().Info(msg, with(c, args)...) }
func Warn(c Component, msg string, args ...any)  { Logger().Warn(msg, with(c, args)...) }
func Error(c Component, msg string, args ...any) { Logger().Error(msg, with(c, args)...) }
