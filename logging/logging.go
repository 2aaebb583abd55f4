// Package logging builds the slog.Logger used across the module. Output goes
// to stdout, a size-rotated file, or both.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls log level, format and destination.
type Config struct {
	Level      string `json:"level,omitempty" yaml:"level,omitempty"`   // debug, info, warn, error
	Format     string `json:"format,omitempty" yaml:"format,omitempty"` // text or json
	Output     string `json:"output,omitempty" yaml:"output,omitempty"` // stdout, file or both
	File       string `json:"file,omitempty" yaml:"file,omitempty"`
	MaxSizeMB  int    `json:"maxSizeMB,omitempty" yaml:"maxSizeMB,omitempty"`
	MaxBackups int    `json:"maxBackups,omitempty" yaml:"maxBackups,omitempty"`
	MaxAgeDays int    `json:"maxAgeDays,omitempty" yaml:"maxAgeDays,omitempty"`
	Compress   bool   `json:"compress,omitempty" yaml:"compress,omitempty"`
}

// DefaultConfig returns text logging at info level to stdout.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "text",
		Output:     "stdout",
		MaxSizeMB:  100,
		MaxBackups: 5,
		MaxAgeDays: 30,
	}
}

// New creates a logger from cfg. The returned closer releases the log file,
// if any.
func New(cfg Config) (*slog.Logger, io.Closer) {
	var writers []io.Writer
	var closer io.Closer = nopCloser{}
	output := strings.ToLower(cfg.Output)
	if cfg.File != "" && (output == "file" || output == "both" || output == "") {
		rotating := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		writers = append(writers, rotating)
		closer = rotating
	}
	if len(writers) == 0 || output == "both" {
		writers = append(writers, os.Stdout)
	}
	return NewWithWriter(io.MultiWriter(writers...), cfg.Level, cfg.Format), closer
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	options := &slog.HandlerOptions{Level: LevelFromString(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, options))
	}
	return slog.New(slog.NewTextHandler(w, options))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// LevelFromString maps a level name to slog.Level, defaulting to info.
func LevelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
