// Package logging builds the slog logger used across lazykit.
//
// The TUI owns stdout, so logs go to a rotating file. Text output is
// rendered by charmbracelet/log, JSON output by slog's JSON handler.
package logging

import (
	"io"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/rebeliceyang/lazykit/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New creates a logger from cfg. When cfg.File is empty logs go to
// fallback (io.Discard when fallback is nil). The returned closer must
// be closed on shutdown.
func New(cfg config.LogConfig, fallback io.Writer) (*slog.Logger, io.Closer) {
	var w io.Writer = fallback
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		w, closer = rotator, rotator
	}
	if w == nil {
		w = io.Discard
	}

	return slog.New(NewHandler(w, cfg.Format, ParseLevel(cfg.Level))), closer
}

// NewHandler returns a handler writing format to w at level
func NewHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	if strings.EqualFold(format, FormatJSON) {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}

	l := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
		Level:           charmlog.Level(level),
	})
	return l
}

// ParseLevel converts a level name to slog.Level, INFO when unknown
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
