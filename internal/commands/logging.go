package commands

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/balkashynov/goalie/internal/config"
)

// newLogger builds the process logger and installs it as the slog default
func newLogger(cfg config.Log, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log, nil
}
