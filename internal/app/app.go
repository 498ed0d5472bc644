package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/keydeck/internal/config"
	"github.com/vk/keydeck/internal/ctxlog"
	"github.com/vk/keydeck/internal/format"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	table  *format.Table
}

// NewApp is the constructor for the main application. Results go to outW and
// logs to logW. User card definitions are read through loader and merged
// over the built-in formats.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	table := format.Builtin()
	logger.Debug("Built-in card formats registered.", "count", table.Len())

	if len(cfg.FormatPaths) > 0 {
		model, err := loader.Load(ctx, cfg.FormatPaths...)
		if err != nil {
			return nil, fmt.Errorf("failed to load card definitions: %w", err)
		}
		entries, err := entriesFromModel(model)
		if err != nil {
			return nil, err
		}
		overridden, err := table.Merge(entries)
		if err != nil {
			return nil, fmt.Errorf("failed to register card definitions: %w", err)
		}
		for _, kw := range overridden {
			logger.Info("User definition replaces built-in card format.", "keyword", kw)
		}
		logger.Debug("User card definitions registered.", "count", len(entries), "total", table.Len())
	}

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		table:  table,
	}, nil
}

// Table returns the format table the app parses with. This is primarily for testing.
func (a *App) Table() *format.Table {
	return a.table
}
