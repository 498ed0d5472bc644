package app

import (
	"errors"
	"fmt"

	"github.com/vk/keydeck/internal/export"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	DeckPath    string   // keyfile, "-" for stdin
	FormatPaths []string // hcl files or directories with user card definitions

	LogFormat string
	LogLevel  string

	CommentMarker string
	KeywordMarker string

	// Actions. With none selected the app prints a summary.
	Keyword string
	Where   []string
	Export  string
	OutPath string
	Summary bool
	Shell   bool

	// HistoryPath is where the shell keeps its line history. Empty disables
	// history.
	HistoryPath string
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.DeckPath == "" {
		return nil, errors.New("DeckPath is a required configuration field and cannot be empty")
	}
	if len(cfg.Where) > 0 && cfg.Keyword == "" {
		return nil, errors.New("-where needs -keyword")
	}
	if cfg.Export != "" {
		f, err := export.ParseFormat(cfg.Export)
		if err != nil {
			return nil, err
		}
		cfg.Export = string(f)
	}
	if cfg.OutPath != "" && cfg.Export == "" {
		return nil, errors.New("-out needs -export")
	}
	if cfg.CommentMarker == "" || cfg.KeywordMarker == "" {
		return nil, errors.New("comment and keyword markers must not be empty")
	}
	if cfg.CommentMarker == cfg.KeywordMarker {
		return nil, fmt.Errorf("comment and keyword markers must differ, both are %q", cfg.CommentMarker)
	}
	if cfg.Shell && cfg.DeckPath == "-" {
		return nil, errors.New("-shell cannot read the deck from stdin")
	}
	return &cfg, nil
}

// hasAction reports whether any explicit action was requested.
func (c *Config) hasAction() bool {
	return c.Keyword != "" || c.Export != "" || c.Shell
}
