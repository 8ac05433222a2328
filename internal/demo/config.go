package demo

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/snapback/history"
)

// Config is the demo configuration.
type Config struct {
	History HistoryConfig `toml:"history"`
}

// HistoryConfig maps the [history] table onto engine options. Zero
// values fall back to the engine defaults.
type HistoryConfig struct {
	UndoCapacity    int `toml:"undo_capacity"`
	RedoCapacity    int `toml:"redo_capacity"`
	ScratchCapacity int `toml:"scratch_capacity"`
	PendingCapacity int `toml:"pending_capacity"`
	Limit           int `toml:"limit"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{}
}

// LoadConfig reads configuration from path. An empty path or a missing
// file yields the defaults without error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ParseError{Path: path, Message: err.Error(), Err: err}
	}

	return cfg, nil
}

// Options converts the configured capacities into engine options.
func (c HistoryConfig) Options() []history.Option {
	var opts []history.Option
	if c.UndoCapacity > 0 {
		opts = append(opts, history.WithUndoCapacity(c.UndoCapacity))
	}
	if c.RedoCapacity > 0 {
		opts = append(opts, history.WithRedoCapacity(c.RedoCapacity))
	}
	if c.ScratchCapacity > 0 {
		opts = append(opts, history.WithScratchCapacity(c.ScratchCapacity))
	}
	if c.PendingCapacity > 0 {
		opts = append(opts, history.WithPendingCapacity(c.PendingCapacity))
	}
	if c.Limit > 0 {
		opts = append(opts, history.WithLimit(c.Limit))
	}
	return opts
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
