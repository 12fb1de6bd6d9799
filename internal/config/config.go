// Package config provides YAML-based configuration loading for the snake
// game: board size, tick cadence and colors.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/loop"
)

// SnakeConfig contains all configuration for a snake session.
type SnakeConfig struct {
	Board BoardConfig `yaml:"board"`
	Loop  LoopConfig  `yaml:"loop"`
	Theme ThemeConfig `yaml:"theme"`
	Seed  int64       `yaml:"seed"`
}

// BoardConfig defines the playing field. Zero means fit to the terminal.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LoopConfig defines the tick cadence.
type LoopConfig struct {
	IntervalMS int `yaml:"interval_ms"`
	CellSize   int `yaml:"cell_size"`
}

// ThemeConfig names the colors used to draw a frame.
type ThemeConfig struct {
	Snake      string `yaml:"snake"`
	Head       string `yaml:"head"`
	Food       string `yaml:"food"`
	Text       string `yaml:"text"`
	Background string `yaml:"background"`
}

// Interval returns the tick interval as a duration.
func (c SnakeConfig) Interval() time.Duration {
	return time.Duration(c.Loop.IntervalMS) * time.Millisecond
}

// Validate reports every invalid field.
func (c SnakeConfig) Validate() error {
	var errs []error
	if c.Board.Width < 0 || c.Board.Height < 0 {
		errs = append(errs, fmt.Errorf("board size %dx%d must not be negative", c.Board.Width, c.Board.Height))
	}
	if c.Loop.IntervalMS <= 0 {
		errs = append(errs, fmt.Errorf("loop.interval_ms must be positive, got %d", c.Loop.IntervalMS))
	}
	if c.Loop.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("loop.cell_size must be positive, got %d", c.Loop.CellSize))
	}
	if _, err := c.Theme.Resolve(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Resolve parses the color names into a loop theme.
func (t ThemeConfig) Resolve() (loop.Theme, error) {
	var theme loop.Theme
	fields := []struct {
		name string
		val  string
		dst  *core.Color
	}{
		{"snake", t.Snake, &theme.Snake},
		{"head", t.Head, &theme.Head},
		{"food", t.Food, &theme.Food},
		{"text", t.Text, &theme.Text},
		{"background", t.Background, &theme.Background},
	}
	for _, f := range fields {
		c, err := core.ParseColor(f.val)
		if err != nil {
			return loop.Theme{}, fmt.Errorf("theme.%s: %w", f.name, err)
		}
		*f.dst = c
	}
	return theme, nil
}

// Runtime converts the config into the runtime settings for a session on
// a board of w x h cells. Board sizes set in the config take precedence.
func (c SnakeConfig) Runtime(w, h int) core.RuntimeConfig {
	if c.Board.Width > 0 {
		w = c.Board.Width
	}
	if c.Board.Height > 0 {
		h = c.Board.Height
	}
	return core.RuntimeConfig{
		BoardW:   w,
		BoardH:   h,
		Interval: c.Interval(),
		CellSize: c.Loop.CellSize,
		Seed:     c.Seed,
	}.Normalized()
}
