package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-snake/internal/core"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// DefaultSnakeConfig returns the default Snake configuration.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Board: BoardConfig{
			Width:  0,
			Height: 0,
		},
		Loop: LoopConfig{
			IntervalMS: int(core.DefaultInterval.Milliseconds()),
			CellSize:   core.DefaultCellSize,
		},
		Theme: ThemeConfig{
			Snake:      "green",
			Head:       "bright_green",
			Food:       "red",
			Text:       "white",
			Background: "default",
		},
		Seed: 0,
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultSnakeYAML
}
