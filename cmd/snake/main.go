// snake is the classic snake game for the terminal.
//
// Usage:
//
//	snake play     - Play in this terminal
//	snake serve    - Start SSH server for remote play
//	snake config   - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Custom config YAML
//	--seed <value>      - Set RNG seed for reproducible food placement
//	--log <path>        - Write logs to a file
//	--log-level <level> - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/loop"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagLog      string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - the classic game in your terminal",
	Long: `Snake is the classic arcade game for the terminal. Steer with the
arrow keys, WASD or by dragging the mouse; eat food to grow and score.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  config   - Print the effective configuration

Examples:
  snake play
  snake play --width 30 --height 15 --interval 120
  snake serve --ssh :2222
  snake config --config ./my-snake.yaml`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLog, "log", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads the config file and resolves its theme.
func loadConfig() (config.SnakeConfig, loop.Theme, error) {
	cfg, err := config.LoadSnake(flagConfig)
	if err != nil {
		return config.SnakeConfig{}, loop.Theme{}, err
	}
	theme, err := cfg.Theme.Resolve()
	if err != nil {
		return config.SnakeConfig{}, loop.Theme{}, fmt.Errorf("config: %w", err)
	}
	if flagSeed != 0 {
		cfg.Seed = flagSeed
	}
	return cfg, theme, nil
}

// runtimeConfig converts cfg to runtime settings, keeping zero board
// dimensions so the caller can fit them to a terminal.
func runtimeConfig(cfg config.SnakeConfig) core.RuntimeConfig {
	return core.RuntimeConfig{
		BoardW:   cfg.Board.Width,
		BoardH:   cfg.Board.Height,
		Interval: cfg.Interval(),
		CellSize: cfg.Loop.CellSize,
		Seed:     cfg.Seed,
	}
}

// newLogger builds the logger for --log and --log-level. Without a log
// file, logs go to fallback; a nil fallback discards them.
func newLogger(prefix string, fallback io.Writer) (*log.Logger, io.Closer, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	out, closer := fallback, io.Closer(nil)
	if flagLog != "" {
		f, err := os.OpenFile(flagLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		out, closer = f, f
	}
	if out == nil {
		out = io.Discard
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closer, nil
}
