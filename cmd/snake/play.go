package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/loop"
	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	flagWidth    int
	flagHeight   int
	flagInterval int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play snake in this terminal",
	Long: `Start a snake session in this terminal.

The board fills the terminal unless the config or --width/--height set it.
Scores are kept for this session only.

Controls:
  Arrows/WASD - Steer
  Mouse drag  - Steer towards the drag direction
  P/Esc       - Pause
  R/Enter     - Restart (after game over), or click
  Q/Ctrl+C    - Quit

Examples:
  snake play
  snake play --width 30 --height 15
  snake play --interval 120 --seed 42
  snake play --log ./snake.log --log-level debug`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagWidth, "width", 0, "Board width in cells (0 = fit terminal)")
	playCmd.Flags().IntVar(&flagHeight, "height", 0, "Board height in cells (0 = fit terminal)")
	playCmd.Flags().IntVar(&flagInterval, "interval", 0, "Tick interval in milliseconds (0 = config value)")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg, theme, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The alternate screen owns stdout, so logs only go to --log.
	logger, closer, err := newLogger("snake", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer.Close()
	}

	rt := runtimeConfig(cfg)
	if rt.BoardW == 0 && rt.BoardH == 0 {
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			rt.BoardW, rt.BoardH = tui.FitBoard(w, h)
		}
	}
	if flagWidth > 0 {
		rt.BoardW = flagWidth
	}
	if flagHeight > 0 {
		rt.BoardH = flagHeight
	}
	if flagInterval > 0 {
		rt.Interval = time.Duration(flagInterval) * time.Millisecond
	}
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}
	rt = rt.Normalized()

	store, err := storage.OpenSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open session scoreboard: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	logger.Info("starting session",
		"board", fmt.Sprintf("%dx%d", rt.BoardW, rt.BoardH),
		"interval", rt.Interval,
		"seed", rt.Seed,
	)

	runErr := tui.Run(snake.New(rt), tui.Options{
		Loop: loop.Options{
			Interval: rt.Interval,
			CellSize: rt.CellSize,
			Theme:    theme,
			Logger:   logger,
		},
		Store:  store,
		Player: os.Getenv("USER"),
	})
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}

	if store != nil {
		printSummary(store)
	}
}

// printSummary shows the session's best games after the alternate screen
// has been left.
func printSummary(store *storage.Store) {
	scores, err := store.TopScores(5)
	if err != nil || len(scores) == 0 {
		return
	}

	played, err := store.GamesPlayed()
	if err != nil {
		played = len(scores)
	}

	fmt.Printf("Session best (%d games)\n", played)
	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Time")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		mark := ""
		if entry.Won {
			mark = "  board cleared"
		}
		fmt.Printf("  %-4d  %-10d  %s%s\n", i+1, entry.Score, entry.CreatedAt.Local().Format("15:04:05"), mark)
	}
}
