package loop

import (
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/snake"
)

// Theme holds the colors a frame is drawn with.
type Theme struct {
	Snake      core.Color
	Head       core.Color
	Food       core.Color
	Text       core.Color
	Background core.Color
}

// DefaultTheme returns green snake, red food and white text.
func DefaultTheme() Theme {
	return Theme{
		Snake:      core.ColorGreen,
		Head:       core.ColorBrightGreen,
		Food:       core.ColorRed,
		Text:       core.ColorWhite,
		Background: core.ColorDefault,
	}
}

// drawSnapshot paints one frame: background, snake, food, then the score.
func drawSnapshot(dst Drawable, snap snake.Snapshot, cellSize int, theme Theme) {
	dst.Clear(theme.Background)

	for i, seg := range snap.Snake {
		color := theme.Snake
		if i == 0 {
			color = theme.Head
		}
		dst.DrawFilledCell(seg.X*cellSize, seg.Y*cellSize, cellSize, color)
	}

	if snap.HasFood() {
		dst.DrawFilledCell(snap.Food.X*cellSize, snap.Food.Y*cellSize, cellSize, theme.Food)
	}

	dst.DrawText(fmt.Sprintf("Score: %d", snap.Score), cellSize/2, cellSize*3/2, theme.Text, cellSize*2)
}
