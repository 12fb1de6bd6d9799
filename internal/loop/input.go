package loop

import (
	"math"

	"github.com/vovakirdan/tui-snake/internal/snake"
)

// PressStart records where a press began.
func (d *Driver) PressStart(x, y float64) {
	d.pressMu.Lock()
	defer d.pressMu.Unlock()
	d.pressX, d.pressY = x, y
	d.pressed = true
}

// PressEnd completes a press. After game over any press restarts the
// session; otherwise the drag since PressStart steers the snake.
func (d *Driver) PressEnd(x, y float64) {
	d.pressMu.Lock()
	startX, startY := x, y
	if d.pressed {
		startX, startY = d.pressX, d.pressY
	}
	d.pressed = false
	d.pressMu.Unlock()

	if d.engine.GameOver() {
		d.logger.Debug("restart requested")
		d.RestartGame()
		return
	}

	if dir, ok := SwipeDirection(x-startX, y-startY); ok {
		d.engine.SetDirection(dir)
	}
}

// Steer passes a direction intent straight to the engine.
func (d *Driver) Steer(dir snake.Direction) {
	d.engine.SetDirection(dir)
}

// SwipeDirection maps a drag vector to a direction using its dominant axis.
// Ties go to the horizontal axis. A zero vector has no direction.
func SwipeDirection(dx, dy float64) (snake.Direction, bool) {
	if dx == 0 && dy == 0 {
		return snake.DirRight, false
	}
	if math.Abs(dx) >= math.Abs(dy) {
		if dx > 0 {
			return snake.DirRight, true
		}
		return snake.DirLeft, true
	}
	if dy > 0 {
		return snake.DirDown, true
	}
	return snake.DirUp, true
}
