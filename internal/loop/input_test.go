package loop

import (
	"testing"
	"time"

	"github.com/vovakirdan/tui-snake/internal/snake"
)

func TestSwipeDirection(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		want   snake.Direction
		ok     bool
	}{
		{"right", 40, 5, snake.DirRight, true},
		{"left", -40, 5, snake.DirLeft, true},
		{"down", 5, 40, snake.DirDown, true},
		{"up", 5, -40, snake.DirUp, true},
		{"tie goes horizontal", 30, -30, snake.DirRight, true},
		{"negative tie goes horizontal", -30, 30, snake.DirLeft, true},
		{"tap", 0, 0, snake.DirRight, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := SwipeDirection(tc.dx, tc.dy)
			if ok != tc.ok {
				t.Fatalf("SwipeDirection(%v, %v) ok = %v, expected %v", tc.dx, tc.dy, ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Errorf("SwipeDirection(%v, %v) = %v, expected %v", tc.dx, tc.dy, got, tc.want)
			}
		})
	}
}

func TestPressSteersSnake(t *testing.T) {
	d, engine := newTestDriver(20, 10, newFakeRenderer(), time.Second, nil)

	var in InputListener = d
	in.PressStart(100, 100)
	in.PressEnd(110, 160)
	if engine.Direction() != snake.DirDown {
		t.Errorf("Expected Down, got %v", engine.Direction())
	}

	// Reversal is still rejected when it comes from a swipe.
	in.PressStart(100, 100)
	in.PressEnd(100, 20)
	if engine.Direction() != snake.DirDown {
		t.Errorf("Swipe reversal should be ignored, got %v", engine.Direction())
	}

	in.PressStart(0, 0)
	in.PressEnd(-25, 25)
	if engine.Direction() != snake.DirLeft {
		t.Errorf("Expected Left on a tie, got %v", engine.Direction())
	}

	// A tap without drag leaves the direction alone.
	in.PressStart(50, 50)
	in.PressEnd(50, 50)
	if engine.Direction() != snake.DirLeft {
		t.Errorf("Tap should not steer, got %v", engine.Direction())
	}

	if d.Running() {
		t.Error("Steering should not start the loop")
	}
}

func TestPressEndRestartsAfterGameOver(t *testing.T) {
	// No surface, so the restarted cadence cannot tick under the assertions.
	r := newFakeRenderer()
	r.setAvailable(false)
	d, engine := newTestDriver(20, 10, r, time.Millisecond, nil)

	engine.SetDirection(snake.DirUp)
	engine.Update()
	if !engine.GameOver() {
		t.Fatal("Setup: expected game over")
	}

	d.PressStart(10, 10)
	d.PressEnd(10, 10)

	if engine.GameOver() {
		t.Error("Press after game over should restart the game")
	}
	if engine.Score() != 0 {
		t.Errorf("Expected score 0 after restart, got %d", engine.Score())
	}
	if head := engine.Snapshot().Head(); head != (snake.Position{}) {
		t.Errorf("Expected head at origin, got %v", head)
	}
	if !d.Running() {
		t.Error("Restart should start the loop")
	}
	d.Pause()
}

func TestSteer(t *testing.T) {
	d, engine := newTestDriver(20, 10, newFakeRenderer(), time.Second, nil)

	d.Steer(snake.DirUp)
	if engine.Direction() != snake.DirUp {
		t.Errorf("Expected Up, got %v", engine.Direction())
	}
	d.Steer(snake.DirDown)
	if engine.Direction() != snake.DirUp {
		t.Errorf("Steer reversal should be ignored, got %v", engine.Direction())
	}
}
