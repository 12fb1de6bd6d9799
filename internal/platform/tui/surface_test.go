package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-snake/internal/core"
)

func TestSurfaceUnavailableUntilCreated(t *testing.T) {
	s := NewSurface(20)

	if _, ok := s.BeginFrame(); ok {
		t.Fatal("BeginFrame() succeeded before Create")
	}

	s.Create(3, 2)
	d, ok := s.BeginFrame()
	if !ok {
		t.Fatal("BeginFrame() failed after Create")
	}
	s.EndFrame(d)

	s.Destroy()
	if _, ok := s.BeginFrame(); ok {
		t.Error("BeginFrame() succeeded after Destroy")
	}
	if s.Valid() {
		t.Error("Valid() = true after Destroy")
	}
}

func TestSurfaceDrawMapsUnitsToCells(t *testing.T) {
	s := NewSurface(20)
	s.Create(4, 2)

	d, ok := s.BeginFrame()
	if !ok {
		t.Fatal("BeginFrame() failed")
	}
	d.Clear(core.ColorDefault)
	d.DrawFilledCell(20, 0, 20, core.ColorGreen)
	d.DrawText("Hi", 10, 30, core.ColorWhite, 40)
	s.EndFrame(d)

	rows := strings.Split(s.String(), "\n")
	if len(rows) != 2 {
		t.Fatalf("got %d rows, expected 2", len(rows))
	}
	if rows[0] != "  ██    " {
		t.Errorf("row 0 = %q", rows[0])
	}
	if rows[1] != " Hi     " {
		t.Errorf("row 1 = %q", rows[1])
	}
}

func TestSurfacePostsFrames(t *testing.T) {
	s := NewSurface(20)
	s.Create(2, 2)

	for range 3 {
		d, _ := s.BeginFrame()
		s.EndFrame(d)
	}

	select {
	case <-s.Frames():
	default:
		t.Fatal("no frame signal after EndFrame")
	}

	// Signals coalesce; EndFrame never blocks on an unread channel.
	select {
	case <-s.Frames():
		t.Error("expected a single coalesced frame signal")
	default:
	}
}

func TestSurfaceToSurface(t *testing.T) {
	s := NewSurface(20)

	tests := []struct {
		col, row int
		x, y     float64
	}{
		{0, 0, 5, 10},
		{3, 1, 35, 30},
		{-1, 0, -5, 10},
	}

	for _, tc := range tests {
		x, y := s.ToSurface(tc.col, tc.row)
		if x != tc.x || y != tc.y {
			t.Errorf("ToSurface(%d, %d) = (%v, %v), expected (%v, %v)", tc.col, tc.row, x, y, tc.x, tc.y)
		}
	}
}

func TestFitBoard(t *testing.T) {
	tests := []struct {
		name       string
		cols, rows int
		w, h       int
	}{
		{"standard terminal", 80, 24, 39, 20},
		{"unknown size", 0, 0, 0, 0},
		{"tiny terminal", 5, 5, minBoard, minBoard},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, h := FitBoard(tc.cols, tc.rows)
			if w != tc.w || h != tc.h {
				t.Errorf("FitBoard(%d, %d) = (%d, %d), expected (%d, %d)", tc.cols, tc.rows, w, h, tc.w, tc.h)
			}
		})
	}
}
