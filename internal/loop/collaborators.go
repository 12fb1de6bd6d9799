// Package loop drives a snake engine at a fixed cadence. It bridges the
// engine to a rendering surface, relays pointer input as direction intents,
// and manages start, pause and restart while those collaborators call in
// from other goroutines.
package loop

import "github.com/vovakirdan/tui-snake/internal/core"

// Drawable is a surface acquired for the duration of one frame.
// Coordinates and sizes are in surface units.
type Drawable interface {
	Clear(c core.Color)
	DrawFilledCell(x, y, size int, c core.Color)
	DrawText(text string, x, y int, c core.Color, size int)
}

// Renderer hands out the shared drawing surface.
// BeginFrame acquires the surface and returns false if it is not currently
// available. Every successful BeginFrame is paired with one EndFrame, which
// releases the surface and presents the frame.
type Renderer interface {
	BeginFrame() (Drawable, bool)
	EndFrame(d Drawable)
}

// Result describes how a session ended.
type Result struct {
	Score int
	Won   bool
}

// Notifier is told when a session ends. NotifyGameOver is called on its own
// goroutine and may take as long as the presentation layer needs.
type Notifier interface {
	NotifyGameOver(r Result)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(r Result)

// NotifyGameOver calls f(r).
func (f NotifierFunc) NotifyGameOver(r Result) {
	f(r)
}

// SurfaceListener receives surface lifecycle signals from the host runtime.
type SurfaceListener interface {
	OnSurfaceReady()
	OnSurfaceGone()
}

// InputListener receives pointer presses in surface units.
type InputListener interface {
	PressStart(x, y float64)
	PressEnd(x, y float64)
}
