// Package tui hosts the snake game loop in a terminal. Bubble Tea owns the
// event loop and input; the loop package owns the tick cadence and draws
// into a Surface that the Bubble Tea view renders.
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/loop"
)

// FrameMsg is sent when the game loop has posted a new frame.
type FrameMsg struct{}

// GameOverMsg is sent when a session ends.
type GameOverMsg struct {
	Result loop.Result
}

// session is the state shared between a Model, its copies and the game
// loop's goroutines.
type session struct {
	driver  *loop.Driver
	surface *Surface
	results chan loop.Result
	done    chan struct{}

	mu     sync.Mutex
	closed bool
}

// NotifyGameOver hands r to the Bubble Tea program without blocking.
// A result is dropped if the previous one has not been consumed yet.
func (s *session) NotifyGameOver(r loop.Result) {
	select {
	case s.results <- r:
	default:
	}
}

// run calls f unless the session is closed. Driver calls that may start a
// cadence go through run so none is started after close.
func (s *session) run(f func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	f()
	return true
}

// close stops the session's loop and releases waiting commands.
func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.driver.OnSurfaceGone()
	s.surface.Destroy()
	close(s.done)
}

// waitForFrame blocks until the loop posts a frame or the session closes.
func waitForFrame(s *session) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-s.surface.Frames():
			return FrameMsg{}
		case <-s.done:
			return nil
		}
	}
}

// waitForGameOver blocks until a session ends or the session closes.
func waitForGameOver(s *session) tea.Cmd {
	return func() tea.Msg {
		select {
		case r := <-s.results:
			return GameOverMsg{Result: r}
		case <-s.done:
			return nil
		}
	}
}
