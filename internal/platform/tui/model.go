package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/loop"
	"github.com/vovakirdan/tui-snake/internal/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// Layout around the board.
const (
	borderSize  = 1 // Board frame thickness
	chromeLines = 2 // Status line and help line
	minBoard    = 4
)

// GameOverText is shown when a session ends.
const GameOverText = "Game Over! Tap to restart."

var (
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8"))

	gameOverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// Options configures a Model.
type Options struct {
	// Loop configures the driver. Its Notifier is replaced by the model.
	Loop loop.Options

	// Store receives finished games. May be nil.
	Store *storage.Store

	// Player names the scores saved to Store.
	Player string
}

// Model is the Bubble Tea model for one snake session. It is the host
// runtime of the game loop: it creates the surface on the first window size
// message, forwards keys and mouse presses, and shows the game-over prompt.
type Model struct {
	sess   *session
	engine *snake.Engine
	store  *storage.Store
	player string
	logger *log.Logger

	keys   KeyMap
	help   help.Model
	scores scoreboard

	ready      bool
	paused     bool
	over       bool
	showScores bool
	result     loop.Result
	best       int
	played     int
	quitting   bool
}

// NewModel creates a model driving engine. Nothing runs until the program
// reports its window size.
func NewModel(engine *snake.Engine, opts Options) Model {
	logger := opts.Loop.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	sess := &session{
		surface: NewSurface(opts.Loop.CellSize),
		results: make(chan loop.Result, 1),
		done:    make(chan struct{}),
	}
	loopOpts := opts.Loop
	loopOpts.Notifier = sess
	sess.driver = loop.New(engine, sess.surface, loopOpts)

	return Model{
		sess:   sess,
		engine: engine,
		store:  opts.Store,
		player: opts.Player,
		logger: logger,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		scores: newScoreboard(engine.Height()),
	}
}

// Driver returns the game loop driver.
func (m Model) Driver() *loop.Driver {
	return m.sess.driver
}

// Surface returns the drawing surface.
func (m Model) Surface() *Surface {
	return m.sess.surface
}

// Close stops the game loop and waits for it. It is safe to call more than
// once and from any goroutine.
func (m Model) Close() {
	m.sess.close()
}

// Init waits for the first frame and game-over notification.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForFrame(m.sess), waitForGameOver(m.sess))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case FrameMsg:
		return m, waitForFrame(m.sess)

	case GameOverMsg:
		return m.handleGameOver(msg.Result)
	}

	return m, nil
}

// handleResize creates the surface on the first size message and starts
// the loop. The board keeps its size; later messages only change layout.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.help.Width = msg.Width
	if m.ready {
		return m, nil
	}

	m.ready = m.sess.run(func() {
		m.sess.surface.Create(m.engine.Width(), m.engine.Height())
		m.sess.driver.OnSurfaceReady()
	})
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if !m.ready {
		return m, nil
	}

	if m.over {
		switch {
		case key.Matches(msg, m.keys.Restart):
			m.restart()
		case key.Matches(msg, m.keys.Scores):
			m.toggleScores()
		case m.showScores && key.Matches(msg, m.keys.Clear):
			m.clearScores()
		case m.showScores:
			var cmd tea.Cmd
			m.scores, cmd = m.scores.update(msg)
			return m, cmd
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Pause) {
		m.togglePause()
		return m, nil
	}

	if dir, ok := m.keys.Direction(msg); ok && !m.paused {
		m.sess.driver.Steer(dir)
	}
	return m, nil
}

// handleMouse turns left-button presses into loop presses. Releases are
// accepted from any button since some terminals do not report which one.
// Presses are ignored while paused; game over always clears the pause.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.ready || m.paused {
		return m, nil
	}

	x, y := m.sess.surface.ToSurface(msg.X-borderSize, msg.Y-borderSize)
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.sess.driver.PressStart(x, y)
	case msg.Action == tea.MouseActionRelease:
		m.sess.run(func() { m.sess.driver.PressEnd(x, y) })
		if m.over && !m.engine.GameOver() {
			m.over = false
			m.showScores = false
		}
	}
	return m, nil
}

// handleGameOver records the result and shows the prompt. A result that
// arrives after the player already restarted is recorded but not shown.
func (m Model) handleGameOver(r loop.Result) (tea.Model, tea.Cmd) {
	m.logger.Info("session ended", "player", m.player, "score", r.Score, "won", r.Won)

	if m.store != nil {
		if _, err := m.store.SaveScore(m.player, r.Score, r.Won); err != nil {
			m.logger.Warn("could not save score", "error", err)
		}
		if best, err := m.store.HighScore(); err == nil {
			m.best = best
		}
		if n, err := m.store.GamesPlayed(); err == nil {
			m.played = n
		}
	} else {
		m.best = max(m.best, r.Score)
		m.played++
	}

	if m.engine.GameOver() {
		m.over = true
		m.paused = false
		m.result = r
	}
	return m, waitForGameOver(m.sess)
}

func (m *Model) restart() {
	m.sess.run(m.sess.driver.RestartGame)
	m.over = false
	m.paused = false
	m.showScores = false
}

func (m *Model) toggleScores() {
	m.showScores = !m.showScores
	if !m.showScores {
		return
	}
	if err := m.scores.load(m.store); err != nil {
		m.logger.Warn("could not load scores", "error", err)
	}
}

// clearScores empties the scoreboard and the session totals.
func (m *Model) clearScores() {
	if m.store != nil {
		if err := m.store.ClearScores(); err != nil {
			m.logger.Warn("could not clear scores", "error", err)
			return
		}
	}
	m.logger.Info("scores cleared", "player", m.player)
	m.best = 0
	m.played = 0
	if err := m.scores.load(m.store); err != nil {
		m.logger.Warn("could not load scores", "error", err)
	}
}

func (m *Model) togglePause() {
	action := m.sess.driver.Pause
	if m.paused {
		action = m.sess.driver.Resume
	}
	if m.sess.run(action) {
		m.paused = !m.paused
	}
}

// View renders the board, a status line and the key help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Starting..."
	}

	var b strings.Builder
	if m.showScores {
		b.WriteString(m.scores.view())
	} else {
		b.WriteString(boardStyle.Render(m.sess.surface.Render()))
	}
	b.WriteByte('\n')
	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) statusLine() string {
	switch {
	case m.over:
		outcome := GameOverText
		if m.result.Won {
			outcome = "You filled the board! Tap to restart."
		}
		return gameOverStyle.Render(outcome) + " " +
			statusStyle.Render(fmt.Sprintf("Score %d · Best %d · Games %d · tab: scores", m.result.Score, m.best, m.played))
	case m.paused:
		return statusStyle.Render("Paused. Press p to resume.")
	default:
		return statusStyle.Render(fmt.Sprintf("Best %d · Games %d", m.best, m.played))
	}
}

// Run plays one session in the local terminal until the player quits.
func Run(engine *snake.Engine, opts Options) error {
	model := NewModel(engine, opts)
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Drag to steer
	)

	_, err := p.Run()
	return err
}
