package loop

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/snake"
)

// Options configures a Driver. Zero values select the defaults.
type Options struct {
	// Interval is the time between ticks.
	Interval time.Duration

	// CellSize is the number of surface units per board cell.
	CellSize int

	// Theme sets the frame colors.
	Theme Theme

	// Notifier is told when a session ends. May be nil.
	Notifier Notifier

	// Logger receives lifecycle events. Nil discards them.
	Logger *log.Logger
}

// Driver runs the tick cadence for one engine.
type Driver struct {
	engine   *snake.Engine
	renderer Renderer
	notifier Notifier
	logger   *log.Logger
	interval time.Duration
	cellSize int
	theme    Theme

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	gen     uint64                   // Generation of the current cadence
	live    map[uint64]chan struct{} // Cadences that have not returned yet

	pressMu        sync.Mutex
	pressX, pressY float64
	pressed        bool
}

// New creates a stopped driver for engine drawing to renderer.
func New(engine *snake.Engine, renderer Renderer, opts Options) *Driver {
	if opts.Interval <= 0 {
		opts.Interval = core.DefaultInterval
	}
	if opts.CellSize <= 0 {
		opts.CellSize = core.DefaultCellSize
	}
	if opts.Theme == (Theme{}) {
		opts.Theme = DefaultTheme()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	return &Driver{
		engine:   engine,
		renderer: renderer,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		interval: opts.Interval,
		cellSize: opts.CellSize,
		theme:    opts.Theme,
		live:     make(map[uint64]chan struct{}),
	}
}

// Engine returns the engine being driven.
func (d *Driver) Engine() *snake.Engine {
	return d.engine
}

// Running reports whether a cadence is active.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Start begins the tick cadence. It does nothing if one is already running.
func (d *Driver) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return
	}
	d.startLocked()
}

// Resume is Start.
func (d *Driver) Resume() {
	d.Start()
}

// Pause stops the cadence and waits until every cadence goroutine,
// including ones abandoned by RestartGame, has returned. Once Pause returns
// the renderer is no longer in use.
func (d *Driver) Pause() {
	d.mu.Lock()
	d.stopLocked()
	pending := make([]chan struct{}, 0, len(d.live))
	for _, done := range d.live {
		pending = append(pending, done)
	}
	d.mu.Unlock()

	for _, done := range pending {
		<-done
	}
}

// RestartGame clears the score, resets the board and starts a fresh
// cadence. A cadence already running is cancelled but not waited for; it
// no longer advances the engine once the board is reset.
func (d *Driver) RestartGame() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.engine.ResetScore()
	d.engine.Restart()
	d.startLocked()
	d.logger.Info("game restarted", "gen", d.gen)
}

// OnSurfaceReady resumes the cadence.
func (d *Driver) OnSurfaceReady() {
	d.logger.Debug("surface ready")
	d.Resume()
}

// OnSurfaceGone pauses the cadence and waits for it to quiesce.
func (d *Driver) OnSurfaceGone() {
	d.logger.Debug("surface gone")
	d.Pause()
}

// startLocked launches a new cadence. Caller holds d.mu.
func (d *Driver) startLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	d.gen++
	done := make(chan struct{})
	d.live[d.gen] = done
	d.cancel = cancel
	d.running = true

	go d.run(ctx, d.gen, done)
}

// stopLocked cancels the current cadence without waiting. Caller holds d.mu.
func (d *Driver) stopLocked() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.running = false
}

// run is the body of one cadence goroutine.
func (d *Driver) run(ctx context.Context, gen uint64, done chan struct{}) {
	defer func() {
		d.mu.Lock()
		delete(d.live, gen)
		d.mu.Unlock()
		close(done)
	}()

	d.logger.Debug("cadence started", "gen", gen, "interval", d.interval)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for ctx.Err() == nil {
		if res, ended, fresh := d.tick(ctx, gen); ended {
			d.finish(ctx, gen, res, fresh)
			return
		}

		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}

	d.logger.Debug("cadence stopped", "gen", gen)
}

// tick renders the current state and advances the engine once.
// ended is true when the session is over after this tick; fresh is true
// when this tick is the one that ended it. A cadence that has been stopped
// or replaced while drawing leaves the engine alone.
func (d *Driver) tick(ctx context.Context, gen uint64) (res Result, ended, fresh bool) {
	frame, ok := d.renderer.BeginFrame()
	if !ok {
		return Result{}, false, false
	}

	snap := d.engine.Snapshot()
	d.present(frame, snap)

	if snap.GameOver {
		// Nothing left to simulate; the session ended before this cadence.
		return resultOf(snap), true, false
	}

	after, ok := d.advance(ctx, gen)
	if !ok || !after.GameOver {
		return Result{}, false, false
	}
	return resultOf(after), true, true
}

// advance updates the engine once if gen is still the current cadence.
// d.mu is held across the update so RestartGame cannot reset the board
// between the check and the step.
func (d *Driver) advance(ctx context.Context, gen uint64) (snake.Snapshot, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.gen != gen || ctx.Err() != nil {
		return snake.Snapshot{}, false
	}
	d.engine.Update()
	return d.engine.Snapshot(), true
}

func resultOf(snap snake.Snapshot) Result {
	return Result{Score: snap.Score, Won: snap.Status == snake.StatusWon}
}

// present draws snap into frame and releases it, even if drawing panics.
func (d *Driver) present(frame Drawable, snap snake.Snapshot) {
	defer d.renderer.EndFrame(frame)
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("frame draw failed", "panic", r)
		}
	}()

	if snap.GameOver {
		return
	}
	drawSnapshot(frame, snap, d.cellSize, d.theme)
}

// finish marks the loop stopped after game over and, for a freshly ended
// session, hands the result to the notifier without blocking the loop.
func (d *Driver) finish(ctx context.Context, gen uint64, res Result, fresh bool) {
	d.mu.Lock()
	superseded := d.gen != gen || ctx.Err() != nil
	if !superseded {
		d.stopLocked()
	}
	d.mu.Unlock()

	if superseded || !fresh {
		return
	}

	d.logger.Info("game over", "score", res.Score, "won", res.Won)
	d.logger.Debug("final board", "state", d.engine.DebugState())
	if d.notifier != nil {
		go d.notifier.NotifyGameOver(res)
	}
}
