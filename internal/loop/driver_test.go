package loop

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/snake"
)

// fakeRenderer records frames. Its surface mutex is held from BeginFrame
// until EndFrame, like a real surface.
type fakeRenderer struct {
	surface sync.Mutex

	mu        sync.Mutex
	available bool
	begun     int
	ended     int
	inFrame   bool
	cells     int
	texts     []string

	panicOnCell bool
	block       chan struct{} // if set, DrawText waits on it
	entered     chan struct{} // if set, signalled when a frame begins
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{available: true}
}

func (r *fakeRenderer) BeginFrame() (Drawable, bool) {
	r.surface.Lock()

	r.mu.Lock()
	if !r.available {
		r.mu.Unlock()
		r.surface.Unlock()
		return nil, false
	}
	r.begun++
	r.inFrame = true
	entered := r.entered
	r.mu.Unlock()

	if entered != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
	}
	return fakeFrame{r}, true
}

func (r *fakeRenderer) EndFrame(Drawable) {
	r.mu.Lock()
	r.ended++
	r.inFrame = false
	r.mu.Unlock()

	r.surface.Unlock()
}

func (r *fakeRenderer) setAvailable(v bool) {
	r.mu.Lock()
	r.available = v
	r.mu.Unlock()
}

func (r *fakeRenderer) counts() (begun, ended int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.begun, r.ended
}

func (r *fakeRenderer) busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inFrame
}

func (r *fakeRenderer) lastText() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.texts) == 0 {
		return ""
	}
	return r.texts[len(r.texts)-1]
}

type fakeFrame struct {
	r *fakeRenderer
}

func (f fakeFrame) Clear(core.Color) {}

func (f fakeFrame) DrawFilledCell(x, y, size int, c core.Color) {
	f.r.mu.Lock()
	f.r.cells++
	panicking := f.r.panicOnCell
	f.r.mu.Unlock()
	if panicking {
		panic("draw failed")
	}
}

func (f fakeFrame) DrawText(text string, x, y int, c core.Color, size int) {
	f.r.mu.Lock()
	f.r.texts = append(f.r.texts, text)
	block := f.r.block
	f.r.mu.Unlock()
	if block != nil {
		<-block
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newTestDriver(w, h int, r Renderer, interval time.Duration, n Notifier) (*Driver, *snake.Engine) {
	engine := snake.New(core.RuntimeConfig{BoardW: w, BoardH: h, Seed: 1})
	d := New(engine, r, Options{Interval: interval, Notifier: n})
	return d, engine
}

func (d *Driver) liveCadences() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.live)
}

func TestDriverRendersAndTicks(t *testing.T) {
	r := newFakeRenderer()
	d, engine := newTestDriver(200, 5, r, 2*time.Millisecond, nil)

	d.Start()
	waitFor(t, "three frames", func() bool {
		begun, _ := r.counts()
		return begun >= 3
	})
	d.Pause()

	if d.Running() {
		t.Error("Running() should be false after Pause")
	}
	if engine.Snapshot().Tick == 0 {
		t.Error("Engine should have advanced")
	}
	if !strings.HasPrefix(r.lastText(), "Score: ") {
		t.Errorf("Expected score overlay, got %q", r.lastText())
	}

	begun, ended := r.counts()
	time.Sleep(20 * time.Millisecond)
	begunLater, endedLater := r.counts()
	if begun != ended {
		t.Errorf("Every frame should be released: begun=%d ended=%d", begun, ended)
	}
	if begunLater != begun || endedLater != ended {
		t.Error("Frames were drawn after Pause returned")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	r := newFakeRenderer()
	d, _ := newTestDriver(200, 5, r, 5*time.Millisecond, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Start()
			d.Resume()
		}()
	}
	wg.Wait()

	if n := d.liveCadences(); n != 1 {
		t.Errorf("Expected exactly one cadence, got %d", n)
	}

	d.Pause()
	if n := d.liveCadences(); n != 0 {
		t.Errorf("Expected no cadence after Pause, got %d", n)
	}
}

func TestPauseWaitsForInFlightFrame(t *testing.T) {
	r := newFakeRenderer()
	r.block = make(chan struct{})
	r.entered = make(chan struct{}, 1)
	d, _ := newTestDriver(200, 5, r, time.Millisecond, nil)

	d.Start()
	<-r.entered

	paused := make(chan struct{})
	go func() {
		d.Pause()
		close(paused)
	}()

	select {
	case <-paused:
		t.Fatal("Pause returned while a frame was still being drawn")
	case <-time.After(30 * time.Millisecond):
	}

	close(r.block)
	select {
	case <-paused:
	case <-time.After(2 * time.Second):
		t.Fatal("Pause did not return after the frame completed")
	}

	if r.busy() {
		t.Error("Surface still in use after Pause returned")
	}
}

func TestGameOverStopsLoopAndNotifies(t *testing.T) {
	r := newFakeRenderer()
	results := make(chan Result, 1)
	d, engine := newTestDriver(4, 1, r, time.Millisecond, NotifierFunc(func(res Result) {
		results <- res
	}))

	d.Start()

	select {
	case res := <-results:
		if res.Score != engine.Score() {
			t.Errorf("Notified score %d, engine score %d", res.Score, engine.Score())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("No game over notification")
	}

	if !engine.GameOver() {
		t.Error("Engine should be in game over")
	}
	waitFor(t, "loop to stop", func() bool {
		return !d.Running() && d.liveCadences() == 0
	})

	// Resuming a finished session must not announce it again.
	d.Resume()
	waitFor(t, "loop to stop again", func() bool {
		return !d.Running() && d.liveCadences() == 0
	})
	select {
	case res := <-results:
		t.Errorf("Unexpected second notification: %+v", res)
	case <-time.After(20 * time.Millisecond):
	}
	d.Pause()
}

func TestGameOverLogsFinalBoard(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	results := make(chan Result, 1)
	engine := snake.New(core.RuntimeConfig{BoardW: 4, BoardH: 1, Seed: 1})
	d := New(engine, newFakeRenderer(), Options{
		Interval: time.Millisecond,
		Logger:   logger,
		Notifier: NotifierFunc(func(res Result) { results <- res }),
	})

	d.Start()
	select {
	case <-results:
	case <-time.After(2 * time.Second):
		t.Fatal("No game over notification")
	}
	d.Pause()

	out := buf.String()
	if !strings.Contains(out, "final board") || !strings.Contains(out, "GameOver: true") {
		t.Errorf("Game over log is missing the final board:\n%s", out)
	}
}

func TestGameOverFrameIsNotDrawn(t *testing.T) {
	r := newFakeRenderer()
	d, engine := newTestDriver(20, 10, r, time.Millisecond, nil)

	engine.SetDirection(snake.DirUp)
	engine.Update()
	if !engine.GameOver() {
		t.Fatal("Setup: expected game over")
	}

	d.Start()
	waitFor(t, "loop to stop", func() bool {
		return !d.Running() && d.liveCadences() == 0
	})

	r.mu.Lock()
	cells := r.cells
	r.mu.Unlock()
	if cells != 0 {
		t.Errorf("No cells should be drawn in game over, got %d", cells)
	}
}

func TestRestartGameReplacesCadence(t *testing.T) {
	r := newFakeRenderer()
	r.block = make(chan struct{})
	r.entered = make(chan struct{}, 1)
	d, engine := newTestDriver(200, 5, r, time.Millisecond, nil)

	d.Start()
	<-r.entered

	restarted := make(chan struct{})
	go func() {
		d.RestartGame()
		close(restarted)
	}()

	// The old cadence is still stuck mid-frame; restart must not wait for it.
	select {
	case <-restarted:
	case <-time.After(2 * time.Second):
		t.Fatal("RestartGame waited for the old cadence")
	}

	if !d.Running() {
		t.Error("Driver should be running after restart")
	}
	if engine.Score() != 0 || engine.GameOver() {
		t.Error("Engine should be reset after restart")
	}

	close(r.block)
	d.Pause()
	if n := d.liveCadences(); n != 0 {
		t.Errorf("Pause should join abandoned cadences too, %d left", n)
	}
}

func TestRestartDiscardsInFlightTick(t *testing.T) {
	r := newFakeRenderer()
	r.block = make(chan struct{})
	r.entered = make(chan struct{}, 1)
	d, engine := newTestDriver(200, 5, r, time.Millisecond, nil)

	d.Start()
	<-r.entered

	// Steering up on the fresh board would hit the wall if the old
	// cadence got to step it.
	d.RestartGame()
	d.Steer(snake.DirUp)
	r.setAvailable(false)
	close(r.block)

	waitFor(t, "old cadence to exit", func() bool {
		return d.liveCadences() == 1
	})

	snap := engine.Snapshot()
	if snap.GameOver {
		t.Fatal("Old cadence advanced the restarted board")
	}
	if snap.Tick != 0 || snap.Head() != (snake.Position{}) {
		t.Errorf("Restarted board moved: tick %d head %v", snap.Tick, snap.Head())
	}
	if !d.Running() {
		t.Error("Driver should still be running after restart")
	}
	d.Pause()
}

func TestSurfaceUnavailableSkipsTick(t *testing.T) {
	r := newFakeRenderer()
	r.setAvailable(false)
	d, engine := newTestDriver(200, 5, r, time.Millisecond, nil)

	d.Start()
	time.Sleep(20 * time.Millisecond)

	if tick := engine.Snapshot().Tick; tick != 0 {
		t.Errorf("Engine advanced without a surface: tick %d", tick)
	}
	if !d.Running() {
		t.Error("Loop should keep waiting for the surface")
	}

	r.setAvailable(true)
	waitFor(t, "ticks after surface becomes available", func() bool {
		return engine.Snapshot().Tick > 0
	})
	d.Pause()
}

func TestDrawPanicReleasesSurface(t *testing.T) {
	r := newFakeRenderer()
	r.panicOnCell = true
	d, engine := newTestDriver(200, 5, r, time.Millisecond, nil)

	d.Start()
	waitFor(t, "several frames", func() bool {
		_, ended := r.counts()
		return ended >= 3
	})
	d.Pause()

	begun, ended := r.counts()
	if begun != ended {
		t.Errorf("Surface not released after panic: begun=%d ended=%d", begun, ended)
	}
	if engine.Snapshot().Tick == 0 {
		t.Error("A draw failure should not stop the simulation")
	}
}

func TestSurfaceListener(t *testing.T) {
	r := newFakeRenderer()
	d, _ := newTestDriver(200, 5, r, time.Millisecond, nil)

	var l SurfaceListener = d
	l.OnSurfaceReady()
	if !d.Running() {
		t.Error("OnSurfaceReady should start the loop")
	}
	l.OnSurfaceGone()
	if d.Running() || d.liveCadences() != 0 {
		t.Error("OnSurfaceGone should stop the loop")
	}
}
