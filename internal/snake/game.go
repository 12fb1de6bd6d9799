// Package snake implements the snake game engine: a deterministic state
// machine that advances one discrete tick at a time. It knows nothing about
// rendering, timing or input devices.
package snake

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// ReferenceWidth and ReferenceHeight are the portrait board dimensions of
// the handheld version of the game.
const (
	ReferenceWidth  = 49
	ReferenceHeight = 100
)

// Direction represents the snake's movement direction.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= DirRight && d <= DirUp
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

// Delta returns the unit vector for the direction. Y grows downwards.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Position represents a cell on the board.
type Position struct {
	X, Y int
}

// Add returns the position moved one step in direction d.
func (p Position) Add(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// noFood marks the food as absent once the board is full.
var noFood = Position{X: -1, Y: -1}

// Engine holds the game state for a single session.
// All methods are safe for concurrent use: one mutex guards the whole state,
// so readers never observe a half-applied tick.
type Engine struct {
	mu sync.Mutex

	width  int
	height int
	rng    *rand.Rand
	tick   uint64

	snake     []Position // Head at index 0
	food      Position
	score     int
	direction Direction

	gameOver bool
	won      bool

	// faultHook runs inside Update before the tick is committed.
	// Tests use it to inject faults.
	faultHook func()
}

// New creates an engine for a board of cfg.BoardW x cfg.BoardH cells,
// seeded with cfg.Seed. Zero board dimensions fall back to the defaults.
func New(cfg core.RuntimeConfig) *Engine {
	cfg = cfg.Normalized()
	e := &Engine{
		width:  cfg.BoardW,
		height: cfg.BoardH,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
	}
	e.resetBoard()
	e.score = 0
	return e
}

// Width returns the board width in cells.
func (e *Engine) Width() int {
	return e.width
}

// Height returns the board height in cells.
func (e *Engine) Height() int {
	return e.height
}

// SetDirection changes the movement direction. A reversal onto the snake's
// own neck, or an unknown direction, is silently ignored.
func (e *Engine) SetDirection(d Direction) {
	if !d.Valid() {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if d == e.direction.Opposite() {
		return
	}
	e.direction = d
}

// Direction returns the current movement direction.
func (e *Engine) Direction() Direction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.direction
}

// Score returns the current score.
func (e *Engine) Score() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.score
}

// GameOver reports whether the session has reached a terminal state,
// either by collision or by filling the board.
func (e *Engine) GameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gameOver
}

// Update advances the simulation by one tick. It is a no-op once the game
// is over. A fault while computing the tick ends the game instead of
// propagating, and the partial tick is discarded.
func (e *Engine) Update() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gameOver {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			e.gameOver = true
		}
	}()

	e.step()
}

// step computes the next tick on local copies and commits it at the end.
// Caller holds e.mu.
func (e *Engine) step() {
	head := e.snake[0].Add(e.direction)

	body := make([]Position, 0, len(e.snake)+1)
	body = append(body, head)
	body = append(body, e.snake...)

	score := e.score
	food := e.food
	won := false

	if head == food {
		score++
		if f, ok := e.freeCell(body); ok {
			food = f
		} else {
			food = noFood
			won = true
		}
	} else {
		body = body[:len(body)-1]
	}

	over := won || e.collides(body)

	if e.faultHook != nil {
		e.faultHook()
	}

	e.snake = body
	e.score = score
	e.food = food
	e.won = won
	e.gameOver = over
	e.tick++
}

// collides checks the head of body against the walls and the rest of body.
func (e *Engine) collides(body []Position) bool {
	head := body[0]
	if head.X < 0 || head.X >= e.width || head.Y < 0 || head.Y >= e.height {
		return true
	}
	for _, seg := range body[1:] {
		if seg == head {
			return true
		}
	}
	return false
}

// Restart puts the board back in its initial configuration: a single
// segment at the origin heading right, with fresh food. The score is kept;
// clear it with ResetScore.
func (e *Engine) Restart() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetBoard()
}

// ResetScore sets the score back to zero.
func (e *Engine) ResetScore() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.score = 0
}

// resetBoard initializes the board. Caller holds e.mu or owns e exclusively.
func (e *Engine) resetBoard() {
	e.snake = []Position{{X: 0, Y: 0}}
	e.direction = DirRight
	e.gameOver = false
	e.won = false
	e.tick = 0
	e.placeFood()
}

// placeFood moves the food to a random cell not covered by the snake.
func (e *Engine) placeFood() {
	if f, ok := e.freeCell(e.snake); ok {
		e.food = f
		return
	}
	e.food = noFood
}

// freeCell draws uniformly random cells until one is not occupied by body.
// After enough misses it picks uniformly among the enumerated free cells,
// so it terminates whenever a free cell exists. ok is false when the board
// is full.
func (e *Engine) freeCell(body []Position) (Position, bool) {
	cells := e.width * e.height
	if len(body) >= cells && coversBoard(body, e.width, e.height) {
		return noFood, false
	}

	occupied := make(map[Position]bool, len(body))
	for _, seg := range body {
		occupied[seg] = true
	}

	for range cells * 4 {
		p := Position{X: e.rng.Intn(e.width), Y: e.rng.Intn(e.height)}
		if !occupied[p] {
			return p, true
		}
	}

	var free []Position
	for y := range e.height {
		for x := range e.width {
			p := Position{X: x, Y: y}
			if !occupied[p] {
				free = append(free, p)
			}
		}
	}
	if len(free) == 0 {
		return noFood, false
	}
	return free[e.rng.Intn(len(free))], true
}

// coversBoard reports whether every in-bounds cell is occupied by body.
func coversBoard(body []Position, w, h int) bool {
	seen := make(map[Position]bool, len(body))
	for _, p := range body {
		if p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h {
			seen[p] = true
		}
	}
	return len(seen) == w*h
}

// DebugState returns a string representation of the game state.
func (e *Engine) DebugState() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Tick: %d, Score: %d\n", e.tick, e.score))
	b.WriteString(fmt.Sprintf("Snake len: %d, Direction: %s\n", len(e.snake), e.direction))
	b.WriteString(fmt.Sprintf("Head: (%d, %d), Food: (%d, %d)\n", e.snake[0].X, e.snake[0].Y, e.food.X, e.food.Y))
	b.WriteString(fmt.Sprintf("GameOver: %v, Won: %v\n", e.gameOver, e.won))
	return b.String()
}
