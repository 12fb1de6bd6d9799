package snake

// Status represents the phase of a session.
type Status string

const (
	StatusPlaying  Status = "playing"
	StatusGameOver Status = "game_over"
	StatusWon      Status = "won"
)

// Snapshot is a read-only copy of the game state. It shares no memory with
// the engine, so it may be used after the engine has moved on.
type Snapshot struct {
	Tick      uint64
	Width     int
	Height    int
	Snake     []Position // Head first
	Food      Position
	Score     int
	Direction Direction
	GameOver  bool
	Status    Status
}

// Head returns the head position.
func (s Snapshot) Head() Position {
	return s.Snake[0]
}

// HasFood reports whether food is on the board.
func (s Snapshot) HasFood() bool {
	return s.Food != noFood
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	state := StatusPlaying
	switch {
	case e.won:
		state = StatusWon
	case e.gameOver:
		state = StatusGameOver
	}

	segments := make([]Position, len(e.snake))
	copy(segments, e.snake)

	return Snapshot{
		Tick:      e.tick,
		Width:     e.width,
		Height:    e.height,
		Snake:     segments,
		Food:      e.food,
		Score:     e.score,
		Direction: e.direction,
		GameOver:  e.gameOver,
		Status:    state,
	}
}
