package core

import "time"

// RuntimeConfig contains the resolved settings a session is started with.
// The engine uses the board size and seed; the loop driver uses the
// interval and cell size.
type RuntimeConfig struct {
	BoardW   int           // Board width in cells
	BoardH   int           // Board height in cells
	Interval time.Duration // Wall-clock time between ticks
	CellSize int           // Surface units per board cell
	Seed     int64         // RNG seed for deterministic gameplay
}

// Reference values for a session.
const (
	DefaultBoardW   = 40
	DefaultBoardH   = 20
	DefaultInterval = 200 * time.Millisecond
	DefaultCellSize = 20
)

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		BoardW:   DefaultBoardW,
		BoardH:   DefaultBoardH,
		Interval: DefaultInterval,
		CellSize: DefaultCellSize,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// Normalized fills zero or negative fields with the defaults.
func (c RuntimeConfig) Normalized() RuntimeConfig {
	if c.BoardW <= 0 {
		c.BoardW = DefaultBoardW
	}
	if c.BoardH <= 0 {
		c.BoardH = DefaultBoardH
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.CellSize <= 0 {
		c.CellSize = DefaultCellSize
	}
	return c
}
