package tui

import (
	"sync"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/loop"
)

// CellWidth is how many terminal columns one board cell occupies.
// Terminal glyphs are about twice as tall as they are wide.
const CellWidth = 2

// filledRune draws snake segments and food.
const filledRune = '█'

// Surface is the terminal drawing surface shared by the game loop and the
// Bubble Tea view. It implements loop.Renderer: the surface stays locked from
// BeginFrame until EndFrame, and Create, Destroy and Render take the same
// lock, so a frame is never drawn into a surface that is being replaced.
type Surface struct {
	mu     sync.Mutex
	screen *core.Screen
	valid  bool
	unit   int // Surface units per board cell

	frames chan struct{}
}

// NewSurface creates an unavailable surface where one board cell spans unit
// surface units.
func NewSurface(unit int) *Surface {
	if unit <= 0 {
		unit = core.DefaultCellSize
	}
	return &Surface{
		screen: core.NewScreen(0, 0),
		unit:   unit,
		frames: make(chan struct{}, 1),
	}
}

// Create makes the surface available, sized for a board of boardW x boardH
// cells. Calling it again resizes the surface.
func (s *Surface) Create(boardW, boardH int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen.Resize(boardW*CellWidth, boardH)
	s.valid = true
}

// Destroy makes the surface unavailable. Frames begun afterwards are refused.
func (s *Surface) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valid = false
}

// Valid reports whether the surface can currently be drawn into.
func (s *Surface) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid
}

// BeginFrame locks the surface for drawing. It returns false, leaving the
// surface unlocked, when the surface is not available.
func (s *Surface) BeginFrame() (loop.Drawable, bool) {
	s.mu.Lock()
	if !s.valid {
		s.mu.Unlock()
		return nil, false
	}
	return &frame{s: s}, true
}

// EndFrame unlocks the surface and signals that a new frame is ready.
func (s *Surface) EndFrame(loop.Drawable) {
	s.mu.Unlock()
	select {
	case s.frames <- struct{}{}:
	default:
	}
}

// Frames delivers one signal per posted frame. Signals coalesce while
// nobody is reading.
func (s *Surface) Frames() <-chan struct{} {
	return s.frames
}

// Render returns the last posted frame as styled terminal text.
func (s *Surface) Render() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RenderScreen(s.screen)
}

// String returns the last posted frame without colors.
func (s *Surface) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen.String()
}

// ToSurface converts a terminal position relative to the surface origin to
// surface units, pointing at the middle of the terminal cell.
func (s *Surface) ToSurface(col, row int) (x, y float64) {
	unit := float64(s.unit)
	return (float64(col) + 0.5) * unit / CellWidth, (float64(row) + 0.5) * unit
}

// toCell maps surface units to a terminal position. Caller holds s.mu.
func (s *Surface) toCell(x, y int) (col, row int) {
	return x * CellWidth / s.unit, y / s.unit
}

// frame draws into a locked Surface.
type frame struct {
	s *Surface
}

func (f *frame) Clear(c core.Color) {
	f.s.screen.FillCell(core.Cell{Rune: ' ', Color: c})
}

func (f *frame) DrawFilledCell(x, y, size int, c core.Color) {
	col, row := f.s.toCell(x, y)
	w := max(size*CellWidth/f.s.unit, 1)
	h := max(size/f.s.unit, 1)
	f.s.screen.FillRect(core.NewRect(col, row, w, h), core.Cell{Rune: filledRune, Color: c})
}

// DrawText ignores size: a terminal has a single glyph size.
func (f *frame) DrawText(text string, x, y int, c core.Color, _ int) {
	col, row := f.s.toCell(x, y)
	f.s.screen.DrawTextColor(col, row, text, c)
}

// FitBoard returns the largest board, in cells, that fits a terminal of
// cols x rows next to the model's border, status and help lines.
// It returns zeros when the terminal size is unknown.
func FitBoard(cols, rows int) (w, h int) {
	if cols <= 0 || rows <= 0 {
		return 0, 0
	}
	w = (cols - 2*borderSize) / CellWidth
	h = rows - 2*borderSize - chromeLines
	return max(w, minBoard), max(h, minBoard)
}
