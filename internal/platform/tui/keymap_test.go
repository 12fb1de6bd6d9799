package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/snake"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapDirection(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want snake.Direction
		ok   bool
	}{
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, snake.DirUp, true},
		{"arrow down", tea.KeyMsg{Type: tea.KeyDown}, snake.DirDown, true},
		{"arrow left", tea.KeyMsg{Type: tea.KeyLeft}, snake.DirLeft, true},
		{"arrow right", tea.KeyMsg{Type: tea.KeyRight}, snake.DirRight, true},
		{"w", runeKey("w"), snake.DirUp, true},
		{"a", runeKey("a"), snake.DirLeft, true},
		{"s", runeKey("s"), snake.DirDown, true},
		{"d", runeKey("d"), snake.DirRight, true},
		{"unbound", runeKey("x"), snake.DirRight, false},
		{"quit is not a direction", runeKey("q"), snake.DirRight, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := km.Direction(tc.msg)
			if ok != tc.ok || (ok && got != tc.want) {
				t.Errorf("Direction(%q) = %v, %v; expected %v, %v", tc.msg.String(), got, ok, tc.want, tc.ok)
			}
		})
	}
}
