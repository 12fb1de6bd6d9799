package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/storage"
)

// maxScores caps how many games the scoreboard loads.
const maxScores = 100

var (
	scoreboardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(1, 2)
)

// scoreboard lists the finished games of the session.
type scoreboard struct {
	table  table.Model
	scores []storage.ScoreEntry
}

func newScoreboard(height int) scoreboard {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 8},
		{Title: "Player", Width: 12},
		{Title: "Result", Width: 8},
		{Title: "Time", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(height, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return scoreboard{table: t}
}

// load reads the session's scores from store. A nil store shows no games.
func (b *scoreboard) load(store *storage.Store) error {
	b.scores = nil
	if store != nil {
		scores, err := store.TopScores(maxScores)
		if err != nil {
			b.setRows()
			return err
		}
		b.scores = scores
	}
	b.setRows()
	return nil
}

func (b *scoreboard) setRows() {
	rows := make([]table.Row, len(b.scores))
	for i, s := range b.scores {
		result := "lost"
		if s.Won {
			result = "won"
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", s.Score),
			s.Player,
			result,
			s.CreatedAt.Local().Format("15:04:05"),
		}
	}
	b.table.SetRows(rows)
	b.table.GotoTop()
}

// update scrolls the table.
func (b scoreboard) update(msg tea.Msg) (scoreboard, tea.Cmd) {
	var cmd tea.Cmd
	b.table, cmd = b.table.Update(msg)
	return b, cmd
}

func (b scoreboard) view() string {
	if len(b.scores) == 0 {
		return scoreboardStyle.Render(emptyStyle.Render("No games finished yet."))
	}
	return scoreboardStyle.Render(b.table.View())
}
