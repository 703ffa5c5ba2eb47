// Package detail shows a single speaking-test record in full.
package detail

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/speaktest/internal/router"
	"github.com/abhisek/speaktest/internal/screen"
	"github.com/abhisek/speaktest/internal/speakingtest"
	"github.com/abhisek/speaktest/internal/ui/layout"
	"github.com/abhisek/speaktest/internal/ui/theme"
)

// DetailScreen is a read-only view of one record.
type DetailScreen struct {
	record speakingtest.Record
}

var _ screen.Screen = (*DetailScreen)(nil)
var _ screen.KeyHintProvider = (*DetailScreen)(nil)

func New(rec speakingtest.Record) *DetailScreen {
	return &DetailScreen{record: rec}
}

func (d *DetailScreen) Init() tea.Cmd { return nil }

func (d *DetailScreen) Title() string {
	return fmt.Sprintf("Test #%d", d.record.ID)
}

func (d *DetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "q":
			return d, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return d, nil
}

func (d *DetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (d *DetailScreen) View(width, height int) string {
	inner := width - 6
	if inner < 10 {
		inner = 10
	}
	rec := d.record

	response := theme.Hint.Render("No response yet")
	if rec.Response != "" {
		response = theme.Body.Render(layout.Wrap(rec.Response, inner))
	}
	score := theme.Hint.Render("Not scored")
	if rec.Score.Present() {
		score = theme.Score.Render(rec.Score.String())
	}

	sections := []string{
		theme.Label.Render("Question"),
		theme.Body.Render(layout.Wrap(rec.Question, inner)),
		"",
		theme.Label.Render("Response"),
		response,
		"",
		theme.Label.Render("Score") + "  " + score,
		theme.Label.Render("Created") + "  " + theme.Subtitle.Render(rec.CreatedAt.Format()),
	}

	return lipgloss.NewStyle().
		Padding(1, 3).
		MaxHeight(height).
		Render(strings.Join(sections, "\n"))
}
