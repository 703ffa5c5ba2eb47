package tests

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/speaktest/internal/speakingtest"
	"github.com/abhisek/speaktest/internal/ui/components"
	"github.com/abhisek/speaktest/internal/ui/layout"
	"github.com/abhisek/speaktest/internal/ui/theme"
)

const (
	loadingText = "Loading speaking tests..."
	emptyText   = "No tests available"
)

func (s *TestListScreen) View(width, height int) string {
	if s.state.PendingInitialLoad {
		return renderLoading(width)
	}

	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	var sections []string
	if s.state.LastError != "" {
		sections = append(sections, s.renderError(inner))
	}
	sections = append(sections, s.renderForm(inner))
	top := strings.Join(sections, "\n")

	listHeight := height - lipgloss.Height(top) - 1
	body := top + "\n" + s.renderList(inner, listHeight)

	return lipgloss.NewStyle().Padding(0, 2).Render(body)
}

func renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n" + loadingText)
}

func (s *TestListScreen) renderError(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(s.state.LastError))

	if s.state.ShowTroubleshooting() {
		target := s.baseURL
		if target == "" {
			target = "the configured API base URL"
		}
		b.WriteString("\n\nTroubleshooting:\n")
		b.WriteString("  • Make sure the backend server is running\n")
		b.WriteString("  • Check that it is listening on the expected port (default 5000)\n")
		fmt.Fprintf(&b, "  • Verify the API base URL: %s\n", target)
		b.WriteString("    (set it with --api-url, SPEAKTEST_API_URL or the config file)")
	}

	return theme.ErrorBox.Width(width).Render(layout.Wrap(b.String(), width-4))
}

func (s *TestListScreen) renderForm(width int) string {
	focused := s.focus == focusForm

	var b strings.Builder
	b.WriteString(theme.Title.Render("Create New Test"))
	b.WriteString("\n")
	b.WriteString(s.input.View(width - 4))
	b.WriteString("\n")
	b.WriteString(components.NewButton("Add Test", focused).View())

	switch {
	case s.suggesting:
		b.WriteString("  " + theme.Hint.Render("Suggesting a question..."))
	case s.suggester != nil && focused:
		b.WriteString("  " + theme.Hint.Render("Ctrl+G for a suggestion"))
	}

	card := theme.Card
	if focused {
		card = theme.CardFocused
	}
	return card.Width(width).Render(b.String())
}

func (s *TestListScreen) renderList(width, height int) string {
	header := theme.Title.Render(fmt.Sprintf("Speaking Tests (%d)", len(s.state.Records)))

	if len(s.state.Records) == 0 {
		return header + "\n" + theme.Hint.Render(emptyText)
	}

	focused := s.focus == focusList
	blocks := make([]string, len(s.state.Records))
	heights := make([]int, len(s.state.Records))
	for i, rec := range s.state.Records {
		blocks[i] = renderRecord(rec, width, focused && i == s.cursor.Selected)
		heights[i] = lipgloss.Height(blocks[i]) + 1
	}

	// Reserve the header and the two overflow markers.
	budget := height - 3
	start, end := components.VisibleRange(heights, s.cursor.Selected, budget)

	var b strings.Builder
	b.WriteString(header)
	if start > 0 {
		b.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("↑ %d more", start)))
	}
	for _, block := range blocks[start:end] {
		b.WriteString("\n" + block)
	}
	if rest := len(blocks) - end; rest > 0 {
		b.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("↓ %d more", rest)))
	}
	return b.String()
}

// renderRecord shows the question and whichever of response, score and
// creation time are present. The selected record also shows its delete key.
func renderRecord(rec speakingtest.Record, width int, selected bool) string {
	marker, qStyle := "  ", theme.Unselected
	if selected {
		marker, qStyle = "▸ ", theme.Selected
	}

	var lines []string
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, marker, qStyle.Render(layout.Wrap(rec.Question, width-2))))
	if rec.Response != "" {
		lines = append(lines, "  "+theme.Label.Render("Response:")+" "+theme.Body.Render(firstLine(rec.Response, width-14)))
	}
	if rec.Score.Present() {
		lines = append(lines, "  "+theme.Label.Render("Score:")+" "+theme.Score.Render(rec.Score.String()))
	}
	lines = append(lines, "  "+theme.Subtitle.Render("Created: "+rec.CreatedAt.Format()))
	if selected {
		lines = append(lines, "  "+theme.Danger.Render("[d] Delete"))
	}
	return strings.Join(lines, "\n")
}

// firstLine truncates s to its first line and at most n columns.
func firstLine(s string, n int) string {
	line, _, cut := strings.Cut(s, "\n")
	runes := []rune(line)
	if n > 1 && len(runes) > n {
		return string(runes[:n-1]) + "…"
	}
	if cut {
		return line + " …"
	}
	return line
}
