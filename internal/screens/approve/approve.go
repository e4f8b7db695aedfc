package approve

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/exambank/internal/exam"
	"github.com/abhisek/exambank/internal/export"
	"github.com/abhisek/exambank/internal/review"
	"github.com/abhisek/exambank/internal/router"
	"github.com/abhisek/exambank/internal/screen"
	"github.com/abhisek/exambank/internal/ui/components"
	"github.com/abhisek/exambank/internal/ui/layout"
	"github.com/abhisek/exambank/internal/ui/theme"
)

// DecisionMsg reports the author's final answer for the exam.
type DecisionMsg struct {
	Decision review.Decision
}

// ApproveScreen asks whether to approve, reject, or keep reviewing.
type ApproveScreen struct {
	exam *exam.Exam
	menu components.Menu
}

var _ screen.Screen = (*ApproveScreen)(nil)
var _ screen.KeyHintProvider = (*ApproveScreen)(nil)

func decide(d review.Decision) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg { return DecisionMsg{Decision: d} }
	}
}

// New creates the approval screen for e.
func New(e *exam.Exam) *ApproveScreen {
	return &ApproveScreen{
		exam: e,
		menu: components.NewMenu([]components.MenuItem{
			{Label: "Approve", Action: decide(review.DecisionApproved)},
			{Label: "Reject", Action: decide(review.DecisionRejected)},
			{Label: "Go back", Action: func() tea.Cmd {
				return func() tea.Msg { return router.PopScreenMsg{} }
			}},
		}),
	}
}

func (s *ApproveScreen) Init() tea.Cmd {
	return nil
}

func (s *ApproveScreen) Title() string {
	return "Approve Exam"
}

func (s *ApproveScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ApproveScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *ApproveScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Exam %s", s.exam.Name)))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("%d questions, %s points",
		s.exam.Len(), export.FormatPoints(s.exam.TotalPoints()))))
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Approving records one more use of every question and exports the blueprint."))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
