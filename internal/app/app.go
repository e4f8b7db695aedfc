package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/exambank/internal/exam"
	"github.com/abhisek/exambank/internal/export"
	"github.com/abhisek/exambank/internal/review"
	"github.com/abhisek/exambank/internal/router"
	"github.com/abhisek/exambank/internal/screen"
	"github.com/abhisek/exambank/internal/screens/approve"
	"github.com/abhisek/exambank/internal/screens/examreview"
	"github.com/abhisek/exambank/internal/ui/layout"
)

// AppModel is the root Bubble Tea model for reviewing one exam.
type AppModel struct {
	router   *router.Router
	exam     *exam.Exam
	decision review.Decision
	width    int
	height   int
}

// newAppModel creates an AppModel with the review screen at the bottom
// of the stack.
func newAppModel(e *exam.Exam, r review.Replacer) AppModel {
	return AppModel{
		router:   router.New(examreview.New(e, r)),
		exam:     e,
		decision: review.DecisionRejected,
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case approve.DecisionMsg:
		m.decision = msg.Decision
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.decision = review.DecisionRejected
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}
	status := fmt.Sprintf("%d questions · %s pts", m.exam.Len(), export.FormatPoints(m.exam.TotalPoints()))
	header := layout.RenderHeader(title, status, m.width)

	var hints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		hints = hp.KeyHints()
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run shows the review UI for e until the author approves, rejects, or
// quits. Quitting counts as a rejection.
func Run(e *exam.Exam, r review.Replacer) (review.Decision, error) {
	p := tea.NewProgram(newAppModel(e, r))
	final, err := p.Run()
	if err != nil {
		return review.DecisionRejected, fmt.Errorf("run review UI: %w", err)
	}
	if m, ok := final.(AppModel); ok {
		return m.decision, nil
	}
	return review.DecisionRejected, nil
}
