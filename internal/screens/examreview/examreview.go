// Package examreview is the interactive screen for replacing questions
// of a proposed exam before approval.
package examreview

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/exambank/internal/exam"
	"github.com/abhisek/exambank/internal/export"
	"github.com/abhisek/exambank/internal/review"
	"github.com/abhisek/exambank/internal/router"
	"github.com/abhisek/exambank/internal/screen"
	"github.com/abhisek/exambank/internal/screens/approve"
	"github.com/abhisek/exambank/internal/ui/components"
	"github.com/abhisek/exambank/internal/ui/layout"
	"github.com/abhisek/exambank/internal/ui/theme"
)

// ReviewScreen lists the exam's questions with a cursor.
type ReviewScreen struct {
	exam     *exam.Exam
	replacer review.Replacer

	cursor  int // 0-based
	offset  int // first visible row
	input   *components.TextInput
	message string
	failed  bool
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)

// New creates a review screen for e.
func New(e *exam.Exam, r review.Replacer) *ReviewScreen {
	return &ReviewScreen{exam: e, replacer: r}
}

func (s *ReviewScreen) Init() tea.Cmd {
	return nil
}

func (s *ReviewScreen) Title() string {
	return "Review " + s.exam.Name
}

func (s *ReviewScreen) KeyHints() []layout.KeyHint {
	if s.input != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Replace"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "r", Description: "Replace"},
		{Key: "n", Description: "Replace #"},
		{Key: "a", Description: "Approve…"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Cursor returns the 1-based number of the highlighted question.
func (s *ReviewScreen) Cursor() int {
	return s.cursor + 1
}

// Message returns the last status line.
func (s *ReviewScreen) Message() string {
	return s.message
}

func (s *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if s.input != nil {
		return s.updateInput(kmsg)
	}

	switch kmsg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < s.exam.Len()-1 {
			s.cursor++
		}
	case "r", "enter":
		s.replace(s.cursor + 1)
	case "n":
		ti := components.NewTextInput("question number", true, 4)
		s.input = &ti
		s.message = ""
	case "a":
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: approve.New(s.exam)} }
	}
	return s, nil
}

func (s *ReviewScreen) updateInput(kmsg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch kmsg.String() {
	case "esc":
		s.input = nil
		return s, nil
	case "enter":
		n, err := s.input.NumericValue()
		s.input = nil
		if err != nil || n < 1 || n > s.exam.Len() {
			s.setMessage(fmt.Sprintf("Enter a number between 1 and %d.", s.exam.Len()), true)
			return s, nil
		}
		s.cursor = n - 1
		s.replace(n)
		return s, nil
	}

	var cmd tea.Cmd
	*s.input, cmd = s.input.Update(kmsg)
	return s, cmd
}

func (s *ReviewScreen) replace(n int) {
	ok, err := s.replacer.Replace(s.exam, n)
	switch {
	case err != nil:
		s.setMessage(err.Error(), true)
	case !ok:
		s.setMessage(fmt.Sprintf("No replacement available for question %d.", n), true)
	default:
		s.setMessage(fmt.Sprintf("Question %d replaced.", n), false)
	}
}

func (s *ReviewScreen) setMessage(m string, failed bool) {
	s.message = m
	s.failed = failed
}

func (s *ReviewScreen) View(width, height int) string {
	var lines []string
	for i, en := range s.exam.Entries() {
		q := en.Question
		line := fmt.Sprintf("Q%02d  %-14s %-16s %5s pts  %s",
			i+1, truncate(q.Topic, 14), q.Type.DisplayName(), export.FormatPoints(en.Points), q.Wording)
		line = truncate(line, width-6)
		if i == s.cursor {
			lines = append(lines, theme.Selected.Render("▸ "+line))
		} else {
			lines = append(lines, theme.Unselected.Render("  "+line))
		}
	}

	// Keep the cursor visible, leaving room for the status lines.
	visible := height - 4
	if visible < 1 {
		visible = 1
	}
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+visible {
		s.offset = s.cursor - visible + 1
	}
	end := min(len(lines), s.offset+visible)

	var b strings.Builder
	b.WriteString(strings.Join(lines[s.offset:end], "\n"))
	b.WriteString("\n\n")
	switch {
	case s.input != nil:
		b.WriteString("Replace question: " + s.input.View())
	case s.message != "" && s.failed:
		b.WriteString(theme.Warning.Render(s.message))
	case s.message != "":
		b.WriteString(theme.Notice.Render(s.message))
	}
	return b.String()
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
