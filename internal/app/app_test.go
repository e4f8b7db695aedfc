package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/exambank/internal/bank"
	"github.com/abhisek/exambank/internal/exam"
	"github.com/abhisek/exambank/internal/review"
	"github.com/abhisek/exambank/internal/screens/approve"
)

type nopReplacer struct{}

func (nopReplacer) Replace(*exam.Exam, int) (bool, error) { return false, nil }

func testModel() AppModel {
	e := exam.New("Quiz")
	e.Add(&bank.Question{Type: bank.TypeTrueFalse, Topic: "T", Title: "a", Wording: "a?"}, 1)
	return newAppModel(e, nopReplacer{})
}

// drain runs cmd and feeds the resulting message back into the model,
// following one level of navigation.
func drain(m AppModel, cmd tea.Cmd) (AppModel, tea.Cmd) {
	if cmd == nil {
		return m, nil
	}
	next, cmd := m.Update(cmd())
	return next.(AppModel), cmd
}

func TestDecisionQuits(t *testing.T) {
	m := testModel()
	next, cmd := m.Update(approve.DecisionMsg{Decision: review.DecisionApproved})
	if next.(AppModel).decision != review.DecisionApproved {
		t.Fatal("decision not recorded")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg, got %T", cmd())
	}
}

func TestCtrlCRejects(t *testing.T) {
	m := testModel()
	m.decision = review.DecisionApproved
	next, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if next.(AppModel).decision != review.DecisionRejected {
		t.Fatal("ctrl+c should reject")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestApproveScreenFlow(t *testing.T) {
	m := testModel()

	// "a" pushes the approval screen.
	next, cmd := m.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	m = next.(AppModel)
	m, _ = drain(m, cmd)
	if m.router.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", m.router.Depth())
	}

	// Esc goes back to review.
	next, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	m = next.(AppModel)
	m, _ = drain(m, cmd)
	if m.router.Depth() != 1 {
		t.Fatalf("depth after esc = %d, want 1", m.router.Depth())
	}
	if _, ok := m.router.Active().(interface{ Cursor() int }); !ok {
		t.Fatal("expected review screen on top")
	}

	// Approve is the first menu item.
	next, cmd = m.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	m = next.(AppModel)
	m, _ = drain(m, cmd)
	next, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m = next.(AppModel)
	m, cmd = drain(m, cmd)
	if m.decision != review.DecisionApproved {
		t.Fatalf("decision = %v, want approved", m.decision)
	}
	if cmd == nil {
		t.Fatal("expected quit after decision")
	}
}

func TestViewTooSmall(t *testing.T) {
	m := testModel()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	v := next.(AppModel).View()
	if v.Content == nil {
		t.Fatal("expected size warning")
	}
}
