package examreview

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/exambank/internal/bank"
	"github.com/abhisek/exambank/internal/exam"
	"github.com/abhisek/exambank/internal/router"
)

type stubReplacer struct {
	calls []int
	ok    bool
}

func (r *stubReplacer) Replace(_ *exam.Exam, n int) (bool, error) {
	r.calls = append(r.calls, n)
	return r.ok, nil
}

func testExam() *exam.Exam {
	e := exam.New("Quiz")
	for _, title := range []string{"first", "second", "third"} {
		e.Add(&bank.Question{Type: bank.TypeNumerical, Topic: "Optics", Title: title, Wording: title + " wording"}, 2)
	}
	return e
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestCursorMovement(t *testing.T) {
	s := New(testExam(), &stubReplacer{})

	s.Update(specialKey(tea.KeyUp))
	if s.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", s.Cursor())
	}
	s.Update(specialKey(tea.KeyDown))
	s.Update(keyPress('j'))
	s.Update(specialKey(tea.KeyDown))
	if s.Cursor() != 3 {
		t.Fatalf("cursor = %d, want 3 (clamped)", s.Cursor())
	}
	s.Update(keyPress('k'))
	if s.Cursor() != 2 {
		t.Fatalf("cursor = %d, want 2", s.Cursor())
	}
}

func TestReplaceHighlighted(t *testing.T) {
	r := &stubReplacer{ok: true}
	s := New(testExam(), r)

	s.Update(specialKey(tea.KeyDown))
	s.Update(keyPress('r'))
	s.Update(specialKey(tea.KeyEnter))

	if len(r.calls) != 2 || r.calls[0] != 2 || r.calls[1] != 2 {
		t.Fatalf("calls = %v, want [2 2]", r.calls)
	}
	if s.Message() != "Question 2 replaced." {
		t.Errorf("message = %q", s.Message())
	}
}

func TestReplaceUnavailable(t *testing.T) {
	s := New(testExam(), &stubReplacer{ok: false})
	s.Update(keyPress('r'))
	if !strings.Contains(s.Message(), "No replacement available for question 1") {
		t.Errorf("message = %q", s.Message())
	}
}

func TestReplaceByNumber(t *testing.T) {
	r := &stubReplacer{ok: true}
	s := New(testExam(), r)

	s.Update(keyPress('n'))
	s.Update(keyPress('x')) // ignored in numeric mode
	s.Update(keyPress('3'))
	s.Update(specialKey(tea.KeyEnter))

	if len(r.calls) != 1 || r.calls[0] != 3 {
		t.Fatalf("calls = %v, want [3]", r.calls)
	}
	if s.Cursor() != 3 {
		t.Errorf("cursor = %d, want 3", s.Cursor())
	}
}

func TestReplaceByNumberOutOfRange(t *testing.T) {
	r := &stubReplacer{ok: true}
	s := New(testExam(), r)

	s.Update(keyPress('n'))
	s.Update(keyPress('9'))
	s.Update(specialKey(tea.KeyEnter))

	if len(r.calls) != 0 {
		t.Fatalf("unexpected replace calls %v", r.calls)
	}
	if !strings.Contains(s.Message(), "between 1 and 3") {
		t.Errorf("message = %q", s.Message())
	}
}

func TestNumberInputEscCancels(t *testing.T) {
	r := &stubReplacer{ok: true}
	s := New(testExam(), r)

	s.Update(keyPress('n'))
	s.Update(specialKey(tea.KeyEscape))
	s.Update(keyPress('r'))

	if len(r.calls) != 1 || r.calls[0] != 1 {
		t.Fatalf("calls = %v, want [1]", r.calls)
	}
}

func TestApproveKeyPushesScreen(t *testing.T) {
	s := New(testExam(), &stubReplacer{})
	_, cmd := s.Update(keyPress('a'))
	if cmd == nil {
		t.Fatal("expected push command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "Approve Exam" {
		t.Errorf("pushed %q", msg.Screen.Title())
	}
}

func TestView(t *testing.T) {
	s := New(testExam(), &stubReplacer{})
	view := s.View(100, 20)
	for _, want := range []string{"Q01", "Q03", "first wording", "Numerical"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 4, "hel…"},
		{"hello", 1, "…"},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
