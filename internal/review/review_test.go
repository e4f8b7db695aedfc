package review

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/exambank/internal/bank"
	"github.com/abhisek/exambank/internal/exam"
)

// fakeReplacer records calls and answers from a fixed script.
type fakeReplacer struct {
	calls  []int
	result map[int]bool
	err    error
}

func (f *fakeReplacer) Replace(e *exam.Exam, n int) (bool, error) {
	f.calls = append(f.calls, n)
	if f.err != nil {
		return false, f.err
	}
	if n < 1 || n > e.Len() {
		return false, exam.ErrIndexOutOfRange
	}
	return f.result[n], nil
}

func testExam() *exam.Exam {
	e := exam.New("Quiz")
	for _, title := range []string{"a", "b", "c"} {
		e.Add(&bank.Question{Type: bank.TypeNumerical, Topic: "T", Title: title, Wording: title + "?"}, 1)
	}
	return e
}

func TestPrompt(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		result    map[int]bool
		want      Decision
		wantCalls []int
		wantOut   []string
	}{
		{
			name:      "approve straight away",
			input:     "0\nyes\n",
			want:      DecisionApproved,
			wantCalls: nil,
		},
		{
			name:      "reject",
			input:     "0\nno\n",
			want:      DecisionRejected,
			wantCalls: nil,
		},
		{
			name:      "replace then approve",
			input:     "2\n0\ny\n",
			result:    map[int]bool{2: true},
			want:      DecisionApproved,
			wantCalls: []int{2},
			wantOut:   []string{"Question 2 replaced."},
		},
		{
			name:      "replacement unavailable",
			input:     "3\n0\nn\n",
			want:      DecisionRejected,
			wantCalls: []int{3},
			wantOut:   []string{"No replacement available for question 3."},
		},
		{
			name:      "invalid numbers are re-prompted",
			input:     "abc\n7\n-1\n0\nyes\n",
			want:      DecisionApproved,
			wantCalls: nil,
			wantOut:   []string{`Invalid input "abc"`, `Invalid input "7"`, `Invalid input "-1"`},
		},
		{
			name:    "invalid answer is re-prompted",
			input:   "0\nmaybe\nYES\n",
			want:    DecisionApproved,
			wantOut: []string{"Please answer yes, no or back."},
		},
		{
			name:      "go back to replacing",
			input:     "0\nback\n1\n0\nyes\n",
			result:    map[int]bool{1: true},
			want:      DecisionApproved,
			wantCalls: []int{1},
		},
		{
			name:      "end of input rejects",
			input:     "1\n",
			want:      DecisionRejected,
			wantCalls: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeReplacer{result: tt.result}
			var out bytes.Buffer

			got, err := Prompt(strings.NewReader(tt.input), &out, testExam(), r)
			if err != nil {
				t.Fatalf("Prompt error: %v", err)
			}
			if got != tt.want {
				t.Errorf("decision = %v, want %v", got, tt.want)
			}
			if len(r.calls) != len(tt.wantCalls) {
				t.Fatalf("replace calls = %v, want %v", r.calls, tt.wantCalls)
			}
			for i := range r.calls {
				if r.calls[i] != tt.wantCalls[i] {
					t.Errorf("replace calls = %v, want %v", r.calls, tt.wantCalls)
				}
			}
			for _, s := range tt.wantOut {
				if !strings.Contains(out.String(), s) {
					t.Errorf("output missing %q:\n%s", s, out.String())
				}
			}
			if !strings.Contains(out.String(), "EXAM BLUEPRINT") {
				t.Error("blueprint not printed")
			}
		})
	}
}

func TestPrompt_ReplacerError(t *testing.T) {
	r := &fakeReplacer{err: errors.New("boom")}
	_, err := Prompt(strings.NewReader("1\n"), &bytes.Buffer{}, testExam(), r)
	if err == nil || err.Error() != "boom" {
		t.Fatalf("error = %v, want boom", err)
	}
}

func TestDecisionString(t *testing.T) {
	if DecisionApproved.String() != "approved" || DecisionRejected.String() != "rejected" {
		t.Fatal("unexpected decision strings")
	}
}
