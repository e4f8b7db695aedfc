package exam

import (
	"time"

	"github.com/abhisek/exambank/internal/bank"
)

// Approve records one more use, dated now, for every question in e.
// Callers persist the bank afterwards. The returned func puts the usage
// back as it was, for when the approval cannot be completed.
func Approve(e *Exam, now time.Time) (undo func()) {
	type usage struct {
		q       *bank.Question
		counter int
		last    bank.Date
	}
	before := make([]usage, 0, len(e.entries))
	for _, en := range e.entries {
		before = append(before, usage{q: en.Question, counter: en.Question.Counter, last: en.Question.LastUsed})
		en.Question.MarkUsed(now)
	}
	return func() {
		for _, u := range before {
			u.q.Counter = u.counter
			u.q.LastUsed = u.last
		}
	}
}
