// Package exam assembles, reviews, and finalizes exams drawn from a
// question bank.
package exam

import "github.com/abhisek/exambank/internal/bank"

// Entry is one slot of an exam: a bank record and the points it is worth.
type Entry struct {
	Question *bank.Question
	Points   float64
}

// Exam is a named, ordered list of questions. Positions are 1-based when
// shown to people and 0-based internally.
type Exam struct {
	Name    string
	entries []Entry
}

// New creates an empty exam.
func New(name string) *Exam {
	return &Exam{Name: name}
}

// Add appends q worth points to the end of the exam.
func (e *Exam) Add(q *bank.Question, points float64) {
	e.entries = append(e.entries, Entry{Question: q, Points: points})
}

// Len returns the number of questions.
func (e *Exam) Len() int { return len(e.entries) }

// At returns the entry at 1-based position n.
func (e *Exam) At(n int) (Entry, error) {
	if n < 1 || n > len(e.entries) {
		return Entry{}, ErrIndexOutOfRange
	}
	return e.entries[n-1], nil
}

// Entries returns a copy of the exam's entries in order.
func (e *Exam) Entries() []Entry {
	out := make([]Entry, len(e.entries))
	copy(out, e.entries)
	return out
}

// Questions returns the exam's questions in order.
func (e *Exam) Questions() []*bank.Question {
	out := make([]*bank.Question, len(e.entries))
	for i, en := range e.entries {
		out[i] = en.Question
	}
	return out
}

// Contains reports whether q (by reference) is already in the exam.
func (e *Exam) Contains(q *bank.Question) bool {
	for _, en := range e.entries {
		if en.Question == q {
			return true
		}
	}
	return false
}

// keys returns the identity keys of every question in the exam.
func (e *Exam) keys() map[bank.Key]bool {
	out := make(map[bank.Key]bool, len(e.entries))
	for _, en := range e.entries {
		out[en.Question.Key()] = true
	}
	return out
}

// TotalPoints returns the sum of per-question points.
func (e *Exam) TotalPoints() float64 {
	var total float64
	for _, en := range e.entries {
		total += en.Points
	}
	return total
}

// swap puts q at 0-based index i, keeping that slot's points.
func (e *Exam) swap(i int, q *bank.Question) {
	e.entries[i].Question = q
}
