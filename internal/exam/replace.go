package exam

import (
	"fmt"

	"github.com/abhisek/exambank/internal/bank"
)

// Policy selects which candidate replaces a question.
type Policy string

const (
	PolicyRandom    Policy = "random"
	PolicyLeastUsed Policy = "least-used"
)

// ParsePolicy validates a replacement policy name. Empty means random.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyRandom:
		return PolicyRandom, nil
	case PolicyLeastUsed:
		return PolicyLeastUsed, nil
	}
	return "", fmt.Errorf("unknown replacement policy %q", s)
}

// ReplaceOptions control how a replacement is picked.
type ReplaceOptions struct {
	Policy       Policy
	AcceptedOnly bool
	Rand         Source
}

// Replace swaps the question at 1-based position n for another question
// of the same topic and type that is not already in the exam. It reports
// false, leaving the exam unchanged, when no such question exists.
func Replace(e *Exam, n int, b *bank.Bank, opts ReplaceOptions) (bool, error) {
	if n < 1 || n > e.Len() {
		return false, ErrIndexOutOfRange
	}
	target := e.entries[n-1].Question
	taken := e.keys()

	var pool []*bank.Question
	for _, q := range b.Filter(target.Topic, target.Type) {
		// Covers the target, every other exam question, and their variants.
		if taken[q.Key()] {
			continue
		}
		if opts.AcceptedOnly && q.Status != bank.StatusAccepted {
			continue
		}
		pool = append(pool, q)
	}
	if len(pool) == 0 {
		return false, nil
	}

	var pick *bank.Question
	switch opts.Policy {
	case PolicyLeastUsed:
		sortLeastUsed(pool)
		pick = pool[0]
	default:
		pick = pool[sourceOrDefault(opts.Rand).IntN(len(pool))]
	}
	e.swap(n-1, pick)
	return true, nil
}
