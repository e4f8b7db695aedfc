package config

import (
	"github.com/abhisek/exambank/internal/bank"
)

// Requirement is one (topic, type) quota.
type Requirement struct {
	Topic string
	Type  bank.Type
	Count int
}

// Requirements is the ordered list of quotas an exam must satisfy. The
// order is the order in which the author wrote them and determines the
// order of questions in the assembled exam.
type Requirements []Requirement

// Total returns the number of questions the requirements ask for.
func (r Requirements) Total() int {
	n := 0
	for _, req := range r {
		n += req.Count
	}
	return n
}

// Topics returns the distinct topics in requirement order.
func (r Requirements) Topics() []string {
	seen := make(map[string]bool)
	var out []string
	for _, req := range r {
		if !seen[req.Topic] {
			seen[req.Topic] = true
			out = append(out, req.Topic)
		}
	}
	return out
}
