package bank

import (
	"context"
	"sort"
)

// Store loads and persists a whole bank.
type Store interface {
	// Load reads every question from the backing store.
	Load(ctx context.Context) (*Bank, error)

	// Save replaces the backing store's contents with b.
	Save(ctx context.Context, b *Bank) error
}

// Bank is the ordered collection of available questions. Questions are
// held by reference so that exams can point at the records they use.
type Bank struct {
	questions []*Question
}

// New creates a bank holding qs in order.
func New(qs ...*Question) *Bank {
	return &Bank{questions: qs}
}

// Questions returns the bank's records in storage order. The slice is a
// copy; the records are shared.
func (b *Bank) Questions() []*Question {
	out := make([]*Question, len(b.questions))
	copy(out, b.questions)
	return out
}

// Len returns the number of records.
func (b *Bank) Len() int { return len(b.questions) }

// Add appends authored questions to the bank.
func (b *Bank) Add(qs ...*Question) {
	b.questions = append(b.questions, qs...)
}

// Filter returns the records matching topic and type, in storage order.
func (b *Bank) Filter(topic string, typ Type) []*Question {
	var out []*Question
	for _, q := range b.questions {
		if q.Matches(topic, typ) {
			out = append(out, q)
		}
	}
	return out
}

// Titles returns the set of titles in use for topic and type.
func (b *Bank) Titles(topic string, typ Type) map[string]bool {
	out := make(map[string]bool)
	for _, q := range b.Filter(topic, typ) {
		out[q.Title] = true
	}
	return out
}

// Topics returns the distinct topics in order of first appearance.
func (b *Bank) Topics() []string {
	seen := make(map[string]bool)
	var out []string
	for _, q := range b.questions {
		if !seen[q.Topic] {
			seen[q.Topic] = true
			out = append(out, q.Topic)
		}
	}
	return out
}

// GroupStats summarizes usage of the questions in one topic/type group.
type GroupStats struct {
	Topic     string
	Type      Type
	Count     int
	Accepted  int
	TotalUses int
	NeverUsed int
	LastUsed  Date
}

// Stats returns per-topic/type usage, sorted by topic then type order.
func (b *Bank) Stats() []GroupStats {
	type groupKey struct {
		topic string
		typ   Type
	}
	groups := make(map[groupKey]*GroupStats)
	for _, q := range b.questions {
		k := groupKey{q.Topic, q.Type}
		g, ok := groups[k]
		if !ok {
			g = &GroupStats{Topic: q.Topic, Type: q.Type}
			groups[k] = g
		}
		g.Count++
		g.TotalUses += q.Counter
		if q.Status == StatusAccepted {
			g.Accepted++
		}
		if q.Counter == 0 {
			g.NeverUsed++
		}
		if g.LastUsed.Before(q.LastUsed) {
			g.LastUsed = q.LastUsed
		}
	}

	out := make([]GroupStats, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Topic != out[j].Topic {
			return out[i].Topic < out[j].Topic
		}
		return typeRank(out[i].Type) < typeRank(out[j].Type)
	})
	return out
}

func typeRank(t Type) int {
	for i, v := range Types {
		if v == t {
			return i
		}
	}
	return len(Types)
}
