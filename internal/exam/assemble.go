package exam

import (
	"fmt"
	"sort"

	"github.com/abhisek/exambank/internal/bank"
	"github.com/abhisek/exambank/internal/config"
)

// Options control how candidates are picked during assembly.
type Options struct {
	// Shuffle randomizes the order of equally used candidates. When false,
	// bank order breaks ties.
	Shuffle bool

	// AcceptedOnly restricts candidates to accepted questions.
	AcceptedOnly bool

	// Rand drives shuffling. Nil uses the runtime generator.
	Rand Source
}

// Assemble builds an exam named name that satisfies every requirement,
// preferring the least used and then least recently used questions.
// Points are looked up once, at selection time.
func Assemble(name string, b *bank.Bank, reqs config.Requirements, points config.Points, opts Options) (*Exam, error) {
	rng := sourceOrDefault(opts.Rand)
	e := New(name)

	for _, req := range reqs {
		if req.Count < 0 {
			return nil, fmt.Errorf("requirement %s/%s: negative count %d", req.Topic, req.Type, req.Count)
		}
		if req.Count == 0 {
			continue
		}

		pool := candidates(b.Filter(req.Topic, req.Type), e.keys(), opts.AcceptedOnly)
		if len(pool) < req.Count {
			return nil, &InsufficientPoolError{
				Topic:     req.Topic,
				Type:      req.Type,
				Required:  req.Count,
				Available: len(pool),
			}
		}

		if opts.Shuffle {
			rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		}
		sortLeastUsed(pool)

		for _, q := range pool[:req.Count] {
			e.Add(q, points.Lookup(q.Type, q.Topic))
		}
	}
	return e, nil
}

// candidates drops records whose identity key is already taken, either by
// the exam or by an earlier record in qs.
func candidates(qs []*bank.Question, taken map[bank.Key]bool, acceptedOnly bool) []*bank.Question {
	seen := make(map[bank.Key]bool, len(qs))
	var out []*bank.Question
	for _, q := range qs {
		if acceptedOnly && q.Status != bank.StatusAccepted {
			continue
		}
		k := q.Key()
		if taken[k] || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, q)
	}
	return out
}

// sortLeastUsed orders by counter, then by last-used date with never-used
// questions first. The sort is stable so earlier ordering breaks ties.
func sortLeastUsed(qs []*bank.Question) {
	sort.SliceStable(qs, func(i, j int) bool {
		if qs[i].Counter != qs[j].Counter {
			return qs[i].Counter < qs[j].Counter
		}
		return qs[i].LastUsed.Before(qs[j].LastUsed)
	})
}
