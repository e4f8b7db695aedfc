// Package draft asks a language model for new bank questions and keeps
// the ones that pass validation. Drafted questions always enter the bank
// as review_needed so an author checks them before they reach an exam.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/exambank/internal/bank"
	"github.com/abhisek/exambank/internal/llm"
)

// ChoiceSeparator joins multiple-choice options in the bank's choices
// field.
const ChoiceSeparator = " | "

// Input names what to draft.
type Input struct {
	Topic    string
	Type     bank.Type
	Count    int
	Guidance string
}

// Config tunes a Drafter.
type Config struct {
	Validators  []Validator
	MaxTokens   int
	Temperature float64
	// MaxRounds bounds how many model calls one Draft may make while
	// rejected drafts leave it short of Count.
	MaxRounds int
	// MaxTitles caps the taken titles listed in the prompt.
	MaxTitles int
}

// DefaultConfig returns the standard validator chain and limits.
func DefaultConfig() Config {
	return Config{
		Validators:  DefaultValidators(),
		MaxTokens:   4096,
		Temperature: 0.7,
		MaxRounds:   3,
		MaxTitles:   200,
	}
}

// Rejection records a draft that was discarded.
type Rejection struct {
	Title  string
	Reason string
}

// Result holds the accepted questions and every rejected draft.
type Result struct {
	Questions []*bank.Question
	Rejected  []Rejection
}

// Drafter writes questions with a Provider.
type Drafter struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

// New returns a Drafter. A nil logger discards output.
func New(p llm.Provider, cfg Config, log *zap.Logger) *Drafter {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxRounds < 1 {
		cfg.MaxRounds = 1
	}
	return &Drafter{provider: p, cfg: cfg, log: log}
}

// Draft asks for in.Count new questions of in.Type on in.Topic. Drafts
// whose title is already used in b for the same topic and type, or that
// repeat an earlier draft, are rejected. b is not modified.
func (d *Drafter) Draft(ctx context.Context, b *bank.Bank, in Input) (*Result, error) {
	if in.Count <= 0 {
		return nil, fmt.Errorf("draft count must be positive, got %d", in.Count)
	}
	if strings.TrimSpace(in.Topic) == "" {
		return nil, errors.New("draft topic is empty")
	}
	if _, err := bank.ParseType(string(in.Type)); err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeDraft)
	taken := b.Titles(in.Topic, in.Type)
	res := &Result{}

	for round := 0; round < d.cfg.MaxRounds && len(res.Questions) < in.Count; round++ {
		want := in
		want.Count = in.Count - len(res.Questions)

		req := llm.UserPrompt(systemPrompt, buildPrompt(want, taken, d.cfg.MaxTitles), BatchSchema, d.cfg.MaxTokens)
		req.Temperature = d.cfg.Temperature

		resp, err := d.provider.Generate(ctx, req)
		if err != nil {
			if len(res.Questions) > 0 {
				d.log.Warn("draft round failed, keeping earlier drafts", zap.Int("round", round+1), zap.Error(err))
				break
			}
			return nil, fmt.Errorf("draft questions: %w", err)
		}

		var out batch
		if err := json.Unmarshal(resp.Content, &out); err != nil {
			return nil, fmt.Errorf("parse drafted questions: %w", err)
		}

		for i := range out.Questions {
			if len(res.Questions) == in.Count {
				break
			}
			c := &out.Questions[i]
			q, reason := d.accept(c, in, taken)
			if reason != "" {
				res.Rejected = append(res.Rejected, Rejection{Title: c.Title, Reason: reason})
				d.log.Info("draft rejected", zap.String("title", c.Title), zap.String("reason", reason))
				continue
			}
			taken[q.Title] = true
			res.Questions = append(res.Questions, q)
		}
		d.log.Info("draft round",
			zap.Int("round", round+1),
			zap.Int("returned", len(out.Questions)),
			zap.Int("accepted", len(res.Questions)),
			zap.Int("rejected", len(res.Rejected)))
	}
	return res, nil
}

// accept validates c and converts it into a bank question, or returns
// the reason it was rejected.
func (d *Drafter) accept(c *candidate, in Input, taken map[string]bool) (*bank.Question, string) {
	c.Title = strings.TrimSpace(c.Title)
	for _, v := range d.cfg.Validators {
		if verr := v.Validate(c, in.Type); verr != nil {
			return nil, verr.Error()
		}
	}
	if taken[c.Title] {
		return nil, fmt.Sprintf("title %q is already in the bank", c.Title)
	}

	solution := strings.TrimSpace(c.Solution)
	if in.Type == bank.TypeTrueFalse {
		solution = strings.ToLower(solution)
	}
	choices := make([]string, len(c.Choices))
	for i, ch := range c.Choices {
		choices[i] = strings.TrimSpace(ch)
	}

	q, err := bank.NewQuestion(bank.Fields{
		Type:        string(in.Type),
		Topic:       in.Topic,
		Title:       c.Title,
		Wording:     strings.TrimSpace(c.Wording),
		Choices:     strings.Join(choices, ChoiceSeparator),
		Solution:    solution,
		Explanation: strings.TrimSpace(c.Explanation),
		Status:      string(bank.StatusReviewNeeded),
	})
	if err != nil {
		return nil, err.Error()
	}
	return q, nil
}
