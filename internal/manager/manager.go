// Package manager ties the bank, selection rules, exporters, and history
// together into the create/review/confirm workflow.
package manager

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/exambank/internal/bank"
	"github.com/abhisek/exambank/internal/config"
	"github.com/abhisek/exambank/internal/exam"
	"github.com/abhisek/exambank/internal/export"
	"github.com/abhisek/exambank/internal/storage"
	"github.com/abhisek/exambank/internal/store"
)

// Options configures a Manager.
type Options struct {
	Store        bank.Store // required
	Points       config.Points
	Requirements config.Requirements

	Shuffle      bool
	AcceptedOnly bool
	Policy       exam.Policy
	Rand         exam.Source

	Sink    storage.Sink // required for Confirm
	Formats []export.Format
	History store.ExamRepo // optional

	Logger *zap.Logger
	Now    func() time.Time
}

// Manager owns one loaded bank for the lifetime of a command.
type Manager struct {
	opts Options
	bank *bank.Bank
	log  *zap.Logger
	now  func() time.Time
}

// Result describes a confirmed exam.
type Result struct {
	ID      string // history ID, empty without a history store
	Exports []string
}

// New loads the bank from opts.Store.
func New(ctx context.Context, opts Options) (*Manager, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("manager: no bank store")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	b, err := opts.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	log.Info("bank loaded", zap.Int("questions", b.Len()))

	return &Manager{opts: opts, bank: b, log: log, now: now}, nil
}

// Bank returns the loaded bank.
func (m *Manager) Bank() *bank.Bank {
	return m.bank
}

// CreateExam assembles a new exam from the configured requirements.
func (m *Manager) CreateExam(name string) (*exam.Exam, error) {
	if err := exam.ValidateName(name); err != nil {
		return nil, err
	}
	e, err := exam.Assemble(name, m.bank, m.opts.Requirements, m.opts.Points, exam.Options{
		Shuffle:      m.opts.Shuffle,
		AcceptedOnly: m.opts.AcceptedOnly,
		Rand:         m.opts.Rand,
	})
	if err != nil {
		m.log.Warn("assembly failed", zap.String("exam", name), zap.Error(err))
		return nil, err
	}
	m.log.Info("exam assembled",
		zap.String("exam", name),
		zap.Int("questions", e.Len()),
		zap.Float64("points", e.TotalPoints()))
	return e, nil
}

// Replace swaps question n of e. It reports false when the bank has no
// other candidate.
func (m *Manager) Replace(e *exam.Exam, n int) (bool, error) {
	before, err := e.At(n)
	if err != nil {
		return false, err
	}
	ok, err := exam.Replace(e, n, m.bank, exam.ReplaceOptions{
		Policy:       m.opts.Policy,
		AcceptedOnly: m.opts.AcceptedOnly,
		Rand:         m.opts.Rand,
	})
	if err != nil {
		return false, err
	}
	if !ok {
		m.log.Info("no replacement available",
			zap.Int("number", n),
			zap.String("topic", before.Question.Topic),
			zap.String("type", string(before.Question.Type)))
		return false, nil
	}
	after, _ := e.At(n)
	m.log.Debug("question replaced",
		zap.Int("number", n),
		zap.String("from", before.Question.Title),
		zap.String("to", after.Question.Title))
	return true, nil
}

// Confirm finalizes an approved exam: usage is recorded, the blueprint
// is exported, the bank is saved, and the exam is added to history. If
// exporting or saving fails the usage is rolled back, so nothing is
// persisted and the same exam can be confirmed again.
func (m *Manager) Confirm(ctx context.Context, e *exam.Exam) (*Result, error) {
	if m.opts.Sink == nil {
		return nil, fmt.Errorf("manager: no export sink")
	}
	now := m.now()

	undo := exam.Approve(e, now)
	locs, err := export.Export(ctx, m.opts.Sink, e, m.opts.Formats)
	if err != nil {
		undo()
		m.log.Warn("export failed, usage not recorded", zap.String("exam", e.Name), zap.Error(err))
		return nil, fmt.Errorf("export: %w", err)
	}
	if err := m.opts.Store.Save(ctx, m.bank); err != nil {
		undo()
		m.log.Warn("bank save failed, usage not recorded",
			zap.String("exam", e.Name), zap.Strings("exports", locs), zap.Error(err))
		return nil, fmt.Errorf("save bank: %w", err)
	}

	res := &Result{Exports: locs}
	if m.opts.History != nil {
		id, err := m.opts.History.Record(ctx, e, locs, now)
		if err != nil {
			return nil, fmt.Errorf("record history: %w", err)
		}
		res.ID = id
	}

	m.log.Info("exam confirmed",
		zap.String("exam", e.Name),
		zap.String("id", res.ID),
		zap.Strings("exports", locs))
	return res, nil
}

// Reject discards e. The bank is left untouched.
func (m *Manager) Reject(e *exam.Exam) {
	m.log.Info("exam rejected", zap.String("exam", e.Name))
}
