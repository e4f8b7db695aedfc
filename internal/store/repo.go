package store

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/exambank/internal/exam"
)

// QueryOpts configures history queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	From  time.Time // created_at >= From
	To    time.Time // created_at <= To
}

// ExamRecord is an approved exam as kept in history.
type ExamRecord struct {
	ID             string
	Name           string
	TotalQuestions int
	TotalPoints    float64
	Blueprint      exam.Blueprint
	Exports        []string
	CreatedAt      time.Time
}

// ExamRepo records approved exams.
type ExamRepo interface {
	// Record stores e as approved at the given time and returns its ID.
	Record(ctx context.Context, e *exam.Exam, exports []string, at time.Time) (string, error)

	// List returns recorded exams, newest first.
	List(ctx context.Context, opts QueryOpts) ([]ExamRecord, error)

	// Get returns one recorded exam by ID.
	Get(ctx context.Context, id string) (*ExamRecord, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEvent is a stored LLM request.
type LLMRequestEvent struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to the LLM call log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMRequests returns logged calls, newest first.
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
}

// whereRange builds a created_at filter and LIMIT clause with numbered
// placeholders starting at $1.
func whereRange(opts QueryOpts) (string, []any) {
	var clauses []string
	var args []any
	if !opts.From.IsZero() {
		args = append(args, opts.From.UnixMilli())
		clauses = append(clauses, "created_at >= $"+strconv.Itoa(len(args)))
	}
	if !opts.To.IsZero() {
		args = append(args, opts.To.UnixMilli())
		clauses = append(clauses, "created_at <= $"+strconv.Itoa(len(args)))
	}

	var q string
	if len(clauses) > 0 {
		q = " WHERE " + strings.Join(clauses, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC"
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		q += " LIMIT $" + strconv.Itoa(len(args))
	}
	return q, args
}
