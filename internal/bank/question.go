package bank

import (
	"strings"
	"time"
)

// Type is the answer format of a question.
type Type string

const (
	TypeTrueFalse      Type = "true_false"
	TypeMultipleChoice Type = "multiple_choice"
	TypeNumerical      Type = "numerical"
)

// Types lists every valid question type in display order.
var Types = []Type{TypeTrueFalse, TypeMultipleChoice, TypeNumerical}

// ParseType validates s against the closed set of question types.
func ParseType(s string) (Type, error) {
	t := Type(strings.TrimSpace(s))
	for _, v := range Types {
		if t == v {
			return t, nil
		}
	}
	return "", &ValidationError{Field: "type", Value: s, Allowed: typeNames()}
}

// DisplayName returns a human-readable label for the type.
func (t Type) DisplayName() string {
	switch t {
	case TypeTrueFalse:
		return "True/False"
	case TypeMultipleChoice:
		return "Multiple Choice"
	case TypeNumerical:
		return "Numerical"
	default:
		return string(t)
	}
}

// Status is the editorial review state of a question.
type Status string

const (
	StatusAccepted       Status = "accepted"
	StatusReviewNeeded   Status = "review_needed"
	StatusRevisionNeeded Status = "revision_needed"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusAccepted, StatusReviewNeeded, StatusRevisionNeeded}

// ParseStatus validates s against the closed set of review statuses.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.TrimSpace(s))
	for _, v := range Statuses {
		if st == v {
			return st, nil
		}
	}
	return "", &ValidationError{Field: "status", Value: s, Allowed: statusNames()}
}

// DateLayout is the on-disk layout of last-used dates (YYMMDD).
const DateLayout = "060102"

// Date is a calendar date without time of day. The zero Date means "never".
type Date struct {
	t time.Time
}

// NewDate truncates t to its calendar day in t's location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYMMDD string. An empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil || len(s) != len(DateLayout) {
		return Date{}, &ValidationError{Field: "last", Value: s, Allowed: []string{"YYMMDD"}}
	}
	return Date{t: t}, nil
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Before reports whether d is strictly earlier than o. The zero Date sorts first.
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time { return d.t }

// String formats the date as YYMMDD, or "" when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// Question is a single record in the bank.
type Question struct {
	Type        Type
	Topic       string
	Title       string
	Wording     string
	Choices     string
	Solution    string
	Explanation string
	Status      Status
	Counter     int
	LastUsed    Date
}

// Fields holds the raw, unvalidated attributes of a question as they
// appear in storage.
type Fields struct {
	Type        string
	Topic       string
	Title       string
	Wording     string
	Choices     string
	Solution    string
	Explanation string
	Status      string
	Counter     int
	Last        string
}

// NewQuestion validates f and builds a Question from it.
func NewQuestion(f Fields) (*Question, error) {
	typ, err := ParseType(f.Type)
	if err != nil {
		return nil, err
	}
	status, err := ParseStatus(f.Status)
	if err != nil {
		return nil, err
	}
	last, err := ParseDate(f.Last)
	if err != nil {
		return nil, err
	}
	if f.Counter < 0 {
		return nil, &ValidationError{Field: "counter", Value: itoa(f.Counter), Allowed: []string{">= 0"}}
	}
	return &Question{
		Type:        typ,
		Topic:       f.Topic,
		Title:       f.Title,
		Wording:     f.Wording,
		Choices:     f.Choices,
		Solution:    f.Solution,
		Explanation: f.Explanation,
		Status:      status,
		Counter:     f.Counter,
		LastUsed:    last,
	}, nil
}

// Fields returns the storage representation of q.
func (q *Question) Fields() Fields {
	return Fields{
		Type:        string(q.Type),
		Topic:       q.Topic,
		Title:       q.Title,
		Wording:     q.Wording,
		Choices:     q.Choices,
		Solution:    q.Solution,
		Explanation: q.Explanation,
		Status:      string(q.Status),
		Counter:     q.Counter,
		Last:        q.LastUsed.String(),
	}
}

// Key identifies the underlying question. Records sharing a key are
// textual variants of one another.
type Key struct {
	Type    Type
	Topic   string
	Title   string
	Choices string
}

// Key returns the identity key of q.
func (q *Question) Key() Key {
	return Key{Type: q.Type, Topic: q.Topic, Title: q.Title, Choices: q.Choices}
}

// MarkUsed records one more use of q on the given day.
func (q *Question) MarkUsed(now time.Time) {
	q.Counter++
	q.LastUsed = NewDate(now)
}

// Matches reports whether q belongs to the given topic and type.
func (q *Question) Matches(topic string, typ Type) bool {
	return q.Topic == topic && q.Type == typ
}
