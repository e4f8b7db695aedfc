package bank

import (
	"errors"
	"testing"
	"time"
)

func validFields() Fields {
	return Fields{
		Type:        "numerical",
		Topic:       "kinematics",
		Title:       "Falling stone",
		Wording:     "A stone falls for 2 s. How far does it fall?",
		Solution:    "19.6",
		Explanation: "s = g t^2 / 2",
		Status:      "accepted",
		Counter:     2,
		Last:        "241204",
	}
}

func TestNewQuestion_Valid(t *testing.T) {
	q, err := NewQuestion(validFields())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Type != TypeNumerical {
		t.Errorf("Type = %q, want %q", q.Type, TypeNumerical)
	}
	if q.Status != StatusAccepted {
		t.Errorf("Status = %q, want %q", q.Status, StatusAccepted)
	}
	if got := q.LastUsed.String(); got != "241204" {
		t.Errorf("LastUsed = %q, want 241204", got)
	}
}

func TestNewQuestion_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Fields)
		field  string
	}{
		{"bad type", func(f *Fields) { f.Type = "essay" }, "type"},
		{"bad status", func(f *Fields) { f.Status = "draft" }, "status"},
		{"bad date format", func(f *Fields) { f.Last = "2024-12-04" }, "last"},
		{"impossible date", func(f *Fields) { f.Last = "241340" }, "last"},
		{"negative counter", func(f *Fields) { f.Counter = -1 }, "counter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)
			_, err := NewQuestion(f)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestNewQuestion_EmptyLastIsNever(t *testing.T) {
	f := validFields()
	f.Last = ""
	q, err := NewQuestion(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.LastUsed.IsZero() {
		t.Errorf("expected zero LastUsed, got %s", q.LastUsed)
	}
	if q.Fields().Last != "" {
		t.Errorf("expected empty Last in fields, got %q", q.Fields().Last)
	}
}

func TestMarkUsed(t *testing.T) {
	q, _ := NewQuestion(validFields())
	now := time.Date(2025, 4, 14, 17, 30, 0, 0, time.UTC)
	q.MarkUsed(now)
	if q.Counter != 3 {
		t.Errorf("Counter = %d, want 3", q.Counter)
	}
	if q.LastUsed.String() != "250414" {
		t.Errorf("LastUsed = %s, want 250414", q.LastUsed)
	}
}

func TestKey_IgnoresWording(t *testing.T) {
	a, _ := NewQuestion(validFields())
	f := validFields()
	f.Wording = "A pebble is dropped and falls for 2 s. Find the distance."
	b, _ := NewQuestion(f)
	if a.Key() != b.Key() {
		t.Error("expected textual variants to share a key")
	}
	f.Choices = "a) 9.8 | b) 19.6"
	c, _ := NewQuestion(f)
	if a.Key() == c.Key() {
		t.Error("expected a different choice set to change the key")
	}
}

func TestDateOrdering(t *testing.T) {
	early, _ := ParseDate("240101")
	late, _ := ParseDate("250101")
	if !early.Before(late) {
		t.Error("expected 240101 before 250101")
	}
	if !(Date{}).Before(early) {
		t.Error("expected zero date to sort first")
	}
}
