package draft

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/exambank/internal/bank"
	"github.com/abhisek/exambank/internal/llm"
)

func existingBank(t *testing.T) *bank.Bank {
	t.Helper()
	q, err := bank.NewQuestion(bank.Fields{
		Type:     string(bank.TypeTrueFalse),
		Topic:    "Astronomy",
		Title:    "Sun is a star",
		Wording:  "The Sun is a star.",
		Solution: "true",
		Status:   string(bank.StatusAccepted),
	})
	if err != nil {
		t.Fatal(err)
	}
	return bank.New(q)
}

func reply(qs ...map[string]any) llm.MockResponse {
	b, _ := json.Marshal(map[string]any{"questions": qs})
	return llm.MockResponse{Content: json.RawMessage(b)}
}

func tf(title, solution string) map[string]any {
	return map[string]any{
		"title":       title,
		"wording":     title + "?",
		"choices":     []string{},
		"solution":    solution,
		"explanation": "Because.",
	}
}

func TestDraft_TrueFalse(t *testing.T) {
	mock := llm.NewMockProvider(reply(
		tf("Moon has light", "False"),
		tf("Sun is a star", "true"),
		tf("Mars is red", "maybe"),
		tf("Pluto is a planet", "false"),
	))
	d := New(mock, DefaultConfig(), nil)

	res, err := d.Draft(context.Background(), existingBank(t), Input{Topic: "Astronomy", Type: bank.TypeTrueFalse, Count: 2})
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if len(res.Questions) != 2 {
		t.Fatalf("accepted %d, want 2", len(res.Questions))
	}
	q := res.Questions[0]
	if q.Title != "Moon has light" || q.Solution != "false" || q.Topic != "Astronomy" {
		t.Errorf("first question = %+v", q)
	}
	for _, q := range res.Questions {
		if q.Status != bank.StatusReviewNeeded || q.Counter != 0 || !q.LastUsed.IsZero() {
			t.Errorf("drafted question %q has status=%s counter=%d last=%v", q.Title, q.Status, q.Counter, q.LastUsed)
		}
	}
	if len(res.Rejected) != 2 {
		t.Fatalf("rejected %d, want 2: %+v", len(res.Rejected), res.Rejected)
	}
	if !strings.Contains(res.Rejected[0].Reason, "already in the bank") {
		t.Errorf("duplicate title reason = %q", res.Rejected[0].Reason)
	}
	if !strings.Contains(res.Rejected[1].Reason, "true-false") {
		t.Errorf("bad solution reason = %q", res.Rejected[1].Reason)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("provider calls = %d, want 1", len(calls))
	}
	prompt := calls[0].Messages[0].Content
	if !strings.Contains(prompt, "- Sun is a star") || !strings.Contains(prompt, "Number of questions: 2") {
		t.Errorf("prompt missing taken titles or count:\n%s", prompt)
	}
	if calls[0].Schema != BatchSchema {
		t.Error("request did not ask for the batch schema")
	}
}

func TestDraft_SecondRoundFillsShortfall(t *testing.T) {
	mc := func(title, solution string, choices ...string) map[string]any {
		return map[string]any{"title": title, "wording": title, "choices": choices, "solution": solution, "explanation": "x"}
	}
	mock := llm.NewMockProvider(
		reply(mc("Capital of France", "Paris", "Paris", "Rome", "Madrid"), mc("Bad one", "Oslo", "Paris", "Rome", "Madrid")),
		reply(mc("Capital of Italy", "Rome", "Paris", "Rome", "Madrid", "Lisbon")),
	)
	d := New(mock, DefaultConfig(), nil)

	res, err := d.Draft(context.Background(), bank.New(), Input{Topic: "Geography", Type: bank.TypeMultipleChoice, Count: 2})
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if len(res.Questions) != 2 || len(res.Rejected) != 1 {
		t.Fatalf("accepted %d rejected %d", len(res.Questions), len(res.Rejected))
	}
	if got := res.Questions[1].Choices; got != "Paris | Rome | Madrid | Lisbon" {
		t.Errorf("choices = %q", got)
	}
	calls := mock.Calls()
	if len(calls) != 2 {
		t.Fatalf("provider calls = %d, want 2", len(calls))
	}
	second := calls[1].Messages[0].Content
	if !strings.Contains(second, "Number of questions: 1") || !strings.Contains(second, "- Capital of France") {
		t.Errorf("second prompt should ask for the remainder and list the new title:\n%s", second)
	}
}

func TestDraft_DuplicateWithinBatch(t *testing.T) {
	mock := llm.NewMockProvider(reply(
		map[string]any{"title": "Pi", "wording": "Value of pi to two places", "choices": []string{}, "solution": "3.14", "explanation": "x"},
		map[string]any{"title": "Pi", "wording": "Pi again", "choices": []string{}, "solution": "22/7", "explanation": "x"},
	))
	cfg := DefaultConfig()
	cfg.MaxRounds = 1
	d := New(mock, cfg, nil)

	res, err := d.Draft(context.Background(), bank.New(), Input{Topic: "Math", Type: bank.TypeNumerical, Count: 2})
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if len(res.Questions) != 1 || len(res.Rejected) != 1 {
		t.Fatalf("accepted %d rejected %d", len(res.Questions), len(res.Rejected))
	}
}

func TestDraft_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	d := New(mock, DefaultConfig(), nil)

	_, err := d.Draft(context.Background(), bank.New(), Input{Topic: "Math", Type: bank.TypeNumerical, Count: 1})
	var down *llm.ErrProviderUnavailable
	if !errors.As(err, &down) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestDraft_KeepsEarlierRoundsOnLaterFailure(t *testing.T) {
	mock := llm.NewMockProvider(reply(tf("Water boils at 100C", "true")))
	d := New(mock, DefaultConfig(), nil)

	res, err := d.Draft(context.Background(), bank.New(), Input{Topic: "Physics", Type: bank.TypeTrueFalse, Count: 3})
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if len(res.Questions) != 1 {
		t.Fatalf("accepted %d, want 1", len(res.Questions))
	}
}

func TestDraft_InputErrors(t *testing.T) {
	d := New(llm.NewMockProvider(), DefaultConfig(), nil)
	tests := []struct {
		name string
		in   Input
	}{
		{"zero count", Input{Topic: "Math", Type: bank.TypeNumerical}},
		{"empty topic", Input{Type: bank.TypeNumerical, Count: 1}},
		{"bad type", Input{Topic: "Math", Type: "essay", Count: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := d.Draft(context.Background(), bank.New(), tt.in); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
