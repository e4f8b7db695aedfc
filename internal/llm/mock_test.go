package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
	)
	mock.Push(MockResponse{Err: &ErrRateLimit{Err: errors.New("slow down")}})

	resp, err := mock.Generate(context.Background(), UserPrompt("", "first", nil, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"a":1}` || resp.Usage.InputTokens != 10 || resp.Model != "mock" {
		t.Fatalf("first reply = %+v", resp)
	}

	_, err = mock.Generate(context.Background(), UserPrompt("", "second", nil, 0))
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %v", err)
	}

	_, err = mock.Generate(context.Background(), UserPrompt("", "third", nil, 0))
	var down *ErrProviderUnavailable
	if !errors.As(err, &down) {
		t.Fatalf("empty queue should be unavailable, got %v", err)
	}

	calls := mock.Calls()
	if len(calls) != 3 || calls[1].Messages[0].Content != "second" {
		t.Fatalf("calls = %+v", calls)
	}
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"name":"x"}`)})
	_, err := mock.Generate(context.Background(), UserPrompt("", "q", testSchema(), 0))
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestNew(t *testing.T) {
	events := &fakeEvents{}
	cfg := DefaultConfig()
	cfg.Provider = BackendMock

	p, err := New(context.Background(), cfg, events, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("ModelID = %q", p.ModelID())
	}
	// The built-in mock has nothing queued; every attempt is recorded.
	cfg.Retry.InitialWait = 0
	p, err = New(context.Background(), cfg, events, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error from empty mock")
	}
	if len(events.got) != cfg.Retry.MaxAttempts {
		t.Errorf("recorded %d events, want %d", len(events.got), cfg.Retry.MaxAttempts)
	}

	cfg.Provider = BackendOpenAI
	if _, err := New(context.Background(), cfg, nil, nil); err == nil {
		t.Error("expected validation error for missing key")
	}
}
