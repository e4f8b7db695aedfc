package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/exambank/internal/store"
)

type fakeEvents struct {
	got []store.LLMRequestEventData
	err error
}

func (f *fakeEvents) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	f.got = append(f.got, data)
	return f.err
}

func (f *fakeEvents) QueryLLMRequests(context.Context, store.QueryOpts) ([]store.LLMRequestEvent, error) {
	return nil, nil
}

func TestRecordingProvider(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"ok":true}`), Usage: Usage{InputTokens: 12, OutputTokens: 7, TotalTokens: 19}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	events := &fakeEvents{}
	p := WithRecording(mock, "anthropic", events, nil)

	tick := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	p.now = func() time.Time {
		tick = tick.Add(250 * time.Millisecond)
		return tick
	}

	ctx := WithPurpose(context.Background(), PurposeDraft)
	if _, err := p.Generate(ctx, Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error from second call")
	}

	if len(events.got) != 2 {
		t.Fatalf("recorded %d events, want 2", len(events.got))
	}
	ok := events.got[0]
	if ok.Provider != "anthropic" || ok.Model != "mock" || ok.Purpose != PurposeDraft {
		t.Errorf("first event = %+v", ok)
	}
	if !ok.Success || ok.InputTokens != 12 || ok.OutputTokens != 7 || ok.LatencyMs != 250 {
		t.Errorf("first event = %+v", ok)
	}
	failed := events.got[1]
	if failed.Success || failed.ErrorMessage == "" || failed.Purpose != "unknown" {
		t.Errorf("second event = %+v", failed)
	}
}

func TestRecordingProvider_StoreFailureIgnored(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithRecording(mock, "mock", &fakeEvents{err: errors.New("disk full")}, nil)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("store failure leaked into call: %v", err)
	}
}
