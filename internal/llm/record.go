package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/exambank/internal/store"
)

// RecordingProvider appends every call to the store's request log.
// A failure to record is logged and never fails the call.
type RecordingProvider struct {
	inner   Provider
	backend string
	events  store.EventRepo
	log     *zap.Logger
	now     func() time.Time
}

// WithRecording wraps p so each Generate is logged under backend.
func WithRecording(p Provider, backend string, events store.EventRepo, log *zap.Logger) *RecordingProvider {
	if log == nil {
		log = zap.NewNop()
	}
	return &RecordingProvider{inner: p, backend: backend, events: events, log: log, now: time.Now}
}

func (r *RecordingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := r.now()
	resp, err := r.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:  r.backend,
		Model:     r.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: r.now().Sub(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	// Record even when the caller's context is already done.
	if logErr := r.events.AppendLLMRequest(context.WithoutCancel(ctx), ev); logErr != nil {
		r.log.Warn("record llm request", zap.Error(logErr))
	}
	r.log.Debug("llm request",
		zap.String("provider", ev.Provider),
		zap.String("model", ev.Model),
		zap.String("purpose", ev.Purpose),
		zap.Int64("latency_ms", ev.LatencyMs),
		zap.Bool("success", ev.Success))
	return resp, err
}

func (r *RecordingProvider) ModelID() string { return r.inner.ModelID() }
