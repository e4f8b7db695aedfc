package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/exambank/internal/store"
)

// New builds the configured backend. Calls pass through, outermost
// first: timeout, retry, recording, backend. When events is nil calls
// are not recorded.
func New(ctx context.Context, cfg Config, events store.EventRepo, log *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error
	switch cfg.Provider {
	case BackendAnthropic:
		base, err = NewAnthropicProvider(cfg)
	case BackendOpenAI:
		base, err = NewOpenAIProvider(cfg)
	case BackendOpenRouter:
		base, err = NewOpenRouterProvider(cfg)
	case BackendGemini:
		base, err = NewGeminiProvider(ctx, cfg)
	case BackendMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	p := base
	if events != nil {
		p = WithRecording(p, cfg.Provider, events, log)
	}
	p = WithRetry(p, cfg.Retry, log)
	if cfg.Timeout > 0 {
		p = &timeoutProvider{inner: p, timeout: cfg.Timeout}
	}
	return p, nil
}

type timeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

func (t *timeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *timeoutProvider) ModelID() string { return t.inner.ModelID() }
