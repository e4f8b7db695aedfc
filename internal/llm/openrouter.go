package llm

import "errors"

const openRouterURL = "https://openrouter.ai/api/v1"

// NewOpenRouterProvider returns an OpenAIProvider pointed at OpenRouter,
// which speaks the same wire protocol. Model names pass through as
// "vendor/model".
func NewOpenRouterProvider(cfg Config) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = openRouterURL
	}
	return NewOpenAIProvider(cfg)
}
