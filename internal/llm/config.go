package llm

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend names accepted in Config.Provider.
const (
	BackendAnthropic  = "anthropic"
	BackendOpenAI     = "openai"
	BackendGemini     = "gemini"
	BackendOpenRouter = "openrouter"
	BackendMock       = "mock"
)

// defaultModels is used when no model is configured for a backend.
var defaultModels = map[string]string{
	BackendAnthropic:  "claude-haiku",
	BackendOpenAI:     "gpt-4o-mini",
	BackendGemini:     "gemini-flash",
	BackendOpenRouter: "google/gemini-2.0-flash-001",
}

// standardKeys are the vendor variables read when no EXAMBANK_ key is
// set, in priority order.
var standardKeys = []struct {
	backend string
	env     string
}{
	{BackendAnthropic, "ANTHROPIC_API_KEY"},
	{BackendOpenAI, "OPENAI_API_KEY"},
	{BackendGemini, "GEMINI_API_KEY"},
	{BackendOpenRouter, "OPENROUTER_API_KEY"},
}

// Config selects a backend and how to reach it.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Retry    RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// RetryConfig controls backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 60 * time.Second,
	}
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is
// ignored.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ConfigFromEnv reads EXAMBANK_LLM_PROVIDER, EXAMBANK_LLM_MODEL,
// EXAMBANK_LLM_BASE_URL and the backend key EXAMBANK_<BACKEND>_API_KEY.
// Without an explicit provider the first key found picks the backend.
func ConfigFromEnv() Config {
	return configFrom(os.Getenv)
}

func configFrom(getenv func(string) string) Config {
	cfg := DefaultConfig()
	cfg.Provider = strings.ToLower(getenv("EXAMBANK_LLM_PROVIDER"))
	cfg.Model = getenv("EXAMBANK_LLM_MODEL")
	cfg.BaseURL = getenv("EXAMBANK_LLM_BASE_URL")

	if cfg.Provider == "" {
		cfg.Provider, cfg.APIKey = discover(getenv)
	}
	if cfg.APIKey == "" && cfg.Provider != "" {
		cfg.APIKey = getenv(keyVar(cfg.Provider))
		if cfg.APIKey == "" {
			for _, k := range standardKeys {
				if k.backend == cfg.Provider {
					cfg.APIKey = getenv(k.env)
				}
			}
		}
	}
	if cfg.Model == "" {
		cfg.Model = defaultModels[cfg.Provider]
	}
	return cfg
}

// discover returns the first backend with a key, preferring EXAMBANK_
// variables over vendor ones.
func discover(getenv func(string) string) (backend, key string) {
	for _, k := range standardKeys {
		if v := getenv(keyVar(k.backend)); v != "" {
			return k.backend, v
		}
	}
	for _, k := range standardKeys {
		if v := getenv(k.env); v != "" {
			return k.backend, v
		}
	}
	return "", ""
}

func keyVar(backend string) string {
	return "EXAMBANK_" + strings.ToUpper(backend) + "_API_KEY"
}

// Validate reports a missing backend or API key.
func (c Config) Validate() error {
	switch c.Provider {
	case "":
		return fmt.Errorf("no LLM provider configured: set EXAMBANK_LLM_PROVIDER or one of %s", strings.Join(vendorVars(), ", "))
	case BackendMock:
		return nil
	case BackendAnthropic, BackendOpenAI, BackendGemini, BackendOpenRouter:
		if c.APIKey == "" {
			return fmt.Errorf("%s is required for the %s provider", keyVar(c.Provider), c.Provider)
		}
		return nil
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
}

func vendorVars() []string {
	out := make([]string, len(standardKeys))
	for i, k := range standardKeys {
		out[i] = k.env
	}
	return out
}
