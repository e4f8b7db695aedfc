package llm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestConfigFrom(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantProv  string
		wantKey   string
		wantModel string
	}{
		{"nothing set", nil, "", "", ""},
		{"explicit provider and key", map[string]string{
			"EXAMBANK_LLM_PROVIDER":   "OpenAI",
			"EXAMBANK_OPENAI_API_KEY": "sk-1",
		}, "openai", "sk-1", "gpt-4o-mini"},
		{"explicit provider falls back to vendor key", map[string]string{
			"EXAMBANK_LLM_PROVIDER": "gemini",
			"GEMINI_API_KEY":        "g-1",
		}, "gemini", "g-1", "gemini-flash"},
		{"discovery by priority", map[string]string{
			"OPENAI_API_KEY":    "sk-2",
			"ANTHROPIC_API_KEY": "ak-2",
		}, "anthropic", "ak-2", "claude-haiku"},
		{"exambank key wins discovery", map[string]string{
			"EXAMBANK_OPENROUTER_API_KEY": "or-1",
			"GEMINI_API_KEY":              "g-2",
		}, "openrouter", "or-1", "google/gemini-2.0-flash-001"},
		{"explicit model", map[string]string{
			"EXAMBANK_LLM_PROVIDER":      "anthropic",
			"EXAMBANK_LLM_MODEL":         "claude-sonnet",
			"EXAMBANK_ANTHROPIC_API_KEY": "ak-3",
		}, "anthropic", "ak-3", "claude-sonnet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := configFrom(envMap(tt.env))
			if cfg.Provider != tt.wantProv || cfg.APIKey != tt.wantKey || cfg.Model != tt.wantModel {
				t.Fatalf("got provider=%q key=%q model=%q, want %q %q %q",
					cfg.Provider, cfg.APIKey, cfg.Model, tt.wantProv, tt.wantKey, tt.wantModel)
			}
			if cfg.Retry.MaxAttempts != 3 {
				t.Errorf("retry defaults lost: %+v", cfg.Retry)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"none", Config{}, "no LLM provider configured"},
		{"mock", Config{Provider: BackendMock}, ""},
		{"missing key", Config{Provider: BackendOpenAI}, "EXAMBANK_OPENAI_API_KEY"},
		{"unknown", Config{Provider: "watson", APIKey: "k"}, "unknown LLM provider"},
		{"ok", Config{Provider: BackendGemini, APIKey: "k"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	const key = "EXAMBANK_DOTENV_TEST_KEY"
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte(key+"=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv(key) })

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv(key); got != "from-file" {
		t.Fatalf("%s = %q, want from-file", key, got)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}
}
