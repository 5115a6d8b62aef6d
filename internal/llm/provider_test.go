package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"roadmap":"# A"}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"guidance":"keep going"}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: UserPrompt("first")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"roadmap":"# A"}` {
		t.Fatalf("unexpected content %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: UserPrompt("second")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"guidance":"keep going"}` {
		t.Fatalf("unexpected content %s", resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})

	_, _ = mock.Generate(context.Background(), Request{
		System:   "sys",
		Messages: UserPrompt("hello"),
	})

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	last, ok := mock.LastCall()
	if !ok || last.System != "sys" {
		t.Fatalf("expected last call with system 'sys', got %+v", last)
	}
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"name":"x"}`)})

	_, err := mock.Generate(context.Background(), Request{Schema: testSchema()})
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %v", err)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{}})

	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, "roadmap")
	if p := PurposeFrom(ctx); p != "roadmap" {
		t.Fatalf("expected 'roadmap', got %q", p)
	}
}

func TestDecode(t *testing.T) {
	type out struct {
		Roadmap string `json:"roadmap"`
	}

	got, err := Decode[out](&Response{Content: json.RawMessage(`{"roadmap":"# Go"}`)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Roadmap != "# Go" {
		t.Fatalf("roadmap = %q", got.Roadmap)
	}

	_, err = Decode[out](&Response{Content: json.RawMessage(`[1,2]`)})
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %v", err)
	}

	if _, err := Decode[out](nil); err == nil {
		t.Fatal("expected error for nil response")
	}
}

func TestRequestMaxTokensDefault(t *testing.T) {
	if got := (Request{}).maxTokens(); got != DefaultMaxTokens {
		t.Fatalf("maxTokens() = %d, want %d", got, DefaultMaxTokens)
	}
	if got := (Request{MaxTokens: 64}).maxTokens(); got != 64 {
		t.Fatalf("maxTokens() = %d, want 64", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: ProviderAnthropic}, true},
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "sk-test"}}, false},
		{"openai without key", Config{Provider: ProviderOpenAI}, true},
		{"openai with key", Config{Provider: ProviderOpenAI, OpenAI: OpenAIConfig{APIKey: "sk-test"}}, false},
		{"gemini without key", Config{Provider: ProviderGemini}, true},
		{"openrouter with key", Config{Provider: ProviderOpenRouter, OpenRouter: OpenRouterConfig{APIKey: "sk-or"}}, false},
		{"mock needs no key", Config{Provider: ProviderMock}, false},
		{"negative rate", Config{Provider: ProviderMock, RateLimit: RateLimitConfig{RequestsPerSecond: -1}}, true},
		{"unknown provider", Config{Provider: "unknown"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("QUESTMAP_LLM_PROVIDER", "openai")
	t.Setenv("QUESTMAP_OPENAI_API_KEY", "sk-env")
	t.Setenv("QUESTMAP_OPENAI_MODEL", "gpt-4o")
	t.Setenv("QUESTMAP_LLM_TIMEOUT", "5s")
	t.Setenv("QUESTMAP_LLM_RPS", "0")
	t.Setenv("QUESTMAP_LLM_BREAKER", "false")

	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "sk-env" || cfg.OpenAI.Model != "gpt-4o" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Timeout.String() != "5s" {
		t.Fatalf("timeout = %s", cfg.Timeout)
	}
	if cfg.RateLimit.RequestsPerSecond != 0 {
		t.Fatalf("rps = %v", cfg.RateLimit.RequestsPerSecond)
	}
	if cfg.Breaker.Enabled {
		t.Fatal("breaker should be disabled")
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENROUTER_API_KEY", "sk-or")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != ProviderAnthropic || cfg.Anthropic.APIKey != "sk-ant" {
		t.Fatalf("unexpected discovery: %+v", cfg)
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("claude-sonnet-4-5-20250929")
	if c == nil {
		t.Fatal("expected pricing for sonnet")
	}
	if got := c.Cost(1_000_000, 1_000_000); got != 18 {
		t.Fatalf("cost = %v, want 18", got)
	}
	if LookupCost("google/gemini-2.5-flash") == nil {
		t.Fatal("expected vendor-prefixed id to resolve")
	}
	if LookupCost("made-up-model") != nil {
		t.Fatal("expected nil for unknown model")
	}
}
