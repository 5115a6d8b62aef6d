package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/questmap/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// eventRecorder is an in-memory store.EventRepo.
type eventRecorder struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *eventRecorder) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, data)
	return nil
}

func (r *eventRecorder) QueryLLMEvents(context.Context, store.QueryOpts) ([]store.LLMRequestEventRecord, error) {
	return nil, nil
}

func (r *eventRecorder) GetLLMEvent(context.Context, int) (*store.LLMRequestEventRecord, error) {
	return nil, nil
}

func (r *eventRecorder) LLMUsageByPurpose(context.Context) ([]store.LLMUsageStats, error) {
	return nil, nil
}

func (r *eventRecorder) LLMUsageByModel(context.Context) ([]store.ModelUsage, error) {
	return nil, nil
}

func TestLogging_RecordsEvents(t *testing.T) {
	rec := &eventRecorder{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 7, OutputTokens: 3}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	p := WithLogging(mock, ProviderMock, rec, zap.NewNop())
	ctx := WithPurpose(context.Background(), "mentor")

	_, err := p.Generate(ctx, Request{System: "sys", Messages: UserPrompt("hi")})
	require.NoError(t, err)
	_, err = p.Generate(ctx, Request{Messages: UserPrompt("again")})
	require.Error(t, err)

	require.Len(t, rec.events, 2)
	first := rec.events[0]
	assert.Equal(t, "mock", first.Provider)
	assert.Equal(t, "mock", first.Model)
	assert.Equal(t, "mentor", first.Purpose)
	assert.Equal(t, 7, first.InputTokens)
	assert.True(t, first.Success)
	assert.Contains(t, first.RequestBody, "[system]\nsys")
	assert.Contains(t, first.RequestBody, "[user]\nhi")
	assert.Equal(t, `{"a":1}`, first.ResponseBody)

	second := rec.events[1]
	assert.False(t, second.Success)
	assert.Contains(t, second.ErrorMessage, "down")
}

func TestLogging_EventFailureDoesNotFailRequest(t *testing.T) {
	rec := &eventRecorder{err: errors.New("db locked")}
	p := WithLogging(NewMockProvider(okResponse()), ProviderMock, rec, nil)

	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

func TestLogging_NilRepo(t *testing.T) {
	p := WithLogging(NewMockProvider(okResponse()), ProviderMock, nil, nil)
	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	mock := NewMockProvider(down(), down(), okResponse())
	p := WithBreaker(mock, BreakerConfig{
		Enabled:             true,
		ConsecutiveFailures: 2,
		OpenTimeout:         time.Hour,
		HalfOpenRequests:    1,
	}, nil)

	for range 2 {
		_, err := p.Generate(context.Background(), Request{})
		var unavail *ErrProviderUnavailable
		require.ErrorAs(t, err, &unavail)
	}

	_, err := p.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 2, mock.CallCount(), "open breaker must not reach the provider")
	assert.Equal(t, "open", p.(*BreakerProvider).State())
}

func TestBreaker_InvalidResponsesDoNotTrip(t *testing.T) {
	bad := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}}
	mock := NewMockProvider(bad, bad, bad, okResponse())
	p := WithBreaker(mock, BreakerConfig{Enabled: true, ConsecutiveFailures: 2, OpenTimeout: time.Hour}, nil)

	for range 3 {
		_, err := p.Generate(context.Background(), Request{})
		var invErr *ErrInvalidResponse
		require.ErrorAs(t, err, &invErr)
	}
	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

func TestBreaker_RejectedRequestsDoNotTrip(t *testing.T) {
	rejected := MockResponse{Err: &ErrRequestRejected{StatusCode: 401, Err: errors.New("invalid api key")}}
	mock := NewMockProvider(rejected, rejected, rejected, okResponse())
	p := WithBreaker(mock, BreakerConfig{Enabled: true, ConsecutiveFailures: 2, OpenTimeout: time.Hour}, nil)

	for range 3 {
		_, err := p.Generate(context.Background(), Request{})
		var rej *ErrRequestRejected
		require.ErrorAs(t, err, &rej)
	}
	assert.Equal(t, "closed", p.(*BreakerProvider).State())
	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

func TestClassifyStatus(t *testing.T) {
	cause := errors.New("boom")

	var rl *ErrRateLimit
	assert.ErrorAs(t, classifyStatus(429, cause), &rl)

	for _, status := range []int{400, 401, 403, 404} {
		var rej *ErrRequestRejected
		err := classifyStatus(status, cause)
		require.ErrorAs(t, err, &rej, "status %d", status)
		assert.Equal(t, status, rej.StatusCode)
		assert.False(t, isTransient(err))
	}

	for _, status := range []int{0, 500, 502, 503} {
		var unavail *ErrProviderUnavailable
		err := classifyStatus(status, cause)
		assert.ErrorAs(t, err, &unavail, "status %d", status)
		assert.True(t, isTransient(err))
	}
}

func TestRateLimit_ZeroRateIsPassThrough(t *testing.T) {
	mock := NewMockProvider()
	assert.Same(t, Provider(mock), WithRateLimit(mock, RateLimitConfig{}))
}

func TestRateLimit_HonorsContext(t *testing.T) {
	mock := NewMockProvider(okResponse(), okResponse())
	p := WithRateLimit(mock, RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1})

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = p.Generate(ctx, Request{})
	assert.Error(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

// slowProvider blocks until its context ends.
type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestTimeout(t *testing.T) {
	p := WithTimeout(slowProvider{}, 10*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "slow", p.ModelID())
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	_, err = NewProvider(context.Background(), Config{Provider: "nope"}, nil, nil)
	assert.Error(t, err)

	_, err = NewProvider(context.Background(), Config{Provider: ProviderOpenAI}, nil, nil)
	assert.Error(t, err, "missing key")
}

func TestWrapOrder(t *testing.T) {
	cfg := DefaultConfig()
	p := wrap(NewMockProvider(), cfg, nil, zap.NewNop())

	to, ok := p.(*timeoutProvider)
	require.True(t, ok, "outermost is the timeout")
	br, ok := to.inner.(*BreakerProvider)
	require.True(t, ok, "then the breaker")
	_, ok = br.inner.(*RetryProvider)
	require.True(t, ok, "then retries")
}

func TestNewProviderFromEnv_NotConfigured(t *testing.T) {
	for _, k := range []string{
		"QUESTMAP_LLM_PROVIDER", "QUESTMAP_ANTHROPIC_API_KEY",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	_, err := NewProviderFromEnv(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
