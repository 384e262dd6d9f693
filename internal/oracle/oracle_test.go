package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/jetset/internal/ratelimit"
)

type chatRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionServer(t *testing.T, content string, captured *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
}

func TestOpenAI_Invoke(t *testing.T) {
	var captured chatRequest
	srv := completionServer(t, "  {\"type\": \"conversation\"}  ", &captured)
	defer srv.Close()

	o := NewOpenAI(OpenAIConfig{BaseURL: srv.URL + "/", APIKey: "test-key", Model: "test-model"})

	out, err := o.Invoke(context.Background(), "be terse", "hello")

	require.NoError(t, err)
	assert.Equal(t, `{"type": "conversation"}`, out)
	assert.Equal(t, "test-model", captured.Model)
	assert.Equal(t, defaultMaxTokens, captured.MaxTokens)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "be terse", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "hello", captured.Messages[1].Content)
}

func TestOpenAI_EmptyCompletionIsError(t *testing.T) {
	srv := completionServer(t, "   ", nil)
	defer srv.Close()

	o := NewOpenAI(OpenAIConfig{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model"})

	_, err := o.Invoke(context.Background(), "", "hello")

	var oerr *Error
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, "empty completion", oerr.Detail)
}

func TestOpenAI_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
	}))
	defer srv.Close()

	o := NewOpenAI(OpenAIConfig{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model"})

	_, err := o.Invoke(context.Background(), "", "hello")

	var oerr *Error
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, "openai", oerr.Oracle)
	assert.NotNil(t, oerr.Unwrap())
}

func TestScripted_ConsumesInOrder(t *testing.T) {
	s := NewScripted().Reply("first").Reply("second")

	a, err := s.Invoke(context.Background(), "sys", "p1")
	require.NoError(t, err)
	b, err := s.Invoke(context.Background(), "sys", "p2")
	require.NoError(t, err)
	_, err = s.Invoke(context.Background(), "sys", "p3")

	assert.Equal(t, "first", a)
	assert.Equal(t, "second", b)
	assert.ErrorIs(t, err, ErrNoScript)
	assert.Len(t, s.Calls(), 3)
	assert.Equal(t, "p2", s.Calls()[1].Prompt)
}

func TestScripted_PatternAndRepeatable(t *testing.T) {
	s := NewScripted(
		Script{Pattern: `Sydney`, Response: "syd", Repeatable: true},
		Script{Response: "any"},
	)

	for i := 0; i < 3; i++ {
		out, err := s.Invoke(context.Background(), "", "fly from Sydney")
		require.NoError(t, err)
		assert.Equal(t, "syd", out)
	}

	out, err := s.Invoke(context.Background(), "", "hello")
	require.NoError(t, err)
	assert.Equal(t, "any", out)
}

func TestScripted_DelayHonoursContext(t *testing.T) {
	s := NewScripted(Script{Response: "late", Delay: time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.Invoke(ctx, "", "hi")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestScripted_Fail(t *testing.T) {
	boom := errors.New("boom")
	s := NewScripted().Fail(boom)

	_, err := s.Invoke(context.Background(), "", "hi")
	assert.ErrorIs(t, err, boom)
}

func TestRateLimited_DelegatesAndWaits(t *testing.T) {
	limiter := ratelimit.NewLimiterWithDefaults()
	inner := NewScripted().Reply("ok")
	o := NewRateLimited(inner, limiter)

	out, err := o.Invoke(context.Background(), "sys", "prompt")

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, "scripted", o.Name())
	assert.Equal(t, []Call{{System: "sys", Prompt: "prompt"}}, inner.Calls())
}

func TestRateLimited_CancelledWait(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})
	inner := NewScripted().Reply("one").Reply("two")
	o := NewRateLimited(inner, limiter)

	_, err := o.Invoke(context.Background(), "", "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = o.Invoke(ctx, "", "b")

	var oerr *Error
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, "rate limit wait", oerr.Detail)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, inner.Calls(), 1)
}
