package ai

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

	"github.com/johnquangdev/sales-coach/pkg/config"
)

func TestAnthropicGenerate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-sonnet-4-5-20250929", req.Model)
		assert.Equal(t, 4000, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "analyze this", req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"overall_score\": 7}"}],"stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	c := NewAnthropicClient(config.LLMConfig{AnthropicAPIKey: "test-key", AnthropicBaseURL: server.URL})
	out, err := c.Generate(context.Background(), "analyze this", 4000)
	require.NoError(t, err)
	assert.Equal(t, `{"overall_score": 7}`, out)
}

func TestAnthropicGenerate_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer server.Close()

	c := NewAnthropicClient(config.LLMConfig{AnthropicAPIKey: "bad", AnthropicBaseURL: server.URL})
	_, err := c.Generate(context.Background(), "hi", 10)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.Unauthorized())
	assert.Equal(t, "authentication_error", apiErr.Type)
	assert.Contains(t, err.Error(), "invalid x-api-key")
}

func TestAnthropicGenerate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("overloaded"))
	}))
	defer server.Close()

	c := NewAnthropicClient(config.LLMConfig{AnthropicBaseURL: server.URL})
	_, err := c.Generate(context.Background(), "hi", 10)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.False(t, apiErr.Unauthorized())
	assert.Equal(t, "overloaded", apiErr.Message)
}

func TestAnthropicGenerate_HonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewAnthropicClient(config.LLMConfig{AnthropicBaseURL: server.URL})
	_, err := c.Generate(ctx, "hi", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGroqGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk-test", r.Header.Get("Authorization"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 2000, req.MaxTokens)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"coaching"}}]}`))
	}))
	defer server.Close()

	c := NewGroqClient(config.LLMConfig{GroqAPIKey: "gsk-test", GroqBaseURL: server.URL})
	out, err := c.Generate(context.Background(), "coach", 2000)
	require.NoError(t, err)
	assert.Equal(t, "coaching", out)
}

func TestGroqGenerate_Forbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := NewGroqClient(config.LLMConfig{GroqBaseURL: server.URL})
	_, err := c.Generate(context.Background(), "coach", 10)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.Unauthorized())
}

func TestNewGenerator(t *testing.T) {
	g, err := NewGenerator(context.Background(), config.LLMConfig{})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicClient{}, g)

	g, err = NewGenerator(context.Background(), config.LLMConfig{Provider: config.ProviderGroq})
	require.NoError(t, err)
	assert.IsType(t, &GroqClient{}, g)

	_, err = NewGenerator(context.Background(), config.LLMConfig{Provider: config.ProviderGemini})
	assert.Error(t, err)

	_, err = NewGenerator(context.Background(), config.LLMConfig{Provider: "openai"})
	assert.Error(t, err)
}

func TestVerifyHMAC(t *testing.T) {
	payload := []byte(`{"transcript":"hello"}`)
	sig := SignHMAC("s3cret", payload)

	assert.True(t, VerifyHMAC("s3cret", payload, sig))
	assert.True(t, VerifyHMAC("s3cret", payload, "sha256="+sig))
	assert.False(t, VerifyHMAC("other", payload, sig))
	assert.False(t, VerifyHMAC("s3cret", []byte(`{}`), sig))
	assert.False(t, VerifyHMAC("", payload, sig))
	assert.False(t, VerifyHMAC("s3cret", payload, ""))
}
