package llmapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blog-publisher/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSecrets map[string]string

func (s staticSecrets) GetSecret(_ context.Context, ref string) (string, error) {
	v, ok := s[ref]
	if !ok {
		return "", errors.New("secret not found")
	}
	if v == "" {
		return "", domain.ErrEmptySecret
	}
	return v, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestOpenAIClient_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4-turbo-preview", req.Model)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		assert.InDelta(t, 0.8, req.Temperature, 0.001)
		assert.Equal(t, 4000, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"title\":\"T\"}"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL+"/v1", "gpt-4-turbo-preview", "llm-key",
		staticSecrets{"llm-key": "sk-test"}, &http.Client{Timeout: 5 * time.Second}, testLogger())

	resp, err := client.Generate(context.Background(), []domain.Message{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "user"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"title":"T"}`, resp.Text)
}

func TestOpenAIClient_Generate_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL, "m", "llm-key",
		staticSecrets{"llm-key": "sk-test"}, server.Client(), testLogger())

	_, err := client.Generate(context.Background(), []domain.Message{{Role: "user", Content: "x"}})
	assert.ErrorIs(t, err, domain.ErrEmptyCompletion)
}

func TestOpenAIClient_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL, "m", "llm-key",
		staticSecrets{"llm-key": "sk-test"}, server.Client(), testLogger())

	_, err := client.Generate(context.Background(), []domain.Message{{Role: "user", Content: "x"}})
	assert.ErrorContains(t, err, "rate limited")
}

func TestOpenAIClient_Generate_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL, "m", "llm-key",
		staticSecrets{"llm-key": "sk-test"}, server.Client(), testLogger())

	_, err := client.Generate(context.Background(), []domain.Message{{Role: "user", Content: "x"}})
	assert.ErrorContains(t, err, "returned 502")
}

func TestOpenAIClient_Generate_MissingSecretFailsRun(t *testing.T) {
	client := NewOpenAIClient("http://unused", "m", "llm-key",
		staticSecrets{}, http.DefaultClient, testLogger())

	_, err := client.Generate(context.Background(), []domain.Message{{Role: "user", Content: "x"}})
	assert.ErrorContains(t, err, "failed to resolve llm credential")
}

func TestOpenAIClient_CredentialCached(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	secrets := staticSecrets{"llm-key": "sk-test"}
	client := NewOpenAIClient(server.URL, "m", "llm-key", secrets, server.Client(), testLogger())

	for i := 0; i < 2; i++ {
		_, err := client.Generate(context.Background(), []domain.Message{{Role: "user", Content: "x"}})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
	assert.Equal(t, "sk-test", client.apiKey)
}
