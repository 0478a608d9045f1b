package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/outfit-advisor/internal/domain/outfit"
	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
)

func TestCompleteUsesChatCompletions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer gsk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "mixtral-8x7b-32768", body["model"])
		require.EqualValues(t, 1024, body["max_tokens"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Outfit 4:\n• Scarf"},"finish_reason":"stop"}],"usage":{"prompt_tokens":20,"completion_tokens":8,"total_tokens":28}}`))
	}))
	defer srv.Close()

	got, err := NewClient("gsk-test", srv.URL).Complete(context.Background(), outfit.PromptSpec{
		System:      "sys",
		User:        "usr",
		Model:       "mixtral-8x7b-32768",
		Temperature: 0.9,
		MaxTokens:   1024,
	})
	require.NoError(t, err)
	require.Equal(t, "Outfit 4:\n• Scarf", got.Text)
	require.Equal(t, 28, got.Usage.TotalTokens)
}

func TestCompleteWithoutKey(t *testing.T) {
	_, err := NewClient("", "").Complete(context.Background(), outfit.PromptSpec{})
	require.ErrorIs(t, err, apperrors.ErrMissingCredential)
}

func TestCompleteUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	_, err := NewClient("gsk-test", srv.URL).Complete(context.Background(), outfit.PromptSpec{Model: "m"})
	require.Error(t, err)
}
