package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTextReturnsFirstCandidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  달빛 아래 토끼  "}]}}]}`))
	}))
	defer srv.Close()

	svc := NewGeminiService("secret")
	svc.Endpoint = srv.URL

	text, err := svc.GenerateText(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "달빛 아래 토끼", text)
}

func TestGenerateTextErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") == "exhausted" {
			http.Error(w, `{"error":{"status":"RESOURCE_EXHAUSTED"}}`, http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	svc := NewGeminiService("exhausted")
	svc.Endpoint = srv.URL
	_, err := svc.GenerateText(context.Background(), "prompt")
	assert.ErrorContains(t, err, "429")

	svc = NewGeminiService("ok")
	svc.Endpoint = srv.URL
	_, err = svc.GenerateText(context.Background(), "prompt")
	assert.ErrorContains(t, err, "no text returned")
}
