package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"dairytale/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var happyRabbit = StoryPrompt{Diary: "오늘은 행복했다", Mood: "happy", Character: "토끼"}

func TestTemplateStory(t *testing.T) {
	text, err := NewTemplateService().WriteStory(context.Background(), happyRabbit)
	require.NoError(t, err)

	assert.Equal(t, "옛날 옛적에 토끼가 살고 있었어요.\n그 토끼는 오늘 이렇게 느꼈어요:\n\n\"오늘은 행복했다\"\n\n그리고 그 이야기는 결국 happy한 결말로 끝이 났어요.", text)
}

func TestTemplatePoem(t *testing.T) {
	text, err := NewTemplateService().WritePoem(context.Background(), happyRabbit)
	require.NoError(t, err)

	assert.Equal(t, "토끼의 하루는\n\n\"오늘은 행복했다\"\n\n그리고 그 마음은\n\nhappy의 노래로 남았어요.", text)
}

func TestOllamaGenerate(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"response": "```\n옛날 옛적에 토끼가...\n```", "done": true})
	}))
	defer srv.Close()

	text, err := NewOllamaService(srv.URL, "gemma").WriteStory(context.Background(), happyRabbit)
	require.NoError(t, err)

	assert.Equal(t, "옛날 옛적에 토끼가...", text)
	assert.Equal(t, "gemma", got["model"])
	assert.Equal(t, false, got["stream"])
	assert.Contains(t, got["prompt"], "오늘은 행복했다")
}

func TestOllamaErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaService(srv.URL, "missing").WritePoem(context.Background(), happyRabbit)
	assert.ErrorContains(t, err, "ollama API error (404)")
}

type failingTeller struct{ err error }

func (f failingTeller) WriteStory(context.Context, StoryPrompt) (string, error) { return "", f.err }
func (f failingTeller) WritePoem(context.Context, StoryPrompt) (string, error)  { return "", f.err }

func TestFallbackUsesTemplateOnError(t *testing.T) {
	svc := NewFallbackService("ollama", failingTeller{err: errors.New("dial tcp: connection refused")}, NewTemplateService(), logger.Nop())

	text, err := svc.WritePoem(context.Background(), happyRabbit)
	require.NoError(t, err)
	assert.Contains(t, text, "토끼의 하루는")
}

func TestFallbackWithoutProviders(t *testing.T) {
	svc := NewFallbackService("none", nil, nil, logger.Nop())
	_, err := svc.WriteStory(context.Background(), happyRabbit)
	assert.ErrorContains(t, err, "no AI provider available")
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, isConnectionError(errors.New("Post \"http://x\": dial tcp 127.0.0.1:1: connect: connection refused")))
	assert.False(t, isConnectionError(errors.New("bad prompt")))
	assert.True(t, isQuotaError(errors.New("Gemini API error (429): RESOURCE_EXHAUSTED")))
	assert.False(t, isQuotaError(nil))
}

func TestFactory(t *testing.T) {
	tmpl, err := NewStoryTeller(DynamicConfig{Provider: ProviderTemplate}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &TemplateService{}, tmpl)

	_, err = NewStoryTeller(DynamicConfig{Provider: ProviderGemini}, logger.Nop())
	assert.ErrorContains(t, err, "GEMINI_API_KEY")

	auto, err := NewStoryTeller(DynamicConfig{Provider: ProviderAuto}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &FallbackService{}, auto)

	_, err = NewStoryTeller(DynamicConfig{Provider: "gpt"}, logger.Nop())
	assert.Error(t, err)
}
