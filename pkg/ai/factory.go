package ai

import (
	"fmt"

	"dairytale/pkg/gemini"
	"dairytale/pkg/logger"
)

// DynamicConfig holds AI provider configuration. The Ollama getters are read on
// every request so runtime settings changes take effect immediately.
type DynamicConfig struct {
	Provider ProviderType

	GeminiAPIKey string

	GetOllamaBaseURL func() string
	GetOllamaModel   func() string
}

// NewStoryTeller creates a StoryTeller based on the config.
// Every LLM provider falls back to the template writer, so generation only fails
// when the template itself cannot be produced.
func NewStoryTeller(cfg DynamicConfig, log *logger.Logger) (StoryTeller, error) {
	template := NewTemplateService()

	switch cfg.Provider {
	case ProviderTemplate, "":
		return template, nil

	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return NewFallbackService("gemini", NewGeminiTeller(gemini.NewGeminiService(cfg.GeminiAPIKey)), template, log), nil

	case ProviderOllama:
		return NewFallbackService("ollama", newOllama(cfg), template, log), nil

	case ProviderAuto:
		// Gemini if an API key is available, otherwise Ollama
		if cfg.GeminiAPIKey != "" {
			return NewFallbackService("gemini", NewGeminiTeller(gemini.NewGeminiService(cfg.GeminiAPIKey)), template, log), nil
		}
		return NewFallbackService("ollama", newOllama(cfg), template, log), nil

	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

func newOllama(cfg DynamicConfig) *OllamaService {
	if cfg.GetOllamaBaseURL == nil || cfg.GetOllamaModel == nil {
		return NewOllamaService("", "")
	}
	return NewOllamaServiceWithGetters(cfg.GetOllamaBaseURL, cfg.GetOllamaModel)
}
