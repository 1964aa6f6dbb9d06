package ai

import "context"

// StoryPrompt is what a diary-to-text generation needs
type StoryPrompt struct {
	Diary     string `json:"diary"`
	Mood      string `json:"mood"`
	Character string `json:"character"`
}

// StoryTeller is the interface for turning a diary entry into a story or poem
// Implement this interface to add new AI providers (Gemini, Ollama, OpenAI, etc.)
type StoryTeller interface {
	WriteStory(ctx context.Context, p StoryPrompt) (string, error)
	WritePoem(ctx context.Context, p StoryPrompt) (string, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderTemplate ProviderType = "template"
	ProviderGemini   ProviderType = "gemini"
	ProviderOllama   ProviderType = "ollama"
	ProviderAuto     ProviderType = "auto"
)
