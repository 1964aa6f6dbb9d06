package ai

import (
	"context"

	"dairytale/pkg/gemini"
)

// geminiTeller adapts the Gemini REST client to StoryTeller
type geminiTeller struct {
	svc *gemini.GeminiService
}

func NewGeminiTeller(svc *gemini.GeminiService) StoryTeller {
	return &geminiTeller{svc: svc}
}

func (g *geminiTeller) WriteStory(ctx context.Context, p StoryPrompt) (string, error) {
	return g.svc.GenerateText(ctx, storyInstruction(p))
}

func (g *geminiTeller) WritePoem(ctx context.Context, p StoryPrompt) (string, error) {
	return g.svc.GenerateText(ctx, poemInstruction(p))
}
