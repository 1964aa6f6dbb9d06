package usecase

import (
	"context"
	"fmt"

	"dairytale/internal/generation/domain"
	"dairytale/pkg/ai"
	"dairytale/pkg/logger"
)

// generationUsecase implements GenerationUsecase interface
type generationUsecase struct {
	teller ai.StoryTeller
	log    *logger.Logger
}

// NewGenerationUsecase creates a new instance of generationUsecase
func NewGenerationUsecase(teller ai.StoryTeller, log *logger.Logger) GenerationUsecase {
	return &generationUsecase{
		teller: teller,
		log:    log.With("service", "GenerationUsecase"),
	}
}

func prompt(req *domain.GenerateRequest) ai.StoryPrompt {
	return ai.StoryPrompt{Diary: req.Diary, Mood: req.Mood, Character: req.Character}
}

func (u *generationUsecase) Generate(ctx context.Context, req *domain.GenerateRequest) (string, error) {
	if req.Format == domain.FormatPoem {
		return u.Poem(ctx, req)
	}

	text, err := u.teller.WriteStory(ctx, prompt(req))
	if err != nil {
		return "", fmt.Errorf("write story: %w", err)
	}
	u.log.Debug("story written", "mood", req.Mood, "character", req.Character, "length", len(text))
	return text, nil
}

func (u *generationUsecase) Poem(ctx context.Context, req *domain.GenerateRequest) (string, error) {
	text, err := u.teller.WritePoem(ctx, prompt(req))
	if err != nil {
		return "", fmt.Errorf("write poem: %w", err)
	}
	u.log.Debug("poem written", "mood", req.Mood, "character", req.Character, "length", len(text))
	return text, nil
}
