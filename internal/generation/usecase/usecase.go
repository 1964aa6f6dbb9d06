package usecase

import (
	"context"

	"dairytale/internal/generation/domain"
)

// GenerationUsecase writes stories and poems from a diary entry
type GenerationUsecase interface {
	// Generate honours req.Format: "poem" yields a poem, anything else a story.
	Generate(ctx context.Context, req *domain.GenerateRequest) (string, error)
	Poem(ctx context.Context, req *domain.GenerateRequest) (string, error)
}
