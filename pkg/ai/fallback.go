package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"dairytale/pkg/logger"
)

// FallbackService tries an LLM provider first and falls back to a second
// StoryTeller (normally the template writer) on any error.
type FallbackService struct {
	name     string
	primary  StoryTeller
	fallback StoryTeller
	log      *logger.Logger
}

// NewFallbackService creates a new fallback service
func NewFallbackService(name string, primary, fallback StoryTeller, log *logger.Logger) *FallbackService {
	return &FallbackService{
		name:     name,
		primary:  primary,
		fallback: fallback,
		log:      log.With("service", "AI", "provider", name),
	}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	} {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
		"resource_exhausted",
	} {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

func (f *FallbackService) WriteStory(ctx context.Context, p StoryPrompt) (string, error) {
	return f.run(ctx, "story", p, StoryTeller.WriteStory)
}

func (f *FallbackService) WritePoem(ctx context.Context, p StoryPrompt) (string, error) {
	return f.run(ctx, "poem", p, StoryTeller.WritePoem)
}

func (f *FallbackService) run(ctx context.Context, what string, p StoryPrompt, call func(StoryTeller, context.Context, StoryPrompt) (string, error)) (string, error) {
	if f.primary != nil {
		result, err := call(f.primary, ctx, p)
		if err == nil {
			return result, nil
		}

		switch {
		case isConnectionError(err):
			f.log.Warn("provider unreachable, falling back", "kind", what, "error", err)
		case isQuotaError(err):
			f.log.Warn("provider quota exhausted, falling back", "kind", what, "error", err)
		default:
			f.log.Warn("provider error, falling back", "kind", what, "error", err)
		}
	}

	if f.fallback != nil {
		return call(f.fallback, ctx, p)
	}
	return "", fmt.Errorf("no AI provider available for %s generation", what)
}
