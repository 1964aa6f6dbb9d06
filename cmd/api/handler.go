package api

import (
	"fmt"
	"net/http"
	"time"

	authUsecase "dairytale/internal/auth/usecase"
	generationDelivery "dairytale/internal/generation/delivery"
	generationUsecase "dairytale/internal/generation/usecase"
	journalDelivery "dairytale/internal/journal/delivery"
	journalUsecase "dairytale/internal/journal/usecase"
	"dairytale/pkg/ai"
	"dairytale/pkg/config"
	"dairytale/pkg/logger"
	"dairytale/pkg/tracing"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	config            *config.Config
	log               *logger.Logger
	profileUsecase    authUsecase.ProfileUsecase
	journalHandler    *journalDelivery.JournalHandler
	pageHandler       *journalDelivery.PageHandler
	generationHandler *generationDelivery.GenerationHandler
	settings          *RuntimeSettings
}

func NewHandler(cfg *config.Config, log *logger.Logger, profileUc authUsecase.ProfileUsecase, journalUc journalUsecase.JournalUsecase) (*Handler, error) {
	h := &Handler{
		config:         cfg,
		log:            log,
		profileUsecase: profileUc,
		journalHandler: journalDelivery.NewJournalHandler(journalUc, log),
		pageHandler:    journalDelivery.NewPageHandler(journalUc, log),
		settings:       NewRuntimeSettings(cfg.OllamaBaseURL, cfg.OllamaModel),
	}

	if !cfg.ServeGenerator {
		log.Info("generation service disabled, using remote generator", "base_url", cfg.GeneratorBaseURL)
		return h, nil
	}

	// Ollama settings are read through getters so runtime updates take effect
	teller, err := ai.NewStoryTeller(ai.DynamicConfig{
		Provider:         ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:     cfg.GeminiApiKey,
		GetOllamaBaseURL: h.settings.OllamaBaseURL,
		GetOllamaModel:   h.settings.OllamaModel,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("init AI provider: %w", err)
	}
	log.Info("generation service enabled", "provider", cfg.AIProvider)

	h.generationHandler = generationDelivery.NewGenerationHandler(generationUsecase.NewGenerationUsecase(teller, log), log)
	return h, nil
}

// Router builds the gin engine with every route and middleware
func (h *Handler) Router() (*gin.Engine, error) {
	tmpl, err := journalDelivery.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	if h.config.OtelEnabled {
		r.Use(tracing.Middleware(h.config.OtelServiceName))
	}
	r.Use(tracing.RequestID(), corsMiddleware(h.config.AllowedOrigins))
	r.SetHTMLTemplate(tmpl)

	SetupRoutes(r, h)
	return r, nil
}

// Server wraps the router in an http.Server. No write timeout is set because
// page renders may wait on a generation call.
func (h *Handler) Server() (*http.Server, error) {
	r, err := h.Router()
	if err != nil {
		return nil, err
	}
	return &http.Server{
		Addr:              ":" + h.config.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}
