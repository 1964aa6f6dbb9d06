package api

import (
	"net/http"

	authDelivery "dairytale/internal/auth/delivery"
	"dairytale/internal/journal/domain"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// corsMiddleware allows every origin unless ALLOWED_ORIGINS narrows it down,
// in which case credentials are allowed too.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-Id"},
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

func SetupRoutes(r *gin.Engine, h *Handler) {
	profile := authDelivery.ProfileMiddleware(h.profileUsecase, h.log)

	// Generation service (public, no profile)
	if h.generationHandler != nil {
		r.POST("/generate-story", h.generationHandler.GenerateStory)
		r.POST("/generate-poem", h.generationHandler.GeneratePoem)
	}

	// Pages
	pages := r.Group("/")
	pages.Use(profile)
	{
		pages.GET("", h.pageHandler.Index)
		pages.POST("/diary", h.pageHandler.SaveDiary)
		pages.POST("/diary/delete", h.pageHandler.DeleteDiary)
		pages.GET("/story", h.pageHandler.Generated(domain.KindStory))
		pages.GET("/poem", h.pageHandler.Generated(domain.KindPoem))
		pages.POST("/story/save", h.pageHandler.ToggleSaved(domain.KindStory))
		pages.POST("/poem/save", h.pageHandler.ToggleSaved(domain.KindPoem))
		pages.GET("/mypage", h.pageHandler.MyPage)
		pages.POST("/mypage/defaults", h.pageHandler.SaveDefaults)
		pages.POST("/mypage/delete", h.pageHandler.DeleteSaved)
		pages.GET("/shared", h.pageHandler.Shared)
	}

	api := r.Group("/api")
	{
		// Health check (no profile required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		journal := api.Group("/journal")
		journal.Use(profile)
		{
			journal.GET("/calendar", h.journalHandler.GetCalendar)
			journal.GET("/days/:date", h.journalHandler.GetDay)
			journal.PUT("/days/:date/diary", h.journalHandler.PutDiary)
			journal.DELETE("/days/:date/diary", h.journalHandler.DeleteDiary)
			journal.POST("/days/:date/:kind/generate", h.journalHandler.Generate)
			journal.POST("/days/:date/:kind/toggle-save", h.journalHandler.ToggleSave)
			journal.DELETE("/days/:date/:kind", h.journalHandler.DeleteGenerated)
			journal.GET("/saved/:kind", h.journalHandler.GetSaved)
			journal.GET("/defaults", h.journalHandler.GetDefaults)
			journal.PUT("/defaults", h.journalHandler.PutDefaults)
			journal.GET("/search", h.journalHandler.Search)
		}

		// Raw story-storage snapshot, for backup and migration from browser storage
		storage := api.Group("/storage")
		storage.Use(profile)
		{
			storage.GET("/"+domain.StorageKey, h.journalHandler.GetStorage)
			storage.PUT("/"+domain.StorageKey, h.journalHandler.PutStorage)
			storage.DELETE("/"+domain.StorageKey, h.journalHandler.DeleteStorage)
		}

		// Settings routes (public) - Runtime configuration
		settings := api.Group("/settings")
		{
			settings.GET("/ollama", h.settings.GetOllamaSettings)
			settings.PUT("/ollama", h.settings.UpdateOllamaSettings)
			settings.POST("/ollama/test", h.settings.TestOllamaConnection)
		}
	}
}
