package api

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RuntimeSettings holds the Ollama settings that can change while the server runs.
// The AI provider reads them through the getters on every request.
type RuntimeSettings struct {
	mu            sync.RWMutex
	ollamaBaseURL string
	ollamaModel   string
	client        *http.Client
}

// NewRuntimeSettings initializes runtime settings from static config
func NewRuntimeSettings(ollamaBaseURL, ollamaModel string) *RuntimeSettings {
	return &RuntimeSettings{
		ollamaBaseURL: strings.TrimSuffix(ollamaBaseURL, "/"),
		ollamaModel:   ollamaModel,
		client:        &http.Client{},
	}
}

// OllamaBaseURL returns the current Ollama base URL
func (s *RuntimeSettings) OllamaBaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ollamaBaseURL
}

// OllamaModel returns the current Ollama model
func (s *RuntimeSettings) OllamaModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ollamaModel
}

// UpdateOllamaSettingsRequest represents the request body for updating Ollama settings
type UpdateOllamaSettingsRequest struct {
	OllamaBaseURL string `json:"ollama_base_url" binding:"required"`
	OllamaModel   string `json:"ollama_model,omitempty"`
}

// GetOllamaSettings returns current Ollama configuration
// GET /api/settings/ollama
func (s *RuntimeSettings) GetOllamaSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ollama_base_url": s.OllamaBaseURL(),
		"ollama_model":    s.OllamaModel(),
	})
}

// UpdateOllamaSettings updates Ollama configuration at runtime
// PUT /api/settings/ollama
func (s *RuntimeSettings) UpdateOllamaSettings(c *gin.Context) {
	var req UpdateOllamaSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	s.ollamaBaseURL = strings.TrimSuffix(req.OllamaBaseURL, "/")
	if req.OllamaModel != "" {
		s.ollamaModel = req.OllamaModel
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"message":         "Ollama settings updated successfully",
		"ollama_base_url": s.OllamaBaseURL(),
		"ollama_model":    s.OllamaModel(),
	})
}

// TestOllamaConnection checks that an Ollama server answers on /api/tags
// POST /api/settings/ollama/test
func (s *RuntimeSettings) TestOllamaConnection(c *gin.Context) {
	var req struct {
		OllamaBaseURL string `json:"ollama_base_url"`
	}
	// the body is optional; fall back to the current setting
	_ = c.ShouldBindJSON(&req)
	baseURL := strings.TrimSuffix(req.OllamaBaseURL, "/")
	if baseURL == "" {
		baseURL = s.OllamaBaseURL()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/tags", nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"connected": false, "error": err.Error()})
		return
	}
	resp, err := s.client.Do(httpReq)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"connected": false,
			"error":     err.Error(),
		})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"connected":   false,
			"status_code": resp.StatusCode,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected":       true,
		"ollama_base_url": baseURL,
	})
}
