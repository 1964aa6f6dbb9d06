package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func settingsRouter(s *RuntimeSettings) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/settings/ollama", s.GetOllamaSettings)
	r.PUT("/api/settings/ollama", s.UpdateOllamaSettings)
	r.POST("/api/settings/ollama/test", s.TestOllamaConnection)
	return r
}

func TestUpdateOllamaSettings(t *testing.T) {
	s := NewRuntimeSettings("http://localhost:11434/", "llama3")
	assert.Equal(t, "http://localhost:11434", s.OllamaBaseURL())

	r := settingsRouter(s)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/settings/ollama", strings.NewReader(`{"ollama_base_url":"http://gpu-box:11434","ollama_model":"gemma"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://gpu-box:11434", s.OllamaBaseURL())
	assert.Equal(t, "gemma", s.OllamaModel())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/settings/ollama", nil))
	assert.JSONEq(t, `{"ollama_base_url":"http://gpu-box:11434","ollama_model":"gemma"}`, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/settings/ollama", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOllamaConnection(t *testing.T) {
	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer ollama.Close()

	r := settingsRouter(NewRuntimeSettings(ollama.URL, "llama3"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/settings/ollama/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"connected":true`)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/settings/ollama/test", strings.NewReader(`{"ollama_base_url":"http://127.0.0.1:1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"connected":false`)
}
