package delivery

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	authDelivery "dairytale/internal/auth/delivery"
	"dairytale/internal/journal/domain"
	"dairytale/internal/journal/usecase"
	"dairytale/pkg/logger"

	"github.com/gin-gonic/gin"
)

// JournalHandler serves the JSON API over the journal
type JournalHandler struct {
	journalUsecase usecase.JournalUsecase
	log            *logger.Logger
}

// NewJournalHandler creates a new JournalHandler
func NewJournalHandler(journalUsecase usecase.JournalUsecase, log *logger.Logger) *JournalHandler {
	return &JournalHandler{
		journalUsecase: journalUsecase,
		log:            log.With("handler", "JournalHandler"),
	}
}

type diaryRequest struct {
	Diary string `json:"diary"`
}

type generateRequest struct {
	Mood      string `json:"mood"`
	Character string `json:"character"`
	Mount     string `json:"mount"`
}

type defaultsRequest struct {
	Mood      string `json:"mood"`
	Character string `json:"character"`
}

// statusFor maps usecase errors to HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidKind),
		errors.Is(err, domain.ErrEmptyDiary),
		errors.Is(err, domain.ErrInvalidSnapshot):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDiaryNotSaved),
		errors.Is(err, domain.ErrAlreadyRequested):
		return http.StatusConflict
	case errors.Is(err, domain.ErrFutureDate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrGenerationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *JournalHandler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("journal request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func dateParam(c *gin.Context) (domain.DateKey, bool) {
	date, err := domain.ParseDateKey(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return date, true
}

func kindParam(c *gin.Context) (domain.Kind, bool) {
	kind, err := domain.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return kind, true
}

// GetCalendar returns the month grid
// GET /api/journal/calendar?month=2025-05
func (h *JournalHandler) GetCalendar(c *gin.Context) {
	month := domain.MonthOf(h.journalUsecase.Today())
	if m := c.Query("month"); m != "" {
		parsed, err := domain.ParseMonthKey(m)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		month = parsed
	}

	cal, err := h.journalUsecase.Calendar(c.Request.Context(), authDelivery.ProfileID(c), month)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cal)
}

// GetDay returns everything stored for one date
// GET /api/journal/days/:date
func (h *JournalHandler) GetDay(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	view, err := h.journalUsecase.GetDay(c.Request.Context(), authDelivery.ProfileID(c), date)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PutDiary saves the diary of a date, discarding its story and poem
// PUT /api/journal/days/:date/diary
func (h *JournalHandler) PutDiary(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	var req diaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.journalUsecase.SaveDiary(c.Request.Context(), authDelivery.ProfileID(c), date, req.Diary)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DeleteDiary resets a date
// DELETE /api/journal/days/:date/diary
func (h *JournalHandler) DeleteDiary(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	view, err := h.journalUsecase.DeleteDiary(c.Request.Context(), authDelivery.ProfileID(c), date)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Generate requests a story or poem for the date
// POST /api/journal/days/:date/:kind/generate
func (h *JournalHandler) Generate(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	// the body is optional
	var req generateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	text, err := h.journalUsecase.Generate(c.Request.Context(), authDelivery.ProfileID(c), kind, date, req.Mount,
		usecase.GenerationOverride{Mood: req.Mood, Character: req.Character})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"kind": kind, "date": date, "text": text})
	case errors.Is(err, domain.ErrAlreadyRequested):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "text": text})
	case errors.Is(err, domain.ErrGenerationFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": kind.FailureMessage()})
	default:
		h.fail(c, err)
	}
}

// ToggleSave flips the pin flag
// POST /api/journal/days/:date/:kind/toggle-save
func (h *JournalHandler) ToggleSave(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	saved, err := h.journalUsecase.ToggleSaved(c.Request.Context(), authDelivery.ProfileID(c), kind, date)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

// DeleteGenerated clears the generated text
// DELETE /api/journal/days/:date/:kind
func (h *JournalHandler) DeleteGenerated(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	if err := h.journalUsecase.DeleteGenerated(c.Request.Context(), authDelivery.ProfileID(c), kind, date); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSaved lists pinned texts
// GET /api/journal/saved/:kind?sort=saved&page=1
func (h *JournalHandler) GetSaved(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := h.journalUsecase.SavedEntries(c.Request.Context(), authDelivery.ProfileID(c), kind, usecase.ParseSavedOrder(c.Query("sort")), page)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetDefaults returns the default mood and character
// GET /api/journal/defaults
func (h *JournalHandler) GetDefaults(c *gin.Context) {
	defaults, err := h.journalUsecase.Defaults(c.Request.Context(), authDelivery.ProfileID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, defaults)
}

// PutDefaults updates the default mood and character
// PUT /api/journal/defaults
func (h *JournalHandler) PutDefaults(c *gin.Context) {
	var req defaultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defaults, err := h.journalUsecase.SetDefaults(c.Request.Context(), authDelivery.ProfileID(c), req.Mood, req.Character)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, defaults)
}

// Search does a fuzzy search over diaries, stories and poems
// GET /api/journal/search?q=
func (h *JournalHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}
	hits, err := h.journalUsecase.Search(c.Request.Context(), authDelivery.ProfileID(c), query)
	if err != nil {
		h.fail(c, err)
		return
	}
	if hits == nil {
		hits = []usecase.SearchHit{}
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "results": hits, "total": len(hits)})
}

// GetStorage exports the raw story-storage snapshot
// GET /api/storage/story-storage
func (h *JournalHandler) GetStorage(c *gin.Context) {
	snap, err := h.journalUsecase.Export(c.Request.Context(), authDelivery.ProfileID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// PutStorage replaces the whole journal with a story-storage snapshot
// PUT /api/storage/story-storage
func (h *JournalHandler) PutStorage(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.journalUsecase.Import(c.Request.Context(), authDelivery.ProfileID(c), raw); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteStorage wipes the journal of the current profile
// DELETE /api/storage/story-storage
func (h *JournalHandler) DeleteStorage(c *gin.Context) {
	if err := h.journalUsecase.Reset(c.Request.Context(), authDelivery.ProfileID(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
