package delivery

import (
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	authDelivery "dairytale/internal/auth/delivery"
	"dairytale/internal/journal/domain"
	"dairytale/internal/journal/usecase"
	"dairytale/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// customOption is the select value that switches a default to the free text input
const customOption = "기타"

// PageHandler serves the server-rendered pages
type PageHandler struct {
	journalUsecase usecase.JournalUsecase
	log            *logger.Logger
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(journalUsecase usecase.JournalUsecase, log *logger.Logger) *PageHandler {
	return &PageHandler{
		journalUsecase: journalUsecase,
		log:            log.With("handler", "PageHandler"),
	}
}

type indexPage struct {
	Calendar *usecase.CalendarMonth
	Selected domain.DateKey
	Day      *usecase.DayView
	Draft    string
	Error    string
}

type generatedPage struct {
	Kind   domain.Kind
	Date   domain.DateKey
	Future bool
	Text   string
	Failed bool
	Pinned bool
	Error  string
}

type modalView struct {
	Text     string
	CloseURL string
}

type sortLink struct {
	Label  string
	URL    string
	Active bool
}

type savedItem struct {
	Kind      domain.Kind
	Date      domain.DateKey
	Text      string
	OpenURL   string
	ReturnURL string
}

type savedSection struct {
	Kind    domain.Kind
	Heading string
	Color   string
	Accent  string
	Sorts   []sortLink
	Entries []savedItem
	MoreURL string
}

type mypagePage struct {
	Defaults         domain.UserDefaults
	MoodOptions      []string
	CharacterOptions []string
	MoodCustom       bool
	CharacterCustom  bool
	Query            string
	Hits             []usecase.SearchHit
	Sections         []savedSection
	Modal            *modalView
}

func (h *PageHandler) internalError(c *gin.Context, err error) {
	h.log.Error("page request failed", "path", c.FullPath(), "error", err)
	c.String(http.StatusInternalServerError, "일시적인 오류가 발생했어요.")
}

// Index renders the calendar and, when a date is selected, its diary panel
// GET /?date=2025-05-01&month=2025-05
func (h *PageHandler) Index(c *gin.Context) {
	h.renderIndex(c, http.StatusOK, c.Query("date"), c.Query("month"), "", "")
}

func (h *PageHandler) renderIndex(c *gin.Context, status int, rawDate, rawMonth, draft, errMsg string) {
	ctx := c.Request.Context()
	profileID := authDelivery.ProfileID(c)

	page := indexPage{Draft: draft, Error: errMsg}
	if rawDate != "" {
		date, err := domain.ParseDateKey(rawDate)
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		page.Selected = date
	}

	month := domain.MonthOf(h.journalUsecase.Today())
	if page.Selected != "" {
		month = domain.MonthOf(page.Selected)
	}
	if rawMonth != "" {
		m, err := domain.ParseMonthKey(rawMonth)
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		month = m
	}

	cal, err := h.journalUsecase.Calendar(ctx, profileID, month)
	if err != nil {
		h.internalError(c, err)
		return
	}
	page.Calendar = cal

	if page.Selected != "" {
		day, err := h.journalUsecase.GetDay(ctx, profileID, page.Selected)
		if err != nil {
			h.internalError(c, err)
			return
		}
		page.Day = day
	}

	c.HTML(status, "index.html", page)
}

// SaveDiary stores the diary form and redirects back to the date
// POST /diary
func (h *PageHandler) SaveDiary(c *gin.Context) {
	date, err := domain.ParseDateKey(c.PostForm("date"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	diary := c.PostForm("diary")

	_, err = h.journalUsecase.SaveDiary(c.Request.Context(), authDelivery.ProfileID(c), date, diary)
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, "/?date="+date.String())
	case errors.Is(err, domain.ErrEmptyDiary), errors.Is(err, domain.ErrFutureDate):
		h.renderIndex(c, http.StatusUnprocessableEntity, date.String(), "", diary, err.Error())
	default:
		h.internalError(c, err)
	}
}

// DeleteDiary resets the date and redirects back to it
// POST /diary/delete
func (h *PageHandler) DeleteDiary(c *gin.Context) {
	date, err := domain.ParseDateKey(c.PostForm("date"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.journalUsecase.DeleteDiary(c.Request.Context(), authDelivery.ProfileID(c), date); err != nil {
		h.internalError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/?date="+date.String())
}

// Generated returns the story or poem page handler.
// GET /story?date=&generate=true&mount=
//
// generate=true without a mount is redirected to a fresh mount ID. The first
// render of a mount asks for a new text; reloading the same URL only shows
// what was stored.
func (h *PageHandler) Generated(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		profileID := authDelivery.ProfileID(c)

		date := h.journalUsecase.Today()
		if raw := c.Query("date"); raw != "" {
			parsed, err := domain.ParseDateKey(raw)
			if err != nil {
				c.String(http.StatusBadRequest, err.Error())
				return
			}
			date = parsed
		}

		generate := c.Query("generate") == "true"
		mount := c.Query("mount")
		if generate && mount == "" {
			q := c.Request.URL.Query()
			q.Set("date", date.String())
			q.Set("mount", uuid.New().String())
			c.Redirect(http.StatusSeeOther, "/"+string(kind)+"?"+q.Encode())
			return
		}

		page := generatedPage{Kind: kind, Date: date}
		if generate {
			text, err := h.journalUsecase.Generate(ctx, profileID, kind, date, mount, usecase.GenerationOverride{})
			switch {
			case err == nil, errors.Is(err, domain.ErrAlreadyRequested):
				page.Text = text
			case errors.Is(err, domain.ErrGenerationFailed):
				page.Text = kind.FailureMessage()
				page.Failed = true
			case errors.Is(err, domain.ErrDiaryNotSaved), errors.Is(err, domain.ErrFutureDate):
				page.Error = err.Error()
			default:
				h.internalError(c, err)
				return
			}
		}

		view, err := h.journalUsecase.GetDay(ctx, profileID, date)
		if err != nil {
			h.internalError(c, err)
			return
		}
		page.Future = view.Future
		if !page.Failed {
			page.Text = view.Text(kind)
		}
		page.Pinned = view.Pinned(kind)

		c.HTML(http.StatusOK, "generated.html", page)
	}
}

// ToggleSaved returns the bookmark handler of the story or poem page
// POST /story/save
func (h *PageHandler) ToggleSaved(kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		date, err := domain.ParseDateKey(c.PostForm("date"))
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		if _, err := h.journalUsecase.ToggleSaved(c.Request.Context(), authDelivery.ProfileID(c), kind, date); err != nil {
			h.internalError(c, err)
			return
		}
		c.Redirect(http.StatusSeeOther, "/"+string(kind)+"?generate=false&date="+date.String())
	}
}

// mypageURL builds my-page links that keep the other list's state
func mypageURL(q url.Values, set map[string]string) string {
	next := url.Values{}
	for k, v := range q {
		next[k] = slices.Clone(v)
	}
	for k, v := range set {
		if v == "" {
			next.Del(k)
		} else {
			next.Set(k, v)
		}
	}
	if len(next) == 0 {
		return "/mypage"
	}
	return "/mypage?" + next.Encode()
}

// MyPage renders defaults, search and the saved lists
// GET /mypage?story_sort=&poem_sort=&story_page=&poem_page=&open=story:2025-05-01&q=
func (h *PageHandler) MyPage(c *gin.Context) {
	ctx := c.Request.Context()
	profileID := authDelivery.ProfileID(c)
	q := c.Request.URL.Query()

	defaults, err := h.journalUsecase.Defaults(ctx, profileID)
	if err != nil {
		h.internalError(c, err)
		return
	}

	page := mypagePage{
		Defaults:         defaults,
		MoodOptions:      domain.MoodOptions,
		CharacterOptions: domain.CharacterOptions,
		MoodCustom:       !slices.Contains(domain.MoodOptions, defaults.Mood),
		CharacterCustom:  !slices.Contains(domain.CharacterOptions, defaults.Character),
		Query:            strings.TrimSpace(q.Get("q")),
	}

	if page.Query != "" {
		page.Hits, err = h.journalUsecase.Search(ctx, profileID, page.Query)
		if err != nil {
			h.internalError(c, err)
			return
		}
	}

	current := mypageURL(q, nil)
	for _, kind := range []domain.Kind{domain.KindStory, domain.KindPoem} {
		sortKey, pageKey := string(kind)+"_sort", string(kind)+"_page"
		order := usecase.ParseSavedOrder(q.Get(sortKey))
		n, _ := strconv.Atoi(q.Get(pageKey))

		saved, err := h.journalUsecase.SavedEntries(ctx, profileID, kind, order, n)
		if err != nil {
			h.internalError(c, err)
			return
		}

		section := savedSection{Kind: kind}
		if kind == domain.KindPoem {
			section.Heading, section.Color, section.Accent = "💖 저장한 시", "#d8b4fe", "#c084fc"
		} else {
			section.Heading, section.Color, section.Accent = "⭐ 저장한 동화", "#fef08a", "#facc15"
		}
		for _, o := range usecase.SavedOrders {
			section.Sorts = append(section.Sorts, sortLink{
				Label:  o.Label(),
				URL:    mypageURL(q, map[string]string{sortKey: string(o), pageKey: ""}),
				Active: o == saved.Order,
			})
		}
		for _, e := range saved.Entries {
			section.Entries = append(section.Entries, savedItem{
				Kind:      kind,
				Date:      e.Date,
				Text:      e.Text,
				OpenURL:   mypageURL(q, map[string]string{"open": string(kind) + ":" + e.Date.String()}),
				ReturnURL: current,
			})
		}
		if saved.HasMore {
			section.MoreURL = mypageURL(q, map[string]string{pageKey: strconv.Itoa(saved.Page + 1)})
		}
		page.Sections = append(page.Sections, section)
	}

	if open := q.Get("open"); open != "" {
		page.Modal = h.modalFor(c, profileID, open, mypageURL(q, map[string]string{"open": ""}))
	}

	c.HTML(http.StatusOK, "mypage.html", page)
}

// modalFor resolves open=kind:date; anything unresolvable shows no modal.
func (h *PageHandler) modalFor(c *gin.Context, profileID, open, closeURL string) *modalView {
	rawKind, rawDate, ok := strings.Cut(open, ":")
	if !ok {
		return nil
	}
	kind, err := domain.ParseKind(rawKind)
	if err != nil {
		return nil
	}
	date, err := domain.ParseDateKey(rawDate)
	if err != nil {
		return nil
	}
	view, err := h.journalUsecase.GetDay(c.Request.Context(), profileID, date)
	if err != nil || view.Text(kind) == "" {
		return nil
	}
	return &modalView{Text: view.Text(kind), CloseURL: closeURL}
}

// SaveDefaults updates the default mood and character
// POST /mypage/defaults
func (h *PageHandler) SaveDefaults(c *gin.Context) {
	mood := c.PostForm("mood")
	if mood == customOption {
		mood = c.PostForm("mood_custom")
	}
	character := c.PostForm("character")
	if character == customOption {
		character = c.PostForm("character_custom")
	}

	if _, err := h.journalUsecase.SetDefaults(c.Request.Context(), authDelivery.ProfileID(c), mood, character); err != nil {
		h.internalError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/mypage")
}

// DeleteSaved clears a text from the my-page list
// POST /mypage/delete
func (h *PageHandler) DeleteSaved(c *gin.Context) {
	kind, err := domain.ParseKind(c.PostForm("kind"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	date, err := domain.ParseDateKey(c.PostForm("date"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	if err := h.journalUsecase.DeleteGenerated(c.Request.Context(), authDelivery.ProfileID(c), kind, date); err != nil {
		h.internalError(c, err)
		return
	}

	back := c.PostForm("return")
	if !strings.HasPrefix(back, "/mypage") {
		back = "/mypage"
	}
	c.Redirect(http.StatusSeeOther, back)
}

// Shared is a placeholder for the shared-stories feed
// GET /shared
func (h *PageHandler) Shared(c *gin.Context) {
	c.HTML(http.StatusOK, "shared.html", nil)
}
