package usecase

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"dairytale/internal/journal/domain"
	"dairytale/internal/journal/store"
	"dairytale/pkg/latch"
	"dairytale/pkg/logger"
	"dairytale/pkg/storyclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu     sync.Mutex
	values map[string][]byte
}

func (m *memRepo) Load(_ context.Context, profileID, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[profileID+"/"+key], nil
}

func (m *memRepo) Save(_ context.Context, profileID, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[profileID+"/"+key] = value
	return nil
}

func (m *memRepo) Delete(_ context.Context, profileID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, profileID+"/"+key)
	return nil
}

// generatorServer records what the generation service receives.
type generatorServer struct {
	mu       sync.Mutex
	status   int
	reply    string
	requests []map[string]string
	paths    []string
}

func (g *generatorServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)

	g.mu.Lock()
	g.requests = append(g.requests, body)
	g.paths = append(g.paths, r.URL.Path)
	status, reply := g.status, g.reply
	g.mu.Unlock()

	if status != http.StatusOK {
		http.Error(w, "boom", status)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"story": reply})
}

const (
	profile = "profile-1"
	day     = domain.DateKey("2025-05-01")
)

// fixed clock: 2025-05-10 12:00 KST
var clock = time.Date(2025, 5, 10, 3, 0, 0, 0, time.UTC)

func newTestUsecase(t *testing.T) (*journalUsecase, *generatorServer) {
	t.Helper()
	gen := &generatorServer{status: http.StatusOK, reply: "옛날 옛적에 토끼가 살고 있었어요."}
	srv := httptest.NewServer(gen)
	t.Cleanup(srv.Close)

	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	registry := store.NewRegistry(&memRepo{values: map[string][]byte{}}, logger.Nop())
	uc := NewJournalUsecase(registry, storyclient.NewClient(srv.URL), latch.New(time.Hour), loc, logger.Nop()).(*journalUsecase)
	uc.now = func() time.Time { return clock }
	return uc, gen
}

func TestSaveDiaryTrimsAndClearsGenerated(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	_, err := uc.SaveDiary(ctx, profile, day, "첫 일기")
	require.NoError(t, err)
	_, err = uc.Generate(ctx, profile, domain.KindStory, day, "", GenerationOverride{})
	require.NoError(t, err)

	view, err := uc.SaveDiary(ctx, profile, day, "  오늘은 행복했다 \n")
	require.NoError(t, err)
	assert.Equal(t, "오늘은 행복했다", view.Diary)
	assert.True(t, view.Saved)
	assert.Empty(t, view.Story)
	assert.Empty(t, view.Poem)
}

func TestSaveDiaryRejectsEmptyAndFuture(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	_, err := uc.SaveDiary(ctx, profile, day, "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyDiary)

	_, err = uc.SaveDiary(ctx, profile, "2025-05-11", "내일 일기")
	assert.ErrorIs(t, err, domain.ErrFutureDate)

	view, err := uc.GetDay(ctx, profile, "2025-05-11")
	require.NoError(t, err)
	assert.True(t, view.Future)
	assert.Empty(t, view.Diary)

	// today is not the future
	_, err = uc.SaveDiary(ctx, profile, "2025-05-10", "오늘 일기")
	assert.NoError(t, err)
}

func TestGenerateSendsExactFieldsAndStoresStory(t *testing.T) {
	uc, gen := newTestUsecase(t)
	ctx := context.Background()

	_, err := uc.SaveDiary(ctx, profile, day, "오늘은 행복했다")
	require.NoError(t, err)

	text, err := uc.Generate(ctx, profile, domain.KindStory, day, "mount-1", GenerationOverride{})
	require.NoError(t, err)
	assert.Equal(t, "옛날 옛적에 토끼가 살고 있었어요.", text)

	require.Len(t, gen.requests, 1)
	assert.Equal(t, map[string]string{"diary": "오늘은 행복했다", "mood": "happy", "character": "토끼"}, gen.requests[0])
	assert.Equal(t, "/generate-story", gen.paths[0])

	view, err := uc.GetDay(ctx, profile, day)
	require.NoError(t, err)
	assert.Equal(t, text, view.Story)
	assert.False(t, view.StorySaved)
}

func TestGenerateUsesOverrideAndDefaults(t *testing.T) {
	uc, gen := newTestUsecase(t)
	ctx := context.Background()

	_, err := uc.SaveDiary(ctx, profile, day, "비 오는 날")
	require.NoError(t, err)
	_, err = uc.SetDefaults(ctx, profile, "sad", "고양이")
	require.NoError(t, err)

	_, err = uc.Generate(ctx, profile, domain.KindPoem, day, "", GenerationOverride{Character: "강아지"})
	require.NoError(t, err)

	require.Len(t, gen.requests, 1)
	assert.Equal(t, "/generate-poem", gen.paths[0])
	assert.Equal(t, "sad", gen.requests[0]["mood"])
	assert.Equal(t, "강아지", gen.requests[0]["character"])
}

func TestGenerateFailureLeavesStoreUntouched(t *testing.T) {
	uc, gen := newTestUsecase(t)
	gen.status = http.StatusInternalServerError
	ctx := context.Background()

	_, err := uc.SaveDiary(ctx, profile, day, "오늘은 행복했다")
	require.NoError(t, err)

	_, err = uc.Generate(ctx, profile, domain.KindStory, day, "mount-1", GenerationOverride{})
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)

	view, err := uc.GetDay(ctx, profile, day)
	require.NoError(t, err)
	assert.Empty(t, view.Story)
}

func TestGenerateRequiresSavedDiaryAndPastDate(t *testing.T) {
	uc, gen := newTestUsecase(t)
	ctx := context.Background()

	_, err := uc.Generate(ctx, profile, domain.KindStory, day, "", GenerationOverride{})
	assert.ErrorIs(t, err, domain.ErrDiaryNotSaved)

	_, err = uc.Generate(ctx, profile, domain.KindPoem, "2025-06-01", "", GenerationOverride{})
	assert.ErrorIs(t, err, domain.ErrFutureDate)

	assert.Empty(t, gen.requests)
}

func TestGenerateOncePerMount(t *testing.T) {
	uc, gen := newTestUsecase(t)
	ctx := context.Background()

	_, err := uc.SaveDiary(ctx, profile, day, "오늘은 행복했다")
	require.NoError(t, err)

	first, err := uc.Generate(ctx, profile, domain.KindStory, day, "mount-1", GenerationOverride{})
	require.NoError(t, err)

	again, err := uc.Generate(ctx, profile, domain.KindStory, day, "mount-1", GenerationOverride{})
	assert.ErrorIs(t, err, domain.ErrAlreadyRequested)
	assert.Equal(t, first, again)
	assert.Len(t, gen.requests, 1)

	// a new mount, or the other kind, fires again
	_, err = uc.Generate(ctx, profile, domain.KindStory, day, "mount-2", GenerationOverride{})
	require.NoError(t, err)
	_, err = uc.Generate(ctx, profile, domain.KindPoem, day, "mount-1", GenerationOverride{})
	require.NoError(t, err)
	assert.Len(t, gen.requests, 3)
}

func TestGenerateUnpinsNewText(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	_, err := uc.SaveDiary(ctx, profile, day, "오늘은 행복했다")
	require.NoError(t, err)
	_, err = uc.Generate(ctx, profile, domain.KindPoem, day, "", GenerationOverride{})
	require.NoError(t, err)

	pinned, err := uc.ToggleSaved(ctx, profile, domain.KindPoem, day)
	require.NoError(t, err)
	assert.True(t, pinned)

	_, err = uc.Generate(ctx, profile, domain.KindPoem, day, "", GenerationOverride{})
	require.NoError(t, err)
	view, err := uc.GetDay(ctx, profile, day)
	require.NoError(t, err)
	assert.False(t, view.PoemSaved)
}

func TestDeleteDiaryResetsDay(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	_, err := uc.SaveDiary(ctx, profile, day, "오늘은 행복했다")
	require.NoError(t, err)
	_, err = uc.Generate(ctx, profile, domain.KindStory, day, "", GenerationOverride{})
	require.NoError(t, err)
	_, err = uc.ToggleSaved(ctx, profile, domain.KindStory, day)
	require.NoError(t, err)

	view, err := uc.DeleteDiary(ctx, profile, day)
	require.NoError(t, err)
	assert.Equal(t, &DayView{Date: day}, view)
}

func seedSaved(t *testing.T, uc *journalUsecase, kind domain.Kind, dates ...domain.DateKey) {
	t.Helper()
	ctx := context.Background()
	for _, d := range dates {
		_, err := uc.SaveDiary(ctx, profile, d, "일기 "+string(d))
		require.NoError(t, err)
		_, err = uc.Generate(ctx, profile, kind, d, "", GenerationOverride{})
		require.NoError(t, err)
		_, err = uc.ToggleSaved(ctx, profile, kind, d)
		require.NoError(t, err)
	}
}

func dates(page *SavedPage) []domain.DateKey {
	out := make([]domain.DateKey, 0, len(page.Entries))
	for _, e := range page.Entries {
		out = append(out, e.Date)
	}
	return out
}

func TestSavedEntriesOrders(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()
	seedSaved(t, uc, domain.KindStory, "2025-05-03", "2025-05-01", "2025-05-02")

	page, err := uc.SavedEntries(ctx, profile, domain.KindStory, OrderSaved, 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.DateKey{"2025-05-02", "2025-05-01", "2025-05-03"}, dates(page))

	page, err = uc.SavedEntries(ctx, profile, domain.KindStory, OrderOldest, 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.DateKey{"2025-05-01", "2025-05-02", "2025-05-03"}, dates(page))

	page, err = uc.SavedEntries(ctx, profile, domain.KindStory, OrderNewest, 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.DateKey{"2025-05-03", "2025-05-02", "2025-05-01"}, dates(page))

	poems, err := uc.SavedEntries(ctx, profile, domain.KindPoem, OrderSaved, 1)
	require.NoError(t, err)
	assert.Empty(t, poems.Entries)
}

func TestSavedEntriesSkipsClearedText(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()
	seedSaved(t, uc, domain.KindPoem, "2025-05-01", "2025-05-02")

	require.NoError(t, uc.DeleteGenerated(ctx, profile, domain.KindPoem, "2025-05-01"))

	page, err := uc.SavedEntries(ctx, profile, domain.KindPoem, OrderOldest, 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.DateKey{"2025-05-02"}, dates(page))
	assert.Equal(t, 1, page.Total)

	view, err := uc.GetDay(ctx, profile, "2025-05-01")
	require.NoError(t, err)
	assert.Equal(t, "일기 2025-05-01", view.Diary)
	assert.True(t, view.PoemSaved)
}

func TestSavedEntriesPagination(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	var all []domain.DateKey
	for i := 1; i <= 9; i++ {
		all = append(all, domain.DateKey(time.Date(2025, 4, i, 0, 0, 0, 0, time.UTC).Format("2006-01-02")))
	}
	seedSaved(t, uc, domain.KindStory, all...)

	page, err := uc.SavedEntries(ctx, profile, domain.KindStory, OrderOldest, 1)
	require.NoError(t, err)
	assert.Len(t, page.Entries, 5)
	assert.True(t, page.HasMore)
	assert.Equal(t, 9, page.Total)

	page, err = uc.SavedEntries(ctx, profile, domain.KindStory, OrderOldest, 2)
	require.NoError(t, err)
	assert.Len(t, page.Entries, 9)
	assert.False(t, page.HasMore)

	page, err = uc.SavedEntries(ctx, profile, domain.KindStory, "bogus", 0)
	require.NoError(t, err)
	assert.Equal(t, OrderSaved, page.Order)
	assert.Equal(t, 1, page.Page)
}

func TestCalendarGrid(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	_, err := uc.SaveDiary(ctx, profile, day, "오늘은 행복했다")
	require.NoError(t, err)

	cal, err := uc.Calendar(ctx, profile, "2025-05")
	require.NoError(t, err)
	assert.Equal(t, "2025년 5월", cal.Title)
	assert.Equal(t, domain.MonthKey("2025-04"), cal.Prev)
	assert.Equal(t, domain.MonthKey("2025-06"), cal.Next)

	// May 2025 starts on a Thursday and ends on a Saturday
	require.Len(t, cal.Weeks, 5)
	first := cal.Weeks[0][0]
	assert.Equal(t, domain.DateKey("2025-04-27"), first.Date)
	assert.False(t, first.InMonth)

	thursday := cal.Weeks[0][4]
	assert.Equal(t, day, thursday.Date)
	assert.True(t, thursday.InMonth)
	assert.True(t, thursday.HasDiary)

	last := cal.Weeks[4][6]
	assert.Equal(t, domain.DateKey("2025-05-31"), last.Date)
	assert.True(t, last.Future)

	today := cal.Weeks[1][6]
	assert.Equal(t, domain.DateKey("2025-05-10"), today.Date)
	assert.True(t, today.Today)
	assert.False(t, today.Future)
}

func TestSearch(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	_, err := uc.SaveDiary(ctx, profile, "2025-05-01", "고양이와 놀았다")
	require.NoError(t, err)
	_, err = uc.SaveDiary(ctx, profile, "2025-05-02", "비가 왔다")
	require.NoError(t, err)
	_, err = uc.Generate(ctx, profile, domain.KindStory, "2025-05-02", "", GenerationOverride{})
	require.NoError(t, err)

	hits, err := uc.Search(ctx, profile, "고양이")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, domain.DateKey("2025-05-01"), hits[0].Date)
	assert.Equal(t, "diary", hits[0].Kind)

	hits, err = uc.Search(ctx, profile, "토끼")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "story", hits[0].Kind)

	hits, err = uc.Search(ctx, profile, "  ")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestExportImport(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	_, err := uc.SaveDiary(ctx, profile, day, "오늘은 행복했다")
	require.NoError(t, err)
	snap, err := uc.Export(ctx, profile)
	require.NoError(t, err)

	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, uc.Import(ctx, "profile-2", raw))

	view, err := uc.GetDay(ctx, "profile-2", day)
	require.NoError(t, err)
	assert.Equal(t, "오늘은 행복했다", view.Diary)

	assert.ErrorIs(t, uc.Import(ctx, profile, []byte("{not json")), domain.ErrInvalidSnapshot)
}

func TestReset(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	_, err := uc.SaveDiary(ctx, profile, day, "오늘은 행복했다")
	require.NoError(t, err)
	_, err = uc.SetDefaults(ctx, profile, "sad", "고양이")
	require.NoError(t, err)

	require.NoError(t, uc.Reset(ctx, profile))

	view, err := uc.GetDay(ctx, profile, day)
	require.NoError(t, err)
	assert.Empty(t, view.Diary)
	defaults, err := uc.Defaults(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, "happy", defaults.Mood)
}

func TestSavedEntriesHugePage(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	_, err := uc.SaveDiary(ctx, profile, day, "오늘은 행복했다")
	require.NoError(t, err)
	_, err = uc.Generate(ctx, profile, domain.KindStory, day, "", GenerationOverride{})
	require.NoError(t, err)
	_, err = uc.ToggleSaved(ctx, profile, domain.KindStory, day)
	require.NoError(t, err)

	var page *SavedPage
	assert.NotPanics(t, func() {
		page, err = uc.SavedEntries(ctx, profile, domain.KindStory, OrderSaved, math.MaxInt)
	})
	require.NoError(t, err)
	assert.Len(t, page.Entries, 1)
	assert.False(t, page.HasMore)
}

func TestSetDefaultsKeepsBlankFields(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	defaults, err := uc.Defaults(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, domain.UserDefaults{Mood: "happy", Character: "토끼"}, defaults)

	defaults, err = uc.SetDefaults(ctx, profile, "몽환", "")
	require.NoError(t, err)
	assert.Equal(t, domain.UserDefaults{Mood: "몽환", Character: "토끼"}, defaults)
}
