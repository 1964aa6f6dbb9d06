package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"dairytale/internal/journal/domain"
	"dairytale/internal/journal/store"
	"dairytale/pkg/fuzzy"
	"dairytale/pkg/latch"
	"dairytale/pkg/logger"
	"dairytale/pkg/storyclient"
)

// journalUsecase implements JournalUsecase interface
type journalUsecase struct {
	stores    *store.Registry
	generator Generator
	latches   *latch.Set
	loc       *time.Location
	now       func() time.Time
	log       *logger.Logger
}

// NewJournalUsecase creates a new instance of journalUsecase
func NewJournalUsecase(stores *store.Registry, generator Generator, latches *latch.Set, loc *time.Location, log *logger.Logger) JournalUsecase {
	if loc == nil {
		loc = time.Local
	}
	return &journalUsecase{
		stores:    stores,
		generator: generator,
		latches:   latches,
		loc:       loc,
		now:       time.Now,
		log:       log.With("service", "JournalUsecase"),
	}
}

func (u *journalUsecase) Today() domain.DateKey {
	return domain.DateKeyOf(u.now(), u.loc)
}

func (u *journalUsecase) isFuture(date domain.DateKey) bool {
	return date.IsFuture(u.now(), u.loc)
}

func (u *journalUsecase) view(s *store.Store, date domain.DateKey) *DayView {
	rec := s.Record(date)
	return &DayView{
		Date:       date,
		Future:     u.isFuture(date),
		Saved:      rec.Diary != "",
		Diary:      rec.Diary,
		Story:      rec.Story,
		Poem:       rec.Poem,
		StorySaved: rec.StorySaved,
		PoemSaved:  rec.PoemSaved,
	}
}

func (u *journalUsecase) GetDay(ctx context.Context, profileID string, date domain.DateKey) (*DayView, error) {
	s, err := u.stores.For(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return u.view(s, date), nil
}

func (u *journalUsecase) SaveDiary(ctx context.Context, profileID string, date domain.DateKey, text string) (*DayView, error) {
	if u.isFuture(date) {
		return nil, domain.ErrFutureDate
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyDiary
	}

	s, err := u.stores.For(ctx, profileID)
	if err != nil {
		return nil, err
	}
	s.SetDiary(date, text)
	return u.view(s, date), nil
}

func (u *journalUsecase) DeleteDiary(ctx context.Context, profileID string, date domain.DateKey) (*DayView, error) {
	s, err := u.stores.For(ctx, profileID)
	if err != nil {
		return nil, err
	}
	s.DeleteDiary(date)
	return u.view(s, date), nil
}

func (u *journalUsecase) Generate(ctx context.Context, profileID string, kind domain.Kind, date domain.DateKey, mountID string, override GenerationOverride) (string, error) {
	if u.isFuture(date) {
		return "", domain.ErrFutureDate
	}

	s, err := u.stores.For(ctx, profileID)
	if err != nil {
		return "", err
	}
	diary := s.GetDiary(date)
	if strings.TrimSpace(diary) == "" {
		return "", domain.ErrDiaryNotSaved
	}

	if mountID != "" {
		key := strings.Join([]string{profileID, string(kind), string(date), mountID}, ":")
		if !u.latches.Acquire(key) {
			return s.GetText(kind, date), domain.ErrAlreadyRequested
		}
	}

	defaults := s.Defaults()
	req := storyclient.Request{Diary: diary, Mood: defaults.Mood, Character: defaults.Character}
	if override.Mood != "" {
		req.Mood = override.Mood
	}
	if override.Character != "" {
		req.Character = override.Character
	}

	// leaving the page does not abort a running generation
	genCtx := context.WithoutCancel(ctx)
	// keep the janitor from evicting s while the generator runs
	release := u.stores.Hold(profileID)
	defer release()

	var text string
	if kind == domain.KindPoem {
		text, err = u.generator.GeneratePoem(genCtx, req)
	} else {
		text, err = u.generator.GenerateStory(genCtx, req)
	}
	if err != nil {
		u.log.Warn("generation failed", "profile_id", profileID, "kind", kind, "date", date, "error", err)
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	s.SetText(kind, date, text)
	s.SetSaved(kind, date, false)
	u.log.Info("generated text stored", "profile_id", profileID, "kind", kind, "date", date)
	return text, nil
}

func (u *journalUsecase) ToggleSaved(ctx context.Context, profileID string, kind domain.Kind, date domain.DateKey) (bool, error) {
	s, err := u.stores.For(ctx, profileID)
	if err != nil {
		return false, err
	}
	return s.ToggleSaved(kind, date), nil
}

func (u *journalUsecase) DeleteGenerated(ctx context.Context, profileID string, kind domain.Kind, date domain.DateKey) error {
	s, err := u.stores.For(ctx, profileID)
	if err != nil {
		return err
	}
	s.SetText(kind, date, "")
	return nil
}

func (u *journalUsecase) Defaults(ctx context.Context, profileID string) (domain.UserDefaults, error) {
	s, err := u.stores.For(ctx, profileID)
	if err != nil {
		return domain.UserDefaults{}, err
	}
	return s.Defaults(), nil
}

// SetDefaults keeps the current value for any empty argument.
func (u *journalUsecase) SetDefaults(ctx context.Context, profileID string, mood, character string) (domain.UserDefaults, error) {
	s, err := u.stores.For(ctx, profileID)
	if err != nil {
		return domain.UserDefaults{}, err
	}
	current := s.Defaults()
	if mood = strings.TrimSpace(mood); mood == "" {
		mood = current.Mood
	}
	if character = strings.TrimSpace(character); character == "" {
		character = current.Character
	}
	s.SetDefaults(mood, character)
	return s.Defaults(), nil
}

func (u *journalUsecase) SavedEntries(ctx context.Context, profileID string, kind domain.Kind, order SavedOrder, page int) (*SavedPage, error) {
	s, err := u.stores.For(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	dates := s.SavedDates(kind)
	switch order {
	case OrderOldest:
		slices.Sort(dates)
	case OrderNewest:
		slices.Sort(dates)
		slices.Reverse(dates)
	default:
		order = OrderSaved
		// most recently pinned first
		slices.Reverse(dates)
	}

	entries := make([]SavedEntry, 0, len(dates))
	for _, d := range dates {
		text := s.GetText(kind, d)
		if strings.TrimSpace(text) == "" {
			continue
		}
		entries = append(entries, SavedEntry{Date: d, Text: text})
	}

	total := len(entries)
	if limit := pageLimit(page); limit < total {
		entries = entries[:limit]
	}
	return &SavedPage{
		Kind:    kind,
		Order:   order,
		Page:    page,
		Total:   total,
		HasMore: len(entries) < total,
		Entries: entries,
	}, nil
}

// pageLimit is the number of entries shown up to page, saturating instead of
// overflowing for absurd page numbers.
func pageLimit(page int) int {
	if page-1 > (math.MaxInt-FirstPageSize)/PageStep {
		return math.MaxInt
	}
	return FirstPageSize + (page-1)*PageStep
}

func (u *journalUsecase) Calendar(ctx context.Context, profileID string, month domain.MonthKey) (*CalendarMonth, error) {
	s, err := u.stores.For(ctx, profileID)
	if err != nil {
		return nil, err
	}

	hasDiary := make(map[domain.DateKey]bool)
	for _, d := range s.DiaryDates() {
		hasDiary[d] = true
	}
	today := u.Today()

	first := month.First()
	last := first.AddDate(0, 1, -1)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, 6-int(last.Weekday()))

	cal := &CalendarMonth{
		Month: month,
		Title: month.Title(),
		Prev:  month.Prev(),
		Next:  month.Next(),
	}
	var week []CalendarDay
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := domain.DateKeyOf(day, time.UTC)
		week = append(week, CalendarDay{
			Date:     key,
			Day:      day.Day(),
			InMonth:  day.Month() == first.Month(),
			HasDiary: hasDiary[key],
			Future:   key > today,
			Today:    key == today,
		})
		if len(week) == 7 {
			cal.Weeks = append(cal.Weeks, week)
			week = nil
		}
	}
	return cal, nil
}

func (u *journalUsecase) Search(ctx context.Context, profileID string, query string) ([]SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	s, err := u.stores.For(ctx, profileID)
	if err != nil {
		return nil, err
	}

	snap := s.Snapshot().State
	var hits []SearchHit
	collect := func(kind string, texts map[domain.DateKey]string) {
		for date, text := range texts {
			if score := fuzzy.Score(query, text); score > 0 {
				hits = append(hits, SearchHit{Date: date, Kind: kind, Text: text, Score: score})
			}
		}
	}
	collect("diary", snap.DiaryByDate)
	collect(string(domain.KindStory), snap.StoryByDate)
	collect(string(domain.KindPoem), snap.PoemByDate)

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].Date != hits[j].Date {
			return hits[i].Date > hits[j].Date
		}
		return hits[i].Kind < hits[j].Kind
	})
	return hits, nil
}

func (u *journalUsecase) Export(ctx context.Context, profileID string) (domain.Snapshot, error) {
	s, err := u.stores.For(ctx, profileID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return s.Snapshot(), nil
}

func (u *journalUsecase) Import(ctx context.Context, profileID string, raw []byte) error {
	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
	}
	s, err := u.stores.For(ctx, profileID)
	if err != nil {
		return err
	}
	s.Import(snap)
	u.log.Info("journal imported", "profile_id", profileID)
	return nil
}

func (u *journalUsecase) Reset(ctx context.Context, profileID string) error {
	if err := u.stores.Drop(ctx, profileID); err != nil {
		return err
	}
	u.log.Info("journal reset", "profile_id", profileID)
	return nil
}
