package store

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"dairytale/internal/journal/domain"
	"dairytale/internal/journal/repository"
	"dairytale/pkg/logger"
)

// Store is the journal state of one profile. Every mutation is written through
// to the storage repository before it returns; write failures are only logged.
type Store struct {
	mu        sync.RWMutex
	profileID string
	repo      repository.StorageRepository
	log       *logger.Logger
	state     domain.SnapshotState
}

// New creates an empty store with default preferences
func New(profileID string, repo repository.StorageRepository, log *logger.Logger) *Store {
	s := &Store{
		profileID: profileID,
		repo:      repo,
		log:       log,
	}
	s.state = normalize(domain.SnapshotState{})
	return s
}

func normalize(st domain.SnapshotState) domain.SnapshotState {
	if st.DiaryByDate == nil {
		st.DiaryByDate = map[domain.DateKey]string{}
	}
	if st.StoryByDate == nil {
		st.StoryByDate = map[domain.DateKey]string{}
	}
	if st.PoemByDate == nil {
		st.PoemByDate = map[domain.DateKey]string{}
	}
	if st.SavedStoriesByDate == nil {
		st.SavedStoriesByDate = map[domain.DateKey]bool{}
	}
	if st.SavedPoemsByDate == nil {
		st.SavedPoemsByDate = map[domain.DateKey]bool{}
	}
	if st.StoryHistoryByDate == nil {
		st.StoryHistoryByDate = map[domain.DateKey][]string{}
	}
	if st.PoemHistoryByDate == nil {
		st.PoemHistoryByDate = map[domain.DateKey][]string{}
	}
	if st.DefaultMood == "" {
		st.DefaultMood = domain.DefaultMood
	}
	if st.DefaultCharacter == "" {
		st.DefaultCharacter = domain.DefaultCharacter
	}
	// order lists must only hold pinned dates, once each
	st.SavedStoryOrder = cleanOrder(st.SavedStoryOrder, st.SavedStoriesByDate)
	st.SavedPoemOrder = cleanOrder(st.SavedPoemOrder, st.SavedPoemsByDate)
	return st
}

func cleanOrder(order []domain.DateKey, flags map[domain.DateKey]bool) []domain.DateKey {
	seen := make(map[domain.DateKey]bool, len(order))
	out := make([]domain.DateKey, 0, len(order))
	for _, d := range order {
		if flags[d] && !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	// pinned dates missing from the order (older snapshots) go first, sorted
	var missing []domain.DateKey
	for d, on := range flags {
		if on && !seen[d] {
			missing = append(missing, d)
		}
	}
	slices.Sort(missing)
	return append(missing, out...)
}

// persistLocked writes the current state; callers hold s.mu.
func (s *Store) persistLocked() {
	if s.repo == nil {
		return
	}
	raw, err := json.Marshal(domain.Snapshot{State: s.state, Version: 0})
	if err != nil {
		s.log.Warn("failed to encode journal snapshot", "profile_id", s.profileID, "error", err)
		return
	}
	if err := s.repo.Save(context.Background(), s.profileID, domain.StorageKey, raw); err != nil {
		s.log.Warn("failed to persist journal snapshot", "profile_id", s.profileID, "error", err)
	}
}

func setOrDelete(m map[domain.DateKey]string, date domain.DateKey, text string) {
	if text == "" {
		delete(m, date)
		return
	}
	m[date] = text
}

// SetDiary stores the diary of date and resets everything generated from the previous entry.
func (s *Store) SetDiary(date domain.DateKey, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	setOrDelete(s.state.DiaryByDate, date, text)
	s.resetGeneratedLocked(date)
	s.persistLocked()
}

// DeleteDiary resets every field of date.
func (s *Store) DeleteDiary(date domain.DateKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.state.DiaryByDate, date)
	s.resetGeneratedLocked(date)
	s.persistLocked()
}

func (s *Store) resetGeneratedLocked(date domain.DateKey) {
	delete(s.state.StoryByDate, date)
	delete(s.state.PoemByDate, date)
	delete(s.state.StoryHistoryByDate, date)
	delete(s.state.PoemHistoryByDate, date)
	s.setSavedLocked(domain.KindStory, date, false)
	s.setSavedLocked(domain.KindPoem, date, false)
}

func (s *Store) GetDiary(date domain.DateKey) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.DiaryByDate[date]
}

func (s *Store) GetStory(date domain.DateKey) string {
	return s.GetText(domain.KindStory, date)
}

func (s *Store) GetPoem(date domain.DateKey) string {
	return s.GetText(domain.KindPoem, date)
}

func (s *Store) GetText(kind domain.Kind, date domain.DateKey) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.textsLocked(kind)[date]
}

func (s *Store) SetStory(date domain.DateKey, text string) {
	s.SetText(domain.KindStory, date, text)
}

func (s *Store) SetPoem(date domain.DateKey, text string) {
	s.SetText(domain.KindPoem, date, text)
}

// SetText overwrites the generated text of date. The saved flag is left alone.
func (s *Store) SetText(kind domain.Kind, date domain.DateKey, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	setOrDelete(s.textsLocked(kind), date, text)
	if text != "" {
		history := s.historyLocked(kind)
		history[date] = append(history[date], text)
	}
	s.persistLocked()
}

func (s *Store) textsLocked(kind domain.Kind) map[domain.DateKey]string {
	if kind == domain.KindPoem {
		return s.state.PoemByDate
	}
	return s.state.StoryByDate
}

func (s *Store) historyLocked(kind domain.Kind) map[domain.DateKey][]string {
	if kind == domain.KindPoem {
		return s.state.PoemHistoryByDate
	}
	return s.state.StoryHistoryByDate
}

func (s *Store) flagsLocked(kind domain.Kind) (map[domain.DateKey]bool, *[]domain.DateKey) {
	if kind == domain.KindPoem {
		return s.state.SavedPoemsByDate, &s.state.SavedPoemOrder
	}
	return s.state.SavedStoriesByDate, &s.state.SavedStoryOrder
}

func (s *Store) setSavedLocked(kind domain.Kind, date domain.DateKey, saved bool) {
	flags, order := s.flagsLocked(kind)
	*order = slices.DeleteFunc(*order, func(d domain.DateKey) bool { return d == date })
	if !saved {
		delete(flags, date)
		return
	}
	flags[date] = true
	*order = append(*order, date)
}

// ToggleSaved flips the pin flag and returns the new value.
func (s *Store) ToggleSaved(kind domain.Kind, date domain.DateKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	flags, _ := s.flagsLocked(kind)
	saved := !flags[date]
	s.setSavedLocked(kind, date, saved)
	s.persistLocked()
	return saved
}

func (s *Store) SetSaved(kind domain.Kind, date domain.DateKey, saved bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setSavedLocked(kind, date, saved)
	s.persistLocked()
}

func (s *Store) IsSaved(kind domain.Kind, date domain.DateKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	flags, _ := s.flagsLocked(kind)
	return flags[date]
}

// SavedDates lists pinned dates in the order they were pinned.
func (s *Store) SavedDates(kind domain.Kind) []domain.DateKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, order := s.flagsLocked(kind)
	return slices.Clone(*order)
}

// History lists every text generated for date since its diary was last saved.
func (s *Store) History(kind domain.Kind, date domain.DateKey) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.historyLocked(kind)[date])
}

// DiaryDates lists dates with a diary entry, oldest first.
func (s *Store) DiaryDates() []domain.DateKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dates := make([]domain.DateKey, 0, len(s.state.DiaryByDate))
	for d := range s.state.DiaryByDate {
		dates = append(dates, d)
	}
	slices.Sort(dates)
	return dates
}

func (s *Store) Record(date domain.DateKey) domain.DailyRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.DailyRecord{
		Date:       date,
		Diary:      s.state.DiaryByDate[date],
		Story:      s.state.StoryByDate[date],
		Poem:       s.state.PoemByDate[date],
		StorySaved: s.state.SavedStoriesByDate[date],
		PoemSaved:  s.state.SavedPoemsByDate[date],
	}
}

func (s *Store) SetDefaults(mood, character string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.DefaultMood = mood
	s.state.DefaultCharacter = character
	s.persistLocked()
}

func (s *Store) Defaults() domain.UserDefaults {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.UserDefaults{Mood: s.state.DefaultMood, Character: s.state.DefaultCharacter}
}

// Snapshot returns a deep copy of the state.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Snapshot{State: cloneState(s.state), Version: 0}
}

// Import replaces the whole state and persists it.
func (s *Store) Import(snap domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = normalize(cloneState(snap.State))
	s.persistLocked()
}

func (s *Store) restore(snap domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = normalize(snap.State)
}

func cloneState(st domain.SnapshotState) domain.SnapshotState {
	out := st
	out.DiaryByDate = cloneMap(st.DiaryByDate)
	out.StoryByDate = cloneMap(st.StoryByDate)
	out.PoemByDate = cloneMap(st.PoemByDate)
	out.SavedStoriesByDate = cloneMap(st.SavedStoriesByDate)
	out.SavedPoemsByDate = cloneMap(st.SavedPoemsByDate)
	out.SavedStoryOrder = slices.Clone(st.SavedStoryOrder)
	out.SavedPoemOrder = slices.Clone(st.SavedPoemOrder)
	out.StoryHistoryByDate = cloneHistory(st.StoryHistoryByDate)
	out.PoemHistoryByDate = cloneHistory(st.PoemHistoryByDate)
	return out
}

func cloneMap[V any](m map[domain.DateKey]V) map[domain.DateKey]V {
	if m == nil {
		return nil
	}
	out := make(map[domain.DateKey]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneHistory(m map[domain.DateKey][]string) map[domain.DateKey][]string {
	if m == nil {
		return nil
	}
	out := make(map[domain.DateKey][]string, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}
