package usecase

import (
	"context"

	"dairytale/internal/journal/domain"
	"dairytale/pkg/storyclient"
)

// JournalUsecase defines the business logic behind the journal pages and API.
// Every operation is scoped to one profile.
type JournalUsecase interface {
	// Today is the current calendar day in the configured time zone
	Today() domain.DateKey

	GetDay(ctx context.Context, profileID string, date domain.DateKey) (*DayView, error)
	SaveDiary(ctx context.Context, profileID string, date domain.DateKey, text string) (*DayView, error)
	DeleteDiary(ctx context.Context, profileID string, date domain.DateKey) (*DayView, error)

	// Generate requests a story or poem for a date with a saved diary and stores it.
	// mountID identifies one rendered view: the second call with the same mountID
	// does not hit the generator and returns the stored text with ErrAlreadyRequested.
	// An empty mountID is never deduplicated.
	Generate(ctx context.Context, profileID string, kind domain.Kind, date domain.DateKey, mountID string, override GenerationOverride) (string, error)

	ToggleSaved(ctx context.Context, profileID string, kind domain.Kind, date domain.DateKey) (bool, error)
	// DeleteGenerated clears the text of kind for date, leaving the diary and pin flag alone.
	DeleteGenerated(ctx context.Context, profileID string, kind domain.Kind, date domain.DateKey) error

	Defaults(ctx context.Context, profileID string) (domain.UserDefaults, error)
	SetDefaults(ctx context.Context, profileID string, mood, character string) (domain.UserDefaults, error)

	SavedEntries(ctx context.Context, profileID string, kind domain.Kind, order SavedOrder, page int) (*SavedPage, error)
	Calendar(ctx context.Context, profileID string, month domain.MonthKey) (*CalendarMonth, error)
	Search(ctx context.Context, profileID string, query string) ([]SearchHit, error)

	Export(ctx context.Context, profileID string) (domain.Snapshot, error)
	Import(ctx context.Context, profileID string, raw []byte) error
	// Reset deletes the persisted journal, leaving an empty one with default preferences
	Reset(ctx context.Context, profileID string) error
}

// Generator is the client side of the generation service
type Generator interface {
	GenerateStory(ctx context.Context, req storyclient.Request) (string, error)
	GeneratePoem(ctx context.Context, req storyclient.Request) (string, error)
}

// GenerationOverride replaces the profile defaults for one request. Empty fields fall back.
type GenerationOverride struct {
	Mood      string `json:"mood"`
	Character string `json:"character"`
}

// DayView is what the main page and the generated-text pages show for one date.
type DayView struct {
	Date       domain.DateKey `json:"date"`
	Future     bool           `json:"future"`
	Saved      bool           `json:"saved"`
	Diary      string         `json:"diary"`
	Story      string         `json:"story"`
	Poem       string         `json:"poem"`
	StorySaved bool           `json:"story_saved"`
	PoemSaved  bool           `json:"poem_saved"`
}

// Text returns the generated text of kind
func (v *DayView) Text(kind domain.Kind) string {
	if kind == domain.KindPoem {
		return v.Poem
	}
	return v.Story
}

// Pinned returns the saved flag of kind
func (v *DayView) Pinned(kind domain.Kind) bool {
	if kind == domain.KindPoem {
		return v.PoemSaved
	}
	return v.StorySaved
}

// SavedOrder sorts the my-page lists
type SavedOrder string

const (
	OrderSaved  SavedOrder = "saved"
	OrderOldest SavedOrder = "oldest"
	OrderNewest SavedOrder = "newest"
)

// ParseSavedOrder defaults to OrderSaved for anything unknown
func ParseSavedOrder(s string) SavedOrder {
	switch SavedOrder(s) {
	case OrderOldest, OrderNewest:
		return SavedOrder(s)
	default:
		return OrderSaved
	}
}

func (o SavedOrder) Label() string {
	switch o {
	case OrderOldest:
		return "오래된 순"
	case OrderNewest:
		return "최신 순"
	default:
		return "저장순"
	}
}

var SavedOrders = []SavedOrder{OrderSaved, OrderOldest, OrderNewest}

// First page shows FirstPageSize entries, every further page PageStep more.
const (
	FirstPageSize = 5
	PageStep      = 10
)

type SavedEntry struct {
	Date domain.DateKey `json:"date"`
	Text string         `json:"text"`
}

type SavedPage struct {
	Kind    domain.Kind  `json:"kind"`
	Order   SavedOrder   `json:"order"`
	Page    int          `json:"page"`
	Total   int          `json:"total"`
	HasMore bool         `json:"has_more"`
	Entries []SavedEntry `json:"entries"`
}

// CalendarDay is one cell of the month grid
type CalendarDay struct {
	Date     domain.DateKey `json:"date"`
	Day      int            `json:"day"`
	InMonth  bool           `json:"in_month"`
	HasDiary bool           `json:"has_diary"`
	Future   bool           `json:"future"`
	Today    bool           `json:"today"`
}

// CalendarMonth is a Sunday-first grid of whole weeks covering a month
type CalendarMonth struct {
	Month domain.MonthKey `json:"month"`
	Title string          `json:"title"`
	Prev  domain.MonthKey `json:"prev"`
	Next  domain.MonthKey `json:"next"`
	Weeks [][]CalendarDay `json:"weeks"`
}

type SearchHit struct {
	Date  domain.DateKey `json:"date"`
	Kind  string         `json:"kind"` // diary, story or poem
	Text  string         `json:"text"`
	Score float64        `json:"score"`
}
