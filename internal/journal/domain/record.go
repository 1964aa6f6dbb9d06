package domain

import "fmt"

// Kind identifies a generated artifact
type Kind string

const (
	KindStory Kind = "story"
	KindPoem  Kind = "poem"
)

// ParseKind validates a kind coming from a route or form
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindStory, KindPoem:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Label is the Korean noun shown in the views.
func (k Kind) Label() string {
	if k == KindPoem {
		return "시"
	}
	return "동화"
}

// FailureMessage is the placeholder shown when generation fails.
func (k Kind) FailureMessage() string {
	return k.Label() + " 생성에 실패했어요."
}

// DailyRecord is everything kept for one calendar day
type DailyRecord struct {
	Date       DateKey `json:"date"`
	Diary      string  `json:"diary"`
	Story      string  `json:"story"`
	Poem       string  `json:"poem"`
	StorySaved bool    `json:"story_saved"`
	PoemSaved  bool    `json:"poem_saved"`
}

// Text returns the generated text of the given kind
func (r DailyRecord) Text(kind Kind) string {
	if kind == KindPoem {
		return r.Poem
	}
	return r.Story
}

// Saved returns the pin flag of the given kind
func (r DailyRecord) Saved(kind Kind) bool {
	if kind == KindPoem {
		return r.PoemSaved
	}
	return r.StorySaved
}

// UserDefaults pre-fill generation requests
type UserDefaults struct {
	Mood      string `json:"mood"`
	Character string `json:"character"`
}

const (
	DefaultMood      = "happy"
	DefaultCharacter = "토끼"
)

// MoodOptions and CharacterOptions are offered by the settings form; anything else is a custom value.
var (
	MoodOptions      = []string{"happy", "sad", "angry", "revenge"}
	CharacterOptions = []string{"토끼", "고양이", "강아지"}
)
