package domain

// StorageKey is the key the journal state is persisted under
const StorageKey = "story-storage"

// Snapshot is the persisted form of a profile's journal, in the shape the web
// client's persisted store uses ({"state": ..., "version": N}).
type Snapshot struct {
	State   SnapshotState `json:"state"`
	Version int           `json:"version"`
}

type SnapshotState struct {
	DiaryByDate        map[DateKey]string   `json:"diaryByDate"`
	StoryByDate        map[DateKey]string   `json:"storyByDate"`
	PoemByDate         map[DateKey]string   `json:"poemByDate"`
	SavedStoriesByDate map[DateKey]bool     `json:"savedStoriesByDate"`
	SavedPoemsByDate   map[DateKey]bool     `json:"savedPoemsByDate"`
	SavedStoryOrder    []DateKey            `json:"savedStoryOrder"`
	SavedPoemOrder     []DateKey            `json:"savedPoemOrder"`
	StoryHistoryByDate map[DateKey][]string `json:"storyHistoryByDate"`
	PoemHistoryByDate  map[DateKey][]string `json:"poemHistoryByDate"`
	DefaultMood        string               `json:"defaultMood"`
	DefaultCharacter   string               `json:"defaultCharacter"`
}
