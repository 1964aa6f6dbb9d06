package domain

// Format selects what /generate-story writes
type Format string

const (
	FormatStory Format = "story"
	FormatPoem  Format = "poem"
)

// GenerateRequest is the body of both generation endpoints
type GenerateRequest struct {
	Diary     string `json:"diary" binding:"required"`
	Mood      string `json:"mood"`
	Character string `json:"character"`
	Format    Format `json:"format"`
}

// GenerateResponse carries the text under "story" for poems too
type GenerateResponse struct {
	Story string `json:"story"`
}
