package domain

import "time"

// Profile stands in for one browser: every journal snapshot is namespaced by
// its ID. There are no credentials; possession of the signed token is enough.
type Profile struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	CreatedAt time.Time `json:"created_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// IssuedProfile is a freshly created profile and its signed token.
type IssuedProfile struct {
	Profile   *Profile  `json:"profile"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
