// models/snapshot.go
package models

import "time"

// EarnedAchievement is the slice of an achievement that a share snapshot
// preserves.
type EarnedAchievement struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Points   int       `json:"points"`
	EarnedAt time.Time `json:"earned_at"`
}

// ShareSnapshot is an immutable copy of a user's earned achievements and
// point total at the moment a shareable link was generated. Later progress
// never rewrites an existing snapshot.
type ShareSnapshot struct {
	ShortID     string              `json:"short_id"`
	UserID      string              `json:"user_id"`
	UserName    string              `json:"user_name"`
	TotalPoints int                 `json:"total_points"`
	Earned      []EarnedAchievement `json:"earned"`
	CreatedAt   time.Time           `json:"created_at"`
}
