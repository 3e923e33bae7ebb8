// models/achievement.go
package models

import "time"

// Achievement is a catalog entry merged with the live per-user state.
// Progress always stays within [0, MaxProgress]; EarnedAt is set exactly
// once, the first time Progress reaches MaxProgress, and is never cleared.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"` // Tasks, Calendar, Groups, Resources, Special
	Icon        string `json:"icon"`

	// Reward, granted once at the moment the achievement is earned.
	Points int `json:"points"`

	// Live state
	Progress    int        `json:"progress"`
	MaxProgress int        `json:"max_progress"`
	EarnedAt    *time.Time `json:"earned_at,omitempty"`
}

// Earned reports whether the achievement has reached its terminal state.
func (a *Achievement) Earned() bool {
	return a.EarnedAt != nil
}
