// models/records.go - record-store (sqlite) row types
package models

import "time"

// AchievementRecord mirrors one user's state for one achievement into the
// asynchronous record store. The durable key/value tier stays authoritative;
// these rows are the fallback copy and the importer's target.
type AchievementRecord struct {
	UserID        string `gorm:"primaryKey;size:64" json:"user_id"`
	AchievementID string `gorm:"primaryKey;size:64" json:"achievement_id"`
	Title         string `gorm:"not null" json:"title"`
	Description   string `json:"description"`
	Category      string `gorm:"index" json:"category"`
	Icon          string `json:"icon"`
	Points        int    `gorm:"default:0" json:"points"`
	Progress      int    `gorm:"default:0" json:"progress"`
	MaxProgress   int    `gorm:"not null" json:"max_progress"`

	EarnedAt  *time.Time `json:"earned_at,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// SnapshotRecord is the record-store mirror of a ShareSnapshot. The earned
// list is kept as the snapshot's JSON so the row round-trips byte-for-byte.
type SnapshotRecord struct {
	ShortID     string    `gorm:"primaryKey;size:16" json:"short_id"`
	UserID      string    `gorm:"index;size:64" json:"user_id"`
	UserName    string    `json:"user_name"`
	TotalPoints int       `json:"total_points"`
	Payload     string    `gorm:"type:text" json:"payload"`
	CreatedAt   time.Time `json:"created_at"`
}

// SchemaMeta records the record store's schema version. Upgrades are
// additive-only: bumping the version re-runs AutoMigrate, which creates
// missing tables and columns and leaves existing ones untouched.
type SchemaMeta struct {
	ID        uint `gorm:"primaryKey"`
	Version   int
	UpdatedAt time.Time
}
