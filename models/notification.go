// models/notification.go
package models

// Toast is the payload handed to the notification sink when an achievement
// unlocks. The sink displays it transiently; the engine never reads it back.
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
