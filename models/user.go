// models/user.go
package models

// User is the "current authenticated user" contract consumed by the
// achievement engine. Authentication itself happens upstream; a nil *User
// means nobody is signed in.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	Program     string `json:"program,omitempty"`
}
