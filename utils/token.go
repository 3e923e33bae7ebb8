// utils/token.go
package utils

import (
	"strings"

	"github.com/google/uuid"
)

// shareTokenLength matches the shared-link URL format
// /achievements/shared/<8-char token>.
const shareTokenLength = 8

// NewShareToken returns an 8-character opaque token for share links,
// derived from a fresh UUID.
func NewShareToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:shareTokenLength]
}
