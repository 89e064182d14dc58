package matching

import (
	"time"

	"github.com/google/uuid"
)

// Mapping rewrites imported descriptions containing RawPattern, compared
// case-insensitively, to PreferredDescription.
type Mapping struct {
	ID                   uuid.UUID
	RawPattern           string
	PreferredDescription string
	Owner                string
	CreatedAt            time.Time
}
