package session

import (
	"time"

	"github.com/yanqian/neo-hazard/internal/domain/prediction"
)

// FieldID addresses the identifier input through SetField.
const FieldID = "id"

// Error codes raised by the session service.
const (
	CodeNotFound = "session_not_found"
	CodeLimit    = "session_limit"
)

// Config bounds the in-memory session registry.
type Config struct {
	IdleTTL     time.Duration
	MaxSessions int
}

// Snapshot is a read-only copy of a session for the presentation layer.
type Snapshot struct {
	ID        string                  `json:"id"`
	Inputs    prediction.Inputs       `json:"inputs"`
	State     prediction.SessionState `json:"state"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}
