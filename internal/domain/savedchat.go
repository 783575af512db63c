package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SavedChat is the durable copy of a ChatModel, owner-scoped. Model holds the
// transport form produced by the codec package, stored verbatim.
type SavedChat struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   uuid.UUID       `json:"owner_id"`
	Name      string          `json:"name"`
	Platform  Platform        `json:"platform"`
	Model     json.RawMessage `json:"model"`
	Thumbnail []byte          `json:"thumbnail,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
