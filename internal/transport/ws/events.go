package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/memesocial/mockchat/internal/domain"
)

// Event types - Client → Server
const (
	EventTypePing = "ping"
)

// Event types - Server → Client
const (
	EventTypeChatSaved    = "chat.saved"
	EventTypeChatDeleted  = "chat.deleted"
	EventTypeQuotaUpdated = "quota.updated"
	EventTypePong         = "pong"
	EventTypeError        = "error"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// ChatSavedPayload is the summary pushed to a user's other tabs when a chat
// is created or updated; clients refetch the full model on demand.
type ChatSavedPayload struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Platform  domain.Platform `json:"platform"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type ChatDeletedPayload struct {
	ID uuid.UUID `json:"id"`
}

type QuotaPayload struct {
	Counts domain.QuotaCounts `json:"counts"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}
