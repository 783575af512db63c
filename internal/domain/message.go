package domain

import "time"

type MessageType string

const (
	MessageText   MessageType = "text"
	MessageImage  MessageType = "image"
	MessageSystem MessageType = "system" // centered note, e.g. "Today"
)

// DeliveryStatus applies only to outbound messages; the zero value means no
// status iconography is rendered.
type DeliveryStatus string

const (
	StatusNone      DeliveryStatus = ""
	StatusSent      DeliveryStatus = "sent"
	StatusDelivered DeliveryStatus = "delivered"
	StatusRead      DeliveryStatus = "read"
)

// Message is one unit of conversation content. Timestamps are user-editable
// and carry no timezone semantics; the composer renders the wall-clock value
// as-is. Order inside ChatModel.Messages is the render order - it is never
// re-sorted by timestamp.
type Message struct {
	ID            string
	ParticipantID string
	Type          MessageType
	Text          string
	Attachment    string // image ref for MessageImage
	Timestamp     time.Time
	Status        DeliveryStatus
	ReplyTo       string // id of the quoted message, "" = none

	// Reactions maps participant id to a single short symbol. At most one
	// reaction per participant per message.
	Reactions map[string]string
}

// IsOutbound reports whether the message belongs to the chat's sender side.
func (m Message) IsOutbound(senderID string) bool {
	return m.ParticipantID == senderID
}

func (m Message) clone() Message {
	c := m
	if m.Reactions != nil {
		c.Reactions = make(map[string]string, len(m.Reactions))
		for k, v := range m.Reactions {
			c.Reactions[k] = v
		}
	}
	return c
}
