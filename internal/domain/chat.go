package domain

import (
	"errors"
	"time"
)

var (
	ErrParticipantExists   = errors.New("participant id already exists")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrMessageExists       = errors.New("message id already exists")
	ErrMessageNotFound     = errors.New("message not found")
	ErrIndexOutOfRange     = errors.New("index out of range")
	ErrEmptyParticipantID  = errors.New("participant id is empty")
)

type Platform string

const PlatformWhatsApp Platform = "whatsapp"

type TimeFormat string

const (
	Time12h TimeFormat = "12h"
	Time24h TimeFormat = "24h"
)

type BackgroundMode string

const (
	BackgroundColor   BackgroundMode = "color"
	BackgroundPattern BackgroundMode = "pattern"
	BackgroundImage   BackgroundMode = "image"
)

// WhatsAppSettings is pure presentation state for the WhatsApp skin.
type WhatsAppSettings struct {
	Background         BackgroundMode
	BackgroundColor    string
	BackgroundImage    string
	PatternOpacity     float64 // 0..1, pattern mode only
	LastSeenText       string  // e.g. "online", "typing..."; empty = timestamp line
	LastSeenTime       *time.Time
	ShowEncryptionNote bool
}

// GroupChatSettings holds group-mode state. When Enabled is false the composer
// ignores these fields, but they still round-trip through serialization.
type GroupChatSettings struct {
	Enabled bool
	Name    string
	Avatar  *Avatar
	Members []Participant
}

// ChatModel is the aggregate root for one mocked conversation: the unit of
// editing, rendering and persistence. All mutation operations are synchronous,
// in-memory and all-or-nothing: on error the model is unchanged.
type ChatModel struct {
	Platform     Platform
	Name         string
	Sender       Participant // the outbound ("my") side
	Receiver     Participant
	Messages     []Message
	DarkMode     bool
	TimeFormat   TimeFormat
	Font         string
	DeviceFrame  string
	Language     string
	BatteryLevel int // 0..100, simulated status-bar battery
	WhatsApp     WhatsAppSettings
	Group        GroupChatSettings
}

// NewChatModel returns an empty conversation with the defaults a fresh editor
// session starts from.
func NewChatModel(name string) *ChatModel {
	return &ChatModel{
		Platform:     PlatformWhatsApp,
		Name:         name,
		Sender:       Participant{ID: "me", Name: "You"},
		Receiver:     Participant{ID: "them", Name: name},
		TimeFormat:   Time12h,
		Language:     "en",
		BatteryLevel: 100,
		WhatsApp: WhatsAppSettings{
			Background:         BackgroundPattern,
			PatternOpacity:     0.4,
			LastSeenText:       "online",
			ShowEncryptionNote: true,
		},
	}
}

// ParticipantByID resolves an id against sender, receiver and group members.
// The tombstone id always resolves.
func (c *ChatModel) ParticipantByID(id string) (Participant, bool) {
	if id == UnknownParticipantID {
		return UnknownParticipant(), true
	}
	if c.Sender.ID == id {
		return c.Sender, true
	}
	if c.Receiver.ID == id {
		return c.Receiver, true
	}
	for _, m := range c.Group.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Participant{}, false
}

// AddMember appends a participant to the group member list.
func (c *ChatModel) AddMember(p Participant) error {
	if p.ID == "" {
		return ErrEmptyParticipantID
	}
	if _, ok := c.ParticipantByID(p.ID); ok {
		return ErrParticipantExists
	}
	c.Group.Members = append(c.Group.Members, p)
	return nil
}

// UpdateParticipant replaces the stored participant with the same id. Works
// for sender, receiver and group members.
func (c *ChatModel) UpdateParticipant(p Participant) error {
	switch p.ID {
	case "":
		return ErrEmptyParticipantID
	case c.Sender.ID:
		c.Sender = p
		return nil
	case c.Receiver.ID:
		c.Receiver = p
		return nil
	}
	for i, m := range c.Group.Members {
		if m.ID == p.ID {
			c.Group.Members[i] = p
			return nil
		}
	}
	return ErrParticipantNotFound
}

// RemoveMember removes a group member. Messages and reactions that referenced
// it are reassigned to the unknown-participant tombstone, so removal never
// fails on referential grounds and never deletes content.
func (c *ChatModel) RemoveMember(id string) error {
	idx := -1
	for i, m := range c.Group.Members {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrParticipantNotFound
	}
	c.Group.Members = append(c.Group.Members[:idx], c.Group.Members[idx+1:]...)
	for i := range c.Messages {
		if c.Messages[i].ParticipantID == id {
			c.Messages[i].ParticipantID = UnknownParticipantID
		}
		if sym, ok := c.Messages[i].Reactions[id]; ok {
			delete(c.Messages[i].Reactions, id)
			c.Messages[i].Reactions[UnknownParticipantID] = sym
		}
	}
	return nil
}

// AppendMessage adds a message at the end of the conversation.
func (c *ChatModel) AppendMessage(m Message) error {
	return c.InsertMessage(len(c.Messages), m)
}

// InsertMessage adds a message at position i, shifting later messages down.
func (c *ChatModel) InsertMessage(i int, m Message) error {
	if i < 0 || i > len(c.Messages) {
		return ErrIndexOutOfRange
	}
	if _, ok := c.messageIndex(m.ID); ok {
		return ErrMessageExists
	}
	if _, ok := c.ParticipantByID(m.ParticipantID); !ok && m.Type != MessageSystem {
		return ErrParticipantNotFound
	}
	c.Messages = append(c.Messages, Message{})
	copy(c.Messages[i+1:], c.Messages[i:])
	c.Messages[i] = m
	return nil
}

// EditMessage replaces the message with the same id in place.
func (c *ChatModel) EditMessage(m Message) error {
	i, ok := c.messageIndex(m.ID)
	if !ok {
		return ErrMessageNotFound
	}
	if _, ok := c.ParticipantByID(m.ParticipantID); !ok && m.Type != MessageSystem {
		return ErrParticipantNotFound
	}
	c.Messages[i] = m
	return nil
}

// DeleteMessage removes a message. Replies that pointed at it become dangling
// and render the composer's fallback preview.
func (c *ChatModel) DeleteMessage(id string) error {
	i, ok := c.messageIndex(id)
	if !ok {
		return ErrMessageNotFound
	}
	c.Messages = append(c.Messages[:i], c.Messages[i+1:]...)
	return nil
}

// MoveMessage moves the message with the given id to position to.
func (c *ChatModel) MoveMessage(id string, to int) error {
	from, ok := c.messageIndex(id)
	if !ok {
		return ErrMessageNotFound
	}
	if to < 0 || to >= len(c.Messages) {
		return ErrIndexOutOfRange
	}
	m := c.Messages[from]
	c.Messages = append(c.Messages[:from], c.Messages[from+1:]...)
	c.Messages = append(c.Messages, Message{})
	copy(c.Messages[to+1:], c.Messages[to:])
	c.Messages[to] = m
	return nil
}

// SetReaction sets participant pid's reaction on a message, replacing any
// previous reaction from the same participant.
func (c *ChatModel) SetReaction(messageID, pid, symbol string) error {
	i, ok := c.messageIndex(messageID)
	if !ok {
		return ErrMessageNotFound
	}
	if _, ok := c.ParticipantByID(pid); !ok {
		return ErrParticipantNotFound
	}
	if c.Messages[i].Reactions == nil {
		c.Messages[i].Reactions = make(map[string]string)
	}
	c.Messages[i].Reactions[pid] = symbol
	return nil
}

// ClearReaction removes participant pid's reaction from a message, if any.
func (c *ChatModel) ClearReaction(messageID, pid string) error {
	i, ok := c.messageIndex(messageID)
	if !ok {
		return ErrMessageNotFound
	}
	delete(c.Messages[i].Reactions, pid)
	return nil
}

// SetGroupMode toggles between 1:1 and group rendering. Group-only fields are
// preserved either way.
func (c *ChatModel) SetGroupMode(enabled bool) {
	c.Group.Enabled = enabled
}

// MessageByID returns the message with the given id.
func (c *ChatModel) MessageByID(id string) (Message, bool) {
	if i, ok := c.messageIndex(id); ok {
		return c.Messages[i], true
	}
	return Message{}, false
}

// Clone returns a deep copy, safe to mutate independently.
func (c *ChatModel) Clone() *ChatModel {
	cp := *c
	cp.Messages = make([]Message, len(c.Messages))
	for i, m := range c.Messages {
		cp.Messages[i] = m.clone()
	}
	if c.Sender.Avatar != nil {
		a := *c.Sender.Avatar
		cp.Sender.Avatar = &a
	}
	if c.Receiver.Avatar != nil {
		a := *c.Receiver.Avatar
		cp.Receiver.Avatar = &a
	}
	if c.WhatsApp.LastSeenTime != nil {
		t := *c.WhatsApp.LastSeenTime
		cp.WhatsApp.LastSeenTime = &t
	}
	if c.Group.Avatar != nil {
		a := *c.Group.Avatar
		cp.Group.Avatar = &a
	}
	cp.Group.Members = make([]Participant, len(c.Group.Members))
	for i, m := range c.Group.Members {
		cp.Group.Members[i] = m
		if m.Avatar != nil {
			a := *m.Avatar
			cp.Group.Members[i].Avatar = &a
		}
	}
	return &cp
}

func (c *ChatModel) messageIndex(id string) (int, bool) {
	for i, m := range c.Messages {
		if m.ID == id {
			return i, true
		}
	}
	return -1, false
}
