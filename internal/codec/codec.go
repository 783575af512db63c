// Package codec converts ChatModels to and from their JSON transport form:
// the shape stored in saved_chats.model and exchanged with the web client.
// Encode and Decode are exact inverses at millisecond timestamp precision.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/memesocial/mockchat/internal/domain"
)

// ErrMalformed is returned when a payload is structurally unusable. Decoding
// fails closed: a payload that does not validate produces no model at all,
// so a later save can never persist a half-populated chat.
var ErrMalformed = errors.New("malformed chat payload")

// schemaVersion is written on every encode. Older payloads without a version
// field are treated as version 1.
const schemaVersion = 1

// timeLayout is RFC 3339 with forced millisecond precision.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

type TransportForm struct {
	Version      int               `json:"version,omitempty"`
	Platform     string            `json:"platform"`
	Name         string            `json:"name"`
	Sender       *ParticipantForm  `json:"sender"`
	Receiver     *ParticipantForm  `json:"receiver"`
	Messages     []MessageForm     `json:"messages"`
	DarkMode     bool              `json:"darkMode"`
	TimeFormat   string            `json:"timeFormat,omitempty"`
	Font         string            `json:"font,omitempty"`
	DeviceFrame  string            `json:"deviceFrame,omitempty"`
	Language     string            `json:"language,omitempty"`
	BatteryLevel *int              `json:"batteryLevel,omitempty"`
	WhatsApp     *WhatsAppForm     `json:"whatsapp,omitempty"`
	Group        *GroupForm        `json:"group,omitempty"`
}

type ParticipantForm struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Avatar   *AvatarForm `json:"avatar,omitempty"`
	ColorTag string      `json:"colorTag,omitempty"`
}

type AvatarForm struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type MessageForm struct {
	ID            string            `json:"id"`
	ParticipantID string            `json:"participantId"`
	Type          string            `json:"type"`
	Text          string            `json:"text,omitempty"`
	Attachment    string            `json:"attachment,omitempty"`
	Timestamp     string            `json:"timestamp"`
	Status        string            `json:"status,omitempty"`
	ReplyTo       string            `json:"replyTo,omitempty"`
	Reactions     map[string]string `json:"reactions,omitempty"`
}

type WhatsAppForm struct {
	Background         string   `json:"background,omitempty"`
	BackgroundColor    string   `json:"backgroundColor,omitempty"`
	BackgroundImage    string   `json:"backgroundImage,omitempty"`
	PatternOpacity     *float64 `json:"patternOpacity,omitempty"`
	LastSeenText       string   `json:"lastSeenText,omitempty"`
	LastSeenTime       *string  `json:"lastSeenTime,omitempty"`
	ShowEncryptionNote *bool    `json:"showEncryptionNote,omitempty"`
}

type GroupForm struct {
	Enabled bool              `json:"enabled"`
	Name    string            `json:"name,omitempty"`
	Avatar  *AvatarForm       `json:"avatar,omitempty"`
	Members []ParticipantForm `json:"members,omitempty"`
}

// Encode converts a model to its transport form.
func Encode(c *domain.ChatModel) *TransportForm {
	f := &TransportForm{
		Version:      schemaVersion,
		Platform:     string(c.Platform),
		Name:         c.Name,
		Sender:       encodeParticipant(c.Sender),
		Receiver:     encodeParticipant(c.Receiver),
		DarkMode:     c.DarkMode,
		TimeFormat:   string(c.TimeFormat),
		Font:         c.Font,
		DeviceFrame:  c.DeviceFrame,
		Language:     c.Language,
		BatteryLevel: intPtr(c.BatteryLevel),
	}
	if len(c.Messages) > 0 {
		f.Messages = make([]MessageForm, len(c.Messages))
	}
	for i, m := range c.Messages {
		f.Messages[i] = MessageForm{
			ID:            m.ID,
			ParticipantID: m.ParticipantID,
			Type:          string(m.Type),
			Text:          m.Text,
			Attachment:    m.Attachment,
			Timestamp:     formatTime(m.Timestamp),
			Status:        string(m.Status),
			ReplyTo:       m.ReplyTo,
			Reactions:     copyReactions(m.Reactions),
		}
	}
	wa := &WhatsAppForm{
		Background:         string(c.WhatsApp.Background),
		BackgroundColor:    c.WhatsApp.BackgroundColor,
		BackgroundImage:    c.WhatsApp.BackgroundImage,
		PatternOpacity:     float64Ptr(c.WhatsApp.PatternOpacity),
		LastSeenText:       c.WhatsApp.LastSeenText,
		ShowEncryptionNote: boolPtr(c.WhatsApp.ShowEncryptionNote),
	}
	if c.WhatsApp.LastSeenTime != nil {
		s := formatTime(*c.WhatsApp.LastSeenTime)
		wa.LastSeenTime = &s
	}
	f.WhatsApp = wa

	g := &GroupForm{Enabled: c.Group.Enabled, Name: c.Group.Name}
	if c.Group.Avatar != nil {
		g.Avatar = &AvatarForm{Kind: string(c.Group.Avatar.Kind), Value: c.Group.Avatar.Value}
	}
	for _, m := range c.Group.Members {
		g.Members = append(g.Members, *encodeParticipant(m))
	}
	f.Group = g
	return f
}

// EncodeJSON is Encode followed by json.Marshal.
func EncodeJSON(c *domain.ChatModel) ([]byte, error) {
	return json.Marshal(Encode(c))
}

// Decode converts a transport form back into a model. Optional fields missing
// from older payloads get their documented defaults; structural problems
// (missing platform or participants, unresolvable message authors, a schema
// version from the future) return ErrMalformed.
func Decode(f *TransportForm) (*domain.ChatModel, error) {
	if f.Version > schemaVersion {
		return nil, fmt.Errorf("%w: unsupported schema version %d", ErrMalformed, f.Version)
	}
	if f.Platform != string(domain.PlatformWhatsApp) {
		return nil, fmt.Errorf("%w: unknown platform %q", ErrMalformed, f.Platform)
	}
	if f.Sender == nil || f.Sender.ID == "" {
		return nil, fmt.Errorf("%w: missing sender", ErrMalformed)
	}
	if f.Receiver == nil || f.Receiver.ID == "" {
		return nil, fmt.Errorf("%w: missing receiver", ErrMalformed)
	}

	c := &domain.ChatModel{
		Platform:     domain.Platform(f.Platform),
		Name:         f.Name,
		Sender:       decodeParticipant(*f.Sender),
		Receiver:     decodeParticipant(*f.Receiver),
		DarkMode:     f.DarkMode,
		TimeFormat:   domain.TimeFormat(f.TimeFormat),
		Font:         f.Font,
		DeviceFrame:  f.DeviceFrame,
		Language:     f.Language,
		BatteryLevel: 100,
	}
	if c.TimeFormat == "" {
		c.TimeFormat = domain.Time12h
	}
	if c.Language == "" {
		c.Language = "en"
	}
	if f.BatteryLevel != nil {
		c.BatteryLevel = *f.BatteryLevel
	}

	if f.Group != nil {
		c.Group.Enabled = f.Group.Enabled
		c.Group.Name = f.Group.Name
		if f.Group.Avatar != nil {
			c.Group.Avatar = &domain.Avatar{Kind: domain.AvatarKind(f.Group.Avatar.Kind), Value: f.Group.Avatar.Value}
		}
		for _, m := range f.Group.Members {
			if m.ID == "" {
				return nil, fmt.Errorf("%w: group member without id", ErrMalformed)
			}
			c.Group.Members = append(c.Group.Members, decodeParticipant(m))
		}
	}

	if len(f.Messages) > 0 {
		c.Messages = make([]domain.Message, len(f.Messages))
	}
	for i, mf := range f.Messages {
		if mf.ID == "" {
			return nil, fmt.Errorf("%w: message %d without id", ErrMalformed, i)
		}
		ts, err := parseTime(mf.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("%w: message %q timestamp: %v", ErrMalformed, mf.ID, err)
		}
		mtype := domain.MessageType(mf.Type)
		if mtype == "" {
			mtype = domain.MessageText
		}
		if _, ok := c.ParticipantByID(mf.ParticipantID); !ok && mtype != domain.MessageSystem {
			return nil, fmt.Errorf("%w: message %q references unknown participant %q", ErrMalformed, mf.ID, mf.ParticipantID)
		}
		c.Messages[i] = domain.Message{
			ID:            mf.ID,
			ParticipantID: mf.ParticipantID,
			Type:          mtype,
			Text:          mf.Text,
			Attachment:    mf.Attachment,
			Timestamp:     ts,
			Status:        domain.DeliveryStatus(mf.Status),
			ReplyTo:       mf.ReplyTo,
			Reactions:     copyReactions(mf.Reactions),
		}
	}

	if f.WhatsApp != nil {
		wa := f.WhatsApp
		c.WhatsApp = domain.WhatsAppSettings{
			Background:      domain.BackgroundMode(wa.Background),
			BackgroundColor: wa.BackgroundColor,
			BackgroundImage: wa.BackgroundImage,
			LastSeenText:    wa.LastSeenText,
		}
		if c.WhatsApp.Background == "" {
			c.WhatsApp.Background = domain.BackgroundPattern
		}
		if wa.PatternOpacity != nil {
			c.WhatsApp.PatternOpacity = *wa.PatternOpacity
		}
		if wa.ShowEncryptionNote != nil {
			c.WhatsApp.ShowEncryptionNote = *wa.ShowEncryptionNote
		}
		if wa.LastSeenTime != nil {
			t, err := parseTime(*wa.LastSeenTime)
			if err != nil {
				return nil, fmt.Errorf("%w: lastSeenTime: %v", ErrMalformed, err)
			}
			c.WhatsApp.LastSeenTime = &t
		}
	} else {
		c.WhatsApp = domain.WhatsAppSettings{
			Background:         domain.BackgroundPattern,
			PatternOpacity:     0.4,
			ShowEncryptionNote: true,
		}
	}
	return c, nil
}

// DecodeJSON is json.Unmarshal followed by Decode. Unknown top-level shapes
// (arrays, scalars) fail with ErrMalformed.
func DecodeJSON(data []byte) (*domain.ChatModel, error) {
	var f TransportForm
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Decode(&f)
}

func encodeParticipant(p domain.Participant) *ParticipantForm {
	f := &ParticipantForm{ID: p.ID, Name: p.Name, ColorTag: p.ColorTag}
	if p.Avatar != nil {
		f.Avatar = &AvatarForm{Kind: string(p.Avatar.Kind), Value: p.Avatar.Value}
	}
	return f
}

func decodeParticipant(f ParticipantForm) domain.Participant {
	p := domain.Participant{ID: f.ID, Name: f.Name, ColorTag: f.ColorTag}
	if f.Avatar != nil {
		p.Avatar = &domain.Avatar{Kind: domain.AvatarKind(f.Avatar.Kind), Value: f.Avatar.Value}
	}
	return p
}

func formatTime(t time.Time) string {
	return t.Truncate(time.Millisecond).Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.Truncate(time.Millisecond), nil
}

func copyReactions(r map[string]string) map[string]string {
	if r == nil {
		return nil
	}
	out := make(map[string]string, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func intPtr(v int) *int             { return &v }
func float64Ptr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool          { return &v }
