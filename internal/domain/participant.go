package domain

// AvatarKind selects how a participant avatar is sourced.
type AvatarKind string

const (
	AvatarURL   AvatarKind = "url"   // remote image URL
	AvatarData  AvatarKind = "data"  // embedded image data (data URI)
	AvatarColor AvatarKind = "color" // flat color behind initials
)

type Avatar struct {
	Kind  AvatarKind
	Value string
}

// Participant is an identity inside one conversation. UnknownParticipantID is
// the tombstone identity that messages are reassigned to when their author is
// removed from the chat.
type Participant struct {
	ID       string
	Name     string
	Avatar   *Avatar
	ColorTag string // sender-name color in group mode, e.g. "#e542a3"
}

const UnknownParticipantID = "unknown"

// UnknownParticipant returns the tombstone placeholder.
func UnknownParticipant() Participant {
	return Participant{
		ID:   UnknownParticipantID,
		Name: "Unknown",
	}
}

// Initials derives up to two uppercase initials for the color-avatar fallback.
func (p Participant) Initials() string {
	initials := make([]rune, 0, 2)
	prevSpace := true
	for _, r := range p.Name {
		if r == ' ' {
			prevSpace = true
			continue
		}
		if prevSpace && len(initials) < 2 {
			initials = append(initials, toUpper(r))
		}
		prevSpace = false
	}
	return string(initials)
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 32
	}
	return r
}
