package domain

import (
	"errors"
	"testing"
	"time"
)

func testModel() *ChatModel {
	c := NewChatModel("Alice")
	c.Group.Enabled = true
	c.Group.Members = []Participant{
		{ID: "bob", Name: "Bob"},
		{ID: "carol", Name: "Carol"},
	}
	return c
}

func msg(id, pid, text string) Message {
	return Message{
		ID:            id,
		ParticipantID: pid,
		Type:          MessageText,
		Text:          text,
		Timestamp:     time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC),
	}
}

func TestAppendAndInsertMessage(t *testing.T) {
	c := testModel()
	if err := c.AppendMessage(msg("m1", "me", "first")); err != nil {
		t.Fatal(err)
	}
	if err := c.AppendMessage(msg("m3", "them", "third")); err != nil {
		t.Fatal(err)
	}
	if err := c.InsertMessage(1, msg("m2", "bob", "second")); err != nil {
		t.Fatal(err)
	}

	want := []string{"m1", "m2", "m3"}
	for i, id := range want {
		if c.Messages[i].ID != id {
			t.Errorf("Messages[%d].ID = %q, want %q", i, c.Messages[i].ID, id)
		}
	}
}

func TestInsertMessageErrors(t *testing.T) {
	c := testModel()
	if err := c.AppendMessage(msg("m1", "me", "hi")); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		i    int
		m    Message
		want error
	}{
		{"duplicate id", 0, msg("m1", "me", "again"), ErrMessageExists},
		{"unknown participant", 0, msg("m2", "ghost", "hi"), ErrParticipantNotFound},
		{"index too large", 5, msg("m2", "me", "hi"), ErrIndexOutOfRange},
		{"negative index", -1, msg("m2", "me", "hi"), ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.InsertMessage(tt.i, tt.m); !errors.Is(err, tt.want) {
				t.Errorf("InsertMessage() error = %v, want %v", err, tt.want)
			}
			if len(c.Messages) != 1 {
				t.Errorf("model mutated on failed insert: %d messages", len(c.Messages))
			}
		})
	}
}

func TestSystemMessageSkipsParticipantCheck(t *testing.T) {
	c := testModel()
	m := Message{ID: "sys1", Type: MessageSystem, Text: "Today"}
	if err := c.AppendMessage(m); err != nil {
		t.Errorf("AppendMessage(system) error = %v", err)
	}
}

func TestMoveMessage(t *testing.T) {
	c := testModel()
	for _, id := range []string{"a", "b", "c"} {
		if err := c.AppendMessage(msg(id, "me", id)); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.MoveMessage("c", 0); err != nil {
		t.Fatal(err)
	}
	want := []string{"c", "a", "b"}
	for i, id := range want {
		if c.Messages[i].ID != id {
			t.Errorf("Messages[%d].ID = %q, want %q", i, c.Messages[i].ID, id)
		}
	}

	if err := c.MoveMessage("a", 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("MoveMessage(a, 3) error = %v, want ErrIndexOutOfRange", err)
	}
	if err := c.MoveMessage("nope", 0); !errors.Is(err, ErrMessageNotFound) {
		t.Errorf("MoveMessage(nope) error = %v, want ErrMessageNotFound", err)
	}
}

func TestAddMemberRejectsDuplicatesAndEmptyID(t *testing.T) {
	c := testModel()
	if err := c.AddMember(Participant{ID: "bob", Name: "Bob 2"}); !errors.Is(err, ErrParticipantExists) {
		t.Errorf("AddMember(bob) error = %v, want ErrParticipantExists", err)
	}
	if err := c.AddMember(Participant{ID: "me"}); !errors.Is(err, ErrParticipantExists) {
		t.Errorf("AddMember(me) error = %v, want ErrParticipantExists", err)
	}
	if err := c.AddMember(Participant{Name: "No ID"}); !errors.Is(err, ErrEmptyParticipantID) {
		t.Errorf("AddMember(empty id) error = %v, want ErrEmptyParticipantID", err)
	}
}

func TestUpdateParticipant(t *testing.T) {
	c := testModel()
	if err := c.UpdateParticipant(Participant{ID: "them", Name: "Alice B."}); err != nil {
		t.Fatal(err)
	}
	if c.Receiver.Name != "Alice B." {
		t.Errorf("Receiver.Name = %q, want %q", c.Receiver.Name, "Alice B.")
	}
	if err := c.UpdateParticipant(Participant{ID: "bob", ColorTag: "#e542a3"}); err != nil {
		t.Fatal(err)
	}
	if c.Group.Members[0].ColorTag != "#e542a3" {
		t.Errorf("member ColorTag = %q, want #e542a3", c.Group.Members[0].ColorTag)
	}
	if err := c.UpdateParticipant(Participant{ID: "ghost"}); !errors.Is(err, ErrParticipantNotFound) {
		t.Errorf("UpdateParticipant(ghost) error = %v, want ErrParticipantNotFound", err)
	}
}

func TestRemoveMemberTombstonesContent(t *testing.T) {
	c := testModel()
	if err := c.AppendMessage(msg("m1", "bob", "hello")); err != nil {
		t.Fatal(err)
	}
	if err := c.AppendMessage(msg("m2", "me", "hi bob")); err != nil {
		t.Fatal(err)
	}
	if err := c.SetReaction("m2", "bob", "👍"); err != nil {
		t.Fatal(err)
	}

	if err := c.RemoveMember("bob"); err != nil {
		t.Fatal(err)
	}

	if len(c.Group.Members) != 1 || c.Group.Members[0].ID != "carol" {
		t.Errorf("Members = %v, want just carol", c.Group.Members)
	}
	if c.Messages[0].ParticipantID != UnknownParticipantID {
		t.Errorf("m1.ParticipantID = %q, want tombstone", c.Messages[0].ParticipantID)
	}
	if sym := c.Messages[1].Reactions[UnknownParticipantID]; sym != "👍" {
		t.Errorf("reaction not reassigned to tombstone: %v", c.Messages[1].Reactions)
	}
	if _, ok := c.Messages[1].Reactions["bob"]; ok {
		t.Error("removed member still present in reactions")
	}

	// The tombstone id still resolves so rendering never dangles.
	if p, ok := c.ParticipantByID(UnknownParticipantID); !ok || p.Name != "Unknown" {
		t.Errorf("ParticipantByID(tombstone) = %v, %v", p, ok)
	}
}

func TestSetReactionReplacesPreviousFromSameParticipant(t *testing.T) {
	c := testModel()
	if err := c.AppendMessage(msg("m1", "me", "hi")); err != nil {
		t.Fatal(err)
	}
	if err := c.SetReaction("m1", "bob", "👍"); err != nil {
		t.Fatal(err)
	}
	if err := c.SetReaction("m1", "bob", "❤️"); err != nil {
		t.Fatal(err)
	}
	if len(c.Messages[0].Reactions) != 1 || c.Messages[0].Reactions["bob"] != "❤️" {
		t.Errorf("Reactions = %v, want single ❤️ from bob", c.Messages[0].Reactions)
	}

	if err := c.ClearReaction("m1", "bob"); err != nil {
		t.Fatal(err)
	}
	if len(c.Messages[0].Reactions) != 0 {
		t.Errorf("Reactions = %v, want empty", c.Messages[0].Reactions)
	}
}

func TestDeleteMessageLeavesRepliesDangling(t *testing.T) {
	c := testModel()
	if err := c.AppendMessage(msg("m1", "me", "original")); err != nil {
		t.Fatal(err)
	}
	reply := msg("m2", "them", "replying")
	reply.ReplyTo = "m1"
	if err := c.AppendMessage(reply); err != nil {
		t.Fatal(err)
	}

	if err := c.DeleteMessage("m1"); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.MessageByID("m1"); ok {
		t.Error("deleted message still resolvable")
	}
	// The reply keeps its pointer; resolution happens at render time.
	if m, _ := c.MessageByID("m2"); m.ReplyTo != "m1" {
		t.Errorf("m2.ReplyTo = %q, want m1", m.ReplyTo)
	}
}

func TestCloneIsDeep(t *testing.T) {
	c := testModel()
	c.Sender.Avatar = &Avatar{Kind: AvatarColor, Value: "#336699"}
	if err := c.AppendMessage(msg("m1", "me", "hi")); err != nil {
		t.Fatal(err)
	}
	if err := c.SetReaction("m1", "bob", "👍"); err != nil {
		t.Fatal(err)
	}

	cp := c.Clone()
	cp.Messages[0].Text = "changed"
	cp.Messages[0].Reactions["bob"] = "❤️"
	cp.Sender.Avatar.Value = "#000000"
	cp.Group.Members[0].Name = "Robert"

	if c.Messages[0].Text != "hi" {
		t.Error("clone shares message slice")
	}
	if c.Messages[0].Reactions["bob"] != "👍" {
		t.Error("clone shares reaction map")
	}
	if c.Sender.Avatar.Value != "#336699" {
		t.Error("clone shares avatar pointer")
	}
	if c.Group.Members[0].Name != "Bob" {
		t.Error("clone shares member slice")
	}
}

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Alice", "A"},
		{"alice smith", "AS"},
		{"Jan Peter van Dam", "JP"},
		{"", ""},
		{"  padded  name ", "PN"},
	}
	for _, tt := range tests {
		if got := (Participant{Name: tt.name}).Initials(); got != tt.want {
			t.Errorf("Initials(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
