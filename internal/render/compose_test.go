package render

import (
	"bytes"
	"image"
	"testing"
	"time"

	"github.com/memesocial/mockchat/internal/domain"
)

func sampleChat() *domain.ChatModel {
	c := domain.NewChatModel("Alice")
	msgs := []domain.Message{
		{
			ID:            "m1",
			ParticipantID: "them",
			Type:          domain.MessageText,
			Text:          "hey, did you see the photos?",
			Timestamp:     time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC),
		},
		{
			ID:            "m2",
			ParticipantID: "me",
			Type:          domain.MessageText,
			Text:          "not yet, send them over",
			Timestamp:     time.Date(2024, 3, 1, 14, 31, 0, 0, time.UTC),
			Status:        domain.StatusRead,
		},
		{
			ID:            "m3",
			ParticipantID: "them",
			Type:          domain.MessageImage,
			Attachment:    "beach.jpg",
			Timestamp:     time.Date(2024, 3, 1, 14, 32, 0, 0, time.UTC),
		},
	}
	for _, m := range msgs {
		if err := c.AppendMessage(m); err != nil {
			panic(err)
		}
	}
	return c
}

func TestComposeIsDeterministic(t *testing.T) {
	a := Compose(sampleChat(), 1)
	b := Compose(sampleChat(), 1)
	if !bytes.Equal(a.Image.Pix, b.Image.Pix) {
		t.Error("two compositions of the same model differ")
	}
}

// Scaled output must be the 1x layout multiplied through, never a resampled
// raster: every layout rectangle at 2x is exactly double its 1x twin.
func TestComposeScaleIsLinear(t *testing.T) {
	s1 := Compose(sampleChat(), 1)
	s2 := Compose(sampleChat(), 2)

	if s2.Layout.Width != 2*s1.Layout.Width || s2.Layout.Height != 2*s1.Layout.Height {
		t.Errorf("2x surface = %dx%d, want %dx%d",
			s2.Layout.Width, s2.Layout.Height, 2*s1.Layout.Width, 2*s1.Layout.Height)
	}

	double := func(r image.Rectangle) image.Rectangle {
		return image.Rect(2*r.Min.X, 2*r.Min.Y, 2*r.Max.X, 2*r.Max.Y)
	}
	if got, want := s2.Layout.StatusBar, double(s1.Layout.StatusBar); got != want {
		t.Errorf("2x StatusBar = %v, want %v", got, want)
	}
	if got, want := s2.Layout.Header, double(s1.Layout.Header); got != want {
		t.Errorf("2x Header = %v, want %v", got, want)
	}
	if got, want := s2.Layout.InputBar, double(s1.Layout.InputBar); got != want {
		t.Errorf("2x InputBar = %v, want %v", got, want)
	}
	if len(s2.Layout.Bubbles) != len(s1.Layout.Bubbles) {
		t.Fatalf("bubble count differs across scales: %d vs %d",
			len(s2.Layout.Bubbles), len(s1.Layout.Bubbles))
	}
	for i := range s1.Layout.Bubbles {
		if got, want := s2.Layout.Bubbles[i].Rect, double(s1.Layout.Bubbles[i].Rect); got != want {
			t.Errorf("2x bubble %d = %v, want %v", i, got, want)
		}
	}
}

func TestComposeEmptyChatDegrades(t *testing.T) {
	c := domain.NewChatModel("Alice")
	s := Compose(c, 1)
	if s.Layout.Width != baseWidth {
		t.Errorf("Width = %d, want %d", s.Layout.Width, baseWidth)
	}
	if s.Layout.Height <= 0 {
		t.Errorf("Height = %d, want > 0", s.Layout.Height)
	}
}

func TestComposeClampsScale(t *testing.T) {
	s := Compose(domain.NewChatModel("Alice"), 0)
	if s.Layout.Scale != 1 {
		t.Errorf("Scale = %d, want 1", s.Layout.Scale)
	}
}

// In group mode the sender name appears above the first bubble of each
// inbound run only; 1:1 chats never show sender headers.
func TestSenderHeadersAtRunBoundaries(t *testing.T) {
	c := domain.NewChatModel("Trip crew")
	c.Group.Enabled = true
	c.Group.Name = "Trip crew"
	c.Group.Members = []domain.Participant{
		{ID: "bob", Name: "Bob"},
		{ID: "carol", Name: "Carol"},
	}
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, pid := range []string{"bob", "bob", "carol", "me", "bob"} {
		err := c.AppendMessage(domain.Message{
			ID:            string(rune('a' + i)),
			ParticipantID: pid,
			Type:          domain.MessageText,
			Text:          "hello",
			Timestamp:     ts,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	s := Compose(c, 1)
	if len(s.Layout.Bubbles) != 5 {
		t.Fatalf("bubbles = %d, want 5", len(s.Layout.Bubbles))
	}
	wantHeaders := []bool{true, false, true, false, true}
	for i, want := range wantHeaders {
		if got := s.Layout.Bubbles[i].SenderHeader; got != want {
			t.Errorf("bubble %d SenderHeader = %v, want %v", i, got, want)
		}
	}

	// Same sequence in 1:1 mode: never a header.
	c.SetGroupMode(false)
	s = Compose(c, 1)
	for i, b := range s.Layout.Bubbles {
		if b.SenderHeader {
			t.Errorf("1:1 bubble %d has a sender header", i)
		}
	}
}

// Two participants reacting with the same symbol collapse into one glyph
// with count 2, not two glyphs.
func TestReactionsAggregateBySymbol(t *testing.T) {
	c := domain.NewChatModel("Alice")
	err := c.AppendMessage(domain.Message{
		ID:            "m1",
		ParticipantID: "them",
		Type:          domain.MessageText,
		Text:          "big news!",
		Timestamp:     time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Reactions:     map[string]string{"me": "🎉", "them": "🎉"},
	})
	if err != nil {
		t.Fatal(err)
	}

	s := Compose(c, 1)
	got := s.Layout.Bubbles[0].Reactions
	if len(got) != 1 {
		t.Fatalf("reaction glyphs = %v, want one aggregated glyph", got)
	}
	if got[0].Symbol != "🎉" || got[0].Count != 2 {
		t.Errorf("glyph = %+v, want {🎉 2}", got[0])
	}
}

func TestDanglingReplyRendersFallback(t *testing.T) {
	c := domain.NewChatModel("Alice")
	err := c.AppendMessage(domain.Message{
		ID:            "m2",
		ParticipantID: "me",
		Type:          domain.MessageText,
		Text:          "as I was saying",
		Timestamp:     time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		ReplyTo:       "deleted-message",
	})
	if err != nil {
		t.Fatal(err)
	}

	s := Compose(c, 1)
	if !s.Layout.Bubbles[0].ReplyFallback {
		t.Error("dangling reply did not use the fallback preview")
	}
}

func TestSystemMessagesRenderAsCenteredRows(t *testing.T) {
	c := domain.NewChatModel("Alice")
	if err := c.AppendMessage(domain.Message{ID: "s1", Type: domain.MessageSystem, Text: "Today"}); err != nil {
		t.Fatal(err)
	}
	s := Compose(c, 1)
	b := s.Layout.Bubbles[0]
	if !b.System {
		t.Error("system message not flagged in layout")
	}
	if b.Outbound {
		t.Error("system row flagged outbound")
	}
}

func TestOutboundAlignment(t *testing.T) {
	s := Compose(sampleChat(), 1)
	for _, b := range s.Layout.Bubbles {
		mid := baseWidth / 2
		if b.Outbound && b.Rect.Min.X < mid-40 {
			t.Errorf("outbound bubble %s starts at %d, expected right side", b.MessageID, b.Rect.Min.X)
		}
		if !b.Outbound && b.Rect.Min.X != sideMargin {
			t.Errorf("inbound bubble %s starts at %d, want %d", b.MessageID, b.Rect.Min.X, sideMargin)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		h, m   int
		format domain.TimeFormat
		want   string
	}{
		{14, 30, domain.Time24h, "14:30"},
		{14, 30, domain.Time12h, "2:30 PM"},
		{0, 5, domain.Time12h, "12:05 AM"},
		{0, 5, domain.Time24h, "00:05"},
		{12, 0, domain.Time12h, "12:00 PM"},
		{9, 7, domain.Time12h, "9:07 AM"},
	}
	for _, tt := range tests {
		ts := time.Date(2024, 3, 1, tt.h, tt.m, 0, 0, time.UTC)
		if got := formatClock(ts, tt.format); got != tt.want {
			t.Errorf("formatClock(%02d:%02d, %s) = %q, want %q", tt.h, tt.m, tt.format, got, tt.want)
		}
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		maxChars int
		want     []string
	}{
		{"short", "hello", 10, []string{"hello"}},
		{"breaks at spaces", "one two three", 7, []string{"one two", "three"}},
		{"hard-breaks long words", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"keeps empty lines", "a\n\nb", 10, []string{"a", "", "b"}},
		{"empty input", "", 10, []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapText(tt.in, tt.maxChars)
			if len(got) != len(tt.want) {
				t.Fatalf("wrapText() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestWatermarkMarksBottomRightCorner(t *testing.T) {
	c := sampleChat()
	plain := Compose(c, 1)
	marked := Compose(c, 1)
	Watermark(marked.Image, 1)

	if bytes.Equal(plain.Image.Pix, marked.Image.Pix) {
		t.Fatal("watermark changed no pixels")
	}

	// Only the bottom-right region may differ.
	b := plain.Image.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if plain.Image.RGBAAt(x, y) == marked.Image.RGBAAt(x, y) {
				continue
			}
			if x < b.Max.X*2/3 || y < b.Max.Y-60 {
				t.Fatalf("watermark touched pixel (%d,%d) outside the corner", x, y)
			}
		}
	}
}

func TestDownscaleHalvesDimensions(t *testing.T) {
	s := Compose(sampleChat(), 2)
	small := Downscale(s.Image, 2)
	if small.Bounds().Dx() != s.Image.Bounds().Dx()/2 {
		t.Errorf("width = %d, want %d", small.Bounds().Dx(), s.Image.Bounds().Dx()/2)
	}
}
