package render

import (
	"fmt"
	"sort"
	"time"

	"github.com/memesocial/mockchat/internal/domain"
)

// All base metrics are 1x pixels; Compose multiplies by the integer scale at
// draw time so higher scales are exact multiples of the 1x layout.
const (
	baseWidth  = 360
	statusBarH = 24
	headerH    = 56
	inputBarH  = 48

	sideMargin   = 12
	topPad       = 8
	bottomPad    = 8
	runGap       = 8 // before the first bubble of a sender run
	bubbleGap    = 2 // between bubbles inside a run
	bubblePadX   = 8
	bubblePadY   = 6
	bubbleRadius = 8
	minBubbleW   = 64
	maxBubbleW   = 252

	senderHeaderH = 14
	replyH        = 26
	tsRowH        = 12
	reactionDrop  = 10 // pill hangs below the bubble by this much
	reactionH     = 16

	imageBoxW = 196
	imageBoxH = 110

	systemRowH = 22
	noticeRowH = 30

	tickCellW = 9
)

type rowKind int

const (
	rowNotice rowKind = iota
	rowSystem
	rowBubble
)

type replyLayout struct {
	author   string
	preview  string
	fallback bool
}

type msgRow struct {
	kind rowKind
	msg  domain.Message

	// geometry, 1x units; y is relative to the top of the message area
	y, h int
	x, w int // bubble box (excludes the reaction drop)

	lines        []string
	imageBox     bool
	senderHeader bool
	senderName   string
	sender       domain.Participant
	reply        *replyLayout
	reactions    []ReactionGlyph
	tsText       string
	status       domain.DeliveryStatus
	outbound     bool
}

// layoutMessages computes 1x geometry for every row of the message area and
// returns the rows plus the total area height.
func layoutMessages(c *domain.ChatModel, str chromeStrings) ([]msgRow, int) {
	rows := make([]msgRow, 0, len(c.Messages)+1)
	y := topPad

	if c.WhatsApp.ShowEncryptionNote {
		rows = append(rows, msgRow{kind: rowNotice, y: y, h: noticeRowH})
		y += noticeRowH + runGap
	}

	prevAuthor := ""
	for _, m := range c.Messages {
		if m.Type == domain.MessageSystem {
			rows = append(rows, msgRow{kind: rowSystem, msg: m, y: y, h: systemRowH})
			y += systemRowH + runGap
			prevAuthor = ""
			continue
		}

		runStart := m.ParticipantID != prevAuthor
		prevAuthor = m.ParticipantID
		if runStart && len(rows) > 0 {
			y += runGap - bubbleGap
		}

		row := buildBubbleRow(c, m, runStart, str)
		row.y = y
		y += row.h + bubbleGap
		if len(row.reactions) > 0 {
			y += reactionDrop
		}
		rows = append(rows, row)
	}

	y += bottomPad
	if y < 120 {
		y = 120
	}
	return rows, y
}

func buildBubbleRow(c *domain.ChatModel, m domain.Message, runStart bool, str chromeStrings) msgRow {
	row := msgRow{
		kind:     rowBubble,
		msg:      m,
		outbound: m.IsOutbound(c.Sender.ID),
		tsText:   formatClock(m.Timestamp, c.TimeFormat),
		status:   m.Status,
	}
	sender, ok := c.ParticipantByID(m.ParticipantID)
	if !ok {
		sender = domain.UnknownParticipant()
	}
	row.sender = sender

	// Group mode puts the sender name above the first bubble of an inbound
	// run; 1:1 mode never shows sender headers.
	if c.Group.Enabled && !row.outbound && runStart {
		row.senderHeader = true
		row.senderName = truncateText(sender.Name, 28)
	}

	if m.ReplyTo != "" {
		row.reply = buildReply(c, m.ReplyTo, str)
	}

	contentW := 0
	contentH := 0
	switch m.Type {
	case domain.MessageImage:
		row.imageBox = true
		contentW = imageBoxW
		contentH = imageBoxH + 4
	default:
		row.lines = wrapText(m.Text, (maxBubbleW-2*bubblePadX)/glyphW)
		for _, l := range row.lines {
			if w := textWidth(l); w > contentW {
				contentW = w
			}
		}
		contentH = len(row.lines) * lineH
	}

	tsW := textWidth(row.tsText)
	if row.outbound && row.status != domain.StatusNone {
		tsW += tickCellW + 4
		if row.status != domain.StatusSent {
			tsW += 4 // second, offset check
		}
	}
	if tsW > contentW {
		contentW = tsW
	}
	if row.senderHeader {
		if w := textWidth(row.senderName); w > contentW {
			contentW = w
		}
	}
	if row.reply != nil {
		contentW = maxBubbleW - 2*bubblePadX // reply previews span the bubble
	}

	row.w = contentW + 2*bubblePadX
	if row.w < minBubbleW {
		row.w = minBubbleW
	}
	if row.w > maxBubbleW {
		row.w = maxBubbleW
	}

	row.h = 2*bubblePadY + contentH + tsRowH
	if row.senderHeader {
		row.h += senderHeaderH
	}
	if row.reply != nil {
		row.h += replyH + 2
	}

	if row.outbound {
		row.x = baseWidth - sideMargin - row.w
	} else {
		row.x = sideMargin
	}

	row.reactions = aggregateReactions(m.Reactions)
	return row
}

func buildReply(c *domain.ChatModel, replyTo string, str chromeStrings) *replyLayout {
	orig, ok := c.MessageByID(replyTo)
	if !ok {
		// Dangling reference: the quoted message was deleted. Render the
		// documented fallback instead of failing.
		return &replyLayout{preview: str.ReplyMissing, fallback: true}
	}
	author, ok := c.ParticipantByID(orig.ParticipantID)
	if !ok {
		author = domain.UnknownParticipant()
	}
	preview := orig.Text
	if orig.Type == domain.MessageImage {
		preview = str.Photo
	}
	return &replyLayout{
		author:  truncateText(author.Name, 24),
		preview: truncateText(preview, 30),
	}
}

// aggregateReactions folds per-participant reactions into one glyph per
// distinct symbol, ordered by symbol for deterministic output.
func aggregateReactions(reactions map[string]string) []ReactionGlyph {
	if len(reactions) == 0 {
		return nil
	}
	counts := make(map[string]int, len(reactions))
	for _, sym := range reactions {
		counts[sym]++
	}
	symbols := make([]string, 0, len(counts))
	for sym := range counts {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	out := make([]ReactionGlyph, len(symbols))
	for i, sym := range symbols {
		out[i] = ReactionGlyph{Symbol: sym, Count: counts[sym]}
	}
	return out
}

// formatClock renders a wall-clock value in the chat's configured format. The
// timestamp is timezone-naive: whatever wall time the user typed is shown.
func formatClock(t time.Time, f domain.TimeFormat) string {
	h, m := t.Hour(), t.Minute()
	if f == domain.Time24h {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h = h % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, m, suffix)
}

// statusClock is the fixed status-bar time, mirroring the classic marketing
// screenshot clock.
func statusClock(f domain.TimeFormat) string {
	if f == domain.Time24h {
		return "09:41"
	}
	return "9:41"
}
