// Package render turns a ChatModel into a raster screenshot surface. Compose
// is a pure function: no clock, no randomness, no network, so identical
// inputs always produce identical pixels.
package render

import (
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/memesocial/mockchat/internal/domain"
)

// Compose lays out and rasterizes the conversation at the given integer
// scale. It never fails on structurally valid input: missing avatars, empty
// message lists and dangling references all degrade visually instead.
func Compose(c *domain.ChatModel, scale int) *Surface {
	if scale < 1 {
		scale = 1
	}
	th := themeFor(c)
	str := chromeFor(c.Language)
	rows, areaH := layoutMessages(c, str)

	height := statusBarH + headerH + areaH + inputBarH
	img := image.NewRGBA(image.Rect(0, 0, baseWidth*scale, height*scale))

	layout := Layout{
		Scale:     scale,
		Width:     baseWidth * scale,
		Height:    height * scale,
		StatusBar: scaleRect(image.Rect(0, 0, baseWidth, statusBarH), scale),
		Header:    scaleRect(image.Rect(0, statusBarH, baseWidth, statusBarH+headerH), scale),
		InputBar:  scaleRect(image.Rect(0, height-inputBarH, baseWidth, height), scale),
	}

	drawBackgroundArea(img, c, th, scale, statusBarH+headerH, areaH)
	drawStatusBar(img, c, th, scale)
	drawHeader(img, c, th, str, scale)
	drawInputBar(img, th, str, scale, height-inputBarH)

	areaTop := statusBarH + headerH
	for _, row := range rows {
		switch row.kind {
		case rowNotice:
			drawPillRow(img, th.NoticePill, th.NoticeText, str.EncryptedNote, scale, areaTop+row.y, row.h)
		case rowSystem:
			drawPillRow(img, th.SystemPill, th.SystemText, row.msg.Text, scale, areaTop+row.y, row.h)
			layout.Bubbles = append(layout.Bubbles, BubbleBox{
				MessageID: row.msg.ID,
				Rect:      scaleRect(image.Rect(sideMargin, areaTop+row.y, baseWidth-sideMargin, areaTop+row.y+row.h), scale),
				System:    true,
			})
		case rowBubble:
			box := drawBubbleRow(img, c, th, row, scale, areaTop)
			layout.Bubbles = append(layout.Bubbles, box)
		}
	}

	return &Surface{Image: img, Layout: layout}
}

func drawStatusBar(img *image.RGBA, c *domain.ChatModel, th Theme, s int) {
	fillRect(img, image.Rect(0, 0, baseWidth*s, statusBarH*s), th.StatusBar)
	drawText(img, statusClock(c.TimeFormat), sideMargin*s, 5*s, s, th.StatusBarText)
	level := c.BatteryLevel
	pct := strconv.Itoa(level) + "%"
	pctW := textWidth(pct)
	batX := baseWidth - sideMargin - 15
	drawBattery(img, batX*s, 8*s, s, level, th.StatusBarText, th.StatusBar)
	drawText(img, pct, (batX-pctW-4)*s, 5*s, s, th.StatusBarText)
}

func drawHeader(img *image.RGBA, c *domain.ChatModel, th Theme, str chromeStrings, s int) {
	top := statusBarH
	fillRect(img, image.Rect(0, top*s, baseWidth*s, (top+headerH)*s), th.AppBar)

	name := c.Receiver.Name
	avatar := c.Receiver.Avatar
	initials := c.Receiver.Initials()
	if c.Group.Enabled {
		name = c.Group.Name
		avatar = c.Group.Avatar
		initials = domain.Participant{Name: c.Group.Name}.Initials()
	}

	drawAvatar(img, sideMargin, top+10, 36, s, avatar, initials, th)

	textX := sideMargin + 36 + 10
	drawText(img, truncateText(name, 24), textX*s, (top+13)*s, s, th.AppBarText)

	sub := headerSubtitle(c, str)
	if sub != "" {
		drawText(img, truncateText(sub, 36), textX*s, (top+31)*s, s, th.AppBarSub)
	}
}

// headerSubtitle picks the line under the chat name: member list in group
// mode, otherwise presence text or a formatted last-seen stamp.
func headerSubtitle(c *domain.ChatModel, str chromeStrings) string {
	if c.Group.Enabled {
		names := make([]string, 0, len(c.Group.Members)+1)
		for _, m := range c.Group.Members {
			names = append(names, m.Name)
		}
		return strings.Join(names, ", ")
	}
	if c.WhatsApp.LastSeenText != "" {
		return c.WhatsApp.LastSeenText
	}
	if c.WhatsApp.LastSeenTime != nil {
		return str.LastSeen + " " + formatClock(*c.WhatsApp.LastSeenTime, c.TimeFormat)
	}
	return ""
}

func drawAvatar(img *image.RGBA, x, y, size, s int, avatar *domain.Avatar, initials string, th Theme) {
	fill := th.AvatarFallbk
	textCol := th.TextSecondary
	if avatar != nil && avatar.Kind == domain.AvatarColor {
		if col, ok := parseHexColor(avatar.Value); ok {
			fill = col
			textCol = rgb(0xff, 0xff, 0xff)
		}
	}
	// URL and embedded avatars are client-side assets; the composer stays
	// pure and renders the initials placeholder for them.
	cx := (x + size/2) * s
	cy := (y + size/2) * s
	fillCircle(img, cx, cy, (size/2)*s, fill)
	if initials != "" {
		w := textWidth(initials)
		drawText(img, initials, (x+(size-w)/2)*s, (y+(size-glyphH)/2)*s, s, textCol)
	}
}

func drawBackgroundArea(img *image.RGBA, c *domain.ChatModel, th Theme, s, top, areaH int) {
	area := scaleRect(image.Rect(0, top, baseWidth, top+areaH), s)
	base := th.Wallpaper
	switch c.WhatsApp.Background {
	case domain.BackgroundColor:
		if col, ok := parseHexColor(c.WhatsApp.BackgroundColor); ok {
			base = col
		}
		fillRect(img, area, base)
	case domain.BackgroundImage:
		// Image wallpapers are referenced by URL and resolved client-side;
		// server composition falls back to the flat wallpaper.
		fillRect(img, area, base)
	default:
		fillRect(img, area, base)
		drawPattern(img, area, s, c.WhatsApp.PatternOpacity, th.Doodle)
	}
}

func drawInputBar(img *image.RGBA, th Theme, str chromeStrings, s, top int) {
	fillRect(img, image.Rect(0, top*s, baseWidth*s, (top+inputBarH)*s), th.InputBar)
	fieldW := baseWidth - 2*sideMargin - 40
	field := scaleRect(image.Rect(sideMargin, top+8, sideMargin+fieldW, top+40), s)
	fillRoundRect(img, field, 16*s, th.InputField)
	drawText(img, str.TypeMessage, (sideMargin+12)*s, (top+17)*s, s, th.InputHint)
	fillCircle(img, (baseWidth-sideMargin-16)*s, (top+24)*s, 16*s, th.ReplyBar)
}

func drawPillRow(img *image.RGBA, pill, text color.RGBA, msg string, s, y, h int) {
	maxChars := (baseWidth - 2*sideMargin - 16) / glyphW
	line := truncateText(msg, maxChars)
	w := textWidth(line) + 16
	x := (baseWidth - w) / 2
	pillRect := scaleRect(image.Rect(x, y, x+w, y+h-2), s)
	fillRoundRect(img, pillRect, 6*s, pill)
	drawText(img, line, (x+8)*s, (y+(h-2-glyphH)/2)*s, s, text)
}

func drawBubbleRow(img *image.RGBA, c *domain.ChatModel, th Theme, row msgRow, s, areaTop int) BubbleBox {
	y := areaTop + row.y
	bubble := image.Rect(row.x, y, row.x+row.w, y+row.h)

	col := th.BubbleIn
	if row.outbound {
		col = th.BubbleOut
	}
	fillRoundRect(img, scaleRect(bubble, s), bubbleRadius*s, col)

	cy := y + bubblePadY
	if row.senderHeader {
		drawText(img, row.senderName, (row.x+bubblePadX)*s, cy*s, s, senderColor(row.sender))
		cy += senderHeaderH
	}
	if row.reply != nil {
		drawReply(img, th, row, s, cy)
		cy += replyH + 2
	}
	if row.imageBox {
		boxRect := scaleRect(image.Rect(row.x+bubblePadX, cy, row.x+row.w-bubblePadX, cy+imageBoxH), s)
		fillRoundRect(img, boxRect, 6*s, th.AvatarFallbk)
		label := chromeFor(c.Language).Photo
		lw := textWidth(label)
		drawText(img, label, (row.x+(row.w-lw)/2)*s, (cy+(imageBoxH-glyphH)/2)*s, s, th.TextSecondary)
		cy += imageBoxH + 4
	}
	for _, line := range row.lines {
		drawText(img, line, (row.x+bubblePadX)*s, cy*s, s, th.TextPrimary)
		cy += lineH
	}

	drawTimestampRow(img, th, row, s, y)
	if len(row.reactions) > 0 {
		drawReactions(img, th, row, s, y)
	}

	return BubbleBox{
		MessageID:     row.msg.ID,
		Rect:          scaleRect(bubble, s),
		Outbound:      row.outbound,
		SenderHeader:  row.senderHeader,
		ReplyFallback: row.reply != nil && row.reply.fallback,
		Reactions:     row.reactions,
	}
}

func drawReply(img *image.RGBA, th Theme, row msgRow, s, cy int) {
	r := row.reply
	inner := image.Rect(row.x+bubblePadX, cy, row.x+row.w-bubblePadX, cy+replyH)
	fillRoundRect(img, scaleRect(inner, s), 4*s, th.ReplyBg)
	fillRect(img, scaleRect(image.Rect(inner.Min.X, inner.Min.Y, inner.Min.X+3, inner.Max.Y), s), th.ReplyBar)
	if r.fallback {
		drawText(img, r.preview, (inner.Min.X+8)*s, (cy+(replyH-glyphH)/2)*s, s, th.TextSecondary)
		return
	}
	drawText(img, r.author, (inner.Min.X+8)*s, (cy+2)*s, s, th.ReplyBar)
	drawText(img, r.preview, (inner.Min.X+8)*s, (cy+13)*s, s, th.TextSecondary)
}

func drawTimestampRow(img *image.RGBA, th Theme, row msgRow, s, y int) {
	tsW := textWidth(row.tsText)
	blockW := tsW
	twoTicks := row.status == domain.StatusDelivered || row.status == domain.StatusRead
	showTicks := row.outbound && row.status != domain.StatusNone
	if showTicks {
		blockW += tickCellW + 4
		if twoTicks {
			blockW += 4
		}
	}
	tx := row.x + row.w - bubblePadX - blockW
	ty := y + row.h - bubblePadY - tsRowH + 1
	drawText(img, row.tsText, tx*s, ty*s, s, th.TextSecondary)
	if showTicks {
		tickCol := th.TickGray
		if row.status == domain.StatusRead {
			tickCol = th.TickBlue
		}
		cx := tx + tsW + 4
		drawCheck(img, cx*s, (ty+2)*s, s, tickCol)
		if twoTicks {
			drawCheck(img, (cx+4)*s, (ty+2)*s, s, tickCol)
		}
	}
}

func drawReactions(img *image.RGBA, th Theme, row msgRow, s, y int) {
	pillW := 6
	for _, g := range row.reactions {
		pillW += glyphW + 2 + textWidth(countLabel(g.Count)) + 8
	}
	var px int
	if row.outbound {
		px = row.x + row.w - pillW - 6
	} else {
		px = row.x + 6
	}
	py := y + row.h - 4
	fillRoundRect(img, scaleRect(image.Rect(px, py, px+pillW, py+reactionH), s), (reactionH/2)*s, th.ReactionPill)
	cx := px + 6
	for _, g := range row.reactions {
		drawText(img, firstRune(g.Symbol), cx*s, (py+2)*s, s, th.TextPrimary)
		cx += glyphW + 2
		label := countLabel(g.Count)
		drawText(img, label, cx*s, (py+2)*s, s, th.TextSecondary)
		cx += textWidth(label) + 8
	}
}

func countLabel(n int) string {
	if n <= 1 {
		return ""
	}
	return strconv.Itoa(n)
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

func scaleRect(r image.Rectangle, s int) image.Rectangle {
	return image.Rect(r.Min.X*s, r.Min.Y*s, r.Max.X*s, r.Max.Y*s)
}

// Downscale reduces img by an integer factor with a box filter; used for
// saved-chat thumbnails. factor < 1 is treated as 1.
func Downscale(img *image.RGBA, factor int) *image.RGBA {
	if factor <= 1 {
		out := image.NewRGBA(img.Bounds())
		copy(out.Pix, img.Pix)
		return out
	}
	b := img.Bounds()
	w := b.Dx() / factor
	h := b.Dy() / factor
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	n := uint32(factor * factor)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, bl, a uint32
			for dy := 0; dy < factor; dy++ {
				for dx := 0; dx < factor; dx++ {
					px := img.RGBAAt(b.Min.X+x*factor+dx, b.Min.Y+y*factor+dy)
					r += uint32(px.R)
					g += uint32(px.G)
					bl += uint32(px.B)
					a += uint32(px.A)
				}
			}
			out.SetRGBA(x, y, color.RGBA{uint8(r / n), uint8(g / n), uint8(bl / n), uint8(a / n)})
		}
	}
	return out
}
