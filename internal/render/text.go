package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Text is rasterized from a fixed bitmap face and scaled by integer block
// replication, so glyph geometry at 2x/3x is an exact multiple of 1x. That is
// what keeps Compose pixel-deterministic across scales; a hinted vector face
// would round metrics differently per size.
const (
	glyphW = 7 // advance of basicfont.Face7x13
	glyphH = 13
	lineH  = 16 // glyph height plus leading, 1x units
	ascent = 11
)

// textWidth returns the 1x width of s in pixels. Runes outside the face's
// range (emoji and most non-Latin text) still occupy one cell; they are drawn
// as placeholder blocks.
func textWidth(s string) int {
	n := 0
	for range s {
		n++
	}
	return n * glyphW
}

// drawText draws s with its top-left corner at device coordinates (x, y),
// already multiplied by scale by the caller. Glyph pixels become scale×scale
// blocks.
func drawText(dst *image.RGBA, s string, x, y, scale int, col color.RGBA) {
	face := basicfont.Face7x13
	pen := x
	for _, r := range s {
		dot := fixed.Point26_6{X: 0, Y: fixed.I(ascent)}
		dr, mask, maskp, _, ok := face.Glyph(dot, r)
		if !ok {
			// Placeholder cell for glyphs the face cannot shape.
			fillRect(dst, image.Rect(pen+scale, y+3*scale, pen+(glyphW-1)*scale, y+(glyphH-2)*scale), col)
			pen += glyphW * scale
			continue
		}
		for py := dr.Min.Y; py < dr.Max.Y; py++ {
			for px := dr.Min.X; px < dr.Max.X; px++ {
				_, _, _, a := mask.At(maskp.X+px-dr.Min.X, maskp.Y+py-dr.Min.Y).RGBA()
				if a == 0 {
					continue
				}
				fillRect(dst, image.Rect(pen+px*scale, y+py*scale, pen+(px+1)*scale, y+(py+1)*scale), col)
			}
		}
		pen += glyphW * scale
	}
}

// truncateText shortens s to at most max runes, appending an ellipsis marker
// when it had to cut.
func truncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// wrapText breaks s into lines of at most maxChars runes, preferring space
// boundaries and hard-breaking words longer than a line.
func wrapText(s string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}
	var lines []string
	for _, para := range splitLines(s) {
		if para == "" {
			lines = append(lines, "")
			continue
		}
		var line []rune
		for _, word := range splitWords(para) {
			w := []rune(word)
			for len(w) > maxChars {
				if len(line) > 0 {
					lines = append(lines, string(line))
					line = nil
				}
				lines = append(lines, string(w[:maxChars]))
				w = w[maxChars:]
			}
			switch {
			case len(line) == 0:
				line = w
			case len(line)+1+len(w) <= maxChars:
				line = append(line, ' ')
				line = append(line, w...)
			default:
				lines = append(lines, string(line))
				line = w
			}
		}
		lines = append(lines, string(line))
	}
	if lines == nil {
		lines = []string{""}
	}
	return lines
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func splitWords(s string) []string {
	var out []string
	start := -1
	for i, r := range s {
		if r == ' ' {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}
