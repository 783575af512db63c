package render

import (
	"image"
	"image/color"
)

func fillRect(dst *image.RGBA, r image.Rectangle, col color.RGBA) {
	r = r.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.SetRGBA(x, y, col)
		}
	}
}

// blendRect composites col over the existing pixels using col.A as coverage.
func blendRect(dst *image.RGBA, r image.Rectangle, col color.RGBA) {
	r = r.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.SetRGBA(x, y, blend(dst.RGBAAt(x, y), col))
		}
	}
}

func blend(under, over color.RGBA) color.RGBA {
	a := uint32(over.A)
	inv := 255 - a
	return color.RGBA{
		R: uint8((uint32(over.R)*a + uint32(under.R)*inv) / 255),
		G: uint8((uint32(over.G)*a + uint32(under.G)*inv) / 255),
		B: uint8((uint32(over.B)*a + uint32(under.B)*inv) / 255),
		A: 255,
	}
}

// fillRoundRect draws a rectangle with quarter-circle corners of radius rad
// (device px). Radii bigger than half the box are clamped.
func fillRoundRect(dst *image.RGBA, r image.Rectangle, rad int, col color.RGBA) {
	if rad*2 > r.Dx() {
		rad = r.Dx() / 2
	}
	if rad*2 > r.Dy() {
		rad = r.Dy() / 2
	}
	fillRect(dst, image.Rect(r.Min.X+rad, r.Min.Y, r.Max.X-rad, r.Max.Y), col)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y+rad, r.Min.X+rad, r.Max.Y-rad), col)
	fillRect(dst, image.Rect(r.Max.X-rad, r.Min.Y+rad, r.Max.X, r.Max.Y-rad), col)
	corners := []image.Point{
		{r.Min.X + rad, r.Min.Y + rad},
		{r.Max.X - rad - 1, r.Min.Y + rad},
		{r.Min.X + rad, r.Max.Y - rad - 1},
		{r.Max.X - rad - 1, r.Max.Y - rad - 1},
	}
	for _, c := range corners {
		fillQuarter(dst, c, rad, col)
	}
}

func fillQuarter(dst *image.RGBA, center image.Point, rad int, col color.RGBA) {
	for dy := -rad; dy <= 0; dy++ {
		for dx := -rad; dx <= 0; dx++ {
			if dx*dx+dy*dy <= rad*rad {
				// Mirror into all four quadrants around the corner centers;
				// out-of-box pixels are clipped by fillRect bounds anyway.
				setIfInside(dst, center.X+dx, center.Y+dy, col)
				setIfInside(dst, center.X-dx, center.Y+dy, col)
				setIfInside(dst, center.X+dx, center.Y-dy, col)
				setIfInside(dst, center.X-dx, center.Y-dy, col)
			}
		}
	}
}

func setIfInside(dst *image.RGBA, x, y int, col color.RGBA) {
	if image.Pt(x, y).In(dst.Bounds()) {
		dst.SetRGBA(x, y, col)
	}
}

// fillCircle draws a filled disc centered at (cx, cy).
func fillCircle(dst *image.RGBA, cx, cy, rad int, col color.RGBA) {
	for dy := -rad; dy <= rad; dy++ {
		for dx := -rad; dx <= rad; dx++ {
			if dx*dx+dy*dy <= rad*rad {
				setIfInside(dst, cx+dx, cy+dy, col)
			}
		}
	}
}

// checkPixels traces a tick mark inside a 7x7 1x-unit cell.
var checkPixels = []image.Point{
	{0, 3}, {1, 4}, {2, 5}, {3, 4}, {4, 3}, {5, 2}, {6, 1},
}

// drawCheck draws one delivery tick with its cell origin at device (x, y).
func drawCheck(dst *image.RGBA, x, y, scale int, col color.RGBA) {
	for _, p := range checkPixels {
		fillRect(dst, image.Rect(x+p.X*scale, y+p.Y*scale, x+(p.X+1)*scale, y+(p.Y+1)*scale), col)
	}
}

// drawBattery draws the status-bar battery glyph: a 16x8 1x-unit outline with
// a fill proportional to level (0..100).
func drawBattery(dst *image.RGBA, x, y, scale, level int, col, bg color.RGBA) {
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	outline := image.Rect(x, y, x+14*scale, y+8*scale)
	fillRect(dst, outline, col)
	inner := outline.Inset(scale)
	fillRect(dst, inner, bg)
	fillW := (inner.Dx() * level) / 100
	fillRect(dst, image.Rect(inner.Min.X, inner.Min.Y, inner.Min.X+fillW, inner.Max.Y), col)
	// battery cap
	fillRect(dst, image.Rect(x+14*scale, y+2*scale, x+15*scale, y+6*scale), col)
}

// drawPattern tiles the wallpaper doodle over r, blended at the given
// opacity. The tile is procedural, so output never depends on external
// assets.
func drawPattern(dst *image.RGBA, r image.Rectangle, scale int, opacity float64, col color.RGBA) {
	if opacity <= 0 {
		return
	}
	if opacity > 1 {
		opacity = 1
	}
	col.A = uint8(opacity * 255)
	const tile = 40 // 1x units
	for ty := r.Min.Y; ty < r.Max.Y; ty += tile * scale {
		for tx := r.Min.X; tx < r.Max.X; tx += tile * scale {
			// one doodle per tile: a dot, a ring and a dash
			blendCircle(dst, tx+8*scale, ty+10*scale, 2*scale, col)
			blendRing(dst, tx+26*scale, ty+24*scale, 4*scale, scale, col)
			blendRect(dst, image.Rect(tx+10*scale, ty+32*scale, tx+18*scale, ty+33*scale), col)
		}
	}
}

func blendCircle(dst *image.RGBA, cx, cy, rad int, col color.RGBA) {
	for dy := -rad; dy <= rad; dy++ {
		for dx := -rad; dx <= rad; dx++ {
			if dx*dx+dy*dy <= rad*rad {
				if image.Pt(cx+dx, cy+dy).In(dst.Bounds()) {
					dst.SetRGBA(cx+dx, cy+dy, blend(dst.RGBAAt(cx+dx, cy+dy), col))
				}
			}
		}
	}
}

func blendRing(dst *image.RGBA, cx, cy, rad, thickness int, col color.RGBA) {
	outer := rad * rad
	in := rad - thickness
	inner := in * in
	for dy := -rad; dy <= rad; dy++ {
		for dx := -rad; dx <= rad; dx++ {
			d := dx*dx + dy*dy
			if d <= outer && d > inner {
				if image.Pt(cx+dx, cy+dy).In(dst.Bounds()) {
					dst.SetRGBA(cx+dx, cy+dy, blend(dst.RGBAAt(cx+dx, cy+dy), col))
				}
			}
		}
	}
}
