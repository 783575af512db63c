package render

import (
	"image"
	"image/color"
)

const watermarkText = "memesocial.app"

// Watermark stamps the fixed mark into the bottom-right corner at fixed
// opacity. It runs after composition, directly on the final surface, so
// content scaling can never cover or shrink it.
func Watermark(img *image.RGBA, scale int) {
	if scale < 1 {
		scale = 1
	}
	b := img.Bounds()
	w := (textWidth(watermarkText) + 12) * scale
	h := (glyphH + 8) * scale
	x := b.Max.X - w - 8*scale
	y := b.Max.Y - h - 8*scale
	blendRect(img, image.Rect(x, y, x+w, y+h), color.RGBA{0, 0, 0, 115})
	drawText(img, watermarkText, x+6*scale, y+4*scale, scale, color.RGBA{255, 255, 255, 255})
}
