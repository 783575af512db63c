package render

import "image"

// Surface is the composed screenshot plus its layout metrics. The metrics let
// callers (and tests) reason about geometry without decoding pixels.
type Surface struct {
	Image  *image.RGBA
	Layout Layout
}

// Layout records device-pixel geometry. Every rectangle is the 1x layout
// multiplied by Scale, never a resampled raster.
type Layout struct {
	Scale    int
	Width    int
	Height   int
	StatusBar image.Rectangle
	Header    image.Rectangle
	InputBar  image.Rectangle
	Bubbles   []BubbleBox
}

// BubbleBox describes one rendered message bubble.
type BubbleBox struct {
	MessageID     string
	Rect          image.Rectangle
	Outbound      bool
	System        bool
	SenderHeader  bool // group-mode sender label rendered inside this bubble
	ReplyFallback bool // reply preview used the missing-message fallback
	Reactions     []ReactionGlyph
}

// ReactionGlyph is one aggregated reaction: a symbol and how many
// participants used it.
type ReactionGlyph struct {
	Symbol string
	Count  int
}
