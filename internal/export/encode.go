package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
)

// framePalette is the fixed quantization palette for GIF frames; a fixed
// palette keeps the animation deterministic.
var framePalette = palette.Plan9

// EncodingError carries the format and scale context that gets logged when an
// encoder rejects a surface.
type EncodingError struct {
	Format Format
	Scale  int
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding %s at %dx: %v", e.Format, e.Scale, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// encodeStill serializes one surface in the requested still-image format.
// Lossless PNG ignores quality; JPEG and WebP use the clamped quality value.
func encodeStill(img *image.RGBA, o Options) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch o.Format {
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: o.Quality})
	case FormatWebP:
		err = webp.Encode(&buf, img, &webp.Options{Quality: float32(o.Quality)})
	default:
		err = fmt.Errorf("%w: %q is not a still format", ErrUnsupportedFormat, o.Format)
	}
	if err != nil {
		return nil, &EncodingError{Format: o.Format, Scale: o.Scale, Err: err}
	}
	return buf.Bytes(), nil
}

const (
	gifFrameDelay = 80  // centiseconds per reveal step
	gifFinalDelay = 250 // hold the finished conversation
)

// encodeGIF builds the animated reveal from per-step frames. All frames are
// padded to the size of the last (tallest) one so the canvas never jumps.
func encodeGIF(frames []*image.RGBA, o Options) ([]byte, error) {
	if len(frames) == 0 {
		return nil, &EncodingError{Format: o.Format, Scale: o.Scale, Err: fmt.Errorf("no frames")}
	}
	bounds := frames[len(frames)-1].Bounds()
	anim := &gif.GIF{}
	for i, frame := range frames {
		canvas := image.NewRGBA(bounds)
		draw.Draw(canvas, bounds, image.NewUniform(frame.RGBAAt(0, 0)), image.Point{}, draw.Src)
		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Src)

		paletted := image.NewPaletted(bounds, framePalette)
		draw.FloydSteinberg.Draw(paletted, bounds, canvas, bounds.Min)

		delay := gifFrameDelay
		if i == len(frames)-1 {
			delay = gifFinalDelay
		}
		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, delay)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, &EncodingError{Format: o.Format, Scale: o.Scale, Err: err}
	}
	return buf.Bytes(), nil
}
