package export

import (
	"errors"
	"fmt"

	"github.com/memesocial/mockchat/internal/domain"
)

type Format string

const (
	FormatPNG  Format = "png"  // lossless
	FormatJPEG Format = "jpeg" // lossy
	FormatWebP Format = "webp" // lossy
	FormatGIF  Format = "gif"  // animated reveal, accounted as a video export
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// validScales are the supported composition scales.
var validScales = map[int]bool{1: true, 2: true, 3: true}

// Options is a per-call value type; construct it fresh for every export.
type Options struct {
	Scale     int    `json:"scale"`
	Format    Format `json:"format"`
	Quality   int    `json:"quality"` // lossy formats only
	Watermark bool   `json:"watermark"`
}

// normalize validates the format, defaults the scale to 1 and clamps quality
// into [1,100]. Out-of-range quality is clamped rather than rejected.
func (o Options) normalize() (Options, error) {
	switch o.Format {
	case FormatPNG, FormatJPEG, FormatWebP, FormatGIF:
	default:
		return o, fmt.Errorf("%w: %q", ErrUnsupportedFormat, o.Format)
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	if !validScales[o.Scale] {
		return o, fmt.Errorf("%w: scale %d not in 1x/2x/3x", ErrUnsupportedFormat, o.Scale)
	}
	if o.Quality == 0 {
		o.Quality = 80
	}
	if o.Quality < 1 {
		o.Quality = 1
	}
	if o.Quality > 100 {
		o.Quality = 100
	}
	return o, nil
}

// Kind maps the format onto the quota accounting kind.
func (o Options) Kind() domain.ExportKind {
	if o.Format == FormatGIF {
		return domain.ExportVideo
	}
	return domain.ExportImage
}

func (o Options) mime() string {
	switch o.Format {
	case FormatJPEG:
		return "image/jpeg"
	case FormatWebP:
		return "image/webp"
	case FormatGIF:
		return "image/gif"
	default:
		return "image/png"
	}
}

func (o Options) ext() string {
	if o.Format == FormatJPEG {
		return "jpg"
	}
	return string(o.Format)
}
