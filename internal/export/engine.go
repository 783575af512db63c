// Package export drives the composer through encode passes and enforces the
// quota contract: check strictly before composing, increment strictly after a
// fully successful encode. A failed export must never charge the user.
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/memesocial/mockchat/internal/domain"
	"github.com/memesocial/mockchat/internal/quota"
	"github.com/memesocial/mockchat/internal/render"
)

// maxGIFFrames caps the animated reveal length.
const maxGIFFrames = 24

// Gate is the quota policy consulted around every export.
type Gate interface {
	CanExport(ctx context.Context, user domain.User, kind domain.ExportKind) (bool, error)
	RecordExport(ctx context.Context, user domain.User, kind domain.ExportKind) (bool, error)
}

// ComposeFunc matches render.Compose; injected so tests can observe whether
// the composer ran.
type ComposeFunc func(*domain.ChatModel, int) *render.Surface

type Engine struct {
	gate    Gate
	compose ComposeFunc
	log     *zap.Logger
}

func NewEngine(gate Gate, log *zap.Logger) *Engine {
	return &Engine{gate: gate, compose: render.Compose, log: log}
}

// Asset is one encoded export result.
type Asset struct {
	Filename string
	MIME     string
	Data     []byte
	Kind     domain.ExportKind
}

// Download produces a named file asset.
func (e *Engine) Download(ctx context.Context, user domain.User, model *domain.ChatModel, opts Options) (*Asset, error) {
	return e.run(ctx, user, model, opts, true)
}

// Copy produces clipboard-compatible image data: always PNG, since that is
// the interchange format clipboards accept, and no filename.
func (e *Engine) Copy(ctx context.Context, user domain.User, model *domain.ChatModel, opts Options) (*Asset, error) {
	opts.Format = FormatPNG
	return e.run(ctx, user, model, opts, false)
}

func (e *Engine) run(ctx context.Context, user domain.User, model *domain.ChatModel, opts Options, named bool) (*Asset, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	kind := opts.Kind()

	ok, err := e.gate.CanExport(ctx, user, kind)
	if err != nil {
		return nil, fmt.Errorf("quota check: %w", err)
	}
	if !ok {
		return nil, quota.ErrExceeded
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := e.encodeOne(ctx, model, opts)
	if err != nil {
		var encErr *EncodingError
		if errors.As(err, &encErr) {
			e.log.Error("export encoding failed",
				zap.String("format", string(opts.Format)),
				zap.Int("scale", opts.Scale),
				zap.Error(encErr.Err))
		}
		return nil, err
	}

	// The stored counter moves only after the asset fully exists. The store
	// re-validates the limit, so a concurrent export racing past CanExport
	// fails here instead of overshooting the cap.
	recorded, err := e.gate.RecordExport(ctx, user, kind)
	if err != nil {
		return nil, fmt.Errorf("quota record: %w", err)
	}
	if !recorded {
		return nil, quota.ErrExceeded
	}

	asset := &Asset{MIME: opts.mime(), Data: data, Kind: kind}
	if named {
		asset.Filename = fmt.Sprintf("%s-chat-%dx.%s", model.Platform, opts.Scale, opts.ext())
	}
	return asset, nil
}

func (e *Engine) encodeOne(ctx context.Context, model *domain.ChatModel, opts Options) ([]byte, error) {
	if opts.Format == FormatGIF {
		frames, err := e.revealFrames(ctx, model, opts.Scale, opts.Watermark)
		if err != nil {
			return nil, err
		}
		return encodeGIF(frames, opts)
	}
	surface := e.compose(model, opts.Scale)
	if opts.Watermark {
		render.Watermark(surface.Image, opts.Scale)
	}
	return encodeStill(surface.Image, opts)
}

// revealFrames composes the conversation message by message. Long chats are
// sampled down to maxGIFFrames steps, always ending on the full conversation.
func (e *Engine) revealFrames(ctx context.Context, model *domain.ChatModel, scale int, watermark bool) ([]*image.RGBA, error) {
	total := len(model.Messages)
	steps := total
	if steps == 0 {
		steps = 1
	}
	if steps > maxGIFFrames {
		steps = maxGIFFrames
	}

	frames := make([]*image.RGBA, 0, steps)
	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cut := total * i / steps
		partial := model.Clone()
		partial.Messages = partial.Messages[:cut]
		surface := e.compose(partial, scale)
		if watermark {
			render.Watermark(surface.Image, scale)
		}
		frames = append(frames, surface.Image)
	}
	return frames, nil
}

// Bundle renders the model at every requested scale concurrently and zips the
// results. The whole bundle is charged as a single image export.
func (e *Engine) Bundle(ctx context.Context, user domain.User, model *domain.ChatModel, opts Options, scales []int) (*Asset, error) {
	if opts.Format == FormatGIF {
		return nil, fmt.Errorf("%w: bundles are still-image only", ErrUnsupportedFormat)
	}
	if len(scales) == 0 {
		scales = []int{1, 2, 3}
	}
	sorted := append([]int(nil), scales...)
	sort.Ints(sorted)

	ok, err := e.gate.CanExport(ctx, user, domain.ExportImage)
	if err != nil {
		return nil, fmt.Errorf("quota check: %w", err)
	}
	if !ok {
		return nil, quota.ErrExceeded
	}

	type part struct {
		name string
		data []byte
	}
	parts := make([]part, len(sorted))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, scale := range sorted {
		g.Go(func() error {
			o := opts
			o.Scale = scale
			o, err := o.normalize()
			if err != nil {
				return err
			}
			data, err := e.encodeOne(gctx, model, o)
			if err != nil {
				return err
			}
			mu.Lock()
			parts[i] = part{name: fmt.Sprintf("%s-chat-%dx.%s", model.Platform, scale, o.ext()), data: data}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("bundle zip: %w", err)
		}
		if _, err := f.Write(p.data); err != nil {
			return nil, fmt.Errorf("bundle zip: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("bundle zip: %w", err)
	}

	recorded, err := e.gate.RecordExport(ctx, user, domain.ExportImage)
	if err != nil {
		return nil, fmt.Errorf("quota record: %w", err)
	}
	if !recorded {
		return nil, quota.ErrExceeded
	}

	return &Asset{
		Filename: fmt.Sprintf("%s-chat-bundle.zip", model.Platform),
		MIME:     "application/zip",
		Data:     buf.Bytes(),
		Kind:     domain.ExportImage,
	}, nil
}
