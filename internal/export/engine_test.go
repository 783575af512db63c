package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/memesocial/mockchat/internal/domain"
	"github.com/memesocial/mockchat/internal/quota"
	"github.com/memesocial/mockchat/internal/render"
)

// fakeGate scripts the quota answers and counts the calls.
type fakeGate struct {
	allow    bool
	record   bool
	canErr   error
	recErr   error
	canCalls int
	recCalls int
	recKinds []domain.ExportKind
}

func (g *fakeGate) CanExport(ctx context.Context, user domain.User, kind domain.ExportKind) (bool, error) {
	g.canCalls++
	return g.allow, g.canErr
}

func (g *fakeGate) RecordExport(ctx context.Context, user domain.User, kind domain.ExportKind) (bool, error) {
	g.recCalls++
	g.recKinds = append(g.recKinds, kind)
	return g.record, g.recErr
}

func testEngine(gate *fakeGate) (*Engine, *int) {
	e := NewEngine(gate, zap.NewNop())
	composeCalls := new(int)
	e.compose = func(c *domain.ChatModel, scale int) *render.Surface {
		*composeCalls++
		return render.Compose(c, scale)
	}
	return e, composeCalls
}

func exportModel() *domain.ChatModel {
	c := domain.NewChatModel("Alice")
	for i, text := range []string{"hi", "hello", "how are you", "good", "great"} {
		pid := "me"
		if i%2 == 1 {
			pid = "them"
		}
		err := c.AppendMessage(domain.Message{
			ID:            text,
			ParticipantID: pid,
			Type:          domain.MessageText,
			Text:          text,
			Timestamp:     time.Date(2024, 3, 1, 10, i, 0, 0, time.UTC),
		})
		if err != nil {
			panic(err)
		}
	}
	return c
}

var testUser = domain.User{ID: uuid.MustParse("6b9f66d0-0007-4a15-8b7c-aa35b4dca49b")}

// An allowed PNG export returns the asset and charges the quota exactly once.
func TestDownloadRecordsOnce(t *testing.T) {
	gate := &fakeGate{allow: true, record: true}
	e, _ := testEngine(gate)

	asset, err := e.Download(context.Background(), testUser, exportModel(), Options{Format: FormatPNG, Scale: 2})
	if err != nil {
		t.Fatal(err)
	}
	if asset.Filename != "whatsapp-chat-2x.png" {
		t.Errorf("Filename = %q, want whatsapp-chat-2x.png", asset.Filename)
	}
	if asset.MIME != "image/png" {
		t.Errorf("MIME = %q, want image/png", asset.MIME)
	}
	if !bytes.HasPrefix(asset.Data, []byte("\x89PNG")) {
		t.Error("asset data is not a PNG stream")
	}
	if gate.recCalls != 1 {
		t.Errorf("RecordExport calls = %d, want 1", gate.recCalls)
	}
	if gate.recKinds[0] != domain.ExportImage {
		t.Errorf("recorded kind = %q, want image", gate.recKinds[0])
	}
}

// A denied export surfaces ErrExceeded before any composition work happens.
func TestDeniedExportNeverComposes(t *testing.T) {
	gate := &fakeGate{allow: false}
	e, composeCalls := testEngine(gate)

	_, err := e.Download(context.Background(), testUser, exportModel(), Options{Format: FormatPNG})
	if !errors.Is(err, quota.ErrExceeded) {
		t.Fatalf("error = %v, want quota.ErrExceeded", err)
	}
	if *composeCalls != 0 {
		t.Errorf("composer invoked %d times on a denied export", *composeCalls)
	}
	if gate.recCalls != 0 {
		t.Errorf("RecordExport called %d times on a denied export", gate.recCalls)
	}
}

// Losing the post-encode re-check to a concurrent export also fails closed.
func TestRecordRaceLossFailsExport(t *testing.T) {
	gate := &fakeGate{allow: true, record: false}
	e, _ := testEngine(gate)

	_, err := e.Download(context.Background(), testUser, exportModel(), Options{Format: FormatPNG})
	if !errors.Is(err, quota.ErrExceeded) {
		t.Errorf("error = %v, want quota.ErrExceeded", err)
	}
}

func TestUnsupportedFormatRejectedBeforeQuotaCheck(t *testing.T) {
	gate := &fakeGate{allow: true, record: true}
	e, _ := testEngine(gate)

	_, err := e.Download(context.Background(), testUser, exportModel(), Options{Format: "bmp"})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("error = %v, want ErrUnsupportedFormat", err)
	}
	if gate.canCalls != 0 {
		t.Error("quota consulted for an invalid request")
	}
}

func TestCopyForcesPNG(t *testing.T) {
	gate := &fakeGate{allow: true, record: true}
	e, _ := testEngine(gate)

	asset, err := e.Copy(context.Background(), testUser, exportModel(), Options{Format: FormatJPEG, Quality: 30})
	if err != nil {
		t.Fatal(err)
	}
	if asset.MIME != "image/png" {
		t.Errorf("MIME = %q, want image/png", asset.MIME)
	}
	if asset.Filename != "" {
		t.Errorf("Filename = %q, want none for clipboard data", asset.Filename)
	}
}

func TestGIFExportIsVideoKind(t *testing.T) {
	gate := &fakeGate{allow: true, record: true}
	e, composeCalls := testEngine(gate)

	asset, err := e.Download(context.Background(), testUser, exportModel(), Options{Format: FormatGIF})
	if err != nil {
		t.Fatal(err)
	}
	if asset.Kind != domain.ExportVideo {
		t.Errorf("Kind = %q, want video", asset.Kind)
	}
	if gate.recKinds[0] != domain.ExportVideo {
		t.Errorf("recorded kind = %q, want video", gate.recKinds[0])
	}
	if !bytes.HasPrefix(asset.Data, []byte("GIF8")) {
		t.Error("asset data is not a GIF stream")
	}
	// one reveal frame per message
	if *composeCalls != 5 {
		t.Errorf("composer invoked %d times, want 5 reveal frames", *composeCalls)
	}
}

func TestQualityClamping(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 80},
		{-10, 1},
		{50, 50},
		{400, 100},
	}
	for _, tt := range tests {
		o, err := Options{Format: FormatJPEG, Quality: tt.in}.normalize()
		if err != nil {
			t.Fatal(err)
		}
		if o.Quality != tt.want {
			t.Errorf("normalize quality %d = %d, want %d", tt.in, o.Quality, tt.want)
		}
	}
}

func TestWatermarkChangesOutput(t *testing.T) {
	gate := &fakeGate{allow: true, record: true}
	e, _ := testEngine(gate)

	plain, err := e.Download(context.Background(), testUser, exportModel(), Options{Format: FormatPNG})
	if err != nil {
		t.Fatal(err)
	}
	marked, err := e.Download(context.Background(), testUser, exportModel(), Options{Format: FormatPNG, Watermark: true})
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(plain.Data, marked.Data) {
		t.Error("watermarked export identical to plain export")
	}
}

func TestCancelledContextAborts(t *testing.T) {
	gate := &fakeGate{allow: true, record: true}
	e, _ := testEngine(gate)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Download(ctx, testUser, exportModel(), Options{Format: FormatPNG})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if gate.recCalls != 0 {
		t.Error("quota recorded for a cancelled export")
	}
}

func TestBundleProducesZipAndChargesOnce(t *testing.T) {
	gate := &fakeGate{allow: true, record: true}
	e, _ := testEngine(gate)

	asset, err := e.Bundle(context.Background(), testUser, exportModel(), Options{Format: FormatPNG}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if asset.Filename != "whatsapp-chat-bundle.zip" {
		t.Errorf("Filename = %q", asset.Filename)
	}

	zr, err := zip.NewReader(bytes.NewReader(asset.Data), int64(len(asset.Data)))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{
		"whatsapp-chat-1x.png": false,
		"whatsapp-chat-2x.png": false,
		"whatsapp-chat-3x.png": false,
	}
	for _, f := range zr.File {
		if _, ok := want[f.Name]; !ok {
			t.Errorf("unexpected bundle entry %q", f.Name)
			continue
		}
		want[f.Name] = true
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("bundle missing %q", name)
		}
	}

	if gate.recCalls != 1 {
		t.Errorf("RecordExport calls = %d, want 1 for the whole bundle", gate.recCalls)
	}
}

func TestBundleRejectsGIF(t *testing.T) {
	gate := &fakeGate{allow: true, record: true}
	e, _ := testEngine(gate)

	_, err := e.Bundle(context.Background(), testUser, exportModel(), Options{Format: FormatGIF}, nil)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
	if gate.canCalls != 0 || gate.recCalls != 0 {
		t.Error("quota touched for a rejected bundle request")
	}
}
