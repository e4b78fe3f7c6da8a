package asset

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"
	"time"

	"go.uber.org/goleak"

	"github.com/opd-ai/go-orrery/pkg/event"
	"github.com/opd-ai/go-orrery/pkg/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func pngBytes(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func newTestLoader(t *testing.T, fsys fstest.MapFS, opts ...Option) *Loader {
	t.Helper()
	opts = append([]Option{WithLogger(logging.Discard())}, opts...)
	l := NewLoader(fsys, opts...)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.Close(ctx); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return l
}

func waitAndPoll(t *testing.T, l *Loader) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	return l.Poll()
}

func TestLoader_LoadIsAsyncUntilPoll(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	fsys := fstest.MapFS{"earth.png": {Data: pngBytes(t, 4, 2, red)}}
	l := newTestLoader(t, fsys)

	fallback := color.RGBA{B: 200, A: 255}
	tex := l.Load("earth.png", fallback)

	if tex.State() != Pending {
		t.Fatalf("expected pending texture before Poll, got %v", tex.State())
	}
	if got := tex.Sample(0.5, 0.5); got != fallback {
		t.Errorf("pending texture should sample fallback, got %v", got)
	}

	if n := waitAndPoll(t, l); n != 1 {
		t.Errorf("Poll() applied %d textures, want 1", n)
	}

	if tex.State() != Ready {
		t.Fatalf("expected ready texture, got %v (%v)", tex.State(), tex.Err())
	}
	if tex.Version() != 1 {
		t.Errorf("expected version 1, got %d", tex.Version())
	}
	if b := tex.Image().Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Errorf("unexpected image bounds %v", b)
	}
	if got := tex.Sample(0.5, 0.5); got != red {
		t.Errorf("Sample() = %v, want %v", got, red)
	}
	if l.Pending() != 0 {
		t.Errorf("Pending() = %d after Wait", l.Pending())
	}
}

func TestLoader_MissingAndCorruptFilesFallBack(t *testing.T) {
	fsys := fstest.MapFS{"broken.jpg": {Data: []byte("not an image")}}
	bus := event.NewEventBus()
	var failed []string
	bus.Subscribe(event.TextureFailed, func(e event.Event) {
		failed = append(failed, e.(*event.TextureEvent).Path)
	})
	l := newTestLoader(t, fsys, WithEventBus(bus))

	gray := color.RGBA{R: 90, G: 90, B: 90, A: 255}
	missing := l.Load("pluto.jpg", gray)
	corrupt := l.Load("broken.jpg", gray)

	waitAndPoll(t, l)

	for _, tex := range []*Texture{missing, corrupt} {
		if tex.State() != Failed {
			t.Errorf("%s: expected failed, got %v", tex.Path, tex.State())
		}
		if tex.Err() == nil {
			t.Errorf("%s: expected an error", tex.Path)
		}
		if got := tex.Sample(0.1, 0.9); got != gray {
			t.Errorf("%s: failed texture should sample fallback, got %v", tex.Path, got)
		}
	}
	if len(failed) != 2 {
		t.Errorf("expected 2 TextureFailed events, got %v", failed)
	}
}

func TestLoader_SamePathSharesHandle(t *testing.T) {
	fsys := fstest.MapFS{"stars.png": {Data: pngBytes(t, 2, 2, color.RGBA{G: 255, A: 255})}}
	bus := event.NewEventBus()
	loaded := 0
	bus.Subscribe(event.TextureLoaded, func(event.Event) { loaded++ })
	l := newTestLoader(t, fsys, WithEventBus(bus))

	paths := [6]string{"stars.png", "stars.png", "stars.png", "stars.png", "stars.png", "stars.png"}
	cube := l.LoadCube(paths, color.RGBA{A: 255})

	for i := 1; i < 6; i++ {
		if cube.Faces[i] != cube.Faces[0] {
			t.Fatalf("face %d is a different handle", i)
		}
	}
	if cube.Ready() {
		t.Error("cube should not be ready before Poll")
	}

	waitAndPoll(t, l)

	if !cube.Ready() {
		t.Error("cube should be ready after Poll")
	}
	if loaded != 1 {
		t.Errorf("expected a single decode, got %d TextureLoaded events", loaded)
	}
}

func TestLoader_EmptyPathFailsOnNextPoll(t *testing.T) {
	bus := event.NewEventBus()
	var failed []string
	bus.Subscribe(event.TextureFailed, func(e event.Event) {
		failed = append(failed, e.(*event.TextureEvent).Path)
	})

	l := newTestLoader(t, fstest.MapFS{}, WithEventBus(bus))
	tex := l.Load("", color.RGBA{R: 1, A: 255})
	if l.Pending() != 0 {
		t.Errorf("empty path should not start a decode")
	}
	if tex.State() != Pending {
		t.Errorf("state before Poll = %v, want pending", tex.State())
	}

	if n := l.Poll(); n != 1 {
		t.Errorf("Poll reported %d changes, want 1", n)
	}
	if tex.State() != Failed || tex.Err() == nil {
		t.Errorf("expected failed texture for empty path, got %v (%v)", tex.State(), tex.Err())
	}
	if len(failed) != 1 || failed[0] != "" {
		t.Errorf("TextureFailed events = %q, want one for the empty path", failed)
	}
}

func TestLoader_DownsamplesLargeTextures(t *testing.T) {
	fsys := fstest.MapFS{"jupiter.png": {Data: pngBytes(t, 64, 32, color.RGBA{R: 200, G: 150, A: 255})}}
	l := newTestLoader(t, fsys, WithMaxSize(16), WithConcurrency(1))

	tex := l.Load("jupiter.png", color.RGBA{})
	waitAndPoll(t, l)

	if b := tex.Image().Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("expected 16x8 after downsampling, got %v", b)
	}
}

func TestLoader_CloseWithoutPoll(t *testing.T) {
	fsys := fstest.MapFS{}
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		fsys[name] = &fstest.MapFile{Data: pngBytes(t, 8, 8, color.RGBA{A: 255})}
	}
	l := NewLoader(fsys, WithLogger(logging.Discard()), WithConcurrency(1))
	for name := range fsys {
		l.Load(name, color.RGBA{})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if l.Pending() != 0 {
		t.Errorf("Pending() = %d after Close", l.Pending())
	}
}
