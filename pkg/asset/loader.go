package asset

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"sync"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/semaphore"

	"github.com/opd-ai/go-orrery/pkg/event"
	"github.com/opd-ai/go-orrery/pkg/logging"
)

// DefaultMaxSize caps the longest edge of a decoded texture.
const DefaultMaxSize = 1024

type result struct {
	tex *Texture
	img *image.RGBA
	err error
}

// Loader decodes textures from a file system in the background.
//
// Load, LoadCube and Poll must be called from the goroutine that owns the
// scene. Wait and Close may be called from anywhere.
type Loader struct {
	fsys    fs.FS
	maxSize int
	sem     *semaphore.Weighted
	logger  *logging.Logger
	bus     *event.Bus

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	cache    map[string]*Texture
	finished []result
	inflight int
}

// Option configures a Loader.
type Option func(*Loader)

// WithConcurrency bounds the number of simultaneous decodes.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithMaxSize downsamples textures whose longest edge exceeds n pixels.
// Zero disables downsampling.
func WithMaxSize(n int) Option {
	return func(l *Loader) { l.maxSize = n }
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithEventBus publishes TextureLoaded and TextureFailed events from Poll.
func WithEventBus(bus *event.Bus) Option {
	return func(l *Loader) { l.bus = bus }
}

// NewLoader creates a loader reading from fsys.
func NewLoader(fsys fs.FS, opts ...Option) *Loader {
	ctx, cancel := context.WithCancel(context.Background())
	l := &Loader{
		fsys:    fsys,
		maxSize: DefaultMaxSize,
		sem:     semaphore.NewWeighted(4),
		logger:  logging.NewLogger(),
		ctx:     ctx,
		cancel:  cancel,
		cache:   make(map[string]*Texture),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.WithComponent("asset")
	return l
}

// Load returns the texture for path, starting a background decode the first
// time a path is requested. Repeated requests share one handle. fallback is
// only used by the first request for a path.
func (l *Loader) Load(path string, fallback color.RGBA) *Texture {
	l.mu.Lock()
	if tex, ok := l.cache[path]; ok {
		l.mu.Unlock()
		return tex
	}
	tex := &Texture{Path: path, Fallback: fallback, SRGB: true}
	l.cache[path] = tex

	if path == "" {
		// Reported by the next Poll like any other failure.
		l.finished = append(l.finished, result{tex: tex, err: fmt.Errorf("empty texture path")})
		l.mu.Unlock()
		return tex
	}
	l.inflight++
	l.mu.Unlock()

	l.wg.Add(1)
	go l.decode(tex)
	return tex
}

// LoadCube loads six face images into a cube texture.
func (l *Loader) LoadCube(paths [6]string, fallback color.RGBA) *CubeTexture {
	cube := &CubeTexture{}
	for i, path := range paths {
		cube.Faces[i] = l.Load(path, fallback)
	}
	return cube
}

func (l *Loader) decode(tex *Texture) {
	defer l.wg.Done()

	var (
		img *image.RGBA
		err error
	)
	if err = l.sem.Acquire(l.ctx, 1); err == nil {
		img, err = l.read(tex.Path)
		l.sem.Release(1)
	}

	l.mu.Lock()
	l.finished = append(l.finished, result{tex: tex, img: img, err: err})
	l.inflight--
	l.mu.Unlock()
}

func (l *Loader) read(path string) (*image.RGBA, error) {
	f, err := l.fsys.Open(path)
	if err != nil {
		return nil, logging.WrapError(err, "open texture %q", path)
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		return nil, logging.WrapError(err, "decode texture %q", path)
	}
	l.logger.Debug(l.ctx, "Texture decoded",
		"path", path,
		"format", format,
		"width", src.Bounds().Dx(),
		"height", src.Bounds().Dy(),
	)
	return Normalize(src, l.maxSize), nil
}

// Normalize converts img to RGBA with its origin at (0, 0), downsampling so
// that neither edge exceeds maxSize (when maxSize > 0).
func Normalize(img image.Image, maxSize int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			h = max(1, h*maxSize/w)
			w = maxSize
		} else {
			w = max(1, w*maxSize/h)
			h = maxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
		return dst
	}

	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Poll attaches every image decoded since the last call to its texture and
// returns how many textures changed state.
func (l *Loader) Poll() int {
	l.mu.Lock()
	done := l.finished
	l.finished = nil
	l.mu.Unlock()

	for _, r := range done {
		r.tex.resolve(r.img, r.err)
		if r.err != nil {
			l.logger.Warn(l.ctx, "Texture unavailable, using fallback colour",
				"path", r.tex.Path,
				"error", r.err.Error(),
			)
		} else {
			l.logger.Debug(l.ctx, "Texture ready", "path", r.tex.Path)
		}
		l.bus.Publish(event.NewTextureEvent(l, r.tex.Path, r.err))
	}
	return len(done)
}

// Pending returns the number of decodes still running or waiting for a slot.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inflight
}

// Wait blocks until every decode started so far has finished (not
// necessarily been applied by Poll) or ctx is done.
func (l *Loader) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels decodes still waiting for a slot and waits for the rest.
func (l *Loader) Close(ctx context.Context) error {
	l.cancel()
	return l.Wait(ctx)
}
