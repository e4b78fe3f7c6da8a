// Package asset loads image textures for the orrery.
//
// Loads are fire-and-forget: Loader.Load hands back a Texture immediately
// and decoding happens in the background. Decoded images are attached to
// their textures only when the owner of the scene calls Loader.Poll, so a
// texture never changes under a renderer mid-frame. Until then, or forever
// if decoding fails, a texture samples as its flat fallback colour.
package asset

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// State describes how far a texture's load has progressed.
type State int

const (
	Pending State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Texture is a handle to a surface map. The zero value is a pending
// texture with a black fallback.
type Texture struct {
	Path     string
	Fallback color.RGBA
	// SRGB marks colour data (as opposed to normal or roughness maps).
	SRGB bool

	img     *image.RGBA
	state   State
	err     error
	version uint64
}

// NewSolidTexture returns a ready texture with no image that always
// samples as c.
func NewSolidTexture(c color.RGBA) *Texture {
	return &Texture{Fallback: c, SRGB: true, state: Ready}
}

// Image returns the decoded image, or nil while pending or after a failure.
func (t *Texture) Image() *image.RGBA { return t.img }

// State returns the load state.
func (t *Texture) State() State { return t.state }

// Err returns the load error for failed textures.
func (t *Texture) Err() error { return t.err }

// Version increments each time the image changes. Renderers that upload
// textures compare it against the version they last uploaded.
func (t *Texture) Version() uint64 { return t.version }

func (t *Texture) resolve(img *image.RGBA, err error) {
	if err != nil {
		t.state = Failed
		t.err = err
		return
	}
	t.img = img
	t.state = Ready
	t.err = nil
	t.version++
}

// Sample returns the texel at (u, v), where u wraps around horizontally and
// v runs from 0 at the top row to 1 at the bottom row and is clamped.
// Textures without an image return their fallback colour.
func (t *Texture) Sample(u, v float64) color.RGBA {
	if t == nil {
		return color.RGBA{A: 255}
	}
	if t.img == nil {
		return t.Fallback
	}
	b := t.img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return t.Fallback
	}

	u -= math.Floor(u)
	v = math.Max(0, math.Min(1, v))

	x := int(u * float64(w))
	y := int(v * float64(h))
	if x >= w {
		x = w - 1
	}
	if y >= h {
		y = h - 1
	}
	return t.img.RGBAAt(b.Min.X+x, b.Min.Y+y)
}

// ParseColor parses a "#rrggbb" string, returning def when hex is empty or
// malformed.
func ParseColor(hex string, def color.RGBA) color.RGBA {
	if hex == "" {
		return def
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return def
	}
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
