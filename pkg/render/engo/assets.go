// pkg/render/engo/assets.go
package engo

import (
	"image"
	"image/color"
	"math"

	"github.com/EngoEngine/engo/common"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-orrery/pkg/asset"
	"github.com/opd-ai/go-orrery/pkg/scene"
)

// spriteSize is the edge length in pixels of generated body and ring
// sprites. Sprites are scaled on screen, so this only sets their detail.
const spriteSize = 128

// phaseSteps is how many views around its axis a sphere sprite is baked in.
const phaseSteps = 64

// spriteKind selects how a texture is baked into a sprite.
type spriteKind int

const (
	discSprite spriteKind = iota
	ringSprite
	flatSprite
)

type spriteKey struct {
	tex   *asset.Texture
	kind  spriteKind
	inner float64 // ring inner radius as a fraction of the outer radius
	phase int     // sphere view, in phaseSteps around the axis
}

type cachedSprite struct {
	version  uint64
	drawable common.Drawable
}

// AssetManager bakes orrery textures into engo drawables and uploads them
// once per texture version.
type AssetManager struct {
	sprites map[spriteKey]cachedSprite

	// upload turns a baked image into a drawable. It needs a GL context.
	upload func(*image.NRGBA) common.Drawable
}

// NewAssetManager creates a new asset manager
func NewAssetManager() *AssetManager {
	return &AssetManager{
		sprites: make(map[spriteKey]cachedSprite),
		upload:  convertToEngoTexture,
	}
}

// BodySprite returns a sphere sprite for a mesh's surface map seen from
// azimuth phase about its axis. Views are shared within 2π/phaseSteps.
func (am *AssetManager) BodySprite(tex *asset.Texture, phase float64) common.Drawable {
	step := int(math.Round(scene.WrapAngle(phase)/(2*math.Pi)*phaseSteps)) % phaseSteps
	return am.get(spriteKey{tex: tex, kind: discSprite, phase: step}, func() *image.NRGBA {
		return DiscImage(tex, spriteSize, float64(step)*2*math.Pi/phaseSteps)
	})
}

// RingSprite returns a face-on ring sprite for a ring geometry.
func (am *AssetManager) RingSprite(tex *asset.Texture, g *scene.RingGeometry) common.Drawable {
	inner := 0.0
	if g.OuterRadius != 0 {
		inner = g.InnerRadius / g.OuterRadius
	}
	return am.get(spriteKey{tex: tex, kind: ringSprite, inner: inner}, func() *image.NRGBA {
		return AnnulusImage(tex, inner, spriteSize)
	})
}

// BackgroundSprite returns a cube face as a flat sprite.
func (am *AssetManager) BackgroundSprite(tex *asset.Texture) common.Drawable {
	return am.get(spriteKey{tex: tex, kind: flatSprite}, func() *image.NRGBA {
		return FlatImage(tex, spriteSize)
	})
}

// get returns the cached drawable for key, rebuilding it when the texture
// has finished loading since it was last baked.
func (am *AssetManager) get(key spriteKey, bake func() *image.NRGBA) common.Drawable {
	version := uint64(0)
	if key.tex != nil {
		version = key.tex.Version()
	}
	if c, ok := am.sprites[key]; ok && c.version == version {
		return c.drawable
	}
	d := am.upload(bake())
	am.sprites[key] = cachedSprite{version: version, drawable: d}
	return d
}

// DiscImage renders a textured sphere as seen from azimuth phase about
// its +Y axis: the visible hemisphere's texels mapped onto a disc.
func DiscImage(tex *asset.Texture, size int, phase float64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	sphere := scene.NewSphereGeometry(1, 0, 0)
	view := mgl64.Rotate3DY(phase)
	half := float64(size) / 2

	for py := 0; py < size; py++ {
		y := 1 - (float64(py)+0.5)/half
		for px := 0; px < size; px++ {
			x := (float64(px)+0.5)/half - 1
			d2 := x*x + y*y
			if d2 > 1 {
				continue
			}
			u, v := sphere.UV(view.Mul3x1(mgl64.Vec3{x, y, math.Sqrt(1 - d2)}))
			img.SetNRGBA(px, py, nrgba(tex.Sample(u, v)))
		}
	}
	return img
}

// AnnulusImage renders a ring texture face on. inner is the hole radius as
// a fraction of the outer radius.
func AnnulusImage(tex *asset.Texture, inner float64, size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	ring := scene.NewRingGeometry(inner, 1, 0)
	half := float64(size) / 2

	for py := 0; py < size; py++ {
		y := 1 - (float64(py)+0.5)/half
		for px := 0; px < size; px++ {
			x := (float64(px)+0.5)/half - 1
			if !ring.Contains(x, y) {
				continue
			}
			u, v := ring.UV(x, y)
			img.SetNRGBA(px, py, nrgba(tex.Sample(u, v)))
		}
	}
	return img
}

// FlatImage copies a texture into a square image.
func FlatImage(tex *asset.Texture, size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for py := 0; py < size; py++ {
		v := (float64(py) + 0.5) / float64(size)
		for px := 0; px < size; px++ {
			u := (float64(px) + 0.5) / float64(size)
			img.SetNRGBA(px, py, nrgba(tex.Sample(u, v)))
		}
	}
	return img
}

// nrgba drops alpha: surfaces are opaque.
func nrgba(c color.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// convertToEngoTexture converts an image to an Engo-compatible texture.
func convertToEngoTexture(img *image.NRGBA) common.Drawable {
	texture := common.NewImageObject(img)
	return common.NewTextureSingle(texture)
}
