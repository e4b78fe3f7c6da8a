// pkg/render/engo/renderer.go
package engo

import (
	"context"
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	emath "github.com/EngoEngine/math"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-orrery/pkg/asset"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/scene"
)

// backgroundZ keeps the starfield behind every body.
const backgroundZ = -1e9

// sprite is an engo entity standing in for one mesh.
type sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// Placement is where a mesh lands on screen.
type Placement struct {
	Center   engo.Point
	Width    float32
	Height   float32
	Depth    float64 // distance along the view axis

	// Phase is the camera's azimuth about the mesh's local +Y axis, in
	// [0, 2π). Sphere sprites show the hemisphere facing that way, so a
	// body's spin turns its texture rather than the sprite.
	Phase float64
}

// EngoRenderer implements scene.Renderer using the Engo game engine. Each
// mesh is drawn as a camera-facing sprite: spheres as textured discs
// showing the hemisphere that faces the camera, rings as ellipses
// foreshortened by the viewing angle. The cube face the camera looks at
// fills the background.
type EngoRenderer struct {
	renderSystem *common.RenderSystem
	assets       *AssetManager
	logger       *logging.Logger

	sprites    map[*scene.Mesh]*sprite
	background *sprite

	width   int
	height  int
	shadows bool
	frames  uint64
}

// NewEngoRenderer creates a new Engo-based renderer. It draws nothing
// until Attach is called from the scene's Setup.
func NewEngoRenderer(logger *logging.Logger) *EngoRenderer {
	return &EngoRenderer{
		assets:  NewAssetManager(),
		logger:  logger.WithComponent("engo"),
		sprites: make(map[*scene.Mesh]*sprite),
	}
}

// Attach binds the renderer to the render system of an engo world.
func (r *EngoRenderer) Attach(renderSystem *common.RenderSystem) {
	r.renderSystem = renderSystem
}

// SetSize implements scene.Renderer
func (r *EngoRenderer) SetSize(width, height int) {
	r.width, r.height = width, height
}

// Size implements scene.Renderer
func (r *EngoRenderer) Size() (int, int) {
	return r.width, r.height
}

// SetShadows implements scene.Renderer. Sprites cast no shadows; the flag
// is recorded only.
func (r *EngoRenderer) SetShadows(enabled bool) {
	r.shadows = enabled
}

// Frames returns the number of frames laid out.
func (r *EngoRenderer) Frames() uint64 {
	return r.frames
}

// Render implements scene.Renderer by updating the sprite entities that
// engo's render system draws at the end of the update.
func (r *EngoRenderer) Render(s *scene.Scene, camera *scene.PerspectiveCamera) {
	if r.renderSystem == nil || s == nil || camera == nil {
		return
	}
	r.frames++

	r.updateBackground(s, camera)

	visible := make(map[*scene.Mesh]bool, len(r.sprites))
	scene.TraverseVisible(s, func(o scene.Object) {
		m, ok := o.(*scene.Mesh)
		if !ok || m.Material == nil {
			return
		}
		p, ok := Layout(m, camera, r.width, r.height)
		if !ok {
			return
		}
		visible[m] = true
		r.updateSprite(r.getOrCreateSprite(m, p), m, p)
	})

	for m, sp := range r.sprites {
		if !visible[m] {
			sp.Hidden = true
		}
	}
}

// Layout projects a mesh onto a width×height screen. It reports false for
// meshes behind the camera, beyond the far plane or without a supported
// geometry.
func Layout(m *scene.Mesh, camera *scene.PerspectiveCamera, width, height int) (Placement, bool) {
	world := m.WorldMatrix()
	center := world.Col(3).Vec3()
	ndc, depth, ok := camera.Project(center)
	if !ok || ndc[2] > 1 {
		return Placement{}, false
	}

	// Pixels per world unit at this depth.
	focal := float64(height) / 2 / math.Tan(camera.FOV*math.Pi/360)
	scale := focal / depth * world.Col(0).Vec3().Len()

	p := Placement{
		Center: engo.Point{
			X: float32((ndc[0] + 1) / 2 * float64(width)),
			Y: float32((1 - ndc[1]) / 2 * float64(height)),
		},
		Depth: depth,
	}

	switch g := m.Geometry.(type) {
	case *scene.SphereGeometry:
		d := float32(2 * math.Abs(g.Radius) * scale)
		p.Width, p.Height = d, d
		toCamera := world.Inv().Mul4x1(camera.WorldPosition().Sub(center).Vec4(0))
		p.Phase = scene.WrapAngle(math.Atan2(toCamera[0], toCamera[2]))
	case *scene.RingGeometry:
		normal := world.Mul4x1(mgl64.Vec4{0, 0, 1, 0}).Vec3().Normalize()
		toCamera := camera.WorldPosition().Sub(center).Normalize()
		p.Width = float32(2 * g.OuterRadius * scale)
		p.Height = p.Width * float32(math.Abs(normal.Dot(toCamera)))
	default:
		return Placement{}, false
	}

	p.Width = emath.Max(1, p.Width)
	p.Height = emath.Max(1, p.Height)
	return p, true
}

// getOrCreateSprite gets an existing mesh sprite or creates a new one
func (r *EngoRenderer) getOrCreateSprite(m *scene.Mesh, p Placement) *sprite {
	if sp, exists := r.sprites[m]; exists {
		return sp
	}

	sp := &sprite{BasicEntity: ecs.NewBasic()}
	sp.RenderComponent = common.RenderComponent{
		Drawable: r.drawableFor(m, p),
		Color:    color.White,
	}
	r.renderSystem.Add(&sp.BasicEntity, &sp.RenderComponent, &sp.SpaceComponent)
	r.sprites[m] = sp

	r.logger.Debug(context.Background(), "Sprite created", "mesh", m.Name)
	return sp
}

func (r *EngoRenderer) drawableFor(m *scene.Mesh, p Placement) common.Drawable {
	if g, ok := m.Geometry.(*scene.RingGeometry); ok {
		return r.assets.RingSprite(m.Material.Map, g)
	}
	return r.assets.BodySprite(m.Material.Map, p.Phase)
}

// updateSprite moves a sprite to its placement and refreshes its texture
func (r *EngoRenderer) updateSprite(sp *sprite, m *scene.Mesh, p Placement) {
	d := r.drawableFor(m, p)
	sp.Drawable = d
	sp.Hidden = false
	sp.Scale = engo.Point{X: p.Width / d.Width(), Y: p.Height / d.Height()}

	sp.Width, sp.Height = p.Width, p.Height
	sp.SetCenter(p.Center)
	sp.SetZIndex(float32(-p.Depth))
}

// updateBackground shows the cube face the camera is looking at
func (r *EngoRenderer) updateBackground(s *scene.Scene, camera *scene.PerspectiveCamera) {
	if s.Background == nil {
		if r.background != nil {
			r.background.Hidden = true
		}
		return
	}

	face, _, _ := asset.Face(camera.Forward())
	d := r.assets.BackgroundSprite(s.Background.Faces[face])

	if r.background == nil {
		r.background = &sprite{BasicEntity: ecs.NewBasic()}
		r.background.RenderComponent = common.RenderComponent{Drawable: d, Color: color.White}
		r.background.SetZIndex(backgroundZ)
		r.renderSystem.Add(&r.background.BasicEntity, &r.background.RenderComponent, &r.background.SpaceComponent)
	}

	bg := r.background
	bg.Drawable = d
	bg.Hidden = false
	bg.Width, bg.Height = float32(r.width), float32(r.height)
	bg.Scale = engo.Point{X: bg.Width / d.Width(), Y: bg.Height / d.Height()}
	bg.Position = engo.Point{}
}
