package scene

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-orrery/pkg/asset"
)

// Group is an invisible node used only to carry a transform, such as an
// orbital pivot.
type Group struct {
	Node
}

// NewGroup creates an empty group at the origin.
func NewGroup(name string) *Group {
	return &Group{Node: NewNode(name)}
}

// Geometry describes the shape of a mesh in its local space.
type Geometry interface {
	// BoundingRadius is the radius of a sphere about the local origin that
	// encloses the shape.
	BoundingRadius() float64
}

// SphereGeometry is a UV sphere centred on the origin. The segment counts
// describe tessellation for renderers that build triangle meshes.
type SphereGeometry struct {
	Radius         float64
	WidthSegments  int
	HeightSegments int
}

// NewSphereGeometry creates a sphere geometry.
func NewSphereGeometry(radius float64, widthSegments, heightSegments int) *SphereGeometry {
	return &SphereGeometry{Radius: radius, WidthSegments: widthSegments, HeightSegments: heightSegments}
}

func (g *SphereGeometry) BoundingRadius() float64 { return math.Abs(g.Radius) }

// UV returns the texture coordinates of a point on the sphere's surface,
// with u running once around the equator and v from 0 at the +Y pole to 1
// at the -Y pole.
func (g *SphereGeometry) UV(p mgl64.Vec3) (u, v float64) {
	l := p.Len()
	if l == 0 {
		return 0, 0
	}
	phi := math.Atan2(p[2], -p[0])
	if phi < 0 {
		phi += 2 * math.Pi
	}
	theta := math.Acos(math.Max(-1, math.Min(1, p[1]/l)))
	return phi / (2 * math.Pi), theta / math.Pi
}

// RingGeometry is a flat annulus in the local XY plane, facing +Z.
type RingGeometry struct {
	InnerRadius   float64
	OuterRadius   float64
	ThetaSegments int
}

// NewRingGeometry creates a ring geometry.
func NewRingGeometry(inner, outer float64, thetaSegments int) *RingGeometry {
	return &RingGeometry{InnerRadius: inner, OuterRadius: outer, ThetaSegments: thetaSegments}
}

func (g *RingGeometry) BoundingRadius() float64 {
	return math.Max(math.Abs(g.InnerRadius), math.Abs(g.OuterRadius))
}

// Contains reports whether a point in the ring's plane lies on the ring.
func (g *RingGeometry) Contains(x, y float64) bool {
	r := math.Hypot(x, y)
	return r >= g.InnerRadius && r <= g.OuterRadius
}

// UV maps a point in the ring's plane to planar texture coordinates
// spanning the outer diameter, v = 0 at the top (+Y).
func (g *RingGeometry) UV(x, y float64) (u, v float64) {
	if g.OuterRadius == 0 {
		return 0, 0
	}
	return (x/g.OuterRadius + 1) / 2, 1 - (y/g.OuterRadius+1)/2
}

// MaterialKind selects how a surface responds to light.
type MaterialKind int

const (
	// Basic surfaces ignore lights and show their colour as is.
	Basic MaterialKind = iota
	// Standard surfaces are lit by the scene's lights.
	Standard
)

// Side selects which faces of a surface are drawn.
type Side int

const (
	FrontSide Side = iota
	DoubleSide
)

// Material is the surface appearance of a mesh.
type Material struct {
	Kind  MaterialKind
	Map   *asset.Texture
	Color color.RGBA
	Side  Side
}

// NewBasicMaterial creates an unlit material showing tex.
func NewBasicMaterial(tex *asset.Texture) *Material {
	return &Material{Kind: Basic, Map: tex, Color: color.RGBA{R: 255, G: 255, B: 255, A: 255}}
}

// NewStandardMaterial creates a lit material showing tex.
func NewStandardMaterial(tex *asset.Texture) *Material {
	return &Material{Kind: Standard, Map: tex, Color: color.RGBA{R: 255, G: 255, B: 255, A: 255}}
}

// Sample returns the material's colour at (u, v): the map texel tinted by
// Color, or Color alone when there is no map.
func (m *Material) Sample(u, v float64) color.RGBA {
	if m.Map == nil {
		return m.Color
	}
	t := m.Map.Sample(u, v)
	return color.RGBA{
		R: uint8(uint16(t.R) * uint16(m.Color.R) / 255),
		G: uint8(uint16(t.G) * uint16(m.Color.G) / 255),
		B: uint8(uint16(t.B) * uint16(m.Color.B) / 255),
		A: uint8(uint16(t.A) * uint16(m.Color.A) / 255),
	}
}

// Mesh is a renderable node combining a geometry and a material.
type Mesh struct {
	Node
	Geometry Geometry
	Material *Material
}

// NewMesh creates a mesh at the origin.
func NewMesh(name string, geometry Geometry, material *Material) *Mesh {
	return &Mesh{Node: NewNode(name), Geometry: geometry, Material: material}
}
