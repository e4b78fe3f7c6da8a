// Package orrery builds and animates the solar system scene.
//
// Assemble builds the scene graph once from configuration. From then on a
// host calls Driver.OnFrame once per displayed frame and Viewport.OnResize
// whenever its output surface changes size. All three operate on a single
// State value, which must only be touched from the host's frame goroutine.
package orrery

import (
	"math"

	"github.com/opd-ai/go-orrery/pkg/asset"
	"github.com/opd-ai/go-orrery/pkg/scene"
)

// Default tessellation.
const (
	DefaultSphereSegments = 30
	DefaultRingSegments   = 32
)

// RingSpec describes a flat ring around a body.
type RingSpec struct {
	InnerRadius float64
	OuterRadius float64
	Texture     *asset.Texture
}

// Body is an orbiting celestial body.
//
// Pivot is an invisible group at the world origin. Mesh (and Ring, when
// present) hang off the pivot at Distance along its local +X axis, so
// turning the pivot about +Y carries the body around its orbit while
// turning the mesh about its own +Y spins it in place.
type Body struct {
	Name     string
	Mesh     *scene.Mesh
	Pivot    *scene.Group
	Ring     *scene.Mesh
	Distance float64

	// Per-frame increments in radians.
	SpinRate  float64
	OrbitRate float64
}

// SpinAngle returns the body's accumulated spin in [0, 2π).
func (b *Body) SpinAngle() float64 {
	return scene.AngleAbout(b.Mesh.Rotation, scene.AxisY)
}

// OrbitAngle returns the body's accumulated orbital revolution in [0, 2π).
func (b *Body) OrbitAngle() float64 {
	return scene.AngleAbout(b.Pivot.Rotation, scene.AxisY)
}

// Factory creates bodies and attaches them to a scene root.
type Factory struct {
	root           *scene.Scene
	sphereSegments int
	ringSegments   int
}

// NewFactory creates a factory attaching bodies to root. Non-positive
// segment counts select the defaults.
func NewFactory(root *scene.Scene, sphereSegments, ringSegments int) *Factory {
	if sphereSegments <= 0 {
		sphereSegments = DefaultSphereSegments
	}
	if ringSegments <= 0 {
		ringSegments = DefaultRingSegments
	}
	return &Factory{root: root, sphereSegments: sphereSegments, ringSegments: ringSegments}
}

// CreateBody builds a lit, textured sphere of the given radius at distance
// along a new pivot's +X axis, plus an optional ring in the body's
// equatorial plane, and adds the pivot to the scene root. Inputs are not
// validated. The returned body has zero rates.
func (f *Factory) CreateBody(name string, radius float64, texture *asset.Texture, distance float64, ring *RingSpec) *Body {
	pivot := scene.NewGroup(name + "-pivot")

	mesh := scene.NewMesh(name,
		scene.NewSphereGeometry(radius, f.sphereSegments, f.sphereSegments),
		scene.NewStandardMaterial(texture),
	)
	mesh.Position[0] = distance
	pivot.Add(mesh)

	body := &Body{Name: name, Mesh: mesh, Pivot: pivot, Distance: distance}

	if ring != nil {
		material := scene.NewStandardMaterial(ring.Texture)
		material.Side = scene.DoubleSide
		r := scene.NewMesh(name+"-ring",
			scene.NewRingGeometry(ring.InnerRadius, ring.OuterRadius, f.ringSegments),
			material,
		)
		r.Position[0] = distance
		r.RotateX(-math.Pi / 2)
		pivot.Add(r)
		body.Ring = r
	}

	f.root.Add(pivot)
	return body
}

// CreateSun builds the unlit central body directly under the scene root.
func (f *Factory) CreateSun(radius float64, texture *asset.Texture) *scene.Mesh {
	sun := scene.NewMesh("sun",
		scene.NewSphereGeometry(radius, f.sphereSegments, f.sphereSegments),
		scene.NewBasicMaterial(texture),
	)
	f.root.Add(sun)
	return sun
}
