package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// PerspectiveCamera is a pinhole camera looking down its local -Z axis.
//
// FOV is the vertical field of view in degrees. After changing FOV, Aspect,
// Near or Far, call UpdateProjectionMatrix.
type PerspectiveCamera struct {
	Node
	FOV    float64
	Aspect float64
	Near   float64
	Far    float64

	projection mgl64.Mat4
}

// NewPerspectiveCamera creates a camera at the origin with an up to date
// projection matrix.
func NewPerspectiveCamera(fov, aspect, near, far float64) *PerspectiveCamera {
	c := &PerspectiveCamera{
		Node:   NewNode("camera"),
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
	c.UpdateProjectionMatrix()
	return c
}

// UpdateProjectionMatrix recomputes the projection from the camera's
// current parameters.
func (c *PerspectiveCamera) UpdateProjectionMatrix() {
	c.projection = mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// ProjectionMatrix returns the projection computed by the last call to
// UpdateProjectionMatrix.
func (c *PerspectiveCamera) ProjectionMatrix() mgl64.Mat4 { return c.projection }

// ViewMatrix returns the world-to-camera transform.
func (c *PerspectiveCamera) ViewMatrix() mgl64.Mat4 { return c.WorldMatrix().Inv() }

// LookAt turns the camera so that it faces target, keeping +Y up. The
// camera is assumed to hang directly off the scene root.
func (c *PerspectiveCamera) LookAt(target mgl64.Vec3) {
	eye := c.WorldPosition()
	forward := target.Sub(eye)
	if forward.Len() < 1e-12 {
		return
	}
	up := AxisY
	if math.Abs(forward.Normalize().Dot(up)) > 1-1e-9 {
		up = AxisZ
	}
	view := mgl64.LookAtV(eye, target, up)
	c.Rotation = mgl64.Mat4ToQuat(view.Mat3().Transpose().Mat4()).Normalize()
}

// Forward returns the unit direction the camera faces in world space.
func (c *PerspectiveCamera) Forward() mgl64.Vec3 {
	return c.WorldMatrix().Mul4x1(mgl64.Vec4{0, 0, -1, 0}).Vec3().Normalize()
}

// Project maps a world-space point to normalized device coordinates. w is
// the point's distance in front of the camera along the view axis; ok is
// false for points at or behind the camera.
func (c *PerspectiveCamera) Project(p mgl64.Vec3) (ndc mgl64.Vec3, w float64, ok bool) {
	clip := c.projection.Mul4(c.ViewMatrix()).Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return mgl64.Vec3{}, clip[3], false
	}
	return clip.Vec3().Mul(1 / clip[3]), clip[3], true
}

// InverseViewProjection maps normalized device coordinates back to world
// space. Callers casting many rays per frame compute it once.
func (c *PerspectiveCamera) InverseViewProjection() mgl64.Mat4 {
	return c.projection.Mul4(c.ViewMatrix()).Inv()
}

// Ray returns the world-space ray through a point in normalized device
// coordinates, starting on the near plane.
func (c *PerspectiveCamera) Ray(x, y float64) (origin, dir mgl64.Vec3) {
	return RayThrough(c.InverseViewProjection(), x, y)
}

// RayThrough returns the ray through (x, y) in normalized device
// coordinates for an inverse view-projection matrix.
func RayThrough(inv mgl64.Mat4, x, y float64) (origin, dir mgl64.Vec3) {
	near := inv.Mul4x1(mgl64.Vec4{x, y, -1, 1})
	far := inv.Mul4x1(mgl64.Vec4{x, y, 1, 1})
	origin = near.Vec3().Mul(1 / near[3])
	dir = far.Vec3().Mul(1 / far[3]).Sub(origin).Normalize()
	return origin, dir
}
