// Package controls moves a camera in response to user input.
package controls

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-orrery/pkg/scene"
)

// polarEpsilon keeps the camera off the poles, where "up" is undefined.
const polarEpsilon = 1e-6

// Orbit keeps a camera on a sphere around a target point. Input methods
// only queue changes; Update applies them and repositions the camera.
type Orbit struct {
	camera *scene.PerspectiveCamera

	// Target is the point the camera orbits and looks at.
	Target mgl64.Vec3

	// Distance limits
	MinDistance float64
	MaxDistance float64

	// Polar angle limits, measured from +Y
	MinPolarAngle float64
	MaxPolarAngle float64

	Enabled bool

	// Pending input
	thetaDelta float64
	phiDelta   float64
	scale      float64
	pan        mgl64.Vec3

	// State captured by SaveState for Reset
	savedTarget   mgl64.Vec3
	savedPosition mgl64.Vec3
}

// NewOrbit creates controls for camera around the world origin, capturing
// the camera's current position as the reset state.
func NewOrbit(camera *scene.PerspectiveCamera) *Orbit {
	o := &Orbit{
		camera:        camera,
		MinDistance:   0,
		MaxDistance:   math.Inf(1),
		MinPolarAngle: 0,
		MaxPolarAngle: math.Pi,
		Enabled:       true,
		scale:         1,
	}
	o.SaveState()
	return o
}

// Camera returns the controlled camera.
func (o *Orbit) Camera() *scene.PerspectiveCamera { return o.camera }

// Rotate queues a change of azimuth (about +Y) and polar angle, in radians.
func (o *Orbit) Rotate(dTheta, dPhi float64) {
	if !o.Enabled {
		return
	}
	o.thetaDelta += dTheta
	o.phiDelta += dPhi
}

// Dolly queues a change of distance. A factor below one moves the camera
// closer; non-positive factors are ignored.
func (o *Orbit) Dolly(factor float64) {
	if !o.Enabled || factor <= 0 {
		return
	}
	o.scale *= factor
}

// Pan queues a drag of the view by dx, dy (fractions of the viewport
// height, right and up positive). The scene follows the drag, so the
// target moves the opposite way within the camera's view plane.
func (o *Orbit) Pan(dx, dy float64) {
	if !o.Enabled {
		return
	}
	offset := o.camera.Position.Sub(o.Target)
	visible := 2 * offset.Len() * math.Tan(mgl64.DegToRad(o.camera.FOV)/2)

	m := o.camera.Matrix()
	right := m.Col(0).Vec3()
	up := m.Col(1).Vec3()

	o.pan = o.pan.Add(right.Mul(-dx * visible)).Add(up.Mul(-dy * visible))
}

// Update applies queued input, clamps the result to the configured limits,
// moves the camera and points it at the target. It reports whether the
// camera moved.
func (o *Orbit) Update() bool {
	before := o.camera.Position

	offset := o.camera.Position.Sub(o.Target)
	radius := offset.Len()
	theta := math.Atan2(offset[0], offset[2])
	phi := 0.0
	if radius > 0 {
		phi = math.Acos(clamp(offset[1]/radius, -1, 1))
	}

	theta += o.thetaDelta
	phi += o.phiDelta
	phi = clamp(phi, math.Max(o.MinPolarAngle, polarEpsilon), math.Min(o.MaxPolarAngle, math.Pi-polarEpsilon))
	radius = clamp(radius*o.scale, o.MinDistance, o.MaxDistance)

	o.Target = o.Target.Add(o.pan)

	sinPhi := math.Sin(phi)
	offset = mgl64.Vec3{
		radius * sinPhi * math.Sin(theta),
		radius * math.Cos(phi),
		radius * sinPhi * math.Cos(theta),
	}
	o.camera.Position = o.Target.Add(offset)
	o.camera.LookAt(o.Target)

	o.thetaDelta, o.phiDelta, o.scale = 0, 0, 1
	o.pan = mgl64.Vec3{}

	return !o.camera.Position.ApproxEqualThreshold(before, 1e-12)
}

// SaveState records the current target and camera position for Reset.
func (o *Orbit) SaveState() {
	o.savedTarget = o.Target
	o.savedPosition = o.camera.Position
}

// Reset discards queued input and returns the camera to the saved state.
func (o *Orbit) Reset() {
	o.thetaDelta, o.phiDelta, o.scale = 0, 0, 1
	o.pan = mgl64.Vec3{}
	o.Target = o.savedTarget
	o.camera.Position = o.savedPosition
	o.camera.LookAt(o.Target)
}

// Distance returns the current distance from the camera to the target.
func (o *Orbit) Distance() float64 {
	return o.camera.Position.Sub(o.Target).Len()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
