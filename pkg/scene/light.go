package scene

import (
	"image/color"
	"math"
)

// AmbientLight lights every standard surface uniformly.
type AmbientLight struct {
	Node
	Color     color.RGBA
	Intensity float64
}

// NewAmbientLight creates an ambient light.
func NewAmbientLight(c color.RGBA, intensity float64) *AmbientLight {
	return &AmbientLight{Node: NewNode("ambient"), Color: c, Intensity: intensity}
}

// PointLight emits in all directions from its position. Intensity is in
// candela; Distance is the range beyond which it contributes nothing
// (0 means unlimited) and Decay the falloff exponent.
type PointLight struct {
	Node
	Color      color.RGBA
	Intensity  float64
	Distance   float64
	Decay      float64
	CastShadow bool
}

// NewPointLight creates a point light with physically based (inverse
// square) decay.
func NewPointLight(c color.RGBA, intensity, distance float64) *PointLight {
	return &PointLight{Node: NewNode("point"), Color: c, Intensity: intensity, Distance: distance, Decay: 2}
}

// Attenuation returns the light's falloff factor at distance d: 1/d^decay,
// smoothly windowed to zero at Distance.
func (l *PointLight) Attenuation(d float64) float64 {
	f := 1 / math.Max(math.Pow(d, l.Decay), 0.01)
	if l.Distance > 0 {
		w := 1 - math.Pow(d/l.Distance, 4)
		w = math.Max(0, math.Min(1, w))
		f *= w * w
	}
	return f
}
