package render

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/opd-ai/go-orrery/pkg/scene"
)

// halfBlock draws the upper pixel of a cell in the foreground colour and
// the lower pixel in the background colour.
const halfBlock = "▀"

// TerminalRenderer ray casts the scene into a small RGBA framebuffer and
// prints it with two pixels per character cell. Its size is in pixels, so
// a terminal of C columns and R rows is a C×2R surface with square-ish
// pixels.
type TerminalRenderer struct {
	width   int
	height  int
	frame   *image.RGBA
	shadows bool
	frames  uint64
}

// NewTerminalRenderer creates a new terminal renderer with the specified
// pixel dimensions
func NewTerminalRenderer(width, height int) *TerminalRenderer {
	r := &TerminalRenderer{}
	r.SetSize(width, height)
	return r
}

// SetSize implements scene.Renderer. Non-positive sizes are clamped to one
// pixel.
func (r *TerminalRenderer) SetSize(width, height int) {
	r.width = max(1, width)
	r.height = max(1, height)
	r.frame = image.NewRGBA(image.Rect(0, 0, r.width, r.height))
}

// Size implements scene.Renderer.
func (r *TerminalRenderer) Size() (int, int) {
	return r.width, r.height
}

// SetShadows implements scene.Renderer. Shadows are not drawn; the flag is
// only recorded.
func (r *TerminalRenderer) SetShadows(enabled bool) {
	r.shadows = enabled
}

// Frames returns the number of frames rendered.
func (r *TerminalRenderer) Frames() uint64 {
	return r.frames
}

// Frame returns the last rendered framebuffer.
func (r *TerminalRenderer) Frame() *image.RGBA {
	return r.frame
}

// lighting is the light setup gathered once per frame, in linear RGB.
type lighting struct {
	ambient [3]float64
	points  []pointLight
}

type pointLight struct {
	light    *scene.PointLight
	position mgl64.Vec3
	color    [3]float64
}

// drawable is a mesh prepared for ray casting.
type drawable struct {
	mesh    *scene.Mesh
	world   mgl64.Mat4
	inverse mgl64.Mat4
}

type hit struct {
	t      float64
	point  mgl64.Vec3
	normal mgl64.Vec3
	color  color.RGBA
	lit    bool
}

// Render implements scene.Renderer.
func (r *TerminalRenderer) Render(s *scene.Scene, camera *scene.PerspectiveCamera) {
	if s == nil || camera == nil {
		return
	}
	r.frames++

	lights := gatherLights(s)
	var drawables []drawable
	scene.TraverseVisible(s, func(o scene.Object) {
		m, ok := o.(*scene.Mesh)
		if !ok || m.Geometry == nil || m.Material == nil {
			return
		}
		w := m.WorldMatrix()
		drawables = append(drawables, drawable{mesh: m, world: w, inverse: w.Inv()})
	})

	inv := camera.InverseViewProjection()
	for y := 0; y < r.height; y++ {
		ndcY := 1 - (float64(y)+0.5)/float64(r.height)*2
		for x := 0; x < r.width; x++ {
			ndcX := (float64(x)+0.5)/float64(r.width)*2 - 1
			origin, dir := scene.RayThrough(inv, ndcX, ndcY)
			r.frame.SetRGBA(x, y, r.trace(s, lights, drawables, origin, dir))
		}
	}
}

func (r *TerminalRenderer) trace(s *scene.Scene, lights lighting, drawables []drawable, origin, dir mgl64.Vec3) color.RGBA {
	var (
		best  hit
		found bool
	)
	for i := range drawables {
		if h, ok := intersect(&drawables[i], origin, dir); ok && (!found || h.t < best.t) {
			best, found = h, true
		}
	}
	if !found {
		if s.Background != nil {
			return s.Background.Sample(dir)
		}
		return color.RGBA{A: 255}
	}
	if !best.lit {
		return best.color
	}
	return shade(best, lights)
}

// intersect finds the nearest hit of a ray with d's geometry. The ray is
// taken into the mesh's local space, where t stays comparable with world
// space because the direction is not renormalized.
func intersect(d *drawable, origin, dir mgl64.Vec3) (hit, bool) {
	lo := d.inverse.Mul4x1(origin.Vec4(1)).Vec3()
	ld := d.inverse.Mul4x1(dir.Vec4(0)).Vec3()
	mat := d.mesh.Material

	switch g := d.mesh.Geometry.(type) {
	case *scene.SphereGeometry:
		a := ld.Dot(ld)
		b := 2 * lo.Dot(ld)
		c := lo.Dot(lo) - g.Radius*g.Radius
		disc := b*b - 4*a*c
		if a == 0 || disc < 0 {
			return hit{}, false
		}
		sq := math.Sqrt(disc)
		t := (-b - sq) / (2 * a)
		if t <= 0 {
			t = (-b + sq) / (2 * a)
		}
		if t <= 0 {
			return hit{}, false
		}
		p := lo.Add(ld.Mul(t))
		u, v := g.UV(p)
		return hit{
			t:      t,
			point:  origin.Add(dir.Mul(t)),
			normal: d.world.Mul4x1(p.Vec4(0)).Vec3().Normalize(),
			color:  mat.Sample(u, v),
			lit:    mat.Kind == scene.Standard,
		}, true

	case *scene.RingGeometry:
		if ld[2] == 0 {
			return hit{}, false
		}
		// Looking at the back of the plane.
		if ld[2] > 0 && mat.Side != scene.DoubleSide {
			return hit{}, false
		}
		t := -lo[2] / ld[2]
		if t <= 0 {
			return hit{}, false
		}
		p := lo.Add(ld.Mul(t))
		if !g.Contains(p[0], p[1]) {
			return hit{}, false
		}
		normal := d.world.Mul4x1(mgl64.Vec4{0, 0, 1, 0}).Vec3().Normalize()
		if normal.Dot(dir) > 0 {
			normal = normal.Mul(-1)
		}
		u, v := g.UV(p[0], p[1])
		return hit{
			t:      t,
			point:  origin.Add(dir.Mul(t)),
			normal: normal,
			color:  mat.Sample(u, v),
			lit:    mat.Kind == scene.Standard,
		}, true
	}
	return hit{}, false
}

func gatherLights(s *scene.Scene) lighting {
	var l lighting
	scene.TraverseVisible(s, func(o scene.Object) {
		switch light := o.(type) {
		case *scene.AmbientLight:
			c := linear(light.Color)
			for i := range l.ambient {
				l.ambient[i] += c[i] * light.Intensity
			}
		case *scene.PointLight:
			l.points = append(l.points, pointLight{
				light:    light,
				position: light.WorldPosition(),
				color:    linear(light.Color),
			})
		}
	})
	return l
}

// shade applies diffuse (Lambertian) lighting in linear RGB.
func shade(h hit, l lighting) color.RGBA {
	irradiance := l.ambient
	for _, p := range l.points {
		toLight := p.position.Sub(h.point)
		dist := toLight.Len()
		if dist == 0 {
			continue
		}
		ndotl := h.normal.Dot(toLight.Mul(1 / dist))
		if ndotl <= 0 {
			continue
		}
		k := p.light.Intensity * p.light.Attenuation(dist) * ndotl
		for i := range irradiance {
			irradiance[i] += p.color[i] * k
		}
	}

	albedo := linear(h.color)
	out := colorful.LinearRgb(
		albedo[0]*irradiance[0]/math.Pi,
		albedo[1]*irradiance[1]/math.Pi,
		albedo[2]*irradiance[2]/math.Pi,
	)
	cr, cg, cb := out.Clamped().RGB255()
	return color.RGBA{R: cr, G: cg, B: cb, A: 255}
}

func linear(c color.RGBA) [3]float64 {
	r, g, b := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.LinearRgb()
	return [3]float64{r, g, b}
}

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex())
}

// String returns the last frame as lines of half-block cells coloured with
// lipgloss. Runs of identical cells share one styled span. Without a
// colour-capable output the cells are printed unstyled.
func (r *TerminalRenderer) String() string {
	var sb strings.Builder
	rows := (r.height + 1) / 2
	for row := 0; row < rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		var (
			runTop, runBottom color.RGBA
			runLen            int
		)
		flush := func() {
			if runLen == 0 {
				return
			}
			style := lipgloss.NewStyle().Foreground(hex(runTop)).Background(hex(runBottom))
			sb.WriteString(style.Render(strings.Repeat(halfBlock, runLen)))
			runLen = 0
		}
		for x := 0; x < r.width; x++ {
			top := r.frame.RGBAAt(x, 2*row)
			bottom := color.RGBA{A: 255}
			if 2*row+1 < r.height {
				bottom = r.frame.RGBAAt(x, 2*row+1)
			}
			if runLen > 0 && (top != runTop || bottom != runBottom) {
				flush()
			}
			runTop, runBottom = top, bottom
			runLen++
		}
		flush()
	}
	return sb.String()
}
