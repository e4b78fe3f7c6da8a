package asset

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Cube face indices, in the conventional +X, -X, +Y, -Y, +Z, -Z order.
const (
	FacePosX = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

// CubeTexture is six textures forming an environment cube seen from the
// inside, used as a backdrop at infinite distance.
type CubeTexture struct {
	Faces [6]*Texture
}

// Face returns the cube face a direction points at and the (u, v)
// coordinates within that face, with v = 0 at the top.
func Face(dir mgl64.Vec3) (face int, u, v float64) {
	x, y, z := dir[0], dir[1], dir[2]
	ax, ay, az := math.Abs(x), math.Abs(y), math.Abs(z)

	var sc, tc, ma float64
	switch {
	case ax >= ay && ax >= az:
		ma = ax
		if x > 0 {
			face, sc, tc = FacePosX, -z, -y
		} else {
			face, sc, tc = FaceNegX, z, -y
		}
	case ay >= az:
		ma = ay
		if y > 0 {
			face, sc, tc = FacePosY, x, z
		} else {
			face, sc, tc = FaceNegY, x, -z
		}
	default:
		ma = az
		if z > 0 {
			face, sc, tc = FacePosZ, x, -y
		} else {
			face, sc, tc = FaceNegZ, -x, -y
		}
	}
	if ma == 0 {
		return FacePosZ, 0.5, 0.5
	}
	return face, (sc/ma + 1) / 2, (tc/ma + 1) / 2
}

// Sample returns the backdrop colour seen along dir.
func (c *CubeTexture) Sample(dir mgl64.Vec3) color.RGBA {
	face, u, v := Face(dir)
	return c.Faces[face].Sample(u, v)
}

// Ready reports whether every face has finished loading successfully.
func (c *CubeTexture) Ready() bool {
	for _, f := range c.Faces {
		if f == nil || f.State() != Ready {
			return false
		}
	}
	return true
}
