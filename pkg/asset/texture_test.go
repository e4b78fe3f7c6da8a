package asset

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func quadrantTexture() *Texture {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255}) // top left
	img.SetRGBA(1, 0, color.RGBA{G: 255, A: 255}) // top right
	img.SetRGBA(0, 1, color.RGBA{B: 255, A: 255}) // bottom left
	img.SetRGBA(1, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	tex := &Texture{}
	tex.resolve(img, nil)
	return tex
}

func TestTexture_Sample(t *testing.T) {
	tex := quadrantTexture()

	tests := []struct {
		name string
		u, v float64
		want color.RGBA
	}{
		{"top left", 0.1, 0.1, color.RGBA{R: 255, A: 255}},
		{"top right", 0.9, 0.1, color.RGBA{G: 255, A: 255}},
		{"bottom left", 0.1, 0.9, color.RGBA{B: 255, A: 255}},
		{"u wraps past one", 1.1, 0.1, color.RGBA{R: 255, A: 255}},
		{"negative u wraps", -0.1, 0.1, color.RGBA{G: 255, A: 255}},
		{"v clamps below zero", 0.1, -3, color.RGBA{R: 255, A: 255}},
		{"v clamps at one", 0.1, 1, color.RGBA{B: 255, A: 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tex.Sample(tt.u, tt.v); got != tt.want {
				t.Errorf("Sample(%v, %v) = %v, want %v", tt.u, tt.v, got, tt.want)
			}
		})
	}
}

func TestTexture_NilAndSolid(t *testing.T) {
	var nilTex *Texture
	if got := nilTex.Sample(0, 0); got != (color.RGBA{A: 255}) {
		t.Errorf("nil texture sampled %v", got)
	}

	solid := NewSolidTexture(color.RGBA{R: 10, G: 20, B: 30, A: 255})
	if solid.State() != Ready {
		t.Errorf("solid texture state = %v", solid.State())
	}
	if got := solid.Sample(0.3, 0.7); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("solid texture sampled %v", got)
	}
}

func TestParseColor(t *testing.T) {
	def := color.RGBA{R: 1, G: 2, B: 3, A: 255}

	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#ff8000", color.RGBA{R: 255, G: 128, B: 0, A: 255}},
		{"#333333", color.RGBA{R: 51, G: 51, B: 51, A: 255}},
		{"", def},
		{"orange", def},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseColor(tt.in, def); got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFace(t *testing.T) {
	tests := []struct {
		name string
		dir  mgl64.Vec3
		face int
		u, v float64
	}{
		{"+x centre", mgl64.Vec3{1, 0, 0}, FacePosX, 0.5, 0.5},
		{"-x centre", mgl64.Vec3{-2, 0, 0}, FaceNegX, 0.5, 0.5},
		{"+y centre", mgl64.Vec3{0, 5, 0}, FacePosY, 0.5, 0.5},
		{"-y centre", mgl64.Vec3{0, -1, 0}, FaceNegY, 0.5, 0.5},
		{"+z centre", mgl64.Vec3{0, 0, 1}, FacePosZ, 0.5, 0.5},
		{"-z centre", mgl64.Vec3{0, 0, -1}, FaceNegZ, 0.5, 0.5},
		{"+z looking up hits top row", mgl64.Vec3{0, 0.999, 1}, FacePosZ, 0.5, 0.0005},
		{"zero vector", mgl64.Vec3{}, FacePosZ, 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			face, u, v := Face(tt.dir)
			if face != tt.face {
				t.Errorf("face = %d, want %d", face, tt.face)
			}
			if !mgl64.FloatEqualThreshold(u, tt.u, 1e-9) || !mgl64.FloatEqualThreshold(v, tt.v, 1e-9) {
				t.Errorf("uv = (%v, %v), want (%v, %v)", u, v, tt.u, tt.v)
			}
		})
	}
}

func TestCubeTexture_SampleUsesFacingFace(t *testing.T) {
	cube := &CubeTexture{}
	for i := range cube.Faces {
		cube.Faces[i] = NewSolidTexture(color.RGBA{R: uint8(i * 40), A: 255})
	}

	if got := cube.Sample(mgl64.Vec3{0, -1, 0}); got.R != uint8(FaceNegY*40) {
		t.Errorf("looking down sampled face with R=%d", got.R)
	}
	if !cube.Ready() {
		t.Error("cube of solid faces should be ready")
	}

	cube.Faces[3] = nil
	if cube.Ready() {
		t.Error("cube with a missing face should not be ready")
	}
}

func TestNormalize(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 9, 7))
	out := Normalize(src, 0)
	if out.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Errorf("expected origin-based bounds, got %v", out.Bounds())
	}

	tall := image.NewRGBA(image.Rect(0, 0, 10, 40))
	out = Normalize(tall, 20)
	if out.Bounds().Dx() != 5 || out.Bounds().Dy() != 20 {
		t.Errorf("expected 5x20, got %v", out.Bounds())
	}

	small := image.NewRGBA(image.Rect(0, 0, 3, 3))
	if Normalize(small, 20) != small {
		t.Error("small origin-based RGBA should be returned as is")
	}
}
