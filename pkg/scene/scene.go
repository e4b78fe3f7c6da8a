package scene

import (
	"github.com/opd-ai/go-orrery/pkg/asset"
)

// Scene is the root of a graph.
type Scene struct {
	Node
	// Background is drawn behind everything, at infinite distance.
	Background *asset.CubeTexture
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{Node: NewNode("scene")}
}

// Renderer draws a scene as seen by a camera onto an output surface.
type Renderer interface {
	Render(s *Scene, camera *PerspectiveCamera)
	SetSize(width, height int)
	Size() (width, height int)
	SetShadows(enabled bool)
}

// Count returns the number of objects of type T at or under root.
func Count[T Object](root Object) int {
	n := 0
	Traverse(root, func(o Object) {
		if _, ok := o.(T); ok {
			n++
		}
	})
	return n
}

// Collect returns the objects of type T at or under root in traversal
// order.
func Collect[T Object](root Object) []T {
	var out []T
	Traverse(root, func(o Object) {
		if t, ok := o.(T); ok {
			out = append(out, t)
		}
	})
	return out
}
