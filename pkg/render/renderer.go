// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/scene"
)

// NullRenderer is a headless implementation of scene.Renderer. It draws
// nothing and records what it was asked to do.
type NullRenderer struct {
	logger *logging.Logger

	width   int
	height  int
	shadows bool
	frames  uint64
	meshes  int
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer() *NullRenderer {
	return NewNullRendererWithLogger(logging.NewLogger())
}

// NewNullRendererWithLogger creates a NullRenderer logging to logger.
func NewNullRendererWithLogger(logger *logging.Logger) *NullRenderer {
	return &NullRenderer{
		logger: logger.WithComponent("render"),
	}
}

// Render implements scene.Renderer.
func (d *NullRenderer) Render(s *scene.Scene, camera *scene.PerspectiveCamera) {
	ctx := context.Background()
	if s == nil || camera == nil {
		d.logger.Debug(ctx, "Render called without scene or camera")
		return
	}
	d.frames++
	d.meshes = 0
	scene.TraverseVisible(s, func(o scene.Object) {
		if _, ok := o.(*scene.Mesh); ok {
			d.meshes++
		}
	})
	d.logger.Debug(ctx, "Render called",
		"frame", d.frames,
		"meshes", d.meshes,
		"aspect", camera.Aspect,
	)
}

// SetSize implements scene.Renderer.
func (d *NullRenderer) SetSize(width, height int) {
	d.width, d.height = width, height
	d.logger.Debug(context.Background(), "SetSize called", "width", width, "height", height)
}

// Size implements scene.Renderer.
func (d *NullRenderer) Size() (int, int) {
	return d.width, d.height
}

// SetShadows implements scene.Renderer.
func (d *NullRenderer) SetShadows(enabled bool) {
	d.shadows = enabled
}

// Shadows reports whether shadow mapping was requested.
func (d *NullRenderer) Shadows() bool {
	return d.shadows
}

// Frames returns the number of frames rendered.
func (d *NullRenderer) Frames() uint64 {
	return d.frames
}

// Meshes returns the number of visible meshes in the last rendered frame.
func (d *NullRenderer) Meshes() int {
	return d.meshes
}
