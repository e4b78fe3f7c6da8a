package orrery

import (
	"context"

	"github.com/opd-ai/go-orrery/pkg/event"
)

// Viewport keeps the camera and renderer in step with the output surface.
type Viewport struct {
	state *State
}

// NewViewport creates a viewport adapter for state.
func NewViewport(state *State) *Viewport {
	return &Viewport{state: state}
}

// OnResize sets the camera aspect ratio to width/height, recomputes its
// projection and resizes the renderer's surface. Repeating a call with the
// same size is harmless. Non-positive sizes, as reported by minimized
// windows, are ignored.
func (v *Viewport) OnResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s := v.state
	aspect := float64(width) / float64(height)

	s.Camera.Aspect = aspect
	s.Camera.UpdateProjectionMatrix()
	s.Renderer.SetSize(width, height)

	if s.Logger != nil {
		s.Logger.Debug(context.Background(), "Viewport resized", "width", width, "height", height, "aspect", aspect)
	}
	s.Bus.Publish(event.NewResizeEvent(v, width, height, aspect))
}
