// pkg/render/engo/input.go
package engo

import (
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-orrery/pkg/controls"
)

// Per-frame control steps for held keys
const (
	keyRotateStep = 0.03
	keyZoomStep   = 0.97
	scrollZoom    = 0.95
)

// frameInput is the input observed during one engo update.
type frameInput struct {
	// Mouse
	X, Y   float32
	Action engo.Action
	Button engo.MouseButton
	Scroll float32

	// Held keys
	Left, Right, Up, Down bool
	ZoomIn, ZoomOut       bool

	Reset bool

	// Height of the window in pixels, used to scale drags.
	Height float32
}

// InputSystem maps mouse and keyboard input onto orbit controls: drag
// with the left button to rotate, the right button to pan, and scroll
// to zoom.
type InputSystem struct {
	controls *controls.Orbit

	dragging   bool
	dragButton engo.MouseButton
	lastX      float32
	lastY      float32
}

// NewInputSystem creates a new input system
func NewInputSystem(orbit *controls.Orbit) *InputSystem {
	return &InputSystem{controls: orbit}
}

// Add satisfies the ecs.System interface
func (is *InputSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
	// Not used for input system
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {
	// Not used for input system
}

// Update reads engo's input state and queues camera changes. They are
// applied by the orbit controls on the next frame.
func (is *InputSystem) Update(dt float32) {
	mouse := engo.Input.Mouse
	is.apply(frameInput{
		X:       mouse.X,
		Y:       mouse.Y,
		Action:  mouse.Action,
		Button:  mouse.Button,
		Scroll:  mouse.ScrollY,
		Left:    engo.Input.Button("rotateLeft").Down(),
		Right:   engo.Input.Button("rotateRight").Down(),
		Up:      engo.Input.Button("rotateUp").Down(),
		Down:    engo.Input.Button("rotateDown").Down(),
		ZoomIn:  engo.Input.Button("zoomIn").Down(),
		ZoomOut: engo.Input.Button("zoomOut").Down(),
		Reset:   engo.Input.Button("reset").JustPressed(),
		Height:  engo.WindowHeight(),
	})

	if engo.Input.Button("quit").JustPressed() {
		engo.Exit()
	}
}

// apply queues the control changes for one frame of input.
func (is *InputSystem) apply(in frameInput) {
	if is.controls == nil {
		return
	}

	if in.Reset {
		is.controls.Reset()
		is.dragging = false
		return
	}

	is.applyMouse(in)

	if in.Left {
		is.controls.Rotate(-keyRotateStep, 0)
	}
	if in.Right {
		is.controls.Rotate(keyRotateStep, 0)
	}
	if in.Up {
		is.controls.Rotate(0, -keyRotateStep)
	}
	if in.Down {
		is.controls.Rotate(0, keyRotateStep)
	}
	if in.ZoomIn {
		is.controls.Dolly(keyZoomStep)
	}
	if in.ZoomOut {
		is.controls.Dolly(1 / keyZoomStep)
	}
}

func (is *InputSystem) applyMouse(in frameInput) {
	switch in.Action {
	case engo.Press:
		is.dragging = true
		is.dragButton = in.Button
		is.lastX, is.lastY = in.X, in.Y
	case engo.Release:
		is.dragging = false
	}

	if is.dragging && in.Height > 0 {
		dx := float64(in.X-is.lastX) / float64(in.Height)
		dy := float64(in.Y-is.lastY) / float64(in.Height)
		is.lastX, is.lastY = in.X, in.Y

		switch is.dragButton {
		case engo.MouseButtonLeft:
			// A drag across the full height turns the view once around.
			is.controls.Rotate(-2*math.Pi*dx, -2*math.Pi*dy)
		case engo.MouseButtonRight:
			// Screen y grows downward; Pan takes up as positive.
			is.controls.Pan(dx, -dy)
		}
	}

	if in.Scroll > 0 {
		is.controls.Dolly(scrollZoom)
	} else if in.Scroll < 0 {
		is.controls.Dolly(1 / scrollZoom)
	}
}

// SetupInputBindings sets up the key bindings for the orrery
func SetupInputBindings() {
	engo.Input.RegisterButton("rotateLeft", engo.KeyA, engo.KeyArrowLeft)
	engo.Input.RegisterButton("rotateRight", engo.KeyD, engo.KeyArrowRight)
	engo.Input.RegisterButton("rotateUp", engo.KeyArrowUp)
	engo.Input.RegisterButton("rotateDown", engo.KeyArrowDown)
	engo.Input.RegisterButton("zoomIn", engo.KeyW)
	engo.Input.RegisterButton("zoomOut", engo.KeyS)
	engo.Input.RegisterButton("reset", engo.KeyR)
	engo.Input.RegisterButton("quit", engo.KeyQ, engo.KeyEscape)
}
