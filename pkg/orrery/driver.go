package orrery

// Driver advances the animation by one fixed step per displayed frame.
//
// Increments are not scaled by elapsed time: the apparent speed of every
// body follows the host's frame rate.
type Driver struct {
	state  *State
	frames uint64
}

// NewDriver creates a driver for state.
func NewDriver(state *State) *Driver {
	return &Driver{state: state}
}

// OnFrame applies finished texture loads and pending camera input, spins
// the sun and every body by its spin rate, revolves every pivot by its
// orbit rate, and renders the scene.
func (d *Driver) OnFrame() {
	s := d.state

	if s.Loader != nil {
		s.Loader.Poll()
	}
	if s.Controls != nil {
		s.Controls.Update()
	}

	if s.Sun != nil {
		s.Sun.RotateY(s.SunSpinRate)
	}
	for _, b := range s.Bodies {
		b.Mesh.RotateY(b.SpinRate)
	}
	for _, b := range s.Bodies {
		b.Pivot.RotateY(b.OrbitRate)
	}

	s.Renderer.Render(s.Scene, s.Camera)
	d.frames++
}

// Frames returns the number of completed frames.
func (d *Driver) Frames() uint64 { return d.frames }

// State returns the state the driver animates.
func (d *Driver) State() *State { return d.state }
