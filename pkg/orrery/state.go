package orrery

import (
	"context"

	"github.com/opd-ai/go-orrery/pkg/asset"
	"github.com/opd-ai/go-orrery/pkg/config"
	"github.com/opd-ai/go-orrery/pkg/controls"
	"github.com/opd-ai/go-orrery/pkg/event"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/scene"
)

// State is everything the frame loop reads and mutates.
type State struct {
	Config   *config.SystemConfig
	Scene    *scene.Scene
	Camera   *scene.PerspectiveCamera
	Controls *controls.Orbit
	Renderer scene.Renderer

	Ambient *scene.AmbientLight
	Light   *scene.PointLight

	Sun         *scene.Mesh
	SunSpinRate float64

	// Bodies in configuration order.
	Bodies []*Body

	Loader *asset.Loader
	Bus    *event.Bus
	Logger *logging.Logger

	ownsLoader bool
}

// Body returns the body with the given name, or nil.
func (s *State) Body(name string) *Body {
	for _, b := range s.Bodies {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// Rings returns the number of bodies that carry a ring.
func (s *State) Rings() int {
	n := 0
	for _, b := range s.Bodies {
		if b.Ring != nil {
			n++
		}
	}
	return n
}

// Close stops texture loading if Assemble created the loader. A loader
// passed in through Deps is left to its owner.
func (s *State) Close(ctx context.Context) error {
	if !s.ownsLoader || s.Loader == nil {
		return nil
	}
	return s.Loader.Close(ctx)
}
