package orrery

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-orrery/pkg/asset"
	"github.com/opd-ai/go-orrery/pkg/config"
	"github.com/opd-ai/go-orrery/pkg/controls"
	"github.com/opd-ai/go-orrery/pkg/event"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/scene"
)

var (
	// ErrNoRenderer is returned by Assemble when Deps.Renderer is nil.
	ErrNoRenderer = errors.New("no renderer")
	// ErrNoBodies is returned by Assemble when the body table is empty.
	ErrNoBodies = errors.New("no bodies configured")
)

// fallbackGray is used for bodies that name no colour.
var fallbackGray = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// Deps are the collaborators Assemble wires into the scene.
type Deps struct {
	// Renderer is required.
	Renderer scene.Renderer

	// Loader supplies textures. When nil, Assemble creates one reading
	// from Assets, or from the configured asset directory when Assets is
	// also nil, and State.Close shuts it down.
	Loader *asset.Loader
	Assets fs.FS

	// Bus receives scene, texture and viewport events. Optional.
	Bus *event.Bus

	// Logger defaults to logging.NewLogger.
	Logger *logging.Logger
}

// Assemble builds the complete scene described by cfg: renderer surface,
// camera, lights, starfield backdrop, the sun and every configured body,
// plus orbit controls around the camera target. Texture loads are started
// but not awaited.
//
// Only a missing renderer and an empty body table are errors. Body
// dimensions and rates are used as given.
func Assemble(ctx context.Context, cfg *config.SystemConfig, deps Deps) (*State, error) {
	if deps.Renderer == nil {
		return nil, fmt.Errorf("assemble scene: %w", ErrNoRenderer)
	}
	if cfg == nil || len(cfg.Bodies) == 0 {
		return nil, fmt.Errorf("assemble scene: %w", ErrNoBodies)
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.NewLogger()
	}
	logger = logger.WithComponent("orrery")

	state := &State{
		Config:   cfg,
		Renderer: deps.Renderer,
		Loader:   deps.Loader,
		Bus:      deps.Bus,
		Logger:   logger,
	}
	if state.Loader == nil {
		assets := deps.Assets
		if assets == nil {
			assets = os.DirFS(cfg.Assets.Dir)
		}
		state.Loader = asset.NewLoader(assets,
			asset.WithConcurrency(cfg.Assets.MaxConcurrency),
			asset.WithLogger(logger),
			asset.WithEventBus(deps.Bus),
		)
		state.ownsLoader = true
	}

	w, h := cfg.Window.Width, cfg.Window.Height
	state.Renderer.SetSize(w, h)
	state.Renderer.SetShadows(cfg.Window.Shadows)

	state.Scene = scene.NewScene()
	assembleCamera(state, cfg, w, h)
	assembleLights(state, cfg)

	state.Scene.Background = state.Loader.LoadCube(
		starfield(cfg.Background.Texture),
		asset.ParseColor(cfg.Background.Color, color.RGBA{A: 255}),
	)

	factory := NewFactory(state.Scene, cfg.Geometry.SphereSegments, cfg.Geometry.RingSegments)

	state.Sun = factory.CreateSun(cfg.Sun.Radius,
		state.Loader.Load(cfg.Sun.Texture, asset.ParseColor(cfg.Sun.Color, fallbackGray)))
	state.SunSpinRate = cfg.Sun.SpinRate

	for _, bc := range cfg.Bodies {
		var ring *RingSpec
		if bc.Ring != nil {
			ring = &RingSpec{
				InnerRadius: bc.Ring.InnerRadius,
				OuterRadius: bc.Ring.OuterRadius,
				Texture:     state.Loader.Load(bc.Ring.Texture, asset.ParseColor(bc.Ring.Color, fallbackGray)),
			}
		}
		body := factory.CreateBody(bc.Name, bc.Radius,
			state.Loader.Load(bc.Texture, asset.ParseColor(bc.Color, fallbackGray)),
			bc.Distance, ring)
		body.SpinRate = bc.SpinRate
		body.OrbitRate = bc.OrbitRate
		state.Bodies = append(state.Bodies, body)
	}

	state.Controls = controls.NewOrbit(state.Camera)
	state.Controls.Target = mgl64.Vec3(cfg.Camera.Target)
	state.Controls.Update()
	state.Controls.SaveState()

	logger.Info(ctx, "Scene assembled",
		"bodies", len(state.Bodies),
		"rings", state.Rings(),
		"width", w,
		"height", h,
		"pending_textures", state.Loader.Pending(),
	)
	state.Bus.Publish(event.NewSceneEvent(state, len(state.Bodies), state.Rings()))

	return state, nil
}

func assembleCamera(state *State, cfg *config.SystemConfig, w, h int) {
	aspect := 1.0
	if h > 0 {
		aspect = float64(w) / float64(h)
	}
	cam := scene.NewPerspectiveCamera(cfg.Camera.FOV, aspect, cfg.Camera.Near, cfg.Camera.Far)
	cam.Position = mgl64.Vec3(cfg.Camera.Position)
	cam.LookAt(mgl64.Vec3(cfg.Camera.Target))
	state.Scene.Add(cam)
	state.Camera = cam
}

func assembleLights(state *State, cfg *config.SystemConfig) {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	amb := cfg.Lighting.Ambient
	state.Ambient = scene.NewAmbientLight(asset.ParseColor(amb.Color, white), amb.Intensity)

	pt := cfg.Lighting.Point
	state.Light = scene.NewPointLight(asset.ParseColor(pt.Color, white), pt.Intensity, pt.Distance)
	state.Light.CastShadow = cfg.Window.Shadows

	state.Scene.Add(state.Ambient, state.Light)
}

// starfield repeats one image on every cube face.
func starfield(texture string) [6]string {
	var faces [6]string
	for i := range faces {
		faces[i] = texture
	}
	return faces
}
