// pkg/render/engo/scene.go
package engo

import (
	"context"
	"fmt"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/orrery"
)

// RunOptions configures the engo window.
type RunOptions struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
}

// AnimationSystem advances the orrery once per engo update. The step is
// fixed per frame; dt is ignored.
type AnimationSystem struct {
	driver *orrery.Driver
}

// Update satisfies the ecs.System interface
func (as *AnimationSystem) Update(dt float32) {
	as.driver.OnFrame()
}

// Remove satisfies the ecs.System interface
func (as *AnimationSystem) Remove(basic ecs.BasicEntity) {
	// Not used for animation system
}

// OrreryScene represents the orrery scene in Engo
type OrreryScene struct {
	driver   *orrery.Driver
	viewport *orrery.Viewport
	renderer *EngoRenderer
	logger   *logging.Logger

	input *InputSystem
}

// NewOrreryScene creates a new orrery scene. renderer must be the
// renderer the driver's state was assembled with.
func NewOrreryScene(driver *orrery.Driver, viewport *orrery.Viewport, renderer *EngoRenderer, logger *logging.Logger) *OrreryScene {
	return &OrreryScene{
		driver:   driver,
		viewport: viewport,
		renderer: renderer,
		logger:   logger.WithComponent("engo-scene"),
	}
}

// Type returns the scene type (required by Engo)
func (scene *OrreryScene) Type() string {
	return "OrreryScene"
}

// Preload is called before the scene starts (required by Engo). Textures
// are streamed by the asset loader instead.
func (scene *OrreryScene) Preload() {}

// Setup is called when the scene starts (required by Engo)
func (scene *OrreryScene) Setup(u engo.Updater) {
	world, ok := u.(*ecs.World)
	if !ok {
		scene.logger.Error(context.Background(), "Scene setup failed", fmt.Errorf("unexpected updater %T", u))
		return
	}

	common.SetBackground(color.Black)

	// The render system runs after every other system, so sprites laid
	// out by the animation system are drawn in the same update.
	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)
	scene.renderer.Attach(renderSystem)

	SetupInputBindings()
	scene.input = NewInputSystem(scene.driver.State().Controls)
	world.AddSystem(scene.input)
	world.AddSystem(&AnimationSystem{driver: scene.driver})

	engo.Mailbox.Listen("WindowResizeMessage", scene.handleResize)
	scene.viewport.OnResize(int(engo.GameWidth()), int(engo.GameHeight()))

	scene.logger.Info(context.Background(), "Scene setup complete",
		"bodies", len(scene.driver.State().Bodies))
}

// handleResize forwards window resizes to the viewport
func (scene *OrreryScene) handleResize(msg engo.Message) {
	switch m := msg.(type) {
	case engo.WindowResizeMessage:
		scene.viewport.OnResize(m.NewWidth, m.NewHeight)
	case *engo.WindowResizeMessage:
		scene.viewport.OnResize(m.NewWidth, m.NewHeight)
	}
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *OrreryScene) Exit() {
	scene.logger.Info(context.Background(), "Scene exiting",
		"frames", scene.driver.Frames())
}

// Run opens the window and blocks until it is closed or ctx is cancelled.
func Run(ctx context.Context, opts RunOptions, scene *OrreryScene) {
	release := exitOnDone(ctx, engo.Exit)
	defer release()

	engo.Run(engo.RunOptions{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Fullscreen: opts.Fullscreen,
		VSync:      true,
	}, scene)
}

// exitOnDone calls exit once ctx is done, unless the returned release
// function is called first. release waits for the watcher to stop.
func exitOnDone(ctx context.Context, exit func()) (release func()) {
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			exit()
		case <-done:
		}
	}()
	return func() {
		close(done)
		<-stopped
	}
}
