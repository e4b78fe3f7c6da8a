// cmd/orrery/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/opd-ai/go-orrery/pkg/config"
	"github.com/opd-ai/go-orrery/pkg/event"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/orrery"
	"github.com/opd-ai/go-orrery/pkg/render"
	engorender "github.com/opd-ai/go-orrery/pkg/render/engo"
	"github.com/opd-ai/go-orrery/pkg/render/tui"
	"github.com/opd-ai/go-orrery/pkg/scene"
)

// defaultConfigPath is read when present; otherwise defaults apply.
const defaultConfigPath = "orrery.json"

// headlessFrameInterval paces the null renderer when no frame limit is set.
const headlessFrameInterval = time.Second / 60

// shutdownTimeout bounds how long pending texture decodes may delay exit.
const shutdownTimeout = 5 * time.Second

type runFlags struct {
	configPath string
	renderer   string
	frames     uint64
	fullscreen bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "orrery",
		Short: "An animated model of the solar system",
		Long: `orrery draws the sun and nine planets, each spinning on its axis and
orbiting the sun at a fixed step per frame, against a starfield.

It renders in a window (engo), in the terminal, or headless.`,
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newConfigCmd())
	return root
}

func newRunCmd() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the orrery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrrery(cmd, flags)
		},
	}
	cmd.Flags().StringVar(&flags.configPath, "config", defaultConfigPath, "Path to configuration file (JSON or YAML)")
	cmd.Flags().StringVar(&flags.renderer, "renderer", "engo", "Renderer type: 'engo', 'terminal' or 'null'")
	cmd.Flags().Uint64Var(&flags.frames, "frames", 0, "Stop after this many frames (0 runs until interrupted)")
	cmd.Flags().BoolVar(&flags.fullscreen, "fullscreen", false, "Run in fullscreen mode (engo only)")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create configuration files",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigPath
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	var configPath, format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return writeConfig(cmd.OutOrStdout(), cfg, format)
		},
	}
	showCmd.Flags().StringVar(&configPath, "config", defaultConfigPath, "Path to configuration file (JSON or YAML)")
	showCmd.Flags().StringVar(&format, "format", "yaml", "Output format: 'yaml' or 'json'")

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

// loadConfig reads path, falling back to defaults when the default path
// does not exist, then applies environment overrides and validates.
func loadConfig(path string) (*config.SystemConfig, error) {
	var cfg *config.SystemConfig
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && path == defaultConfigPath {
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeConfig(w io.Writer, cfg *config.SystemConfig, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cfg)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func runOrrery(cmd *cobra.Command, flags *runFlags) error {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	if flags.fullscreen {
		cfg.Window.Fullscreen = true
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithRunID(ctx, logging.GenerateRunID())

	// Log lines would tear the terminal renderer's frame.
	logger := logging.NewLogger()
	if flags.renderer == "terminal" {
		logger = logging.Discard()
	}

	bus := event.NewEventBus()
	bus.Subscribe(event.TextureFailed, func(e event.Event) {
		if te, ok := e.(*event.TextureEvent); ok {
			logger.Warn(ctx, "Texture unavailable, using fallback colour",
				"path", te.Path, "error", te.Err)
		}
	})

	var (
		renderer scene.Renderer
		host     func(*orrery.State) error
	)

	switch flags.renderer {
	case "null":
		r := render.NewNullRendererWithLogger(logger)
		renderer = r
		host = func(state *orrery.State) error {
			frames := runHeadless(ctx, orrery.NewDriver(state), flags.frames)
			fmt.Fprintf(cmd.OutOrStdout(), "rendered %d frames\n", frames)
			return nil
		}

	case "terminal":
		r := render.NewTerminalRenderer(cfg.Window.Width, cfg.Window.Height)
		renderer = r
		host = func(state *orrery.State) error {
			m := tui.New(orrery.NewDriver(state), orrery.NewViewport(state), r, tui.Options{
				Title:     cfg.Window.Title,
				MaxFrames: flags.frames,
			})
			return tui.Run(ctx, m)
		}

	case "engo":
		r := engorender.NewEngoRenderer(logger)
		renderer = r
		host = func(state *orrery.State) error {
			s := engorender.NewOrreryScene(orrery.NewDriver(state), orrery.NewViewport(state), r, logger)
			engorender.Run(ctx, engorender.RunOptions{
				Title:      cfg.Window.Title,
				Width:      cfg.Window.Width,
				Height:     cfg.Window.Height,
				Fullscreen: cfg.Window.Fullscreen,
			}, s)
			return nil
		}

	default:
		return fmt.Errorf("unknown renderer %q", flags.renderer)
	}

	state, err := orrery.Assemble(ctx, cfg, orrery.Deps{
		Renderer: renderer,
		Bus:      bus,
		Logger:   logger,
	})
	if err != nil {
		return logging.WrapError(err, "assemble orrery")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := state.Close(closeCtx); err != nil {
			logger.Error(ctx, "Shutdown incomplete", err)
		}
	}()

	logger.Info(ctx, "Orrery running", "renderer", flags.renderer, "bodies", len(state.Bodies))
	return host(state)
}

// runHeadless drives frames until limit is reached (when non-zero) or ctx
// is cancelled, and returns the number of frames drawn.
func runHeadless(ctx context.Context, driver *orrery.Driver, limit uint64) uint64 {
	if limit > 0 {
		for driver.Frames() < limit && ctx.Err() == nil {
			driver.OnFrame()
		}
		return driver.Frames()
	}

	ticker := time.NewTicker(headlessFrameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return driver.Frames()
		case <-ticker.C:
			driver.OnFrame()
		}
	}
}
