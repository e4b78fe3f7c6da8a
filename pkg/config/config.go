// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every error returned from Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// SystemConfig contains everything needed to assemble the orrery.
type SystemConfig struct {
	Window     WindowConfig     `json:"window" yaml:"window"`
	Camera     CameraConfig     `json:"camera" yaml:"camera"`
	Lighting   LightingConfig   `json:"lighting" yaml:"lighting"`
	Background BackgroundConfig `json:"background" yaml:"background"`
	Assets     AssetConfig      `json:"assets" yaml:"assets"`
	Geometry   GeometryConfig   `json:"geometry" yaml:"geometry"`
	Sun        SunConfig        `json:"sun" yaml:"sun"`
	Bodies     []BodyConfig     `json:"bodies" yaml:"bodies"`
}

// WindowConfig describes the output surface.
type WindowConfig struct {
	Title      string `json:"title" yaml:"title"`
	Width      int    `json:"width" yaml:"width"`
	Height     int    `json:"height" yaml:"height"`
	Fullscreen bool   `json:"fullscreen" yaml:"fullscreen"`
	Shadows    bool   `json:"shadows" yaml:"shadows"`
}

// CameraConfig describes the perspective camera and its initial framing.
type CameraConfig struct {
	FOV      float64    `json:"fov" yaml:"fov"`
	Near     float64    `json:"near" yaml:"near"`
	Far      float64    `json:"far" yaml:"far"`
	Position [3]float64 `json:"position" yaml:"position"`
	Target   [3]float64 `json:"target" yaml:"target"`
}

// LightConfig describes a light. Distance is only used by point lights.
type LightConfig struct {
	Color     string  `json:"color" yaml:"color"`
	Intensity float64 `json:"intensity" yaml:"intensity"`
	Distance  float64 `json:"distance,omitempty" yaml:"distance,omitempty"`
}

// LightingConfig contains the ambient and point lights.
type LightingConfig struct {
	Ambient LightConfig `json:"ambient" yaml:"ambient"`
	Point   LightConfig `json:"point" yaml:"point"`
}

// BackgroundConfig names the starfield image used on all six cube faces.
type BackgroundConfig struct {
	Texture string `json:"texture" yaml:"texture"`
	Color   string `json:"color" yaml:"color"`
}

// AssetConfig controls texture loading.
type AssetConfig struct {
	Dir            string `json:"dir" yaml:"dir"`
	MaxConcurrency int    `json:"maxConcurrency" yaml:"maxConcurrency"`
}

// GeometryConfig holds tessellation settings.
type GeometryConfig struct {
	SphereSegments int `json:"sphereSegments" yaml:"sphereSegments"`
	RingSegments   int `json:"ringSegments" yaml:"ringSegments"`
}

// SunConfig describes the self-illuminated sun at the origin.
type SunConfig struct {
	Radius   float64 `json:"radius" yaml:"radius"`
	Texture  string  `json:"texture" yaml:"texture"`
	Color    string  `json:"color" yaml:"color"`
	SpinRate float64 `json:"spinRate" yaml:"spinRate"`
}

// RingConfig describes a planetary ring.
type RingConfig struct {
	InnerRadius float64 `json:"innerRadius" yaml:"innerRadius"`
	OuterRadius float64 `json:"outerRadius" yaml:"outerRadius"`
	Texture     string  `json:"texture" yaml:"texture"`
	Color       string  `json:"color" yaml:"color"`
}

// BodyConfig describes one orbiting body. Rates are radians per frame.
type BodyConfig struct {
	Name      string      `json:"name" yaml:"name"`
	Radius    float64     `json:"radius" yaml:"radius"`
	Texture   string      `json:"texture" yaml:"texture"`
	Color     string      `json:"color" yaml:"color"`
	Distance  float64     `json:"distance" yaml:"distance"`
	SpinRate  float64     `json:"spinRate" yaml:"spinRate"`
	OrbitRate float64     `json:"orbitRate" yaml:"orbitRate"`
	Ring      *RingConfig `json:"ring,omitempty" yaml:"ring,omitempty"`
}

// isYAML reports whether path should be read and written as YAML.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadConfig loads a configuration file. Files ending in .yaml or .yml are
// parsed as YAML, anything else as JSON. Fields missing from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (*SystemConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	defaultBodies := config.Bodies
	// Decoders merge into existing slice elements; start the body table
	// empty so a file's bodies never inherit default rings.
	config.Bodies = nil
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if len(config.Bodies) == 0 {
		config.Bodies = defaultBodies
	}

	return config, nil
}

// SaveConfig writes config to path in the format implied by its extension.
func SaveConfig(config *SystemConfig, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the fields the assembler cannot work without. Body
// geometry is deliberately not range-checked.
func (c *SystemConfig) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("%w: camera clip planes near=%g far=%g", ErrInvalidConfig, c.Camera.Near, c.Camera.Far)
	}
	if len(c.Bodies) == 0 {
		return fmt.Errorf("%w: no bodies", ErrInvalidConfig)
	}

	colors := []string{c.Lighting.Ambient.Color, c.Lighting.Point.Color, c.Background.Color, c.Sun.Color}
	for _, body := range c.Bodies {
		colors = append(colors, body.Color)
		if body.Ring != nil {
			colors = append(colors, body.Ring.Color)
		}
	}
	for _, hex := range colors {
		if hex == "" {
			continue
		}
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("%w: color %q: %v", ErrInvalidConfig, hex, err)
		}
	}

	return nil
}

// DefaultConfig returns the classic nine-body solar system.
func DefaultConfig() *SystemConfig {
	return &SystemConfig{
		Window: WindowConfig{
			Title:   "Go Orrery",
			Width:   1024,
			Height:  768,
			Shadows: true,
		},
		Camera: CameraConfig{
			FOV:      45,
			Near:     1,
			Far:      1000,
			Position: [3]float64{-90, 140, 140},
		},
		Lighting: LightingConfig{
			Ambient: LightConfig{Color: "#333333", Intensity: 15},
			Point:   LightConfig{Color: "#ffffff", Intensity: 3000, Distance: 600},
		},
		Background: BackgroundConfig{
			Texture: "stars.jpg",
			Color:   "#000000",
		},
		Assets: AssetConfig{
			Dir:            "img",
			MaxConcurrency: 4,
		},
		Geometry: GeometryConfig{
			SphereSegments: 30,
			RingSegments:   32,
		},
		Sun: SunConfig{
			Radius:   16,
			Texture:  "sun.jpg",
			Color:    "#ffcc33",
			SpinRate: 0.004,
		},
		Bodies: []BodyConfig{
			{Name: "mercury", Radius: 3.2, Texture: "mercury.jpg", Color: "#8c8c8c", Distance: 30, SpinRate: 0.004, OrbitRate: 0.04},
			{Name: "venus", Radius: 5.8, Texture: "venus.jpg", Color: "#e6c587", Distance: 44, SpinRate: 0.002, OrbitRate: 0.015},
			{Name: "earth", Radius: 6, Texture: "earth.jpg", Color: "#2f6ad0", Distance: 62, SpinRate: 0.02, OrbitRate: 0.01},
			{Name: "mars", Radius: 4, Texture: "mars.jpg", Color: "#c1440e", Distance: 78, SpinRate: 0.018, OrbitRate: 0.008},
			{Name: "jupiter", Radius: 12, Texture: "jupiter.jpg", Color: "#d8ca9d", Distance: 100, SpinRate: 0.04, OrbitRate: 0.002},
			{
				Name: "saturn", Radius: 10, Texture: "saturn.jpg", Color: "#e3e0c0", Distance: 138, SpinRate: 0.038, OrbitRate: 0.0009,
				Ring: &RingConfig{InnerRadius: 10, OuterRadius: 20, Texture: "saturn ring.png", Color: "#c9b79c"},
			},
			{Name: "neptune", Radius: 7, Texture: "neptune.jpg", Color: "#3f54ba", Distance: 200, SpinRate: 0.032, OrbitRate: 0.0001},
			{
				Name: "uranus", Radius: 7, Texture: "uranus.jpg", Color: "#9fc4c7", Distance: 176, SpinRate: 0.03, OrbitRate: 0.0004,
				Ring: &RingConfig{InnerRadius: 7, OuterRadius: 12, Texture: "uranus ring.png", Color: "#7fa3a8"},
			},
			{Name: "pluto", Radius: 2.8, Texture: "pluto.jpg", Color: "#bfa58a", Distance: 216, SpinRate: 0.008, OrbitRate: 0.00007},
		},
	}
}
