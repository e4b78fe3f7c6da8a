package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if config.Camera.FOV != 45 || config.Camera.Near != 1 || config.Camera.Far != 1000 {
		t.Errorf("unexpected camera %+v", config.Camera)
	}
	if config.Camera.Position != [3]float64{-90, 140, 140} {
		t.Errorf("expected camera at (-90, 140, 140), got %v", config.Camera.Position)
	}
	if !config.Window.Shadows {
		t.Error("expected shadows enabled by default")
	}
	if config.Lighting.Point.Intensity != 3000 || config.Lighting.Point.Distance != 600 {
		t.Errorf("unexpected point light %+v", config.Lighting.Point)
	}
	if config.Lighting.Ambient.Color != "#333333" || config.Lighting.Ambient.Intensity != 15 {
		t.Errorf("unexpected ambient light %+v", config.Lighting.Ambient)
	}
	if config.Sun.Radius != 16 || config.Sun.SpinRate != 0.004 {
		t.Errorf("unexpected sun %+v", config.Sun)
	}

	if len(config.Bodies) != 9 {
		t.Fatalf("expected 9 bodies, got %d", len(config.Bodies))
	}

	wantOrder := []string{"mercury", "venus", "earth", "mars", "jupiter", "saturn", "neptune", "uranus", "pluto"}
	rings := 0
	for i, body := range config.Bodies {
		if body.Name != wantOrder[i] {
			t.Errorf("body %d: expected %s, got %s", i, wantOrder[i], body.Name)
		}
		if body.Ring != nil {
			rings++
		}
	}
	if rings != 2 {
		t.Errorf("expected 2 ringed bodies, got %d", rings)
	}

	saturn := config.Bodies[5]
	if saturn.Ring == nil || saturn.Ring.InnerRadius != 10 || saturn.Ring.OuterRadius != 20 {
		t.Errorf("unexpected saturn ring %+v", saturn.Ring)
	}
	uranus := config.Bodies[7]
	if uranus.Ring == nil || uranus.Ring.InnerRadius != 7 || uranus.Ring.OuterRadius != 12 {
		t.Errorf("unexpected uranus ring %+v", uranus.Ring)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	for _, name := range []string{"orrery.json", "orrery.yaml", "orrery.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			original := DefaultConfig()
			original.Window.Width = 800
			original.Bodies[2].SpinRate = 0.5

			if err := SaveConfig(original, path); err != nil {
				t.Fatalf("SaveConfig failed: %v", err)
			}

			loaded, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}

			if loaded.Window.Width != 800 {
				t.Errorf("expected width 800, got %d", loaded.Window.Width)
			}
			if loaded.Bodies[2].SpinRate != 0.5 {
				t.Errorf("expected earth spin 0.5, got %f", loaded.Bodies[2].SpinRate)
			}
			if loaded.Bodies[5].Ring == nil || loaded.Bodies[5].Ring.Texture != "saturn ring.png" {
				t.Errorf("saturn ring lost in round trip: %+v", loaded.Bodies[5].Ring)
			}
			if loaded.Bodies[0].Ring != nil {
				t.Error("mercury gained a ring in round trip")
			}
		})
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.json")
	if err := os.WriteFile(path, []byte(`{"window":{"width":640,"height":480}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Window.Width != 640 || config.Window.Height != 480 {
		t.Errorf("window not applied: %+v", config.Window)
	}
	if config.Camera.FOV != 45 {
		t.Errorf("expected default fov 45, got %f", config.Camera.FOV)
	}
	if len(config.Bodies) != 9 {
		t.Errorf("expected default bodies, got %d", len(config.Bodies))
	}
}

func TestLoadConfig_BodiesReplaceDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two.yaml")
	doc := `
bodies:
  - name: alpha
    radius: 1
    distance: 10
  - name: beta
    radius: 2
    distance: 20
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(config.Bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(config.Bodies))
	}
	for _, body := range config.Bodies {
		if body.Ring != nil {
			t.Errorf("%s inherited a ring", body.Name)
		}
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		os.WriteFile(path, []byte("{"), 0o644)
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SystemConfig)
	}{
		{"zero width", func(c *SystemConfig) { c.Window.Width = 0 }},
		{"negative height", func(c *SystemConfig) { c.Window.Height = -1 }},
		{"near plane zero", func(c *SystemConfig) { c.Camera.Near = 0 }},
		{"far before near", func(c *SystemConfig) { c.Camera.Far = 0.5 }},
		{"no bodies", func(c *SystemConfig) { c.Bodies = nil }},
		{"bad body color", func(c *SystemConfig) { c.Bodies[0].Color = "blue" }},
		{"bad ring color", func(c *SystemConfig) { c.Bodies[5].Ring.Color = "#zzzzzz" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	t.Run("negative radius passes through", func(t *testing.T) {
		config := DefaultConfig()
		config.Bodies[0].Radius = -3
		if err := config.Validate(); err != nil {
			t.Errorf("body geometry should not be validated: %v", err)
		}
	})
}
