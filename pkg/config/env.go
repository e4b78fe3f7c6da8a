package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables recognised by ApplyEnvironmentOverrides.
const (
	EnvWidth    = "ORRERY_WIDTH"
	EnvHeight   = "ORRERY_HEIGHT"
	EnvAssetDir = "ORRERY_ASSET_DIR"
	EnvFOV      = "ORRERY_FOV"
	EnvShadows  = "ORRERY_SHADOWS"
)

// ApplyEnvironmentOverrides overwrites config fields from ORRERY_*
// environment variables. Unset variables leave the field untouched; a set
// but malformed variable is an error.
func ApplyEnvironmentOverrides(config *SystemConfig) error {
	if err := overrideInt(EnvWidth, &config.Window.Width); err != nil {
		return err
	}
	if err := overrideInt(EnvHeight, &config.Window.Height); err != nil {
		return err
	}
	if err := overrideFloat(EnvFOV, &config.Camera.FOV); err != nil {
		return err
	}
	if err := overrideBool(EnvShadows, &config.Window.Shadows); err != nil {
		return err
	}
	if dir, ok := os.LookupEnv(EnvAssetDir); ok {
		config.Assets.Dir = dir
	}
	return nil
}

func overrideInt(key string, dst *int) error {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}

func overrideFloat(key string, dst *float64) error {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}

func overrideBool(key string, dst *bool) error {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}
