// Package config implements Axiom's TOML configuration (spec.md §6):
// the `[workspace]`/`[effects]`/`[window]`/`[input]`/`[bindings]`/
// `[xwayland]`/`[general]` sections, decoded with defaults-then-override
// semantics, plus the validation rules spec.md §6 names explicitly.
//
// Grounded on original_source/src/config/mod.rs: the section layout,
// field names, and defaults are carried over field-for-field (serde
// struct + per-field Default impls translated to Go struct tags + a
// defaultXConfig() constructor per section), decoded with go-toml/v2
// (used transitively by LanternOps-breeze's viper-based config stack)
// rather than hand-rolling a TOML parser.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// AxiomConfig is the complete decoded configuration file.
type AxiomConfig struct {
	Workspace WorkspaceConfig `toml:"workspace"`
	Effects   EffectsConfig   `toml:"effects"`
	Window    WindowConfig    `toml:"window"`
	Input     InputConfig     `toml:"input"`
	Bindings  BindingsConfig  `toml:"bindings"`
	XWayland  XWaylandConfig  `toml:"xwayland"`
	General   GeneralConfig   `toml:"general"`
}

// Default returns Axiom's built-in configuration, used both as the
// zero-config fallback and as the base that Load decodes a TOML file's
// present keys on top of (so a config file only naming a handful of
// keys still gets sane values everywhere else).
func Default() AxiomConfig {
	return AxiomConfig{
		Workspace: defaultWorkspaceConfig(),
		Effects:   defaultEffectsConfig(),
		Window:    defaultWindowConfig(),
		Input:     defaultInputConfig(),
		Bindings:  defaultBindingsConfig(),
		XWayland:  defaultXWaylandConfig(),
		General:   defaultGeneralConfig(),
	}
}

// validAnimationCurves are the animation curve names spec.md §6
// validates against.
var validAnimationCurves = map[string]bool{
	"linear":      true,
	"ease":        true,
	"ease-in":     true,
	"ease-out":    true,
	"ease-in-out": true,
}

// Load reads, decodes, and validates the TOML config file at path. A
// leading "~" is expanded against $HOME. Keys absent from the file keep
// Default's values.
func Load(path string) (AxiomConfig, error) {
	expanded, err := expandHome(path)
	if err != nil {
		return AxiomConfig{}, err
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return AxiomConfig{}, fmt.Errorf("config: read %s: %w", expanded, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return AxiomConfig{}, fmt.Errorf("config: parse %s: %w", expanded, err)
	}

	if err := cfg.Validate(); err != nil {
		return AxiomConfig{}, fmt.Errorf("config: %s: %w", expanded, err)
	}
	return cfg, nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: expand ~: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Validate checks the rules spec.md §6 names explicitly:
// workspace.scroll_speed ∈ (0, 10]; animation curve ∈ the named set;
// blur.intensity and shadow.opacity ∈ [0, 1].
func (c AxiomConfig) Validate() error {
	if c.Workspace.ScrollSpeed <= 0 || c.Workspace.ScrollSpeed > 10 {
		return fmt.Errorf("workspace.scroll_speed must be in (0, 10], got %v", c.Workspace.ScrollSpeed)
	}
	if !validAnimationCurves[c.Effects.Animations.Curve] {
		return fmt.Errorf("effects.animations.curve %q is not one of linear/ease/ease-in/ease-out/ease-in-out", c.Effects.Animations.Curve)
	}
	if c.Effects.Blur.Intensity < 0 || c.Effects.Blur.Intensity > 1 {
		return fmt.Errorf("effects.blur.intensity must be in [0, 1], got %v", c.Effects.Blur.Intensity)
	}
	if c.Effects.Shadows.Opacity < 0 || c.Effects.Shadows.Opacity > 1 {
		return fmt.Errorf("effects.shadows.opacity must be in [0, 1], got %v", c.Effects.Shadows.Opacity)
	}
	return nil
}

// Save serializes c as TOML and writes it to path, for a
// `--write-default-config`-style CLI flag or tooling that wants to dump
// the effective configuration.
func (c AxiomConfig) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
