package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default() failed validation: %v", err)
	}
}

func TestLoadOverridesOnlySpecifiedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "axiom.toml")
	data := []byte(`
[workspace]
scroll_speed = 2.5
gaps = 20

[effects.blur]
enabled = false
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Workspace.ScrollSpeed != 2.5 {
		t.Fatalf("scroll_speed override not applied: got %v", cfg.Workspace.ScrollSpeed)
	}
	if cfg.Workspace.Gaps != 20 {
		t.Fatalf("gaps override not applied: got %v", cfg.Workspace.Gaps)
	}
	if cfg.Effects.Blur.Enabled != false {
		t.Fatalf("blur.enabled override not applied: got %v", cfg.Effects.Blur.Enabled)
	}

	def := defaultWorkspaceConfig()
	if cfg.Workspace.InfiniteScroll != def.InfiniteScroll {
		t.Fatalf("infinite_scroll should have kept its default")
	}
	if cfg.Workspace.WorkspaceWidth != def.WorkspaceWidth {
		t.Fatalf("workspace_width should have kept its default, got %v", cfg.Workspace.WorkspaceWidth)
	}
	if cfg.Effects.Blur.RadiusPx != defaultBlurConfig().RadiusPx {
		t.Fatalf("blur.radius should have kept its default")
	}
	if cfg.Bindings.Quit != defaultBindingsConfig().Quit {
		t.Fatalf("bindings should have kept their defaults")
	}
}

func TestLoadExpandsHomeDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "axiom.toml")
	if err := os.WriteFile(path, []byte("[general]\ndebug = true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load("~/axiom.toml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.General.Debug {
		t.Fatalf("expected debug=true from config file")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidateScrollSpeedBounds(t *testing.T) {
	cases := []struct {
		speed float64
		valid bool
	}{
		{0, false},
		{-1, false},
		{0.01, true},
		{10, true},
		{10.01, false},
	}
	for _, c := range cases {
		cfg := Default()
		cfg.Workspace.ScrollSpeed = c.speed
		err := cfg.Validate()
		if c.valid && err != nil {
			t.Errorf("scroll_speed=%v: expected valid, got %v", c.speed, err)
		}
		if !c.valid && err == nil {
			t.Errorf("scroll_speed=%v: expected invalid", c.speed)
		}
	}
}

func TestValidateAnimationCurve(t *testing.T) {
	for _, curve := range []string{"linear", "ease", "ease-in", "ease-out", "ease-in-out"} {
		cfg := Default()
		cfg.Effects.Animations.Curve = curve
		if err := cfg.Validate(); err != nil {
			t.Errorf("curve=%q: expected valid, got %v", curve, err)
		}
	}

	cfg := Default()
	cfg.Effects.Animations.Curve = "bounce"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid curve to fail validation")
	}
}

func TestValidateBlurIntensityBounds(t *testing.T) {
	cases := []struct {
		v     float64
		valid bool
	}{
		{-0.1, false},
		{0, true},
		{0.5, true},
		{1, true},
		{1.1, false},
	}
	for _, c := range cases {
		cfg := Default()
		cfg.Effects.Blur.Intensity = c.v
		err := cfg.Validate()
		if c.valid && err != nil {
			t.Errorf("blur.intensity=%v: expected valid, got %v", c.v, err)
		}
		if !c.valid && err == nil {
			t.Errorf("blur.intensity=%v: expected invalid", c.v)
		}
	}
}

func TestValidateShadowOpacityBounds(t *testing.T) {
	cases := []struct {
		v     float64
		valid bool
	}{
		{-0.1, false},
		{0, true},
		{0.6, true},
		{1, true},
		{1.1, false},
	}
	for _, c := range cases {
		cfg := Default()
		cfg.Effects.Shadows.Opacity = c.v
		err := cfg.Validate()
		if c.valid && err != nil {
			t.Errorf("shadows.opacity=%v: expected valid, got %v", c.v, err)
		}
		if !c.valid && err == nil {
			t.Errorf("shadows.opacity=%v: expected invalid", c.v)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.toml")

	cfg := Default()
	cfg.Workspace.ScrollSpeed = 3.0
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}
	if loaded.Workspace.ScrollSpeed != 3.0 {
		t.Fatalf("round-tripped scroll_speed = %v, want 3.0", loaded.Workspace.ScrollSpeed)
	}
}
