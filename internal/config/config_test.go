package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Rendering.LineAA || !cfg.Rendering.ShapeAA {
		t.Error("anti-aliasing should default on")
	}
	if cfg.Rendering.CircleSegments != 22 {
		t.Errorf("CircleSegments = %d, want 22", cfg.Rendering.CircleSegments)
	}
	if cfg.Rendering.GlobalAlpha != 1.0 {
		t.Errorf("GlobalAlpha = %v, want 1", cfg.Rendering.GlobalAlpha)
	}
	if cfg.Rendering.Profile != "classic" {
		t.Errorf("Profile = %q, want classic", cfg.Rendering.Profile)
	}
	if cfg.Rendering.UIScale != 1.0 {
		t.Errorf("UIScale = %v, want 1", cfg.Rendering.UIScale)
	}
}

func TestUIScaleClamped(t *testing.T) {
	SetUIScale(10)
	if got := GetUIScale(); got != 3.0 {
		t.Errorf("UIScale after SetUIScale(10) = %v, want 3", got)
	}

	SetUIScale(0.1)
	if got := GetUIScale(); got != 0.5 {
		t.Errorf("UIScale after SetUIScale(0.1) = %v, want 0.5", got)
	}

	SetUIScale(1.5)
	if got := AdjustUIScale(0.25); got != 1.75 {
		t.Errorf("AdjustUIScale(0.25) = %v, want 1.75", got)
	}
	if got := AdjustUIScale(100); got != 3.0 {
		t.Errorf("AdjustUIScale(100) = %v, want 3", got)
	}

	SetUIScale(1.0)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	SetUIScale(2.0)
	if err := Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	SetUIScale(1.0)
	if err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := GetUIScale(); got != 2.0 {
		t.Errorf("UIScale after reload = %v, want 2", got)
	}

	SetUIScale(1.0)
}

func TestLoadMissingFile(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadPartialKeepsOtherFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.json")
	if err := os.WriteFile(path, []byte(`{"rendering": {"circle_segments": 48}}`), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	mu.RLock()
	segments := instance.Rendering.CircleSegments
	profile := instance.Rendering.Profile
	mu.RUnlock()

	if segments != 48 {
		t.Errorf("CircleSegments = %d, want 48", segments)
	}
	if profile != "classic" {
		t.Errorf("Profile = %q, want classic untouched", profile)
	}
}
