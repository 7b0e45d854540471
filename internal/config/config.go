package config

import (
	"encoding/json"
	"os"
	"sync"
)

// Config holds application configuration and feature flags
type Config struct {
	// Feature flags
	Features Features `json:"features"`

	// Rendering parameters
	Rendering Rendering `json:"rendering"`
}

// Features contains feature flags for development
type Features struct {
	// ShowDemo enables the built-in demo scene
	ShowDemo bool `json:"show_demo"`

	// ShowStats enables the frame statistics overlay
	ShowStats bool `json:"show_stats"`

	// ParallelTransform runs vertex transforms across worker goroutines
	ParallelTransform bool `json:"parallel_transform"`
}

// Rendering contains rendering parameters
type Rendering struct {
	// LineAA enables anti-aliased stroking
	LineAA bool `json:"line_aa"`

	// ShapeAA enables anti-aliased filling
	ShapeAA bool `json:"shape_aa"`

	// CircleSegments is the tessellation resolution for circles and arcs
	CircleSegments int `json:"circle_segments"`

	// GlobalAlpha scales every vertex alpha (0-1)
	GlobalAlpha float64 `json:"global_alpha"`

	// MaxVertices and MaxElements cap per-frame geometry; zero means the
	// draw list defaults
	MaxVertices int `json:"max_vertices"`
	MaxElements int `json:"max_elements"`

	// Profile selects the shader binding naming scheme
	// ("classic" or "prefixed")
	Profile string `json:"profile"`

	// UIScale multiplies all UI coordinates (0.5-3)
	UIScale float64 `json:"ui_scale"`
}

var (
	instance *Config
	once     sync.Once
	mu       sync.RWMutex
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Features: Features{
			ShowDemo:          true,
			ShowStats:         true,
			ParallelTransform: false,
		},
		Rendering: Rendering{
			LineAA:         true,
			ShapeAA:        true,
			CircleSegments: 22,
			GlobalAlpha:    1.0,
			MaxVertices:    0,
			MaxElements:    0,
			Profile:        "classic",
			UIScale:        1.0,
		},
	}
}

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		instance = DefaultConfig()
		// Try to load from file
		if data, err := os.ReadFile("config.json"); err == nil {
			json.Unmarshal(data, instance)
		}
	})
	return instance
}

// Load loads configuration from a file
func Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	if instance == nil {
		instance = DefaultConfig()
	}

	return json.Unmarshal(data, instance)
}

// Save saves configuration to a file
func Save(path string) error {
	mu.RLock()
	defer mu.RUnlock()

	if instance == nil {
		instance = DefaultConfig()
	}

	data, err := json.MarshalIndent(instance, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetUIScale sets the UI scale factor
func SetUIScale(scale float64) {
	mu.Lock()
	defer mu.Unlock()

	if instance == nil {
		instance = DefaultConfig()
	}

	instance.Rendering.UIScale = clampScale(scale)
}

// GetUIScale returns the current UI scale factor
func GetUIScale() float64 {
	mu.RLock()
	defer mu.RUnlock()

	if instance == nil {
		return 1.0
	}
	return instance.Rendering.UIScale
}

// AdjustUIScale adjusts the UI scale by a delta
func AdjustUIScale(delta float64) float64 {
	mu.Lock()
	defer mu.Unlock()

	if instance == nil {
		instance = DefaultConfig()
	}

	instance.Rendering.UIScale = clampScale(instance.Rendering.UIScale + delta)
	return instance.Rendering.UIScale
}

func clampScale(scale float64) float64 {
	if scale < 0.5 {
		return 0.5
	}
	if scale > 3.0 {
		return 3.0
	}
	return scale
}
