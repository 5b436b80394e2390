package rayfire

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/gekko3d/rayfire/meshrt/rt/bvh"
)

// Config holds the numeric tolerances of an engine. Distances are in model
// units.
type Config struct {
	// MaxLeafTriangles caps the facet count of a tree leaf.
	MaxLeafTriangles int     `json:"max_leaf_triangles"`
	BoxPadding       float64 `json:"box_padding"`
	// Epsilon is the intersector tolerance: barycentric widening and the
	// allowed overshoot behind the ray start.
	Epsilon float64 `json:"epsilon"`
	// TieTolerance is how close two crossings must be to count as the
	// same distance.
	TieTolerance     float64 `json:"tie_tolerance"`
	HistoryWindow    int     `json:"history_window"`
	HistoryTolerance float64 `json:"history_tolerance"`
	// NumericalPrecision is the distance under which a point counts as
	// lying on a surface.
	NumericalPrecision float64 `json:"numerical_precision"`
}

func DefaultConfig() Config {
	s := bvh.DefaultSettings()
	return Config{
		MaxLeafTriangles:   s.MaxLeafTriangles,
		BoxPadding:         s.Padding,
		Epsilon:            1e-9,
		TieTolerance:       1e-9,
		HistoryWindow:      8,
		HistoryTolerance:   1e-6,
		NumericalPrecision: 1e-3,
	}
}

func (c Config) Validate() error {
	nonNeg := map[string]float64{
		"box_padding":         c.BoxPadding,
		"epsilon":             c.Epsilon,
		"tie_tolerance":       c.TieTolerance,
		"history_tolerance":   c.HistoryTolerance,
		"numerical_precision": c.NumericalPrecision,
	}
	for name, v := range nonNeg {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a finite non-negative number, got %g: %w", name, v, ErrInvalidConfig)
		}
	}
	if c.MaxLeafTriangles < 1 {
		return fmt.Errorf("max_leaf_triangles must be at least 1, got %d: %w", c.MaxLeafTriangles, ErrInvalidConfig)
	}
	if c.HistoryWindow < 1 {
		return fmt.Errorf("history_window must be at least 1, got %d: %w", c.HistoryWindow, ErrInvalidConfig)
	}
	return nil
}

func (c Config) treeSettings() bvh.Settings {
	return bvh.Settings{MaxLeafTriangles: c.MaxLeafTriangles, Padding: c.BoxPadding}
}

// LoadConfig reads a JSON config file. Missing fields keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
