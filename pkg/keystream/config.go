package keystream

import (
	"fmt"
	"math"
)

// Warm-up iteration bounds.
const (
	MinIterations uint32 = 200
	MaxIterations uint32 = 1000000
)

// Config is what an operator provides to seed one generator.
type Config struct {
	Kind MapKind
	// MapA produces the per-word keystream.
	MapA ChaoticMap
	// MapB seeds the mixer.
	MapB ChaoticMap
}

// Validate checks the map kind and every initial coordinate.
func (c Config) Validate() error {
	if !c.Kind.IsValid() {
		return ErrUnknownMapKind
	}
	lo, hi := c.Kind.Domain()
	coords := []struct {
		name  string
		value float64
	}{
		{"Map 1 x", c.MapA.X},
		{"Map 1 y", c.MapA.Y},
		{"Map 2 x", c.MapB.X},
		{"Map 2 y", c.MapB.Y},
	}
	for _, coord := range coords {
		if math.IsNaN(coord.value) || coord.value < lo || coord.value > hi {
			return &DomainError{Field: coord.name, Value: coord.value, Kind: c.Kind}
		}
	}
	return nil
}

// Normalize clamps the iteration counts and reports every adjustment.
func (c Config) Normalize() (Config, []string) {
	var warnings []string
	clamp := func(name string, n *uint32) {
		switch {
		case *n < MinIterations:
			warnings = append(warnings, fmt.Sprintf("%s must be at least %d for %s map, setting to %d",
				name, MinIterations, c.Kind, MinIterations))
			*n = MinIterations
		case *n > MaxIterations:
			warnings = append(warnings, fmt.Sprintf("%s exceeds %d for %s map, setting to %d",
				name, MaxIterations, c.Kind, MaxIterations))
			*n = MaxIterations
		}
	}
	clamp("Iterations Map 1", &c.MapA.Iterations)
	clamp("Iterations Map 2", &c.MapB.Iterations)
	if c.Kind == Logistic && c.MapA.X == c.MapA.Y {
		warnings = append(warnings, "Map 1 x equals y for Logistic map, both axes cancel in the keystream")
	}
	return c, warnings
}

// String gives a one-line summary.
func (c Config) String() string {
	return fmt.Sprintf("%s map 1: x=%.6f, y=%.6f, iterations=%d; map 2: x=%.6f, y=%.6f, iterations=%d",
		c.Kind, c.MapA.X, c.MapA.Y, c.MapA.Iterations, c.MapB.X, c.MapB.Y, c.MapB.Iterations)
}
