package keystream

import (
	"math"
	"strings"
)

// MapKind selects the iteration rule of a chaotic map.
type MapKind int

// Supported map kinds.
const (
	Duffing MapKind = iota
	Logistic
	TwoDLogistic
)

// Map parameters.
const (
	DuffingAlpha  = 2.75
	DuffingBeta   = 0.2
	LogisticR     = 3.99
	TwoDLogisticR = 1.19
)

var mapKindNames = [...]string{
	Duffing:      "Duffing",
	Logistic:     "Logistic",
	TwoDLogistic: "2D-Logistic",
}

// IsValid indicates the kind is one of the supported maps.
func (k MapKind) IsValid() bool {
	return k >= Duffing && k <= TwoDLogistic
}

// String implements fmt.Stringer.
func (k MapKind) String() string {
	if !k.IsValid() {
		return "Unknown"
	}
	return mapKindNames[k]
}

// Domain returns the interval initial coordinates must lie in.
func (k MapKind) Domain() (lo, hi float64) {
	switch k {
	case Duffing:
		return -1.2, 1.2
	case Logistic:
		return 0, 1
	case TwoDLogistic:
		return -1, 1
	}
	return math.NaN(), math.NaN()
}

// ParseMapKind parses the console name of a map kind.
func ParseMapKind(s string) (MapKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "duffing", "d":
		return Duffing, nil
	case "logistic", "l":
		return Logistic, nil
	case "mccm", "m", "2d-logistic", "2dlogistic":
		return TwoDLogistic, nil
	}
	return 0, ErrUnknownMapKind
}

// ChaoticMap is the state of one chaotic map orbit.
type ChaoticMap struct {
	X, Y float64
	// Iterations is the warm-up count applied by setup.
	Iterations uint32
}

// Iterate advances the orbit by one step using the rule of kind.
// Products are rounded to float64 before being summed so the orbit
// is bit-identical on platforms which fuse multiply-add.
func (m *ChaoticMap) Iterate(kind MapKind) {
	x, y := m.X, m.Y
	switch kind {
	case Duffing:
		m.X = y
		m.Y = float64(-DuffingBeta*x) + float64(DuffingAlpha*y) - float64(y*y*y)
	case Logistic:
		m.X = LogisticR * x * (1 - x)
		m.Y = LogisticR * y * (1 - y)
	case TwoDLogistic:
		// Both coordinates are driven by the previous state.
		m.X = TwoDLogisticR * (float64(3*y) + 1) * x * (1 - x)
		m.Y = TwoDLogisticR * (float64(3*x) + 1) * y * (1 - y)
	}
}

// WarmUp iterates the map Iterations times.
func (m *ChaoticMap) WarmUp(kind MapKind) {
	for i := uint32(0); i < m.Iterations; i++ {
		m.Iterate(kind)
	}
}

// IsFinite indicates the orbit has not diverged.
func (m *ChaoticMap) IsFinite() bool {
	return !math.IsNaN(m.X) && !math.IsInf(m.X, 0) &&
		!math.IsNaN(m.Y) && !math.IsInf(m.Y, 0)
}
