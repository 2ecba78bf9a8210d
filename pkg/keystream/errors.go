package keystream

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownMapKind indicates the map kind is not supported.
	ErrUnknownMapKind = errors.New("unknown map type, must be duffing, logistic or mccm")
	// ErrNotSeeded indicates a key word is requested before setup.
	ErrNotSeeded = errors.New("key generator not seeded")
	// ErrDiverged indicates a map orbit escaped to NaN or infinity.
	ErrDiverged = errors.New("chaotic map diverged")
)

// DomainError reports a coordinate outside the domain of its map.
type DomainError struct {
	Field string
	Value float64
	Kind  MapKind
}

// Error implements error.
func (e *DomainError) Error() string {
	lo, hi := e.Kind.Domain()
	return fmt.Sprintf("%s value %.6f is out of range [%.6f, %.6f] for %s map",
		e.Field, e.Value, lo, hi, e.Kind)
}
