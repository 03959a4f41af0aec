// Package pupil produces the rotated variants of an aperture (pupil) mask that
// a rotating non-circular telescope sweeps through during one half-turn.
package pupil

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

const (
	// StartDegrees and EndDegrees bound the half rotation that is sampled.
	// Both endpoints are included.
	StartDegrees = 0.0
	EndDegrees   = 180.0
)

// AngleSet is an ordered, evenly spaced sequence of rotation angles in degrees.
type AngleSet []float64

// NewAngleSet returns n angles evenly spaced over [StartDegrees, EndDegrees].
// A single angle set contains only StartDegrees.
func NewAngleSet(n int) (AngleSet, error) {
	if n <= 0 {
		return nil, fmt.Errorf("number of angles must be positive, got %d", n)
	}
	if n == 1 {
		return AngleSet{StartDegrees}, nil
	}
	return AngleSet(floats.Span(make([]float64, n), StartDegrees, EndDegrees)), nil
}

// Len returns the number of angles in the set.
func (a AngleSet) Len() int { return len(a) }

// Step returns the spacing between consecutive angles, or 0 for a single angle.
func (a AngleSet) Step() float64 {
	if len(a) < 2 {
		return 0
	}
	return a[1] - a[0]
}
