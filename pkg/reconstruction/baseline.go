package reconstruction

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"aperturesynth/pkg/grid"
	"aperturesynth/pkg/mtf"
	"aperturesynth/pkg/synthesis"
)

// Baseline computes the image a single exposure through the circular pupil
// would produce: one MTF, one frame, no rotation averaging and no Wiener
// filtering.
//
// It also returns the DC gain of that MTF (the sum of the squared mask), which
// relates the frame's brightness to the scene's. The gain is 0 for an opaque
// mask.
func Baseline(scene, circularMask *mat.Dense) (*mat.CDense, float64, error) {
	if err := grid.CheckShape(scene, circularMask); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDimensionMismatch, err)
	}
	m := mtf.Estimate(circularMask)
	frame, err := synthesis.Synthesize(synthesis.Spectrum(scene), m)
	if err != nil {
		return nil, 0, err
	}
	return frame, real(m.At(0, 0)), nil
}

// NormalizeGain divides img by gain. A non-positive gain returns an unchanged
// copy, since an opaque aperture has no brightness scale to undo.
func NormalizeGain(img *mat.CDense, gain float64) *mat.CDense {
	if gain <= 0 {
		return grid.Clone(img)
	}
	scale := complex(1/gain, 0)
	return grid.Map(img, func(v complex128) complex128 { return v * scale })
}
