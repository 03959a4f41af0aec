// Package mtf estimates the modulation transfer function of a pupil mask.
//
// For an incoherent imaging system the optical transfer function is the
// autocorrelation of the pupil. The estimate here forms that autocorrelation in
// the Fourier domain, |F · conj(F)| with F the spectrum of the mask, and maps it
// back with an inverse transform. The result is multiplied elementwise with a
// scene spectrum by the frame synthesizer.
package mtf

import (
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"aperturesynth/pkg/grid"
)

// Autocorrelation returns the real, non-negative array |F · conj(F)| where F is
// the 2D spectrum of mask. It is returned as a complex array with zero
// imaginary part so it can be fed straight into an inverse transform.
func Autocorrelation(mask mat.Matrix) *mat.CDense {
	spectrum := grid.RealFFT2(mask)
	return grid.Map(spectrum, func(f complex128) complex128 {
		return complex(cmplx.Abs(f*cmplx.Conj(f)), 0)
	})
}

// Estimate computes the MTF of mask as the inverse transform of its
// autocorrelation. An all-zero mask yields an all-zero MTF.
func Estimate(mask mat.Matrix) *mat.CDense {
	return grid.IFFT2(Autocorrelation(mask))
}
