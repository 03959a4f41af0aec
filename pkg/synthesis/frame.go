// Package synthesis simulates the observations made through each rotated pupil
// and averages them into the inputs of the Wiener deconvolution.
package synthesis

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"aperturesynth/pkg/grid"
)

// Spectrum returns the 2D frequency-domain representation of a real image.
func Spectrum(img mat.Matrix) *mat.CDense {
	return grid.RealFFT2(img)
}

// Synthesize simulates one observation of the scene through the aperture
// described by mtf. The scene spectrum is multiplied elementwise by the MTF and
// transformed back to the spatial domain.
func Synthesize(sceneSpectrum, mtf *mat.CDense) (*mat.CDense, error) {
	product, err := grid.Multiply(sceneSpectrum, mtf)
	if err != nil {
		return nil, fmt.Errorf("synthesizing frame: %w", err)
	}
	return grid.IFFT2(product), nil
}
