// Package wiener recovers a sharpened image from the averaged frames by Wiener
// deconvolution with the averaged MTF.
//
// The filter is
//
//	W = conj(M) / (|M|² + 1/SNR²)
//
// where the regularization term 1/SNR² bounds the gain wherever |M| is close to
// zero. SNR must be a finite positive number; zero and negative values are
// rejected rather than clamped.
package wiener

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"aperturesynth/pkg/grid"
)

// ErrInvalidSNR is returned for an SNR that is not a finite positive number.
var ErrInvalidSNR = errors.New("snr must be a finite positive number")

// ValidateSNR returns a wrapped ErrInvalidSNR when snr cannot be used.
func ValidateSNR(snr float64) error {
	if math.IsNaN(snr) || math.IsInf(snr, 0) || snr <= 0 {
		return fmt.Errorf("%w, got %v", ErrInvalidSNR, snr)
	}
	return nil
}

// Regularization returns 1/snr², clamped to the positive normal range so that
// it neither underflows to zero for very large SNR nor overflows for very small
// SNR.
func Regularization(snr float64) float64 {
	reg := 1 / (snr * snr)
	switch {
	case reg == 0:
		return math.SmallestNonzeroFloat64
	case math.IsInf(reg, 1):
		return math.MaxFloat64
	}
	return reg
}

// NewFilter builds the Wiener filter for the averaged MTF at the given SNR.
// The result is finite for every finite MTF, including all-zero regions,
// where the filter is exactly zero.
func NewFilter(avgMTF *mat.CDense, snr float64) (*mat.CDense, error) {
	if err := ValidateSNR(snr); err != nil {
		return nil, err
	}
	reg := Regularization(snr)

	return grid.Map(avgMTF, func(m complex128) complex128 {
		return gain(m, reg)
	}), nil
}

// gain evaluates conj(m)/(|m|² + reg) for one frequency. Numerator and
// denominator are scaled by the larger component of m so that |m|² cannot
// underflow or overflow on the way; |gain| never exceeds 1/(2·sqrt(reg)).
func gain(m complex128, reg float64) complex128 {
	re, im := real(m), imag(m)
	s := math.Max(math.Abs(re), math.Abs(im))
	if s == 0 {
		return 0
	}
	u, v := re/s, im/s
	denom := s*(u*u+v*v) + reg/s
	return complex(u/denom, -v/denom)
}

// Apply filters the spectrum of avgFrame with filter and returns the
// reconstructed image in the spatial domain.
func Apply(filter, avgFrame *mat.CDense) (*mat.CDense, error) {
	filtered, err := grid.Multiply(grid.FFT2(avgFrame), filter)
	if err != nil {
		return nil, fmt.Errorf("applying wiener filter: %w", err)
	}
	return grid.IFFT2(filtered), nil
}

// Deconvolve builds the filter from avgMTF and applies it to avgFrame.
// It returns both the filter and the reconstructed image.
func Deconvolve(avgMTF, avgFrame *mat.CDense, snr float64) (filter, reconstructed *mat.CDense, err error) {
	filter, err = NewFilter(avgMTF, snr)
	if err != nil {
		return nil, nil, err
	}
	reconstructed, err = Apply(filter, avgFrame)
	if err != nil {
		return nil, nil, err
	}
	return filter, reconstructed, nil
}
