// Package grid provides the 2D array helpers shared by every stage of the
// aperture synthesis pipeline. Real intensity arrays (scenes, pupil masks) are
// gonum *mat.Dense values and frequency-domain arrays (spectra, MTFs, frames,
// filters) are *mat.CDense values of the same shape.
package grid

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// ErrShapeMismatch is returned when two arrays that must be combined
// elementwise have different dimensions.
var ErrShapeMismatch = errors.New("array shapes differ")

// Shaped is satisfied by both mat.Matrix and mat.CMatrix.
type Shaped interface {
	Dims() (r, c int)
}

// SameShape reports whether a and b have identical dimensions.
func SameShape(a, b Shaped) bool {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	return ar == br && ac == bc
}

// CheckShape returns a wrapped ErrShapeMismatch naming both shapes when a and b
// differ, and nil otherwise.
func CheckShape(a, b Shaped) error {
	if SameShape(a, b) {
		return nil
	}
	ar, ac := a.Dims()
	br, bc := b.Dims()
	return fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, ar, ac, br, bc)
}

// FromReal lifts a real matrix into a new complex matrix with zero imaginary part.
func FromReal(m mat.Matrix) *mat.CDense {
	rows, cols := m.Dims()
	data := make([]complex128, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data[i*cols+j] = complex(m.At(i, j), 0)
		}
	}
	return mat.NewCDense(rows, cols, data)
}

// Clone returns a compact deep copy of m.
func Clone(m *mat.CDense) *mat.CDense {
	rows, cols := m.Dims()
	raw := m.RawCMatrix()
	data := make([]complex128, rows*cols)
	for i := 0; i < rows; i++ {
		copy(data[i*cols:(i+1)*cols], raw.Data[i*raw.Stride:i*raw.Stride+cols])
	}
	return mat.NewCDense(rows, cols, data)
}

// Map returns a new matrix whose elements are fn applied to the elements of m.
func Map(m *mat.CDense, fn func(v complex128) complex128) *mat.CDense {
	out := Clone(m)
	data := out.RawCMatrix().Data
	for k, v := range data {
		data[k] = fn(v)
	}
	return out
}

// Multiply returns the elementwise (Hadamard) product of a and b.
func Multiply(a, b *mat.CDense) (*mat.CDense, error) {
	if err := CheckShape(a, b); err != nil {
		return nil, err
	}
	rows, cols := a.Dims()
	out := mat.NewCDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, a.At(i, j)*b.At(i, j))
		}
	}
	return out, nil
}

// Magnitude returns |m| elementwise as a real matrix.
func Magnitude(m *mat.CDense) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, cmplx.Abs(m.At(i, j)))
		}
	}
	return out
}

// Values flattens a real matrix in row-major order.
func Values(m mat.Matrix) []float64 {
	rows, cols := m.Dims()
	out := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out = append(out, m.At(i, j))
		}
	}
	return out
}

// IsFinite reports whether every element of m has finite real and imaginary parts.
func IsFinite(m *mat.CDense) bool {
	for _, v := range m.RawCMatrix().Data {
		if math.IsNaN(real(v)) || math.IsInf(real(v), 0) ||
			math.IsNaN(imag(v)) || math.IsInf(imag(v), 0) {
			return false
		}
	}
	return true
}

// IsZero reports whether every element of m is within tol of zero.
func IsZero(m *mat.CDense, tol float64) bool {
	for _, v := range m.RawCMatrix().Data {
		if cmplx.Abs(v) > tol {
			return false
		}
	}
	return true
}
