package grid

import (
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
)

// FFT2 performs a 2D Fast Fourier Transform on the input array.
// This is the forward transform used for every frequency-domain step of the
// synthesis pipeline: pupil spectra, scene spectra and frame spectra.
//
// The transform is separable: gonum's complex FFT is applied to every row and
// then to every column. The forward transform is unnormalized.
//
// Parameters:
//   - m: Input array in the spatial domain
//
// Returns:
//   - A new array holding the 2D DFT of m
func FFT2(m *mat.CDense) *mat.CDense {
	return transform2D(m, true)
}

// IFFT2 performs the inverse 2D FFT and scales the result by 1/(rows*cols),
// so that IFFT2(FFT2(x)) == x up to rounding.
func IFFT2(m *mat.CDense) *mat.CDense {
	out := transform2D(m, false)
	rows, cols := out.Dims()
	scale := complex(1/float64(rows*cols), 0)
	raw := out.RawCMatrix()
	for i := 0; i < rows; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+cols]
		for j := range row {
			row[j] *= scale
		}
	}
	return out
}

// RealFFT2 is a convenience wrapper that lifts a real array to complex and
// returns its forward transform.
func RealFFT2(m mat.Matrix) *mat.CDense {
	return FFT2(FromReal(m))
}

// transform2D runs the row pass and then the column pass. Gonum transforms are
// unnormalized in both directions; callers apply the inverse scaling.
func transform2D(m *mat.CDense, forward bool) *mat.CDense {
	rows, cols := m.Dims()
	out := Clone(m)
	raw := out.RawCMatrix()

	rowFFT := fourier.NewCmplxFFT(cols)
	colFFT := fourier.NewCmplxFFT(rows)

	// Row-wise transform, in place on each row of the backing slice
	for i := 0; i < rows; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+cols]
		if forward {
			rowFFT.Coefficients(row, row)
		} else {
			rowFFT.Sequence(row, row)
		}
	}

	// Column-wise transform through a scratch buffer
	col := make([]complex128, rows)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			col[i] = raw.Data[i*raw.Stride+j]
		}
		if forward {
			colFFT.Coefficients(col, col)
		} else {
			colFFT.Sequence(col, col)
		}
		for i := 0; i < rows; i++ {
			raw.Data[i*raw.Stride+j] = col[i]
		}
	}

	return out
}
