package grid

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	dspfft "github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/mat"
)

// parts splits complex values into interleaved real/imaginary floats so they
// can be compared with cmpopts.EquateApprox.
func parts(values []complex128) []float64 {
	out := make([]float64, 0, 2*len(values))
	for _, v := range values {
		out = append(out, real(v), imag(v))
	}
	return out
}

func rowsOf(m *mat.CDense) [][]complex128 {
	rows, cols := m.Dims()
	out := make([][]complex128, rows)
	for i := range out {
		out[i] = make([]complex128, cols)
		for j := range out[i] {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}

func flatten(rows [][]complex128) []complex128 {
	var out []complex128
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}

func testPattern(rows, cols int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, math.Sin(float64(i*cols+j))*100+float64(i))
		}
	}
	return m
}

// TestFFT2MatchesReference checks the gonum-based transform against go-dsp on
// square, rectangular and odd-sized inputs.
func TestFFT2MatchesReference(t *testing.T) {
	shapes := [][2]int{{4, 4}, {3, 5}, {8, 6}, {1, 7}, {1, 1}}
	opt := cmpopts.EquateApprox(1e-9, 1e-6)

	for _, shape := range shapes {
		input := FromReal(testPattern(shape[0], shape[1]))
		got := FFT2(input)
		want := dspfft.FFT2(rowsOf(input))

		if diff := cmp.Diff(parts(flatten(want)), parts(flatten(rowsOf(got))), opt); diff != "" {
			t.Errorf("FFT2 %dx%d mismatch (-want +got):\n%s", shape[0], shape[1], diff)
		}

		gotInv := IFFT2(input)
		wantInv := dspfft.IFFT2(rowsOf(input))
		if diff := cmp.Diff(parts(flatten(wantInv)), parts(flatten(rowsOf(gotInv))), opt); diff != "" {
			t.Errorf("IFFT2 %dx%d mismatch (-want +got):\n%s", shape[0], shape[1], diff)
		}
	}
}

// TestRoundTrip verifies IFFT2(FFT2(x)) == x
func TestRoundTrip(t *testing.T) {
	input := FromReal(testPattern(6, 10))
	back := IFFT2(FFT2(input))

	opt := cmpopts.EquateApprox(1e-9, 1e-6)
	if diff := cmp.Diff(parts(flatten(rowsOf(input))), parts(flatten(rowsOf(back))), opt); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// TestFFT2DoesNotMutateInput ensures transforms return new arrays
func TestFFT2DoesNotMutateInput(t *testing.T) {
	input := FromReal(testPattern(4, 4))
	before := Clone(input)
	_ = FFT2(input)
	_ = IFFT2(input)

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if input.At(i, j) != before.At(i, j) {
				t.Fatalf("input modified at (%d,%d)", i, j)
			}
		}
	}
}

// TestFFT2Constant checks that a constant array has all of its energy at DC
func TestFFT2Constant(t *testing.T) {
	m := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			m.Set(i, j, 100)
		}
	}

	spectrum := RealFFT2(m)
	if cmplx.Abs(spectrum.At(0, 0)-1600) > 1e-9 {
		t.Errorf("Expected DC=1600, got %v", spectrum.At(0, 0))
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if i == 0 && j == 0 {
				continue
			}
			if cmplx.Abs(spectrum.At(i, j)) > 1e-9 {
				t.Errorf("Expected zero at (%d,%d), got %v", i, j, spectrum.At(i, j))
			}
		}
	}
}
