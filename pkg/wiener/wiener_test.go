package wiener

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"gonum.org/v1/gonum/mat"

	"aperturesynth/pkg/grid"
)

func TestValidateSNR(t *testing.T) {
	for _, snr := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := ValidateSNR(snr); !errors.Is(err, ErrInvalidSNR) {
			t.Errorf("ValidateSNR(%v) = %v, want ErrInvalidSNR", snr, err)
		}
	}
	for _, snr := range []float64{1e-300, 0.5, 1, 1000, 1e300} {
		if err := ValidateSNR(snr); err != nil {
			t.Errorf("ValidateSNR(%v) unexpected error: %v", snr, err)
		}
	}
}

func TestNewFilterRejectsZeroSNR(t *testing.T) {
	_, err := NewFilter(mat.NewCDense(2, 2, nil), 0)
	if !errors.Is(err, ErrInvalidSNR) {
		t.Fatalf("Expected ErrInvalidSNR, got %v", err)
	}
}

// TestNewFilterFormula compares against conj(M)/(|M|²+1/S²) on ordinary values
func TestNewFilterFormula(t *testing.T) {
	values := []complex128{1, 2 - 3i, -0.5i, 16, 1e-3 + 1e-3i}
	m := mat.NewCDense(1, len(values), values)
	snr := 10.0

	w, err := NewFilter(m, snr)
	if err != nil {
		t.Fatalf("NewFilter failed: %v", err)
	}

	for j, v := range values {
		abs2 := real(v)*real(v) + imag(v)*imag(v)
		want := cmplx.Conj(v) / complex(abs2+1/(snr*snr), 0)
		if cmplx.Abs(w.At(0, j)-want) > 1e-12*math.Max(1, cmplx.Abs(want)) {
			t.Errorf("W[%d] = %v, want %v", j, w.At(0, j), want)
		}
	}
}

// TestNewFilterFinite checks that the filter never produces NaN or Inf for any
// MTF magnitude and any positive SNR.
func TestNewFilterFinite(t *testing.T) {
	values := []complex128{
		0, 1e-320, complex(0, 1e-200), 1e-200 + 1e-200i, 1e-10, 1,
		1e10, complex(1e200, -1e200), complex(math.MaxFloat64, math.MaxFloat64),
	}
	m := mat.NewCDense(1, len(values), values)

	for _, snr := range []float64{1e-300, 1e-10, 1e-3, 1, 1e3, 1e10, 1e200, math.MaxFloat64} {
		w, err := NewFilter(m, snr)
		if err != nil {
			t.Fatalf("NewFilter(snr=%v) failed: %v", snr, err)
		}
		if !grid.IsFinite(w) {
			t.Errorf("Filter contains NaN or Inf at snr=%v: %v", snr, w.RawCMatrix().Data)
		}
	}
}

// TestNewFilterZeroMTF ensures an opaque aperture yields a zero filter
func TestNewFilterZeroMTF(t *testing.T) {
	w, err := NewFilter(mat.NewCDense(4, 4, nil), 1000)
	if err != nil {
		t.Fatalf("NewFilter failed: %v", err)
	}
	if !grid.IsZero(w, 0) {
		t.Error("Expected an all-zero filter for an all-zero MTF")
	}
}

func TestRegularization(t *testing.T) {
	if got := Regularization(10); math.Abs(got-0.01) > 1e-15 {
		t.Errorf("Regularization(10) = %v, want 0.01", got)
	}
	if got := Regularization(1e300); got <= 0 {
		t.Errorf("Regularization must stay positive, got %v", got)
	}
	if got := Regularization(1e-300); math.IsInf(got, 0) {
		t.Errorf("Regularization must stay finite, got %v", got)
	}
}

// TestDeconvolveAllPass recovers a uniform scene imaged through a fully open pupil
func TestDeconvolveAllPass(t *testing.T) {
	// All-pass MTF for a 4x4 open aperture is 16 everywhere; the frame is 16x the scene
	mtf := mat.NewCDense(4, 4, nil)
	frame := mat.NewCDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			mtf.Set(i, j, 16)
			frame.Set(i, j, 1600)
		}
	}

	_, img, err := Deconvolve(mtf, frame, 1000)
	if err != nil {
		t.Fatalf("Deconvolve failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if cmplx.Abs(img.At(i, j)-100) > 1e-3 {
				t.Errorf("Expected 100 at (%d,%d), got %v", i, j, img.At(i, j))
			}
		}
	}
}

func TestApplyShapeMismatch(t *testing.T) {
	_, err := Apply(mat.NewCDense(2, 2, nil), mat.NewCDense(3, 3, nil))
	if !errors.Is(err, grid.ErrShapeMismatch) {
		t.Fatalf("Expected ErrShapeMismatch, got %v", err)
	}
}
