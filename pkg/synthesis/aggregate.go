package synthesis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"aperturesynth/internal/models"
	"aperturesynth/pkg/grid"
)

// ErrNoSamples is returned when a mean is requested before anything was added.
var ErrNoSamples = errors.New("no samples accumulated")

// ErrIncompleteSample is returned when a sample is missing its MTF or frame.
var ErrIncompleteSample = errors.New("sample is missing its MTF or frame")

// Accumulator sums MTFs and frames so their elementwise means can be taken.
// The divisor of the mean is the number of Add calls that succeeded, so a
// skipped angle can never be averaged over a different count.
type Accumulator struct {
	mtfSum   *mat.CDense
	frameSum *mat.CDense
	count    int
}

// Add folds one MTF and its frame into the running sums.
func (a *Accumulator) Add(mtf, frame *mat.CDense) error {
	if mtf == nil || frame == nil {
		return ErrIncompleteSample
	}
	if err := grid.CheckShape(mtf, frame); err != nil {
		return fmt.Errorf("mtf and frame: %w", err)
	}

	if a.count == 0 {
		a.mtfSum = grid.Clone(mtf)
		a.frameSum = grid.Clone(frame)
		a.count = 1
		return nil
	}

	if err := grid.CheckShape(a.mtfSum, mtf); err != nil {
		return fmt.Errorf("sample %d: %w", a.count, err)
	}
	addInto(a.mtfSum, mtf)
	addInto(a.frameSum, frame)
	a.count++
	return nil
}

// Count returns the number of samples accumulated so far.
func (a *Accumulator) Count() int {
	return a.count
}

// Mean returns the elementwise means of the accumulated MTFs and frames.
func (a *Accumulator) Mean() (models.Averages, error) {
	if a.count == 0 {
		return models.Averages{}, ErrNoSamples
	}
	scale := complex(1/float64(a.count), 0)
	scaleBy := func(v complex128) complex128 { return v * scale }

	return models.Averages{
		MTF:   grid.Map(a.mtfSum, scaleBy),
		Frame: grid.Map(a.frameSum, scaleBy),
		Count: a.count,
	}, nil
}

// Average accumulates samples in order and returns their means.
func Average(samples []models.AngleSample) (models.Averages, error) {
	var acc Accumulator
	for _, s := range samples {
		if err := acc.Add(s.MTF, s.Frame); err != nil {
			return models.Averages{}, fmt.Errorf("angle %d (%.2f deg): %w", s.Index, s.Angle, err)
		}
	}
	return acc.Mean()
}

// addInto adds src to dst elementwise. Shapes are checked by the caller.
func addInto(dst, src *mat.CDense) {
	rows, cols := dst.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			dst.Set(i, j, dst.At(i, j)+src.At(i, j))
		}
	}
}
