// Package metrics compares an original image with its reconstruction.
//
// The primary score is the cosine similarity between the 256-bin intensity
// histograms of the two images. RMSE, a global SSIM and the entropy difference
// of the histograms are reported alongside it.
package metrics

import (
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Bins is the number of intensity bins in a Histogram.
const Bins = 256

// Histogram is a frequency distribution of pixel intensities. Bin k counts the
// samples that round to k, i.e. k-0.5 <= value < k+0.5.
type Histogram [Bins]float64

// dividers are the bin edges -0.5, 0.5, ..., 255.5
var dividers = floats.Span(make([]float64, Bins+1), -0.5, Bins-0.5)

// NewHistogram bins values into a Histogram. Values are clamped to [0, 255]
// before binning, so anything brighter than 255 lands in the top bin; NaN
// values are ignored.
func NewHistogram(values []float64) Histogram {
	x := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		x = append(x, math.Min(math.Max(v, 0), Bins-1))
	}
	sort.Float64s(x)

	var h Histogram
	stat.Histogram(h[:], dividers, x, nil)
	return h
}

// ImageHistogram returns the histogram of a real image.
func ImageHistogram(img mat.Matrix) Histogram {
	rows, cols := img.Dims()
	values := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			values = append(values, math.Abs(img.At(i, j)))
		}
	}
	return NewHistogram(values)
}

// MagnitudeHistogram returns the histogram of |img| for a complex image.
func MagnitudeHistogram(img *mat.CDense) Histogram {
	rows, cols := img.Dims()
	values := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			values = append(values, cmplx.Abs(img.At(i, j)))
		}
	}
	return NewHistogram(values)
}

// Total returns the number of samples counted in h.
func (h Histogram) Total() float64 {
	return floats.Sum(h[:])
}

// Entropy returns the Shannon entropy (in nats) of h normalized to a
// probability distribution, or 0 for an empty histogram.
func (h Histogram) Entropy() float64 {
	total := h.Total()
	if total == 0 {
		return 0
	}
	p := make([]float64, Bins)
	floats.ScaleTo(p, 1/total, h[:])
	return stat.Entropy(p)
}
