package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// UndefinedScore is the Score reported when a similarity cannot be computed
// because one of the histograms is empty.
const UndefinedScore = 0.0

// Similarity is the result of a cosine comparison between two histograms.
type Similarity struct {
	// Score is dot(h1,h2)/(‖h1‖·‖h2‖) in [-1, 1], or UndefinedScore
	Score float64

	// Defined is false when either histogram has zero norm, for example the
	// histogram of an image with no samples
	Defined bool
}

// CosineSimilarity returns the cosine of the angle between h1 and h2 treated
// as 256-dimensional vectors. An all-zero histogram makes the ratio undefined;
// that case is reported through Defined instead of a NaN score.
func CosineSimilarity(h1, h2 Histogram) Similarity {
	n1 := floats.Norm(h1[:], 2)
	n2 := floats.Norm(h2[:], 2)
	if n1 == 0 || n2 == 0 {
		return Similarity{Score: UndefinedScore}
	}

	score := floats.Dot(h1[:], h2[:]) / (n1 * n2)
	// rounding can push a self-comparison just past 1
	score = math.Max(-1, math.Min(1, score))
	return Similarity{Score: score, Defined: true}
}

// RMSE computes the root mean square error between two equally long sample sets.
func RMSE(original, reconstructed []float64) float64 {
	n := len(original)
	if n != len(reconstructed) || n == 0 {
		return 0
	}
	return floats.Distance(original, reconstructed, 2) / math.Sqrt(float64(n))
}

// SSIM computes a single-window structural similarity index over the whole
// image with a dynamic range of 255.
func SSIM(original, reconstructed []float64) float64 {
	const (
		L  = 255.0
		k1 = 0.01
		k2 = 0.03
	)
	c1 := (k1 * L) * (k1 * L)
	c2 := (k2 * L) * (k2 * L)

	n := len(original)
	if n != len(reconstructed) || n == 0 {
		return 0
	}

	muX := stat.Mean(original, nil)
	muY := stat.Mean(reconstructed, nil)

	// sample variances are undefined for a single pixel
	var sigmaX, sigmaY, sigmaXY float64
	if n > 1 {
		sigmaX = stat.Variance(original, nil)
		sigmaY = stat.Variance(reconstructed, nil)
		sigmaXY = stat.Covariance(original, reconstructed, nil)
	}

	num := (2*muX*muY + c1) * (2*sigmaXY + c2)
	den := (muX*muX + muY*muY + c1) * (sigmaX + sigmaY + c2)
	if den > 0 {
		return num / den
	}
	return 0
}
