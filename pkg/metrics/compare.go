package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"aperturesynth/pkg/grid"
)

// Report bundles the quality metrics of one comparison.
type Report struct {
	// Similarity is the histogram cosine similarity
	Similarity Similarity

	// RMSE is the root mean square intensity error
	RMSE float64

	// SSIM is the global structural similarity index
	SSIM float64

	// EntropyDiff is the absolute difference of the histogram entropies
	EntropyDiff float64

	// Original and Compared are the histograms the scores were computed from
	Original Histogram
	Compared Histogram
}

// Compare scores the magnitude of img against the original image. Both must
// have the same shape.
func Compare(original mat.Matrix, img *mat.CDense) (Report, error) {
	if err := grid.CheckShape(original, img); err != nil {
		return Report{}, err
	}

	orig := grid.Values(original)
	recon := grid.Values(grid.Magnitude(img))

	ho := NewHistogram(orig)
	hc := NewHistogram(recon)

	return Report{
		Similarity:  CosineSimilarity(ho, hc),
		RMSE:        RMSE(orig, recon),
		SSIM:        SSIM(orig, recon),
		EntropyDiff: math.Abs(ho.Entropy() - hc.Entropy()),
		Original:    ho,
		Compared:    hc,
	}, nil
}
