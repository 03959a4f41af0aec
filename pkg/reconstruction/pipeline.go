// Package reconstruction runs the rotating-aperture synthesis pipeline.
//
// Parameters and input shapes are validated first; nothing is computed when
// they are rejected. The pipeline then consists of several steps:
// 1. Rotating the pupil mask over the angle set, estimating each rotation's
//    MTF and synthesizing its frame, in parallel
// 2. Averaging MTFs and frames over all angles
// 3. Wiener deconvolution of the averaged frame with the averaged MTF
// 4. Computing the circular-aperture baseline image
// 5. Calculating quality metrics against the original scene
//
// Every stage is a function of its inputs; the per-angle records are kept in a
// slice ordered like the angle set.
package reconstruction

import (
	"context"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"

	"aperturesynth/internal/models"
	"aperturesynth/pkg/metrics"
	"aperturesynth/pkg/mtf"
	"aperturesynth/pkg/pupil"
	"aperturesynth/pkg/synthesis"
	"aperturesynth/pkg/wiener"
)

// Run executes the complete reconstruction pipeline.
//
// Configuration and shape errors are returned before any array computation
// starts and wrap ErrInvalidConfiguration or ErrDimensionMismatch. A
// degenerate similarity score is not an error; it is reported through
// metrics.Similarity.Defined.
func Run(ctx context.Context, in Inputs, p Params) (*models.Result, error) {
	// Validate everything up front
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	angles, err := pupil.NewAngleSet(p.NumAngles)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	rows, cols := in.Scene.Dims()
	p.logf("Reconstructing %dx%d scene from %d pupil rotations (SNR %g)\n", cols, rows, len(angles), p.SNR)

	// Step 1: Per-angle masks, MTFs and frames
	p.logln("Step 1: Synthesizing frames for each pupil rotation...")
	spectrum := synthesis.Spectrum(in.Scene)
	samples, err := ComputeSamples(ctx, spectrum, in.Mask, angles, p)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize frames: %w", err)
	}

	// Step 2: Average over every sample that was produced
	p.logln("Step 2: Averaging MTFs and frames...")
	avg, err := synthesis.Average(samples)
	if err != nil {
		return nil, fmt.Errorf("failed to average samples: %w", err)
	}
	if avg.Count != len(angles) {
		return nil, fmt.Errorf("averaged %d samples but the angle set has %d", avg.Count, len(angles))
	}

	// Step 3: Wiener deconvolution
	p.logln("Step 3: Applying Wiener deconvolution...")
	filter, reconstructed, err := wiener.Deconvolve(avg.MTF, avg.Frame, p.SNR)
	if err != nil {
		return nil, fmt.Errorf("failed to deconvolve: %w", err)
	}

	result := &models.Result{
		Samples:       samples,
		Averages:      avg,
		Filter:        filter,
		Reconstructed: reconstructed,
		SNR:           p.SNR,
	}

	// Step 4: Circular-aperture baseline
	if in.Baseline != nil {
		p.logln("Step 4: Computing circular aperture baseline...")
		baseline, gain, err := Baseline(in.Scene, in.Baseline)
		if err != nil {
			return nil, fmt.Errorf("failed to compute baseline: %w", err)
		}
		result.Baseline = baseline
		result.BaselineGain = gain
	}

	// Step 5: Quality metrics
	p.logln("Step 5: Calculating quality metrics...")
	if err := evaluate(in.Scene, result); err != nil {
		return nil, fmt.Errorf("failed to calculate metrics: %w", err)
	}

	return result, nil
}

// ComputeSamples rotates mask to every angle and derives the MTF and frame for
// each rotation. Angles are distributed over a pool of goroutines; each worker
// writes only its own slot of the returned slice, which is ordered like angles.
func ComputeSamples(ctx context.Context, sceneSpectrum *mat.CDense, mask *mat.Dense, angles pupil.AngleSet, p Params) ([]models.AngleSample, error) {
	samples := make([]models.AngleSample, len(angles))
	interp := p.interpolation()

	type sampleResult struct {
		index int
		err   error
	}
	jobs := make(chan int)
	results := make(chan sampleResult)

	var wg sync.WaitGroup
	for w := 0; w < p.workers(len(angles)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				sample, err := computeSample(i, angles[i], sceneSpectrum, mask, interp)
				if err == nil {
					samples[i] = sample
				}
				results <- sampleResult{index: i, err: err}
			}
		}()
	}

	// Feed angle indices until done or cancelled
	go func() {
		defer close(jobs)
		for i := range angles {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results
	completed := 0
	var firstErr error
	for res := range results {
		completed++
		if res.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("angle %d (%.2f deg): %w", res.index, angles[res.index], res.err)
		}
		if p.Verbose {
			fmt.Printf("\rProcessing rotations: %.1f%% complete", float64(completed)/float64(len(angles))*100)
		}
	}
	p.logln()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if completed != len(angles) {
		return nil, fmt.Errorf("computed %d of %d angles", completed, len(angles))
	}
	return samples, nil
}

// computeSample produces the record for one rotation angle.
func computeSample(index int, angle float64, sceneSpectrum *mat.CDense, mask *mat.Dense, interp pupil.Interpolation) (models.AngleSample, error) {
	rotated := pupil.Rotate(mask, angle, interp)
	m := mtf.Estimate(rotated)
	frame, err := synthesis.Synthesize(sceneSpectrum, m)
	if err != nil {
		return models.AngleSample{}, err
	}
	return models.AngleSample{
		Index: index,
		Angle: angle,
		Mask:  rotated,
		MTF:   m,
		Frame: frame,
	}, nil
}

// evaluate fills in the quality reports of result.
func evaluate(scene *mat.Dense, result *models.Result) error {
	report, err := metrics.Compare(scene, result.Reconstructed)
	if err != nil {
		return err
	}
	result.Quality = report

	if result.Baseline == nil {
		return nil
	}
	baselineReport, err := metrics.Compare(scene, NormalizeGain(result.Baseline, result.BaselineGain))
	if err != nil {
		return err
	}
	result.BaselineQuality = &baselineReport
	return nil
}

func (p Params) logln(a ...any) {
	if p.Verbose {
		fmt.Println(a...)
	}
}

func (p Params) logf(format string, a ...any) {
	if p.Verbose {
		fmt.Printf(format, a...)
	}
}
