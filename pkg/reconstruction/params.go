package reconstruction

import (
	"errors"
	"fmt"
	"runtime"

	"gonum.org/v1/gonum/mat"

	"aperturesynth/pkg/config"
	"aperturesynth/pkg/grid"
	"aperturesynth/pkg/pupil"
	"aperturesynth/pkg/wiener"
)

var (
	// ErrInvalidConfiguration is returned before any array work when the
	// parameters or required inputs are unusable.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrDimensionMismatch is returned before any array work when the scene
	// and the masks do not share one shape.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// Params holds the reconstruction parameters.
type Params struct {
	// NumAngles is the number of pupil rotations sampled over 0-180 degrees.
	NumAngles int

	// SNR is the assumed signal-to-noise ratio of the Wiener filter.
	// It must be a finite positive number.
	SNR float64

	// Interpolation is the kernel used to rotate the pupil mask.
	Interpolation pupil.Interpolation

	// NumWorkers specifies how many goroutines compute angles in parallel.
	// Zero means one per CPU core.
	NumWorkers int

	// Verbose prints progress for each pipeline step.
	Verbose bool
}

// ParamsFromConfig converts a loaded configuration into pipeline parameters.
func ParamsFromConfig(cfg *config.Config) (Params, error) {
	if err := cfg.Validate(); err != nil {
		return Params{}, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	interp, _ := pupil.ParseInterpolation(cfg.Synthesis.Interpolation)
	return Params{
		NumAngles:     cfg.Synthesis.NumAngles,
		SNR:           cfg.Synthesis.SNR,
		Interpolation: interp,
		NumWorkers:    cfg.Processing.NumWorkers,
		Verbose:       cfg.Output.Verbose,
	}, nil
}

// Validate rejects parameters that cannot drive a reconstruction.
func (p Params) Validate() error {
	if p.NumAngles <= 0 {
		return fmt.Errorf("%w: number of angles must be positive, got %d", ErrInvalidConfiguration, p.NumAngles)
	}
	if err := wiener.ValidateSNR(p.SNR); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	if p.NumWorkers < 0 {
		return fmt.Errorf("%w: number of workers must not be negative, got %d", ErrInvalidConfiguration, p.NumWorkers)
	}
	if p.Interpolation != "" {
		if _, err := pupil.ParseInterpolation(string(p.Interpolation)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
		}
	}
	return nil
}

// workers returns the number of goroutines to start for n angles.
func (p Params) workers(n int) int {
	w := p.NumWorkers
	if w == 0 {
		w = runtime.NumCPU()
	}
	if w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

func (p Params) interpolation() pupil.Interpolation {
	if p.Interpolation == "" {
		return pupil.DefaultInterpolation
	}
	return p.Interpolation
}

// Inputs are the arrays a reconstruction runs on. Baseline is optional.
type Inputs struct {
	// Scene is the grayscale image being observed
	Scene *mat.Dense

	// Mask is the non-circular pupil that is rotated
	Mask *mat.Dense

	// Baseline is the circular pupil used for the comparison image
	Baseline *mat.Dense
}

// Validate checks that the required arrays are present and that every mask
// has the scene's shape.
func (in Inputs) Validate() error {
	if in.Scene == nil || in.Scene.IsEmpty() {
		return fmt.Errorf("%w: scene image is required", ErrInvalidConfiguration)
	}
	if in.Mask == nil || in.Mask.IsEmpty() {
		return fmt.Errorf("%w: pupil mask is required", ErrInvalidConfiguration)
	}
	if err := grid.CheckShape(in.Scene, in.Mask); err != nil {
		return fmt.Errorf("%w: scene and pupil mask: %w", ErrDimensionMismatch, err)
	}
	if in.Baseline != nil {
		if in.Baseline.IsEmpty() {
			return fmt.Errorf("%w: baseline mask is empty", ErrInvalidConfiguration)
		}
		if err := grid.CheckShape(in.Scene, in.Baseline); err != nil {
			return fmt.Errorf("%w: scene and baseline mask: %w", ErrDimensionMismatch, err)
		}
	}
	return nil
}
