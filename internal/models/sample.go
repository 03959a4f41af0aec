package models

import (
	"gonum.org/v1/gonum/mat"

	"aperturesynth/pkg/metrics"
)

// AngleSample holds everything derived for one rotation angle of the pupil.
// Samples are stored in a slice ordered like the angle set and addressed by
// position, never by the floating-point angle value.
type AngleSample struct {
	// Index is the position of this sample in the angle set
	Index int

	// Angle is the pupil rotation in degrees
	Angle float64

	// Mask is the rotated pupil mask
	Mask *mat.Dense

	// MTF is the modulation transfer function estimated from Mask
	MTF *mat.CDense

	// Frame is the simulated spatial-domain observation through Mask
	Frame *mat.CDense
}

// Averages holds the per-pixel means over all angle samples
type Averages struct {
	// MTF is the mean modulation transfer function
	MTF *mat.CDense

	// Frame is the mean observed frame
	Frame *mat.CDense

	// Count is the number of samples that contributed to both means
	Count int
}

// Result is the output of one reconstruction run
type Result struct {
	// Samples holds the per-angle records in angle-set order
	Samples []AngleSample

	// Averages are the means over Samples
	Averages Averages

	// Filter is the Wiener filter built from the mean MTF
	Filter *mat.CDense

	// Reconstructed is the deconvolved image; its magnitude is displayed
	Reconstructed *mat.CDense

	// Baseline is the single-exposure circular-aperture image, or nil when no
	// circular mask was supplied
	Baseline *mat.CDense

	// BaselineGain is the DC gain of the circular-aperture MTF; dividing
	// Baseline by it restores the scene's brightness scale
	BaselineGain float64

	// SNR is the signal-to-noise ratio used for the Wiener filter
	SNR float64

	// Quality compares the original scene with Reconstructed
	Quality metrics.Report

	// BaselineQuality compares the original scene with the gain-normalized
	// Baseline, or is nil when there is no baseline
	BaselineQuality *metrics.Report
}
