// Package visualization renders reconstruction results: the images
// themselves, a side-by-side comparison, per-angle intermediary images, a
// histogram plot and an interactive HTML report.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/mat"

	"aperturesynth/internal/models"
	"aperturesynth/pkg/imageio"
)

// Output file names written by SaveImages
const (
	ReconstructedFile = "reconstructed.png"
	BaselineFile      = "baseline.png"
	ComparisonFile    = "comparison.png"
)

// PanelGap is the width in pixels of the white separator between comparison
// panels.
const PanelGap = 4

// Viewer renders the result of one reconstruction run next to the scene it
// was computed from.
type Viewer struct {
	// scene is the original grayscale image
	scene *mat.Dense

	// result holds the reconstruction and its quality reports
	result *models.Result
}

// NewViewer creates a viewer for result. scene must be the image the result
// was reconstructed from.
func NewViewer(scene *mat.Dense, result *models.Result) *Viewer {
	return &Viewer{
		scene:  scene,
		result: result,
	}
}

// Panels returns the images shown in the comparison, left to right: the
// scene, the reconstruction and, when present, the circular-aperture baseline.
func (v *Viewer) Panels() []*image.Gray {
	panels := []*image.Gray{
		imageio.ToImage(v.scene),
		imageio.MagnitudeImage(v.result.Reconstructed),
	}
	if v.result.Baseline != nil {
		panels = append(panels, imageio.MagnitudeImage(v.result.Baseline))
	}
	return panels
}

// Comparison lays the panels out side by side.
func (v *Viewer) Comparison() *image.Gray {
	panels := v.Panels()
	imgs := make([]image.Image, len(panels))
	for i, p := range panels {
		imgs[i] = p
	}
	return SideBySide(PanelGap, imgs...)
}

// SideBySide places images left to right, top-aligned, separated by gap
// white columns. The result is as tall as the tallest image.
func SideBySide(gap int, imgs ...image.Image) *image.Gray {
	if gap < 0 {
		gap = 0
	}
	width, height := 0, 0
	for i, img := range imgs {
		b := img.Bounds()
		if i > 0 {
			width += gap
		}
		width += b.Dx()
		if b.Dy() > height {
			height = b.Dy()
		}
	}

	out := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	x := 0
	for _, img := range imgs {
		b := img.Bounds()
		draw.Draw(out, image.Rect(x, 0, x+b.Dx(), b.Dy()), img, b.Min, draw.Src)
		x += b.Dx() + gap
	}
	return out
}

// SaveImages writes the reconstruction, the baseline (if any) and the
// comparison image into dir.
func (v *Viewer) SaveImages(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := imageio.SaveMagnitude(filepath.Join(dir, ReconstructedFile), v.result.Reconstructed); err != nil {
		return fmt.Errorf("failed to save reconstruction: %w", err)
	}
	if v.result.Baseline != nil {
		if err := imageio.SaveMagnitude(filepath.Join(dir, BaselineFile), v.result.Baseline); err != nil {
			return fmt.Errorf("failed to save baseline: %w", err)
		}
	}
	if err := imageio.Save(filepath.Join(dir, ComparisonFile), v.Comparison()); err != nil {
		return fmt.Errorf("failed to save comparison: %w", err)
	}
	return nil
}

// SaveSampleSequence writes the rotated mask, MTF magnitude and frame
// magnitude of every angle sample into the masks, mtfs and frames
// subdirectories of dir, one numbered PNG per angle.
func (v *Viewer) SaveSampleSequence(dir string) error {
	for _, s := range v.result.Samples {
		if err := saveIntermediaryResult(dir, "masks", s.Index, s.Mask); err != nil {
			return err
		}
		if err := saveIntermediaryResult(dir, "mtfs", s.Index, s.MTF); err != nil {
			return err
		}
		if err := saveIntermediaryResult(dir, "frames", s.Index, s.Frame); err != nil {
			return err
		}
	}
	return nil
}

// saveIntermediaryResult saves one per-angle array under dir/stage.
func saveIntermediaryResult(dir, stage string, index int, data any) error {
	stageDir := filepath.Join(dir, stage)
	if err := os.MkdirAll(stageDir, 0755); err != nil {
		return fmt.Errorf("failed to create intermediary directory: %w", err)
	}
	filename := filepath.Join(stageDir, fmt.Sprintf("%03d.png", index))

	var err error
	switch d := data.(type) {
	case *mat.CDense:
		err = imageio.SaveMagnitude(filename, d)
	case mat.Matrix:
		err = imageio.SaveArray(filename, d)
	default:
		return fmt.Errorf("cannot save %T as an image", data)
	}
	if err != nil {
		return fmt.Errorf("failed to save %s %d: %w", stage, index, err)
	}
	return nil
}
