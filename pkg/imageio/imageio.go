// Package imageio converts between image files and the float arrays the
// reconstruction works on.
//
// Images are read as 8-bit grayscale, so every loaded array holds intensities
// in [0, 255]. Arrays are written back by scaling their maximum to white.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
	"gonum.org/v1/gonum/mat"

	"aperturesynth/pkg/grid"
)

// Load reads a PNG, JPEG or TIFF file as a grayscale array.
func Load(path string) (*mat.Dense, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return ToDense(img), nil
}

// ToDense converts img to an array of 8-bit gray levels. Row i of the result
// is the image row at Min.Y+i.
func ToDense(img image.Image) *mat.Dense {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return &mat.Dense{}
	}

	data := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			data[y*width+x] = float64(g.Y)
		}
	}
	return mat.NewDense(height, width, data)
}

// ToImage renders m as an 8-bit grayscale image, mapping 0 to black and the
// maximum of m to white. Negative values are clipped to black. An array with
// no positive value renders black.
func ToImage(m mat.Matrix) *image.Gray {
	rows, cols := m.Dims()
	img := image.NewGray(image.Rect(0, 0, cols, rows))

	maxVal := math.Inf(-1)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := m.At(i, j); v > maxVal {
				maxVal = v
			}
		}
	}
	if !(maxVal > 0) || math.IsInf(maxVal, 1) {
		return img
	}

	scale := 255 / maxVal
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := math.Max(0, m.At(i, j)*scale)
			img.SetGray(j, i, color.Gray{Y: uint8(math.Min(255, math.Round(v)))})
		}
	}
	return img
}

// MagnitudeImage renders the magnitude of a complex array.
func MagnitudeImage(c *mat.CDense) *image.Gray {
	return ToImage(grid.Magnitude(c))
}

// Save writes img to path, creating parent directories. The encoder is chosen
// by extension: .png, .jpg/.jpeg or .tif/.tiff.
func Save(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
	default:
		return fmt.Errorf("unsupported image format %q", ext)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer file.Close()

	switch ext {
	case ".png":
		err = png.Encode(file, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
	default:
		err = tiff.Encode(file, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	}
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// SaveArray renders m with ToImage and writes it to path.
func SaveArray(path string, m mat.Matrix) error {
	return Save(path, ToImage(m))
}

// SaveMagnitude renders |c| with MagnitudeImage and writes it to path.
func SaveMagnitude(path string, c *mat.CDense) error {
	return Save(path, MagnitudeImage(c))
}
