package imageio

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// createTestImage creates a grayscale image with the given pattern
func createTestImage(width, height int, pattern func(x, y int) uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: pattern(x, y)})
		}
	}
	return img
}

func TestToDense(t *testing.T) {
	img := createTestImage(3, 2, func(x, y int) uint8 { return uint8(10*x + 100*y) })

	m := ToDense(img)
	rows, cols := m.Dims()
	require.Equal(t, 2, rows)
	require.Equal(t, 3, cols)
	assert.Equal(t, 0.0, m.At(0, 0))
	assert.Equal(t, 20.0, m.At(0, 2))
	assert.Equal(t, 110.0, m.At(1, 1))
}

func TestToDenseOffsetBounds(t *testing.T) {
	img := image.NewGray(image.Rect(5, 5, 7, 6))
	img.SetGray(6, 5, color.Gray{Y: 42})

	m := ToDense(img)
	rows, cols := m.Dims()
	require.Equal(t, 1, rows)
	require.Equal(t, 2, cols)
	assert.Equal(t, 42.0, m.At(0, 1))
}

func TestToImageScalesMaximumToWhite(t *testing.T) {
	m := mat.NewDense(1, 4, []float64{0, 50, 100, -20})

	img := ToImage(m)
	assert.Equal(t, uint8(0), img.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(128), img.GrayAt(1, 0).Y)
	assert.Equal(t, uint8(255), img.GrayAt(2, 0).Y)
	assert.Equal(t, uint8(0), img.GrayAt(3, 0).Y, "negative values clip to black")
}

func TestToImageAllZero(t *testing.T) {
	img := ToImage(mat.NewDense(2, 2, nil))
	for _, p := range img.Pix {
		assert.Equal(t, uint8(0), p)
	}
}

func TestMagnitudeImage(t *testing.T) {
	c := mat.NewCDense(1, 2, []complex128{3 + 4i, -10})

	img := MagnitudeImage(c)
	assert.Equal(t, uint8(128), img.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), img.GrayAt(1, 0).Y)
}

// TestSaveAndLoad writes each supported format and reads it back
func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	img := createTestImage(8, 6, func(x, y int) uint8 { return uint8(30 * ((x + y) % 8)) })

	for _, name := range []string{"out.png", "out.tiff", filepath.Join("nested", "out.tif")} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(path, img), name)

		m, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, ToDense(img), m, name)
	}
}

func TestSaveAndLoadJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	img := createTestImage(16, 16, func(x, y int) uint8 { return 200 })
	require.NoError(t, Save(path, img))

	m, err := Load(path)
	require.NoError(t, err)
	rows, cols := m.Dims()
	assert.Equal(t, 16, rows)
	assert.Equal(t, 16, cols)
	// Lossy, but a flat image should survive almost unchanged
	assert.InDelta(t, 200, m.At(8, 8), 2)
}

func TestSaveUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bmp")
	assert.Error(t, Save(path, createTestImage(2, 2, func(x, y int) uint8 { return 0 })))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no file should be created for an unsupported format")
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0644))
	_, err = Load(garbage)
	assert.Error(t, err)
}

func TestSaveArrayAndMagnitude(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, SaveArray(filepath.Join(dir, "real.png"), mat.NewDense(2, 2, []float64{0, 1, 2, 4})))
	m, err := Load(filepath.Join(dir, "real.png"))
	require.NoError(t, err)
	assert.Equal(t, 255.0, m.At(1, 1))

	require.NoError(t, SaveMagnitude(filepath.Join(dir, "mag.png"), mat.NewCDense(1, 2, []complex128{0, 2i})))
	m, err = Load(filepath.Join(dir, "mag.png"))
	require.NoError(t, err)
	assert.Equal(t, 255.0, m.At(0, 1))
}
