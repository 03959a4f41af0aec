package pupil

import (
	"fmt"
	"image"
	"math"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/mat"
)

// Interpolation selects the resampling kernel used when rotating a mask.
type Interpolation string

const (
	Nearest    Interpolation = "nearest"
	Bilinear   Interpolation = "bilinear"
	CatmullRom Interpolation = "catmullrom"
)

// DefaultInterpolation matches a plain linear warp.
const DefaultInterpolation = Bilinear

// ParseInterpolation converts a configuration string into an Interpolation.
// An empty string selects DefaultInterpolation.
func ParseInterpolation(s string) (Interpolation, error) {
	switch Interpolation(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultInterpolation, nil
	case Nearest:
		return Nearest, nil
	case Bilinear:
		return Bilinear, nil
	case CatmullRom:
		return CatmullRom, nil
	}
	return "", fmt.Errorf("unknown interpolation %q (must be nearest, bilinear or catmullrom)", s)
}

func (i Interpolation) transformer() draw.Transformer {
	switch i {
	case Nearest:
		return draw.NearestNeighbor
	case CatmullRom:
		return draw.CatmullRom
	default:
		return draw.BiLinear
	}
}

// Rotate rotates mask counterclockwise by degrees about its centre pixel
// (cols/2, rows/2), keeping the original dimensions. Pixels that fall outside
// the rotated source are set to zero. Edge interpolation artifacts are left as is.
//
// A rotation by a whole number of turns returns an exact copy of the mask.
func Rotate(mask *mat.Dense, degrees float64, interp Interpolation) *mat.Dense {
	rows, cols := mask.Dims()
	if math.Mod(degrees, 360) == 0 {
		return mat.DenseCopyOf(mask)
	}

	src, peak := toGray16(mask)
	out := mat.NewDense(rows, cols, nil)
	if peak == 0 {
		return out
	}

	dst := image.NewGray16(src.Bounds())
	interp.transformer().Transform(dst, rotationMatrix(degrees, cols, rows), src, src.Bounds(), draw.Src, nil)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			out.Set(y, x, float64(dst.Gray16At(x, y).Y)/math.MaxUint16*peak)
		}
	}
	return out
}

// RotateAll returns one rotated copy of mask per angle, in AngleSet order.
func RotateAll(mask *mat.Dense, angles AngleSet, interp Interpolation) []*mat.Dense {
	rotated := make([]*mat.Dense, len(angles))
	for i, angle := range angles {
		rotated[i] = Rotate(mask, angle, interp)
	}
	return rotated
}

// rotationMatrix builds the source-to-destination affine transform for a
// counterclockwise rotation (y axis pointing down) about the centre pixel.
// x/image/draw samples at pixel centres, hence the half-pixel offset.
func rotationMatrix(degrees float64, width, height int) f64.Aff3 {
	theta := degrees * math.Pi / 180
	a, b := math.Cos(theta), math.Sin(theta)
	cx := float64(width/2) + 0.5
	cy := float64(height/2) + 0.5

	return f64.Aff3{
		a, b, (1-a)*cx - b*cy,
		-b, a, b*cx + (1-a)*cy,
	}
}

// toGray16 quantizes a non-negative mask onto a 16-bit gray raster scaled to
// the mask's own peak value. Negative samples are treated as opaque.
func toGray16(mask *mat.Dense) (*image.Gray16, float64) {
	rows, cols := mask.Dims()
	img := image.NewGray16(image.Rect(0, 0, cols, rows))

	peak := 0.0
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if v := mask.At(y, x); v > peak {
				peak = v
			}
		}
	}
	if peak == 0 {
		return img, 0
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := math.Max(0, mask.At(y, x)) / peak
			off := img.PixOffset(x, y)
			q := uint16(math.Round(v * math.MaxUint16))
			img.Pix[off] = uint8(q >> 8)
			img.Pix[off+1] = uint8(q)
		}
	}
	return img, peak
}
