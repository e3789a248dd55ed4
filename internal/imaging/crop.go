package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// MaxSurfaceArea is the largest pixel count a single surface may hold.
const MaxSurfaceArea = 16384 * 16384

// NewSurface allocates a transparent output surface.
func NewSurface(width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("surface %dx%d exceeds maximum dimension %d", width, height, MaxDimension)
	}
	if int64(width)*int64(height) > MaxSurfaceArea {
		return nil, fmt.Errorf("surface %dx%d exceeds maximum area of %d pixels", width, height, MaxSurfaceArea)
	}
	return imaging.New(width, height, color.Transparent), nil
}

// Crop returns a copy of the part of img inside rect. The rectangle is
// clipped to the image bounds first; the result starts at (0,0) and may be
// smaller than requested. An empty intersection yields an empty image.
func Crop(img image.Image, rect image.Rectangle) *image.NRGBA {
	return imaging.Crop(img, rect.Intersect(img.Bounds()))
}

// DrawRows copies src's rect onto dst with its top-left corner at (0, destY).
// Pixels falling outside dst are dropped.
func DrawRows(dst *image.NRGBA, src image.Image, rect image.Rectangle, destY int) {
	target := image.Rect(0, destY, rect.Dx(), destY+rect.Dy())
	draw.Draw(dst, target, src, rect.Min, draw.Src)
}

// EncodePNG encodes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
