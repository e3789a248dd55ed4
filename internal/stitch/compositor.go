package stitch

import (
	"fmt"
	"image"

	"github.com/ironsheep/page-stitch-mcp/internal/imaging"
)

// compose allocates the output surface for layout and draws every
// non-skipped step onto it. It returns the surface and the number of rows
// actually written.
func compose(layout *Layout, images []image.Image, maxDimension int) (*image.NRGBA, int, error) {
	first := images[0].Bounds()
	width := imaging.SanitizeDimensionMax(layout.Width, first.Dx(), maxDimension)
	height := imaging.SanitizeDimensionMax(layout.Height, first.Dy(), maxDimension)

	surface, err := imaging.NewSurface(width, height)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrSurfaceAllocation, err)
	}

	for _, step := range layout.Steps {
		if step.Skipped {
			continue
		}
		imaging.DrawRows(surface, images[step.Draw.Capture], step.Draw.Source, step.Draw.DestinationY)
	}

	return surface, min(layout.Final.DestinationY, height), nil
}

// trim returns a copy of surface holding only its first rows rows.
func trim(surface *image.NRGBA, rows int) (*image.NRGBA, error) {
	if rows <= 0 {
		return nil, fmt.Errorf("%w: no capture contributed any rows", ErrSurfaceAllocation)
	}
	return imaging.Crop(surface, image.Rect(0, 0, surface.Bounds().Dx(), rows)), nil
}
