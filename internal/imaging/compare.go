package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
)

const (
	// PixelDiffThreshold is the summed |dR|+|dG|+|dB| above which two pixels
	// count as different. Alpha is ignored.
	PixelDiffThreshold = 30

	// RowMismatchRatio is the fraction of differing pixels at or above which
	// a row no longer counts as matching.
	RowMismatchRatio = 0.05

	// MinHeaderHeight is the shortest matching run accepted as a header.
	MinHeaderHeight = 20
)

// DetectStickyHeader finds a fixed header repeated at the top of two captures.
//
// The same window is cropped from both images and compared row by row from
// the top. The result is the length of the leading run of near-identical
// rows, accepted only when it is at least MinHeaderHeight and strictly
// shorter than the window; otherwise 0.
//
// Parameters:
//   - first: The earlier capture (its header has already been drawn).
//   - second: The later capture to test for the repeated header.
//   - window: Region to compare, in device pixels. It is clipped to the
//     bounds of both images; its clipped height is the compared height.
//
// Returns the header height in device pixels, or 0 when no header is found.
// Any failure to crop or compare yields 0 rather than an error.
func DetectStickyHeader(first, second image.Image, window image.Rectangle) (height int) {
	if first == nil || second == nil {
		return 0
	}
	defer func() {
		if recover() != nil {
			height = 0
		}
	}()

	window = window.Intersect(first.Bounds()).Intersect(second.Bounds())
	if window.Empty() {
		return 0
	}

	a := transform.Crop(first, window)
	b := transform.Crop(second, window)
	if a.Bounds().Size() != b.Bounds().Size() {
		return 0
	}

	run := MatchingRowRun(a, b)
	if run < MinHeaderHeight || run >= window.Dy() {
		return 0
	}
	return run
}

// MatchingRowRun returns the number of leading rows of a and b that match.
//
// A pixel differs when the sum of its absolute R, G and B differences exceeds
// PixelDiffThreshold. A row matches when fewer than RowMismatchRatio of its
// pixels differ. Scanning stops at the first row that does not match. Only
// the overlapping width and height of the two images are compared.
func MatchingRowRun(a, b *image.RGBA) int {
	ab, bb := a.Bounds(), b.Bounds()
	width := min(ab.Dx(), bb.Dx())
	height := min(ab.Dy(), bb.Dy())
	if width <= 0 || height <= 0 {
		return 0
	}

	maxDiffering := float64(width) * RowMismatchRatio

	for y := 0; y < height; y++ {
		ia := a.PixOffset(ab.Min.X, ab.Min.Y+y)
		ib := b.PixOffset(bb.Min.X, bb.Min.Y+y)
		differing := 0
		for x := 0; x < width; x++ {
			pa := a.Pix[ia : ia+4 : ia+4]
			pb := b.Pix[ib : ib+4 : ib+4]
			diff := absDiff(pa[0], pb[0]) + absDiff(pa[1], pb[1]) + absDiff(pa[2], pb[2])
			if diff > PixelDiffThreshold {
				differing++
			}
			ia += 4
			ib += 4
		}
		if float64(differing) >= maxDiffering {
			return y
		}
	}
	return height
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
