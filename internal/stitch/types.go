package stitch

import "math"

// Rect is a rectangle in logical (CSS) pixels.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Capture is one viewport screenshot taken during a scroll sequence.
//
// Captures are produced in increasing scroll order and are not modified by
// the stitcher.
type Capture struct {
	// Data is the encoded image: raw PNG/JPEG/WebP bytes or a data URL.
	Data []byte

	// ViewportWidth and ViewportHeight are the viewport size at capture time
	// in logical pixels.
	ViewportWidth  float64
	ViewportHeight float64

	// ScrollY is the scroll offset, in logical pixels, at which the capture
	// was taken.
	ScrollY float64

	// Rect is the subject's bounding rectangle relative to the viewport at
	// capture time. It is only needed when the subject moves between
	// captures (ElementPageScroll); nil means "use the mode's bounds".
	Rect *Rect

	// Last marks the final capture of the sequence.
	Last bool
}

// ElementBounds locates an element target.
//
// For an internally scrolling element Height is the element's visible
// height; for an element moved by page scroll it is the element's full
// content height, which is also the height of the stitched output.
type ElementBounds struct {
	Width             float64 `json:"width"`
	Height            float64 `json:"height"`
	OffsetX           float64 `json:"offset_x"`
	OffsetY           float64 `json:"offset_y"`
	DevicePixelRatio  float64 `json:"device_pixel_ratio"`
	HasInternalScroll bool    `json:"has_internal_scroll"`
}

// RegionBounds is a fixed crop rectangle with its device pixel ratio.
type RegionBounds struct {
	Left             float64 `json:"left"`
	Top              float64 `json:"top"`
	Width            float64 `json:"width"`
	Height           float64 `json:"height"`
	DevicePixelRatio float64 `json:"device_pixel_ratio"`
}

// Rect returns the bounds without the device pixel ratio.
func (b RegionBounds) Rect() Rect {
	return Rect{Left: b.Left, Top: b.Top, Width: b.Width, Height: b.Height}
}

// normalizeRatio maps missing or sub-unit ratios to 1.
func normalizeRatio(dpr float64) float64 {
	if math.IsNaN(dpr) || math.IsInf(dpr, 0) || dpr < 1 {
		return 1
	}
	return dpr
}

// maxScaled bounds scaled lengths so sums of a few of them still fit in an
// int on every platform.
const maxScaled = 1 << 29

// scale converts a logical length to device pixels, saturating at
// ±maxScaled.
func scale(v, dpr float64) int {
	if math.IsNaN(v) {
		return 0
	}
	d := math.Round(v * dpr)
	switch {
	case d >= maxScaled:
		return maxScaled
	case d <= -maxScaled:
		return -maxScaled
	}
	return int(d)
}

// scaleOverlap is scale for overlap heights, which are never negative.
func scaleOverlap(v, dpr float64) int {
	return max(0, scale(v, dpr))
}
