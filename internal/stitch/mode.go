package stitch

// Mode selects the stitching geometry. It is one of WholePage,
// CustomContainer, ElementInternalScroll, ElementPageScroll or NamedRegion.
type Mode interface {
	// Name is a short identifier used in logs and results.
	Name() string

	isMode()
}

// WholePage stitches captures of the full viewport. Overlap is in logical
// pixels and is scaled by DevicePixelRatio (1 when unset).
type WholePage struct {
	Overlap          float64
	DevicePixelRatio float64
}

// CustomContainer stitches a scrolling sub-element of the page. Every capture
// is read through Container, scaled by DevicePixelRatio.
type CustomContainer struct {
	Overlap          float64
	Container        Rect
	DevicePixelRatio float64
}

// ElementInternalScroll stitches an element that stays put while its content
// scrolls.
type ElementInternalScroll struct {
	Overlap float64
	Element ElementBounds
}

// ElementPageScroll stitches an element that moves with the page. Each
// capture's Rect, when set, gives the element position for that capture.
// Overlap is not used; the actual overlap is derived from the positions.
type ElementPageScroll struct {
	Overlap float64
	Element ElementBounds
}
// NamedRegion stitches a fixed crop rectangle with a fixed overlap and no
// header detection.
type NamedRegion struct {
	Overlap float64
	Crop    RegionBounds
}

// Name returns "whole-page".
func (WholePage) Name() string { return "whole-page" }

// Name returns "custom-container".
func (CustomContainer) Name() string { return "custom-container" }

// Name returns "element-internal-scroll".
func (ElementInternalScroll) Name() string { return "element-internal-scroll" }

// Name returns "element-page-scroll".
func (ElementPageScroll) Name() string { return "element-page-scroll" }

// Name returns "named-region".
func (NamedRegion) Name() string { return "named-region" }

func (WholePage) isMode()             {}
func (CustomContainer) isMode()       {}
func (ElementInternalScroll) isMode() {}
func (ElementPageScroll) isMode()     {}
func (NamedRegion) isMode()           {}

// ElementMode picks the element mode matching bounds.HasInternalScroll.
func ElementMode(bounds ElementBounds, overlap float64) Mode {
	if bounds.HasInternalScroll {
		return ElementInternalScroll{Overlap: overlap, Element: bounds}
	}
	return ElementPageScroll{Overlap: overlap, Element: bounds}
}
