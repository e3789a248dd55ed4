// Package stitch assembles one full-page or full-element image from a
// sequence of overlapping viewport captures.
//
// A stitch call decodes every capture, optionally detects a sticky header
// repeated at the top of each capture after the first, resolves for every
// capture the source rectangle to read and the destination row to write,
// draws the rectangles onto one output surface in capture order, trims any
// unused rows and encodes the result as PNG.
//
// # Modes
//
// The geometry of a call is selected by a Mode value:
//   - WholePage: captures of the whole viewport, differing only by scroll.
//   - CustomContainer: the scrolled region is a sub-element of the page;
//     every capture is read through the container rectangle.
//   - ElementInternalScroll: an element fixed in the viewport whose content
//     scrolls inside it.
//   - ElementPageScroll: an element that moves through the viewport as the
//     page scrolls; per-capture bounding rectangles locate it.
//   - NamedRegion: a fixed crop rectangle with a fixed overlap and no header
//     detection.
//
// Geometric inputs are logical (CSS) pixels and are scaled by the mode's
// device pixel ratio before being applied to decoded images.
//
// # Errors
//
// Fatal failures wrap one of ErrEmptyInput, ErrDecode, ErrSurfaceAllocation
// or ErrEncoding and never return partial output. Header detection failures
// and captures whose resolved rectangle is empty are absorbed.
package stitch
