package stitch

import (
	"fmt"
	"image"

	"github.com/ironsheep/page-stitch-mcp/internal/imaging"
	"github.com/ironsheep/page-stitch-mcp/internal/logging"
)

// State is a stage of a stitch call.
type State int

const (
	// StateIdle is the state before a call starts.
	StateIdle State = iota
	// StateLoadingImages decodes every capture payload.
	StateLoadingImages
	// StateDetectingHeader measures the sticky header between the first two
	// captures.
	StateDetectingHeader
	// StateCompositing resolves the geometry and draws into the output.
	StateCompositing
	// StateTrimming cuts the output to the rows actually drawn.
	StateTrimming
	// StateEncoding encodes the output as PNG.
	StateEncoding
	// StateDone is terminal after success.
	StateDone
	// StateFailed is terminal after any error.
	StateFailed
)

var stateNames = [...]string{
	StateIdle:            "idle",
	StateLoadingImages:   "loading-images",
	StateDetectingHeader: "detecting-header",
	StateCompositing:     "compositing",
	StateTrimming:        "trimming",
	StateEncoding:        "encoding",
	StateDone:            "done",
	StateFailed:          "failed",
}

// String returns the hyphenated state name used in traces.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Result is the output of a stitch call.
type Result struct {
	// PNG is the encoded output image.
	PNG []byte

	// Width and Height are the output size in device pixels.
	Width  int
	Height int

	// HeaderHeight is the sticky header skipped on every capture after the
	// first, in device pixels.
	HeaderHeight int

	Drawn   int
	Skipped int

	// Layout is the resolved draw plan.
	Layout *Layout

	// Trace lists the states visited, from StateLoadingImages on.
	Trace []State
}

// Stitcher runs stitch calls. The zero value is ready to use.
//
// A Stitcher holds no per-call state and may be shared, but calls are
// CPU-bound and meant to run one at a time.
type Stitcher struct {
	// MaxDimension caps output width and height. Zero or values above
	// imaging.MaxDimension mean imaging.MaxDimension.
	MaxDimension int

	// OnTransition, when set, is called on every state change.
	OnTransition func(from, to State)
}

// New returns a Stitcher with default settings.
func New() *Stitcher {
	return &Stitcher{MaxDimension: imaging.MaxDimension}
}

// run tracks the state of one call.
type run struct {
	s     *Stitcher
	mode  string
	state State
	trace []State
}

func (r *run) to(next State) {
	logging.Debug("stitch %s: %s -> %s", r.mode, r.state, next)
	if r.s.OnTransition != nil {
		r.s.OnTransition(r.state, next)
	}
	r.state = next
	r.trace = append(r.trace, next)
}

func (r *run) fail(err error) error {
	r.to(StateFailed)
	logging.Error("stitch %s failed: %v", r.mode, err)
	return err
}

// Stitch assembles captures into one PNG using the geometry of mode.
//
// Returns ErrEmptyInput for no captures, ErrDecode when a payload cannot be
// decoded, ErrSurfaceAllocation when no output surface can be created, and
// ErrEncoding when PNG encoding fails. No partial output is returned.
func (s *Stitcher) Stitch(captures []Capture, mode Mode) (*Result, error) {
	name := "unknown"
	if mode != nil {
		name = mode.Name()
	}
	r := &run{s: s, mode: name}

	if len(captures) == 0 {
		return nil, r.fail(ErrEmptyInput)
	}
	g, err := newGeometry(mode)
	if err != nil {
		return nil, r.fail(err)
	}
	if !captures[len(captures)-1].Last {
		logging.Debug("stitch %s: final capture is not marked last", name)
	}

	r.to(StateLoadingImages)
	images, err := decodeAll(captures)
	if err != nil {
		return nil, r.fail(err)
	}

	header := 0
	if window, ok := g.headerWindow(captures, images); ok {
		r.to(StateDetectingHeader)
		header = imaging.DetectStickyHeader(images[0], images[1], window)
		if header > 0 {
			logging.Debug("stitch %s: sticky header of %dpx", name, header)
		}
	}

	r.to(StateCompositing)
	layout := resolve(g, name, captures, images, header)
	for _, step := range layout.Steps {
		if step.Skipped {
			logging.Debug("stitch %s: capture %d resolves to an empty rectangle, skipped", name, step.Draw.Capture)
		}
	}

	surface, rows, err := compose(layout, images, s.maxDimension())
	if err != nil {
		return nil, r.fail(err)
	}

	var out image.Image = surface
	if rows < surface.Bounds().Dy() {
		r.to(StateTrimming)
		trimmed, err := trim(surface, rows)
		if err != nil {
			return nil, r.fail(err)
		}
		out = trimmed
	}

	r.to(StateEncoding)
	data, err := imaging.EncodePNG(out)
	if err != nil {
		return nil, r.fail(fmt.Errorf("%w: %v", ErrEncoding, err))
	}

	r.to(StateDone)
	b := out.Bounds()
	return &Result{
		PNG:          data,
		Width:        b.Dx(),
		Height:       b.Dy(),
		HeaderHeight: header,
		Drawn:        layout.Drawn(),
		Skipped:      layout.Skipped(),
		Layout:       layout,
		Trace:        r.trace,
	}, nil
}

func (s *Stitcher) maxDimension() int {
	if s.MaxDimension <= 0 || s.MaxDimension > imaging.MaxDimension {
		return imaging.MaxDimension
	}
	return s.MaxDimension
}

// decodeAll decodes captures one at a time, stopping at the first failure.
func decodeAll(captures []Capture) ([]image.Image, error) {
	images := make([]image.Image, len(captures))
	for i, c := range captures {
		img, err := imaging.DecodePayload(c.Data)
		if err != nil {
			return nil, fmt.Errorf("%w %d: %v", ErrDecode, i, err)
		}
		images[i] = img
	}
	return images, nil
}

// DetectHeader runs sticky-header detection for mode over decoded images.
// Modes without header detection, or fewer than two images, yield 0.
func DetectHeader(captures []Capture, images []image.Image, mode Mode) int {
	if len(captures) < 2 || len(images) != len(captures) {
		return 0
	}
	g, err := newGeometry(mode)
	if err != nil {
		return 0
	}
	window, ok := g.headerWindow(captures, images)
	if !ok {
		return 0
	}
	return imaging.DetectStickyHeader(images[0], images[1], window)
}

// StitchFullPage stitches whole-viewport captures. overlapHeight is the
// fixed overlap between consecutive captures.
func (s *Stitcher) StitchFullPage(captures []Capture, overlapHeight float64) ([]byte, error) {
	return s.png(captures, WholePage{Overlap: overlapHeight})
}

// StitchContainer stitches captures of a custom scroll container. With
// useCustomContainer false, or no container bounds, it behaves like
// StitchFullPage. A zero devicePixelRatio means 1.
func (s *Stitcher) StitchContainer(captures []Capture, overlapHeight float64, useCustomContainer bool, container *Rect, devicePixelRatio float64) ([]byte, error) {
	if !useCustomContainer || container == nil {
		return s.png(captures, WholePage{Overlap: overlapHeight, DevicePixelRatio: devicePixelRatio})
	}
	return s.png(captures, CustomContainer{
		Overlap:          overlapHeight,
		Container:        *container,
		DevicePixelRatio: devicePixelRatio,
	})
}

// StitchElement stitches captures of an element, cropping each capture to
// the element. bounds.HasInternalScroll picks between the internal-scroll
// and page-scroll geometries.
func (s *Stitcher) StitchElement(captures []Capture, bounds ElementBounds, overlapHeight float64) ([]byte, error) {
	return s.png(captures, ElementMode(bounds, overlapHeight))
}

// StitchNamedRegion stitches a fixed crop rectangle out of every capture.
func (s *Stitcher) StitchNamedRegion(captures []Capture, crop RegionBounds, overlapHeight float64) ([]byte, error) {
	return s.png(captures, NamedRegion{Overlap: overlapHeight, Crop: crop})
}

func (s *Stitcher) png(captures []Capture, mode Mode) ([]byte, error) {
	res, err := s.Stitch(captures, mode)
	if err != nil {
		return nil, err
	}
	return res.PNG, nil
}

// StitchFullPage stitches whole-viewport captures with a default Stitcher.
func StitchFullPage(captures []Capture, overlapHeight float64) ([]byte, error) {
	return New().StitchFullPage(captures, overlapHeight)
}

// StitchContainer stitches a custom scroll container with a default Stitcher.
func StitchContainer(captures []Capture, overlapHeight float64, useCustomContainer bool, container *Rect, devicePixelRatio float64) ([]byte, error) {
	return New().StitchContainer(captures, overlapHeight, useCustomContainer, container, devicePixelRatio)
}

// StitchElement stitches an element with a default Stitcher.
func StitchElement(captures []Capture, bounds ElementBounds, overlapHeight float64) ([]byte, error) {
	return New().StitchElement(captures, bounds, overlapHeight)
}

// StitchNamedRegion stitches a fixed crop rectangle with a default Stitcher.
func StitchNamedRegion(captures []Capture, crop RegionBounds, overlapHeight float64) ([]byte, error) {
	return New().StitchNamedRegion(captures, crop, overlapHeight)
}
