package stitch

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// headerCompareHeight bounds the sticky-header comparison window, in
// logical pixels.
const headerCompareHeight = 200

// Cursor is the accumulator carried from one capture to the next.
type Cursor struct {
	// DestinationY is the next output row to write, in device pixels.
	DestinationY int `json:"destination_y"`

	// RowsDrawnWatermark is the number of subject content rows already
	// drawn. It only differs from DestinationY in ElementPageScroll mode,
	// where it counts element rows.
	RowsDrawnWatermark int `json:"rows_drawn_watermark"`
}

// DrawInstruction says which rows of a decoded capture to copy and where.
type DrawInstruction struct {
	Capture      int             `json:"capture"`
	Source       image.Rectangle `json:"source"`
	DestinationY int             `json:"destination_y"`
}

// Step is the resolved geometry of one capture.
type Step struct {
	Draw DrawInstruction `json:"draw"`

	// Skipped is set when the resolved source rectangle was empty. Nothing
	// is drawn and DestinationY does not advance.
	Skipped bool `json:"skipped"`

	Before Cursor `json:"before"`
	After  Cursor `json:"after"`
}

// Layout is the full draw plan of a stitch call.
type Layout struct {
	Mode string `json:"mode"`

	// Width and Height are the requested output size before sanitizing and
	// trimming.
	Width  int `json:"width"`
	Height int `json:"height"`

	HeaderHeight int    `json:"header_height"`
	Steps        []Step `json:"steps"`
	Final        Cursor `json:"final"`
}

// Drawn returns the number of captures that contribute rows.
func (l *Layout) Drawn() int {
	n := 0
	for _, s := range l.Steps {
		if !s.Skipped {
			n++
		}
	}
	return n
}

// Skipped returns the number of captures that contribute nothing.
func (l *Layout) Skipped() int {
	return len(l.Steps) - l.Drawn()
}

// geometry is the per-mode part of the resolver.
type geometry interface {
	// width is the output width in device pixels.
	width(captures []Capture, images []image.Image) int

	// allocHeight is the output height to allocate before trimming.
	allocHeight(captures []Capture, images []image.Image) int

	// limit caps DestinationY; 0 means no cap.
	limit() int

	// headerWindow is the region compared between the first two captures,
	// or false when the mode does not detect headers.
	headerWindow(captures []Capture, images []image.Image) (image.Rectangle, bool)

	// next resolves capture i. The returned rectangle is already clipped to
	// img; the int is the watermark the capture reaches.
	next(acc Cursor, i int, c Capture, img image.Image, header int) (image.Rectangle, int)
}

var errUnknownMode = errors.New("unknown stitching mode")

func newGeometry(mode Mode) (geometry, error) {
	switch m := mode.(type) {
	case WholePage:
		dpr := normalizeRatio(m.DevicePixelRatio)
		return &frameGeometry{
			overlap:      scaleOverlap(m.Overlap, dpr),
			dpr:          dpr,
			detectHeader: true,
			frame: func(_ Capture, bounds image.Rectangle) image.Rectangle {
				return bounds
			},
		}, nil

	case CustomContainer:
		dpr := normalizeRatio(m.DevicePixelRatio)
		container := deviceRect(m.Container, dpr)
		return &frameGeometry{
			overlap:      scaleOverlap(m.Overlap, dpr),
			dpr:          dpr,
			detectHeader: true,
			frame: func(_ Capture, _ image.Rectangle) image.Rectangle {
				return container
			},
		}, nil

	case ElementInternalScroll:
		dpr := normalizeRatio(m.Element.DevicePixelRatio)
		el := Rect{Left: m.Element.OffsetX, Top: m.Element.OffsetY, Width: m.Element.Width, Height: m.Element.Height}
		return &frameGeometry{
			overlap:      scaleOverlap(m.Overlap, dpr),
			dpr:          dpr,
			detectHeader: true,
			frame: func(c Capture, _ image.Rectangle) image.Rectangle {
				return deviceRect(captureRect(c, el), dpr)
			},
		}, nil

	case ElementPageScroll:
		return &pageScrollGeometry{
			el:  m.Element,
			dpr: normalizeRatio(m.Element.DevicePixelRatio),
		}, nil

	case NamedRegion:
		dpr := normalizeRatio(m.Crop.DevicePixelRatio)
		crop := deviceRect(m.Crop.Rect(), dpr)
		return &frameGeometry{
			overlap: scaleOverlap(m.Overlap, dpr),
			dpr:     dpr,
			frame: func(_ Capture, _ image.Rectangle) image.Rectangle {
				return crop
			},
		}, nil

	case nil:
		return nil, fmt.Errorf("%w: nil", errUnknownMode)
	default:
		return nil, fmt.Errorf("%w: %T", errUnknownMode, mode)
	}
}

// Resolve computes the draw plan for decoded captures.
//
// Captures are folded in order with a Cursor accumulator; each Step records
// the accumulator before and after the capture so callers can check that
// DestinationY never decreases. headerHeight is the sticky header to skip on
// every capture after the first (see DetectHeader).
func Resolve(captures []Capture, images []image.Image, mode Mode, headerHeight int) (*Layout, error) {
	if len(captures) == 0 {
		return nil, ErrEmptyInput
	}
	if len(images) != len(captures) {
		return nil, fmt.Errorf("got %d images for %d captures", len(images), len(captures))
	}
	g, err := newGeometry(mode)
	if err != nil {
		return nil, err
	}
	return resolve(g, mode.Name(), captures, images, max(0, headerHeight)), nil
}

func resolve(g geometry, name string, captures []Capture, images []image.Image, header int) *Layout {
	layout := &Layout{
		Mode:         name,
		Width:        g.width(captures, images),
		Height:       g.allocHeight(captures, images),
		HeaderHeight: header,
		Steps:        make([]Step, 0, len(captures)),
	}

	acc := Cursor{}
	for i, img := range images {
		src, watermark := g.next(acc, i, captures[i], img, header)

		if lim := g.limit(); lim > 0 && acc.DestinationY+src.Dy() > lim {
			src.Max.Y = src.Min.Y + max(0, lim-acc.DestinationY)
		}

		step := Step{
			Draw:   DrawInstruction{Capture: i, Source: src, DestinationY: acc.DestinationY},
			Before: acc,
		}

		after := acc
		if src.Dx() <= 0 || src.Dy() <= 0 {
			step.Skipped = true
			step.Draw.Source = image.Rectangle{}
		} else {
			after.DestinationY += src.Dy()
		}
		after.RowsDrawnWatermark = max(acc.RowsDrawnWatermark, watermark)

		step.After = after
		layout.Steps = append(layout.Steps, step)
		acc = after
	}

	layout.Final = acc
	return layout
}

// frameGeometry covers every mode in which each capture exposes the subject
// through a fixed frame and consecutive captures overlap by a fixed amount:
// whole page, custom container, internally scrolling element, named region.
type frameGeometry struct {
	overlap      int
	dpr          float64
	detectHeader bool
	frame        func(c Capture, bounds image.Rectangle) image.Rectangle
}

func (g *frameGeometry) frameOf(c Capture, img image.Image) image.Rectangle {
	b := img.Bounds()
	return g.frame(c, b).Intersect(b)
}

func (g *frameGeometry) width(captures []Capture, images []image.Image) int {
	return g.frameOf(captures[0], images[0]).Dx()
}

func (g *frameGeometry) allocHeight(captures []Capture, images []image.Image) int {
	total := 0
	for i, img := range images {
		h := g.frameOf(captures[i], img).Dy()
		if i > 0 {
			h -= g.overlap
		}
		total += max(0, h)
	}
	return total
}

func (g *frameGeometry) limit() int { return 0 }

func (g *frameGeometry) headerWindow(captures []Capture, images []image.Image) (image.Rectangle, bool) {
	if !g.detectHeader || len(images) < 2 {
		return image.Rectangle{}, false
	}
	f0 := g.frameOf(captures[0], images[0])
	f1 := g.frameOf(captures[1], images[1])
	h := min(scale(headerCompareHeight, g.dpr), f0.Dy(), f1.Dy())
	return rectXYWH(f0.Min.X, f0.Min.Y, f0.Dx(), h), h > 0
}

func (g *frameGeometry) next(acc Cursor, i int, c Capture, img image.Image, header int) (image.Rectangle, int) {
	f := g.frameOf(c, img)
	src := f
	if i > 0 {
		skip := g.overlap + header
		src = rectXYWH(f.Min.X, f.Min.Y+skip, f.Dx(), f.Dy()-skip).Intersect(f)
	}
	if src.Empty() {
		return image.Rectangle{}, acc.RowsDrawnWatermark
	}
	return src, acc.DestinationY + src.Dy()
}

// pageScrollGeometry tracks which element rows each capture exposes and
// draws only rows above the running watermark.
type pageScrollGeometry struct {
	el  ElementBounds
	dpr float64
}

func (g *pageScrollGeometry) elementRect(c Capture) image.Rectangle {
	el := Rect{Left: g.el.OffsetX, Top: g.el.OffsetY, Width: g.el.Width, Height: g.el.Height}
	return deviceRect(captureRect(c, el), g.dpr)
}

// totalRows is the element content height in device pixels, or MaxInt32
// when unknown.
func (g *pageScrollGeometry) totalRows() int {
	if total := scale(g.el.Height, g.dpr); total > 0 {
		return total
	}
	return math.MaxInt32
}

func (g *pageScrollGeometry) width(captures []Capture, images []image.Image) int {
	r := g.elementRect(captures[0])
	b := images[0].Bounds()
	return max(0, min(r.Max.X, b.Max.X)-max(r.Min.X, b.Min.X))
}

func (g *pageScrollGeometry) allocHeight(captures []Capture, images []image.Image) int {
	if total := scale(g.el.Height, g.dpr); total > 0 {
		return total
	}
	sum := 0
	for _, img := range images {
		sum += img.Bounds().Dy()
	}
	return sum
}

func (g *pageScrollGeometry) limit() int {
	return max(0, scale(g.el.Height, g.dpr))
}

// headerWindow compares the element's columns from viewport row 0, not from
// the element's visible top. A page-level fixed bar across the element is
// therefore detected as the header, and its height is skipped below the
// watermark on every capture after the first. Those element rows are hidden
// under the bar in the later captures anyway.
func (g *pageScrollGeometry) headerWindow(captures []Capture, images []image.Image) (image.Rectangle, bool) {
	if len(images) < 2 {
		return image.Rectangle{}, false
	}
	r := g.elementRect(captures[0])
	h := min(scale(headerCompareHeight, g.dpr), images[0].Bounds().Dy(), images[1].Bounds().Dy())
	return rectXYWH(r.Min.X, 0, r.Dx(), h), h > 0
}

func (g *pageScrollGeometry) next(acc Cursor, i int, c Capture, img image.Image, header int) (image.Rectangle, int) {
	r := g.elementRect(c)
	offsetY := r.Min.Y
	imageHeight := img.Bounds().Dy()

	rowStart := max(0, -offsetY)
	rowEnd := min(g.totalRows(), rowStart+(imageHeight-max(0, offsetY)))

	skip := max(0, acc.RowsDrawnWatermark-rowStart)
	if i > 0 {
		skip += header
	}

	srcY := max(0, offsetY) + skip
	height := (rowEnd - rowStart) - skip
	watermark := max(acc.RowsDrawnWatermark, rowEnd)

	src := rectXYWH(r.Min.X, srcY, r.Dx(), height).Intersect(img.Bounds())
	return src, watermark
}

// captureRect returns c.Rect when present, filling unset sizes from def.
func captureRect(c Capture, def Rect) Rect {
	if c.Rect == nil {
		return def
	}
	r := *c.Rect
	if r.Width <= 0 {
		r.Width = def.Width
	}
	if r.Height <= 0 {
		r.Height = def.Height
	}
	return r
}

// deviceRect scales a logical rectangle to device pixels. Unlike
// image.Rect it does not canonicalize, so a negative size stays empty.
func deviceRect(r Rect, dpr float64) image.Rectangle {
	return rectXYWH(scale(r.Left, dpr), scale(r.Top, dpr), scale(r.Width, dpr), scale(r.Height, dpr))
}

func rectXYWH(x, y, w, h int) image.Rectangle {
	return image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x+w, y+h)}
}
