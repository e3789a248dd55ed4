package locate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/page-stitch-mcp/internal/stitch"
)

// ErrInvalidPage is returned for snapshots without a usable viewport.
var ErrInvalidPage = errors.New("invalid page snapshot")

// Element is one candidate element of a page snapshot. Sizes are logical
// pixels; BoundingRect is relative to the viewport.
type Element struct {
	Selector       string            `json:"selector"`
	Tag            string            `json:"tag"`
	ID             string            `json:"id"`
	Classes        []string          `json:"classes"`
	Role           string            `json:"role,omitempty"`
	ComputedStyles map[string]string `json:"computed_styles"`
	BoundingRect   stitch.Rect       `json:"bounding_rect"`
	ScrollHeight   float64           `json:"scroll_height"`
	ClientHeight   float64           `json:"client_height"`
}

// Style returns a computed style value, lower-cased and trimmed.
func (e Element) Style(name string) string {
	return strings.ToLower(strings.TrimSpace(e.ComputedStyles[name]))
}

// HasClass reports whether the element carries class c.
func (e Element) HasClass(c string) bool {
	for _, have := range e.Classes {
		if have == c {
			return true
		}
	}
	return false
}

// Scrollable reports whether the element scrolls its own content vertically.
func (e Element) Scrollable() bool {
	switch e.Style("overflow-y") {
	case "auto", "scroll", "overlay":
	default:
		return false
	}
	// sub-pixel rounding in browsers leaves a 1px difference on
	// non-scrolling boxes
	return e.ScrollHeight > e.ClientHeight+1
}

// Page is a snapshot of the page about to be captured.
type Page struct {
	URL              string    `json:"url"`
	ViewportWidth    float64   `json:"viewport_width"`
	ViewportHeight   float64   `json:"viewport_height"`
	DevicePixelRatio float64   `json:"device_pixel_ratio"`
	DocumentHeight   float64   `json:"document_height"`
	Elements         []Element `json:"elements"`
}

// Viewport returns the viewport rectangle.
func (p *Page) Viewport() stitch.Rect {
	return stitch.Rect{Width: p.ViewportWidth, Height: p.ViewportHeight}
}

// Validate checks that the snapshot has a viewport.
func (p *Page) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil", ErrInvalidPage)
	}
	if !(p.ViewportWidth > 0) || !(p.ViewportHeight > 0) {
		return fmt.Errorf("%w: viewport %gx%g", ErrInvalidPage, p.ViewportWidth, p.ViewportHeight)
	}
	return nil
}

// ParsePage decodes a JSON page snapshot.
func ParsePage(data []byte) (*Page, error) {
	var p Page
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse page snapshot: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// visibleArea is the area of r inside the viewport.
func (p *Page) visibleArea(r stitch.Rect) float64 {
	w := min(r.Left+r.Width, p.ViewportWidth) - max(r.Left, 0)
	h := min(r.Top+r.Height, p.ViewportHeight) - max(r.Top, 0)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}
