package locate

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/page-stitch-mcp/internal/stitch"
)

// Kind is the kind of scroll subject.
type Kind int

const (
	KindDocument Kind = iota
	KindContainer
	KindElement
)

var kindNames = [...]string{
	KindDocument:  "document",
	KindContainer: "container",
	KindElement:   "element",
}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalJSON encodes the kind by name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Subject is the located scroll subject.
type Subject struct {
	Kind Kind `json:"kind"`

	// Locator names the strategy that produced the subject.
	Locator  string `json:"locator"`
	Selector string `json:"selector,omitempty"`

	// Bounds is the subject rectangle in the viewport, logical pixels.
	Bounds stitch.Rect `json:"bounds"`

	DevicePixelRatio float64 `json:"device_pixel_ratio"`

	// ScrollHeight is the full content height of the subject.
	ScrollHeight float64 `json:"scroll_height"`

	// InternalScroll is set for elements whose content scrolls inside a
	// box that stays put.
	InternalScroll bool `json:"internal_scroll"`

	Confidence float64 `json:"confidence"`
}

// Mode returns the stitching mode for captures of the subject.
func (s Subject) Mode(overlap float64) stitch.Mode {
	switch s.Kind {
	case KindContainer:
		return stitch.CustomContainer{
			Overlap:          overlap,
			Container:        s.Bounds,
			DevicePixelRatio: s.DevicePixelRatio,
		}
	case KindElement:
		height := s.ScrollHeight
		if s.InternalScroll || height <= 0 {
			height = s.Bounds.Height
		}
		return stitch.ElementMode(stitch.ElementBounds{
			Width:             s.Bounds.Width,
			Height:            height,
			OffsetX:           s.Bounds.Left,
			OffsetY:           s.Bounds.Top,
			DevicePixelRatio:  s.DevicePixelRatio,
			HasInternalScroll: s.InternalScroll,
		}, overlap)
	default:
		return stitch.WholePage{Overlap: overlap, DevicePixelRatio: s.DevicePixelRatio}
	}
}
