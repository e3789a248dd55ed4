package locate

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/ironsheep/page-stitch-mcp/internal/logging"
)

// ErrNoSubject is returned when no locator matches.
var ErrNoSubject = errors.New("no scroll subject found")

// Locator is one strategy for finding the scroll subject of a page.
type Locator interface {
	// Name identifies the strategy in subjects and logs.
	Name() string

	// Detect returns the subject the strategy finds on page, or false.
	Detect(page *Page) (Subject, bool)
}

// DocumentLocator matches when the document itself scrolls.
type DocumentLocator struct{}

// Name returns "document".
func (DocumentLocator) Name() string { return "document" }

// Detect matches when the document is taller than the viewport.
func (l DocumentLocator) Detect(page *Page) (Subject, bool) {
	if page.DocumentHeight <= page.ViewportHeight {
		return Subject{}, false
	}
	return Subject{
		Kind:             KindDocument,
		Locator:          l.Name(),
		Bounds:           page.Viewport(),
		DevicePixelRatio: page.DevicePixelRatio,
		ScrollHeight:     page.DocumentHeight,
		Confidence:       1,
	}, true
}

// DefaultMinVisibleFraction is the share of the viewport a scroll container
// must cover to be picked.
const DefaultMinVisibleFraction = 0.3

// ScrollContainerLocator picks the internally scrolling element covering the
// largest part of the viewport.
type ScrollContainerLocator struct {
	// MinVisibleFraction is the minimum share of the viewport area the
	// container must cover. Zero means DefaultMinVisibleFraction.
	MinVisibleFraction float64
}

// Name returns "scroll-container".
func (ScrollContainerLocator) Name() string { return "scroll-container" }

// containerCandidate is a scrollable element with its viewport coverage.
type containerCandidate struct {
	index    int
	coverage float64
}

// Detect returns the scrollable element with the largest viewport coverage.
// Ties keep document order.
func (l ScrollContainerLocator) Detect(page *Page) (Subject, bool) {
	minFraction := l.MinVisibleFraction
	if minFraction <= 0 {
		minFraction = DefaultMinVisibleFraction
	}
	viewportArea := page.ViewportWidth * page.ViewportHeight

	candidates := make([]containerCandidate, 0)
	for i, el := range page.Elements {
		if !el.Scrollable() {
			continue
		}
		coverage := page.visibleArea(el.BoundingRect) / viewportArea
		if coverage >= minFraction {
			candidates = append(candidates, containerCandidate{index: i, coverage: coverage})
		}
	}
	if len(candidates) == 0 {
		return Subject{}, false
	}

	// Largest first; document order breaks ties
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].coverage > candidates[j].coverage
	})
	best := candidates[0]
	el := page.Elements[best.index]

	return Subject{
		Kind:             KindContainer,
		Locator:          l.Name(),
		Selector:         el.Selector,
		Bounds:           el.BoundingRect,
		DevicePixelRatio: page.DevicePixelRatio,
		ScrollHeight:     el.ScrollHeight,
		InternalScroll:   true,
		Confidence:       math.Round(best.coverage*1000) / 1000,
	}, true
}

// MatchLocator picks the first element matching every non-empty field. It
// is meant for panels of known sites.
type MatchLocator struct {
	Label string `json:"name" yaml:"name"`
	ID    string `json:"id,omitempty" yaml:"id"`
	Class string `json:"class,omitempty" yaml:"class"`
	Tag   string `json:"tag,omitempty" yaml:"tag"`
	Role  string `json:"role,omitempty" yaml:"role"`
}

// Name returns the label, or "match" when none is set.
func (l MatchLocator) Name() string {
	if l.Label != "" {
		return l.Label
	}
	return "match"
}

func (l MatchLocator) matches(el Element) bool {
	if l.ID == "" && l.Class == "" && l.Tag == "" && l.Role == "" {
		return false
	}
	if l.ID != "" && el.ID != l.ID {
		return false
	}
	if l.Class != "" && !el.HasClass(l.Class) {
		return false
	}
	if l.Tag != "" && !strings.EqualFold(el.Tag, l.Tag) {
		return false
	}
	if l.Role != "" && el.Role != l.Role {
		return false
	}
	return true
}

// Detect returns the first visible element matching every non-empty field.
func (l MatchLocator) Detect(page *Page) (Subject, bool) {
	for _, el := range page.Elements {
		if !l.matches(el) || page.visibleArea(el.BoundingRect) == 0 {
			continue
		}
		return Subject{
			Kind:             KindElement,
			Locator:          l.Name(),
			Selector:         el.Selector,
			Bounds:           el.BoundingRect,
			DevicePixelRatio: page.DevicePixelRatio,
			ScrollHeight:     max(el.ScrollHeight, el.BoundingRect.Height),
			InternalScroll:   el.Scrollable(),
			Confidence:       1,
		}, true
	}
	return Subject{}, false
}

// Chain tries locators in order.
type Chain []Locator

// DefaultChain returns matchers followed by the document and the generic
// scroll container search.
func DefaultChain(matchers ...MatchLocator) Chain {
	chain := make(Chain, 0, len(matchers)+2)
	for _, m := range matchers {
		chain = append(chain, m)
	}
	return append(chain, DocumentLocator{}, ScrollContainerLocator{})
}

// Locate returns the first subject any locator detects.
func (c Chain) Locate(page *Page) (Subject, error) {
	if err := page.Validate(); err != nil {
		return Subject{}, err
	}
	for _, l := range c {
		if s, ok := l.Detect(page); ok {
			logging.Debug("locator %s matched %s %q", l.Name(), s.Kind, s.Selector)
			return s, nil
		}
	}
	return Subject{}, ErrNoSubject
}
