// Package locate finds the scrollable subject of a page before a capture
// sequence starts.
//
// The page is described by a Page snapshot: viewport size, device pixel
// ratio, document height and a flat list of candidate elements with their
// bounding rectangles, scroll sizes and the computed styles that matter for
// scrolling (overflow-y, position). The snapshot is produced by whatever
// drives the browser; this package only reads it.
//
// # Strategies
//
// A Locator inspects a Page and either returns a Subject or reports no
// match. Three strategies are provided:
//
//   - MatchLocator: site-specific panels picked by id, class, tag or role
//   - DocumentLocator: the document itself, when it is taller than the viewport
//   - ScrollContainerLocator: the largest visible element that scrolls internally
//
// A Chain tries locators in order and returns the first match. DefaultChain
// puts caller-supplied matchers first, then the document, then the generic
// container search.
//
// # Subjects
//
// A Subject is a plain value. It is not cached anywhere; callers that
// suspect the page changed simply locate again. Subject.Mode converts it
// into the stitch.Mode used to stitch the captures.
package locate
