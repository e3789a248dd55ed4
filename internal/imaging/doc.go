// Package imaging provides the raster primitives the stitcher is built on.
//
// This package decodes capture payloads into addressable pixel surfaces,
// sanitizes requested surface dimensions, compares capture regions to find
// repeated sticky headers, and allocates, crops and encodes output surfaces.
// All operations work with standard Go image types and use a coordinate system
// where (0,0) is at the top-left corner, X increases rightward, and Y increases
// downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are device pixels and 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Rectangles follow image.Rectangle: Min is inclusive, Max is exclusive
//
// Decoded surfaces are always *image.NRGBA with bounds starting at (0,0), so a
// rectangle computed against one capture can be applied to any other capture
// of the same size.
//
// # Payloads
//
// A capture payload is either the raw bytes of an encoded image or a data URL
// ("data:image/png;base64,..."), the form browser tab-capture APIs produce.
// PNG, JPEG, GIF, BMP, TIFF and WebP are supported.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual operations are
// stateless and can be called concurrently on different images.
//
// # Error Handling
//
// Decode and encode failures are returned as wrapped errors. Header detection
// never fails: anything that prevents a comparison yields a header height of 0.
package imaging
