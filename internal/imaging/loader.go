package imaging

import (
	"fmt"
	"image"
	"os"
	"sync"
)

// ImageCache provides thread-safe caching of decoded capture files.
//
// The cache stores decoded surfaces keyed by their file path together with
// the raw payload. Captures inspected with LoadCaptureInfo are cached;
// Payload only reads bytes and never decodes.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached entries remain in memory until explicitly removed via Evict() or
// Clear(). A long-running server should evict captures once they have been
// stitched.
type ImageCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	payload []byte
	img     *image.NRGBA
	format  string
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		entries: make(map[string]cacheEntry),
	}
}

// Load retrieves a decoded capture from the cache or reads and decodes it.
//
// Parameters:
//   - path: File path of the capture. The file may hold raw encoded image
//     bytes or a data URL.
//
// Returns:
//   - *image.NRGBA: The decoded surface.
//   - error: Non-nil if the file cannot be read or decoded.
//
// The entry is cached under the exact path string provided.
func (c *ImageCache) Load(path string) (*image.NRGBA, error) {
	e, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return e.img, nil
}

// Payload returns the raw bytes of a capture file without decoding it. A
// cached entry supplies its bytes; otherwise the file is read and nothing is
// added to the cache.
func (c *ImageCache) Payload(path string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()
	if ok {
		return e.payload, nil
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return payload, nil
}

func (c *ImageCache) load(path string) (cacheEntry, error) {
	c.mu.RLock()
	if e, ok := c.entries[path]; ok {
		c.mu.RUnlock()
		return e, nil
	}
	c.mu.RUnlock()

	payload, err := os.ReadFile(path)
	if err != nil {
		return cacheEntry{}, fmt.Errorf("failed to open image: %w", err)
	}

	img, err := DecodePayload(payload)
	if err != nil {
		return cacheEntry{}, err
	}

	format := "unknown"
	if _, f, err := DecodePayloadConfig(payload); err == nil {
		format = f
	}

	e := cacheEntry{payload: payload, img: img, format: format}
	c.mu.Lock()
	c.entries[path] = e
	c.mu.Unlock()

	return e, nil
}

// Len returns the number of cached captures.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Evict removes a specific entry from the cache by its path. Unknown paths
// are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// CaptureInfo contains metadata about a capture file.
type CaptureInfo struct {
	// Width is the decoded width in device pixels.
	Width int `json:"width"`

	// Height is the decoded height in device pixels.
	Height int `json:"height"`

	// Format is the format detected from the file contents ("png", "jpeg",
	// "gif", "webp", ...), or "unknown".
	Format string `json:"format"`

	// FileSizeBytes is the size of the capture file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadCaptureInfo loads a capture into the cache and describes it.
//
// Unlike a file-extension check, the format is sniffed from the payload, so
// extension-less capture dumps and data-URL files are reported correctly.
func LoadCaptureInfo(cache *ImageCache, path string) (*CaptureInfo, error) {
	e, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	bounds := e.img.Bounds()
	return &CaptureInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        e.format,
		FileSizeBytes: stat.Size(),
	}, nil
}
