package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"net/url"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrEmptyPayload is returned when a capture carries no image data.
var ErrEmptyPayload = errors.New("empty image payload")

// DecodePayload turns an encoded capture payload into an NRGBA surface.
//
// Parameters:
//   - data: Raw encoded image bytes, or a data URL of the form
//     "data:[<mediatype>][;base64],<data>".
//
// Returns:
//   - *image.NRGBA: The decoded pixels. Bounds always start at (0,0)
//     regardless of the source format's native bounds.
//   - error: Non-nil if the payload is empty, the data URL is malformed, or
//     the bytes are not a supported raster format.
func DecodePayload(data []byte) (*image.NRGBA, error) {
	raw, err := payloadBytes(data)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return imaging.Clone(img), nil
}

// DecodePayloadConfig reads only the header of a payload and returns its
// dimensions and format name.
func DecodePayloadConfig(data []byte) (image.Config, string, error) {
	raw, err := payloadBytes(data)
	if err != nil {
		return image.Config{}, "", err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("failed to decode image header: %w", err)
	}
	return cfg, format, nil
}

// payloadBytes strips a data URL wrapper if present.
func payloadBytes(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}
	if !bytes.HasPrefix(data, []byte("data:")) {
		return data, nil
	}

	header, body, ok := strings.Cut(string(data[len("data:"):]), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URL: missing ','")
	}

	if strings.HasSuffix(header, ";base64") {
		raw, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return nil, fmt.Errorf("malformed data URL: %w", err)
		}
		if len(raw) == 0 {
			return nil, ErrEmptyPayload
		}
		return raw, nil
	}

	unescaped, err := url.PathUnescape(body)
	if err != nil {
		return nil, fmt.Errorf("malformed data URL: %w", err)
	}
	if unescaped == "" {
		return nil, ErrEmptyPayload
	}
	return []byte(unescaped), nil
}
