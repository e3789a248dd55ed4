package stitch

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

var background = color.RGBA{250, 250, 250, 255}

// contentRow gives each content row a color far from its neighbours
func contentRow(y int) color.RGBA {
	return color.RGBA{uint8((y * 37) % 256), uint8((y * 91) % 256), 80, 255}
}

// headerRow is the color of sticky header rows
func headerRow(y int) color.RGBA {
	return color.RGBA{20, 20, uint8(200 + y%50), 255}
}

func encodeTestPNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

func decodeTestPNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	return img
}

// renderViewport builds one capture image; pixel(x, y) returns the color of
// viewport pixel (x, y).
func renderViewport(width, height int, pixel func(x, y int) color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, pixel(x, y))
		}
	}
	return img
}

// pageCaptures renders whole-viewport captures of a page whose row y has
// color contentRow(y), one per scroll offset. The top headerHeight rows of
// every viewport show a fixed header instead.
func pageCaptures(t *testing.T, width, height, headerHeight int, scrolls []int) []Capture {
	t.Helper()
	captures := make([]Capture, len(scrolls))
	for i, s := range scrolls {
		img := renderViewport(width, height, func(_, y int) color.RGBA {
			if y < headerHeight {
				return headerRow(y)
			}
			return contentRow(s + y)
		})
		captures[i] = Capture{
			Data:           encodeTestPNG(t, img),
			ViewportWidth:  float64(width),
			ViewportHeight: float64(height),
			ScrollY:        float64(s),
			Last:           i == len(scrolls)-1,
		}
	}
	return captures
}

// assertRows checks that output row y, at column x, has color want(y) for
// every row.
func assertRows(t *testing.T, img image.Image, x int, want func(y int) color.RGBA) {
	t.Helper()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		r, g, bl, a := img.At(x, y).RGBA()
		w := want(y - b.Min.Y)
		if uint8(r>>8) != w.R || uint8(g>>8) != w.G || uint8(bl>>8) != w.B || uint8(a>>8) != w.A {
			t.Fatalf("row %d: got (%d,%d,%d,%d), want %+v", y, r>>8, g>>8, bl>>8, a>>8, w)
		}
	}
}

// assertMonotonic checks the accumulator chain of a layout.
func assertMonotonic(t *testing.T, layout *Layout) {
	t.Helper()
	prev := Cursor{}
	for i, s := range layout.Steps {
		if s.Before != prev {
			t.Errorf("step %d: Before %+v does not continue previous After %+v", i, s.Before, prev)
		}
		if s.After.DestinationY < s.Before.DestinationY {
			t.Errorf("step %d: DestinationY decreased %d -> %d", i, s.Before.DestinationY, s.After.DestinationY)
		}
		if s.After.RowsDrawnWatermark < s.Before.RowsDrawnWatermark {
			t.Errorf("step %d: watermark decreased %d -> %d", i, s.Before.RowsDrawnWatermark, s.After.RowsDrawnWatermark)
		}
		prev = s.After
	}
	if layout.Final != prev {
		t.Errorf("Final %+v does not match last step %+v", layout.Final, prev)
	}
}
