package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestNewSurface(t *testing.T) {
	s, err := NewSurface(300, 200)
	if err != nil {
		t.Fatalf("NewSurface failed: %v", err)
	}
	if s.Bounds() != image.Rect(0, 0, 300, 200) {
		t.Errorf("bounds: got %v", s.Bounds())
	}
	if c := s.NRGBAAt(10, 10); c.A != 0 {
		t.Errorf("new surface should be transparent, got %+v", c)
	}
}

func TestNewSurface_Invalid(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 10},
		{"zero height", 10, 0},
		{"negative", -1, 10},
		{"width above ceiling", MaxDimension + 1, 10},
		{"height above ceiling", 10, MaxDimension + 1},
		{"area above limit", 20000, 20000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSurface(tt.width, tt.height); err == nil {
				t.Errorf("NewSurface(%d, %d) should fail", tt.width, tt.height)
			}
		})
	}
}

func TestCrop(t *testing.T) {
	img := createRowImage(100, 100, gradientRow)

	out := Crop(img, image.Rect(10, 20, 60, 50))
	if out.Bounds() != image.Rect(0, 0, 50, 30) {
		t.Fatalf("bounds: got %v, want (0,0)-(50,30)", out.Bounds())
	}

	want := gradientRow(20)
	if c := out.NRGBAAt(0, 0); c.R != want.R || c.G != want.G || c.B != want.B {
		t.Errorf("first row: got %+v, want %+v", c, want)
	}
}

func TestCrop_ClippedToBounds(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name  string
		rect  image.Rectangle
		wantW int
		wantH int
	}{
		{"overhangs right and bottom", image.Rect(50, 50, 200, 200), 50, 50},
		{"overhangs top left", image.Rect(-10, -10, 20, 30), 20, 30},
		{"entirely outside", image.Rect(150, 150, 200, 200), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Crop(img, tt.rect)
			if out.Bounds().Dx() != tt.wantW || out.Bounds().Dy() != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", out.Bounds().Dx(), out.Bounds().Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestDrawRows(t *testing.T) {
	dst, err := NewSurface(40, 100)
	if err != nil {
		t.Fatalf("NewSurface failed: %v", err)
	}
	src := createRowImage(40, 60, gradientRow)

	// copy source rows 10..30 to destination rows 50..70
	DrawRows(dst, src, image.Rect(0, 10, 40, 30), 50)

	if c := dst.NRGBAAt(0, 49); c.A != 0 {
		t.Errorf("row above destination should be untouched, got %+v", c)
	}
	want := gradientRow(10)
	if c := dst.NRGBAAt(5, 50); c.R != want.R || c.G != want.G || c.A != 255 {
		t.Errorf("row 50: got %+v, want %+v", c, want)
	}
	want = gradientRow(29)
	if c := dst.NRGBAAt(5, 69); c.R != want.R || c.G != want.G {
		t.Errorf("row 69: got %+v, want %+v", c, want)
	}
	if c := dst.NRGBAAt(0, 70); c.A != 0 {
		t.Errorf("row below destination should be untouched, got %+v", c)
	}
}

func TestDrawRows_ClipsAtBottom(t *testing.T) {
	dst, err := NewSurface(20, 30)
	if err != nil {
		t.Fatalf("NewSurface failed: %v", err)
	}
	src := createRowImage(20, 60, gradientRow)

	// must not panic when the rows run past the surface
	DrawRows(dst, src, image.Rect(0, 0, 20, 60), 10)

	want := gradientRow(19)
	if c := dst.NRGBAAt(0, 29); c.R != want.R || c.G != want.G {
		t.Errorf("last row: got %+v, want %+v", c, want)
	}
}

func TestEncodePNG(t *testing.T) {
	img := createRowImage(33, 21, gradientRow)

	data, err := EncodePNG(img)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}

	decoded, err := DecodePayload(data)
	if err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	if decoded.Bounds().Dx() != 33 || decoded.Bounds().Dy() != 21 {
		t.Errorf("round trip dimensions: got %v", decoded.Bounds())
	}
}

func TestEncodePNG_Deterministic(t *testing.T) {
	img := createRowImage(64, 64, gradientRow)

	a, err := EncodePNG(img)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	b, err := EncodePNG(img)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if string(a) != string(b) {
		t.Error("encoding the same image twice produced different bytes")
	}
}
