package imaging

import (
	"math"
	"testing"
)

func TestSanitizeDimension(t *testing.T) {
	var nilFloat *float64

	tests := []struct {
		name string
		in   any
		want int
	}{
		{"undefined", nil, 800},
		{"null", nilFloat, 800},
		{"NaN", math.NaN(), 800},
		{"negative", -5.0, 800},
		{"zero", 0.0, 800},
		{"fractional", 1.7, 1},
		{"above ceiling", 50000.0, 32767},
		{"positive infinity", math.Inf(1), 800},
		{"negative infinity", math.Inf(-1), 800},
		{"below one", 0.5, 800},
		{"int", 640, 640},
		{"int64", int64(1024), 1024},
		{"numeric string", "1280.9", 1280},
		{"non-numeric string", "wide", 800},
		{"bool", true, 800},
		{"exact ceiling", 32767.0, 32767},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeDimension(tt.in, 800); got != tt.want {
				t.Errorf("SanitizeDimension(%v, 800) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeDimensionMax(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		def     int
		ceiling int
		want    int
	}{
		{"custom ceiling clamps", 5000.0, 800, 4096, 4096},
		{"default above ceiling clamps", nil, 9000, 4096, 4096},
		{"invalid default", nil, 0, 4096, 1},
		{"ceiling above platform", 50000.0, 800, 100000, MaxDimension},
		{"zero ceiling", 50000.0, 800, 0, MaxDimension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeDimensionMax(tt.in, tt.def, tt.ceiling); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
