package algo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Tableau10 is the categorical palette used for file types and project years.
var Tableau10 = []string{
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}

// Named colors used by the scatter gridlines.
const (
	SteelBlue = "#4682b4"
	Orange    = "#ffa500"
)

// RGB is an 8-bit color.
type RGB struct {
	R, G, B uint8
}

// ParseHex parses "#rrggbb" or "#rgb".
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// String formats the color as CSS rgb().
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Hex formats the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// InterpolateRGB blends a toward b channel by channel; t is clamped to [0, 1].
func InterpolateRGB(a, b RGB, t float64) RGB {
	t = math.Max(0, math.Min(1, t))
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return RGB{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B)}
}

// OrdinalScale hands out palette colors to keys in first-request order,
// cycling when the palette runs out. It is not safe for concurrent use.
type OrdinalScale struct {
	palette []string
	index   map[string]int
	keys    []string
}

// NewOrdinalScale returns an empty scale over palette.
func NewOrdinalScale(palette []string) *OrdinalScale {
	return &OrdinalScale{palette: palette, index: make(map[string]int)}
}

// Color returns the color for key, assigning the next one if key is new.
func (s *OrdinalScale) Color(key string) string {
	i, ok := s.index[key]
	if !ok {
		i = len(s.keys)
		s.index[key] = i
		s.keys = append(s.keys, key)
	}
	if len(s.palette) == 0 {
		return ""
	}
	return s.palette[i%len(s.palette)]
}

// Keys returns the keys seen so far in assignment order.
func (s *OrdinalScale) Keys() []string {
	return append([]string(nil), s.keys...)
}

// IndexColor returns the palette color at position i, cycling.
func IndexColor(palette []string, i int) string {
	if len(palette) == 0 {
		return ""
	}
	return palette[i%len(palette)]
}
