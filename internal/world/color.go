package world

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Palette colors recognized by the color sensor.
var (
	Black   = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
	White   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	Red     = color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
	Green   = color.RGBA{R: 0x00, G: 0x80, B: 0x00, A: 0xff}
	Blue    = color.RGBA{R: 0x00, G: 0x00, B: 0xff, A: 0xff}
	Yellow  = color.RGBA{R: 0xff, G: 0xff, B: 0x00, A: 0xff}
	Cyan    = color.RGBA{R: 0x00, G: 0xff, B: 0xff, A: 0xff}
	Magenta = color.RGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff}
)

var namedColors = map[string]color.RGBA{
	"black":   Black,
	"white":   White,
	"red":     Red,
	"green":   Green,
	"blue":    Blue,
	"yellow":  Yellow,
	"cyan":    Cyan,
	"magenta": Magenta,
}

// ParseColor accepts a palette name or a #rrggbb hex string.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func FormatColor(c color.RGBA) string {
	for name, nc := range namedColors {
		if nc == c {
			return name
		}
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
