package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Default palette of the night sky.
const (
	DefaultLinkColor   = "#aaa"
	DefaultNodeFill    = "#fff"
	DefaultNodeStroke  = "#fff"
	DefaultStrokeWidth = 1.0
)

// ParseColor parses a "#rgb" or "#rrggbb" hex color. An empty string is
// transparent.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "transparent") {
		return color.Transparent, nil
	}
	if len(s) == 4 && s[0] == '#' {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

// MustParseColor is ParseColor for compile-time constants.
func MustParseColor(s string) color.Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as "#rrggbb", or "none" when fully transparent.
func Hex(c color.Color) string {
	if _, _, _, a := c.RGBA(); a == 0 {
		return "none"
	}
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}
