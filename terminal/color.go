package terminal

import (
	"fmt"
	"strings"
	"sync"
)

// Color is a terminal color: ColorDefault, one of the 16 ANSI colors, or a 24-bit RGB value
type Color int32

// ColorDefault leaves the terminal's own color in place
const ColorDefault Color = -1

const (
	ColorBlack Color = iota
	ColorMaroon
	ColorGreen
	ColorOlive
	ColorNavy
	ColorPurple
	ColorTeal
	ColorSilver
	ColorGray
	ColorRed
	ColorLime
	ColorYellow
	ColorBlue
	ColorFuchsia
	ColorAqua
	ColorWhite
)

// colorRGBFlag marks a packed 24-bit value
const colorRGBFlag Color = 1 << 24

var colorNames = [...]string{
	"black", "maroon", "green", "olive", "navy", "purple", "teal", "silver",
	"gray", "red", "lime", "yellow", "blue", "fuchsia", "aqua", "white",
}

// RGB represents a 24-bit color
type RGB struct {
	R, G, B uint8
}

// NewRGB packs a 24-bit color
func NewRGB(r, g, b uint8) Color {
	return colorRGBFlag | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// IsRGB reports whether c carries a 24-bit value
func (c Color) IsRGB() bool {
	return c >= 0 && c&colorRGBFlag != 0
}

// RGB unpacks a 24-bit color; named colors return zero
func (c Color) RGB() RGB {
	if !c.IsRGB() {
		return RGB{}
	}
	return RGB{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c)}
}

func (c Color) String() string {
	switch {
	case c == ColorDefault:
		return "default"
	case c.IsRGB():
		rgb := c.RGB()
		return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
	case c >= 0 && int(c) < len(colorNames):
		return colorNames[c]
	default:
		return fmt.Sprintf("color(%d)", int32(c))
	}
}

// ParseColor accepts a color name, "default", or "#rrggbb"
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "default" {
		return ColorDefault, nil
	}
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		var r, g, b uint8
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
			return ColorDefault, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return NewRGB(r, g, b), nil
	}
	for i, name := range colorNames {
		if name == s {
			return Color(i), nil
		}
	}
	return ColorDefault, fmt.Errorf("unknown color %q", s)
}

// Style represents text style bits
type Style uint8

const (
	StyleNone      Style = 0
	StyleBold      Style = 1 << 0
	StyleDim       Style = 1 << 1
	StyleItalic    Style = 1 << 2
	StyleUnderline Style = 1 << 3
	StyleBlink     Style = 1 << 4
	StyleReverse   Style = 1 << 5
)

// ColorPair is the full description behind an Attribute
type ColorPair struct {
	Fg, Bg Color
	Style  Style
}

// DefaultPair uses terminal defaults without styling
var DefaultPair = ColorPair{Fg: ColorDefault, Bg: ColorDefault}

// Attribute is a driver-allocated handle for a ColorPair
// Zero is always the default pair
type Attribute int32

// AttrDefault is the handle of DefaultPair
const AttrDefault Attribute = 0

// AttributeTable allocates attribute handles, one per distinct pair
// Safe for concurrent use; drivers embed it to implement MakeAttribute
type AttributeTable struct {
	mu    sync.RWMutex
	pairs []ColorPair
	index map[ColorPair]Attribute
}

// MakeAttribute returns the handle for p, allocating on first use
func (t *AttributeTable) MakeAttribute(p ColorPair) Attribute {
	if p == DefaultPair {
		return AttrDefault
	}

	t.mu.RLock()
	a, ok := t.index[p]
	t.mu.RUnlock()
	if ok {
		return a
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if a, ok := t.index[p]; ok {
		return a
	}
	if t.index == nil {
		t.index = make(map[ColorPair]Attribute)
		t.pairs = []ColorPair{DefaultPair}
	}
	a = Attribute(len(t.pairs))
	t.pairs = append(t.pairs, p)
	t.index[p] = a
	return a
}

// Pair resolves a handle; unknown handles resolve to DefaultPair
func (t *AttributeTable) Pair(a Attribute) ColorPair {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if a <= 0 || int(a) >= len(t.pairs) {
		return DefaultPair
	}
	return t.pairs[a]
}
