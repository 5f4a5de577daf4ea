package color

import "github.com/hnimtadd/vterm/terminal/utils"

// Space identifies where a cell color value comes from. The zero value
// means "use the terminal default" so freshly zeroed cells render with
// the default colors.
type Space uint8

const (
	SpaceDefault Space = iota
	// One of the 16 named system colors (value is 0..15).
	SpaceSystem
	// An index into the 256 color palette.
	SpaceIndex256
	// A direct 24-bit color.
	SpaceRGB
)

// Color is a tagged color value. Tracking the source space rather than a
// resolved RGB lets renderers react to palette changes after the fact.
type Color struct {
	Space Space
	Index uint8
	RGB   RGB
}

// NewSystem returns a named system color (0..15).
func NewSystem(index uint8) Color {
	utils.Assert(index < 16, "system color index out of range")
	return Color{Space: SpaceSystem, Index: index}
}

// NewIndex256 returns a palette indexed color.
func NewIndex256(index uint8) Color {
	return Color{Space: SpaceIndex256, Index: index}
}

// NewRGB returns a direct color.
func NewRGB(r, g, b uint8) Color {
	return Color{Space: SpaceRGB, RGB: RGB{R: r, G: g, B: b}}
}

// FromPacked unpacks a 24-bit 0xRRGGBB value.
func FromPacked(packed uint32) Color {
	return NewRGB(uint8(packed>>16), uint8(packed>>8), uint8(packed))
}

// Pack packs r, g, b into a single 0xRRGGBB value.
func Pack(r, g, b uint32) uint32 {
	return (min(r, 255) << 16) | (min(g, 255) << 8) | min(b, 255)
}

// Resolve maps the color onto a concrete RGB using the given palette.
// The boolean is false for the default space, whose concrete value is
// the renderer's business.
func (c Color) Resolve(palette *Palette) (RGB, bool) {
	switch c.Space {
	case SpaceSystem, SpaceIndex256:
		return palette[c.Index], true
	case SpaceRGB:
		return c.RGB, true
	default:
		return RGB{}, false
	}
}

// Palette is the 256 color palette.
type Palette [256]RGB

// RGB is a struct that represents an RGB color.
type RGB struct {
	R, G, B uint8
}

var DefaultPalette = func() Palette {
	var result Palette

	// Named values:
	var i uint8
	for ; i < 16; i++ {
		result[i] = NewName(ColorType(i)).defaultRGB()
	}
	utils.Assert(i == 16)

	// Cube
	var r, g, b uint8
	for r = range 6 {
		for g = range 6 {
			for b = range 6 {
				rgb := RGB{}
				if r > 0 {
					rgb.R = r*40 + 55
				}
				if g > 0 {
					rgb.G = g*40 + 55
				}
				if b > 0 {
					rgb.B = b*40 + 55
				}
				result[i] = rgb
				i++
			}
		}
	}

	// Gray ramp
	utils.Assert(i == 232) // 16+6*6*6
	for ; i > 0; i += 1 {
		value := (i-232)*10 + 8
		result[i] = RGB{value, value, value}
	}

	return result
}()

type ColorType uint8

const (
	ColorTypeBlack ColorType = iota
	ColorTypeRed
	ColorTypeGreen
	ColorTypeYellow
	ColorTypeBlue
	ColorTypeMagenta
	ColorTypeCyan
	ColorTypeWhite
	ColorTypeBrightBlack
	ColorTypeBrightRed
	ColorTypeBrightGreen
	ColorTypeBrightYellow
	ColorTypeBrightBlue
	ColorTypeBrightMagenta
	ColorTypeBrightCyan
	ColorTypeBrightWhite
)

type Name struct {
	Type ColorType
}

func NewName(colorType ColorType) Name {
	return Name{Type: colorType}
}

func (n Name) defaultRGB() RGB {
	switch n.Type {
	case ColorTypeBlack:
		return RGB{0x1D, 0x1F, 0x21}
	case ColorTypeRed:
		return RGB{0xCC, 0x66, 0x66}
	case ColorTypeGreen:
		return RGB{0xB5, 0xBD, 0x68}
	case ColorTypeYellow:
		return RGB{0xF0, 0xC6, 0x74}
	case ColorTypeBlue:
		return RGB{0x81, 0xA2, 0xBE}
	case ColorTypeMagenta:
		return RGB{0xB2, 0x94, 0xC7}
	case ColorTypeCyan:
		return RGB{0x8C, 0xC3, 0xE9}
	case ColorTypeWhite:
		return RGB{0xC5, 0xC8, 0xC6}
	case ColorTypeBrightBlack:
		return RGB{0x7C, 0x7C, 0x7C}
	case ColorTypeBrightRed:
		return RGB{0xFF, 0x8F, 0x8F}
	case ColorTypeBrightGreen:
		return RGB{0xB5, 0xBD, 0x68}
	case ColorTypeBrightYellow:
		return RGB{0xF0, 0xC6, 0x74}
	case ColorTypeBrightBlue:
		return RGB{0x81, 0xA2, 0xBE}
	case ColorTypeBrightMagenta:
		return RGB{0xB2, 0x94, 0xC7}
	case ColorTypeBrightCyan:
		return RGB{0x8C, 0xC3, 0xE9}
	case ColorTypeBrightWhite:
		return RGB{0xFF, 0xFF, 0xFF}
	default:
		return RGB{0, 0, 0}
	}
}
