// Package vgatext provides a text-mode display driver for a freestanding
// target whose screen is a grid of character cells mapped into memory.
//
// This package contains:
//   - Colour and attribute encoding
//   - Cell representation and the memory-mapped region/grid view
//   - The cursor-and-scroll Writer
//   - The spin-locked Console singleton shared with the fault path
//
// Host-side packages (cli, gtk, qt, tcell) read the same grid memory and
// draw it, the way a monitor reads the adapter's text memory.
package vgatext

import (
	"strconv"
	"strings"
)

// Color is one of the sixteen fixed palette entries, in VGA index order
type Color uint8

const (
	Black Color = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Brown
	LightGray
	DarkGray
	LightBlue
	LightGreen
	LightCyan
	LightRed
	Pink
	Yellow
	White
)

// Attribute is a packed colour byte: background in the high nibble,
// foreground in the low nibble
type Attribute uint8

// NewAttribute packs a foreground/background pair into an attribute byte.
// Colours outside the palette are masked to their low nibble.
func NewAttribute(fg, bg Color) Attribute {
	return Attribute((bg&0x0F)<<4 | fg&0x0F)
}

// Foreground returns the low-nibble colour
func (a Attribute) Foreground() Color {
	return Color(a & 0x0F)
}

// Background returns the high-nibble colour
func (a Attribute) Background() Color {
	return Color(a >> 4)
}

// DefaultAttribute is yellow on black
var DefaultAttribute = NewAttribute(Yellow, Black)

// RGB holds just the red, green, blue components
type RGB struct {
	R, G, B uint8
}

// Palette holds the RGB value of each colour, indexed by Color
var Palette = [16]RGB{
	{R: 0, G: 0, B: 0},       // Black
	{R: 0, G: 0, B: 170},     // Blue
	{R: 0, G: 170, B: 0},     // Green
	{R: 0, G: 170, B: 170},   // Cyan
	{R: 170, G: 0, B: 0},     // Red
	{R: 170, G: 0, B: 170},   // Magenta
	{R: 170, G: 85, B: 0},    // Brown
	{R: 170, G: 170, B: 170}, // LightGray
	{R: 85, G: 85, B: 85},    // DarkGray
	{R: 85, G: 85, B: 255},   // LightBlue
	{R: 85, G: 255, B: 85},   // LightGreen
	{R: 85, G: 255, B: 255},  // LightCyan
	{R: 255, G: 85, B: 85},   // LightRed
	{R: 255, G: 85, B: 255},  // Pink
	{R: 255, G: 255, B: 85},  // Yellow
	{R: 255, G: 255, B: 255}, // White
}

// vgaToANSI maps a VGA colour index to the ANSI colour index
var vgaToANSI = [16]int{0, 4, 2, 6, 1, 5, 3, 7, 8, 12, 10, 14, 9, 13, 11, 15}

// RGB returns the palette value for the colour
func (c Color) RGB() RGB {
	return Palette[c&0x0F]
}

// ANSI returns the ANSI colour index (0-15) that displays this colour
func (c Color) ANSI() int {
	return vgaToANSI[c&0x0F]
}

// ToSGRCode returns the SGR colour code for this colour (foreground if isFg=true)
func (c Color) ToSGRCode(isFg bool) string {
	idx := c.ANSI()
	if idx < 8 {
		if isFg {
			return strconv.Itoa(30 + idx)
		}
		return strconv.Itoa(40 + idx)
	}
	if isFg {
		return strconv.Itoa(90 + idx - 8)
	}
	return strconv.Itoa(100 + idx - 8)
}

// String returns the colour name used by ParseColor
func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "color(" + strconv.Itoa(int(c)) + ")"
}

var colorNames = []string{
	"black", "blue", "green", "cyan", "red", "magenta", "brown", "light_gray",
	"dark_gray", "light_blue", "light_green", "light_cyan", "light_red", "pink", "yellow", "white",
}

// ParseColor parses a colour name ("light_blue", "Light-Blue", "lightblue")
// or a palette index ("9")
func ParseColor(s string) (Color, bool) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
	if key == "" {
		return 0, false
	}
	for i, name := range colorNames {
		if strings.ReplaceAll(name, "_", "") == key {
			return Color(i), true
		}
	}
	n := 0
	for _, ch := range key {
		if ch < '0' || ch > '9' {
			return 0, false
		}
		n = n*10 + int(ch-'0')
		if n > 15 {
			return 0, false
		}
	}
	return Color(n), true
}
