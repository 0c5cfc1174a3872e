// Package glyph maps text-buffer character codes to the runes a host font
// draws for them, following the adapter's built-in code page 437 font.
package glyph

import "golang.org/x/text/encoding/charmap"

// low holds the pictures the font draws for codes below 0x20, which the
// code page proper leaves as control characters
var low = [32]rune{
	' ', '☺', '☻', '♥', '♦', '♣', '♠', '•', '◘', '○', '◙', '♂', '♀', '♪', '♫', '☼',
	'►', '◄', '↕', '‼', '¶', '§', '▬', '↨', '↑', '↓', '→', '←', '∟', '↔', '▲', '▼',
}

// Rune returns the glyph for character code b
func Rune(b byte) rune {
	switch {
	case b < 0x20:
		return low[b]
	case b == 0x7F:
		return '⌂'
	}
	return charmap.CodePage437.DecodeByte(b)
}

// String decodes a row of character codes
func String(codes []byte) string {
	rs := make([]rune, len(codes))
	for i, b := range codes {
		rs[i] = Rune(b)
	}
	return string(rs)
}
