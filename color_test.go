package vgatext

import "testing"

func TestNewAttribute(t *testing.T) {
	tests := []struct {
		fg, bg Color
		want   Attribute
	}{
		{Yellow, Black, 0x0E},
		{White, Blue, 0x1F},
		{Black, White, 0xF0},
		{LightGray, Black, 0x07},
		{Pink, Brown, 0x6D},
	}
	for _, tt := range tests {
		got := NewAttribute(tt.fg, tt.bg)
		if got != tt.want {
			t.Errorf("NewAttribute(%v, %v) = %#02x, want %#02x", tt.fg, tt.bg, got, tt.want)
		}
		if got.Foreground() != tt.fg || got.Background() != tt.bg {
			t.Errorf("%#02x decodes to %v/%v", got, got.Foreground(), got.Background())
		}
	}
}

func TestNewAttributeMasks(t *testing.T) {
	if got := NewAttribute(Color(0x1F), Color(0x23)); got != 0x3F {
		t.Errorf("NewAttribute masked = %#02x, want 0x3f", got)
	}
}

func TestDefaultAttribute(t *testing.T) {
	if DefaultAttribute != 0x0E {
		t.Errorf("DefaultAttribute = %#02x, want yellow on black", DefaultAttribute)
	}
}

func TestColorANSI(t *testing.T) {
	tests := []struct {
		c    Color
		ansi int
		fg   string
		bg   string
	}{
		{Black, 0, "30", "40"},
		{Blue, 4, "34", "44"},
		{Brown, 3, "33", "43"},
		{LightGray, 7, "37", "47"},
		{DarkGray, 8, "90", "100"},
		{LightRed, 9, "91", "101"},
		{Yellow, 11, "93", "103"},
		{White, 15, "97", "107"},
	}
	for _, tt := range tests {
		if got := tt.c.ANSI(); got != tt.ansi {
			t.Errorf("%v.ANSI() = %d, want %d", tt.c, got, tt.ansi)
		}
		if got := tt.c.ToSGRCode(true); got != tt.fg {
			t.Errorf("%v fg SGR = %s, want %s", tt.c, got, tt.fg)
		}
		if got := tt.c.ToSGRCode(false); got != tt.bg {
			t.Errorf("%v bg SGR = %s, want %s", tt.c, got, tt.bg)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"yellow", Yellow, true},
		{"light_blue", LightBlue, true},
		{"Light-Blue", LightBlue, true},
		{"lightgray", LightGray, true},
		{"9", LightBlue, true},
		{"15", White, true},
		{"16", 0, false},
		{"chartreuse", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseColor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestColorStringRoundTrip(t *testing.T) {
	for c := Black; c <= White; c++ {
		got, ok := ParseColor(c.String())
		if !ok || got != c {
			t.Errorf("ParseColor(%q) = %v, %v", c.String(), got, ok)
		}
	}
}

func TestColorString(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{Black, "black"},
		{LightGray, "light_gray"},
		{White, "white"},
		{Color(16), "color(16)"},
		{Color(200), "color(200)"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Color(%d).String() = %q, want %q", uint8(tt.c), got, tt.want)
		}
	}
}
