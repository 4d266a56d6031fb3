package extractor

import (
	"strings"
	"testing"
)

func TestRGBToHex(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "rgb", in: "rgb(93, 67, 150)", want: "#5d4396ff"},
		{name: "rgba opaque alpha digits", in: "rgba(255, 255, 255, 255)", want: "#ffffffff"},
		{name: "transparent sentinel", in: "rgba(0, 0, 0, 0)", want: "#00000000"},
		{name: "fractional alpha reads digit runs", in: "rgba(10, 20, 30, 0.5)", want: "#0a141e00"},
		{name: "compact syntax", in: "rgb(1,2,3)", want: "#010203ff"},
		{name: "empty", in: "", want: "#000000FF"},
		{name: "no digits", in: "red", want: "#000000FF"},
		{name: "out of range channel keeps all digits", in: "rgb(300, 0, 0)", want: "#12c0000ff"},
		{name: "missing channels are zero", in: "rgb(5)", want: "#050000ff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RGBToHex(tt.in); got != tt.want {
				t.Errorf("RGBToHex(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRGBToHexFormat(t *testing.T) {
	for _, in := range []string{"rgb(0, 0, 0)", "rgb(93, 67, 150)", "rgba(1, 2, 3, 4)", "", "none"} {
		got := strings.ToUpper(RGBToHex(in))
		if len(got) != 9 || got[0] != '#' {
			t.Errorf("RGBToHex(%q) = %q, want #RRGGBBAA", in, got)
		}
	}
}
