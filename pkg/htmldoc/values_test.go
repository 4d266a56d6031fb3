package htmldoc

import (
	"testing"
)

func TestParseColor(t *testing.T) {
	current := rgba{10, 20, 30, 1}
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"#fff", "rgb(255, 255, 255)", true},
		{"#FFCC00", "rgb(255, 204, 0)", true},
		{"#0008", "rgba(0, 0, 0, 0.533)", true},
		{"#11223380", "rgba(17, 34, 51, 0.502)", true},
		{"rgb(18, 52, 86)", "rgb(18, 52, 86)", true},
		{"RGBA(0,0,0,0)", "rgba(0, 0, 0, 0)", true},
		{"rgba(255, 0, 0, .5)", "rgba(255, 0, 0, 0.5)", true},
		{"rgb(10 20 30 / 50%)", "rgba(10, 20, 30, 0.5)", true},
		{"rgb(100%, 0%, 50%)", "rgb(255, 0, 128)", true},
		{"rgb(300, -5, 0)", "rgb(255, 0, 0)", true},
		{"hsl(0, 100%, 50%)", "rgb(255, 0, 0)", true},
		{"hsl(240deg 100% 50% / 0.25)", "rgba(0, 0, 255, 0.25)", true},
		{"hsla(0.5turn, 100%, 50%, 1)", "rgb(0, 255, 255)", true},
		{"steelblue", "rgb(70, 130, 180)", true},
		{"White", "rgb(255, 255, 255)", true},
		{"transparent", "rgba(0, 0, 0, 0)", true},
		{"currentColor", "rgb(10, 20, 30)", true},
		{"linktext", "rgb(0, 0, 238)", true},
		{"#12345", "", false},
		{"#ggg", "", false},
		{"rgb(1, 2)", "", false},
		{"oklch(70% 0.1 200)", "", false},
		{"not-a-color", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseColor(tt.in, current)
			if ok != tt.wantOK {
				t.Fatalf("parseColor(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got.String() != tt.want {
				t.Errorf("parseColor(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestFontFamily(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`Roboto`, `Roboto`},
		{`'Roboto'`, `Roboto`},
		{`Open Sans, Arial`, `"Open Sans", Arial`},
		{`"Open Sans",  sans-serif`, `"Open Sans", sans-serif`},
		{`SERIF`, `serif`},
		{`"serif"`, `serif`},
		{`-apple-system, BlinkMacSystemFont, "Segoe UI"`, `-apple-system, BlinkMacSystemFont, "Segoe UI"`},
		{`"Font 2000"`, `"Font 2000"`},
	}

	for _, tt := range tests {
		got, ok := fontFamily(tt.in)
		if !ok || got != tt.want {
			t.Errorf("fontFamily(%q) = %q, %v; want %q", tt.in, got, ok, tt.want)
		}
	}

	if _, ok := fontFamily(" , "); ok {
		t.Errorf("fontFamily of an empty list should fail")
	}
}

func TestFontSizePx(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"20px", 20, true},
		{"1.5em", 30, true},
		{"2rem", 32, true},
		{"150%", 30, true},
		{"12pt", 16, true},
		{"1in", 96, true},
		{"x-large", 24, true},
		{"smaller", 20 / 1.2, true},
		{"0", 0, true},
		{"12", 0, false},
		{"-1px", 0, false},
		{"10vw", 0, false},
		{"auto", 0, false},
	}

	for _, tt := range tests {
		got, ok := fontSizePx(tt.in, 20, 16)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("fontSizePx(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFormatPx(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{16, "16px"},
		{1.17 * 16, "18.72px"},
		{40.0 / 3, "13.3333px"},
		{-0.00001, "0px"},
	}
	for _, tt := range tests {
		if got := formatPx(tt.in); got != tt.want {
			t.Errorf("formatPx(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSelectorKey(t *testing.T) {
	tests := []struct {
		selector string
		kind     byte
		key      string
	}{
		{"div", 't', "div"},
		{"DIV", 't', "div"},
		{"div.card", '.', "card"},
		{"ul > li.active a", 't', "a"},
		{"#main .btn", '.', "btn"},
		{"a.btn#cta", '#', "cta"},
		{"header nav#menu", '#', "menu"},
		{"*", 0, ""},
		{":root", 0, ""},
		{"a[href$='.pdf']", 't', "a"},
		{"input:not(.x)", 't', "input"},
		{".md\\:flex", 0, ""},
		{"h1 + p", 't', "p"},
		{"[data-x='a b']", 0, ""},
	}

	for _, tt := range tests {
		kind, key := selectorKey(tt.selector)
		if kind != tt.kind || key != tt.key {
			t.Errorf("selectorKey(%q) = %q %q, want %q %q", tt.selector, kind, key, tt.kind, tt.key)
		}
	}
}

func TestMediaMatches(t *testing.T) {
	tests := []struct {
		query string
		width float64
		want  bool
	}{
		{"", 1280, true},
		{"all", 1280, true},
		{"screen", 1280, true},
		{"print", 1280, false},
		{"only screen and (min-width: 768px)", 1280, true},
		{"only screen and (min-width: 768px)", 500, false},
		{"(max-width: 48em)", 700, true},
		{"(max-width: 48em)", 800, false},
		{"print, (min-width: 100px)", 1280, true},
		{"not print", 1280, true},
		{"not screen", 1280, false},
		{"(min-width: 600px) and (max-width: 900px)", 700, true},
		{"(min-width: 600px) and (max-width: 900px)", 1280, false},
		{"(width >= 1024px)", 1280, true},
		{"(600px < width)", 500, false},
		{"(orientation: landscape)", 1280, true},
		{"(prefers-color-scheme: dark)", 1280, false},
		{"(min-resolution: 2dppx)", 1280, false},
	}

	for _, tt := range tests {
		if got := mediaMatches(tt.query, tt.width); got != tt.want {
			t.Errorf("mediaMatches(%q, %v) = %v, want %v", tt.query, tt.width, got, tt.want)
		}
	}
}

func TestSubstituteVars(t *testing.T) {
	custom := map[string]string{
		"--a":     "red",
		"--b":     "var(--a)",
		"--loop":  "var(--loop)",
		"--empty": " ",
	}
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"blue", "blue", true},
		{"var(--a)", "red", true},
		{"VAR(--b)", "red", true},
		{"1px solid var(--a)", "1px solid red", true},
		{"var(--x, var(--a))", "red", true},
		{"var(--x, rgb(1, 2, 3))", "rgb(1, 2, 3)", true},
		{"var(--a) var(--b)", "red red", true},
		{"var(--x)", "", false},
		{"var(--empty)", "", false},
		{"var(--loop)", "", false},
		{"var(--loop, green)", "green", true},
		{"var(--a", "", false},
	}

	for _, tt := range tests {
		got, ok := substituteVars(tt.in, custom, 0)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("substituteVars(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestExpandShorthand(t *testing.T) {
	tests := []struct {
		prop, value string
		want        map[string]string
	}{
		{"padding", "1px 2px 3px", map[string]string{
			"padding-top": "1px", "padding-right": "2px", "padding-bottom": "3px", "padding-left": "2px",
		}},
		{"padding", "inherit", map[string]string{
			"padding-top": "inherit", "padding-right": "inherit", "padding-bottom": "inherit", "padding-left": "inherit",
		}},
		{"padding-inline", "4px 8px", map[string]string{"padding-left": "4px", "padding-right": "8px"}},
		{"background", "url(a.png) center / cover no-repeat", map[string]string{"background-color": "transparent"}},
		{"background", "linear-gradient(red, blue), #fff url(x.png)", map[string]string{"background-color": "#fff"}},
		{"font", "bold 1.2em/1.5 Inter, sans-serif", map[string]string{
			"font-size": "1.2em", "font-weight": "bold", "font-family": "Inter, sans-serif",
		}},
		{"margin", "4px", map[string]string{}},
	}

	for _, tt := range tests {
		got := make(map[string]string)
		for _, lh := range expandShorthand(tt.prop, tt.value) {
			got[lh.property] = lh.value
		}
		if len(got) != len(tt.want) {
			t.Errorf("expandShorthand(%q, %q) = %v, want %v", tt.prop, tt.value, got, tt.want)
			continue
		}
		for k, v := range tt.want {
			if got[k] != v {
				t.Errorf("expandShorthand(%q, %q)[%s] = %q, want %q", tt.prop, tt.value, k, got[k], v)
			}
		}
	}
}
