package htmldoc

import (
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// rgba is a resolved color: channels 0..255, alpha 0..1.
type rgba struct {
	R, G, B uint8
	A       float64
}

var (
	black       = rgba{0, 0, 0, 1}
	transparent = rgba{0, 0, 0, 0}
)

// systemColors covers the CSS system color keywords the user-agent sheet and
// common themes use, with Chromium's light-scheme values.
var systemColors = map[string]rgba{
	"canvas":     {255, 255, 255, 1},
	"canvastext": black,
	"linktext":   {0, 0, 238, 1},
	"buttonface": {239, 239, 239, 1},
	"buttontext": black,
	"field":      {255, 255, 255, 1},
	"fieldtext":  black,
	"graytext":   {109, 109, 109, 1},
	"mark":       {255, 255, 0, 1},
	"marktext":   black,
}

// String serializes c the way getComputedStyle does.
func (c rgba) String() string {
	var sb strings.Builder
	if c.A >= 1 {
		sb.WriteString("rgb(")
	} else {
		sb.WriteString("rgba(")
	}
	sb.WriteString(strconv.Itoa(int(c.R)))
	sb.WriteString(", ")
	sb.WriteString(strconv.Itoa(int(c.G)))
	sb.WriteString(", ")
	sb.WriteString(strconv.Itoa(int(c.B)))
	if c.A < 1 {
		sb.WriteString(", ")
		sb.WriteString(strconv.FormatFloat(math.Round(c.A*1000)/1000, 'f', -1, 64))
	}
	sb.WriteByte(')')
	return sb.String()
}

// parseColor resolves a CSS color value. current is the value currentcolor
// refers to.
func parseColor(value string, current rgba) (rgba, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "":
		return rgba{}, false
	case v == "transparent":
		return transparent, true
	case v == "currentcolor":
		return current, true
	case strings.HasPrefix(v, "#"):
		return parseHex(v[1:])
	}

	if name, args, ok := splitFunction(v); ok {
		switch name {
		case "rgb", "rgba":
			return parseRGBFunc(args)
		case "hsl", "hsla":
			return parseHSLFunc(args)
		}
		return rgba{}, false
	}

	if c, ok := systemColors[v]; ok {
		return c, true
	}
	if c, ok := colornames.Map[v]; ok {
		return rgba{c.R, c.G, c.B, 1}, true
	}
	return rgba{}, false
}

func parseHex(h string) (rgba, bool) {
	for _, r := range h {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return rgba{}, false
		}
	}

	expand := func(s string) string {
		var sb strings.Builder
		for _, r := range s {
			sb.WriteRune(r)
			sb.WriteRune(r)
		}
		return sb.String()
	}
	switch len(h) {
	case 3, 4:
		h = expand(h)
	case 6, 8:
	default:
		return rgba{}, false
	}

	channel := func(i int) uint8 {
		n, _ := strconv.ParseUint(h[i:i+2], 16, 8)
		return uint8(n)
	}
	c := rgba{channel(0), channel(2), channel(4), 1}
	if len(h) == 8 {
		c.A = float64(channel(6)) / 255
	}
	return c, true
}

// colorArgs splits rgb()/hsl() arguments in either the legacy comma syntax
// or the space syntax with an optional "/ alpha".
func colorArgs(args string) (channels []string, alpha string, ok bool) {
	if strings.Contains(args, ",") {
		parts := strings.Split(args, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		switch len(parts) {
		case 3:
			return parts, "", true
		case 4:
			return parts[:3], parts[3], true
		}
		return nil, "", false
	}

	main, a, hasAlpha := strings.Cut(args, "/")
	channels = strings.Fields(main)
	if len(channels) != 3 {
		return nil, "", false
	}
	if hasAlpha {
		alpha = strings.TrimSpace(a)
		if alpha == "" {
			return nil, "", false
		}
	}
	return channels, alpha, true
}

func parseRGBFunc(args string) (rgba, bool) {
	channels, alpha, ok := colorArgs(args)
	if !ok {
		return rgba{}, false
	}

	var vals [3]uint8
	for i, ch := range channels {
		var f float64
		switch {
		case ch == "none":
		case strings.HasSuffix(ch, "%"):
			n, err := strconv.ParseFloat(strings.TrimSuffix(ch, "%"), 64)
			if err != nil {
				return rgba{}, false
			}
			f = n * 255 / 100
		default:
			n, err := strconv.ParseFloat(ch, 64)
			if err != nil {
				return rgba{}, false
			}
			f = n
		}
		vals[i] = clampByte(f)
	}

	a, ok := parseAlpha(alpha)
	if !ok {
		return rgba{}, false
	}
	return rgba{vals[0], vals[1], vals[2], a}, true
}

func parseHSLFunc(args string) (rgba, bool) {
	channels, alpha, ok := colorArgs(args)
	if !ok {
		return rgba{}, false
	}

	h, ok := parseHue(channels[0])
	if !ok {
		return rgba{}, false
	}
	s, ok1 := parsePercent(channels[1])
	l, ok2 := parsePercent(channels[2])
	if !ok1 || !ok2 {
		return rgba{}, false
	}
	a, ok := parseAlpha(alpha)
	if !ok {
		return rgba{}, false
	}

	r, g, b := colorful.Hsl(h, clamp01(s), clamp01(l)).Clamped().RGB255()
	return rgba{r, g, b, a}, true
}

func parseHue(s string) (float64, bool) {
	if s == "none" {
		return 0, true
	}
	num, unit, ok := parseDimension(s)
	if !ok {
		return 0, false
	}
	switch unit {
	case "", "deg":
	case "grad":
		num *= 0.9
	case "rad":
		num *= 180 / math.Pi
	case "turn":
		num *= 360
	default:
		return 0, false
	}
	num = math.Mod(num, 360)
	if num < 0 {
		num += 360
	}
	return num, true
}

// parsePercent returns a percentage as a 0..1 fraction. Bare numbers are
// accepted as percentages, as modern hsl() allows.
func parsePercent(s string) (float64, bool) {
	if s == "none" {
		return 0, true
	}
	num, unit, ok := parseDimension(s)
	if !ok || (unit != "%" && unit != "") {
		return 0, false
	}
	return num / 100, true
}

func parseAlpha(s string) (float64, bool) {
	if s == "" {
		return 1, true
	}
	if s == "none" {
		return 0, true
	}
	num, unit, ok := parseDimension(s)
	if !ok {
		return 0, false
	}
	switch unit {
	case "":
	case "%":
		num /= 100
	default:
		return 0, false
	}
	return clamp01(num), true
}

func clampByte(f float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, f))))
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}
