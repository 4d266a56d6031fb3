package htmldoc

import (
	"strings"

	"github.com/sprywebtech/breakdance-styles-extractor/pkg/dom"
)

const defaultFontPx = 16

// computeContext is what a property needs to compute its value: the parent's
// computed style (nil at the root), the properties of the element computed
// so far, and the root font size.
type computeContext struct {
	parent dom.Style
	style  dom.Style
	rootPx float64
}

func (c *computeContext) parentFontPx() float64 {
	if c.parent != nil {
		if px, _, ok := parseDimension(c.parent["font-size"]); ok {
			return px
		}
	}
	return defaultFontPx
}

func (c *computeContext) fontPx() float64 {
	if px, _, ok := parseDimension(c.style["font-size"]); ok {
		return px
	}
	return c.parentFontPx()
}

func (c *computeContext) parentColor() rgba {
	if c.parent != nil {
		if col, ok := parseColor(c.parent["color"], black); ok {
			return col
		}
	}
	return black
}

func (c *computeContext) color() rgba {
	if col, ok := parseColor(c.style["color"], black); ok {
		return col
	}
	return c.parentColor()
}

func (c *computeContext) parentWeight() float64 {
	if c.parent != nil {
		if w, ok := fontWeight(c.parent["font-weight"], 400); ok {
			return w
		}
	}
	return 400
}

// property describes one computed property. Properties are computed in
// table order, so font-size and color come before the ones that refer to
// them.
type property struct {
	name      string
	inherited bool
	initial   string
	compute   func(ctx *computeContext, value string) (string, bool)
}

var properties = []property{
	{name: "font-size", inherited: true, initial: "16px", compute: computeFontSize},
	{name: "color", inherited: true, initial: "rgb(0, 0, 0)", compute: computeColor},
	{name: "background-color", initial: "rgba(0, 0, 0, 0)", compute: computeBackgroundColor},
	{name: "font-family", inherited: true, initial: `"Times New Roman"`, compute: computeFontFamily},
	{name: "font-weight", inherited: true, initial: "400", compute: computeFontWeight},
	{name: "text-transform", inherited: true, initial: "none", compute: computeTextTransform},
	{name: "padding-top", initial: "0px", compute: computePadding},
	{name: "padding-right", initial: "0px", compute: computePadding},
	{name: "padding-bottom", initial: "0px", compute: computePadding},
	{name: "padding-left", initial: "0px", compute: computePadding},
}

func computeFontSize(ctx *computeContext, v string) (string, bool) {
	px, ok := fontSizePx(v, ctx.parentFontPx(), ctx.rootPx)
	if !ok {
		return "", false
	}
	return formatPx(px), true
}

func computeColor(ctx *computeContext, v string) (string, bool) {
	c, ok := parseColor(v, ctx.parentColor())
	if !ok {
		return "", false
	}
	return c.String(), true
}

func computeBackgroundColor(ctx *computeContext, v string) (string, bool) {
	c, ok := parseColor(v, ctx.color())
	if !ok {
		return "", false
	}
	return c.String(), true
}

func computeFontFamily(_ *computeContext, v string) (string, bool) {
	return fontFamily(v)
}

func computeFontWeight(ctx *computeContext, v string) (string, bool) {
	w, ok := fontWeight(v, ctx.parentWeight())
	if !ok {
		return "", false
	}
	return formatWeight(w), true
}

func computeTextTransform(_ *computeContext, v string) (string, bool) {
	return textTransform(v)
}

func computePadding(ctx *computeContext, v string) (string, bool) {
	return paddingValue(v, ctx.fontPx(), ctx.rootPx)
}

type longhand struct {
	property string
	value    string
}

var cssWideKeywords = map[string]bool{
	"inherit": true, "initial": true, "unset": true, "revert": true, "revert-layer": true,
}

// expandShorthand maps a declaration onto the longhands the cascade
// computes. Unknown properties yield nothing.
func expandShorthand(prop, value string) []longhand {
	keyword := cssWideKeywords[strings.ToLower(strings.TrimSpace(value))]
	all := func(props ...string) []longhand {
		out := make([]longhand, len(props))
		for i, p := range props {
			out[i] = longhand{p, value}
		}
		return out
	}

	switch prop {
	case "padding":
		if keyword {
			return all("padding-top", "padding-right", "padding-bottom", "padding-left")
		}
		return boxSides(splitTopLevel(value, isSpace))
	case "padding-block":
		if keyword {
			return all("padding-top", "padding-bottom")
		}
		return pairSides(value, "padding-top", "padding-bottom")
	case "padding-inline":
		if keyword {
			return all("padding-left", "padding-right")
		}
		return pairSides(value, "padding-left", "padding-right")
	case "padding-block-start":
		return all("padding-top")
	case "padding-block-end":
		return all("padding-bottom")
	case "padding-inline-start":
		return all("padding-left")
	case "padding-inline-end":
		return all("padding-right")
	case "background":
		if keyword {
			return all("background-color")
		}
		return []longhand{{"background-color", backgroundColor(value)}}
	case "font":
		if keyword {
			return all("font-size", "font-weight", "font-family")
		}
		return fontShorthand(value)
	}

	for _, p := range properties {
		if p.name == prop {
			return all(prop)
		}
	}
	return nil
}

func boxSides(parts []string) []longhand {
	var t, r, b, l string
	switch len(parts) {
	case 1:
		t, r, b, l = parts[0], parts[0], parts[0], parts[0]
	case 2:
		t, r, b, l = parts[0], parts[1], parts[0], parts[1]
	case 3:
		t, r, b, l = parts[0], parts[1], parts[2], parts[1]
	case 4:
		t, r, b, l = parts[0], parts[1], parts[2], parts[3]
	default:
		return nil
	}
	return []longhand{
		{"padding-top", t},
		{"padding-right", r},
		{"padding-bottom", b},
		{"padding-left", l},
	}
}

func pairSides(value, first, second string) []longhand {
	parts := splitTopLevel(value, isSpace)
	switch len(parts) {
	case 1:
		return []longhand{{first, parts[0]}, {second, parts[0]}}
	case 2:
		return []longhand{{first, parts[0]}, {second, parts[1]}}
	}
	return nil
}

// backgroundColor finds the color component of a background shorthand. Only
// the final layer may carry one; a shorthand without a color resets it to
// transparent.
func backgroundColor(value string) string {
	layers := splitTopLevel(value, isComma)
	if len(layers) == 0 {
		return "transparent"
	}
	color := "transparent"
	for _, tok := range splitTopLevel(layers[len(layers)-1], isSpace) {
		if _, ok := parseColor(tok, black); ok {
			color = tok
		}
	}
	return color
}

var fontStyleKeywords = map[string]bool{
	"normal": true, "italic": true, "oblique": true, "small-caps": true,
	"ultra-condensed": true, "extra-condensed": true, "condensed": true,
	"semi-condensed": true, "semi-expanded": true, "expanded": true,
	"extra-expanded": true, "ultra-expanded": true,
}

// fontShorthand parses "[style] [variant] [weight] [stretch] size[/line-height]
// family". Invalid values and system font keywords yield nothing.
func fontShorthand(value string) []longhand {
	tokens := splitTopLevel(value, isSpace)
	weight := "normal"

	for i, tok := range tokens {
		size, _, _ := strings.Cut(tok, "/")
		if _, ok := fontSizePx(size, defaultFontPx, defaultFontPx); ok && size != "" {
			rest := tokens[i+1:]
			switch {
			case len(rest) > 0 && rest[0] == "/":
				if len(rest) < 2 {
					return nil
				}
				rest = rest[2:]
			case len(rest) > 0 && strings.HasPrefix(rest[0], "/"):
				rest = rest[1:]
			}
			family := strings.Join(rest, " ")
			if family == "" {
				return nil
			}
			return []longhand{
				{"font-size", size},
				{"font-weight", weight},
				{"font-family", family},
			}
		}

		lower := strings.ToLower(tok)
		if _, ok := fontWeight(lower, 400); ok && lower != "normal" {
			weight = lower
			continue
		}
		if !fontStyleKeywords[lower] {
			return nil
		}
	}
	return nil
}
