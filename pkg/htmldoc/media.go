package htmldoc

import (
	"regexp"
	"strings"
)

// viewportHeight is assumed for orientation and height queries.
const viewportHeight = 800

var (
	mediaFeatureRe = regexp.MustCompile(`^\(\s*([a-z-]+)\s*(?::\s*([^)]*?))?\s*\)$`)
	mediaRangeRe   = regexp.MustCompile(`^\(\s*(width|height)\s*(<=|>=|<|>|=)\s*([^)\s]+)\s*\)$`)
	mediaRevRe     = regexp.MustCompile(`^\(\s*([^)\s]+)\s*(<=|>=|<|>|=)\s*(width|height)\s*\)$`)
)

// mediaMatches evaluates a media query list for a screen of the given width.
// An empty list matches.
func mediaMatches(query string, width float64) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, q := range splitTopLevel(query, isComma) {
		if mediaQueryMatches(q, width) {
			return true
		}
	}
	return false
}

func mediaQueryMatches(q string, width float64) bool {
	tokens := splitMediaQuery(q)
	if len(tokens) == 0 {
		return false
	}

	negate := false
	switch tokens[0] {
	case "not":
		negate = true
		tokens = tokens[1:]
	case "only":
		tokens = tokens[1:]
	}

	result := true
	for _, tok := range tokens {
		switch {
		case tok == "and":
			continue
		case strings.HasPrefix(tok, "("):
			if !mediaFeatureMatches(tok, width) {
				result = false
			}
		default:
			if tok != "all" && tok != "screen" {
				result = false
			}
		}
	}
	return result != negate
}

// splitMediaQuery splits at top-level whitespace, keeping parenthesized
// features whole.
func splitMediaQuery(q string) []string {
	return splitTopLevel(q, isSpace)
}

func mediaFeatureMatches(feature string, width float64) bool {
	if m := mediaRangeRe.FindStringSubmatch(feature); m != nil {
		return compareRange(axis(m[1], width), m[2], m[3])
	}
	if m := mediaRevRe.FindStringSubmatch(feature); m != nil {
		// "600px < width" reads as "width > 600px".
		return compareRange(axis(m[3], width), flip(m[2]), m[1])
	}

	m := mediaFeatureRe.FindStringSubmatch(feature)
	if m == nil {
		return false
	}
	name, value := m[1], m[2]

	switch name {
	case "min-width":
		px, ok := mediaLength(value)
		return ok && width >= px
	case "max-width":
		px, ok := mediaLength(value)
		return ok && width <= px
	case "width":
		px, ok := mediaLength(value)
		return ok && width == px
	case "min-height":
		px, ok := mediaLength(value)
		return ok && viewportHeight >= px
	case "max-height":
		px, ok := mediaLength(value)
		return ok && viewportHeight <= px
	case "orientation":
		if width >= viewportHeight {
			return value == "landscape"
		}
		return value == "portrait"
	case "prefers-color-scheme":
		return value == "light"
	case "prefers-reduced-motion":
		return value == "no-preference"
	case "hover", "any-hover":
		return value == "" || value == "hover"
	case "pointer", "any-pointer":
		return value == "" || value == "fine"
	case "color":
		return true
	}
	return false
}

func axis(name string, width float64) float64 {
	if name == "height" {
		return viewportHeight
	}
	return width
}

func flip(op string) string {
	switch op {
	case "<":
		return ">"
	case ">":
		return "<"
	case "<=":
		return ">="
	case ">=":
		return "<="
	}
	return op
}

func compareRange(v float64, op, length string) bool {
	px, ok := mediaLength(length)
	if !ok {
		return false
	}
	switch op {
	case "<":
		return v < px
	case "<=":
		return v <= px
	case ">":
		return v > px
	case ">=":
		return v >= px
	}
	return v == px
}

// mediaLength resolves a length inside a media feature, where em and rem
// refer to the initial font size.
func mediaLength(s string) (float64, bool) {
	num, unit, ok := parseDimension(s)
	if !ok {
		return 0, false
	}
	if unit == "" && num == 0 {
		return 0, true
	}
	return absoluteLength(num, unit, defaultFontPx, defaultFontPx)
}
