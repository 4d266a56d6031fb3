package htmldoc

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var dimensionRe = regexp.MustCompile(`^([+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)([a-zA-Z%]*)$`)

// parseDimension splits "12.5px" into 12.5 and "px". The unit is lowercased
// and empty for bare numbers.
func parseDimension(s string) (float64, string, bool) {
	m := dimensionRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, "", false
	}
	return n, strings.ToLower(m[2]), true
}

// splitFunction splits "rgb(1, 2, 3)" into "rgb" and "1, 2, 3".
func splitFunction(v string) (name, args string, ok bool) {
	open := strings.IndexByte(v, '(')
	if open <= 0 || !strings.HasSuffix(v, ")") {
		return "", "", false
	}
	return strings.ToLower(strings.TrimSpace(v[:open])), strings.TrimSpace(v[open+1 : len(v)-1]), true
}

// splitTopLevel splits s at sep characters that are outside parentheses and
// quotes. Empty parts are dropped; parts are trimmed.
func splitTopLevel(s string, isSep func(rune) bool) []string {
	var (
		parts []string
		depth int
		quote rune
		start int
	)
	flush := func(end int) {
		if p := strings.TrimSpace(s[start:end]); p != "" {
			parts = append(parts, p)
		}
	}
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0 && isSep(r):
			flush(i)
			start = i + len(string(r))
		}
	}
	flush(len(s))
	return parts
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' }
func isComma(r rune) bool { return r == ',' }

// formatPx serializes a pixel length the way browsers report computed
// lengths: at most four decimals, no trailing zeros.
func formatPx(px float64) string {
	px = math.Round(px*10000) / 10000
	if px == 0 {
		px = 0
	}
	return strconv.FormatFloat(px, 'f', -1, 64) + "px"
}

// absoluteLength converts a length in an absolute or font-relative unit to
// pixels. fontPx is the font size em refers to and rootPx the one rem refers
// to. Percentages are left to the caller.
func absoluteLength(num float64, unit string, fontPx, rootPx float64) (float64, bool) {
	switch unit {
	case "px":
		return num, true
	case "", "%":
		return 0, false
	case "em":
		return num * fontPx, true
	case "rem":
		return num * rootPx, true
	case "ex":
		return num * fontPx / 2, true
	case "ch":
		return num * fontPx / 2, true
	case "pt":
		return num * 96 / 72, true
	case "pc":
		return num * 16, true
	case "in":
		return num * 96, true
	case "cm":
		return num * 96 / 2.54, true
	case "mm":
		return num * 96 / 25.4, true
	case "q":
		return num * 96 / 101.6, true
	case "vw", "vh", "vmin", "vmax":
		return 0, false
	}
	return 0, false
}

var fontSizeKeywords = map[string]float64{
	"xx-small":  9,
	"x-small":   10,
	"small":     13,
	"medium":    16,
	"large":     18,
	"x-large":   24,
	"xx-large":  32,
	"xxx-large": 48,
}

// fontSizePx resolves a font-size value against the parent and root font
// sizes.
func fontSizePx(value string, parentPx, rootPx float64) (float64, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if px, ok := fontSizeKeywords[v]; ok {
		return px, true
	}
	switch v {
	case "smaller":
		return parentPx / 1.2, true
	case "larger":
		return parentPx * 1.2, true
	}

	num, unit, ok := parseDimension(v)
	if !ok || num < 0 {
		return 0, false
	}
	if unit == "%" {
		return num * parentPx / 100, true
	}
	if unit == "" {
		if num == 0 {
			return 0, true
		}
		return 0, false
	}
	return absoluteLength(num, unit, parentPx, rootPx)
}

// paddingValue resolves a padding longhand. Percentages stay as written
// since they depend on layout.
func paddingValue(value string, fontPx, rootPx float64) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	num, unit, ok := parseDimension(v)
	if !ok || num < 0 {
		return "", false
	}
	switch unit {
	case "%":
		return strconv.FormatFloat(num, 'f', -1, 64) + "%", true
	case "":
		if num != 0 {
			return "", false
		}
		return "0px", true
	}
	px, ok := absoluteLength(num, unit, fontPx, rootPx)
	if !ok {
		return "", false
	}
	return formatPx(px), true
}

// fontWeight resolves a font-weight value against the parent weight.
func fontWeight(value string, parent float64) (float64, bool) {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "normal":
		return 400, true
	case "bold":
		return 700, true
	case "bolder":
		switch {
		case parent < 350:
			return 400, true
		case parent < 550:
			return 700, true
		case parent < 900:
			return 900, true
		}
		return parent, true
	case "lighter":
		switch {
		case parent < 100:
			return parent, true
		case parent < 550:
			return 100, true
		case parent < 750:
			return 400, true
		}
		return 700, true
	default:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 1 || n > 1000 {
			return 0, false
		}
		return n, true
	}
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

var textTransforms = map[string]bool{
	"none":           true,
	"capitalize":     true,
	"uppercase":      true,
	"lowercase":      true,
	"full-width":     true,
	"full-size-kana": true,
}

func textTransform(value string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	return v, textTransforms[v]
}

var (
	identRe         = regexp.MustCompile(`^-?[_a-zA-Z\x{80}-\x{10FFFF}][_a-zA-Z0-9\x{80}-\x{10FFFF}-]*$`)
	genericFamilies = map[string]bool{
		"serif": true, "sans-serif": true, "monospace": true, "cursive": true,
		"fantasy": true, "system-ui": true, "math": true, "emoji": true,
		"fangsong": true, "ui-serif": true, "ui-sans-serif": true,
		"ui-monospace": true, "ui-rounded": true,
	}
)

// fontFamily normalizes a family list the way Chromium serializes it: names
// that are a single identifier are bare, everything else is double-quoted.
func fontFamily(value string) (string, bool) {
	families := splitTopLevel(value, isComma)
	if len(families) == 0 {
		return "", false
	}

	out := make([]string, 0, len(families))
	for _, f := range families {
		var name string
		if len(f) >= 2 && (f[0] == '"' || f[0] == '\'') && f[len(f)-1] == f[0] {
			name = f[1 : len(f)-1]
		} else {
			name = strings.Join(strings.Fields(f), " ")
			if lower := strings.ToLower(name); genericFamilies[lower] {
				out = append(out, lower)
				continue
			}
		}
		if name == "" {
			return "", false
		}
		if identRe.MatchString(name) {
			out = append(out, name)
		} else {
			out = append(out, `"`+strings.ReplaceAll(name, `"`, `\"`)+`"`)
		}
	}
	return strings.Join(out, ", "), true
}
