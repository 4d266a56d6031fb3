package extractor

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/sprywebtech/breakdance-styles-extractor/pkg/dom"
	"github.com/sprywebtech/breakdance-styles-extractor/pkg/schema"
)

const (
	defaultRootFontSize = 16.0
	pointsToPixels      = 1.333
)

var (
	lengthPattern = regexp.MustCompile(`^([-\d.]+)(.*)$`)
	floatPrefix   = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	intPrefix     = regexp.MustCompile(`^[+-]?\d+`)
)

// ToRem converts a CSS length such as "24px", "1.5em" or "12pt" into rem,
// relative to the root element's font size. Contextual units (em, %) are
// resolved against ctx, or the document root when ctx is nil.
//
// ToRem never fails: empty or unparseable input yields exactly 1rem, and
// unknown units are taken as pixel-equivalent.
func ToRem(doc dom.Document, raw string, ctx *html.Node) schema.LengthValue {
	if raw == "" {
		return schema.Rem(1)
	}

	match := lengthPattern.FindStringSubmatch(raw)
	if match == nil {
		return schema.Rem(1)
	}

	num, ok := parseFloat(match[1])
	if !ok {
		return schema.Rem(1)
	}

	unit := match[2]
	if unit == "" {
		unit = "px"
	}

	if ctx == nil {
		ctx = doc.Root()
	}

	switch unit {
	case "px":
	case "em":
		num *= fontSizePx(doc, ctx)
	case "%":
		num = (num / 100) * fontSizePx(doc, ctx)
	case "pt":
		num *= pointsToPixels
	case "rem":
		num *= fontSizePx(doc, doc.Root())
	}

	root := fontSizePx(doc, doc.Root())
	if root == 0 {
		root = defaultRootFontSize
	}

	return schema.Rem(roundTo2(num / root))
}

// fontSizePx returns the computed font size of el in pixels, falling back to
// the default root size when it cannot be resolved.
func fontSizePx(doc dom.Document, el *html.Node) float64 {
	if el == nil {
		return defaultRootFontSize
	}
	size, ok := parseFloat(doc.ComputedStyle(el).Get("font-size"))
	if !ok {
		return defaultRootFontSize
	}
	return size
}

// roundTo2 rounds half up (toward +Inf) to two decimals.
func roundTo2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// parseFloat reads the longest leading decimal number of s, ignoring leading
// whitespace and any trailing garbage.
func parseFloat(s string) (float64, bool) {
	prefix := floatPrefix.FindString(strings.TrimLeft(s, " \t\n\r\f"))
	if prefix == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseInt reads the leading base-10 integer of s.
func parseInt(s string) (int64, bool) {
	prefix := intPrefix.FindString(strings.TrimLeft(s, " \t\n\r\f"))
	if prefix == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
