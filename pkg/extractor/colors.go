package extractor

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sprywebtech/breakdance-styles-extractor/pkg/dom"
	"github.com/sprywebtech/breakdance-styles-extractor/pkg/schema"
)

// Fallback colors used when the page yields fewer distinct colors than there
// are roles.
const (
	DefaultBrandColor      = "#5D4396FF"
	DefaultTextColor       = "#4E4A58FF"
	DefaultHeadingsColor   = "#121212FF"
	DefaultLinksColor      = "#2E78DAFF"
	DefaultBackgroundColor = "#FFFFFFFF"
)

const (
	transparentSentinel = "rgba(0, 0, 0, 0)"
	transparentHex      = "#00000000"
	maxPaletteColors    = 2
	paletteOffset       = 4
	suffixLength        = 9
)

// OrderedSet is a set of strings that remembers insertion order.
type OrderedSet struct {
	index map[string]struct{}
	items []string
}

// NewOrderedSet returns an empty set.
func NewOrderedSet() *OrderedSet {
	return &OrderedSet{index: make(map[string]struct{})}
}

// Add inserts v unless it is already present and reports whether it was new.
func (s *OrderedSet) Add(v string) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// Len returns the number of distinct values.
func (s *OrderedSet) Len() int { return len(s.items) }

// Values returns the values in insertion order.
func (s *OrderedSet) Values() []string {
	return append([]string(nil), s.items...)
}

// ExtractColors walks every element of doc, collects distinct foreground and
// background colors in traversal order and assigns them to roles by position:
// brand, text, headings, links, then up to two additional palette colors.
//
// The assignment is a heuristic: it follows document order, not saliency, so
// the same page may rank differently in another browser.
func (e *Extractor) ExtractColors(doc dom.Document) schema.ColorsSettings {
	colors := NewOrderedSet()

	for _, el := range doc.Elements() {
		style := doc.ComputedStyle(el)
		if fg := style.Get("color"); fg != "" {
			colors.Add(strings.ToUpper(RGBToHex(fg)))
		}
		if bg := style.Get("background-color"); bg != "" && bg != transparentSentinel {
			colors.Add(strings.ToUpper(RGBToHex(bg)))
		}
	}

	ranked := make([]string, 0, colors.Len())
	for _, c := range colors.Values() {
		if c != transparentHex {
			ranked = append(ranked, c)
		}
	}

	e.log.Debug("Collected colors", zap.Int("distinct", len(ranked)), zap.Strings("colors", ranked))

	settings := schema.ColorsSettings{
		Brand:      colorAt(ranked, 0, DefaultBrandColor),
		Text:       colorAt(ranked, 1, DefaultTextColor),
		Headings:   colorAt(ranked, 2, DefaultHeadingsColor),
		Links:      colorAt(ranked, 3, DefaultLinksColor),
		Background: DefaultBackgroundColor,
		Palette: schema.Palette{
			Colors:    []schema.PaletteEntry{},
			Gradients: []string{},
		},
	}

	for i := 0; i < maxPaletteColors && paletteOffset+i < len(ranked); i++ {
		settings.Palette.Colors = append(settings.Palette.Colors, schema.PaletteEntry{
			CSSVariableName: fmt.Sprintf("bde-palette-color-%d-%s", i+1, e.newSuffix()),
			Label:           fmt.Sprintf("Additional Color %d", i+1),
			Value:           ranked[paletteOffset+i],
		})
	}

	return settings
}

func colorAt(colors []string, i int, fallback string) string {
	if i < len(colors) && colors[i] != "" {
		return colors[i]
	}
	return fallback
}

// RandomSuffix returns nine random base-36 characters drawn from a version 4
// UUID. Collisions within one run are practically impossible.
func RandomSuffix() string {
	id := uuid.New()
	s := strconv.FormatUint(binary.BigEndian.Uint64(id[:8]), 36)
	for len(s) < suffixLength {
		s = "0" + s
	}
	return s[:suffixLength]
}
