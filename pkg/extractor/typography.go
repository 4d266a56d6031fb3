package extractor

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/sprywebtech/breakdance-styles-extractor/pkg/dom"
	"github.com/sprywebtech/breakdance-styles-extractor/pkg/schema"
)

const fontIDPrefix = "gfont-"

// ExtractTypography reads the body and heading font settings. Each heading
// level falls back to <body> when the document has no element of that level,
// so a document without headings yields six identical heading blocks.
func (e *Extractor) ExtractTypography(doc dom.Document) schema.TypographySettings {
	body := doc.Body()
	if body == nil {
		body = doc.Root()
	}
	bodyStyle := doc.ComputedStyle(body)

	var levels [6]*html.Node
	for i := range levels {
		levels[i] = doc.QuerySelector(headingTags[i])
		if levels[i] == nil {
			levels[i] = body
		}
	}
	h1Style := doc.ComputedStyle(levels[0])

	headingSize := func(i int) schema.Typography[schema.HeadingTypography] {
		el := levels[i]
		return wrapTypography(schema.HeadingTypography{
			FontSize: schema.Breakpoint[schema.LengthValue]{
				Base: ToRem(doc, doc.ComputedStyle(el).Get("font-size"), el),
			},
		})
	}

	return schema.TypographySettings{
		HeadingFont: FontID(h1Style.Get("font-family")),
		BodyFont:    FontID(bodyStyle.Get("font-family")),
		BaseSize: schema.Breakpoint[schema.LengthValue]{
			Base: ToRem(doc, bodyStyle.Get("font-size"), nil),
		},
		Advanced: schema.AdvancedTypography{
			Headings: schema.Headings{
				AllHeadings: wrapTypography(schema.AllHeadingsTypography{
					Advanced: schema.AdvancedText{
						TextTransform: schema.Breakpoint[string]{Base: h1Style.Get("text-transform")},
					},
					FontWeight: schema.Breakpoint[string]{Base: h1Style.Get("font-weight")},
				}),
				H1: headingSize(0),
				H2: headingSize(1),
				H3: headingSize(2),
				H4: headingSize(3),
				H5: headingSize(4),
				H6: headingSize(5),
			},
		},
	}
}

var headingTags = [6]string{"h1", "h2", "h3", "h4", "h5", "h6"}

func wrapTypography[T any](v T) schema.Typography[T] {
	return schema.Typography[T]{
		Typography: schema.CustomTypography[T]{
			Custom: schema.CustomTypographyBlock[T]{CustomTypography: v},
		},
	}
}

// FontID maps a computed font-family list to the page builder's font
// identifier: the first family, unquoted, lowercased, without whitespace,
// prefixed with "gfont-". It does not check that the font is actually hosted.
func FontID(fontFamily string) string {
	first, _, _ := strings.Cut(fontFamily, ",")
	first = strings.NewReplacer(`"`, "", `'`, "").Replace(first)
	first = strings.ToLower(strings.TrimSpace(first))
	first = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, first)
	return fontIDPrefix + first
}
