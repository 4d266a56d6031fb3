package extractor

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sprywebtech/breakdance-styles-extractor/pkg/dom"
	"github.com/sprywebtech/breakdance-styles-extractor/pkg/schema"
)

// ButtonSelector picks the element used as the representative button. The
// first match in document order wins.
const ButtonSelector = `button, .button, .btn, a.cta, [class*="button"]`

// DefaultButtons is returned when the document has no button-like element.
func DefaultButtons() schema.ButtonsSettings {
	return schema.ButtonsSettings{
		Primary: schema.PrimaryButton{
			Size: schema.ButtonSize{
				Size: schema.Breakpoint[string]{Base: "custom"},
				Padding: schema.Breakpoint[schema.ButtonPadding]{
					Base: schema.ButtonPadding{
						Top:    schema.Px(10),
						Bottom: schema.Px(10),
						Left:   schema.Px(20),
						Right:  schema.Px(20),
					},
				},
			},
			Background: "var(--bde-links-color)",
		},
		Secondary: schema.SecondaryButton{
			Outline:       true,
			Color:         "var(--bde-brand-color)",
			NoFillOnHover: true,
		},
	}
}

// ExtractButtons derives primary and secondary button settings from the first
// button-like element. The secondary style reuses the same element's
// foreground color; no secondary button is inspected.
func (e *Extractor) ExtractButtons(doc dom.Document) schema.ButtonsSettings {
	btn := doc.QuerySelector(ButtonSelector)
	if btn == nil {
		e.log.Debug("No button-like element found, using defaults")
		return DefaultButtons()
	}

	e.log.Debug("Using button element", zap.String("tag", btn.Data))
	style := doc.ComputedStyle(btn)

	buttons := DefaultButtons()
	buttons.Primary.Size.Padding.Base = schema.ButtonPadding{
		Top:    paddingSide(style.Get("padding-top"), 10),
		Bottom: paddingSide(style.Get("padding-bottom"), 10),
		Left:   paddingSide(style.Get("padding-left"), 20),
		Right:  paddingSide(style.Get("padding-right"), 20),
	}
	buttons.Primary.Background = strings.ToUpper(RGBToHex(style.Get("background-color")))
	buttons.Secondary.Color = strings.ToUpper(RGBToHex(style.Get("color")))
	return buttons
}

// paddingSide keeps the computed value as the style string but reads only its
// integer part as the number. A zero or unreadable number falls back to def,
// so "0px" becomes {def, "px", "0px"}.
func paddingSide(computed string, def int64) schema.LengthValue {
	fallback := schema.Px(float64(def))

	n, ok := parseInt(computed)
	if !ok || n == 0 {
		n = def
	}

	style := computed
	if style == "" {
		style = fallback.Style
	}
	return schema.LengthValue{Number: float64(n), Unit: "px", Style: style}
}
