package formatter

import (
	"fmt"
	"strings"

	"github.com/sprywebtech/breakdance-styles-extractor/pkg/schema"
)

// ToMarkdown renders extracted global settings as a human-readable report.
// The report lists every color role, the palette, the button preset and the
// typography scale, each as CSS custom properties named the way Breakdance
// exposes them (--bde-brand-color, --bde-links-color, ...), so the values can
// be reviewed or pasted into a stylesheet before importing the JSON.
func ToMarkdown(result *schema.ExtractionResult, source string) string {
	var sb strings.Builder
	s := result.Settings

	sb.WriteString(fmt.Sprintf("# Breakdance Global Settings - %s\n\n", source))
	sb.WriteString("Styles extracted from the rendered page. Import the JSON file through Breakdance > Global Settings.\n\n")

	// Colors
	sb.WriteString("## Colors\n\n")
	sb.WriteString("| Role | Value |\n")
	sb.WriteString("|------|-------|\n")
	roles := []struct{ name, value string }{
		{"Brand", s.Colors.Brand},
		{"Text", s.Colors.Text},
		{"Headings", s.Colors.Headings},
		{"Links", s.Colors.Links},
		{"Background", s.Colors.Background},
	}
	for _, r := range roles {
		sb.WriteString(fmt.Sprintf("| %s | `%s` |\n", r.name, r.value))
	}
	sb.WriteString("\n")

	sb.WriteString("```css\n")
	for _, r := range roles {
		sb.WriteString(fmt.Sprintf("--bde-%s-color: %s;\n", strings.ToLower(r.name), r.value))
	}
	if len(s.Colors.Palette.Colors) > 0 {
		sb.WriteString("\n/* Palette */\n")
		for _, c := range s.Colors.Palette.Colors {
			sb.WriteString(fmt.Sprintf("--%s: %s; /* %s */\n", c.CSSVariableName, c.Value, c.Label))
		}
	}
	sb.WriteString("```\n\n")

	// Buttons
	primary := s.Buttons.Primary
	pad := primary.Size.Padding.Base
	sb.WriteString("## Buttons\n\n")
	sb.WriteString("```css\n")
	sb.WriteString("/* Primary */\n")
	sb.WriteString(fmt.Sprintf("--bde-button-padding: %s %s %s %s;\n", pad.Top.Style, pad.Right.Style, pad.Bottom.Style, pad.Left.Style))
	sb.WriteString(fmt.Sprintf("--bde-button-primary-background: %s;\n", primary.Background))
	sb.WriteString("\n/* Secondary */\n")
	sb.WriteString(fmt.Sprintf("--bde-button-secondary-color: %s;\n", s.Buttons.Secondary.Color))
	sb.WriteString("```\n\n")

	secondary := "filled"
	if s.Buttons.Secondary.Outline {
		secondary = "outline"
	}
	if s.Buttons.Secondary.NoFillOnHover {
		secondary += ", no fill on hover"
	}
	sb.WriteString(fmt.Sprintf("- **Size preset**: %s\n", primary.Size.Size.Base))
	sb.WriteString(fmt.Sprintf("- **Secondary style**: %s\n\n", secondary))

	// Typography
	t := s.Typography
	all := t.Advanced.Headings.AllHeadings.Typography.Custom.CustomTypography
	sb.WriteString("## Typography\n\n")
	sb.WriteString("```css\n")
	sb.WriteString(fmt.Sprintf("--bde-heading-font: %s;\n", t.HeadingFont))
	sb.WriteString(fmt.Sprintf("--bde-body-font: %s;\n", t.BodyFont))
	sb.WriteString(fmt.Sprintf("--bde-base-size: %s;\n", t.BaseSize.Base.Style))
	sb.WriteString(fmt.Sprintf("--bde-headings-font-weight: %s;\n", all.FontWeight.Base))
	sb.WriteString(fmt.Sprintf("--bde-headings-text-transform: %s;\n", all.Advanced.TextTransform.Base))
	sb.WriteString("```\n\n")

	sb.WriteString("| Heading | Font Size |\n")
	sb.WriteString("|---------|-----------|\n")
	h := t.Advanced.Headings
	for i, level := range []schema.Typography[schema.HeadingTypography]{h.H1, h.H2, h.H3, h.H4, h.H5, h.H6} {
		sb.WriteString(fmt.Sprintf("| H%d | %s |\n", i+1, level.Typography.Custom.CustomTypography.FontSize.Base.Style))
	}
	sb.WriteString("\n")

	return sb.String()
}
