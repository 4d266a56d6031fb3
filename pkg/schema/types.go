package schema

// ExtractionResult is the complete global-settings document written to
// breakdance-global-settings.json. It has exactly one top-level key.
type ExtractionResult struct {
	Settings Settings `json:"settings"`
}

// Settings groups the three extracted settings sections in the order the
// page builder expects them.
type Settings struct {
	Colors     ColorsSettings     `json:"colors"`
	Buttons    ButtonsSettings    `json:"buttons"`
	Typography TypographySettings `json:"typography"`
}

// LengthValue is a number with a unit, plus its CSS rendering in Style.
// Style is always the number immediately followed by the unit.
type LengthValue struct {
	Number float64 `json:"number"`
	Unit   string  `json:"unit"`
	Style  string  `json:"style"`
}

// ColorsSettings holds the semantic color roles and the additional palette.
// Every color is an uppercase #RRGGBBAA string.
type ColorsSettings struct {
	Brand      string  `json:"brand"`
	Text       string  `json:"text"`
	Headings   string  `json:"headings"`
	Links      string  `json:"links"`
	Background string  `json:"background"`
	Palette    Palette `json:"palette"`
}

// Palette lists additional colors. Gradients is always empty but present.
type Palette struct {
	Colors    []PaletteEntry `json:"colors"`
	Gradients []string       `json:"gradients"`
}

// PaletteEntry is one additional palette color. CSSVariableName is unique
// within a single extraction run only.
type PaletteEntry struct {
	CSSVariableName string `json:"cssVariableName"`
	Label           string `json:"label"`
	Value           string `json:"value"`
}

// ButtonsSettings describes primary and secondary button styling.
type ButtonsSettings struct {
	Primary   PrimaryButton   `json:"primary"`
	Secondary SecondaryButton `json:"secondary"`
}

// PrimaryButton carries the padding block and the background color, which is
// either a #RRGGBBAA value or a CSS variable reference.
type PrimaryButton struct {
	Size       ButtonSize `json:"size"`
	Background string     `json:"background"`
}

// ButtonSize is the "custom" size preset with explicit paddings.
type ButtonSize struct {
	Size    Breakpoint[string]        `json:"size"`
	Padding Breakpoint[ButtonPadding] `json:"padding"`
}

// ButtonPadding holds the four padding sides in pixels.
type ButtonPadding struct {
	Top    LengthValue `json:"top"`
	Bottom LengthValue `json:"bottom"`
	Left   LengthValue `json:"left"`
	Right  LengthValue `json:"right"`
}

// SecondaryButton is synthesized from the primary button's foreground color.
type SecondaryButton struct {
	Outline       bool   `json:"outline"`
	Color         string `json:"color"`
	NoFillOnHover bool   `json:"no_fill_on_hover"`
}

// Breakpoint wraps a value set for the base breakpoint.
type Breakpoint[T any] struct {
	Base T `json:"breakpoint_base"`
}

// TypographySettings holds font identifiers, the body base size and the
// per-heading overrides.
type TypographySettings struct {
	HeadingFont string                  `json:"heading_font"`
	BodyFont    string                  `json:"body_font"`
	BaseSize    Breakpoint[LengthValue] `json:"base_size"`
	Advanced    AdvancedTypography      `json:"advanced"`
}

// AdvancedTypography wraps the headings block.
type AdvancedTypography struct {
	Headings Headings `json:"headings"`
}

// Headings holds the block shared by all headings and one block per level.
type Headings struct {
	AllHeadings Typography[AllHeadingsTypography] `json:"all_headings"`
	H1          Typography[HeadingTypography]     `json:"h1"`
	H2          Typography[HeadingTypography]     `json:"h2"`
	H3          Typography[HeadingTypography]     `json:"h3"`
	H4          Typography[HeadingTypography]     `json:"h4"`
	H5          Typography[HeadingTypography]     `json:"h5"`
	H6          Typography[HeadingTypography]     `json:"h6"`
}

// Typography is the typography.custom.customTypography nesting the page
// builder uses for every text style block.
type Typography[T any] struct {
	Typography CustomTypography[T] `json:"typography"`
}

// CustomTypography is the "custom" level of the nesting.
type CustomTypography[T any] struct {
	Custom CustomTypographyBlock[T] `json:"custom"`
}

// CustomTypographyBlock is the innermost wrapper holding the actual values.
type CustomTypographyBlock[T any] struct {
	CustomTypography T `json:"customTypography"`
}

// AllHeadingsTypography carries text-transform and font-weight shared by all
// heading levels.
type AllHeadingsTypography struct {
	Advanced   AdvancedText       `json:"advanced"`
	FontWeight Breakpoint[string] `json:"fontWeight"`
}

// AdvancedText holds the text-transform value.
type AdvancedText struct {
	TextTransform Breakpoint[string] `json:"textTransform"`
}

// HeadingTypography carries a single heading level's font size.
type HeadingTypography struct {
	FontSize Breakpoint[LengthValue] `json:"fontSize"`
}
