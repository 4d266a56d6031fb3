package htmldoc

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/sprywebtech/breakdance-styles-extractor/pkg/dom"
)

func mustParse(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := Parse(markup)
	require.NoError(t, err)
	return doc
}

func styleOf(t *testing.T, doc *Document, selector string) map[string]string {
	t.Helper()
	el := doc.QuerySelector(selector)
	require.NotNil(t, el, "no element matches %q", selector)
	return doc.ComputedStyle(el)
}

func TestUserAgentDefaults(t *testing.T) {
	doc := mustParse(t, `<!doctype html><html><body>
<h1>a</h1><h2>b</h2><h3>c</h3><h4>d</h4><h5>e</h5><h6>f</h6>
<p>text <strong>bold</strong></p><a href="/x">link</a><a>anchor</a><button>go</button>
</body></html>`)

	root := doc.ComputedStyle(doc.Root())
	assert.Equal(t, "rgb(0, 0, 0)", root["color"])
	assert.Equal(t, "rgba(0, 0, 0, 0)", root["background-color"])
	assert.Equal(t, `"Times New Roman"`, root["font-family"])
	assert.Equal(t, "16px", root["font-size"])
	assert.Equal(t, "400", root["font-weight"])
	assert.Equal(t, "none", root["text-transform"])
	assert.Equal(t, "0px", root["padding-top"])

	sizes := map[string]string{
		"h1": "32px", "h2": "24px", "h3": "18.72px",
		"h4": "16px", "h5": "13.28px", "h6": "10.72px",
	}
	for tag, want := range sizes {
		s := styleOf(t, doc, tag)
		assert.Equal(t, want, s["font-size"], tag)
		assert.Equal(t, "700", s["font-weight"], tag)
	}

	assert.Equal(t, "700", styleOf(t, doc, "strong")["font-weight"])
	assert.Equal(t, "rgb(0, 0, 238)", styleOf(t, doc, "a[href]")["color"])
	assert.Equal(t, "rgb(0, 0, 0)", styleOf(t, doc, "a:not([href])")["color"])

	button := styleOf(t, doc, "button")
	assert.Equal(t, "1px", button["padding-top"])
	assert.Equal(t, "6px", button["padding-left"])
	assert.Equal(t, "rgb(239, 239, 239)", button["background-color"])
	assert.Equal(t, "13.3333px", button["font-size"])
}

func TestCascadeOrder(t *testing.T) {
	doc := mustParse(t, `<html><head><style>
#x { color: red }
.a { color: blue !important }
p { color: green; padding: 4px 8px }
p.a { padding-left: 2em }
.b { color: red }
.b { color: lime }
.c { color: red !important }
</style></head><body>
<p id="x" class="a" style="color: yellow">important author beats inline</p>
<div class="b">later rule wins</div>
<span class="c" style="color: rgb(1, 2, 3) !important">important inline wins</span>
<em id="x" style="background-color: #abc">inline</em>
</body></html>`)

	p := styleOf(t, doc, "p")
	assert.Equal(t, "rgb(0, 0, 255)", p["color"])
	assert.Equal(t, "4px", p["padding-top"])
	assert.Equal(t, "8px", p["padding-right"])
	assert.Equal(t, "4px", p["padding-bottom"])
	assert.Equal(t, "32px", p["padding-left"])

	assert.Equal(t, "rgb(0, 255, 0)", styleOf(t, doc, "div.b")["color"])
	assert.Equal(t, "rgb(1, 2, 3)", styleOf(t, doc, "span.c")["color"])

	em := styleOf(t, doc, "em")
	assert.Equal(t, "rgb(255, 0, 0)", em["color"])
	assert.Equal(t, "rgb(170, 187, 204)", em["background-color"])
}

func TestInheritanceAndRelativeSizes(t *testing.T) {
	doc := mustParse(t, `<html><head><style>
html { font-size: 20px; color: #333; font-family: Open Sans, Arial, SANS-SERIF }
body { font-size: 1.5rem; font-weight: bold; text-transform: uppercase }
div { font-size: 50%; padding: 1em }
span { font-size: 2em; font-weight: bolder; color: inherit; background-color: currentColor }
i { font-size: larger; font-weight: lighter; padding: 1rem 5% }
</style></head><body><div><span>x</span><i>y</i></div></body></html>`)

	body := styleOf(t, doc, "body")
	assert.Equal(t, "30px", body["font-size"])
	assert.Equal(t, "rgb(51, 51, 51)", body["color"])
	assert.Equal(t, `"Open Sans", Arial, sans-serif`, body["font-family"])
	assert.Equal(t, "uppercase", body["text-transform"])
	assert.Equal(t, "0px", body["padding-top"], "padding is not inherited")

	div := styleOf(t, doc, "div")
	assert.Equal(t, "15px", div["font-size"])
	assert.Equal(t, "15px", div["padding-left"])

	span := styleOf(t, doc, "span")
	assert.Equal(t, "30px", span["font-size"])
	assert.Equal(t, "900", span["font-weight"])
	assert.Equal(t, "rgb(51, 51, 51)", span["background-color"])

	i := styleOf(t, doc, "i")
	assert.Equal(t, "18px", i["font-size"])
	assert.Equal(t, "400", i["font-weight"])
	assert.Equal(t, "20px", i["padding-top"])
	assert.Equal(t, "5%", i["padding-left"])
}

func TestCustomProperties(t *testing.T) {
	doc := mustParse(t, `<html><head><style>
:root { --brand: #5d4396; --pad: 12px; --alias: var(--brand) }
body { color: rgb(9, 9, 9) }
.btn { background: var(--alias) url(bg.png) no-repeat; color: var(--missing, rgb(1, 2, 3)); padding: var(--pad) 20px }
.scoped { --brand: tomato }
.bad { color: red; color: var(--missing) }
</style></head><body>
<a class="btn">go</a>
<section class="scoped"><a class="btn">nested</a></section>
<p class="bad">x</p>
</body></html>`)

	btn := styleOf(t, doc, "body > a.btn")
	assert.Equal(t, "rgb(93, 67, 150)", btn["background-color"])
	assert.Equal(t, "rgb(1, 2, 3)", btn["color"])
	assert.Equal(t, "12px", btn["padding-top"])
	assert.Equal(t, "20px", btn["padding-right"])

	// The alias resolves where it is used, so the overridden --brand wins.
	assert.Equal(t, "rgb(255, 99, 71)", styleOf(t, doc, ".scoped .btn")["background-color"])

	// An unresolvable var() makes the declaration behave as unset.
	assert.Equal(t, "rgb(9, 9, 9)", styleOf(t, doc, "p.bad")["color"])
}

func TestMediaQueries(t *testing.T) {
	const markup = `<html><head><style>
p { color: black }
@media (min-width: 1000px) { p { color: red } }
@media screen and (max-width: 600px) { p { color: blue } }
@media print { p { color: green } }
@media not print { p { background-color: white } }
</style>
<style media="(width < 700px)">p { padding-top: 3px }</style>
</head><body><p>x</p></body></html>`

	tests := []struct {
		name       string
		width      int
		color      string
		paddingTop string
	}{
		{name: "default desktop width", width: 0, color: "rgb(255, 0, 0)", paddingTop: "0px"},
		{name: "narrow viewport", width: 500, color: "rgb(0, 0, 255)", paddingTop: "3px"},
		{name: "between breakpoints", width: 800, color: "rgb(0, 0, 0)", paddingTop: "0px"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Load(context.Background(), strings.NewReader(markup), Options{ViewportWidth: tt.width})
			require.NoError(t, err)

			p := styleOf(t, doc, "p")
			assert.Equal(t, tt.color, p["color"])
			assert.Equal(t, "rgb(255, 255, 255)", p["background-color"])
			assert.Equal(t, tt.paddingTop, p["padding-top"])
		})
	}
}

func TestFontShorthand(t *testing.T) {
	doc := mustParse(t, `<html><head><style>
p { font: italic bold 12px/30px Georgia, serif }
h2 { font: 1.25rem "Open Sans", sans-serif }
h3 { font: 700 14px / 1.4 'Roboto' }
h4 { font: caption; font-size: 10px }
</style></head><body><p>a</p><h2>b</h2><h3>c</h3><h4>d</h4></body></html>`)

	p := styleOf(t, doc, "p")
	assert.Equal(t, "12px", p["font-size"])
	assert.Equal(t, "700", p["font-weight"])
	assert.Equal(t, "Georgia, serif", p["font-family"])

	h2 := styleOf(t, doc, "h2")
	assert.Equal(t, "20px", h2["font-size"])
	assert.Equal(t, "400", h2["font-weight"])
	assert.Equal(t, `"Open Sans", sans-serif`, h2["font-family"])

	h3 := styleOf(t, doc, "h3")
	assert.Equal(t, "14px", h3["font-size"])
	assert.Equal(t, "700", h3["font-weight"])
	assert.Equal(t, "Roboto", h3["font-family"])

	h4 := styleOf(t, doc, "h4")
	assert.Equal(t, "10px", h4["font-size"])
	assert.Equal(t, "700", h4["font-weight"], "system font keyword is ignored")
}

func TestUnsupportedSelectorsAreSkipped(t *testing.T) {
	doc := mustParse(t, `<html><head><style>
p::before { color: red }
.x, a:frobnicate { color: lime }
p { color: navy }
</style></head><body><p>x</p><a class="x">y</a></body></html>`)

	assert.Equal(t, "rgb(0, 0, 128)", styleOf(t, doc, "p")["color"])
	assert.Equal(t, "rgb(0, 255, 0)", styleOf(t, doc, "a.x")["color"])
}

func TestInvalidDeclarationFallsBack(t *testing.T) {
	doc := mustParse(t, `<html><head><style>
p { color: rgb(1, 2, 3) }
p { color: not-a-color; font-size: huge; padding-top: -4px; font-weight: 1200 }
</style></head><body><p>x</p></body></html>`)

	p := styleOf(t, doc, "p")
	assert.Equal(t, "rgb(1, 2, 3)", p["color"])
	assert.Equal(t, "16px", p["font-size"])
	assert.Equal(t, "0px", p["padding-top"])
	assert.Equal(t, "400", p["font-weight"])
}

type mapFetcher map[string]string

func (m mapFetcher) Get(_ context.Context, rawURL string) ([]byte, error) {
	body, ok := m[rawURL]
	if !ok {
		return nil, fmt.Errorf("not found: %s", rawURL)
	}
	return []byte(body), nil
}

func TestLinkedStylesheets(t *testing.T) {
	fetcher := mapFetcher{
		"https://example.com/css/site.css":  `@import "theme.css"; @import url(print.css) print; body { color: #333 }`,
		"https://example.com/css/theme.css": `body { color: red; background: #fafafa url(noise.png) }`,
		"https://example.com/css/print.css": `body { padding: 9px }`,
		"https://cdn.example.net/fonts.css": `h1 { font-family: "Playfair Display", serif }`,
	}
	markup := `<html><head>
<link rel="stylesheet" href="/css/site.css">
<link rel="stylesheet" href="missing.css">
<link rel="alternate stylesheet" href="https://cdn.example.net/fonts.css">
<link rel="preload stylesheet" href="https://cdn.example.net/fonts.css">
<style>h1 { color: #010101 }</style>
</head><body><h1>t</h1></body></html>`

	doc, err := Load(context.Background(), strings.NewReader(markup), Options{
		BaseURL: "https://example.com/blog/post/",
		Fetcher: fetcher,
	})
	require.NoError(t, err)

	body := styleOf(t, doc, "body")
	assert.Equal(t, "rgb(51, 51, 51)", body["color"])
	assert.Equal(t, "rgb(250, 250, 250)", body["background-color"])
	assert.Equal(t, "0px", body["padding-top"], "print-only import must not apply")

	h1 := styleOf(t, doc, "h1")
	assert.Equal(t, `"Playfair Display", serif`, h1["font-family"])
	assert.Equal(t, "rgb(1, 1, 1)", h1["color"])
}

func TestLinkedStylesheetsWithoutFetcher(t *testing.T) {
	doc, err := Load(context.Background(), strings.NewReader(
		`<html><head><link rel="stylesheet" href="https://example.com/a.css"></head><body></body></html>`),
		Options{})
	require.NoError(t, err)
	assert.Equal(t, "rgb(0, 0, 0)", styleOf(t, doc, "body")["color"])
}

func TestDocumentStructure(t *testing.T) {
	doc := mustParse(t, `<p>fragment</p>`)

	els := doc.Elements()
	require.NotEmpty(t, els)
	assert.Equal(t, "html", els[0].Data)
	require.NotNil(t, doc.Body())
	assert.Equal(t, "body", doc.Body().Data)

	for _, el := range els {
		style := doc.ComputedStyle(el)
		for _, prop := range dom.Properties {
			assert.NotEmpty(t, style[prop], "%s %s", el.Data, prop)
		}
	}

	detached := &html.Node{Type: html.ElementNode, Data: "div"}
	style := doc.ComputedStyle(detached)
	assert.NotNil(t, style)
	assert.Empty(t, style)
}

func TestLoadDecodesCharset(t *testing.T) {
	// "café" in ISO-8859-1, declared through a meta tag.
	markup := "<html><head><meta charset=\"iso-8859-1\"><style>p { font-family: Caf\xe9 }</style></head><body><p>x</p></body></html>"

	doc, err := Load(context.Background(), strings.NewReader(markup), Options{})
	require.NoError(t, err)
	assert.Equal(t, "Café", styleOf(t, doc, "p")["font-family"])
}

func TestBaseAppliesToEarlierLinks(t *testing.T) {
	fetcher := mapFetcher{
		"https://cdn.example.net/assets/site.css": `body { color: #333 }`,
	}
	markup := `<html><head>
<link rel="stylesheet" href="site.css">
<base href="https://cdn.example.net/assets/">
<base href="https://ignored.example.org/">
</head><body></body></html>`

	doc, err := Load(context.Background(), strings.NewReader(markup), Options{
		BaseURL: "https://example.com/",
		Fetcher: fetcher,
	})
	require.NoError(t, err)
	assert.Equal(t, "rgb(51, 51, 51)", styleOf(t, doc, "body")["color"])
}

func TestTemplateContentIsInert(t *testing.T) {
	doc := mustParse(t, `<html><head></head><body>
<template><style>body { color: red }</style><button>later</button></template>
<p>hi</p></body></html>`)

	assert.Equal(t, "rgb(0, 0, 0)", styleOf(t, doc, "body")["color"])
	assert.Nil(t, doc.QuerySelector("button"))
	for _, el := range doc.Elements() {
		assert.NotEqual(t, "button", el.Data)
		assert.NotEqual(t, "style", el.Data)
	}
}
