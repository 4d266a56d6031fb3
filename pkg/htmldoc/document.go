// Package htmldoc renders computed styles for static HTML without a browser.
//
// Load parses a page, gathers its stylesheets (an embedded user-agent sheet,
// <style> elements, <link rel="stylesheet"> and @import targets) and runs a
// cascade over every element. The result implements dom.Document, reporting
// the subset of properties the extractor reads in the same serialized form
// getComputedStyle uses. Layout is not modeled: percentages in padding are
// reported as written and viewport units are ignored.
package htmldoc

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/sprywebtech/breakdance-styles-extractor/pkg/dom"
	"github.com/sprywebtech/breakdance-styles-extractor/pkg/fetch"
)

// DefaultViewportWidth is the screen width @media queries are evaluated
// against.
const DefaultViewportWidth = 1280

const maxImportDepth = 4

//go:embed ua.css
var userAgentCSS []byte

// Options configures Load.
type Options struct {
	// BaseURL resolves relative stylesheet links. A <base href> in the
	// document takes precedence.
	BaseURL string
	// ContentType is the Content-Type header the page was served with, used
	// to pick its character encoding. Empty means sniff the content.
	ContentType string
	// ViewportWidth is the width used for @media; 0 means
	// DefaultViewportWidth.
	ViewportWidth int
	// Fetcher downloads linked and imported stylesheets. Without one only
	// inline <style> elements and style attributes apply.
	Fetcher fetch.Getter
	Logger  *zap.Logger
}

// Document is a parsed page with computed styles for every element.
type Document struct {
	*dom.Tree
	styles map[*html.Node]dom.Style
}

var _ dom.Document = (*Document)(nil)

// Load parses the HTML read from r and computes the styles of its elements.
// Stylesheets that cannot be fetched are logged and skipped.
func Load(ctx context.Context, r io.Reader, opts Options) (*Document, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("htmldoc")

	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = DefaultViewportWidth
	}

	utf8, err := charset.NewReader(r, opts.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to detect character encoding: %w", err)
	}
	root, err := html.Parse(utf8)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	l := &loader{
		opts: opts,
		log:  log,
	}
	if opts.BaseURL != "" {
		if l.base, err = url.Parse(opts.BaseURL); err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", opts.BaseURL, err)
		}
	}

	rules := l.collect(ctx, root)
	for i, r := range rules {
		r.order = i
	}

	c := newCascade(rules)
	c.run(root, nil, nil)

	doc := &Document{Tree: dom.NewTree(root), styles: c.styles}
	log.Debug("computed styles",
		zap.Int("rules", len(rules)),
		zap.Int("elements", len(doc.Elements())))

	return doc, nil
}

// Parse is Load for an in-memory UTF-8 document without external
// stylesheets.
func Parse(markup string) (*Document, error) {
	return Load(context.Background(), strings.NewReader(markup), Options{ContentType: "text/html; charset=utf-8"})
}

// ComputedStyle returns the computed style of el. Nodes that are not part of
// the document get an empty style.
func (d *Document) ComputedStyle(el *html.Node) dom.Style {
	if s, ok := d.styles[el]; ok {
		return s
	}
	return dom.Style{}
}

// loader gathers the rules of every stylesheet that applies to a document,
// in cascade order.
type loader struct {
	opts Options
	log  *zap.Logger
	base *url.URL
}

// source is a <style> or <link> element in document order.
type source struct {
	text  string // inline CSS; empty for links
	href  string // absolute stylesheet URL for links
	media string
}

func (l *loader) parser(o origin) *sheetParser {
	return &sheetParser{log: l.log, viewport: float64(l.opts.ViewportWidth), origin: o}
}

func (l *loader) collect(ctx context.Context, root *html.Node) []*styleRule {
	rules := l.parser(originUserAgent).parse(userAgentCSS, "user-agent")

	sources := l.sources(root)

	var hrefs []string
	for _, s := range sources {
		if s.href != "" && mediaMatches(s.media, float64(l.opts.ViewportWidth)) {
			hrefs = append(hrefs, s.href)
		}
	}
	bodies := l.download(ctx, hrefs)

	out := rules.rules
	author := l.parser(originAuthor)
	for _, s := range sources {
		if !mediaMatches(s.media, float64(l.opts.ViewportWidth)) {
			l.log.Debug("stylesheet media does not apply", zap.String("media", s.media), zap.String("href", s.href))
			continue
		}
		if s.href == "" {
			out = append(out, l.resolve(ctx, author.parse([]byte(s.text), "<style>"), l.base, 0)...)
			continue
		}
		body, ok := bodies[s.href]
		if !ok {
			continue
		}
		base, _ := url.Parse(s.href)
		out = append(out, l.resolve(ctx, author.parse(body, s.href), base, 0)...)
	}
	return out
}

// sources lists the document's stylesheets in tree order. The first
// <base href> applies to every link, including links that precede it.
func (l *loader) sources(root *html.Node) []source {
	l.applyBase(root)

	var out []source
	dom.Walk(root, func(n *html.Node) {
		switch n.Data {
		case "style":
			var sb strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					sb.WriteString(c.Data)
				}
			}
			media, _ := dom.Attr(n, "media")
			out = append(out, source{text: sb.String(), media: media})
		case "link":
			if !isStylesheetLink(n) {
				return
			}
			href, _ := dom.Attr(n, "href")
			abs := l.absolute(href)
			if abs == "" {
				l.log.Debug("skipping stylesheet with unresolvable href", zap.String("href", href))
				return
			}
			media, _ := dom.Attr(n, "media")
			out = append(out, source{href: abs, media: media})
		}
	})
	return out
}

// applyBase resolves the first <base href> against the page URL and makes
// it the base for stylesheet links.
func (l *loader) applyBase(root *html.Node) {
	var href string
	found := false
	dom.Walk(root, func(n *html.Node) {
		if found || n.Data != "base" {
			return
		}
		href, found = dom.Attr(n, "href")
	})
	if !found {
		return
	}
	if u := l.absolute(href); u != "" {
		l.base, _ = url.Parse(u)
	}
}

func isStylesheetLink(n *html.Node) bool {
	rel, _ := dom.Attr(n, "rel")
	stylesheet, alternate := false, false
	for _, tok := range strings.Fields(strings.ToLower(rel)) {
		switch tok {
		case "stylesheet":
			stylesheet = true
		case "alternate":
			alternate = true
		}
	}
	if _, disabled := dom.Attr(n, "disabled"); disabled {
		return false
	}
	return stylesheet && !alternate
}

// absolute resolves href against the base URL. It returns "" when the
// result is not an absolute URL.
func (l *loader) absolute(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if l.base != nil {
		ref = l.base.ResolveReference(ref)
	}
	if !ref.IsAbs() {
		return ""
	}
	ref.Fragment = ""
	return ref.String()
}

// download fetches hrefs concurrently. Failures are logged and left out of
// the result.
func (l *loader) download(ctx context.Context, hrefs []string) map[string][]byte {
	bodies := make(map[string][]byte, len(hrefs))
	if len(hrefs) == 0 {
		return bodies
	}
	if l.opts.Fetcher == nil {
		l.log.Debug("no fetcher configured, skipping linked stylesheets", zap.Int("count", len(hrefs)))
		return bodies
	}

	for _, res := range fetch.FetchAll(ctx, l.opts.Fetcher, hrefs) {
		if res.Err != nil {
			l.log.Warn("failed to load stylesheet", zap.String("href", res.URL), zap.Error(res.Err))
			continue
		}
		bodies[res.URL] = res.Body
	}
	return bodies
}

// resolve returns the rules of sh preceded by those of its @import targets,
// which are fetched relative to base.
func (l *loader) resolve(ctx context.Context, sh *sheet, base *url.URL, depth int) []*styleRule {
	if len(sh.imports) == 0 {
		return sh.rules
	}
	if depth >= maxImportDepth {
		l.log.Debug("import depth exceeded", zap.Int("imports", len(sh.imports)))
		return sh.rules
	}

	var hrefs []string
	for _, imp := range sh.imports {
		if !mediaMatches(imp.media, float64(l.opts.ViewportWidth)) {
			continue
		}
		ref, err := url.Parse(imp.href)
		if err != nil {
			continue
		}
		if base != nil {
			ref = base.ResolveReference(ref)
		}
		if ref.IsAbs() {
			hrefs = append(hrefs, ref.String())
		}
	}
	bodies := l.download(ctx, hrefs)

	var out []*styleRule
	author := l.parser(originAuthor)
	for _, href := range hrefs {
		body, ok := bodies[href]
		if !ok {
			continue
		}
		u, _ := url.Parse(href)
		out = append(out, l.resolve(ctx, author.parse(body, href), u, depth+1)...)
	}
	return append(out, sh.rules...)
}
