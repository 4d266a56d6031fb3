// Package dom defines the queryable, styled document the extractor reads from.
//
// A Document pairs an HTML element tree with a computed-style resolver. Two
// implementations live in this module: htmldoc (a static HTML+CSS cascade)
// and snapshot (styles captured from a real browser).
package dom

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Document is the read-only view the extractor needs from a rendered page.
type Document interface {
	// Root returns the document element (<html>).
	Root() *html.Node
	// Body returns the <body> element, or nil when the document has none.
	Body() *html.Node
	// Elements returns every element in document order, like
	// querySelectorAll("*").
	Elements() []*html.Node
	// QuerySelector returns the first element in document order matching
	// the selector group, or nil. Invalid selectors match nothing.
	QuerySelector(selector string) *html.Node
	// ComputedStyle returns the resolved style of el. It never returns nil.
	ComputedStyle(el *html.Node) Style
}

// Properties are the computed properties the extractor reads. Document
// implementations report at least these.
var Properties = []string{
	"color",
	"background-color",
	"font-family",
	"font-size",
	"font-weight",
	"text-transform",
	"padding-top",
	"padding-right",
	"padding-bottom",
	"padding-left",
}

// Style holds computed property values keyed by CSS property name
// ("background-color", "font-size", ...), serialized the way a browser's
// getComputedStyle reports them.
type Style map[string]string

// Get returns the value of prop, or "" when it is not set.
func (s Style) Get(prop string) string {
	if s == nil {
		return ""
	}
	return s[prop]
}

// Tree implements the structural half of Document over an x/net/html tree:
// element enumeration and selector queries. Style resolution is left to the
// embedding type.
type Tree struct {
	doc      *html.Node
	root     *html.Node
	body     *html.Node
	elements []*html.Node
}

// NewTree indexes the tree rooted at doc, which is usually the
// html.DocumentNode returned by html.Parse.
func NewTree(doc *html.Node) *Tree {
	t := &Tree{doc: doc}
	Walk(doc, func(n *html.Node) {
		t.elements = append(t.elements, n)
		switch {
		case t.root == nil:
			t.root = n
		case t.body == nil && n.Data == "body":
			t.body = n
		}
	})
	return t
}

// Root returns the first element of the tree.
func (t *Tree) Root() *html.Node { return t.root }

// Body returns the first <body> element.
func (t *Tree) Body() *html.Node { return t.body }

// Elements returns all elements in document order.
func (t *Tree) Elements() []*html.Node { return t.elements }

// QuerySelector returns the first element matching selector.
func (t *Tree) QuerySelector(selector string) *html.Node {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil
	}
	for _, el := range t.elements {
		if sel.Match(el) {
			return el
		}
	}
	return nil
}

// Walk calls fn for every element node under n in document pre-order. The
// content of <template> elements is inert and not visited, matching what
// querySelectorAll sees in a browser.
func Walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
		if n.Data == "template" && n.Namespace == "" {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, fn)
	}
}

// Attr returns the value of the named attribute on n.
func Attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}
