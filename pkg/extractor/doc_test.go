package extractor

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/sprywebtech/breakdance-styles-extractor/pkg/dom"
)

// fakeDoc is a dom.Document whose computed styles are read verbatim from each
// element's data-css attribute ("prop: value; prop: value").
type fakeDoc struct {
	*dom.Tree
	styles map[*html.Node]dom.Style
}

func newFakeDoc(t *testing.T, markup string) *fakeDoc {
	t.Helper()

	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse markup: %v", err)
	}

	d := &fakeDoc{Tree: dom.NewTree(root), styles: make(map[*html.Node]dom.Style)}
	for _, el := range d.Elements() {
		style := dom.Style{}
		if css, ok := dom.Attr(el, "data-css"); ok {
			for _, decl := range strings.Split(css, ";") {
				prop, value, found := strings.Cut(decl, ":")
				if !found {
					continue
				}
				style[strings.TrimSpace(prop)] = strings.TrimSpace(value)
			}
		}
		d.styles[el] = style
	}
	return d
}

func (d *fakeDoc) ComputedStyle(el *html.Node) dom.Style {
	if s, ok := d.styles[el]; ok {
		return s
	}
	return dom.Style{}
}

func fixedSuffix() string { return "abc123xyz" }
