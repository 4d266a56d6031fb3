// Package snapshot stores a rendered page as captured from a real browser:
// the serialized HTML plus the computed style of every element. A snapshot
// can be replayed through the extractor without launching the browser again.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/sprywebtech/breakdance-styles-extractor/pkg/dom"
)

// IndexAttr marks each captured element with its position in Styles.
const IndexAttr = "data-bde-index"

// ErrIndexMismatch is returned when the HTML references a style entry the
// snapshot does not have.
var ErrIndexMismatch = errors.New("element index out of range of captured styles")

// Snapshot is the JSON form of a captured page.
type Snapshot struct {
	URL        string              `json:"url"`
	CapturedAt time.Time           `json:"capturedAt"`
	Viewport   int                 `json:"viewport,omitempty"`
	HTML       string              `json:"html"`
	Styles     []map[string]string `json:"styles"`
}

// Decode reads a snapshot from r.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if s.HTML == "" {
		return nil, errors.New("snapshot has no html")
	}
	return &s, nil
}

// Encode writes s as indented JSON.
func (s *Snapshot) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// Document parses the captured HTML and binds every indexed element to its
// captured style.
func (s *Snapshot) Document() (*Document, error) {
	root, err := html.Parse(strings.NewReader(s.HTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot html: %w", err)
	}

	d := &Document{
		Tree:   dom.NewTree(root),
		styles: make(map[*html.Node]dom.Style),
	}
	for _, el := range d.Elements() {
		raw, ok := dom.Attr(el, IndexAttr)
		if !ok {
			continue
		}
		i, err := strconv.Atoi(raw)
		if err != nil || i < 0 || i >= len(s.Styles) {
			return nil, fmt.Errorf("<%s %s=%q>: %w", el.Data, IndexAttr, raw, ErrIndexMismatch)
		}
		d.styles[el] = dom.Style(s.Styles[i])
	}
	return d, nil
}

// Document is a dom.Document backed by captured styles.
type Document struct {
	*dom.Tree
	styles map[*html.Node]dom.Style
}

var _ dom.Document = (*Document)(nil)

// ComputedStyle returns the captured style of el, or an empty style for
// elements the capture did not index.
func (d *Document) ComputedStyle(el *html.Node) dom.Style {
	if s, ok := d.styles[el]; ok && s != nil {
		return s
	}
	return dom.Style{}
}
