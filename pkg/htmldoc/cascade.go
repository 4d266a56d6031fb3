package htmldoc

import (
	"cmp"
	"slices"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/sprywebtech/breakdance-styles-extractor/pkg/dom"
)

const maxVarDepth = 16

// ruleIndex buckets rules by the id, class or tag their rightmost compound
// selector requires, so an element is only matched against rules that can
// apply to it.
type ruleIndex struct {
	byID      map[string][]*styleRule
	byClass   map[string][]*styleRule
	byTag     map[string][]*styleRule
	universal []*styleRule
}

func newRuleIndex(rules []*styleRule) *ruleIndex {
	ix := &ruleIndex{
		byID:    make(map[string][]*styleRule),
		byClass: make(map[string][]*styleRule),
		byTag:   make(map[string][]*styleRule),
	}
	for _, r := range rules {
		switch kind, key := selectorKey(r.selector); kind {
		case '#':
			ix.byID[key] = append(ix.byID[key], r)
		case '.':
			ix.byClass[key] = append(ix.byClass[key], r)
		case 't':
			ix.byTag[key] = append(ix.byTag[key], r)
		default:
			ix.universal = append(ix.universal, r)
		}
	}
	return ix
}

// candidates returns the rules that may match n. Each rule appears once.
func (ix *ruleIndex) candidates(n *html.Node) []*styleRule {
	out := append([]*styleRule(nil), ix.universal...)
	out = append(out, ix.byTag[n.Data]...)
	if id, ok := dom.Attr(n, "id"); ok && id != "" {
		out = append(out, ix.byID[id]...)
	}
	if class, ok := dom.Attr(n, "class"); ok {
		seen := make(map[string]bool)
		for _, c := range strings.Fields(class) {
			if !seen[c] {
				seen[c] = true
				out = append(out, ix.byClass[c]...)
			}
		}
	}
	return out
}

// selectorKey picks the most selective requirement of the rightmost compound
// selector: an id ('#'), else a class ('.'), else a tag ('t'). Zero means the
// rule has to be tried against every element.
func selectorKey(selector string) (byte, string) {
	compound := rightmostCompound(selector)
	if compound == "" || strings.ContainsRune(compound, '\\') {
		return 0, ""
	}

	var tag, class string
	depth := 0
	for i := 0; i < len(compound); i++ {
		switch ch := compound[i]; {
		case ch == '(' || ch == '[':
			depth++
		case ch == ')' || ch == ']':
			depth--
		case depth > 0:
		case ch == '#':
			return '#', readIdent(compound[i+1:])
		case ch == '.' && class == "":
			class = readIdent(compound[i+1:])
		case i == 0 && isIdentByte(ch):
			tag = strings.ToLower(readIdent(compound))
		}
	}
	switch {
	case class != "":
		return '.', class
	case tag != "":
		return 't', tag
	}
	return 0, ""
}

func rightmostCompound(selector string) string {
	selector = strings.TrimSpace(selector)
	start, depth := 0, 0
	var quote byte
	for i := 0; i < len(selector); i++ {
		ch := selector[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '(' || ch == '[':
			depth++
		case ch == ')' || ch == ']':
			depth--
		case depth == 0 && (ch == ' ' || ch == '>' || ch == '+' || ch == '~' || ch == '\t' || ch == '\n'):
			start = i + 1
		}
	}
	return selector[start:]
}

func isIdentByte(ch byte) bool {
	return ch == '-' || ch == '_' || ch >= 0x80 ||
		('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ('0' <= ch && ch <= '9')
}

func readIdent(s string) string {
	i := 0
	for i < len(s) && isIdentByte(s[i]) {
		i++
	}
	return s[:i]
}

// matchedDecl is a declaration that applies to an element, with its cascade
// sort key.
type matchedDecl struct {
	declaration
	tier        int
	specificity cascadia.Specificity
	order       int
	index       int
}

// tier orders origins and importance: normal user-agent, author and inline
// declarations, then important author, inline and user-agent ones.
func tier(o origin, important bool) int {
	if !important {
		return int(o)
	}
	switch o {
	case originAuthor:
		return 3
	case originInline:
		return 4
	}
	return 5
}

// cascade computes styles for a whole tree.
type cascade struct {
	index  *ruleIndex
	rootPx float64
	styles map[*html.Node]dom.Style
}

func newCascade(rules []*styleRule) *cascade {
	return &cascade{
		index:  newRuleIndex(rules),
		rootPx: defaultFontPx,
		styles: make(map[*html.Node]dom.Style),
	}
}

// run computes every element under n in document order. Parents are always
// computed before their children.
func (c *cascade) run(n *html.Node, parent dom.Style, parentCustom map[string]string) {
	style, custom := parent, parentCustom
	if n.Type == html.ElementNode {
		style, custom = c.computeElement(n, parent, parentCustom)
		c.styles[n] = style
		if parent == nil {
			if px, _, ok := parseDimension(style["font-size"]); ok {
				c.rootPx = px
			}
		}
		if n.Data == "template" && n.Namespace == "" {
			return
		}
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.run(ch, style, custom)
	}
}

func (c *cascade) matched(n *html.Node) []matchedDecl {
	var out []matchedDecl
	for _, r := range c.index.candidates(n) {
		if !r.sel.Match(n) {
			continue
		}
		for i, d := range r.decls {
			out = append(out, matchedDecl{
				declaration: d,
				tier:        tier(r.origin, d.important),
				specificity: r.specificity,
				order:       r.order,
				index:       i,
			})
		}
	}
	if text, ok := dom.Attr(n, "style"); ok {
		for i, d := range parseInlineStyle(text) {
			out = append(out, matchedDecl{declaration: d, tier: tier(originInline, d.important), index: i})
		}
	}

	slices.SortStableFunc(out, func(a, b matchedDecl) int {
		if a.tier != b.tier {
			return cmp.Compare(a.tier, b.tier)
		}
		if a.specificity.Less(b.specificity) {
			return -1
		}
		if b.specificity.Less(a.specificity) {
			return 1
		}
		if a.order != b.order {
			return cmp.Compare(a.order, b.order)
		}
		return cmp.Compare(a.index, b.index)
	})
	return out
}

func (c *cascade) computeElement(n *html.Node, parent dom.Style, parentCustom map[string]string) (dom.Style, map[string]string) {
	decls := c.matched(n)

	// Custom properties first: var() in regular declarations resolves
	// against this element's final values.
	custom := parentCustom
	copied := false
	for _, d := range decls {
		if !strings.HasPrefix(d.property, "--") {
			continue
		}
		if !copied {
			custom = make(map[string]string, len(parentCustom)+1)
			for k, v := range parentCustom {
				custom[k] = v
			}
			copied = true
		}
		switch strings.ToLower(d.value) {
		case "initial":
			delete(custom, d.property)
		case "inherit", "unset", "revert":
			if v, ok := parentCustom[d.property]; ok {
				custom[d.property] = v
			} else {
				delete(custom, d.property)
			}
		default:
			custom[d.property] = d.value
		}
	}

	// Candidate values per longhand, lowest precedence first.
	specified := make(map[string][]string)
	for _, d := range decls {
		if strings.HasPrefix(d.property, "--") {
			continue
		}
		value, ok := substituteVars(d.value, custom, 0)
		if !ok {
			value = "unset"
		}
		for _, lh := range expandShorthand(d.property, value) {
			specified[lh.property] = append(specified[lh.property], lh.value)
		}
	}

	rootPx := c.rootPx
	if parent == nil {
		rootPx = defaultFontPx
	}
	style := make(dom.Style, len(properties))
	ctx := &computeContext{parent: parent, style: style, rootPx: rootPx}
	for _, p := range properties {
		style[p.name] = resolve(p, specified[p.name], ctx)
	}
	return style, custom
}

// resolve picks the winning candidate for p. Candidates that do not parse
// are skipped so the next one down the cascade applies, as an invalid
// declaration would be dropped by a browser.
func resolve(p property, candidates []string, ctx *computeContext) string {
	inheritedValue := func() string {
		if ctx.parent != nil {
			if v, ok := ctx.parent[p.name]; ok {
				return v
			}
		}
		return p.initial
	}

	for i := len(candidates) - 1; i >= 0; i-- {
		v := strings.TrimSpace(candidates[i])
		switch strings.ToLower(v) {
		case "inherit":
			return inheritedValue()
		case "initial":
			return p.initial
		case "unset", "revert", "revert-layer":
			if p.inherited {
				return inheritedValue()
			}
			return p.initial
		}
		if out, ok := p.compute(ctx, v); ok {
			return out
		}
	}

	if p.inherited {
		return inheritedValue()
	}
	return p.initial
}

// substituteVars replaces var() references with custom property values or
// their fallbacks. It fails when a reference resolves to nothing, which makes
// the declaration invalid at computed-value time.
func substituteVars(value string, custom map[string]string, depth int) (string, bool) {
	if depth > maxVarDepth {
		return "", false
	}
	i := strings.Index(strings.ToLower(value), "var(")
	if i < 0 {
		return value, true
	}
	end := matchParen(value, i+3)
	if end < 0 {
		return "", false
	}

	name, fallback, hasFallback := strings.Cut(value[i+4:end], ",")
	name = strings.TrimSpace(name)

	var (
		repl string
		ok   bool
	)
	if v, found := custom[name]; found && strings.TrimSpace(v) != "" {
		repl, ok = substituteVars(strings.TrimSpace(v), custom, depth+1)
	}
	if !ok && hasFallback {
		repl, ok = substituteVars(strings.TrimSpace(fallback), custom, depth+1)
	}
	if !ok {
		return "", false
	}

	rest, ok := substituteVars(value[end+1:], custom, depth)
	if !ok {
		return "", false
	}
	return value[:i] + repl + rest, true
}

// matchParen returns the index of the parenthesis closing the one at open.
func matchParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
