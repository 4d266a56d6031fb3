package htmldoc

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// origin is the cascade origin of a declaration.
type origin int

const (
	originUserAgent origin = iota
	originAuthor
	originInline
)

// declaration is one property: value pair. Shorthands are kept as written
// and expanded when the value is computed, after var() substitution.
type declaration struct {
	property  string
	value     string
	important bool
}

// styleRule is a single selector with the declarations of its block. A
// selector list produces one styleRule per selector.
type styleRule struct {
	selector    string
	sel         cascadia.Sel
	specificity cascadia.Specificity
	decls       []declaration
	origin      origin
	order       int
}

// importRef is an @import found in a sheet, with its media condition.
type importRef struct {
	href  string
	media string
}

// sheet is the parse result of one stylesheet, before imports are resolved.
type sheet struct {
	rules   []*styleRule
	imports []importRef
	skipped int
}

// sheetParser turns CSS text into style rules, evaluating @media against a
// fixed viewport width.
type sheetParser struct {
	log      *zap.Logger
	viewport float64
	origin   origin
}

func (sp *sheetParser) parse(data []byte, source string) *sheet {
	out := &sheet{}
	p := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)
	sp.parseBlock(p, out, false)
	sp.log.Debug("parsed stylesheet",
		zap.String("source", source),
		zap.Int("bytes", len(data)),
		zap.Int("rules", len(out.rules)),
		zap.Int("imports", len(out.imports)),
		zap.Int("skippedSelectors", out.skipped))
	return out
}

// parseBlock consumes rules until the end of input or, when nested, the end
// of the enclosing at-rule block.
func (sp *sheetParser) parseBlock(p *css.Parser, out *sheet, nested bool) {
	var pending []string
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if errors.Is(p.Err(), io.EOF) {
				return
			}
			// Recoverable syntax error; the parser resumes at the next rule.
			sp.log.Debug("css syntax error", zap.Error(p.Err()))
			if p.Err() == nil {
				return
			}

		case css.EndAtRuleGrammar:
			if nested {
				return
			}

		case css.AtRuleGrammar:
			if strings.EqualFold(string(data), "@import") && !nested && len(out.rules) == 0 {
				if ref, ok := parseImport(p.Values()); ok {
					out.imports = append(out.imports, ref)
				}
			}

		case css.BeginAtRuleGrammar:
			switch strings.ToLower(string(data)) {
			case "@media":
				if mediaMatches(joinPrelude(p.Values()), sp.viewport) {
					sp.parseBlock(p, out, true)
				} else {
					skipBlock(p)
				}
			case "@supports", "@layer", "@container", "@document", "@scope":
				// Assume a modern engine: the condition holds.
				sp.parseBlock(p, out, true)
			default:
				skipBlock(p)
			}

		case css.BeginRulesetGrammar:
			selectors := append(pending, selectorText(data, p.Values()))
			pending = nil
			decls := parseDeclarations(p)
			sp.addRules(out, strings.Join(selectors, ","), decls)

		case css.QualifiedRuleGrammar:
			// A leading member of a selector list.
			pending = append(pending, selectorText(data, p.Values()))
		}
	}
}

func (sp *sheetParser) addRules(out *sheet, selectors string, decls []declaration) {
	if len(decls) == 0 {
		return
	}
	for _, s := range splitTopLevel(selectors, isComma) {
		sel, err := cascadia.Parse(s)
		if err != nil || sel.PseudoElement() != "" {
			out.skipped++
			continue
		}
		out.rules = append(out.rules, &styleRule{
			selector:    s,
			sel:         sel,
			specificity: sel.Specificity(),
			decls:       decls,
			origin:      sp.origin,
		})
	}
}

// parseDeclarations reads declarations until the end of the current ruleset.
// Nested rules are skipped.
func parseDeclarations(p *css.Parser) []declaration {
	var decls []declaration
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if errors.Is(p.Err(), io.EOF) || p.Err() == nil {
				return decls
			}
		case css.EndRulesetGrammar:
			return decls
		case css.BeginRulesetGrammar, css.BeginAtRuleGrammar:
			skipBlock(p)
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			if d, ok := newDeclaration(string(data), tokensText(p.Values()), gt == css.CustomPropertyGrammar); ok {
				decls = append(decls, d)
			}
		}
	}
}

// parseInlineStyle parses the contents of a style attribute.
func parseInlineStyle(text string) []declaration {
	var decls []declaration
	p := css.NewParser(parse.NewInputString(text), true)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if errors.Is(p.Err(), io.EOF) || p.Err() == nil {
				return decls
			}
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			if d, ok := newDeclaration(string(data), tokensText(p.Values()), gt == css.CustomPropertyGrammar); ok {
				decls = append(decls, d)
			}
		}
	}
}

func newDeclaration(property, value string, custom bool) (declaration, bool) {
	if !custom {
		property = strings.ToLower(property)
	}
	value = strings.TrimSpace(value)

	important := false
	if i := strings.LastIndexByte(value, '!'); i >= 0 {
		if strings.EqualFold(strings.TrimSpace(value[i+1:]), "important") {
			important = true
			value = strings.TrimSpace(value[:i])
		}
	}
	if value == "" && !custom {
		return declaration{}, false
	}
	return declaration{property: property, value: value, important: important}, true
}

// skipBlock discards tokens up to the end of the block just opened.
func skipBlock(p *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if errors.Is(p.Err(), io.EOF) || p.Err() == nil {
				return
			}
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

func selectorText(data []byte, values []css.Token) string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	return sb.String()
}

func tokensText(values []css.Token) string {
	var sb strings.Builder
	for _, v := range values {
		sb.Write(v.Data)
	}
	return sb.String()
}

// joinPrelude rebuilds an at-rule prelude, keeping words apart even when the
// tokenizer dropped the whitespace between them.
func joinPrelude(values []css.Token) string {
	var sb strings.Builder
	prevWord := false
	for _, v := range values {
		word := v.TokenType == css.IdentToken || v.TokenType == css.FunctionToken || v.TokenType == css.LeftParenthesisToken
		if word && prevWord {
			sb.WriteByte(' ')
		}
		sb.Write(v.Data)
		prevWord = v.TokenType == css.IdentToken || v.TokenType == css.RightParenthesisToken
	}
	return sb.String()
}

// parseImport reads the target and media list of an @import prelude:
// @import "a.css"; @import url(a.css) screen;
func parseImport(values []css.Token) (importRef, bool) {
	for i, t := range values {
		var href string
		switch t.TokenType {
		case css.StringToken:
			href = unquote(string(t.Data))
		case css.URLToken:
			s := strings.TrimSuffix(string(t.Data), ")")
			if j := strings.IndexByte(s, '('); j >= 0 {
				s = s[j+1:]
			}
			href = unquote(strings.TrimSpace(s))
		default:
			continue
		}
		if href == "" {
			return importRef{}, false
		}
		return importRef{href: href, media: strings.TrimSpace(joinPrelude(values[i+1:]))}, true
	}
	return importRef{}, false
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
