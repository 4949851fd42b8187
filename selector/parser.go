package selector

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse parses a CSS selector. Leading and trailing whitespace is ignored.
func Parse(selector string) (*Selector, error) {
	src := strings.TrimSpace(selector)
	p := &parser{src: src}
	if src == "" {
		return nil, p.errorf(0, "empty selector")
	}

	sel := &Selector{source: src}
	for {
		c, err := p.parseComplex()
		if err != nil {
			return nil, err
		}
		sel.Group = append(sel.Group, c)

		p.skipSpace()
		if p.eof() {
			break
		}
		if p.peek() != ',' {
			return nil, p.unexpected("expected ',' or end of selector")
		}
		p.pos++
		p.skipSpace()
		if p.eof() {
			return nil, p.unexpected("expected selector after ','")
		}
	}

	return sel, nil
}

// parser is a hand-written recursive descent parser over the selector text.
type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	return p.src[p.pos]
}

// skipSpace consumes whitespace and reports whether any was found.
func (p *parser) skipSpace() bool {
	start := p.pos
	for !p.eof() && isSpace(p.peek()) {
		p.pos++
	}
	return p.pos > start
}

// combinator reports the explicit combinator at the current position.
func (p *parser) combinator() (Combinator, bool) {
	if p.eof() {
		return Descendant, false
	}
	switch p.peek() {
	case '>':
		return Child, true
	case '+':
		return Adjacent, true
	case '~':
		return Sibling, true
	}
	return Descendant, false
}

func (p *parser) parseComplex() (Complex, error) {
	var c Complex
	next := Descendant

	// A leading combinator anchors the selector at the current node.
	if comb, ok := p.combinator(); ok {
		c.Relative = true
		next = comb
		p.pos++
		p.skipSpace()
	}

	for {
		start := p.pos
		compound, scope, err := p.parseCompound(true)
		if err != nil {
			return c, err
		}
		if scope {
			if len(c.Steps) > 0 || c.Relative {
				return c, p.errorf(start, "':scope' must open the selector")
			}
			c.Relative = true
		} else {
			c.Steps = append(c.Steps, Step{Combinator: next, Compound: compound})
		}

		spaced := p.skipSpace()
		if p.eof() || p.peek() == ',' {
			return c, nil
		}

		if comb, ok := p.combinator(); ok {
			next = comb
			p.pos++
			p.skipSpace()
			if p.eof() || p.peek() == ',' {
				return c, p.unexpected("expected selector after combinator")
			}
			continue
		}
		if !spaced {
			return c, p.unexpected("unexpected character")
		}
		next = Descendant
	}
}

// parseCompound parses a run of simple selectors. The second result reports
// that the compound was a lone :scope.
func (p *parser) parseCompound(allowScope bool) (Compound, bool, error) {
	var c Compound
	start := p.pos
	scope := false
	typedPseudo := -1

	if p.eof() {
		return c, false, p.unexpected("expected selector")
	}

	switch ch := p.peek(); {
	case ch == '*':
		c.Type = "*"
		p.pos++
	case isNameStart(ch):
		name, err := p.name("element name")
		if err != nil {
			return c, false, err
		}
		c.Type = strings.ToLower(name)
	}

loop:
	for !p.eof() {
		switch p.peek() {
		case '#':
			p.pos++
			id, err := p.ident("id")
			if err != nil {
				return c, false, err
			}
			c.IDs = append(c.IDs, id)
		case '.':
			p.pos++
			class, err := p.ident("class name")
			if err != nil {
				return c, false, err
			}
			c.Classes = append(c.Classes, class)
		case '[':
			attr, err := p.parseAttr()
			if err != nil {
				return c, false, err
			}
			c.Attrs = append(c.Attrs, attr)
		case ':':
			pseudoStart := p.pos
			ps, err := p.parsePseudo()
			if err != nil {
				return c, false, err
			}
			if ps.Name == "scope" {
				if !allowScope {
					return c, false, p.errorf(pseudoStart, "':scope' is not allowed here")
				}
				scope = true
				continue
			}
			if strings.HasSuffix(ps.Name, "-of-type") && typedPseudo < 0 {
				typedPseudo = pseudoStart
			}
			c.Pseudos = append(c.Pseudos, ps)
		default:
			break loop
		}
	}

	if p.pos == start {
		return c, false, p.unexpected("expected selector")
	}
	if scope && (c.Type != "" || len(c.IDs)+len(c.Classes)+len(c.Attrs)+len(c.Pseudos) > 0) {
		return c, false, p.errorf(start, "':scope' cannot be combined with other selectors")
	}
	if typedPseudo >= 0 && (c.Type == "" || c.Type == "*") {
		return c, false, p.errorf(typedPseudo, "type pseudo-class requires an element name")
	}

	return c, scope, nil
}

func (p *parser) parseAttr() (Attr, error) {
	var a Attr
	p.pos++ // '['
	p.skipSpace()

	name, err := p.name("attribute name")
	if err != nil {
		return a, err
	}
	a.Name = strings.ToLower(name)

	p.skipSpace()
	if p.eof() {
		return a, p.unexpected("expected ']'")
	}
	if p.peek() == ']' {
		p.pos++
		return a, nil
	}

	opStart := p.pos
	switch ch := p.peek(); ch {
	case '=':
		a.Op = AttrEquals
		p.pos++
	case '~', '|', '^', '$', '*':
		if p.pos+1 >= len(p.src) || p.src[p.pos+1] != '=' {
			return a, p.errorf(opStart, "expected attribute operator")
		}
		a.Op = map[byte]AttrOp{
			'~': AttrIncludes,
			'|': AttrDashMatch,
			'^': AttrPrefix,
			'$': AttrSuffix,
			'*': AttrSubstring,
		}[ch]
		p.pos += 2
	default:
		return a, p.unexpected("expected ']' or attribute operator")
	}

	p.skipSpace()
	value, err := p.value("attribute value")
	if err != nil {
		return a, err
	}
	a.Value = value

	p.skipSpace()
	if p.eof() || p.peek() != ']' {
		return a, p.unexpected("expected ']'")
	}
	p.pos++

	return a, nil
}

func (p *parser) parsePseudo() (Pseudo, error) {
	start := p.pos
	p.pos++ // ':'
	if !p.eof() && p.peek() == ':' {
		return Pseudo{}, p.errorf(start, "pseudo-elements are not supported")
	}

	name, err := p.ident("pseudo-class name")
	if err != nil {
		return Pseudo{}, err
	}
	ps := Pseudo{Name: strings.ToLower(name)}

	switch ps.Name {
	case "first-child", "last-child", "only-child",
		"first-of-type", "last-of-type", "only-of-type",
		"empty", "checked", "disabled", "enabled", "selected", "scope":
		return ps, nil

	case "nth-child", "nth-of-type":
		if err := p.expect('('); err != nil {
			return ps, err
		}
		p.skipSpace()
		argStart := p.pos
		arg, err := p.ident("argument")
		if err != nil {
			return ps, err
		}
		switch strings.ToLower(arg) {
		case "odd":
			ps.Parity = 1
		case "even":
			ps.Parity = 2
		default:
			n, err := strconv.Atoi(arg)
			if err != nil || n < 1 {
				return ps, p.errorf(argStart, "expected a positive integer, 'odd' or 'even'")
			}
			ps.Nth = n
		}
		p.skipSpace()
		if err := p.expect(')'); err != nil {
			return ps, err
		}
		return ps, nil

	case "not":
		if err := p.expect('('); err != nil {
			return ps, err
		}
		p.skipSpace()
		inner, _, err := p.parseCompound(false)
		if err != nil {
			return ps, err
		}
		ps.Not = &inner
		p.skipSpace()
		if err := p.expect(')'); err != nil {
			return ps, err
		}
		return ps, nil

	case "contains":
		if err := p.expect('('); err != nil {
			return ps, err
		}
		p.skipSpace()
		text, err := p.value("text")
		if err != nil {
			return ps, err
		}
		ps.Text = text
		p.skipSpace()
		if err := p.expect(')'); err != nil {
			return ps, err
		}
		return ps, nil
	}

	return ps, p.errorf(start+1, "unsupported pseudo-class")
}

// value reads a quoted string or a bare identifier.
func (p *parser) value(what string) (string, error) {
	if !p.eof() && (p.peek() == '"' || p.peek() == '\'') {
		return p.str()
	}
	return p.ident(what)
}

// str reads a single- or double-quoted string with backslash escapes.
func (p *parser) str() (string, error) {
	quote := p.peek()
	start := p.pos
	p.pos++

	var b strings.Builder
	for {
		if p.eof() {
			return "", p.errorf(start, "unterminated string")
		}
		ch := p.peek()
		switch ch {
		case '\\':
			p.pos++
			if p.eof() {
				return "", p.errorf(start, "unterminated string")
			}
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			b.WriteRune(r)
			p.pos += size
		case quote:
			p.pos++
			return b.String(), nil
		default:
			b.WriteByte(ch)
			p.pos++
		}
	}
}

// ident reads a CSS identifier. A backslash escapes the next character.
func (p *parser) ident(what string) (string, error) {
	var b strings.Builder
	for !p.eof() {
		if p.peek() == '\\' {
			if p.pos+1 >= len(p.src) {
				return "", p.errorf(p.pos, "incomplete escape")
			}
			r, size := utf8.DecodeRuneInString(p.src[p.pos+1:])
			b.WriteRune(r)
			p.pos += 1 + size
			continue
		}
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !isNameChar(r) {
			break
		}
		b.WriteRune(r)
		p.pos += size
	}
	if b.Len() == 0 {
		return "", p.unexpected("expected " + what)
	}
	return b.String(), nil
}

// name reads an identifier that is written into the XPath expression as is,
// so after unescaping it must still be a valid XML name.
func (p *parser) name(what string) (string, error) {
	start := p.pos
	n, err := p.ident(what)
	if err != nil {
		return "", err
	}
	for i, r := range n {
		if unicode.IsLetter(r) || r == '_' || (i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.')) {
			continue
		}
		return "", p.errorf(start, "invalid "+what+" "+strconv.Quote(n))
	}
	return n, nil
}

func (p *parser) expect(ch byte) error {
	if p.eof() || p.peek() != ch {
		return p.unexpected(fmt.Sprintf("expected '%c'", ch))
	}
	p.pos++
	return nil
}

func (p *parser) unexpected(msg string) error {
	return p.errorf(p.pos, msg)
}

func (p *parser) errorf(offset int, msg string) error {
	return &SyntaxError{
		Selector: p.src,
		Offset:   offset,
		Token:    p.tokenAt(offset),
		Msg:      msg,
	}
}

// tokenAt returns the identifier starting at offset, or the single character
// there when it does not start an identifier.
func (p *parser) tokenAt(offset int) string {
	if offset >= len(p.src) {
		return ""
	}
	r, size := utf8.DecodeRuneInString(p.src[offset:])
	if !isNameChar(r) {
		return p.src[offset : offset+size]
	}
	end := offset
	for end < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[end:])
		if !isNameChar(r) {
			break
		}
		end += size
	}
	return p.src[offset:end]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isNameStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '\\' || c >= utf8.RuneSelf
}

func isNameChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
		r == '-' || r == '_' || r >= utf8.RuneSelf
}
