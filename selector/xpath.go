package selector

import (
	"strconv"
	"strings"
)

// Translate parses a CSS selector and returns the equivalent XPath
// expression, anchored at the document ("//div") unless the selector itself
// starts with a combinator or :scope.
func Translate(selector string) (string, error) {
	sel, err := Parse(selector)
	if err != nil {
		return "", err
	}
	return sel.XPath(), nil
}

// TranslateRelative is like Translate but anchors every selector at the
// context node (".//div").
func TranslateRelative(selector string) (string, error) {
	sel, err := Parse(selector)
	if err != nil {
		return "", err
	}
	return sel.RelativeXPath(), nil
}

// MustTranslate is like Translate but panics if the selector is invalid.
func MustTranslate(selector string) string {
	xpath, err := Translate(selector)
	if err != nil {
		panic(err)
	}
	return xpath
}

// XPath returns the selector as an XPath expression. Groups become unions.
func (s *Selector) XPath() string {
	return s.xpath(false)
}

// RelativeXPath returns the selector as an XPath expression evaluated from
// the context node.
func (s *Selector) RelativeXPath() string {
	return s.xpath(true)
}

func (s *Selector) xpath(relative bool) string {
	parts := make([]string, len(s.Group))
	for i, c := range s.Group {
		parts[i] = c.xpath(relative || c.Relative)
	}
	return strings.Join(parts, " | ")
}

func (c Complex) xpath(relative bool) string {
	if len(c.Steps) == 0 {
		// A lone :scope
		return "."
	}

	var b strings.Builder
	for i, step := range c.Steps {
		if i == 0 && relative {
			b.WriteByte('.')
		}
		b.WriteString(axis(step.Combinator))
		b.WriteString(step.Compound.xpath())
	}
	return b.String()
}

// axis maps a combinator onto the location path that reaches the next step.
func axis(c Combinator) string {
	switch c {
	case Child:
		return "/"
	case Adjacent:
		return "/following-sibling::*[1]/self::"
	case Sibling:
		return "/following-sibling::"
	default:
		return "//"
	}
}

func (c Compound) name() string {
	if c.Type == "" {
		return "*"
	}
	return c.Type
}

func (c Compound) xpath() string {
	var b strings.Builder
	b.WriteString(c.name())
	for _, pred := range c.predicates() {
		b.WriteString("[" + pred + "]")
	}
	return b.String()
}

func (c Compound) predicates() []string {
	var preds []string
	for _, id := range c.IDs {
		preds = append(preds, "@id="+Literal(id))
	}
	for _, class := range c.Classes {
		preds = append(preds, tokenMatch("@class", class))
	}
	for _, a := range c.Attrs {
		preds = append(preds, a.xpath())
	}
	for _, p := range c.Pseudos {
		preds = append(preds, p.xpath(c.name()))
	}
	return preds
}

// tokenMatch tests for value as a whitespace-separated token of attr.
func tokenMatch(attr, value string) string {
	return "contains(concat(' ', normalize-space(" + attr + "), ' '), " + Literal(" "+value+" ") + ")"
}

func (a Attr) xpath() string {
	attr := "@" + a.Name
	value := Literal(a.Value)

	switch a.Op {
	case AttrEquals:
		return attr + "=" + value
	case AttrIncludes:
		if a.Value == "" || strings.ContainsAny(a.Value, " \t\n\r\f") {
			return "false()"
		}
		return tokenMatch(attr, a.Value)
	case AttrDashMatch:
		return "(" + attr + "=" + value + " or starts-with(" + attr + ", " + Literal(a.Value+"-") + "))"
	case AttrPrefix:
		if a.Value == "" {
			return "false()"
		}
		return "starts-with(" + attr + ", " + value + ")"
	case AttrSuffix:
		if a.Value == "" {
			return "false()"
		}
		return "ends-with(" + attr + ", " + value + ")"
	case AttrSubstring:
		if a.Value == "" {
			return "false()"
		}
		return "contains(" + attr + ", " + value + ")"
	default:
		return attr
	}
}

func (p Pseudo) xpath(typeName string) string {
	switch p.Name {
	case "first-child":
		return "not(preceding-sibling::*)"
	case "last-child":
		return "not(following-sibling::*)"
	case "only-child":
		return "not(preceding-sibling::*) and not(following-sibling::*)"
	case "first-of-type":
		return "not(preceding-sibling::" + typeName + ")"
	case "last-of-type":
		return "not(following-sibling::" + typeName + ")"
	case "only-of-type":
		return "not(preceding-sibling::" + typeName + ") and not(following-sibling::" + typeName + ")"
	case "nth-child":
		return p.nth("preceding-sibling::*")
	case "nth-of-type":
		return p.nth("preceding-sibling::" + typeName)
	case "empty":
		return "not(*) and not(text())"
	case "checked":
		return "@checked"
	case "selected":
		return "@selected"
	case "disabled":
		return "@disabled"
	case "enabled":
		return "not(@disabled)"
	case "contains":
		return "contains(., " + Literal(p.Text) + ")"
	case "not":
		return "not(self::" + p.Not.xpath() + ")"
	}
	return "true()"
}

// nth counts the siblings before the node on the given axis.
func (p Pseudo) nth(siblings string) string {
	count := "count(" + siblings + ")"
	switch p.Parity {
	case 1:
		return count + " mod 2=0"
	case 2:
		return count + " mod 2=1"
	}
	return count + "=" + strconv.Itoa(p.Nth-1)
}

// Literal quotes s as an XPath string literal. Strings containing both quote
// characters are built with concat().
func Literal(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	var b strings.Builder
	b.WriteString("concat(")
	for i, part := range strings.Split(s, "'") {
		if i > 0 {
			b.WriteString(`, "'", `)
		}
		b.WriteString("'" + part + "'")
	}
	b.WriteString(")")
	return b.String()
}
