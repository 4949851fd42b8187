package domq

import (
	"bytes"
	"strings"

	"github.com/antchfx/htmlquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/tsawler/domq/selector"
)

// Element is a handle on an element node of a Document's tree. Several
// Elements may refer to the same node; compare them with Is.
type Element struct {
	doc  *Document
	node *html.Node
}

// selfClosing lists the elements OuterHTML renders as <tag />.
var selfClosing = map[string]bool{
	"br":  true,
	"hr":  true,
	"img": true,
}

// rawText lists elements whose text children are rendered unescaped.
var rawText = map[string]bool{
	"iframe": true, "noembed": true, "noframes": true, "noscript": true,
	"plaintext": true, "script": true, "style": true, "xmp": true,
}

// Node returns the underlying node.
func (e *Element) Node() *html.Node {
	return e.node
}

// Document returns the document the element belongs to.
func (e *Element) Document() *Document {
	return e.doc
}

// Is reports whether e and other refer to the same node.
func (e *Element) Is(other *Element) bool {
	return e != nil && other != nil && e.node == other.node
}

// TagName returns the element's lower-case tag name.
func (e *Element) TagName() string {
	return e.node.Data
}

// InnerHTML returns the serialized children of the element, or "" when it
// has none.
func (e *Element) InnerHTML() string {
	var buf bytes.Buffer
	raw := rawText[e.node.Data]
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if raw && c.Type == html.TextNode {
			buf.WriteString(c.Data)
			continue
		}
		if err := html.Render(&buf, c); err != nil {
			e.doc.logger.Debug("skipped child", zap.Error(err))
		}
	}
	return buf.String()
}

// SetInnerHTML replaces the element's children with markup parsed in the
// element's context. Markup must be well formed: every element closed
// (void and self-closing elements excepted) and no stray end tags. When it
// is not, the error wraps ErrFragmentParse and the element is unchanged.
func (e *Element) SetInnerHTML(markup string) error {
	nodes, err := parseFragment(markup, e.node)
	if err != nil {
		return err
	}

	for c := e.node.FirstChild; c != nil; c = e.node.FirstChild {
		e.node.RemoveChild(c)
	}
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

// OuterHTML returns the element and its content as HTML. Attributes keep
// their source order; an empty br, hr or img is written as <tag />.
func (e *Element) OuterHTML() string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(e.node.Data)
	for _, a := range e.node.Attr {
		b.WriteByte(' ')
		if a.Namespace != "" {
			b.WriteString(a.Namespace + ":")
		}
		b.WriteString(a.Key)
		if a.Val != "" {
			b.WriteString(`="`)
			b.WriteString(escapeAttr(a.Val))
			b.WriteByte('"')
		}
	}

	content := e.InnerHTML()
	if content == "" && selfClosing[e.node.Data] {
		b.WriteString(" />")
		return b.String()
	}

	b.WriteByte('>')
	b.WriteString(content)
	b.WriteString("</" + e.node.Data + ">")
	return b.String()
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;")

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// Find returns the descendants of e that match the CSS selector, in document
// order. Selectors are matched against the whole document, so "div p" finds
// paragraphs of e even when the div is one of e's ancestors. Selectors that
// start with a combinator or :scope are anchored at e.
func (e *Element) Find(sel string) (*NodeList, error) {
	parsed, err := selector.Parse(sel)
	if err != nil {
		return nil, err
	}

	var global, anchored []selector.Complex
	for _, c := range parsed.Group {
		if c.Relative {
			anchored = append(anchored, c)
		} else {
			global = append(global, c)
		}
	}

	engine := e.doc.queryEngine()
	var matches []*html.Node
	if len(global) > 0 {
		nodes, err := engine.QueryAll((&selector.Selector{Group: global}).XPath())
		if err != nil {
			return nil, err
		}
		matches = append(matches, nodes...)
	}
	if len(anchored) > 0 {
		nodes, err := engine.QueryAllFrom(e.node, (&selector.Selector{Group: anchored}).XPath())
		if err != nil {
			return nil, err
		}
		matches = append(matches, nodes...)
	}

	return e.doc.newNodeList(e.descendantsAmong(matches)), nil
}

// QuerySelector returns the first element Find would return, or nil.
func (e *Element) QuerySelector(sel string) (*Element, error) {
	list, err := e.Find(sel)
	if err != nil {
		return nil, err
	}
	return list.First(), nil
}

// descendantsAmong returns the descendants of e that appear in nodes, in
// document order.
func (e *Element) descendantsAmong(nodes []*html.Node) []*html.Node {
	if len(nodes) == 0 {
		return nil
	}

	wanted := make(map[*html.Node]bool, len(nodes))
	for _, n := range nodes {
		wanted[n] = true
	}

	var result []*html.Node
	for _, n := range collectElements(e.node, nil) {
		if wanted[n] {
			result = append(result, n)
		}
	}
	return result
}

// GetElementsByClassName returns the descendants of e whose class list
// contains name as a whole token.
func (e *Element) GetElementsByClassName(name string) *NodeList {
	var matches []*html.Node
	for _, n := range collectElements(e.node, nil) {
		if hasClass(n, name) {
			matches = append(matches, n)
		}
	}
	return e.doc.newNodeList(matches)
}

// Descendants returns every element below e in document order.
func (e *Element) Descendants() *NodeList {
	return e.doc.newNodeList(collectElements(e.node, nil))
}

// collectElements appends the element descendants of n to acc in pre-order.
func collectElements(n *html.Node, acc []*html.Node) []*html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			acc = append(acc, c)
		}
		acc = collectElements(c, acc)
	}
	return acc
}

// Children returns the element children of e.
func (e *Element) Children() *NodeList {
	var nodes []*html.Node
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			nodes = append(nodes, c)
		}
	}
	return e.doc.newNodeList(nodes)
}

// Parent returns the parent element, or nil at the top of the tree.
func (e *Element) Parent() *Element {
	return e.doc.Wrap(e.node.Parent)
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	if other == nil {
		return false
	}
	for n := other.node; n != nil; n = n.Parent {
		if n == e.node {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of e and its descendants.
func (e *Element) TextContent() string {
	return htmlquery.InnerText(e.node)
}

// Attr returns the value of the named attribute and whether it is present.
// Namespaced attributes are named "prefix:key".
func (e *Element) Attr(name string) (string, bool) {
	if i := attrIndex(e.node, name); i >= 0 {
		return e.node.Attr[i].Val, true
	}
	return "", false
}

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(name string) bool {
	return attrIndex(e.node, name) >= 0
}

// SetAttr sets the named attribute, appending it if it is not present.
func (e *Element) SetAttr(name, value string) {
	if i := attrIndex(e.node, name); i >= 0 {
		e.node.Attr[i].Val = value
		return
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr removes the named attribute. It is a no-op if the attribute is
// not present.
func (e *Element) RemoveAttr(name string) {
	if i := attrIndex(e.node, name); i >= 0 {
		e.node.Attr = append(e.node.Attr[:i], e.node.Attr[i+1:]...)
	}
}

// Attributes returns a copy of the element's attributes in source order.
func (e *Element) Attributes() []html.Attribute {
	out := make([]html.Attribute, len(e.node.Attr))
	copy(out, e.node.Attr)
	return out
}

// ClassList returns the whitespace-separated tokens of the class attribute.
func (e *Element) ClassList() []string {
	class, _ := e.Attr("class")
	return strings.Fields(class)
}

// HasClass reports whether name is one of the element's class tokens.
func (e *Element) HasClass(name string) bool {
	return hasClass(e.node, name)
}

func hasClass(n *html.Node, name string) bool {
	i := attrIndex(n, "class")
	if i < 0 {
		return false
	}
	for _, token := range strings.Fields(n.Attr[i].Val) {
		if token == name {
			return true
		}
	}
	return false
}

func attrIndex(n *html.Node, name string) int {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return i
		}
		if a.Namespace != "" && a.Namespace+":"+a.Key == name {
			return i
		}
	}
	return -1
}
