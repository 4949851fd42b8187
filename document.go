package domq

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/tsawler/domq/format"
	"github.com/tsawler/domq/internal/filters"
	"github.com/tsawler/domq/query"
	"github.com/tsawler/domq/selector"
)

// Document owns a parsed HTML tree and the configuration used to load and
// save it. A Document is not safe for concurrent use.
type Document struct {
	root           *html.Node
	engine         *query.Engine
	encoding       string
	detectEncoding bool
	loadOptions    LoadOptions
	cacheSize      int
	logger         *zap.Logger
}

// New returns an empty Document configured by opts.
func New(opts ...Option) *Document {
	d := defaultDocument()
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.Named("domq")
	return d
}

// LoadMarkup replaces the document's tree with one parsed from source, which
// is decoded from the document's text encoding first. The LoadOptions given
// to New apply unless opts supplies others.
//
// Malformed but recoverable markup is repaired the way an HTML parser would
// repair it; each problem is logged at debug level and otherwise ignored.
func (d *Document) LoadMarkup(source []byte, opts ...LoadOptions) error {
	return d.load(source, format.Unknown, opts)
}

// load is LoadMarkup with the format the source is known to have, if any.
func (d *Document) load(source []byte, f format.Format, opts []LoadOptions) error {
	lo := d.loadOptions
	if len(opts) > 0 {
		lo = opts[0]
	}

	label := d.encoding
	if d.detectEncoding {
		if detected := filters.DetectEncoding(source); detected != "" {
			label = detected
		}
	}

	_, name, err := filters.LookupEncoding(label)
	if err != nil {
		return err
	}

	utf8Src, err := filters.DecodeToUTF8(filters.StripBOM(source), name)
	if err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrParse, name, err)
	}
	problems, err := inspect(string(utf8Src), false)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	for _, p := range problems {
		d.logger.Debug("recoverable parse problem",
			zap.String("problem", p.Msg),
			zap.Int("offset", p.Offset))
	}

	src := filters.EncodeNumericEntities(string(utf8Src))
	root, fragment, err := parseTree(src, lo, f)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}

	d.root = root
	d.encoding = name
	d.engine = query.New(root,
		query.WithCacheSize(d.cacheSize),
		query.WithLogger(d.logger))

	d.logger.Debug("loaded markup",
		zap.Int("bytes", len(source)),
		zap.Bool("bom", filters.HasBOM(source)),
		zap.String("encoding", name),
		zap.Bool("fragment", fragment))

	return nil
}

// LoadString is like LoadMarkup for markup held in a string.
func (d *Document) LoadString(markup string, opts ...LoadOptions) error {
	return d.LoadMarkup([]byte(markup), opts...)
}

// LoadReader reads all of r and loads it as markup.
func (d *Document) LoadReader(r io.Reader, opts ...LoadOptions) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: reading markup: %v", ErrIO, err)
	}
	return d.LoadMarkup(data, opts...)
}

// LoadFile reads the file at path and loads it as markup. The file is parsed
// as HTML whatever its extension, but XHTML files (by extension or content)
// are always parsed as whole documents.
func (d *Document) LoadFile(path string, opts ...LoadOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: opening file: %v", ErrIO, err)
	}

	f := format.Detect(path)
	if f == format.Unknown {
		f = format.DetectFromMagic(data)
	}
	d.logger.Debug("read file", zap.String("path", path), zap.Stringer("format", f))

	return d.load(data, f, opts)
}

// queryEngine returns the engine bound to the current tree, binding one if
// nothing has been loaded yet.
func (d *Document) queryEngine() *query.Engine {
	if d.engine == nil || d.engine.Root() != d.root {
		d.engine = query.New(d.root,
			query.WithCacheSize(d.cacheSize),
			query.WithLogger(d.logger))
	}
	return d.engine
}

// Query evaluates an XPath expression against the document and returns the
// matching elements in document order. Matches that are not elements, such
// as attributes or text, are skipped.
func (d *Document) Query(expr string) (*NodeList, error) {
	nodes, err := d.queryEngine().QueryAll(expr)
	if err != nil {
		return nil, err
	}
	return d.newNodeList(nodes), nil
}

// QuerySelector returns the first element matching the CSS selector, or nil
// when nothing matches.
func (d *Document) QuerySelector(sel string) (*Element, error) {
	list, err := d.QuerySelectorAll(sel)
	if err != nil {
		return nil, err
	}
	return list.First(), nil
}

// QuerySelectorAll returns every element matching the CSS selector, in
// document order.
func (d *Document) QuerySelectorAll(sel string) (*NodeList, error) {
	xpath, err := SelectorToQuery(sel)
	if err != nil {
		return nil, err
	}
	return d.Query(xpath)
}

// GetElementsByClassName returns elements whose class attribute contains
// name anywhere, so "btn" also matches class="btn-primary". Use
// Element.GetElementsByClassName for whole-token matching.
func (d *Document) GetElementsByClassName(name string) *NodeList {
	return d.mustQuery("//*[contains(@class, " + selector.Literal(name) + ")]")
}

// GetElementByID returns the first element whose id is id, or nil.
func (d *Document) GetElementByID(id string) *Element {
	return d.mustQuery("//*[@id=" + selector.Literal(id) + "]").First()
}

// GetElementsByTagName returns all elements with the given tag name. "*"
// matches every element.
func (d *Document) GetElementsByTagName(name string) *NodeList {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "*" {
		return d.mustQuery("//*")
	}
	return d.mustQuery("//*[local-name()=" + selector.Literal(name) + "]")
}

// mustQuery evaluates an expression built from a quoted literal, which always
// compiles.
func (d *Document) mustQuery(expr string) *NodeList {
	list, err := d.Query(expr)
	if err != nil {
		d.logger.Debug("query failed", zap.String("expr", expr), zap.Error(err))
		return &NodeList{}
	}
	return list
}

// DocumentElement returns the first element child of the root: <html> for a
// full document, the first top-level element for a fragment.
func (d *Document) DocumentElement() *Element {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return d.Wrap(c)
		}
	}
	return nil
}

// Root returns the document node at the top of the tree.
func (d *Document) Root() *html.Node {
	return d.root
}

// Wrap returns an Element for n, or nil if n is nil or not an element.
func (d *Document) Wrap(n *html.Node) *Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	return &Element{doc: d, node: n}
}

// Serialize renders n as HTML. A nil n renders the whole document, with the
// character references added at load time turned back into characters.
// Nodes that do not belong to the document cannot be serialized.
func (d *Document) Serialize(n *html.Node) (string, error) {
	whole := n == nil
	if whole {
		n = d.root
	} else if !d.owns(n) {
		return "", fmt.Errorf("%w: node is not part of this document", ErrSerialization)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	if whole {
		return filters.DecodeNumericEntities(buf.String()), nil
	}
	return buf.String(), nil
}

// Bytes serializes the whole document in the document's text encoding.
// Characters the encoding cannot represent are written as numeric character
// references.
func (d *Document) Bytes() ([]byte, error) {
	s, err := d.Serialize(nil)
	if err != nil {
		return nil, err
	}
	out, err := filters.EncodeFromUTF8(s, d.encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return out, nil
}

// owns reports whether n is in the document's tree.
func (d *Document) owns(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

// Encoding returns the canonical name of the document's text encoding.
func (d *Document) Encoding() string {
	return d.encoding
}

// Logger returns the document's logger.
func (d *Document) Logger() *zap.Logger {
	return d.logger
}

// SelectorToQuery translates a CSS selector into the XPath expression used to
// evaluate it against a document.
func SelectorToQuery(sel string) (string, error) {
	return selector.Translate(sel)
}
