package domq

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/domq/format"
)

// newRoot returns an empty document node.
func newRoot() *html.Node {
	return &html.Node{Type: html.DocumentNode}
}

// bodyContext parses fragments as body content.
func bodyContext() *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
}

// parseTree builds a document tree from src according to opts. The second
// result reports whether src was parsed as a fragment.
func parseTree(src string, opts LoadOptions, f format.Format) (*html.Node, bool, error) {
	var root *html.Node
	fragment := opts.NoImplied && !wholeDocument([]byte(src), f)

	if fragment {
		nodes, err := html.ParseFragment(strings.NewReader(src), bodyContext())
		if err != nil {
			return nil, true, err
		}
		root = newRoot()
		for _, n := range nodes {
			root.AppendChild(n)
		}
	} else {
		doc, err := html.Parse(strings.NewReader(src))
		if err != nil {
			return nil, false, err
		}
		root = doc
	}

	if !opts.NoDefaultDoctype {
		ensureDoctype(root)
	}
	if opts.Compact {
		compactText(root)
	}

	return root, fragment, nil
}

// wholeDocument reports whether src is a complete document. XHTML is always
// one, whatever element it opens with.
func wholeDocument(src []byte, f format.Format) bool {
	if f == format.XHTML || format.DetectFromMagic(src) == format.XHTML {
		return true
	}
	return format.IsFullDocument(src)
}

// parseFragment parses markup for insertion under context. The markup must
// be well formed: every non-void element closed, and no stray end tags.
func parseFragment(markup string, context *html.Node) ([]*html.Node, error) {
	problems, err := inspect(markup, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFragmentParse, err)
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrFragmentParse, problems[0])
	}

	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFragmentParse, err)
	}
	return nodes, nil
}

// ensureDoctype inserts <!DOCTYPE html> as the first child of root unless it
// already has a doctype.
func ensureDoctype(root *html.Node) {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DoctypeNode {
			return
		}
	}
	root.InsertBefore(&html.Node{Type: html.DoctypeNode, Data: "html"}, root.FirstChild)
}

// compactText merges runs of adjacent text nodes into one.
func compactText(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			for next := c.NextSibling; next != nil && next.Type == html.TextNode; next = c.NextSibling {
				c.Data += next.Data
				n.RemoveChild(next)
			}
			continue
		}
		compactText(c)
	}
}

// problem is a recoverable defect found in markup.
type problem struct {
	Offset int
	Msg    string
}

func (p problem) String() string {
	return fmt.Sprintf("%s at offset %d", p.Msg, p.Offset)
}

// voidElements never have content or an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// optionalEnd lists elements whose end tag HTML allows to be omitted.
var optionalEnd = map[string]bool{
	"html": true, "head": true, "body": true, "p": true, "li": true,
	"dt": true, "dd": true, "option": true, "optgroup": true, "tr": true,
	"td": true, "th": true, "thead": true, "tbody": true, "tfoot": true,
	"colgroup": true, "caption": true, "rb": true, "rt": true, "rtc": true,
	"rp": true,
}

// inspect tokenizes markup and reports unclosed elements and stray end tags.
// In strict mode every non-void element must be closed explicitly. The error
// result is set only when the markup cannot be tokenized at all.
func inspect(markup string, strict bool) ([]problem, error) {
	type open struct {
		name   string
		offset int
	}

	var (
		problems []problem
		stack    []open
		offset   int
	)

	unclosed := func(o open) {
		if strict || !optionalEnd[o.name] {
			problems = append(problems, problem{Offset: o.offset, Msg: fmt.Sprintf("unclosed <%s>", o.name)})
		}
	}

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		start := offset
		offset += len(z.Raw())

		switch tt {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return problems, z.Err()
			}
			for i := len(stack) - 1; i >= 0; i-- {
				unclosed(stack[i])
			}
			return problems, nil

		case html.StartTagToken:
			name, _ := z.TagName()
			if !voidElements[string(name)] {
				stack = append(stack, open{name: string(name), offset: start})
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if voidElements[tag] && !strict {
				continue
			}

			i := len(stack) - 1
			for i >= 0 && stack[i].name != tag {
				i--
			}
			if i < 0 {
				problems = append(problems, problem{Offset: start, Msg: fmt.Sprintf("stray </%s>", tag)})
				continue
			}
			for j := len(stack) - 1; j > i; j-- {
				unclosed(stack[j])
			}
			stack = stack[:i]
		}
	}
}
