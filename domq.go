// Package domq adds jQuery-like conveniences to HTML trees parsed by
// golang.org/x/net/html: CSS selector queries, inner and outer HTML, and
// class-based lookups.
//
// Basic usage:
//
//	doc := domq.New()
//	if err := doc.LoadString(`<ul><li class="a">one</li><li>two</li></ul>`); err != nil {
//	    // handle error
//	}
//	items, err := doc.QuerySelectorAll("ul > li.a")
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(items.First().OuterHTML())
//
// Markup is decoded from the document's text encoding (UTF-8 unless
// WithEncoding says otherwise) and parsed leniently: malformed markup is
// repaired and each problem is logged at debug level. SetInnerHTML is the
// exception and rejects malformed fragments with ErrFragmentParse.
//
// For lower-level work, the selector package translates CSS to XPath and the
// query package evaluates XPath against any *html.Node tree.
package domq

// Open reads and parses the file at path into a new Document configured by
// opts.
//
// Example:
//
//	doc, err := domq.Open("page.html", domq.WithEncoding("windows-1252"))
func Open(path string, opts ...Option) (*Document, error) {
	d := New(opts...)
	if err := d.LoadFile(path); err != nil {
		return nil, err
	}
	return d, nil
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	links := domq.Must(doc.QuerySelectorAll("a[href]"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
