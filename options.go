package domq

import (
	"go.uber.org/zap"

	"github.com/tsawler/domq/internal/filters"
	"github.com/tsawler/domq/query"
)

// LoadOptions holds configuration for turning markup into a tree.
type LoadOptions struct {
	// NoImplied parses body content as a fragment, without the html, head
	// and body elements the HTML parser would otherwise add. Markup that is
	// itself a full document (it opens with a doctype or <html>) is always
	// parsed as a document.
	NoImplied bool

	// NoDefaultDoctype leaves documents without a doctype as they are.
	// When false, <!DOCTYPE html> is inserted if none is present.
	NoDefaultDoctype bool

	// Compact merges adjacent text nodes.
	Compact bool
}

// DefaultLoadOptions returns the lenient options used when a load call
// does not supply its own.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		NoImplied:        true,
		NoDefaultDoctype: true,
		Compact:          true,
	}
}

// Option configures a Document.
type Option func(*Document)

// WithEncoding sets the text encoding of loaded and saved markup. Any WHATWG
// label is accepted ("utf-8", "windows-1252", "shift_jis", ...). An unknown
// label makes every load fail with ErrUnknownEncoding.
func WithEncoding(label string) Option {
	return func(d *Document) {
		d.encoding = label
	}
}

// WithEncodingDetection makes loads sniff the encoding from the markup's
// byte-order mark or <meta charset> declaration, falling back to the
// configured encoding when the markup declares none.
func WithEncodingDetection() Option {
	return func(d *Document) {
		d.detectEncoding = true
	}
}

// WithLogger sets the logger used for debug output about loads and queries.
// The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithLoadOptions replaces the default LoadOptions.
func WithLoadOptions(opts LoadOptions) Option {
	return func(d *Document) {
		d.loadOptions = opts
	}
}

// WithQueryCacheSize sets how many compiled XPath expressions the document's
// query engine keeps. Zero disables caching.
func WithQueryCacheSize(n int) Option {
	return func(d *Document) {
		d.cacheSize = n
	}
}

// defaultDocument returns a Document with default configuration and an empty
// tree.
func defaultDocument() *Document {
	return &Document{
		root:        newRoot(),
		encoding:    filters.DefaultEncoding,
		loadOptions: DefaultLoadOptions(),
		cacheSize:   query.DefaultCacheSize,
		logger:      zap.NewNop(),
	}
}
