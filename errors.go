package domq

import (
	"errors"

	"github.com/tsawler/domq/internal/filters"
	"github.com/tsawler/domq/query"
	"github.com/tsawler/domq/selector"
)

var (
	// ErrIO is returned when markup cannot be read from its source.
	ErrIO = errors.New("domq: source unreadable")

	// ErrParse is returned when markup cannot be parsed at all. Malformed
	// but recoverable markup is not an error.
	ErrParse = errors.New("domq: markup could not be parsed")

	// ErrFragmentParse is returned by SetInnerHTML for malformed markup.
	// The element is left unchanged.
	ErrFragmentParse = errors.New("domq: malformed fragment")

	// ErrSerialization is returned when a node cannot be rendered, for
	// example because it does not belong to the document.
	ErrSerialization = errors.New("domq: node cannot be serialized")

	// ErrUnknownEncoding is returned when the configured text encoding is
	// not a known WHATWG label.
	ErrUnknownEncoding = filters.ErrUnknownEncoding

	// ErrSelectorSyntax is matched by selector syntax errors. Use errors.As
	// with *selector.SyntaxError for the offending token and offset.
	ErrSelectorSyntax = selector.ErrSyntax

	// ErrQuery is returned for malformed XPath expressions.
	ErrQuery = query.ErrExpression
)
