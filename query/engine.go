package query

import (
	"errors"
	"fmt"
	"sort"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"github.com/golang/groupcache/lru"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// DefaultCacheSize is the number of compiled expressions an Engine keeps.
const DefaultCacheSize = 64

// ErrExpression is returned for XPath expressions that fail to compile or
// evaluate.
var ErrExpression = errors.New("query: invalid expression")

// Engine evaluates XPath expressions against one HTML tree.
// An Engine is not safe for concurrent use.
type Engine struct {
	root   *html.Node
	cache  *lru.Cache
	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*config)

type config struct {
	cacheSize int
	logger    *zap.Logger
}

// WithCacheSize sets how many compiled expressions are cached. Zero disables
// the cache.
func WithCacheSize(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.cacheSize = n
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns an Engine bound to root.
func New(root *html.Node, opts ...Option) *Engine {
	cfg := config{
		cacheSize: DefaultCacheSize,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		root:   root,
		logger: cfg.logger.Named("query"),
	}
	if cfg.cacheSize > 0 {
		e.cache = lru.New(cfg.cacheSize)
	}
	return e
}

// Root returns the tree the engine is bound to.
func (e *Engine) Root() *html.Node {
	return e.root
}

// Compile compiles expr, reusing a cached result when available.
func (e *Engine) Compile(expr string) (*xpath.Expr, error) {
	if e.cache != nil {
		if v, ok := e.cache.Get(expr); ok {
			return v.(*xpath.Expr), nil
		}
	}

	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrExpression, expr, err)
	}
	e.logger.Debug("compiled expression", zap.String("expr", expr))

	if e.cache != nil {
		e.cache.Add(expr, compiled)
	}
	return compiled, nil
}

// QueryAll evaluates expr against the bound tree and returns the matching
// nodes in document order. No match is an empty result, not an error.
func (e *Engine) QueryAll(expr string) ([]*html.Node, error) {
	return e.QueryAllFrom(e.root, expr)
}

// QueryAllFrom evaluates expr with context as the context node. Absolute
// location paths are resolved within the subtree rooted at context.
func (e *Engine) QueryAllFrom(context *html.Node, expr string) (nodes []*html.Node, err error) {
	if context == nil {
		return nil, nil
	}

	compiled, err := e.Compile(expr)
	if err != nil {
		return nil, err
	}

	// Evaluation panics on type errors such as calling a node-set function
	// with a number.
	defer func() {
		if r := recover(); r != nil {
			nodes = nil
			err = fmt.Errorf("%w: %q: %v", ErrExpression, expr, r)
		}
	}()

	matches := htmlquery.QuerySelectorAll(context, compiled)
	return SortDocumentOrder(e.root, matches), nil
}

// Query returns the first match of expr in document order, or nil.
func (e *Engine) Query(expr string) (*html.Node, error) {
	nodes, err := e.QueryAll(expr)
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	return nodes[0], nil
}

// DocumentOrder returns the pre-order position of every node under root,
// root included.
func DocumentOrder(root *html.Node) map[*html.Node]int {
	order := make(map[*html.Node]int)
	if root == nil {
		return order
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		order[n] = len(order)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return order
}

// SortDocumentOrder returns nodes de-duplicated and sorted by their position
// under root. Nodes outside the tree, such as the synthetic nodes produced
// for attribute matches, keep their relative order after all tree nodes.
func SortDocumentOrder(root *html.Node, nodes []*html.Node) []*html.Node {
	if len(nodes) == 0 {
		return []*html.Node{}
	}

	seen := make(map[*html.Node]bool, len(nodes))
	result := make([]*html.Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil || seen[n] {
			continue
		}
		seen[n] = true
		result = append(result, n)
	}
	if len(result) < 2 {
		return result
	}

	order := DocumentOrder(root)
	sort.SliceStable(result, func(i, j int) bool {
		pi, okI := order[result[i]]
		pj, okJ := order[result[j]]
		switch {
		case okI && okJ:
			return pi < pj
		default:
			return okI && !okJ
		}
	})

	return result
}
