// Package query evaluates XPath expressions against golang.org/x/net/html
// trees.
//
// An Engine is bound to one tree and compiles expressions with
// github.com/antchfx/xpath, caching compiled expressions in a small LRU:
//
//	engine := query.New(root)
//	nodes, err := engine.QueryAll("//div[@id='main']//a")
//
// Results are always returned de-duplicated and in document order (the order
// of a pre-order, depth-first walk), including for unions such as
// "//h2 | //h1" whose operands match out of order. An expression that matches
// nothing yields an empty slice and a nil error; only malformed expressions
// yield ErrExpression.
package query
