package domq

import (
	"iter"

	"golang.org/x/net/html"
)

// NodeList is an immutable, ordered list of elements. A nil *NodeList is an
// empty list.
type NodeList struct {
	elements []*Element
}

// newNodeList wraps the element nodes among nodes, keeping their order.
// Nodes the query engine synthesizes for attribute matches have no parent
// and are skipped along with every non-element node.
func (d *Document) newNodeList(nodes []*html.Node) *NodeList {
	elements := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		if n.Type != html.ElementNode || n.Parent == nil {
			continue
		}
		elements = append(elements, &Element{doc: d, node: n})
	}
	return &NodeList{elements: elements}
}

// Len returns the number of elements in the list.
func (l *NodeList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.elements)
}

// Item returns the element at index i, or nil if i is out of range.
func (l *NodeList) Item(i int) *Element {
	if i < 0 || i >= l.Len() {
		return nil
	}
	return l.elements[i]
}

// First returns the first element, or nil for an empty list.
func (l *NodeList) First() *Element {
	return l.Item(0)
}

// Elements returns a copy of the list's elements.
func (l *NodeList) Elements() []*Element {
	out := make([]*Element, l.Len())
	if l != nil {
		copy(out, l.elements)
	}
	return out
}

// Nodes returns the underlying nodes.
func (l *NodeList) Nodes() []*html.Node {
	out := make([]*html.Node, l.Len())
	for i := range out {
		out[i] = l.elements[i].node
	}
	return out
}

// Each calls fn for every element in order.
func (l *NodeList) Each(fn func(i int, e *Element)) {
	for i := 0; i < l.Len(); i++ {
		fn(i, l.elements[i])
	}
}

// All returns an iterator over the list's indexes and elements.
//
//	for i, e := range list.All() {
//	    fmt.Println(i, e.TagName())
//	}
func (l *NodeList) All() iter.Seq2[int, *Element] {
	return func(yield func(int, *Element) bool) {
		for i := 0; i < l.Len(); i++ {
			if !yield(i, l.elements[i]) {
				return
			}
		}
	}
}
