package selector

import (
	"strconv"
	"strings"
)

// Combinator joins two compound selectors.
type Combinator int

const (
	// Descendant matches any descendant (whitespace).
	Descendant Combinator = iota
	// Child matches direct children (>).
	Child
	// Adjacent matches the immediately following sibling (+).
	Adjacent
	// Sibling matches any following sibling (~).
	Sibling
)

// String returns the CSS spelling of the combinator.
func (c Combinator) String() string {
	switch c {
	case Child:
		return ">"
	case Adjacent:
		return "+"
	case Sibling:
		return "~"
	default:
		return " "
	}
}

// AttrOp is the comparison used by an attribute selector.
type AttrOp int

const (
	// AttrExists matches [attr].
	AttrExists AttrOp = iota
	// AttrEquals matches [attr=value].
	AttrEquals
	// AttrIncludes matches [attr~=value], a whitespace-separated token.
	AttrIncludes
	// AttrDashMatch matches [attr|=value], value or value followed by '-'.
	AttrDashMatch
	// AttrPrefix matches [attr^=value].
	AttrPrefix
	// AttrSuffix matches [attr$=value].
	AttrSuffix
	// AttrSubstring matches [attr*=value].
	AttrSubstring
)

// String returns the CSS operator, or "" for AttrExists.
func (op AttrOp) String() string {
	switch op {
	case AttrEquals:
		return "="
	case AttrIncludes:
		return "~="
	case AttrDashMatch:
		return "|="
	case AttrPrefix:
		return "^="
	case AttrSuffix:
		return "$="
	case AttrSubstring:
		return "*="
	default:
		return ""
	}
}

// Attr is an attribute predicate.
type Attr struct {
	Name  string
	Op    AttrOp
	Value string
}

// Pseudo is a pseudo-class such as :first-child or :nth-child(2).
type Pseudo struct {
	Name string

	// Nth holds the position for :nth-child and :nth-of-type. Zero with
	// Parity set means odd (1) or even (2).
	Nth    int
	Parity int

	// Text is the argument of :contains.
	Text string

	// Not is the argument of :not.
	Not *Compound
}

// Compound is a sequence of simple selectors with no combinator between them,
// for example "a.external[href]".
type Compound struct {
	// Type is the element name, "*" or "" (no type selector).
	Type    string
	IDs     []string
	Classes []string
	Attrs   []Attr
	Pseudos []Pseudo
}

// Step is a compound selector and the combinator that links it to the
// previous step. The combinator of the first step links it to the context
// node.
type Step struct {
	Combinator Combinator
	Compound   Compound
}

// Complex is a chain of compound selectors.
type Complex struct {
	// Relative is set when the selector starts with a combinator or :scope
	// and is therefore anchored at the current node.
	Relative bool
	Steps    []Step
}

// Selector is a parsed, comma-separated group of complex selectors.
type Selector struct {
	source string
	Group  []Complex
}

// Source returns the trimmed text the selector was parsed from.
func (s *Selector) Source() string {
	return s.source
}

// IsRelative reports whether every selector in the group is anchored at the
// current node.
func (s *Selector) IsRelative() bool {
	if len(s.Group) == 0 {
		return false
	}
	for _, c := range s.Group {
		if !c.Relative {
			return false
		}
	}
	return true
}

// String renders the selector back to canonical CSS.
func (s *Selector) String() string {
	parts := make([]string, len(s.Group))
	for i, c := range s.Group {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// String renders the complex selector as CSS.
func (c Complex) String() string {
	var b strings.Builder
	if c.Relative {
		b.WriteString(":scope")
	}
	for i, step := range c.Steps {
		if i > 0 || c.Relative {
			if step.Combinator == Descendant {
				b.WriteByte(' ')
			} else {
				b.WriteString(" " + step.Combinator.String() + " ")
			}
		}
		b.WriteString(step.Compound.String())
	}
	return b.String()
}

// String renders the compound selector as CSS.
func (c Compound) String() string {
	var b strings.Builder
	b.WriteString(c.Type)
	for _, id := range c.IDs {
		b.WriteString("#" + id)
	}
	for _, class := range c.Classes {
		b.WriteString("." + class)
	}
	for _, a := range c.Attrs {
		b.WriteString("[" + a.Name)
		if a.Op != AttrExists {
			b.WriteString(a.Op.String() + strconv.Quote(a.Value))
		}
		b.WriteString("]")
	}
	for _, p := range c.Pseudos {
		b.WriteString(":" + p.Name)
		switch {
		case p.Not != nil:
			b.WriteString("(" + p.Not.String() + ")")
		case p.Name == "contains":
			b.WriteString("(" + strconv.Quote(p.Text) + ")")
		case p.Parity == 1:
			b.WriteString("(odd)")
		case p.Parity == 2:
			b.WriteString("(even)")
		case p.Nth > 0:
			b.WriteString("(" + strconv.Itoa(p.Nth) + ")")
		}
	}
	if b.Len() == 0 {
		return "*"
	}
	return b.String()
}
