// Package selector parses CSS selectors and translates them to XPath 1.0
// expressions.
//
// # Translating Selectors
//
//	xpath, err := selector.Translate("ul.menu > li a[href]")
//	// xpath == "//ul[contains(concat(' ', normalize-space(@class), ' '), ' menu ')]/li//a[@href]"
//
// Selectors are trimmed before parsing. Translate anchors every selector at
// the document; TranslateRelative anchors it at the context node. A selector
// that starts with a combinator ("> li") or with :scope is always anchored at
// the context node.
//
// # Supported Grammar
//
//   - type and universal selectors: div, *
//   - id and class selectors: #main, .item, p.a.b
//   - attribute selectors: [attr], [attr=v], [attr~=v], [attr|=v],
//     [attr^=v], [attr$=v], [attr*=v]
//   - combinators: descendant (space), child (>), adjacent (+), sibling (~)
//   - groups: h1, h2
//   - pseudo-classes: :first-child, :last-child, :only-child,
//     :first-of-type, :last-of-type, :only-of-type, :nth-child(n|odd|even),
//     :nth-of-type(n|odd|even), :empty, :checked, :selected, :disabled,
//     :enabled, :not(compound), :contains(text), :scope
//
// Element and attribute names are case-folded to lower case to match the
// HTML parser. Parse errors are returned as *SyntaxError, which records the
// offending token and its byte offset and matches ErrSyntax with errors.Is.
package selector
