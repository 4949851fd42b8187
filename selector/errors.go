package selector

import (
	"errors"
	"fmt"
)

// ErrSyntax is matched by every *SyntaxError via errors.Is.
var ErrSyntax = errors.New("selector: syntax error")

// SyntaxError describes a selector that could not be parsed.
type SyntaxError struct {
	// Selector is the trimmed input.
	Selector string
	// Offset is the byte offset of the offending token within Selector.
	Offset int
	// Token is the offending text, or "" at end of input.
	Token string
	// Msg says what was expected.
	Msg string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	token := fmt.Sprintf("%q", e.Token)
	if e.Token == "" {
		token = "end of input"
	}
	return fmt.Sprintf("selector: %s at offset %d (%s) in %q", e.Msg, e.Offset, token, e.Selector)
}

// Is reports whether target is ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}
