package filters

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"
)

// utf8BOM is the byte-order mark some editors prepend to UTF-8 files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// MinEncodedRune is the first code point escaped by EncodeNumericEntities.
// Below it are ASCII and the C1 controls, which pass through unchanged: an
// HTML parser reads &#128; to &#159; as windows-1252 characters, not as the
// code points they name.
const MinEncodedRune = 0xA0

// StripBOM removes a leading UTF-8 byte-order mark, if present.
func StripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// HasBOM reports whether data starts with a UTF-8 byte-order mark.
func HasBOM(data []byte) bool {
	return bytes.HasPrefix(data, utf8BOM)
}

// EncodeNumericEntities replaces every code point in [0xA0, 0x10FFFF] with a
// decimal numeric character reference such as "&#233;". ASCII text and C1
// controls are copied as-is, so markup syntax is never altered.
func EncodeNumericEntities(s string) string {
	// Fast path: pure ASCII input.
	i := 0
	for i < len(s) && s[i] < utf8.RuneSelf {
		i++
	}
	if i == len(s) {
		return s
	}

	var result strings.Builder
	result.Grow(len(s) + len(s)/2)
	result.WriteString(s[:i])

	for _, r := range s[i:] {
		if r < MinEncodedRune {
			result.WriteRune(r)
			continue
		}
		result.WriteString("&#")
		result.WriteString(strconv.Itoa(int(r)))
		result.WriteByte(';')
	}

	return result.String()
}

// DecodeNumericEntities is the inverse of EncodeNumericEntities. Decimal
// ("&#233;") and hexadecimal ("&#xE9;") references to code points >= 0xA0 are
// replaced by the literal character. References below 0xA0, named entities
// and malformed references are left untouched so the output remains valid
// markup.
func DecodeNumericEntities(s string) string {
	if !strings.Contains(s, "&#") {
		return s
	}

	var result strings.Builder
	result.Grow(len(s))

	i := 0
	for i < len(s) {
		amp := strings.Index(s[i:], "&#")
		if amp < 0 {
			result.WriteString(s[i:])
			break
		}
		result.WriteString(s[i : i+amp])
		i += amp

		r, n := readNumericRef(s[i:])
		if n == 0 {
			// Not a reference we produced; copy the '&' and keep scanning.
			result.WriteByte('&')
			i++
			continue
		}
		result.WriteRune(r)
		i += n
	}

	return result.String()
}

// readNumericRef parses a numeric character reference at the start of s.
// It returns the rune and the number of bytes consumed, or 0 if s does not
// start with a decodable reference to a non-ASCII code point.
func readNumericRef(s string) (rune, int) {
	// s[0:2] == "&#"
	pos := 2
	base := 10
	if pos < len(s) && (s[pos] == 'x' || s[pos] == 'X') {
		base = 16
		pos++
	}

	start := pos
	for pos < len(s) && isDigit(s[pos], base) {
		pos++
	}
	if pos == start || pos >= len(s) || s[pos] != ';' {
		return 0, 0
	}
	// Longest valid reference is &#1114111; - anything longer overflows.
	if pos-start > 7 {
		return 0, 0
	}

	v, err := strconv.ParseUint(s[start:pos], base, 32)
	if err != nil {
		return 0, 0
	}
	r := rune(v)
	if r < MinEncodedRune || !utf8.ValidRune(r) {
		return 0, 0
	}

	return r, pos + 1
}

func isDigit(c byte, base int) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	if base == 16 {
		return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	}
	return false
}
