package filters

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultEncoding is the text encoding assumed when none is configured.
const DefaultEncoding = "utf-8"

// ErrUnknownEncoding is returned when an encoding label is not registered in
// the WHATWG encoding index.
var ErrUnknownEncoding = errors.New("filters: unknown text encoding")

// LookupEncoding resolves a WHATWG encoding label ("utf-8", "latin1",
// "shift_jis", ...) to its encoding and canonical name.
func LookupEncoding(label string) (encoding.Encoding, string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = DefaultEncoding
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
	}

	name, err := htmlindex.Name(enc)
	if err != nil {
		// Registered but unnamed; keep the caller's label.
		name = strings.ToLower(label)
	}

	return enc, name, nil
}

// DecodeToUTF8 converts data from the named encoding to UTF-8. Byte
// sequences that are invalid in the source encoding become U+FFFD.
func DecodeToUTF8(data []byte, label string) ([]byte, error) {
	enc, _, err := LookupEncoding(label)
	if err != nil {
		return nil, err
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", label, err)
	}

	return decoded, nil
}

// EncodeFromUTF8 converts UTF-8 text to the named encoding. Characters the
// target encoding cannot represent are written as numeric character
// references, so the result is always lossless once parsed as HTML.
func EncodeFromUTF8(s string, label string) ([]byte, error) {
	enc, _, err := LookupEncoding(label)
	if err != nil {
		return nil, err
	}

	encoder := encoding.HTMLEscapeUnsupported(enc.NewEncoder())
	encoded, err := encoder.Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", label, err)
	}

	return encoded, nil
}

// DetectEncoding sniffs the encoding of raw markup from its byte-order mark,
// a <meta charset> declaration, or UTF-8 validity, and returns its canonical
// name. Plain ASCII without a declaration identifies nothing and yields "".
func DetectEncoding(data []byte) string {
	_, name, certain := charset.DetermineEncoding(data, "")
	if certain || name != "windows-1252" {
		return name
	}

	// windows-1252 is also the fallback for undecided input.
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	if bytes.Contains(bytes.ToLower(head), []byte("charset")) || !isASCII(data) {
		return name
	}
	return ""
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}
