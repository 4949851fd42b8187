// Package format provides markup format detection for the domq library.
package format

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format represents a supported markup format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// HTML indicates an HTML document or fragment.
	HTML
	// XHTML indicates an XHTML document.
	XHTML
	// XML indicates a generic XML document.
	XML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case HTML:
		return "HTML"
	case XHTML:
		return "XHTML"
	case XML:
		return "XML"
	default:
		return "Unknown"
	}
}

// Detect determines markup format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".html", ".htm", ".shtml":
		return HTML
	case ".xhtml", ".xht":
		return XHTML
	case ".xml", ".svg":
		return XML
	default:
		return Unknown
	}
}

// sniffLen bounds how much of the input is inspected by DetectFromMagic.
const sniffLen = 512

// DetectFromMagic inspects the leading bytes of markup to determine its
// format. Returns Unknown if the content does not start like a document.
func DetectFromMagic(data []byte) Format {
	data = skipProlog(data, false)
	if len(data) > sniffLen {
		data = data[:sniffLen]
	}
	upper := strings.ToUpper(string(data))

	switch {
	case strings.HasPrefix(upper, "<?XML"):
		// XML declaration followed by html-like content is XHTML
		if strings.Contains(upper, "<HTML") {
			return XHTML
		}
		return XML
	case strings.HasPrefix(upper, "<!DOCTYPE HTML"):
		if strings.Contains(upper, "XHTML") {
			return XHTML
		}
		return HTML
	case hasTagPrefix(upper, "<HTML"):
		return HTML
	default:
		return Unknown
	}
}

// IsFullDocument reports whether markup is a complete document (it opens with
// a doctype or an <html> start tag, after any whitespace and comments) rather
// than a fragment of body content.
func IsFullDocument(data []byte) bool {
	data = skipProlog(data, true)
	if len(data) > sniffLen {
		data = data[:sniffLen]
	}
	upper := strings.ToUpper(string(data))

	return strings.HasPrefix(upper, "<!DOCTYPE") || hasTagPrefix(upper, "<HTML")
}

// hasTagPrefix reports whether s starts with the tag opener prefix followed by
// whitespace, '>' or '/', so "<htmlx>" does not match "<html".
func hasTagPrefix(s, prefix string) bool {
	if !strings.HasPrefix(s, prefix) {
		return false
	}
	if len(s) == len(prefix) {
		return true
	}
	switch s[len(prefix)] {
	case ' ', '\t', '\n', '\r', '\f', '>', '/':
		return true
	}
	return false
}

// skipProlog trims leading whitespace and, when comments is true, any leading
// comments and XML declarations.
func skipProlog(data []byte, comments bool) []byte {
	for {
		data = bytes.TrimLeft(data, " \t\n\r\f")
		if !comments {
			return data
		}
		switch {
		case bytes.HasPrefix(data, []byte("<!--")):
			end := bytes.Index(data[4:], []byte("-->"))
			if end < 0 {
				return nil
			}
			data = data[4+end+3:]
		case bytes.HasPrefix(data, []byte("<?")):
			end := bytes.Index(data, []byte("?>"))
			if end < 0 {
				return nil
			}
			data = data[end+2:]
		default:
			return data
		}
	}
}
