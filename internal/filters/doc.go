// Package filters provides the byte and text filters applied to markup before
// it reaches the HTML parser and after it leaves the serializer.
//
// # Supported Filters
//
// Byte-order mark removal:
//
//	data = filters.StripBOM(data)
//
// Numeric character references:
//
//	encoded := filters.EncodeNumericEntities("café")   // "caf&#233;"
//	decoded := filters.DecodeNumericEntities(encoded)  // "café"
//
// Every code point from 0xA0 up is escaped on the way in, and only those
// references are decoded on the way out; named entities such as &amp; are
// never touched.
//
// # Text Encodings
//
// Encodings are looked up by WHATWG label through golang.org/x/text:
//
//	text, err := filters.DecodeToUTF8(data, "windows-1252")
//	raw, err := filters.EncodeFromUTF8(text, "windows-1252")
//
// EncodeFromUTF8 writes characters the target encoding cannot represent as
// numeric character references. DetectEncoding sniffs a document's encoding
// from its BOM or <meta charset> declaration.
package filters
