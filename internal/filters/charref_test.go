package filters

import (
	"bytes"
	"testing"
)

func TestStripBOM(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  []byte
	}{
		{"with BOM", []byte("\xEF\xBB\xBF<p>x</p>"), []byte("<p>x</p>")},
		{"without BOM", []byte("<p>x</p>"), []byte("<p>x</p>")},
		{"only BOM", []byte("\xEF\xBB\xBF"), []byte{}},
		{"partial BOM", []byte("\xEF\xBB<p>"), []byte("\xEF\xBB<p>")},
		{"empty", []byte{}, []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripBOM(tt.input)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("StripBOM(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHasBOM(t *testing.T) {
	if !HasBOM([]byte("\xEF\xBB\xBFabc")) {
		t.Error("HasBOM() = false for BOM-prefixed data")
	}
	if HasBOM([]byte("abc")) {
		t.Error("HasBOM() = true for plain data")
	}
}

func TestEncodeNumericEntities(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"<p class=\"a\">plain</p>", "<p class=\"a\">plain</p>"},
		{"café", "caf&#233;"},
		{"<p>ü</p>", "<p>&#252;</p>"},
		{"\u0080", "\u0080"},
		{"a\u0085b\u009fc", "a\u0085b\u009fc"},
		{"\u00a0", "&#160;"},
		{"\u007f", "\u007f"},
		{"日本", "&#26085;&#26412;"},
		{"😀", "&#128512;"},
		{"a\U0010FFFFb", "a&#1114111;b"},
	}

	for _, tt := range tests {
		if got := EncodeNumericEntities(tt.input); got != tt.want {
			t.Errorf("EncodeNumericEntities(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDecodeNumericEntities(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"no refs", "no refs"},
		{"caf&#233;", "café"},
		{"caf&#xE9;", "café"},
		{"caf&#Xe9;", "café"},
		{"&#26085;&#26412;", "日本"},
		// ASCII references were not produced by the encoder.
		{"&#60;p&#62;", "&#60;p&#62;"},
		// Nor were C1 references, which parsers map through windows-1252.
		{"&#150;&#x85;", "&#150;&#x85;"},
		{"a &amp; b", "a &amp; b"},
		{"&#233", "&#233"},
		{"&#;", "&#;"},
		{"&#x;", "&#x;"},
		{"&#99999999;", "&#99999999;"},
		// Surrogates are not valid runes.
		{"&#55296;", "&#55296;"},
		{"&&#233;", "&é"},
		{"trailing &#", "trailing &#"},
	}

	for _, tt := range tests {
		if got := DecodeNumericEntities(tt.input); got != tt.want {
			t.Errorf("DecodeNumericEntities(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNumericEntitiesRoundTrip(t *testing.T) {
	inputs := []string{
		"<p>Héllo wörld</p>",
		"<div title=\"naïve\">Ελληνικά – русский – 中文</div>",
		"emoji 😀 and symbols ©®™",
		"ascii only",
		"c1 \u0085 and \u0096 controls",
	}

	for _, input := range inputs {
		encoded := EncodeNumericEntities(input)
		for i, r := range encoded {
			if r >= 0xA0 {
				t.Fatalf("EncodeNumericEntities(%q) left %q at %d", input, r, i)
			}
		}
		if got := DecodeNumericEntities(encoded); got != input {
			t.Errorf("round trip of %q = %q", input, got)
		}
	}
}
