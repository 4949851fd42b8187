package selector

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

type translateFixtures struct {
	Translations []struct {
		CSS      string `yaml:"css"`
		XPath    string `yaml:"xpath"`
		Relative string `yaml:"relative"`
	} `yaml:"translations"`
	Errors []struct {
		CSS    string `yaml:"css"`
		Offset int    `yaml:"offset"`
		Token  string `yaml:"token"`
	} `yaml:"errors"`
}

func loadFixtures(t *testing.T) translateFixtures {
	t.Helper()

	data, err := os.ReadFile("testdata/translate.yaml")
	if err != nil {
		t.Fatalf("reading fixtures: %v", err)
	}

	var fx translateFixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		t.Fatalf("decoding fixtures: %v", err)
	}
	if len(fx.Translations) == 0 || len(fx.Errors) == 0 {
		t.Fatal("fixtures are empty")
	}
	return fx
}

func TestTranslate_Fixtures(t *testing.T) {
	fx := loadFixtures(t)

	for _, tt := range fx.Translations {
		t.Run(tt.CSS, func(t *testing.T) {
			got, err := Translate(tt.CSS)
			if err != nil {
				t.Fatalf("Translate(%q) failed: %v", tt.CSS, err)
			}
			if got != tt.XPath {
				t.Errorf("Translate(%q) =\n  %s\nwant\n  %s", tt.CSS, got, tt.XPath)
			}

			if tt.Relative == "" {
				return
			}
			rel, err := TranslateRelative(tt.CSS)
			if err != nil {
				t.Fatalf("TranslateRelative(%q) failed: %v", tt.CSS, err)
			}
			if rel != tt.Relative {
				t.Errorf("TranslateRelative(%q) = %s, want %s", tt.CSS, rel, tt.Relative)
			}
		})
	}
}

func TestParse_SyntaxErrorFixtures(t *testing.T) {
	fx := loadFixtures(t)

	for _, tt := range fx.Errors {
		t.Run(tt.CSS, func(t *testing.T) {
			_, err := Parse(tt.CSS)
			if err == nil {
				t.Fatalf("Parse(%q) expected error", tt.CSS)
			}
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("Parse(%q) error %v is not ErrSyntax", tt.CSS, err)
			}

			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("Parse(%q) error %T is not *SyntaxError", tt.CSS, err)
			}
			if syntaxErr.Offset != tt.Offset {
				t.Errorf("Parse(%q) offset = %d, want %d (%v)", tt.CSS, syntaxErr.Offset, tt.Offset, err)
			}
			if syntaxErr.Token != tt.Token {
				t.Errorf("Parse(%q) token = %q, want %q (%v)", tt.CSS, syntaxErr.Token, tt.Token, err)
			}
		})
	}
}

func TestSyntaxError_Message(t *testing.T) {
	_, err := Parse("div}")
	if err == nil {
		t.Fatal("Parse() expected error")
	}
	msg := err.Error()
	for _, want := range []string{`"}"`, "offset 3", `"div}"`} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %s", msg, want)
		}
	}

	_, err = Parse("div >")
	if err == nil || !strings.Contains(err.Error(), "end of input") {
		t.Errorf("error at end of input = %v, want mention of end of input", err)
	}
}

func TestParse_Structure(t *testing.T) {
	sel, err := Parse(`ul.nav > li[data-id="7"]:first-child a`)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	want := []Complex{{
		Steps: []Step{
			{Combinator: Descendant, Compound: Compound{Type: "ul", Classes: []string{"nav"}}},
			{Combinator: Child, Compound: Compound{
				Type:    "li",
				Attrs:   []Attr{{Name: "data-id", Op: AttrEquals, Value: "7"}},
				Pseudos: []Pseudo{{Name: "first-child"}},
			}},
			{Combinator: Descendant, Compound: Compound{Type: "a"}},
		},
	}}

	if diff := cmp.Diff(want, sel.Group); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
	if sel.Source() != `ul.nav > li[data-id="7"]:first-child a` {
		t.Errorf("Source() = %q", sel.Source())
	}
}

func TestParse_Relative(t *testing.T) {
	tests := []struct {
		css  string
		want bool
	}{
		{"div", false},
		{"> li", true},
		{"~ p", true},
		{":scope a", true},
		{"> li, a", false},
		{"> li, + p", true},
	}

	for _, tt := range tests {
		sel, err := Parse(tt.css)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", tt.css, err)
		}
		if got := sel.IsRelative(); got != tt.want {
			t.Errorf("Parse(%q).IsRelative() = %v, want %v", tt.css, got, tt.want)
		}
	}
}

func TestSelector_String(t *testing.T) {
	tests := []struct {
		css  string
		want string
	}{
		{"div", "div"},
		{"DIV  >  P", "div > p"},
		{"a[href='x']", `a[href="x"]`},
		{"[href]", "[href]"},
		{"li:nth-child(odd)", "li:nth-child(odd)"},
		{"li:nth-child( 3 )", "li:nth-child(3)"},
		{"p:not(.a)", "p:not(.a)"},
		{"> li", ":scope > li"},
		{"h1,h2", "h1, h2"},
	}

	for _, tt := range tests {
		sel, err := Parse(tt.css)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", tt.css, err)
		}
		if got := sel.String(); got != tt.want {
			t.Errorf("Parse(%q).String() = %q, want %q", tt.css, got, tt.want)
		}
	}
}

func TestTranslate_Deterministic(t *testing.T) {
	const css = "div.a > p:nth-child(2), span[title^=x]"
	first := MustTranslate(css)
	for i := 0; i < 5; i++ {
		if got := MustTranslate(css); got != first {
			t.Fatalf("MustTranslate() = %q, then %q", first, got)
		}
	}
}

func TestMustTranslate_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustTranslate() did not panic on invalid selector")
		}
	}()
	MustTranslate("div[")
}

func TestAttrIncludes_Whitespace(t *testing.T) {
	got := MustTranslate(`[rel~="a b"]`)
	if got != "//*[false()]" {
		t.Errorf("Translate() = %q, want //*[false()]", got)
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "'plain'"},
		{"", "''"},
		{"it's", `"it's"`},
		{`say "hi"`, `'say "hi"'`},
		{`it's "x"`, `concat('it', "'", 's "x"')`},
	}

	for _, tt := range tests {
		if got := Literal(tt.input); got != tt.want {
			t.Errorf("Literal(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}
