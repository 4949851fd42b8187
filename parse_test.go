package domq

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/tsawler/domq/format"
)

func TestInspect(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		strict bool
		want   []problem
	}{
		{"balanced", `<div><p>x</p></div>`, true, nil},
		{"void and self-closing", `<p>a<br><img src="x"><span/></p>`, true, nil},
		{"unclosed", `<div><b>x</div>`, false, []problem{{Offset: 5, Msg: "unclosed <b>"}}},
		{"stray", `<p>x</p></i>`, false, []problem{{Offset: 8, Msg: "stray </i>"}}},
		{"unclosed at end", `<em>x`, false, []problem{{Offset: 0, Msg: "unclosed <em>"}}},
		{"optional end tags lenient", `<ul><li>a<li>b</ul><p>x`, false, nil},
		{"optional end tags strict", `<ul><li>a</ul>`, true, []problem{{Offset: 4, Msg: "unclosed <li>"}}},
		{"void end tag lenient", `<p>x</br></p>`, false, nil},
		{"void end tag strict", `x</br>`, true, []problem{{Offset: 1, Msg: "stray </br>"}}},
		{"script content ignored", `<script>if (a<b) { "</div>" }</script>`, true, nil},
		{"offsets past non-ascii", `<p>é</x></p>`, false, []problem{{Offset: 5, Msg: "stray </x>"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := inspect(tt.markup, tt.strict)
			if err != nil {
				t.Fatalf("inspect() failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("inspect(%q) (-want +got):\n%s", tt.markup, diff)
			}
		})
	}
}

func TestCompactText(t *testing.T) {
	root := newRoot()
	p := &html.Node{Type: html.ElementNode, Data: "p"}
	root.AppendChild(p)
	for _, s := range []string{"a", "b", "c"} {
		p.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	}
	p.AppendChild(&html.Node{Type: html.ElementNode, Data: "br"})
	p.AppendChild(&html.Node{Type: html.TextNode, Data: "d"})

	compactText(root)

	var got []string
	for c := p.FirstChild; c != nil; c = c.NextSibling {
		got = append(got, c.Data)
	}
	if diff := cmp.Diff([]string{"abc", "br", "d"}, got); diff != "" {
		t.Errorf("children after compactText (-want +got):\n%s", diff)
	}
}

func TestEnsureDoctype(t *testing.T) {
	root, _, err := parseTree(`<p>x</p>`, LoadOptions{NoImplied: true, NoDefaultDoctype: true}, format.Unknown)
	if err != nil {
		t.Fatalf("parseTree() failed: %v", err)
	}

	ensureDoctype(root)
	ensureDoctype(root)

	var b strings.Builder
	if err := html.Render(&b, root); err != nil {
		t.Fatal(err)
	}
	if got := b.String(); got != "<!DOCTYPE html><p>x</p>" {
		t.Errorf("rendered = %q, want one doctype", got)
	}
}

func TestParseFragment(t *testing.T) {
	ctx := bodyContext()

	nodes, err := parseFragment(`<b>x</b>y`, ctx)
	if err != nil {
		t.Fatalf("parseFragment() failed: %v", err)
	}
	if len(nodes) != 2 || nodes[0].Data != "b" || nodes[1].Data != "y" {
		t.Errorf("parseFragment() = %v", nodes)
	}
	for _, n := range nodes {
		if n.Parent != nil {
			t.Errorf("node %q is still attached", n.Data)
		}
	}
}

func TestWholeDocument(t *testing.T) {
	tests := []struct {
		name string
		src  string
		f    format.Format
		want bool
	}{
		{"fragment", `<p>x</p>`, format.Unknown, false},
		{"html fragment file", `<p>x</p>`, format.HTML, false},
		{"doctype", `<!DOCTYPE html><p>x</p>`, format.Unknown, true},
		{"html element", `<!-- c --><html><p>x</p></html>`, format.Unknown, true},
		{"xhtml file", `<p>x</p>`, format.XHTML, true},
		{"xml prolog with html", `<?xml version="1.0"?><!-- c --><x/><html></html>`, format.Unknown, true},
		{"plain xml", `<?xml version="1.0"?><svg></svg>`, format.Unknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wholeDocument([]byte(tt.src), tt.f); got != tt.want {
				t.Errorf("wholeDocument(%q, %v) = %v, want %v", tt.src, tt.f, got, tt.want)
			}
		})
	}
}
