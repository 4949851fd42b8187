package domq

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNodeList(t *testing.T) {
	d := load(t, `<i id="a"></i><i id="b"></i><i id="c"></i>`)
	list := d.GetElementsByTagName("i")

	if got := list.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}
	if id, _ := list.Item(1).Attr("id"); id != "b" {
		t.Errorf("Item(1) id = %q, want b", id)
	}
	if !list.First().Is(list.Item(0)) {
		t.Error("First() is not Item(0)")
	}

	for _, i := range []int{-1, 3, 100} {
		if e := list.Item(i); e != nil {
			t.Errorf("Item(%d) = %v, want nil", i, e)
		}
	}

	var seen []int
	list.Each(func(i int, e *Element) {
		seen = append(seen, i)
	})
	if diff := cmp.Diff([]int{0, 1, 2}, seen); diff != "" {
		t.Errorf("Each() indexes (-want +got):\n%s", diff)
	}

	// Stopping early ends the iteration.
	var firstTwo []string
	for i, e := range list.All() {
		if i == 2 {
			break
		}
		id, _ := e.Attr("id")
		firstTwo = append(firstTwo, id)
	}
	if diff := cmp.Diff([]string{"a", "b"}, firstTwo); diff != "" {
		t.Errorf("All() (-want +got):\n%s", diff)
	}

	elems := list.Elements()
	elems[0] = nil
	if list.Item(0) == nil {
		t.Error("Elements() aliased the list")
	}

	nodes := list.Nodes()
	if len(nodes) != 3 || nodes[2] != list.Item(2).Node() {
		t.Errorf("Nodes() = %v", nodes)
	}
}

func TestNodeList_Nil(t *testing.T) {
	var list *NodeList

	if list.Len() != 0 || list.Item(0) != nil || list.First() != nil {
		t.Error("nil list is not empty")
	}
	if len(list.Elements()) != 0 || len(list.Nodes()) != 0 {
		t.Error("nil list has elements")
	}
	list.Each(func(int, *Element) {
		t.Error("Each() called fn on a nil list")
	})
	for range list.All() {
		t.Error("All() yielded from a nil list")
	}
}
