package treecodec_test

import (
	"testing"

	"github.com/astrokit/treecodec"
)

func TestTree_KeyOrder(t *testing.T) {
	tree := treecodec.NewTree()
	tree.Set("value", 5.0)
	tree.Set("dimensions", 2)
	tree.Set("name", "const")
	tree.Set("value", 6.0) // overwrite keeps original position

	want := []string{"value", "dimensions", "name"}
	got := tree.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if v, _ := tree.Float("value"); v != 6.0 {
		t.Errorf("Float(value) = %v, want 6.0", v)
	}
}

func TestTree_TypedGetters(t *testing.T) {
	tree := treecodec.NewTree()
	tree.Set("n", 3)
	tree.Set("f", 2.5)
	tree.Set("whole", 4.0)
	tree.Set("s", "label")
	tree.Set("b", true)

	if n, ok := tree.Int("n"); !ok || n != 3 {
		t.Errorf("Int(n) = %d, %t", n, ok)
	}
	// Containers may widen ints to floats; integral floats read back as ints.
	if n, ok := tree.Int("whole"); !ok || n != 4 {
		t.Errorf("Int(whole) = %d, %t", n, ok)
	}
	if _, ok := tree.Int("f"); ok {
		t.Error("Int(f) should fail for a fractional float")
	}
	if f, ok := tree.Float("n"); !ok || f != 3.0 {
		t.Errorf("Float(n) = %v, %t", f, ok)
	}
	if s, ok := tree.String("s"); !ok || s != "label" {
		t.Errorf("String(s) = %q, %t", s, ok)
	}
	if b, ok := tree.Bool("b"); !ok || !b {
		t.Errorf("Bool(b) = %t, %t", b, ok)
	}
	if _, ok := tree.Get("missing"); ok {
		t.Error("Get(missing) should report absence")
	}
}

func TestTree_ClonePreservesSharing(t *testing.T) {
	root := treecodec.NewTree()
	root.Set("value", 1.0)
	root.Set("inverse", root) // self-cycle

	clone := root.Clone()
	if clone == root {
		t.Fatal("Clone() returned the original node")
	}
	inv, ok := clone.Subtree("inverse")
	if !ok {
		t.Fatal("clone lost the inverse key")
	}
	if inv != clone {
		t.Error("clone broke the self-reference: inverse is a distinct node")
	}
	if v, _ := inv.Float("value"); v != 1.0 {
		t.Errorf("cloned value = %v, want 1.0", v)
	}
}

func TestTree_CloneIsDeep(t *testing.T) {
	nested := treecodec.NewTree()
	nested.Set("unit", "m")
	root := treecodec.NewTree()
	root.Set("child", nested)
	root.Set("box", []any{[]any{0.0, 1.0}})

	clone := root.Clone()
	child, _ := clone.Subtree("child")
	child.Set("unit", "km")

	if u, _ := nested.String("unit"); u != "m" {
		t.Errorf("mutating the clone leaked into the original: unit = %q", u)
	}
}
