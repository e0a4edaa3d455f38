package treecodec_test

import (
	"testing"

	"github.com/astrokit/treecodec"
)

func TestFingerprint_Deterministic(t *testing.T) {
	build := func() *treecodec.Tree {
		tr := treecodec.NewTree()
		tr.SetBinding(currentConstant)
		tr.Set("value", 5.0)
		tr.Set("dimensions", 1)
		return tr
	}
	if treecodec.Fingerprint(build()) != treecodec.Fingerprint(build()) {
		t.Error("identical trees fingerprint differently")
	}
}

func TestFingerprint_SensitiveToContent(t *testing.T) {
	base := treecodec.NewTree()
	base.Set("value", 5.0)

	changed := treecodec.NewTree()
	changed.Set("value", 6.0)

	if treecodec.Fingerprint(base) == treecodec.Fingerprint(changed) {
		t.Error("different values fingerprint identically")
	}

	reordered := treecodec.NewTree()
	reordered.Set("a", 1.0)
	reordered.Set("b", 2.0)
	swapped := treecodec.NewTree()
	swapped.Set("b", 2.0)
	swapped.Set("a", 1.0)
	if treecodec.Fingerprint(reordered) == treecodec.Fingerprint(swapped) {
		t.Error("key order is not part of the fingerprint")
	}
}

func TestFingerprint_NumbersHashByValue(t *testing.T) {
	asInt := treecodec.NewTree()
	asInt.Set("n", 2)
	asFloat := treecodec.NewTree()
	asFloat.Set("n", 2.0)

	if treecodec.Fingerprint(asInt) != treecodec.Fingerprint(asFloat) {
		t.Error("2 and 2.0 fingerprint differently")
	}
}

func TestFingerprint_CycleTerminates(t *testing.T) {
	tr := treecodec.NewTree()
	tr.Set("name", "loop")
	tr.Set("inverse", tr)

	fp := treecodec.Fingerprint(tr)
	if fp == "" {
		t.Fatal("empty fingerprint")
	}

	// Sharing is part of the identity: a structurally equal graph with a
	// copied node instead of an alias hashes differently.
	inner := treecodec.NewTree()
	inner.Set("name", "loop")
	outer := treecodec.NewTree()
	outer.Set("name", "loop")
	outer.Set("inverse", inner)
	if treecodec.Fingerprint(outer) == fp {
		t.Error("aliased and copied graphs fingerprint identically")
	}
}
