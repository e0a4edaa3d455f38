package treecodec_test

import (
	"context"
	"testing"

	"github.com/astrokit/treecodec"
	"github.com/astrokit/treecodec/modeltest"
)

func TestIdentity_RoundTrip(t *testing.T) {
	reg := treecodec.NewStandardRegistry()

	for _, nDims := range []int{1, 3} {
		m := treecodec.NewIdentity(nDims)
		decoded := modeltest.RoundTrip(t, reg, m)
		if decoded.NInputs() != nDims {
			t.Errorf("decoded arity = %d, want %d", decoded.NInputs(), nDims)
		}
	}
}

func TestIdentity_CompactForm(t *testing.T) {
	reg := treecodec.NewStandardRegistry()
	ctx := context.Background()

	// Arity 1 is the canonical compact form: no n_dims key at all.
	tree, err := treecodec.NewSession(reg).Encode(ctx, treecodec.NewIdentity(1))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if tree.Has("n_dims") {
		t.Error("arity-1 identity tree carries n_dims, want it omitted")
	}

	// A tree without n_dims decodes as arity 1.
	bare := treecodec.NewTree()
	bare.SetBinding(treecodec.Binding{Base: "http://astroasdf.org/schemas/transform/identity", Version: "1.0.0"})
	m, err := treecodec.NewSession(reg).Decode(ctx, bare)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.NInputs() != 1 {
		t.Errorf("decoded arity = %d, want 1", m.NInputs())
	}
}

func TestIdentity_ScenarioNDims3(t *testing.T) {
	reg := treecodec.NewStandardRegistry()
	ctx := context.Background()

	tree := treecodec.NewTree()
	tree.SetBinding(treecodec.Binding{Base: "http://astroasdf.org/schemas/transform/identity", Version: "1.0.0"})
	tree.Set("n_dims", 3)

	m, err := treecodec.NewSession(reg).Decode(ctx, tree)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.NInputs() != 3 {
		t.Errorf("arity = %d, want 3", m.NInputs())
	}
	if m.Name() != "" {
		t.Errorf("name = %q, want unset", m.Name())
	}

	reencoded, err := treecodec.NewSession(reg).Encode(ctx, m)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	keys := reencoded.Keys()
	if len(keys) != 1 || keys[0] != "n_dims" {
		t.Errorf("re-encoded keys = %v, want exactly [n_dims]", keys)
	}
	if n, _ := reencoded.Int("n_dims"); n != 3 {
		t.Errorf("n_dims = %d, want 3", n)
	}
}
