package treecodec_test

import (
	"context"
	"errors"
	"testing"

	"github.com/astrokit/treecodec"
	"github.com/astrokit/treecodec/modeltest"
)

func TestSession_SelfInverseCycle(t *testing.T) {
	reg := treecodec.NewStandardRegistry()
	ctx := context.Background()

	m := treecodec.NewIdentity(2)
	if err := m.SetInverse(m); err != nil {
		t.Fatalf("SetInverse: %v", err)
	}

	tree, err := treecodec.NewSession(reg).Encode(ctx, m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	inv, ok := tree.Subtree("inverse")
	if !ok {
		t.Fatal("encoded tree lost the inverse")
	}
	if inv != tree {
		t.Fatal("self-inverse did not alias back to the model's own node")
	}

	decoded, err := treecodec.NewSession(reg).Decode(ctx, tree)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	gotInv := decoded.UserInverse()
	if gotInv != decoded {
		t.Error("decoded inverse is not the registered model itself")
	}
}

func TestSession_MutualInverseCycle(t *testing.T) {
	reg := treecodec.NewStandardRegistry()
	ctx := context.Background()

	a := treecodec.NewConstant1D(2.0)
	b := treecodec.NewConstant1D(0.5)
	if err := a.SetInverse(b); err != nil {
		t.Fatalf("SetInverse: %v", err)
	}
	if err := b.SetInverse(a); err != nil {
		t.Fatalf("SetInverse: %v", err)
	}

	tree, err := treecodec.NewSession(reg).Encode(ctx, a)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	bTree, _ := tree.Subtree("inverse")
	backRef, _ := bTree.Subtree("inverse")
	if backRef != tree {
		t.Fatal("mutual inverse did not alias back to the root node")
	}

	decoded, err := treecodec.NewSession(reg).Decode(ctx, tree)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	da := decoded.(*treecodec.Constant)
	db := da.UserInverse().(*treecodec.Constant)
	if db.UserInverse() != treecodec.Model(da) {
		t.Error("decoded mutual cycle is broken")
	}
	if da.Value() != 2.0 || db.Value() != 0.5 {
		t.Errorf("values = (%v, %v), want (2, 0.5)", da.Value(), db.Value())
	}
}

func TestSession_DistinctInverse(t *testing.T) {
	reg := treecodec.NewStandardRegistry()

	m := treecodec.NewConstant1D(5.0)
	inv := treecodec.NewConstant1D(0.2)
	inv.SetName("reciprocal")
	if err := m.SetInverse(inv); err != nil {
		t.Fatalf("SetInverse: %v", err)
	}

	decoded := modeltest.RoundTrip(t, reg, m)
	got := decoded.UserInverse()
	if got == nil {
		t.Fatal("decoded model lost its inverse")
	}
	if got.Name() != "reciprocal" {
		t.Errorf("inverse name = %q, want reciprocal", got.Name())
	}
}

func TestSession_InverseAbsenceIsSilent(t *testing.T) {
	reg := treecodec.NewStandardRegistry()

	tree, err := treecodec.NewSession(reg).Encode(context.Background(), treecodec.NewIdentity(1))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if tree.Has("inverse") {
		t.Error("model without an inverse emitted an inverse key")
	}
}

func TestSession_StagedDecodeProtocol(t *testing.T) {
	reg := treecodec.NewStandardRegistry()
	ctx := context.Background()

	m := treecodec.NewIdentity(2)
	m.SetName("flip")
	m.SetInverse(m)

	tree, err := treecodec.NewSession(reg).Encode(ctx, m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	sess := treecodec.NewSession(reg)
	partial, finish, err := sess.DecodeStaged(ctx, tree)
	if err != nil {
		t.Fatalf("DecodeStaged: %v", err)
	}

	// Phase one restored the shared members but not the inverse.
	if partial.Name() != "flip" {
		t.Errorf("partial name = %q, want flip", partial.Name())
	}
	if partial.UserInverse() != nil {
		t.Error("inverse resolved before Finish")
	}

	if err := finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if partial.UserInverse() != partial {
		t.Error("inverse did not resolve back to the registered model")
	}
}

func TestSession_SharedMembersRoundTrip(t *testing.T) {
	reg := treecodec.NewStandardRegistry()
	ctx := context.Background()

	m := treecodec.NewConstant1D(5.0)
	m.SetName("baseline")
	if err := m.SetInputs([]string{"wavelength"}); err != nil {
		t.Fatalf("SetInputs: %v", err)
	}
	if err := m.SetOutputs([]string{"flux"}); err != nil {
		t.Fatalf("SetOutputs: %v", err)
	}
	if err := m.SetBoundingBox([]treecodec.Interval{{Low: 1.0, High: 9.0}}); err != nil {
		t.Fatalf("SetBoundingBox: %v", err)
	}

	tree, err := treecodec.NewSession(reg).Encode(ctx, m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Arity 1 stores labels unwrapped and the bounding box as one pair.
	if v, _ := tree.Get("inputs"); v != "wavelength" {
		t.Errorf("inputs = %v, want bare string wavelength", v)
	}
	box, _ := tree.Seq("bounding_box")
	if len(box) != 2 || box[0] != 1.0 || box[1] != 9.0 {
		t.Errorf("bounding_box = %v, want [1 9]", box)
	}

	modeltest.RoundTrip(t, reg, m)
}

func TestSession_BoundingBoxMultiInput(t *testing.T) {
	reg := treecodec.NewStandardRegistry()

	m := treecodec.NewConstant2D(5.0)
	if err := m.SetBoundingBox([]treecodec.Interval{{Low: 0, High: 1}, {Low: -1, High: 1}}); err != nil {
		t.Fatalf("SetBoundingBox: %v", err)
	}

	tree, err := treecodec.NewSession(reg).Encode(context.Background(), m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	box, _ := tree.Seq("bounding_box")
	if len(box) != 2 {
		t.Fatalf("bounding_box = %v, want 2 pairs", box)
	}
	if _, ok := box[0].([]any); !ok {
		t.Error("multi-input bounding box is not a list of pairs")
	}

	modeltest.RoundTrip(t, reg, m)
}

func TestSession_EncodeIdempotent(t *testing.T) {
	reg := treecodec.NewStandardRegistry()
	ctx := context.Background()

	m := treecodec.NewConstant1D(5.0)
	m.SetName("c")
	m.SetFixed(map[string]bool{"amplitude": true})
	m.SetInverse(m)

	t1, err := treecodec.NewSession(reg).Encode(ctx, m)
	if err != nil {
		t.Fatalf("first Encode: %v", err)
	}
	t2, err := treecodec.NewSession(reg).Encode(ctx, m)
	if err != nil {
		t.Fatalf("second Encode: %v", err)
	}
	if treecodec.Fingerprint(t1) != treecodec.Fingerprint(t2) {
		t.Error("two encodes of the same model fingerprint differently")
	}
}

func TestSession_DecodeRequiresBinding(t *testing.T) {
	reg := treecodec.NewStandardRegistry()

	_, err := treecodec.NewSession(reg).Decode(context.Background(), treecodec.NewTree())
	if !errors.Is(err, treecodec.ErrMalformedTree) {
		t.Errorf("Decode error = %v, want ErrMalformedTree", err)
	}
}

func TestSession_NoPartialModelOnFailure(t *testing.T) {
	reg := treecodec.NewStandardRegistry()
	ctx := context.Background()

	tree := treecodec.NewTree()
	tree.SetBinding(treecodec.Binding{Base: "http://astroasdf.org/schemas/transform/constant", Version: "1.0.0"})
	tree.Set("value", 5.0)
	tree.Set("dimensions", 3)

	sess := treecodec.NewSession(reg)
	m, finish, err := sess.DecodeStaged(ctx, tree)
	if err == nil {
		t.Fatal("DecodeStaged succeeded on a malformed tree")
	}
	if m != nil || finish != nil {
		t.Error("failed decode exposed a partial model")
	}
}

func TestSession_ModelPinnedToFirstBinding(t *testing.T) {
	reg := treecodec.NewStandardRegistry()
	ctx := context.Background()

	m := treecodec.NewConstant1D(5.0)
	sess := treecodec.NewSession(reg)

	t1, err := sess.Encode(ctx, m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Same binding re-issues the same shared node.
	t2, err := sess.Encode(ctx, m)
	if err != nil {
		t.Fatalf("second Encode: %v", err)
	}
	if t1 != t2 {
		t.Error("re-encoding under the same binding returned a distinct node")
	}

	// A different binding cannot be honored for an already-issued node.
	_, err = sess.EncodeAs(ctx, m, legacyConstant)
	if !errors.Is(err, treecodec.ErrBindingConflict) {
		t.Errorf("EncodeAs after Encode error = %v, want ErrBindingConflict", err)
	}

	// A fresh session carries no pin.
	if _, err := treecodec.NewSession(reg).EncodeAs(ctx, m, legacyConstant); err != nil {
		t.Errorf("EncodeAs in a fresh session: %v", err)
	}
}

func TestSession_EncodeAsUnknownBinding(t *testing.T) {
	reg := treecodec.NewStandardRegistry()

	_, err := treecodec.NewSession(reg).EncodeAs(context.Background(), treecodec.NewIdentity(1),
		treecodec.Binding{Base: "http://example.org/schemas/nope", Version: "1.0.0"})
	if !errors.Is(err, treecodec.ErrUnknownSchema) {
		t.Errorf("EncodeAs error = %v, want ErrUnknownSchema", err)
	}
}
