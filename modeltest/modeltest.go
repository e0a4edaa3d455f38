// Package modeltest provides equality and round-trip assertion helpers
// for transform codec conformance tests.
package modeltest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrokit/treecodec"
)

// AssertEqual asserts that two models are equal under the codec's notion
// of equality: same type, name, arities, labels, bounding box,
// constraints, parameters, and inverse-or-absence. A self-referential
// inverse on one side requires a self-referential inverse on the other.
func AssertEqual(t *testing.T, want, got treecodec.Model) bool {
	t.Helper()
	return assertEqual(t, want, got, make(map[[2]treecodec.Model]bool))
}

// RoundTrip encodes m in one session, decodes the tree in a fresh
// session, and asserts the result equals the original. The decoded model
// is returned for further inspection.
func RoundTrip(t *testing.T, reg *treecodec.Registry, m treecodec.Model) treecodec.Model {
	t.Helper()
	ctx := context.Background()

	tree, err := treecodec.NewSession(reg).Encode(ctx, m)
	require.NoError(t, err, "encode")

	decoded, err := treecodec.NewSession(reg).Decode(ctx, tree)
	require.NoError(t, err, "decode")

	AssertEqual(t, m, decoded)
	return decoded
}

func assertEqual(t *testing.T, want, got treecodec.Model, seen map[[2]treecodec.Model]bool) bool {
	t.Helper()

	if seen[[2]treecodec.Model{want, got}] {
		return true
	}
	seen[[2]treecodec.Model{want, got}] = true

	ok := assert.Equal(t, fmt.Sprintf("%T", want), fmt.Sprintf("%T", got), "model type")
	ok = assert.Equal(t, want.Name(), got.Name(), "name") && ok
	ok = assert.Equal(t, want.NInputs(), got.NInputs(), "input arity") && ok
	ok = assert.Equal(t, want.NOutputs(), got.NOutputs(), "output arity") && ok
	if !ok {
		return false
	}

	ok = assert.Equal(t, want.Inputs(), got.Inputs(), "input labels") && ok
	ok = assert.Equal(t, want.Outputs(), got.Outputs(), "output labels") && ok

	wantBox, wantHas := want.BoundingBox()
	gotBox, gotHas := got.BoundingBox()
	ok = assert.Equal(t, wantHas, gotHas, "bounding box presence") && ok
	if wantHas && gotHas {
		ok = assert.Equal(t, wantBox, gotBox, "bounding box") && ok
	}

	ok = assert.Equal(t, want.Parameters(), got.Parameters(), "parameters") && ok
	ok = assertConstraintsEqual(t, want, got) && ok
	ok = assertSpecificEqual(t, want, got) && ok

	wantInv := want.UserInverse()
	gotInv := got.UserInverse()
	if wantInv == nil {
		return assert.Nil(t, gotInv, "inverse absence") && ok
	}
	if !assert.NotNil(t, gotInv, "inverse presence") {
		return false
	}
	if wantInv == want {
		return assert.True(t, gotInv == got, "self-referential inverse") && ok
	}
	return assertEqual(t, wantInv, gotInv, seen) && ok
}

// assertConstraintsEqual compares effective constraints: a parameter
// absent from a map is at its default.
func assertConstraintsEqual(t *testing.T, want, got treecodec.Model) bool {
	t.Helper()

	ok := true
	for _, p := range want.Parameters() {
		ok = assert.Equal(t, want.Fixed()[p.Name], got.Fixed()[p.Name],
			"fixed flag for %s", p.Name) && ok
		ok = assert.Equal(t, want.Bounds()[p.Name], got.Bounds()[p.Name],
			"bounds for %s", p.Name) && ok
	}
	return ok
}

// assertSpecificEqual covers the type-specific attributes the generic
// surface does not expose.
func assertSpecificEqual(t *testing.T, want, got treecodec.Model) bool {
	t.Helper()

	switch w := want.(type) {
	case *treecodec.Constant:
		g := got.(*treecodec.Constant)
		ok := assert.Equal(t, w.Dimensions(), g.Dimensions(), "dimensions")
		ok = assert.Equal(t, w.Value(), g.Value(), "value") && ok
		return assert.Equal(t, w.Unit(), g.Unit(), "unit") && ok
	case *treecodec.UnitsMapping:
		g := got.(*treecodec.UnitsMapping)
		ok := assert.Equal(t, w.Mapping(), g.Mapping(), "unit mapping")
		for _, in := range w.Inputs() {
			ok = assert.Equal(t, w.AllowDimensionless(in), g.AllowDimensionless(in),
				"allow_dimensionless for %s", in) && ok
		}
		return assert.Equal(t, w.Equivalencies(), g.Equivalencies(), "equivalencies") && ok
	}
	return true
}
