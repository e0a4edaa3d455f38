package treecodec

import "fmt"

// ConstantVariant is one row of the constant family's decision table: a
// claim plus the behavior active under it. The dimensions field was added
// to the schema at stsci.edu 1.4.0; earlier revisions are implicitly
// 1-dimensional and carry only "value".
type ConstantVariant struct {
	Claim Claim

	// ExplicitDimensions selects the current wire shape: "value" plus a
	// mandatory "dimensions" field. When false the legacy value-only
	// shape applies and 2-dimensional models cannot be represented.
	ExplicitDimensions bool
}

// DefaultConstantVariants returns the published decision table, newest
// first. The thresholds and identifier strings are external contract
// data; callers tracking a different schema lineage supply their own
// table to NewConstantCodec.
func DefaultConstantVariants() []ConstantVariant {
	return []ConstantVariant{
		{
			Claim:              ClaimExact("http://astroasdf.org/schemas/transform/constant", "1.0.0"),
			ExplicitDimensions: true,
		},
		{
			Claim:              ClaimExact("http://stsci.edu/schemas/asdf/transform/constant", "1.4.0"),
			ExplicitDimensions: true,
		},
		{
			Claim:              Claim{Base: "http://stsci.edu/schemas/asdf/transform/constant", Min: "1.0.0", Max: "1.3.0"},
			ExplicitDimensions: false,
		},
	}
}

// ConstantCodec encodes Constant models. Behavior is version-gated
// through its variant table rather than inline version comparisons.
type ConstantCodec struct {
	variants []ConstantVariant
}

// NewConstantCodec returns a constant codec over the given decision
// table. The first variant's claim is the binding emitted on encode.
func NewConstantCodec(variants []ConstantVariant) *ConstantCodec {
	if len(variants) == 0 {
		panic("constant codec: empty variant table")
	}
	return &ConstantCodec{variants: variants}
}

func (c *ConstantCodec) Name() string {
	return "constant"
}

func (c *ConstantCodec) Claims() []Claim {
	claims := make([]Claim, len(c.variants))
	for i, v := range c.variants {
		claims[i] = v.Claim
	}
	return claims
}

func (c *ConstantCodec) Emits() Binding {
	return Binding{Base: c.variants[0].Claim.Base, Version: c.variants[0].Claim.Max}
}

func (c *ConstantCodec) Traits() Traits {
	return Traits{LabelsAssignable: true}
}

func (c *ConstantCodec) HandlesModel(m Model) bool {
	_, ok := m.(*Constant)
	return ok
}

// variantFor finds the table row whose claim contains the binding.
func (c *ConstantCodec) variantFor(b Binding) (ConstantVariant, error) {
	for _, v := range c.variants {
		if v.Claim.Contains(b) {
			return v, nil
		}
	}
	return ConstantVariant{}, newSchemaError(ErrUnknownSchema, b.Tag(), "no constant variant")
}

func (c *ConstantCodec) EncodeCore(m Model, b Binding) (*Tree, error) {
	cm, ok := m.(*Constant)
	if !ok {
		return nil, newTreeError(ErrMalformedTree, c.Name(), "", "model is not a constant")
	}
	variant, err := c.variantFor(b)
	if err != nil {
		return nil, err
	}

	t := NewTree()
	if !variant.ExplicitDimensions {
		if cm.Dimensions() != 1 {
			return nil, newTreeError(ErrUnsupportedDimension, c.Name(), "",
				fmt.Sprintf("%s does not support models with %d dimensions", b.Tag(), cm.Dimensions()))
		}
		t.Set("value", parameterValue(cm.Parameters()[0]))
		return t, nil
	}

	t.Set("value", parameterValue(cm.Parameters()[0]))
	t.Set("dimensions", cm.Dimensions())
	return t, nil
}

func (c *ConstantCodec) DecodeCore(t *Tree, b Binding) (Model, error) {
	variant, err := c.variantFor(b)
	if err != nil {
		return nil, err
	}

	raw, ok := t.Get("value")
	if !ok {
		return nil, newTreeError(ErrMalformedTree, c.Name(), "value", "required key absent")
	}
	value, unit, ok := numericValue(raw)
	if !ok {
		return nil, newTreeError(ErrMalformedTree, c.Name(), "value", "expected a number or quantity")
	}

	if !variant.ExplicitDimensions {
		m := NewConstant1D(value)
		m.SetUnit(unit)
		return m, nil
	}

	dims, ok := t.Int("dimensions")
	if !ok {
		return nil, newTreeError(ErrMalformedTree, c.Name(), "dimensions", "required key absent")
	}
	switch dims {
	case 1:
		m := NewConstant1D(value)
		m.SetUnit(unit)
		return m, nil
	case 2:
		m := NewConstant2D(value)
		m.SetUnit(unit)
		return m, nil
	}
	return nil, newTreeError(ErrMalformedTree, c.Name(), "dimensions",
		fmt.Sprintf("unrecognized value %d", dims))
}
