package treecodec

// Schema identifiers for the generic family, newest first.
var genericClaims = []Claim{
	ClaimExact("http://astroasdf.org/schemas/transform/generic", "1.0.0"),
	{Base: "http://stsci.edu/schemas/asdf/transform/generic", Min: "1.0.0", Max: "1.2.0"},
}

// GenericCodec encodes Generic placeholder models. The tree carries
// exactly the two arities.
type GenericCodec struct {
	claims []Claim
}

// NewGenericCodec returns the generic codec under its published schema
// identifiers.
func NewGenericCodec() *GenericCodec {
	return &GenericCodec{claims: genericClaims}
}

func (c *GenericCodec) Name() string {
	return "generic"
}

func (c *GenericCodec) Claims() []Claim {
	return c.claims
}

func (c *GenericCodec) Emits() Binding {
	return Binding{Base: c.claims[0].Base, Version: c.claims[0].Max}
}

func (c *GenericCodec) Traits() Traits {
	return Traits{}
}

func (c *GenericCodec) HandlesModel(m Model) bool {
	_, ok := m.(*Generic)
	return ok
}

func (c *GenericCodec) EncodeCore(m Model, _ Binding) (*Tree, error) {
	gm, ok := m.(*Generic)
	if !ok {
		return nil, newTreeError(ErrMalformedTree, c.Name(), "", "model is not a generic")
	}
	t := NewTree()
	t.Set("n_inputs", gm.NInputs())
	t.Set("n_outputs", gm.NOutputs())
	return t, nil
}

func (c *GenericCodec) DecodeCore(t *Tree, _ Binding) (Model, error) {
	nIn, ok := t.Int("n_inputs")
	if !ok || nIn < 1 {
		return nil, newTreeError(ErrMalformedTree, c.Name(), "n_inputs", "expected a positive integer")
	}
	nOut, ok := t.Int("n_outputs")
	if !ok || nOut < 1 {
		return nil, newTreeError(ErrMalformedTree, c.Name(), "n_outputs", "expected a positive integer")
	}
	return NewGeneric(nIn, nOut), nil
}
