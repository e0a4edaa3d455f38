package treecodec

// Schema identifiers for the identity family, newest first.
var identityClaims = []Claim{
	ClaimExact("http://astroasdf.org/schemas/transform/identity", "1.0.0"),
	{Base: "http://stsci.edu/schemas/asdf/transform/identity", Min: "1.0.0", Max: "1.2.0"},
}

// IdentityCodec encodes Identity models. The canonical compact form omits
// n_dims entirely at arity 1.
type IdentityCodec struct {
	claims []Claim
}

// NewIdentityCodec returns the identity codec under its published schema
// identifiers.
func NewIdentityCodec() *IdentityCodec {
	return &IdentityCodec{claims: identityClaims}
}

func (c *IdentityCodec) Name() string {
	return "identity"
}

func (c *IdentityCodec) Claims() []Claim {
	return c.claims
}

func (c *IdentityCodec) Emits() Binding {
	return Binding{Base: c.claims[0].Base, Version: c.claims[0].Max}
}

func (c *IdentityCodec) Traits() Traits {
	return Traits{}
}

func (c *IdentityCodec) HandlesModel(m Model) bool {
	_, ok := m.(*Identity)
	return ok
}

func (c *IdentityCodec) EncodeCore(m Model, _ Binding) (*Tree, error) {
	id, ok := m.(*Identity)
	if !ok {
		return nil, newTreeError(ErrMalformedTree, c.Name(), "", "model is not an identity")
	}
	t := NewTree()
	if id.NInputs() != 1 {
		t.Set("n_dims", id.NInputs())
	}
	return t, nil
}

func (c *IdentityCodec) DecodeCore(t *Tree, _ Binding) (Model, error) {
	nDims := 1
	if t.Has("n_dims") {
		n, ok := t.Int("n_dims")
		if !ok || n < 1 {
			return nil, newTreeError(ErrMalformedTree, c.Name(), "n_dims", "expected a positive integer")
		}
		nDims = n
	}
	return NewIdentity(nDims), nil
}
