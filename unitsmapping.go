package treecodec

import "fmt"

// The units mapping schema is a single-version, standalone construct; it
// follows the transform tree conventions but is not part of the
// version-gated transform family.
var unitsMappingClaims = []Claim{
	ClaimExact("http://astroasdf.org/schemas/transform/units_mapping", "1.0.0"),
}

// UnitsMappingCodec encodes UnitsMapping models as one record per
// input/output position.
type UnitsMappingCodec struct {
	claims []Claim
}

// NewUnitsMappingCodec returns the units mapping codec.
func NewUnitsMappingCodec() *UnitsMappingCodec {
	return &UnitsMappingCodec{claims: unitsMappingClaims}
}

func (c *UnitsMappingCodec) Name() string {
	return "units_mapping"
}

func (c *UnitsMappingCodec) Claims() []Claim {
	return c.claims
}

func (c *UnitsMappingCodec) Emits() Binding {
	return Binding{Base: c.claims[0].Base, Version: c.claims[0].Max}
}

func (c *UnitsMappingCodec) Traits() Traits {
	return Traits{Standalone: true}
}

func (c *UnitsMappingCodec) HandlesModel(m Model) bool {
	_, ok := m.(*UnitsMapping)
	return ok
}

func (c *UnitsMappingCodec) EncodeCore(m Model, _ Binding) (*Tree, error) {
	um, ok := m.(*UnitsMapping)
	if !ok {
		return nil, newTreeError(ErrMalformedTree, c.Name(), "", "model is not a units mapping")
	}

	t := NewTree()
	if um.Name() != "" {
		t.Set("name", um.Name())
	}

	eq := um.Equivalencies()
	inputs := make([]any, um.NInputs())
	outputs := make([]any, um.NOutputs())
	for i, pair := range um.Mapping() {
		in := um.Inputs()[i]
		rec := NewTree()
		rec.Set("name", in)
		rec.Set("allow_dimensionless", um.AllowDimensionless(in))
		if pair.From != "" {
			rec.Set("unit", pair.From)
		}
		if rule, ok := eq[in]; ok {
			rec.Set("equivalencies", rule)
		}
		inputs[i] = rec

		out := NewTree()
		out.Set("name", um.Outputs()[i])
		if pair.To != "" {
			out.Set("unit", pair.To)
		}
		outputs[i] = out
	}

	t.Set("inputs", inputs)
	t.Set("outputs", outputs)
	return t, nil
}

func (c *UnitsMappingCodec) DecodeCore(t *Tree, _ Binding) (Model, error) {
	inputs, ok := t.Seq("inputs")
	if !ok {
		return nil, newTreeError(ErrMalformedTree, c.Name(), "inputs", "required key absent")
	}
	outputs, ok := t.Seq("outputs")
	if !ok {
		return nil, newTreeError(ErrMalformedTree, c.Name(), "outputs", "required key absent")
	}
	if len(inputs) != len(outputs) {
		return nil, newTreeError(ErrMalformedTree, c.Name(), "",
			fmt.Sprintf("%d inputs against %d outputs", len(inputs), len(outputs)))
	}

	pairs := make([]UnitPair, len(inputs))
	inLabels := make([]string, len(inputs))
	outLabels := make([]string, len(outputs))
	allow := make(map[string]bool, len(inputs))
	var equivalencies map[string]string

	for i := range inputs {
		in, err := c.record(inputs[i], "inputs", i)
		if err != nil {
			return nil, err
		}
		out, err := c.record(outputs[i], "outputs", i)
		if err != nil {
			return nil, err
		}

		name, ok := in.String("name")
		if !ok {
			return nil, newTreeError(ErrMalformedTree, c.Name(), "inputs", "record missing name")
		}
		outName, ok := out.String("name")
		if !ok {
			return nil, newTreeError(ErrMalformedTree, c.Name(), "outputs", "record missing name")
		}

		inLabels[i] = name
		outLabels[i] = outName
		pairs[i].From, _ = in.String("unit")
		pairs[i].To, _ = out.String("unit")

		// Absent means false.
		allow[name], _ = in.Bool("allow_dimensionless")

		if rule, ok := in.String("equivalencies"); ok {
			if equivalencies == nil {
				equivalencies = make(map[string]string)
			}
			equivalencies[name] = rule
		}
	}

	m := NewUnitsMapping(pairs)
	if err := m.SetInputs(inLabels); err != nil {
		return nil, newTreeError(ErrMalformedTree, c.Name(), "inputs", err.Error())
	}
	if err := m.SetOutputs(outLabels); err != nil {
		return nil, newTreeError(ErrMalformedTree, c.Name(), "outputs", err.Error())
	}
	m.SetAllowDimensionless(allow)
	m.SetEquivalencies(equivalencies)

	if name, ok := t.String("name"); ok {
		m.SetName(name)
	}
	return m, nil
}

func (c *UnitsMappingCodec) record(v any, key string, i int) (*Tree, error) {
	rec, ok := v.(*Tree)
	if !ok {
		return nil, newTreeError(ErrMalformedTree, c.Name(), key,
			fmt.Sprintf("record %d is not a mapping", i))
	}
	return rec, nil
}
