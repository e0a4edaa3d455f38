package treecodec

// Quantity is an opaque unit-bearing scalar. The codec never interprets
// the unit string; unit arithmetic belongs to the caller.
type Quantity struct {
	Value float64
	Unit  string
}

// Parameter is one named numeric parameter of a model, optionally carrying
// a physical unit.
type Parameter struct {
	Name  string
	Value float64
	Unit  string
}

// parameterValue renders a parameter for storage: unit-bearing parameters
// become a Quantity, unitless ones a bare number.
func parameterValue(p Parameter) any {
	if p.Unit != "" {
		return Quantity{Value: p.Value, Unit: p.Unit}
	}
	return p.Value
}

// numericValue reads back a stored parameter value, accepting bare
// numbers and quantities.
func numericValue(v any) (value float64, unit string, ok bool) {
	switch v := v.(type) {
	case Quantity:
		return v.Value, v.Unit, true
	case float64:
		return v, "", true
	case int:
		return float64(v), "", true
	case int64:
		return float64(v), "", true
	}
	return 0, "", false
}
