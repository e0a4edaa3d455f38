package treecodec

import "fmt"

// Bound is an inclusive parameter bound; either side may be absent.
type Bound struct {
	Low  *float64
	High *float64
}

// IsDefault reports whether the bound is the unbounded default.
func (b Bound) IsDefault() bool {
	return b.Low == nil && b.High == nil
}

// Interval is one closed bounding-box interval.
type Interval struct {
	Low  float64
	High float64
}

// Model is an in-memory parametrized transform: fixed input and output
// arities, ordered label sequences, named numeric parameters with optional
// units, per-parameter constraints, an optional bounding box, and an
// optional user-supplied inverse.
//
// The codec never mutates a model's defining parameters; only descriptive
// metadata (name, labels, bounding box, constraints, inverse) is assigned
// during decode.
type Model interface {
	Name() string
	SetName(name string)

	NInputs() int
	NOutputs() int

	Inputs() []string
	SetInputs(labels []string) error
	Outputs() []string
	SetOutputs(labels []string) error

	// Parameters returns the defining parameters in declaration order.
	Parameters() []Parameter

	// Fixed and Bounds hold one entry per parameter; absent entries mean
	// the default (unfixed, unbounded).
	Fixed() map[string]bool
	SetFixed(fixed map[string]bool)
	Bounds() map[string]Bound
	SetBounds(bounds map[string]Bound)

	// BoundingBox returns one interval per input; ok is false when no box
	// is set.
	BoundingBox() ([]Interval, bool)
	SetBoundingBox(box []Interval) error

	// Inverse returns the user-supplied inverse, or ErrNotInvertible when
	// none is available.
	Inverse() (Model, error)

	// UserInverse returns the user-supplied inverse or nil. It never
	// synthesizes a derived inverse; only explicit inverses persist.
	UserInverse() Model
	SetInverse(inv Model) error
}

// modelBase carries the attributes shared by every transform model.
type modelBase struct {
	name        string
	nIn, nOut   int
	inputs      []string
	outputs     []string
	fixed       map[string]bool
	bounds      map[string]Bound
	bbox        []Interval
	hasBBox     bool
	userInverse Model
}

func newModelBase(nIn, nOut int) modelBase {
	return modelBase{
		nIn:     nIn,
		nOut:    nOut,
		inputs:  positionalLabels(nIn),
		outputs: positionalLabels(nOut),
		fixed:   make(map[string]bool),
		bounds:  make(map[string]Bound),
	}
}

// positionalLabels generates the derived labels x0, x1, ...
func positionalLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("x%d", i)
	}
	return labels
}

func (m *modelBase) Name() string        { return m.name }
func (m *modelBase) SetName(name string) { m.name = name }
func (m *modelBase) NInputs() int        { return m.nIn }
func (m *modelBase) NOutputs() int       { return m.nOut }
func (m *modelBase) Inputs() []string    { return m.inputs }
func (m *modelBase) Outputs() []string   { return m.outputs }

func (m *modelBase) SetInputs(labels []string) error {
	if len(labels) != m.nIn {
		return fmt.Errorf("inputs: expected %d labels, got %d", m.nIn, len(labels))
	}
	m.inputs = append([]string(nil), labels...)
	return nil
}

func (m *modelBase) SetOutputs(labels []string) error {
	if len(labels) != m.nOut {
		return fmt.Errorf("outputs: expected %d labels, got %d", m.nOut, len(labels))
	}
	m.outputs = append([]string(nil), labels...)
	return nil
}

func (m *modelBase) Fixed() map[string]bool { return m.fixed }

func (m *modelBase) SetFixed(fixed map[string]bool) {
	for k, v := range fixed {
		m.fixed[k] = v
	}
}

func (m *modelBase) Bounds() map[string]Bound { return m.bounds }

func (m *modelBase) SetBounds(bounds map[string]Bound) {
	for k, v := range bounds {
		m.bounds[k] = v
	}
}

func (m *modelBase) BoundingBox() ([]Interval, bool) {
	if !m.hasBBox {
		return nil, false
	}
	return m.bbox, true
}

func (m *modelBase) SetBoundingBox(box []Interval) error {
	if len(box) != m.nIn {
		return fmt.Errorf("bounding box: expected %d intervals, got %d", m.nIn, len(box))
	}
	m.bbox = append([]Interval(nil), box...)
	m.hasBBox = true
	return nil
}

func (m *modelBase) Inverse() (Model, error) {
	if m.userInverse == nil {
		return nil, ErrNotInvertible
	}
	return m.userInverse, nil
}

func (m *modelBase) UserInverse() Model { return m.userInverse }

func (m *modelBase) SetInverse(inv Model) error {
	m.userInverse = inv
	return nil
}

// Identity passes its inputs through unchanged. Arity is caller-supplied.
type Identity struct {
	modelBase
}

// NewIdentity returns an identity model of the given arity.
func NewIdentity(nDims int) *Identity {
	return &Identity{modelBase: newModelBase(nDims, nDims)}
}

// Parameters returns nil; identity has no defining parameters.
func (m *Identity) Parameters() []Parameter { return nil }

// Constant represents a constant-valued function of dimension 1 or 2.
// Its single parameter is the amplitude, optionally unit-bearing.
type Constant struct {
	modelBase
	value float64
	unit  string
}

// NewConstant1D returns a 1-dimensional constant model.
func NewConstant1D(value float64) *Constant {
	m := &Constant{modelBase: newModelBase(1, 1), value: value}
	m.inputs = []string{"x"}
	m.outputs = []string{"y"}
	return m
}

// NewConstant2D returns a 2-dimensional constant model.
func NewConstant2D(value float64) *Constant {
	m := &Constant{modelBase: newModelBase(2, 1), value: value}
	m.inputs = []string{"x", "y"}
	m.outputs = []string{"z"}
	return m
}

// Dimensions returns 1 or 2.
func (m *Constant) Dimensions() int { return m.nIn }

// Value returns the constant amplitude.
func (m *Constant) Value() float64 { return m.value }

// Unit returns the amplitude's unit, if any.
func (m *Constant) Unit() string { return m.unit }

// SetUnit attaches a physical unit to the amplitude.
func (m *Constant) SetUnit(unit string) { m.unit = unit }

func (m *Constant) Parameters() []Parameter {
	return []Parameter{{Name: "amplitude", Value: m.value, Unit: m.unit}}
}

// Generic is a placeholder model with arbitrary arities and no forward
// formula beyond positional passthrough. It is categorically not
// invertible.
type Generic struct {
	modelBase
}

// NewGeneric returns a generic placeholder model.
func NewGeneric(nInputs, nOutputs int) *Generic {
	return &Generic{modelBase: newModelBase(nInputs, nOutputs)}
}

func (m *Generic) Parameters() []Parameter { return nil }

// Inverse always fails: generic models declare no inverse.
func (m *Generic) Inverse() (Model, error) {
	return nil, ErrNotInvertible
}

// SetInverse always fails: generic models cannot carry an inverse.
func (m *Generic) SetInverse(Model) error {
	return ErrNotInvertible
}

// UnitPair is one end-to-end unit mapping: the required input unit and the
// resulting output unit for one position. Empty strings mean absent.
type UnitPair struct {
	From string
	To   string
}

// UnitsMapping converts between unit systems position by position. It
// follows the same tree conventions as the transform family but is a
// standalone, non-versioned construct.
type UnitsMapping struct {
	modelBase
	mapping            []UnitPair
	allowDimensionless map[string]bool
	equivalencies      map[string]string
}

// NewUnitsMapping returns a units mapping over the given pairs, one per
// input/output position.
func NewUnitsMapping(pairs []UnitPair) *UnitsMapping {
	m := &UnitsMapping{
		modelBase:          newModelBase(len(pairs), len(pairs)),
		mapping:            append([]UnitPair(nil), pairs...),
		allowDimensionless: make(map[string]bool),
	}
	return m
}

// Mapping returns the ordered unit pairs.
func (m *UnitsMapping) Mapping() []UnitPair { return m.mapping }

// AllowDimensionless reports whether the named input accepts a
// dimensionless value in place of a unit-bearing one. Default false.
func (m *UnitsMapping) AllowDimensionless(input string) bool {
	return m.allowDimensionless[input]
}

// SetAllowDimensionless sets per-input dimensionless allowances, keyed by
// input label.
func (m *UnitsMapping) SetAllowDimensionless(allow map[string]bool) {
	for k, v := range allow {
		m.allowDimensionless[k] = v
	}
}

// Equivalencies returns the named unit-equivalency rules keyed by input
// label, or nil when no input declares one.
func (m *UnitsMapping) Equivalencies() map[string]string {
	return m.equivalencies
}

// SetEquivalencies replaces the equivalency table.
func (m *UnitsMapping) SetEquivalencies(eq map[string]string) {
	m.equivalencies = eq
}

func (m *UnitsMapping) Parameters() []Parameter { return nil }
