// Package treecodec maps parametrized transform models to and from a
// portable tree representation suitable for self-describing structured
// file formats.
//
// The package offers a closed set of concrete codecs (Identity, Constant,
// Generic, UnitsMapping) composed with a shared structural layer that
// handles the attributes common to every transform model: name, input and
// output labels, bounding box, parameter constraints, and the optional
// user-supplied inverse.
//
// # Schema bindings
//
// Every encoded tree carries a schema binding: a version-suffixed
// identifier such as
//
//	http://astroasdf.org/schemas/transform/constant-1.0.0
//
// Codecs declare the identifier families and version ranges they handle
// as Claims. A Registry resolves a binding to exactly one codec; overlap
// between claims is a configuration defect and is rejected when the codec
// is registered, not at first use.
//
// # Encoding and decoding
//
// A Session drives encoding and decoding and tracks shared nodes, so a
// model referenced from several places (most importantly a model whose
// inverse is itself) maps to a single tree node:
//
//	reg := treecodec.NewStandardRegistry()
//	sess := treecodec.NewSession(reg)
//
//	tree, err := sess.Encode(ctx, model)
//	model, err := sess.Decode(ctx, tree)
//
// Decoding is a two-phase protocol. The concrete codec first builds a bare
// model from its defining parameters, the structural layer restores the
// shared attributes, and the partially-built model is registered with the
// session before its inverse is resolved. This is what lets a
// self-referential inverse decode without recursing forever. Hosts that
// keep their own reference table can drive the phases explicitly through
// DecodeStaged.
//
// # Containers
//
// The codec operates purely on in-memory trees. Physical serialization is
// delegated to Container providers:
//
//   - yamldoc - YAML documents with schema tags and anchor/alias sharing
//   - msgpackdoc - MessagePack export for acyclic trees
//
// # Observability
//
// Operations emit capitan signals (treecodec.encode.*, treecodec.decode.*,
// treecodec.registry.*) carrying the schema tag, codec name, duration, and
// error, if any.
package treecodec

// Traits are the static capabilities of a concrete codec, decided once at
// registration time.
type Traits struct {
	// LabelsAssignable reports whether the model's input/output labels are
	// independently assignable. When false the labels are derived
	// positional names and are not emitted.
	LabelsAssignable bool

	// Standalone marks codecs that produce a complete tree on their own,
	// outside the shared structural layer. Standalone trees carry no
	// inverse, bounding box, or constraint members.
	Standalone bool

	// Composite marks codecs for models built from sub-models. Composite
	// trees omit constraint members; the sub-model trees carry their own.
	Composite bool
}

// Codec is the capability interface each concrete transform codec
// implements. Cores translate only the type-specific parameters; shared
// members are layered on by the Session.
type Codec interface {
	// Name identifies the codec in errors and signals (e.g. "constant").
	Name() string

	// Claims lists the schema identifier families and version ranges this
	// codec accepts on decode, newest first.
	Claims() []Claim

	// Emits is the single binding written on encode.
	Emits() Binding

	// Traits returns the codec's static capabilities.
	Traits() Traits

	// HandlesModel reports whether this codec encodes the given model.
	HandlesModel(m Model) bool

	// EncodeCore produces the type-specific tree fragment for m under the
	// given binding.
	EncodeCore(m Model, b Binding) (*Tree, error)

	// DecodeCore builds a bare model from the type-specific fields of t
	// under the given binding.
	DecodeCore(t *Tree, b Binding) (Model, error)
}

// Container moves tree graphs to and from a physical byte representation.
type Container interface {
	// ContentType returns the MIME type for this container.
	ContentType() string

	// MarshalTree serializes a tree graph, including any shared nodes.
	MarshalTree(t *Tree) ([]byte, error)

	// UnmarshalTree reconstructs a tree graph from data.
	UnmarshalTree(data []byte) (*Tree, error)
}
