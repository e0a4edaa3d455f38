package treecodec

// Tree is the portable intermediate representation of a model: an ordered
// mapping of string keys to primitives, sequences ([]any), nested *Tree
// nodes, or Quantity values.
//
// Trees are produced fresh on encode and consumed read-only on decode.
// Node sharing is expressed through pointer identity: a tree referenced
// from two places (a model and its own inverse, for instance) is the same
// *Tree value, and containers persist it as a single aliased node.
type Tree struct {
	binding Binding
	keys    []string
	vals    map[string]any
}

// NewTree returns an empty tree with no schema binding.
func NewTree() *Tree {
	return &Tree{vals: make(map[string]any)}
}

// Binding returns the schema binding recorded on the tree.
func (t *Tree) Binding() Binding {
	return t.binding
}

// SetBinding records the schema binding the tree conforms to.
func (t *Tree) SetBinding(b Binding) {
	t.binding = b
}

// Set stores v under key, preserving first-insertion order.
func (t *Tree) Set(key string, v any) {
	if _, ok := t.vals[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.vals[key] = v
}

// Get returns the value stored under key.
func (t *Tree) Get(key string) (any, bool) {
	v, ok := t.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (t *Tree) Has(key string) bool {
	_, ok := t.vals[key]
	return ok
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not modify it.
func (t *Tree) Keys() []string {
	return t.keys
}

// Len returns the number of keys.
func (t *Tree) Len() int {
	return len(t.keys)
}

// String returns the string stored under key.
func (t *Tree) String(key string) (string, bool) {
	s, ok := t.vals[key].(string)
	return s, ok
}

// Int returns the integer stored under key. Integral floats are accepted,
// since containers do not always preserve the int/float distinction.
func (t *Tree) Int(key string) (int, bool) {
	switch n := t.vals[key].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

// Float returns the number stored under key, widening integers.
func (t *Tree) Float(key string) (float64, bool) {
	switch n := t.vals[key].(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Bool returns the boolean stored under key.
func (t *Tree) Bool(key string) (bool, bool) {
	b, ok := t.vals[key].(bool)
	return b, ok
}

// Subtree returns the nested tree stored under key.
func (t *Tree) Subtree(key string) (*Tree, bool) {
	st, ok := t.vals[key].(*Tree)
	return st, ok
}

// Seq returns the sequence stored under key.
func (t *Tree) Seq(key string) ([]any, bool) {
	s, ok := t.vals[key].([]any)
	return s, ok
}

// Clone returns a deep copy of the tree graph. Internal sharing is
// preserved: nodes aliased in the original are aliased in the copy.
func (t *Tree) Clone() *Tree {
	return t.cloneInto(make(map[*Tree]*Tree))
}

func (t *Tree) cloneInto(seen map[*Tree]*Tree) *Tree {
	if c, ok := seen[t]; ok {
		return c
	}
	c := NewTree()
	c.binding = t.binding
	seen[t] = c
	for _, k := range t.keys {
		c.Set(k, cloneValue(t.vals[k], seen))
	}
	return c
}

func cloneValue(v any, seen map[*Tree]*Tree) any {
	switch v := v.(type) {
	case *Tree:
		return v.cloneInto(seen)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e, seen)
		}
		return out
	default:
		return v
	}
}
