package treecodec

import (
	"context"
	"time"
)

// FinishFunc completes a staged decode by resolving the model's inverse.
// It must be called exactly once, after the host has registered the
// partially-built model in its own reference table.
type FinishFunc func() error

// Session drives encoding and decoding against one registry and keeps the
// reference tables that make shared nodes possible: a model encoded twice
// yields the same *Tree, and a tree decoded twice yields the same Model.
//
// A session corresponds to one document or exchange. Sessions hold no
// locks and are not safe for concurrent use; create one per goroutine.
type Session struct {
	reg     *Registry
	encoded map[Model]*Tree
	decoded map[*Tree]Model
}

// NewSession returns a session resolving codecs through reg.
func NewSession(reg *Registry) *Session {
	return &Session{
		reg:     reg,
		encoded: make(map[Model]*Tree),
		decoded: make(map[*Tree]Model),
	}
}

// Encode converts a model to its tree representation under the codec the
// model's type is bound to. The tree carries the codec's emitted schema
// binding. Encoding the same model again returns the same node; a model
// is pinned to its first binding for the life of the session, and
// re-encoding it under another binding fails with ErrBindingConflict.
func (s *Session) Encode(ctx context.Context, m Model) (*Tree, error) {
	codec, err := s.reg.CodecFor(m)
	if err != nil {
		return nil, err
	}
	return s.encodeWith(ctx, m, codec, codec.Emits())
}

// EncodeAs encodes a model under a specific schema binding instead of the
// codec's default. Historical bindings select their historical behavior;
// a binding that cannot represent the model's shape fails with
// ErrUnsupportedDimension and the caller must choose another target.
func (s *Session) EncodeAs(ctx context.Context, m Model, b Binding) (*Tree, error) {
	codec, _, err := s.reg.Resolve(b)
	if err != nil {
		return nil, err
	}
	if !codec.HandlesModel(m) {
		return nil, newSchemaError(ErrUnknownSchema, b.Tag(), "codec does not handle model")
	}
	return s.encodeWith(ctx, m, codec, b)
}

func (s *Session) encodeWith(ctx context.Context, m Model, codec Codec, binding Binding) (*Tree, error) {
	if t, ok := s.encoded[m]; ok {
		// A model is pinned to the binding of its first encode; the shared
		// node cannot be re-issued under a different schema.
		if t.Binding() != binding {
			return nil, newSchemaError(ErrBindingConflict, binding.Tag(),
				"model already encoded in this session as "+t.Binding().Tag())
		}
		return t, nil
	}

	start := time.Now()
	emitEncodeStart(ctx, codec.Name(), binding.Tag())

	var retErr error
	defer func() {
		emitEncodeComplete(ctx, codec.Name(), binding.Tag(), time.Since(start), retErr)
	}()

	tree, err := codec.EncodeCore(m, binding)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	tree.SetBinding(binding)

	// Register before the inverse is encoded so a self-referential
	// inverse aliases back to this node instead of recursing.
	s.encoded[m] = tree

	if !codec.Traits().Standalone {
		if err := addBaseMembers(ctx, s, m, tree, codec); err != nil {
			delete(s.encoded, m)
			retErr = err
			return nil, retErr
		}
	}

	return tree, nil
}

// Decode converts a tree back into a model, running both phases of the
// construction protocol.
func (s *Session) Decode(ctx context.Context, t *Tree) (Model, error) {
	m, finish, err := s.DecodeStaged(ctx, t)
	if err != nil {
		return nil, err
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return m, nil
}

// DecodeStaged runs the first phase of decoding: the concrete codec builds
// a bare model, shared members are restored, and the model is registered
// with the session. The returned FinishFunc runs the second phase,
// resolving the tree's inverse, which may refer back to the model just
// returned.
//
// If the first phase fails, no partial model is registered or returned.
func (s *Session) DecodeStaged(ctx context.Context, t *Tree) (Model, FinishFunc, error) {
	if m, ok := s.decoded[t]; ok {
		return m, func() error { return nil }, nil
	}

	binding := t.Binding()
	if binding.IsZero() {
		return nil, nil, newTreeError(ErrMalformedTree, "", "", "tree carries no schema binding")
	}

	start := time.Now()
	emitDecodeStart(ctx, binding.Tag())

	codec, _, err := s.reg.Resolve(binding)
	if err != nil {
		emitDecodeComplete(ctx, "", binding.Tag(), time.Since(start), err)
		return nil, nil, err
	}

	m, err := codec.DecodeCore(t, binding)
	if err != nil {
		emitDecodeComplete(ctx, codec.Name(), binding.Tag(), time.Since(start), err)
		return nil, nil, err
	}

	if !codec.Traits().Standalone {
		if err := applyBaseMembers(t, m, codec); err != nil {
			emitDecodeComplete(ctx, codec.Name(), binding.Tag(), time.Since(start), err)
			return nil, nil, err
		}
	}

	// Suspension point: the model is reachable by reference from here on,
	// before its inverse resolves.
	s.decoded[t] = m

	finish := func() error {
		var retErr error
		defer func() {
			emitDecodeComplete(ctx, codec.Name(), binding.Tag(), time.Since(start), retErr)
		}()

		if codec.Traits().Standalone {
			return nil
		}
		inv, ok := t.Subtree("inverse")
		if !ok {
			return nil
		}
		im, err := s.Decode(ctx, inv)
		if err != nil {
			retErr = err
			return retErr
		}
		if err := m.SetInverse(im); err != nil {
			retErr = newTreeError(err, codec.Name(), "inverse", "")
			return retErr
		}
		return nil
	}

	return m, finish, nil
}
