// Package msgpackdoc exports tree graphs as MessagePack.
//
// MessagePack has no aliasing construct, so only strictly acyclic,
// unshared tree graphs are representable; marshaling a graph with shared
// nodes (such as a self-referential inverse) fails with ErrSharedNode.
// Schema bindings and quantities travel under reserved "$"-prefixed keys.
package msgpackdoc

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/astrokit/treecodec"
)

// ErrSharedNode indicates the tree graph aliases a node and cannot be
// represented in MessagePack.
var ErrSharedNode = errors.New("msgpackdoc: tree graph contains shared nodes")

// Reserved keys for out-of-band tree metadata.
const (
	schemaKey = "$schema"
	unitKey   = "$unit"
)

// msgpackContainer implements treecodec.Container for MessagePack.
type msgpackContainer struct{}

// New returns a MessagePack container.
func New() treecodec.Container {
	return &msgpackContainer{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackContainer) ContentType() string {
	return "application/msgpack"
}

// MarshalTree serializes an acyclic tree graph.
func (c *msgpackContainer) MarshalTree(t *treecodec.Tree) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("msgpackdoc: nil tree")
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encodeTree(enc, t, make(map[*treecodec.Tree]bool)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalTree reconstructs a tree graph from data.
func (c *msgpackContainer) UnmarshalTree(data []byte) (*treecodec.Tree, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	t, ok := v.(*treecodec.Tree)
	if !ok {
		return nil, fmt.Errorf("msgpackdoc: document root is not a map")
	}
	return t, nil
}

func encodeTree(enc *msgpack.Encoder, t *treecodec.Tree, seen map[*treecodec.Tree]bool) error {
	if seen[t] {
		return ErrSharedNode
	}
	seen[t] = true

	n := t.Len()
	binding := t.Binding()
	if !binding.IsZero() {
		n++
	}
	if err := enc.EncodeMapLen(n); err != nil {
		return err
	}
	if !binding.IsZero() {
		if err := enc.EncodeString(schemaKey); err != nil {
			return err
		}
		if err := enc.EncodeString(binding.Tag()); err != nil {
			return err
		}
	}
	for _, k := range t.Keys() {
		if err := enc.EncodeString(k); err != nil {
			return err
		}
		v, _ := t.Get(k)
		if err := encodeValue(enc, v, seen); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
	}
	return nil
}

func encodeValue(enc *msgpack.Encoder, v any, seen map[*treecodec.Tree]bool) error {
	switch v := v.(type) {
	case nil:
		return enc.EncodeNil()
	case *treecodec.Tree:
		return encodeTree(enc, v, seen)
	case []any:
		if err := enc.EncodeArrayLen(len(v)); err != nil {
			return err
		}
		for i, e := range v {
			if err := encodeValue(enc, e, seen); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		return nil
	case string:
		return enc.EncodeString(v)
	case bool:
		return enc.EncodeBool(v)
	case int:
		return enc.EncodeInt(int64(v))
	case int64:
		return enc.EncodeInt(v)
	case float64:
		return enc.EncodeFloat64(v)
	case treecodec.Quantity:
		if err := enc.EncodeMapLen(2); err != nil {
			return err
		}
		if err := enc.EncodeString(unitKey); err != nil {
			return err
		}
		if err := enc.EncodeString(v.Unit); err != nil {
			return err
		}
		if err := enc.EncodeString("value"); err != nil {
			return err
		}
		return enc.EncodeFloat64(v.Value)
	}
	return fmt.Errorf("unsupported value type %T", v)
}

func decodeValue(dec *msgpack.Decoder) (any, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}
	switch {
	case c == msgpcode.Nil:
		return nil, dec.DecodeNil()
	case c == msgpcode.True || c == msgpcode.False:
		return dec.DecodeBool()
	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		return decodeMap(dec)
	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		return decodeSeq(dec)
	case msgpcode.IsFixedString(c) || c == msgpcode.Str8 || c == msgpcode.Str16 || c == msgpcode.Str32:
		return dec.DecodeString()
	case c == msgpcode.Float:
		f, err := dec.DecodeFloat32()
		return float64(f), err
	case c == msgpcode.Double:
		return dec.DecodeFloat64()
	default:
		n, err := dec.DecodeInt64()
		return int(n), err
	}
}

func decodeMap(dec *msgpack.Decoder) (any, error) {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return nil, err
	}

	t := treecodec.NewTree()
	var unit string
	var isQuantity bool

	for i := 0; i < n; i++ {
		k, err := dec.DecodeString()
		if err != nil {
			return nil, err
		}
		switch k {
		case schemaKey:
			tag, err := dec.DecodeString()
			if err != nil {
				return nil, err
			}
			binding, err := treecodec.ParseBinding(tag)
			if err != nil {
				return nil, fmt.Errorf("msgpackdoc: %w", err)
			}
			t.SetBinding(binding)
		case unitKey:
			if unit, err = dec.DecodeString(); err != nil {
				return nil, err
			}
			isQuantity = true
		default:
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			t.Set(k, v)
		}
	}

	if isQuantity {
		value, ok := t.Float("value")
		if !ok {
			return nil, fmt.Errorf("msgpackdoc: quantity without a numeric value")
		}
		return treecodec.Quantity{Value: value, Unit: unit}, nil
	}
	return t, nil
}

func decodeSeq(dec *msgpack.Decoder) ([]any, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}
	seq := make([]any, n)
	for i := range seq {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		seq[i] = v
	}
	return seq, nil
}
