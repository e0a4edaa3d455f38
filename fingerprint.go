package treecodec

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"math"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a deterministic BLAKE2b-256 digest of a tree graph,
// hex-encoded. Two structurally identical trees (same bindings, same key
// order, same values, same node sharing) fingerprint identically, so the
// digest doubles as a content address and as an idempotence check for
// encoders.
//
// Shared and cyclic nodes hash as back-references, so the walk terminates
// on any graph the codec can produce.
func Fingerprint(t *Tree) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		// Keyless construction cannot fail.
		panic(err)
	}
	writeTree(h, t, make(map[*Tree]int))
	return hex.EncodeToString(h.Sum(nil))
}

func writeTree(w io.Writer, t *Tree, seen map[*Tree]int) {
	if idx, ok := seen[t]; ok {
		fmt.Fprintf(w, "ref:%d;", idx)
		return
	}
	seen[t] = len(seen)

	fmt.Fprintf(w, "tree:%s:%d;", t.Binding().Tag(), t.Len())
	for _, k := range t.Keys() {
		fmt.Fprintf(w, "key:%s;", k)
		v, _ := t.Get(k)
		writeValue(w, v, seen)
	}
}

func writeValue(w io.Writer, v any, seen map[*Tree]int) {
	switch v := v.(type) {
	case nil:
		io.WriteString(w, "nil;")
	case *Tree:
		writeTree(w, v, seen)
	case []any:
		fmt.Fprintf(w, "seq:%d;", len(v))
		for _, e := range v {
			writeValue(w, e, seen)
		}
	case string:
		fmt.Fprintf(w, "str:%s;", v)
	case bool:
		fmt.Fprintf(w, "bool:%t;", v)
	case int:
		writeValue(w, float64(v), seen)
	case int64:
		writeValue(w, float64(v), seen)
	case float64:
		// Numbers hash by value, not by container-dependent Go type.
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
		io.WriteString(w, "num:")
		w.Write(buf[:])
		io.WriteString(w, ";")
	case Quantity:
		fmt.Fprintf(w, "quantity:%s:", v.Unit)
		writeValue(w, v.Value, seen)
	default:
		fmt.Fprintf(w, "opaque:%T:%v;", v, v)
	}
}
