package treecodec

import (
	"context"
	"fmt"
	"sync"
)

// Registry associates schema claims with codecs. It is populated once at
// startup and read-only afterwards; lookups take the read lock only.
type Registry struct {
	mu      sync.RWMutex
	entries []registryEntry
}

// registryEntry binds one claim to its codec for lookup.
type registryEntry struct {
	claim Claim
	codec Codec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewStandardRegistry returns a registry with the standard transform
// codecs registered under their published schema identifiers.
func NewStandardRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(NewIdentityCodec())
	r.MustRegister(NewConstantCodec(DefaultConstantVariants()))
	r.MustRegister(NewGenericCodec())
	r.MustRegister(NewUnitsMappingCodec())
	return r
}

// Register adds a codec under all of its claims. Claims must be
// well-formed and must not overlap any claim already registered; overlap
// is a configuration defect surfaced here, not at first use.
func (r *Registry) Register(c Codec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// All checks run before any entry is appended; a failed registration
	// must leave the registry untouched.
	var emitsClaimed bool
	for _, claim := range c.Claims() {
		if err := claim.validate(); err != nil {
			return fmt.Errorf("register %s: %w", c.Name(), err)
		}
		for _, e := range r.entries {
			if e.claim.Overlaps(claim) {
				return newSchemaError(ErrAmbiguousSchema, claim.String(),
					fmt.Sprintf("claimed by both %s and %s", e.codec.Name(), c.Name()))
			}
		}
		if claim.Contains(c.Emits()) {
			emitsClaimed = true
		}
	}
	if !emitsClaimed {
		return newSchemaError(ErrUnknownSchema, c.Emits().Tag(),
			fmt.Sprintf("codec %s emits a binding outside its own claims", c.Name()))
	}

	for _, claim := range c.Claims() {
		r.entries = append(r.entries, registryEntry{claim: claim, codec: c})
	}

	emitCodecRegistered(context.Background(), c.Name(), len(c.Claims()))
	return nil
}

// MustRegister registers c and panics on configuration errors.
func (r *Registry) MustRegister(c Codec) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Resolve finds the single codec whose claims contain the binding, along
// with the matched claim. Concrete codecs branch on the binding itself
// (notably the constant family), so the match is returned rather than
// swallowed.
func (r *Registry) Resolve(b Binding) (Codec, Claim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.claim.Contains(b) {
			return e.codec, e.claim, nil
		}
	}
	return nil, Claim{}, newSchemaError(ErrUnknownSchema, b.Tag(), "")
}

// CodecFor finds the codec that encodes the given model.
func (r *Registry) CodecFor(m Model) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.codec.HandlesModel(m) {
			return e.codec, nil
		}
	}
	return nil, newSchemaError(ErrUnknownSchema, fmt.Sprintf("%T", m), "no codec handles model")
}
