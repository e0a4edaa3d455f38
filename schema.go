package treecodec

import (
	"fmt"
	"strings"
)

// Binding is the (identifier, version) pair recorded on a tree: the schema
// the tree conforms to. On the wire the two are joined as a
// version-suffixed tag, e.g.
//
//	http://astroasdf.org/schemas/transform/identity-1.0.0
type Binding struct {
	Base    string
	Version Version
}

// ParseBinding splits a version-suffixed schema tag into its binding.
func ParseBinding(tag string) (Binding, error) {
	i := strings.LastIndex(tag, "-")
	if i <= 0 || i == len(tag)-1 {
		return Binding{}, fmt.Errorf("schema tag %q: missing version suffix", tag)
	}
	b := Binding{Base: tag[:i], Version: Version(tag[i+1:])}
	if !b.Version.IsValid() {
		return Binding{}, fmt.Errorf("schema tag %q: invalid version %q", tag, b.Version)
	}
	return b, nil
}

// Tag renders the binding as a version-suffixed schema tag.
func (b Binding) Tag() string {
	return b.Base + "-" + string(b.Version)
}

// IsZero reports whether the binding is unset.
func (b Binding) IsZero() bool {
	return b.Base == "" && b.Version == ""
}

// Claim declares that a codec handles one schema identifier family over an
// inclusive version range.
type Claim struct {
	Base string
	Min  Version
	Max  Version
}

// ClaimExact returns a claim covering a single version.
func ClaimExact(base string, v Version) Claim {
	return Claim{Base: base, Min: v, Max: v}
}

// Contains reports whether the claim covers the given binding.
func (c Claim) Contains(b Binding) bool {
	return c.Base == b.Base &&
		c.Min.Compare(b.Version) <= 0 &&
		c.Max.Compare(b.Version) >= 0
}

// Overlaps reports whether two claims cover any common binding.
func (c Claim) Overlaps(o Claim) bool {
	return c.Base == o.Base &&
		c.Min.Compare(o.Max) <= 0 &&
		o.Min.Compare(c.Max) <= 0
}

func (c Claim) validate() error {
	if c.Base == "" {
		return fmt.Errorf("claim: empty identifier base")
	}
	if !c.Min.IsValid() || !c.Max.IsValid() {
		return fmt.Errorf("claim %s: invalid version range [%s, %s]", c.Base, c.Min, c.Max)
	}
	if c.Min.Compare(c.Max) > 0 {
		return fmt.Errorf("claim %s: version range [%s, %s] is inverted", c.Base, c.Min, c.Max)
	}
	return nil
}

func (c Claim) String() string {
	if c.Min == c.Max {
		return c.Base + "-" + string(c.Min)
	}
	return fmt.Sprintf("%s [%s, %s]", c.Base, c.Min, c.Max)
}
