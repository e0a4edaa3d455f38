package treecodec_test

import (
	"testing"

	"github.com/astrokit/treecodec"
)

func TestParseBinding(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		base    string
		version treecodec.Version
		wantErr bool
	}{
		{
			name:    "published constant tag",
			tag:     "http://stsci.edu/schemas/asdf/transform/constant-1.4.0",
			base:    "http://stsci.edu/schemas/asdf/transform/constant",
			version: "1.4.0",
		},
		{
			name:    "units mapping tag",
			tag:     "http://astroasdf.org/schemas/transform/units_mapping-1.0.0",
			base:    "http://astroasdf.org/schemas/transform/units_mapping",
			version: "1.0.0",
		},
		{
			name:    "missing version suffix",
			tag:     "http://astroasdf.org/schemas/transform/identity",
			wantErr: true,
		},
		{
			name:    "invalid version",
			tag:     "transform/identity-one.two",
			wantErr: true,
		},
		{
			name:    "empty",
			tag:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := treecodec.ParseBinding(tt.tag)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseBinding(%q) succeeded, want error", tt.tag)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBinding(%q) error: %v", tt.tag, err)
			}
			if b.Base != tt.base || b.Version != tt.version {
				t.Errorf("ParseBinding(%q) = {%s %s}, want {%s %s}",
					tt.tag, b.Base, b.Version, tt.base, tt.version)
			}
			if b.Tag() != tt.tag {
				t.Errorf("Tag() = %q, want round-trip to %q", b.Tag(), tt.tag)
			}
		})
	}
}

func TestVersion_Compare(t *testing.T) {
	tests := []struct {
		a, b treecodec.Version
		want int
	}{
		{"1.0.0", "1.4.0", -1},
		{"1.4.0", "1.4.0", 0},
		{"1.10.0", "1.9.0", 1},
		{"2.0.0", "1.4.0", 1},
	}
	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestClaim_Contains(t *testing.T) {
	claim := treecodec.Claim{
		Base: "http://stsci.edu/schemas/asdf/transform/constant",
		Min:  "1.0.0",
		Max:  "1.3.0",
	}

	tests := []struct {
		name string
		b    treecodec.Binding
		want bool
	}{
		{"below range", treecodec.Binding{Base: claim.Base, Version: "0.9.0"}, false},
		{"at min", treecodec.Binding{Base: claim.Base, Version: "1.0.0"}, true},
		{"inside", treecodec.Binding{Base: claim.Base, Version: "1.2.0"}, true},
		{"at max", treecodec.Binding{Base: claim.Base, Version: "1.3.0"}, true},
		{"above range", treecodec.Binding{Base: claim.Base, Version: "1.4.0"}, false},
		{"other base", treecodec.Binding{Base: "http://astroasdf.org/schemas/transform/constant", Version: "1.0.0"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := claim.Contains(tt.b); got != tt.want {
				t.Errorf("Contains(%s) = %t, want %t", tt.b.Tag(), got, tt.want)
			}
		})
	}
}

func TestClaim_Overlaps(t *testing.T) {
	base := "http://stsci.edu/schemas/asdf/transform/constant"
	legacy := treecodec.Claim{Base: base, Min: "1.0.0", Max: "1.3.0"}

	tests := []struct {
		name  string
		other treecodec.Claim
		want  bool
	}{
		{"disjoint above", treecodec.ClaimExact(base, "1.4.0"), false},
		{"touching max", treecodec.Claim{Base: base, Min: "1.3.0", Max: "1.5.0"}, true},
		{"nested", treecodec.ClaimExact(base, "1.1.0"), true},
		{"other base", treecodec.Claim{Base: base + "x", Min: "1.0.0", Max: "2.0.0"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := legacy.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps(%s) = %t, want %t", tt.other, got, tt.want)
			}
			if got := tt.other.Overlaps(legacy); got != tt.want {
				t.Errorf("Overlaps is not symmetric for %s", tt.other)
			}
		})
	}
}
