package treecodec

import "golang.org/x/mod/semver"

// Version is a dotted schema version ("1.4.0"). Versions are totally
// ordered under semver rules.
type Version string

// IsValid reports whether v is a well-formed dotted version.
func (v Version) IsValid() bool {
	return semver.IsValid(v.canonical())
}

// Compare returns -1, 0, or +1 ordering v against o.
func (v Version) Compare(o Version) int {
	return semver.Compare(v.canonical(), o.canonical())
}

// Less reports whether v orders strictly before o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// Schema versions are written without the "v" prefix semver expects.
func (v Version) canonical() string {
	return "v" + string(v)
}
