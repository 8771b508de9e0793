package semver

import (
	"fmt"

	mm "github.com/Masterminds/semver/v3"
)

// Version is a semantic version.
//
// This is a thin wrapper around github.com/Masterminds/semver/v3. Ordering
// ignores build metadata and follows pre-release precedence rules.
type Version struct {
	v *mm.Version
}

func ParseVersion(raw string) (Version, error) {
	v, err := mm.NewVersion(raw)
	if err != nil {
		return Version{}, fmt.Errorf("semver: parse version %q: %w", raw, err)
	}
	return Version{v: v}, nil
}

func MustParseVersion(raw string) Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// NewVersion builds a version from its components.
func NewVersion(major, minor, patch uint64, prerelease string) Version {
	return Version{v: mm.New(major, minor, patch, prerelease, "")}
}

// IsZero reports whether v was never set.
func (v Version) IsZero() bool {
	return v.v == nil
}

func (v Version) Major() uint64 {
	if v.v == nil {
		return 0
	}
	return v.v.Major()
}

func (v Version) Minor() uint64 {
	if v.v == nil {
		return 0
	}
	return v.v.Minor()
}

func (v Version) Patch() uint64 {
	if v.v == nil {
		return 0
	}
	return v.v.Patch()
}

func (v Version) Prerelease() string {
	if v.v == nil {
		return ""
	}
	return v.v.Prerelease()
}

func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.String()
}

// Equal reports whether a and b have the same precedence.
func (v Version) Equal(o Version) bool {
	return Compare(v, o) == 0
}

func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// sameRelease reports whether a and b share major.minor.patch.
func sameRelease(a, b Version) bool {
	return a.Major() == b.Major() && a.Minor() == b.Minor() && a.Patch() == b.Patch()
}

// Compare compares a and b, returning:
// -1 if a < b
//
//	0 if a == b
//	1 if a > b
func Compare(a, b Version) int {
	if a.v == nil && b.v == nil {
		return 0
	}
	if a.v == nil {
		return -1
	}
	if b.v == nil {
		return 1
	}
	return a.v.Compare(b.v)
}

// MaxSatisfying returns the highest version in candidates that r contains.
//
// If multiple versions are equal, the first encountered wins.
func MaxSatisfying(r Range, candidates []Version) (Version, bool) {
	idx := MaxSatisfyingIndex(r, len(candidates), func(i int) Version { return candidates[i] })
	if idx < 0 {
		return Version{}, false
	}
	return candidates[idx], true
}

// MaxSatisfyingIndex is MaxSatisfying over an indexed collection. It returns
// the index of the winning element, or -1.
func MaxSatisfyingIndex(r Range, n int, at func(int) Version) int {
	best := -1
	var bestVersion Version
	for i := 0; i < n; i++ {
		candidate := at(i)
		if !r.Contains(candidate) {
			continue
		}
		if best < 0 || Compare(candidate, bestVersion) > 0 {
			best = i
			bestVersion = candidate
		}
	}
	return best
}
