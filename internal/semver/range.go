package semver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidRange = errors.New("invalid version range")
	// ErrUnsupportedUnion is returned for "||" ranges; a Range is a single interval.
	ErrUnsupportedUnion = errors.New("version range unions are not supported")
)

// Bound is one end of a Range. The zero Bound is unbounded.
type Bound struct {
	Version   Version
	Inclusive bool
}

// Unbounded reports whether b places no limit on its side of the range.
func (b Bound) Unbounded() bool {
	return b.Version.IsZero()
}

// Range is an interval over Version.
//
// The zero Range is unbounded on both sides and contains every version.
// Examples accepted by ParseRange:
// - ">= 1.2.0 < 2.0.0"
// - "1.x"
// - "~1.4"
// - "^2.1.0"
// - "1.0.0 - 1.9.9"
type Range struct {
	lower Bound
	upper Bound
	raw   string
}

// Any returns the range containing every version.
func Any() Range {
	return Range{}
}

// Exact returns the range containing only v.
func Exact(v Version) Range {
	return Range{lower: Bound{Version: v, Inclusive: true}, upper: Bound{Version: v, Inclusive: true}}
}

// AtLeast returns [v, ∞).
func AtLeast(v Version) Range {
	return Range{lower: Bound{Version: v, Inclusive: true}}
}

// Below returns (-∞, v).
func Below(v Version) Range {
	return Range{upper: Bound{Version: v}}
}

// Between returns the interval delimited by lower and upper.
func Between(lower, upper Bound) Range {
	return Range{lower: lower, upper: upper}
}

func (r Range) Lower() Bound { return r.lower }
func (r Range) Upper() Bound { return r.upper }

// IsAny reports whether r is unbounded on both sides.
func (r Range) IsAny() bool {
	return r.lower.Unbounded() && r.upper.Unbounded()
}

// Contains reports whether v lies within r.
//
// An exclusive upper bound without a pre-release also excludes the
// pre-releases of that same release: "<2.0.0" does not contain "2.0.0-rc.1".
func (r Range) Contains(v Version) bool {
	if v.IsZero() {
		return false
	}
	if !r.lower.Unbounded() {
		c := Compare(v, r.lower.Version)
		if c < 0 || (c == 0 && !r.lower.Inclusive) {
			return false
		}
	}
	if !r.upper.Unbounded() {
		c := Compare(v, r.upper.Version)
		if c > 0 || (c == 0 && !r.upper.Inclusive) {
			return false
		}
		if !r.upper.Inclusive && r.upper.Version.Prerelease() == "" && v.Prerelease() != "" && sameRelease(v, r.upper.Version) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no version can satisfy r.
func (r Range) IsEmpty() bool {
	if r.lower.Unbounded() || r.upper.Unbounded() {
		return false
	}
	c := Compare(r.lower.Version, r.upper.Version)
	if c > 0 {
		return true
	}
	if c == 0 {
		return !(r.lower.Inclusive && r.upper.Inclusive)
	}
	// Below an exclusive release upper bound, only pre-releases of that same
	// release remain, and Contains rejects them.
	return !r.upper.Inclusive && r.upper.Version.Prerelease() == "" && sameRelease(r.lower.Version, r.upper.Version)
}

// Intersect returns the range of versions contained by both r and o.
func (r Range) Intersect(o Range) Range {
	return Range{
		lower: tighter(r.lower, o.lower, 1),
		upper: tighter(r.upper, o.upper, -1),
	}
}

// tighter picks the more restrictive of two bounds. dir is 1 for lower
// bounds (higher wins) and -1 for upper bounds (lower wins).
func tighter(a, b Bound, dir int) Bound {
	if a.Unbounded() {
		return b
	}
	if b.Unbounded() {
		return a
	}
	c := Compare(a.Version, b.Version) * dir
	switch {
	case c > 0:
		return a
	case c < 0:
		return b
	}
	return Bound{Version: a.Version, Inclusive: a.Inclusive && b.Inclusive}
}

// String returns the text r was parsed from, or its canonical form.
func (r Range) String() string {
	if r.raw != "" {
		return r.raw
	}
	return r.Canonical()
}

// Canonical renders r in normalized operator form, e.g. ">=1.0.0 <2.0.0".
func (r Range) Canonical() string {
	if r.IsAny() {
		return "*"
	}
	if !r.lower.Unbounded() && !r.upper.Unbounded() && r.lower.Inclusive && r.upper.Inclusive && Compare(r.lower.Version, r.upper.Version) == 0 {
		return r.lower.Version.String()
	}
	parts := make([]string, 0, 2)
	if !r.lower.Unbounded() {
		op := ">"
		if r.lower.Inclusive {
			op = ">="
		}
		parts = append(parts, op+r.lower.Version.String())
	}
	if !r.upper.Unbounded() {
		op := "<"
		if r.upper.Inclusive {
			op = "<="
		}
		parts = append(parts, op+r.upper.Version.String())
	}
	return strings.Join(parts, " ")
}

func (r Range) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Range) UnmarshalText(text []byte) error {
	parsed, err := ParseRange(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func MustParseRange(raw string) Range {
	r, err := ParseRange(raw)
	if err != nil {
		panic(err)
	}
	return r
}

// ParseRange parses a Forge version requirement. Whitespace separated
// clauses are intersected. An empty string matches any version.
func ParseRange(raw string) (Range, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "*" {
		return Range{raw: trimmed}, nil
	}
	if strings.Contains(trimmed, "||") {
		return Range{}, fmt.Errorf("semver: parse range %q: %w", raw, ErrUnsupportedUnion)
	}

	var out Range
	if lo, hi, ok := strings.Cut(trimmed, " - "); ok {
		r, err := parseHyphen(strings.TrimSpace(lo), strings.TrimSpace(hi))
		if err != nil {
			return Range{}, fmt.Errorf("semver: parse range %q: %w", raw, err)
		}
		out = r
	} else {
		for _, clause := range clauses(trimmed) {
			r, err := parseClause(clause)
			if err != nil {
				return Range{}, fmt.Errorf("semver: parse range %q: %w", raw, err)
			}
			out = out.Intersect(r)
		}
	}
	out.raw = trimmed
	return out, nil
}

var operators = []string{">=", "<=", "~>", ">", "<", "=", "~", "^"}

// clauses splits on whitespace, re-attaching bare operators to the version
// that follows them (">= 1.0.0" is a single clause).
func clauses(s string) []string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	pending := ""
	for _, f := range fields {
		if isOperator(f) {
			pending += f
			continue
		}
		out = append(out, pending+f)
		pending = ""
	}
	if pending != "" {
		out = append(out, pending)
	}
	return out
}

func isOperator(s string) bool {
	for _, op := range operators {
		if s == op {
			return true
		}
	}
	return false
}

func parseClause(clause string) (Range, error) {
	op := ""
	for _, candidate := range operators {
		if strings.HasPrefix(clause, candidate) {
			op = candidate
			break
		}
	}
	p, err := parsePartial(strings.TrimSpace(clause[len(op):]))
	if err != nil {
		return Range{}, err
	}

	switch op {
	case "", "=":
		if p.full() {
			return Exact(p.version), nil
		}
		if p.parts == 0 {
			return Any(), nil
		}
		return Between(inclusive(p.floor()), exclusive(p.next())), nil
	case ">=":
		if p.parts == 0 {
			return Any(), nil
		}
		return AtLeast(p.floor()), nil
	case ">":
		if p.parts == 0 {
			return Range{}, fmt.Errorf("%w: %q excludes every version", ErrInvalidRange, clause)
		}
		if p.full() {
			return Range{lower: exclusive(p.version)}, nil
		}
		return AtLeast(p.next()), nil
	case "<":
		if p.parts == 0 {
			return Range{}, fmt.Errorf("%w: %q excludes every version", ErrInvalidRange, clause)
		}
		return Below(p.floor()), nil
	case "<=":
		if p.parts == 0 {
			return Any(), nil
		}
		if p.full() {
			return Range{upper: inclusive(p.version)}, nil
		}
		return Below(p.next()), nil
	case "~", "~>":
		if p.parts == 0 {
			return Any(), nil
		}
		upper := NewVersion(p.major+1, 0, 0, "")
		if p.parts >= 2 {
			upper = NewVersion(p.major, p.minor+1, 0, "")
		}
		return Between(inclusive(p.floor()), exclusive(upper)), nil
	case "^":
		if p.parts == 0 {
			return Any(), nil
		}
		var upper Version
		switch {
		case p.major != 0 || p.parts < 2:
			upper = NewVersion(p.major+1, 0, 0, "")
		case p.minor != 0 || p.parts < 3:
			upper = NewVersion(0, p.minor+1, 0, "")
		default:
			upper = NewVersion(0, 0, p.patch+1, "")
		}
		return Between(inclusive(p.floor()), exclusive(upper)), nil
	}
	return Range{}, fmt.Errorf("%w: unknown operator in %q", ErrInvalidRange, clause)
}

func parseHyphen(lo, hi string) (Range, error) {
	pl, err := parsePartial(lo)
	if err != nil {
		return Range{}, err
	}
	ph, err := parsePartial(hi)
	if err != nil {
		return Range{}, err
	}
	out := Range{}
	if pl.parts > 0 {
		out.lower = inclusive(pl.floor())
	}
	switch {
	case ph.full():
		out.upper = inclusive(ph.version)
	case ph.parts > 0:
		out.upper = exclusive(ph.next())
	}
	return out, nil
}

func inclusive(v Version) Bound { return Bound{Version: v, Inclusive: true} }
func exclusive(v Version) Bound { return Bound{Version: v} }

// partial is a possibly incomplete version such as "1", "1.2" or "1.x".
type partial struct {
	major, minor, patch uint64
	// parts is the number of numeric components given (0..3).
	parts int
	// version is set when all three components are present.
	version Version
}

func (p partial) full() bool { return p.parts == 3 }

func (p partial) floor() Version {
	if p.full() {
		return p.version
	}
	return NewVersion(p.major, p.minor, p.patch, "")
}

// next returns the first version above every version p matches.
func (p partial) next() Version {
	if p.parts == 1 {
		return NewVersion(p.major+1, 0, 0, "")
	}
	return NewVersion(p.major, p.minor+1, 0, "")
}

func parsePartial(s string) (partial, error) {
	s = strings.TrimPrefix(s, "v")
	if s == "" {
		return partial{}, fmt.Errorf("%w: missing version", ErrInvalidRange)
	}
	core := s
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core = core[:i]
	}
	comps := strings.Split(core, ".")
	if len(comps) > 3 {
		return partial{}, fmt.Errorf("%w: too many components in %q", ErrInvalidRange, s)
	}

	var p partial
	nums := [3]uint64{}
	wildcard := false
	for i, c := range comps {
		if c == "x" || c == "X" || c == "*" {
			wildcard = true
			continue
		}
		if wildcard {
			return partial{}, fmt.Errorf("%w: %q follows a wildcard", ErrInvalidRange, c)
		}
		n, err := strconv.ParseUint(c, 10, 64)
		if err != nil {
			return partial{}, fmt.Errorf("%w: component %q in %q", ErrInvalidRange, c, s)
		}
		nums[i] = n
		p.parts = i + 1
	}
	p.major, p.minor, p.patch = nums[0], nums[1], nums[2]

	if core != s && !p.full() {
		return partial{}, fmt.Errorf("%w: pre-release on partial version %q", ErrInvalidRange, s)
	}
	if p.full() {
		v, err := ParseVersion(s)
		if err != nil {
			return partial{}, err
		}
		p.version = v
	}
	return p, nil
}
