package forge

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalidModuleName = errors.New("invalid module name")

var (
	reOwner = regexp.MustCompile(`^[a-z0-9]+$`)
	reName  = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// ModuleName identifies a module by owner and name, e.g. "puppetlabs-stdlib".
//
// Both parts are stored normalized (lower case), so ModuleName values can be
// compared with == and used as map keys.
type ModuleName struct {
	owner string
	name  string
}

// NewModuleName validates and normalizes owner and name.
func NewModuleName(owner, name string) (ModuleName, error) {
	owner = normalizeSegment(owner)
	name = normalizeSegment(name)
	if !reOwner.MatchString(owner) {
		return ModuleName{}, fmt.Errorf("%w: owner %q must be alphanumeric", ErrInvalidModuleName, owner)
	}
	if !reName.MatchString(name) {
		return ModuleName{}, fmt.Errorf("%w: name %q must start with a letter and contain only letters, digits and underscores", ErrInvalidModuleName, name)
	}
	return ModuleName{owner: owner, name: name}, nil
}

// ParseModuleName accepts "owner-name" and "owner/name".
func ParseModuleName(raw string) (ModuleName, error) {
	s := strings.TrimSpace(raw)
	i := strings.IndexAny(s, "-/")
	if i <= 0 || i == len(s)-1 {
		return ModuleName{}, fmt.Errorf("%w: %q is not of the form owner-name", ErrInvalidModuleName, raw)
	}
	return NewModuleName(s[:i], s[i+1:])
}

func MustParseModuleName(raw string) ModuleName {
	n, err := ParseModuleName(raw)
	if err != nil {
		panic(err)
	}
	return n
}

func normalizeSegment(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Normalize returns the canonical form of n. Values built by NewModuleName
// or ParseModuleName are already canonical.
func (n ModuleName) Normalize() ModuleName {
	return ModuleName{owner: normalizeSegment(n.owner), name: normalizeSegment(n.name)}
}

func (n ModuleName) Owner() string { return n.owner }

// Name returns the module name without its owner segment.
func (n ModuleName) Name() string { return n.name }

func (n ModuleName) IsZero() bool { return n.owner == "" && n.name == "" }

// String renders the name as "owner-name".
func (n ModuleName) String() string {
	return n.WithSeparator('-')
}

// WithSeparator renders the name using sep between owner and name.
func (n ModuleName) WithSeparator(sep rune) string {
	if n.owner == "" {
		return n.name
	}
	return n.owner + string(sep) + n.name
}

// Compare orders names by owner, then name.
func (n ModuleName) Compare(o ModuleName) int {
	if c := strings.Compare(n.owner, o.owner); c != 0 {
		return c
	}
	return strings.Compare(n.name, o.name)
}

func (n ModuleName) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *ModuleName) UnmarshalText(text []byte) error {
	parsed, err := ParseModuleName(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
