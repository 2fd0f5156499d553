package semver

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	mm "github.com/Masterminds/semver/v3"
)

var (
	ErrInvalidVersion    = errors.New("invalid version")
	ErrInvalidConstraint = errors.New("invalid version constraint")
)

// Matches a single or doubled "|" with surrounding whitespace. Catalogs may
// separate OR groups with a single pipe ("^1.11 | ^2.0"); Masterminds only
// splits on "||".
var reOr = regexp.MustCompile(`\s*\|\|?\s*`)

// Version is a semantic version.
//
// This is a thin wrapper around github.com/Masterminds/semver/v3.
type Version struct {
	v *mm.Version
}

// Constraint is a semantic version constraint.
//
// Examples:
// - ">=1.2.0 <2.0.0"
// - "^1.0.0"
// - "~1.4"
// - "^1.11 | ^2.0 | ^3.0"
// - "" (any version)
type Constraint struct {
	c *mm.Constraints
}

func ParseVersion(raw string) (Version, error) {
	v, err := mm.NewVersion(strings.TrimSpace(raw))
	if err != nil {
		return Version{}, fmt.Errorf("semver: parse version %q: %w: %v", raw, ErrInvalidVersion, err)
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

// NormalizeConstraint rewrites raw into the grammar accepted by Masterminds.
func NormalizeConstraint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "*"
	}
	return reOr.ReplaceAllString(raw, " || ")
}

func ParseConstraint(raw string) (Constraint, error) {
	c, err := mm.NewConstraint(NormalizeConstraint(raw))
	if err != nil {
		return Constraint{}, fmt.Errorf("semver: parse constraint %q: %w: %v", raw, ErrInvalidConstraint, err)
	}
	return Constraint{c: c}, nil
}

func MustParseConstraint(raw string) Constraint {
	c, err := ParseConstraint(raw)
	if err != nil {
		panic(err)
	}
	return c
}

func Satisfies(v Version, c Constraint) bool {
	if v.v == nil || c.c == nil {
		return false
	}
	return c.c.Check(v.v)
}
