// Package catalog loads capability catalogs from declarative documents and
// binds them to registered builders.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"sigs.k8s.io/yaml"

	discoveryv1alpha1 "github.com/anvil-platform/discovery/api/v1alpha1"
	"github.com/anvil-platform/discovery/discovery"
	"github.com/anvil-platform/discovery/internal/semver"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// Parse decodes and validates a CandidateCatalog document.
func Parse(data []byte) (discoveryv1alpha1.CandidateCatalog, error) {
	var cat discoveryv1alpha1.CandidateCatalog
	if err := yaml.UnmarshalStrict(data, &cat); err != nil {
		return discoveryv1alpha1.CandidateCatalog{}, fmt.Errorf("catalog: decode: %w", err)
	}
	if err := Validate(cat); err != nil {
		return discoveryv1alpha1.CandidateCatalog{}, err
	}
	return cat, nil
}

func LoadFile(path string) (discoveryv1alpha1.CandidateCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return discoveryv1alpha1.CandidateCatalog{}, fmt.Errorf("catalog: read: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return discoveryv1alpha1.CandidateCatalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Validate checks the document header, that every package is named once,
// and that every version constraint parses. Constraint errors surface here
// rather than on the first discovery.
func Validate(cat discoveryv1alpha1.CandidateCatalog) error {
	if cat.APIVersion != "" && cat.APIVersion != discoveryv1alpha1.GroupVersion {
		return fmt.Errorf("%w: unsupported apiVersion %q", ErrInvalidCatalog, cat.APIVersion)
	}
	if cat.Kind != "" && cat.Kind != discoveryv1alpha1.CandidateCatalogKind {
		return fmt.Errorf("%w: unsupported kind %q", ErrInvalidCatalog, cat.Kind)
	}
	if strings.TrimSpace(cat.Spec.Capability) == "" {
		return fmt.Errorf("%w: capability is required", ErrInvalidCatalog)
	}

	seen := make(map[string]bool)
	check := func(field string, specs []discoveryv1alpha1.CandidateSpec) error {
		for i, spec := range specs {
			if strings.TrimSpace(spec.Package) == "" {
				return fmt.Errorf("%w: %s[%d]: package is required", ErrInvalidCatalog, field, i)
			}
			if seen[spec.Package] {
				return fmt.Errorf("%w: %s[%d]: duplicate package %q", ErrInvalidCatalog, field, i, spec.Package)
			}
			seen[spec.Package] = true
			if _, err := semver.ParseConstraint(spec.Version); err != nil {
				return fmt.Errorf("%w: %s[%d]: %w", discovery.ErrInvalidConstraint, field, i, err)
			}
		}
		return nil
	}
	if err := check("candidates", cat.Spec.Candidates); err != nil {
		return err
	}
	return check("introspection", cat.Spec.Introspection)
}

// Build binds cat to b: each candidate builds through whatever factory is
// registered for its package when discovery runs.
func Build[T any](cat discoveryv1alpha1.CandidateCatalog, b *discovery.Builders[T]) discovery.Catalog[T] {
	out := discovery.Catalog[T]{Capability: cat.Spec.Capability}
	for _, spec := range cat.Spec.Candidates {
		out.Candidates = append(out.Candidates,
			discovery.NewCandidate(spec.Package, spec.Version, b.Deferred(spec.Package)))
	}
	for _, spec := range cat.Spec.Introspection {
		out.Introspection = append(out.Introspection,
			discovery.NewCandidate(spec.Package, spec.Version, discovery.Decline[T]()))
	}
	return out
}
