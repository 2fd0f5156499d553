package discovery

import (
	"context"
	"fmt"
	"strings"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Discover walks c in priority order and returns the instance built by the
// first candidate that is installed, satisfies its version constraint, and
// whose factory does not decline. It reports false when no candidate
// qualifies. An error is returned only for a malformed constraint.
func Discover[T any](ctx context.Context, o Oracle, c *Collection[T]) (T, bool, error) {
	var zero T
	logger := log.FromContext(ctx)

	for _, cand := range c.All() {
		ok, err := available(ctx, o, cand)
		if err != nil {
			return zero, false, err
		}
		if !ok {
			continue
		}
		instance, built := cand.Build()
		if !built {
			discoveryCandidateChecksTotal.WithLabelValues(cand.pkg, outcomeDeclined).Inc()
			logger.V(1).Info("candidate declined to build", "package", cand.pkg)
			continue
		}
		discoveryCandidateChecksTotal.WithLabelValues(cand.pkg, outcomeSelected).Inc()
		logger.V(1).Info("candidate selected", "package", cand.pkg)
		return instance, true, nil
	}
	return zero, false, nil
}

// DiscoverAll returns every candidate of c that is installed and satisfies its
// version constraint, in priority order. Factories are not invoked.
func DiscoverAll[T any](ctx context.Context, o Oracle, c *Collection[T]) ([]Candidate[T], error) {
	var out []Candidate[T]
	for _, cand := range c.All() {
		ok, err := available(ctx, o, cand)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		discoveryCandidateChecksTotal.WithLabelValues(cand.pkg, outcomeMatched).Inc()
		out = append(out, cand)
	}
	return out, nil
}

// available reports whether cand is installed at a compatible version.
func available[T any](ctx context.Context, o Oracle, cand Candidate[T]) (bool, error) {
	logger := log.FromContext(ctx).WithValues("package", cand.pkg)

	if !o.IsInstalled(cand.pkg) {
		discoveryCandidateChecksTotal.WithLabelValues(cand.pkg, outcomeNotInstalled).Inc()
		logger.V(1).Info("candidate not installed")
		return false, nil
	}

	// An empty constraint accepts any version, including ones the Oracle
	// cannot parse.
	if strings.TrimSpace(cand.constraint) == "" {
		return true, nil
	}

	version := o.InstalledVersion(cand.pkg)
	ok, err := o.Satisfies(version, cand.constraint)
	if err != nil {
		return false, fmt.Errorf("discovery: candidate %q: %w", cand.pkg, err)
	}
	if !ok {
		discoveryCandidateChecksTotal.WithLabelValues(cand.pkg, outcomeVersionMismatch).Inc()
		logger.V(1).Info("candidate version does not satisfy constraint",
			"version", version,
			"constraint", cand.constraint,
		)
		return false, nil
	}
	return true, nil
}
