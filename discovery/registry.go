package discovery

import (
	"context"
	"reflect"
	"sync"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Catalog is the seed data of a capability: its known libraries in priority
// order, plus libraries that can only be reported, never built.
type Catalog[T any] struct {
	Capability    string
	Candidates    []Candidate[T]
	Introspection []Candidate[T]
}

// Registry owns the discovery state of one capability. Create one per
// capability and share it; all methods are safe for concurrent use.
//
// Factories run while the registry lock is held and must not call back into
// the same registry.
type Registry[T any] struct {
	catalog Catalog[T]
	oracle  Oracle

	mu         sync.Mutex
	candidates *Collection[T]
	extended   *Collection[T]

	singleton    T
	hasSingleton bool
	using        T
	hasUsing     bool
}

func NewRegistry[T any](cat Catalog[T], o Oracle) *Registry[T] {
	return &Registry[T]{catalog: cat, oracle: o}
}

func (r *Registry[T]) Capability() string {
	return r.catalog.Capability
}

// Candidates returns a copy of the candidates used for instantiation.
// Mutating the copy does not affect the registry; use Add, Prefer or Set.
func (r *Registry[T]) Candidates() *Collection[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.base().Clone()
}

// AllCandidates returns a copy of Candidates extended with the
// introspection-only entries of the catalog.
func (r *Registry[T]) AllCandidates() *Collection[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.extended == nil {
		ext := r.base().Clone()
		for _, cand := range r.catalog.Introspection {
			ext.Add(cand.withFactory(Decline[T]()))
		}
		r.extended = ext
	}
	return r.extended.Clone()
}

// Add adds or replaces a candidate and clears any override.
func (r *Registry[T]) Add(cand Candidate[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.base().Add(cand)
	r.invalidate("add")
}

// Prefer moves pkg to the front of the candidates and clears any override.
// It reports false when pkg is not a candidate; the override is cleared
// either way.
func (r *Registry[T]) Prefer(pkg string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := r.base().Prefer(pkg)
	r.invalidate("prefer")
	return found
}

// Set replaces the candidates with a copy of c and clears any override.
func (r *Registry[T]) Set(c *Collection[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.base().Set(c)
	r.invalidate("set")
}

// Discover returns the override when one is in use, otherwise the result of a
// fresh walk of the candidates. The result is not cached.
func (r *Registry[T]) Discover(ctx context.Context) (T, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.discover(ctx)
}

// Discoveries reports every candidate that is installed at a compatible
// version, ignoring any override.
func (r *Registry[T]) Discoveries(ctx context.Context) ([]Candidate[T], error) {
	r.mu.Lock()
	c := r.base().Clone()
	r.mu.Unlock()

	return DiscoverAll(ctx, r.oracle, c)
}

// Singleton returns the override, or the cached instance, or discovers and
// caches one. The cached instance is kept until the registry is mutated, even
// if the environment changes. A failed discovery is not cached.
func (r *Registry[T]) Singleton(ctx context.Context) (T, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hasUsing {
		discoveryRegistryDiscoverTotal.WithLabelValues(r.catalog.Capability, resultOverride).Inc()
		return r.using, true, nil
	}
	if r.hasSingleton {
		discoveryRegistryDiscoverTotal.WithLabelValues(r.catalog.Capability, resultCached).Inc()
		return r.singleton, true, nil
	}

	instance, ok, err := r.discover(ctx)
	if err != nil || !ok {
		return instance, ok, err
	}
	r.singleton, r.hasSingleton = instance, true
	return instance, true, nil
}

// Use makes instance the result of Discover and Singleton until the
// candidates change or Reset is called. A nil instance acts as Reset.
func (r *Registry[T]) Use(instance T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if isNil(instance) {
		r.invalidate("reset")
		return
	}
	r.using, r.hasUsing = instance, true
	r.singleton, r.hasSingleton = instance, true
}

// Reset drops the override and the cached instance.
func (r *Registry[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidate("reset")
}

// Overridden reports whether an instance was injected with Use.
func (r *Registry[T]) Overridden() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hasUsing
}

// base returns the candidate collection, seeding it from the catalog on first
// access. r.mu must be held.
func (r *Registry[T]) base() *Collection[T] {
	if r.candidates == nil {
		r.candidates = NewCollection(r.catalog.Candidates...)
	}
	return r.candidates
}

// invalidate clears the override, the cached instance and the derived
// extended view. r.mu must be held.
func (r *Registry[T]) invalidate(reason string) {
	var zero T
	r.using, r.hasUsing = zero, false
	r.singleton, r.hasSingleton = zero, false
	r.extended = nil
	discoveryRegistryInvalidationsTotal.WithLabelValues(r.catalog.Capability, reason).Inc()
}

// discover runs one lookup. r.mu must be held.
func (r *Registry[T]) discover(ctx context.Context) (T, bool, error) {
	capability := r.catalog.Capability
	if r.hasUsing {
		discoveryRegistryDiscoverTotal.WithLabelValues(capability, resultOverride).Inc()
		return r.using, true, nil
	}

	logger := log.FromContext(ctx).WithValues("capability", capability)
	ctx = log.IntoContext(ctx, logger)

	start := time.Now()
	instance, ok, err := Discover(ctx, r.oracle, r.base())
	discoveryRegistryDiscoverDuration.WithLabelValues(capability).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		discoveryRegistryDiscoverTotal.WithLabelValues(capability, resultError).Inc()
		logger.Error(err, "discovery failed")
	case !ok:
		discoveryRegistryDiscoverTotal.WithLabelValues(capability, resultNotFound).Inc()
		logger.Info("no candidate available")
	default:
		discoveryRegistryDiscoverTotal.WithLabelValues(capability, resultFound).Inc()
	}
	return instance, ok, err
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
