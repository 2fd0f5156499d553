package discovery

import (
	"fmt"
	"sort"
	"sync"
)

// Builders is a table of factories keyed by package, filled by the packages
// that link a concrete implementation in, usually from an init function.
// Catalogs refer to entries through Deferred so that a candidate whose
// implementation was never linked declines instead of failing.
type Builders[T any] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T]
}

func NewBuilders[T any]() *Builders[T] {
	return &Builders[T]{factories: make(map[string]Factory[T])}
}

// Register makes f the builder for pkg. It panics if f is nil or pkg is
// already registered.
func (b *Builders[T]) Register(pkg string, f Factory[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if f == nil {
		panic(fmt.Sprintf("discovery: Register factory for %q is nil", pkg))
	}
	if _, dup := b.factories[pkg]; dup {
		panic(fmt.Sprintf("discovery: Register called twice for %q", pkg))
	}
	b.factories[pkg] = f
}

// Lookup returns the factory registered for pkg.
func (b *Builders[T]) Lookup(pkg string) (Factory[T], bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	f, ok := b.factories[pkg]
	return f, ok
}

// Deferred returns a factory that resolves pkg when it is invoked.
func (b *Builders[T]) Deferred(pkg string) Factory[T] {
	return FactoryFunc[T](func() (T, bool) {
		f, ok := b.Lookup(pkg)
		if !ok {
			var zero T
			return zero, false
		}
		return f.TryBuild()
	})
}

// Registered returns the registered packages, sorted.
func (b *Builders[T]) Registered() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]string, 0, len(b.factories))
	for pkg := range b.factories {
		out = append(out, pkg)
	}
	sort.Strings(out)
	return out
}
