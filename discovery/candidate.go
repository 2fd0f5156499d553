package discovery

// Factory constructs an instance of a capability. TryBuild reports false when
// the instance cannot be produced, for example because no concrete
// implementation was linked into the binary.
type Factory[T any] interface {
	TryBuild() (T, bool)
}

// FactoryFunc adapts a plain function to Factory.
type FactoryFunc[T any] func() (T, bool)

func (f FactoryFunc[T]) TryBuild() (T, bool) {
	return f()
}

type declined[T any] struct{}

func (declined[T]) TryBuild() (T, bool) {
	var zero T
	return zero, false
}

// Decline returns a Factory that never builds. It backs introspection-only
// candidates.
func Decline[T any]() Factory[T] {
	return declined[T]{}
}

// Candidate describes a library that may satisfy a capability. Candidates are
// immutable; two candidates are the same iff their packages are equal.
type Candidate[T any] struct {
	pkg        string
	constraint string
	factory    Factory[T]
}

// NewCandidate returns a candidate for pkg. An empty constraint accepts any
// installed version. A nil factory always declines.
func NewCandidate[T any](pkg, constraint string, f Factory[T]) Candidate[T] {
	return Candidate[T]{pkg: pkg, constraint: constraint, factory: f}
}

func (c Candidate[T]) Package() string    { return c.pkg }
func (c Candidate[T]) Constraint() string { return c.constraint }

func (c Candidate[T]) Factory() Factory[T] {
	if c.factory == nil {
		return Decline[T]()
	}
	return c.factory
}

// Build invokes the candidate's factory.
func (c Candidate[T]) Build() (T, bool) {
	return c.Factory().TryBuild()
}

// withFactory returns a copy of c bound to f.
func (c Candidate[T]) withFactory(f Factory[T]) Candidate[T] {
	c.factory = f
	return c
}
