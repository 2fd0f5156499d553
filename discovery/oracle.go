package discovery

// Oracle reports which packages are present in the running environment.
//
// Lookups are expected to be fast, in-memory or local-manifest reads.
// Satisfies returns an error only when constraint is malformed; such errors
// should wrap ErrInvalidConstraint. A version that cannot be parsed simply
// does not satisfy.
type Oracle interface {
	IsInstalled(pkg string) bool
	InstalledVersion(pkg string) string
	Satisfies(version, constraint string) (bool, error)
}
