package discovery

import (
	"errors"
	"fmt"

	"github.com/anvil-platform/discovery/internal/semver"
)

// fakeOracle is a map-backed Oracle that counts lookups.
type fakeOracle struct {
	versions map[string]string
	lookups  int
}

func newFakeOracle(versions map[string]string) *fakeOracle {
	return &fakeOracle{versions: versions}
}

func (o *fakeOracle) IsInstalled(pkg string) bool {
	o.lookups++
	_, ok := o.versions[pkg]
	return ok
}

func (o *fakeOracle) InstalledVersion(pkg string) string {
	return o.versions[pkg]
}

func (o *fakeOracle) Satisfies(version, constraint string) (bool, error) {
	c, err := semver.ParseConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidConstraint, err)
	}
	v, err := semver.ParseVersion(version)
	if err != nil {
		if errors.Is(err, semver.ErrInvalidVersion) {
			return false, nil
		}
		return false, err
	}
	return semver.Satisfies(v, c), nil
}

type instance struct {
	name string
}

func builds(name string) Factory[*instance] {
	return FactoryFunc[*instance](func() (*instance, bool) {
		return &instance{name: name}, true
	})
}

// countingFactory counts how often it was invoked.
type countingFactory struct {
	name  string
	calls int
}

func (f *countingFactory) TryBuild() (*instance, bool) {
	f.calls++
	return &instance{name: f.name}, true
}
