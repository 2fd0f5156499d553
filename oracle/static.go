package oracle

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/mod/module"

	"github.com/anvil-platform/discovery/discovery"
	"github.com/anvil-platform/discovery/internal/semver"
)

var _ discovery.Oracle = (*Static)(nil)

// Static is an in-memory inventory of module paths and their versions.
//
// A package path inside a known module resolves to that module, the longest
// matching module path winning. Static is safe for concurrent use; it can be
// refreshed in place with Replace while registries hold it.
type Static struct {
	mu       sync.RWMutex
	versions map[string]string
}

func NewStatic(inventory map[string]string) *Static {
	s := &Static{versions: make(map[string]string, len(inventory))}
	for pkg, version := range inventory {
		s.versions[pkg] = strings.TrimSpace(version)
	}
	return s
}

func (s *Static) IsInstalled(pkg string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.lookup(pkg)
	return ok
}

func (s *Static) InstalledVersion(pkg string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, _ := s.lookup(pkg)
	return v
}

// Satisfies reports whether version meets constraint. A version that does not
// parse satisfies nothing; a constraint that does not parse is an error
// wrapping discovery.ErrInvalidConstraint.
func (s *Static) Satisfies(version, constraint string) (bool, error) {
	return Satisfies(version, constraint)
}

// Satisfies is the version check shared by the oracles of this package.
func Satisfies(version, constraint string) (bool, error) {
	c, err := semver.ParseConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("%w: %v", discovery.ErrInvalidConstraint, err)
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

func (s *Static) Set(pkg, version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions[pkg] = strings.TrimSpace(version)
}

func (s *Static) Remove(pkg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.versions, pkg)
}

// Replace swaps the whole inventory with the contents of other.
func (s *Static) Replace(other *Static) {
	snapshot := other.Inventory()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions = snapshot
}

// Merge overlays other onto s; entries of other win.
func (s *Static) Merge(other *Static) {
	snapshot := other.Inventory()

	s.mu.Lock()
	defer s.mu.Unlock()
	for pkg, version := range snapshot {
		s.versions[pkg] = version
	}
}

// Inventory returns a copy of the inventory.
func (s *Static) Inventory() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.versions))
	for pkg, version := range s.versions {
		out[pkg] = version
	}
	return out
}

// Packages returns the known module paths, sorted.
func (s *Static) Packages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.versions))
	for pkg := range s.versions {
		out = append(out, pkg)
	}
	sort.Strings(out)
	return out
}

// lookup resolves pkg to the version of the module that contains it. The walk
// stops at a major version suffix: k8s.io/klog/v2 is not part of k8s.io/klog.
// s.mu must be held.
func (s *Static) lookup(pkg string) (string, bool) {
	for p := pkg; p != ""; {
		if v, ok := s.versions[p]; ok {
			return v, true
		}
		if _, major, ok := module.SplitPathVersion(p); ok && major != "" {
			break
		}
		i := strings.LastIndexByte(p, '/')
		if i < 0 {
			break
		}
		p = p[:i]
	}
	return "", false
}
