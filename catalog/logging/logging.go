// Package logging is the catalog of the logging capability: libraries that
// can back a logr.Logger.
//
// The catalog only names packages. A candidate builds once the package that
// adapts it is linked in, usually with a blank import:
//
//	import _ "github.com/anvil-platform/discovery/catalog/logging/zaplog"
package logging

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/anvil-platform/discovery/catalog"
	"github.com/anvil-platform/discovery/discovery"
)

const Capability = "logging"

const (
	PackageZap     = "go.uber.org/zap"
	PackageZerolog = "github.com/rs/zerolog"
	PackageKlog    = "k8s.io/klog/v2"
	PackageStdr    = "github.com/go-logr/stdr"
)

var builders = discovery.NewBuilders[logr.Logger]()

// Register makes f the builder of pkg. It is meant to be called from the init
// function of an adapter package and panics on duplicates.
func Register(pkg string, f discovery.Factory[logr.Logger]) {
	builders.Register(pkg, f)
}

// Registered returns the packages with a linked builder.
func Registered() []string {
	return builders.Registered()
}

// Catalog returns the built-in catalog in priority order.
func Catalog() discovery.Catalog[logr.Logger] {
	return discovery.Catalog[logr.Logger]{
		Capability: Capability,
		Candidates: []discovery.Candidate[logr.Logger]{
			discovery.NewCandidate(PackageZap, "^1.0", builders.Deferred(PackageZap)),
			discovery.NewCandidate(PackageZerolog, "^1.0", builders.Deferred(PackageZerolog)),
			discovery.NewCandidate(PackageKlog, "^2.0", builders.Deferred(PackageKlog)),
			discovery.NewCandidate(PackageStdr, "^1.0", builders.Deferred(PackageStdr)),
		},
		Introspection: []discovery.Candidate[logr.Logger]{
			discovery.NewCandidate("github.com/sirupsen/logrus", "^1.0", discovery.Decline[logr.Logger]()),
			discovery.NewCandidate("github.com/charmbracelet/log", "^0.2 | ^0.3 | ^0.4", discovery.Decline[logr.Logger]()),
			discovery.NewCandidate("github.com/go-kit/log", "^0.2", discovery.Decline[logr.Logger]()),
		},
	}
}

// NewRegistry returns a registry over the built-in catalog.
func NewRegistry(o discovery.Oracle) *discovery.Registry[logr.Logger] {
	return discovery.NewRegistry(Catalog(), o)
}

// LoadCatalog reads a catalog document for this capability. Its candidates
// build through the adapters registered with Register.
func LoadCatalog(path string) (discovery.Catalog[logr.Logger], error) {
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return discovery.Catalog[logr.Logger]{}, err
	}
	if cat.Spec.Capability != Capability {
		return discovery.Catalog[logr.Logger]{}, fmt.Errorf("%w: %s: capability %q, want %q",
			catalog.ErrInvalidCatalog, path, cat.Spec.Capability, Capability)
	}
	return catalog.Build(cat, builders), nil
}
