// Package stdsink links github.com/go-logr/stdr into the logging catalog.
package stdsink

import (
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"github.com/anvil-platform/discovery/catalog/logging"
	"github.com/anvil-platform/discovery/discovery"
)

func init() {
	logging.Register(logging.PackageStdr, discovery.FactoryFunc[logr.Logger](New))
}

func New() (logr.Logger, bool) {
	return stdr.New(log.New(os.Stderr, "", log.LstdFlags)), true
}
