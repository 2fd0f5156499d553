// Package zaplog links go.uber.org/zap into the logging catalog.
package zaplog

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"

	"github.com/anvil-platform/discovery/catalog/logging"
	"github.com/anvil-platform/discovery/discovery"
)

func init() {
	logging.Register(logging.PackageZap, discovery.FactoryFunc[logr.Logger](New))
}

// New builds a production zap logger. It declines if zap cannot open its
// output.
func New() (logr.Logger, bool) {
	zl, err := zap.NewProduction()
	if err != nil {
		return logr.Logger{}, false
	}
	return zapr.NewLogger(zl), true
}
