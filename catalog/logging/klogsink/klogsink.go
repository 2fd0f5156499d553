// Package klogsink links k8s.io/klog/v2 into the logging catalog.
package klogsink

import (
	"github.com/go-logr/logr"
	"k8s.io/klog/v2"

	"github.com/anvil-platform/discovery/catalog/logging"
	"github.com/anvil-platform/discovery/discovery"
)

func init() {
	logging.Register(logging.PackageKlog, discovery.FactoryFunc[logr.Logger](New))
}

func New() (logr.Logger, bool) {
	return klog.NewKlogr(), true
}
