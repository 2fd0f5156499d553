package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// GroupVersion is the apiVersion of catalog documents.
	GroupVersion = "discovery.anvil.platform/v1alpha1"

	CandidateCatalogKind = "CandidateCatalog"
)

// CandidateCatalog declares the known libraries of one capability, in
// priority order.
//
//	apiVersion: discovery.anvil.platform/v1alpha1
//	kind: CandidateCatalog
//	metadata:
//	  name: logging
//	spec:
//	  capability: logging
//	  candidates:
//	  - package: go.uber.org/zap
//	    version: ^1.0
//	  introspection:
//	  - package: github.com/sirupsen/logrus
//	    version: ^1.0
type CandidateCatalog struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec CandidateCatalogSpec `json:"spec"`
}

type CandidateCatalogSpec struct {
	Capability string `json:"capability"`
	// Candidates are used for instantiation, first match wins.
	Candidates []CandidateSpec `json:"candidates"`
	// Introspection entries are only ever reported, never built.
	Introspection []CandidateSpec `json:"introspection,omitempty"`
}

type CandidateSpec struct {
	// Package is a Go module path, or a package path inside one.
	Package string `json:"package"`
	// Version is a constraint such as "^1.0 | ^2.0". Empty accepts any version.
	Version string `json:"version,omitempty"`
}
