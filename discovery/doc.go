// Package discovery selects, at runtime, which of several known libraries
// provides a capability.
//
// A Registry holds the ordered candidates of one capability. Discovery walks
// them in order, asks an Oracle whether each package is present at a
// compatible version, and returns the instance built by the first candidate
// whose factory succeeds. The result can be cached with Singleton or replaced
// outright with Use.
package discovery
