package oracle

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/anvil-platform/discovery/discovery"
)

func TestStatic_LookupByModulePrefix(t *testing.T) {
	s := NewStatic(map[string]string{
		"go.uber.org/zap":      "v1.26.0",
		"k8s.io/klog/v2":       "v2.130.1",
		"example.com/mono":     "v1.0.0",
		"example.com/mono/sub": "v3.1.0",
	})

	if !s.IsInstalled("go.uber.org/zap/zapcore") {
		t.Fatalf("expected package inside module to be installed")
	}
	if got := s.InstalledVersion("go.uber.org/zap/zapcore"); got != "v1.26.0" {
		t.Fatalf("expected v1.26.0, got %q", got)
	}
	if got := s.InstalledVersion("example.com/mono/sub/pkg"); got != "v3.1.0" {
		t.Fatalf("expected nested module to win, got %q", got)
	}
	if s.IsInstalled("go.uber.org/zapx") {
		t.Fatalf("expected sibling path not to match")
	}
	if s.IsInstalled("k8s.io/klog") {
		t.Fatalf("expected parent path not to match")
	}
}

func TestStatic_LookupStopsAtMajorVersion(t *testing.T) {
	s := NewStatic(map[string]string{
		"k8s.io/klog":   "v1.0.0",
		"gopkg.in/yaml": "v1.0.0",
	})

	for _, pkg := range []string{"k8s.io/klog/v2", "k8s.io/klog/v2/klogr", "gopkg.in/yaml.v3"} {
		if s.IsInstalled(pkg) {
			t.Fatalf("expected %s not to resolve to another major version", pkg)
		}
		if got := s.InstalledVersion(pkg); got != "" {
			t.Fatalf("expected no version for %s, got %q", pkg, got)
		}
	}

	if got := s.InstalledVersion("k8s.io/klog/glog"); got != "v1.0.0" {
		t.Fatalf("expected v1 package to resolve, got %q", got)
	}

	s.Set("k8s.io/klog/v2", "v2.130.1")
	if got := s.InstalledVersion("k8s.io/klog/v2/klogr"); got != "v2.130.1" {
		t.Fatalf("expected v2 module to resolve, got %q", got)
	}
}

func TestStatic_SetRemove(t *testing.T) {
	s := NewStatic(nil)
	s.Set("example.com/a", " 1.2.3 ")
	if got := s.InstalledVersion("example.com/a"); got != "1.2.3" {
		t.Fatalf("expected trimmed version, got %q", got)
	}
	s.Remove("example.com/a")
	if s.IsInstalled("example.com/a") {
		t.Fatalf("expected package removed")
	}
}

func TestStatic_MergeAndReplace(t *testing.T) {
	s := NewStatic(map[string]string{"a": "1.0.0", "b": "1.0.0"})
	s.Merge(NewStatic(map[string]string{"b": "2.0.0", "c": "3.0.0"}))

	want := map[string]string{"a": "1.0.0", "b": "2.0.0", "c": "3.0.0"}
	if diff := cmp.Diff(want, s.Inventory()); diff != "" {
		t.Fatalf("unexpected merged inventory (-want +got):\n%s", diff)
	}

	s.Replace(NewStatic(map[string]string{"z": "0.1.0"}))
	if diff := cmp.Diff([]string{"z"}, s.Packages()); diff != "" {
		t.Fatalf("unexpected replaced inventory (-want +got):\n%s", diff)
	}
}

func TestStatic_Satisfies(t *testing.T) {
	s := NewStatic(nil)

	ok, err := s.Satisfies("v1.26.0", "^1.0")
	if err != nil || !ok {
		t.Fatalf("expected v1.26.0 to satisfy ^1.0, got ok=%v err=%v", ok, err)
	}
	ok, err = s.Satisfies("v2.0.0", "^1.11 | ^3.0")
	if err != nil || ok {
		t.Fatalf("expected v2.0.0 to NOT satisfy ^1.11 | ^3.0, got ok=%v err=%v", ok, err)
	}
	ok, err = s.Satisfies("(devel)", "^1.0")
	if err != nil || ok {
		t.Fatalf("expected unparseable version to not satisfy, got ok=%v err=%v", ok, err)
	}
	_, err = s.Satisfies("1.0.0", "not a constraint")
	if !errors.Is(err, discovery.ErrInvalidConstraint) {
		t.Fatalf("expected ErrInvalidConstraint, got %v", err)
	}
}
