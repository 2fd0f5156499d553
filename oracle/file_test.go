package oracle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.yaml")
	data := []byte("packages:\n  go.uber.org/zap: v1.26.0\n  github.com/go-logr/stdr: v1.2.2\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write inventory: %v", err)
	}

	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	want := map[string]string{
		"go.uber.org/zap":         "v1.26.0",
		"github.com/go-logr/stdr": "v1.2.2",
	}
	if diff := cmp.Diff(want, s.Inventory()); diff != "" {
		t.Fatalf("unexpected inventory (-want +got):\n%s", diff)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestParseInventory_RejectsUnknownFields(t *testing.T) {
	if _, err := ParseInventory([]byte("pkgs:\n  a: 1.0.0\n")); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestParseInventory_RejectsEmptyPackage(t *testing.T) {
	if _, err := ParseInventory([]byte("packages:\n  \"\": 1.0.0\n")); err == nil {
		t.Fatalf("expected error for empty package")
	}
}
