package oracle

import (
	"fmt"
	"os"
	"strings"

	"sigs.k8s.io/yaml"
)

// Inventory is the on-disk form of a package inventory:
//
//	packages:
//	  go.uber.org/zap: v1.26.0
//	  k8s.io/klog/v2: v2.130.1
type Inventory struct {
	Packages map[string]string `json:"packages"`
}

// ParseInventory decodes a YAML or JSON inventory.
func ParseInventory(data []byte) (*Static, error) {
	var inv Inventory
	if err := yaml.UnmarshalStrict(data, &inv); err != nil {
		return nil, fmt.Errorf("oracle: decode inventory: %w", err)
	}
	for pkg, version := range inv.Packages {
		if strings.TrimSpace(pkg) == "" {
			return nil, fmt.Errorf("oracle: inventory entry with empty package (version %q)", version)
		}
	}
	return NewStatic(inv.Packages), nil
}

func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("oracle: read inventory: %w", err)
	}
	s, err := ParseInventory(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
