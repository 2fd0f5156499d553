package oracle

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// InventoryKey is the ConfigMap data key holding an inventory document.
// Module paths contain slashes and cannot be ConfigMap keys themselves.
const InventoryKey = "packages.yaml"

// LoadConfigMap reads the inventory stored under InventoryKey in the
// ConfigMap at key.
func LoadConfigMap(ctx context.Context, c client.Reader, key types.NamespacedName) (*Static, error) {
	var cm corev1.ConfigMap
	if err := c.Get(ctx, key, &cm); err != nil {
		return nil, fmt.Errorf("oracle: get configmap %s: %w", key, err)
	}
	data, ok := cm.Data[InventoryKey]
	if !ok {
		return nil, fmt.Errorf("oracle: configmap %s has no %q key", key, InventoryKey)
	}
	s, err := ParseInventory([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("configmap %s: %w", key, err)
	}
	return s, nil
}
