package assets

import (
	"context"
	"sync"

	"leasehold-backend/internal/domain"
)

// Registry is the external asset-ownership lookup. The lease core only
// consults it, when configured, to confirm that a poster controls the asset
// being listed.
type Registry interface {
	Owner(ctx context.Context, ref domain.AssetRef) (string, error)
}

// StaticRegistry is an in-process registry seeded from config. Unknown
// assets report ErrItemNotFound.
type StaticRegistry struct {
	mu     sync.RWMutex
	owners map[string]string
}

func NewStaticRegistry(owners map[string]string) *StaticRegistry {
	m := make(map[string]string, len(owners))
	for key, owner := range owners {
		m[key] = owner
	}
	return &StaticRegistry{owners: m}
}

func (r *StaticRegistry) Owner(ctx context.Context, ref domain.AssetRef) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owner, ok := r.owners[ref.Key()]
	if !ok {
		return "", domain.ErrItemNotFound
	}
	return owner, nil
}

// SetOwner records or updates an asset's owner.
func (r *StaticRegistry) SetOwner(ref domain.AssetRef, owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[ref.Key()] = owner
}
