package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/permission"
	"github.com/iota-uz/orghierarchy/pkg/eventbus"
)

// InMemoryPermissionProvider is the reference PermissionProvider: a
// plain grant table. Grants and revocations publish permission change
// events so request-scoped caches invalidate.
type InMemoryPermissionProvider struct {
	mu        sync.RWMutex
	grants    map[uuid.UUID]permission.Set
	publisher eventbus.EventBus
}

func NewInMemoryPermissionProvider(publisher eventbus.EventBus) *InMemoryPermissionProvider {
	return &InMemoryPermissionProvider{
		grants:    map[uuid.UUID]permission.Set{},
		publisher: publisher,
	}
}

func (p *InMemoryPermissionProvider) GlobalPermissions(ctx context.Context, userID uuid.UUID) (permission.Set, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	held, ok := p.grants[userID]
	if !ok {
		return permission.Set{}, nil
	}
	return held.Clone(), nil
}

func (p *InMemoryPermissionProvider) Grant(userID uuid.UUID, perm *permission.Permission) {
	p.mu.Lock()
	held, ok := p.grants[userID]
	if !ok {
		held = permission.Set{}
		p.grants[userID] = held
	}
	held.Add(perm)
	p.mu.Unlock()

	if p.publisher != nil {
		p.publisher.Publish(PermissionGrantedEvent{UserID: userID})
	}
}

func (p *InMemoryPermissionProvider) Revoke(userID uuid.UUID, perm *permission.Permission) {
	p.mu.Lock()
	if held, ok := p.grants[userID]; ok {
		delete(held, perm.Name)
	}
	p.mu.Unlock()

	if p.publisher != nil {
		p.publisher.Publish(PermissionRevokedEvent{UserID: userID})
	}
}
