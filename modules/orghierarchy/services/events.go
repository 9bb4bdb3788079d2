package services

import (
	"github.com/google/uuid"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/permission"
	"github.com/iota-uz/orghierarchy/pkg/eventbus"
)

// PermissionGrantedEvent is published by permission providers whenever a
// user gains a permission mid-session.
type PermissionGrantedEvent struct {
	UserID uuid.UUID
}

// PermissionRevokedEvent is the revocation counterpart.
type PermissionRevokedEvent struct {
	UserID uuid.UUID
}

// OrganizationDeletedEvent is published after a guarded delete commits.
type OrganizationDeletedEvent struct {
	ID uuid.UUID
}

// RegisterCacheInvalidation subscribes the given cache to permission
// change events so cached resolutions never outlive a grant.
func RegisterCacheInvalidation(bus eventbus.EventBus, cache *permission.Cache) {
	bus.Subscribe(func(ev PermissionGrantedEvent) {
		cache.Invalidate(ev.UserID)
	})
	bus.Subscribe(func(ev PermissionRevokedEvent) {
		cache.Invalidate(ev.UserID)
	})
}
