package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/permission"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/permissions"
	"github.com/iota-uz/orghierarchy/pkg/authz"
	"github.com/iota-uz/orghierarchy/pkg/eventbus"
)

// CasbinPermissionProvider backs global permission grants with a casbin
// enforcer, so hosting applications can manage grants in policy files
// and roles instead of code.
type CasbinPermissionProvider struct {
	svc       *authz.Service
	publisher eventbus.EventBus
}

func NewCasbinPermissionProvider(svc *authz.Service, publisher eventbus.EventBus) *CasbinPermissionProvider {
	return &CasbinPermissionProvider{svc: svc, publisher: publisher}
}

// GlobalPermissions enumerates the defined permissions and keeps the
// ones the enforcer allows for the user.
func (p *CasbinPermissionProvider) GlobalPermissions(ctx context.Context, userID uuid.UUID) (permission.Set, error) {
	subject := authz.SubjectForUser(userID)
	held := permission.Set{}
	for _, perm := range permissions.All {
		ok, err := p.svc.Check(subject, perm.Name)
		if err != nil {
			return nil, err
		}
		if ok {
			held.Add(perm)
		}
	}
	return held, nil
}

func (p *CasbinPermissionProvider) Grant(userID uuid.UUID, perm *permission.Permission) error {
	if _, err := p.svc.Grant(authz.SubjectForUser(userID), perm.Name); err != nil {
		return err
	}
	if p.publisher != nil {
		p.publisher.Publish(PermissionGrantedEvent{UserID: userID})
	}
	return nil
}

func (p *CasbinPermissionProvider) Revoke(userID uuid.UUID, perm *permission.Permission) error {
	if _, err := p.svc.Revoke(authz.SubjectForUser(userID), perm.Name); err != nil {
		return err
	}
	if p.publisher != nil {
		p.publisher.Publish(PermissionRevokedEvent{UserID: userID})
	}
	return nil
}
