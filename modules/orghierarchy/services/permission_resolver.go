package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/aggregates/organization"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/permission"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/permissions"
	"github.com/iota-uz/orghierarchy/pkg/composables"
)

// PermissionProvider supplies a user's organization-independent
// permission grants from the authoritative store.
type PermissionProvider interface {
	GlobalPermissions(ctx context.Context, userID uuid.UUID) (permission.Set, error)
}

// PermissionResolver computes the set of named permissions a user holds
// for a given organization. Denials are values: resolution never fails
// outward, it only narrows to the empty set.
type PermissionResolver struct {
	repo     organization.Repository
	provider PermissionProvider
	logger   *logrus.Entry
}

func NewPermissionResolver(repo organization.Repository, provider PermissionProvider, logger *logrus.Entry) *PermissionResolver {
	if logger == nil {
		logger = logrus.WithField("component", "orghierarchy.resolver")
	}
	return &PermissionResolver{repo: repo, provider: provider, logger: logger}
}

// Resolve returns every permission the user holds with respect to org.
// A nil org means the organization-independent (list/create) context.
// Results are memoized in the request's permission cache when one is
// attached to the context.
func (r *PermissionResolver) Resolve(ctx context.Context, user organization.User, org *organization.Organization) permission.Set {
	if user == nil {
		return permission.Set{}
	}
	if user.IsSuperuser() {
		return permission.NewSet(permissions.All...)
	}

	key := permission.CacheKey{UserID: user.ID()}
	if org != nil {
		key.OrgID = org.ID()
	}

	cache, cached := composables.UsePermissionCache(ctx)
	if cached {
		if held, hit := cache.Get(key); hit {
			permCacheLookups.WithLabelValues("hit").Inc()
			return held
		}
		permCacheLookups.WithLabelValues("miss").Inc()
	}

	held := r.compute(ctx, user, org)
	if cached {
		cache.Put(key, held)
	}
	return held
}

// Has reports whether the user holds the permission for the given
// organization context.
func (r *PermissionResolver) Has(ctx context.Context, user organization.User, org *organization.Organization, p *permission.Permission) bool {
	return r.Resolve(ctx, user, org).Has(p)
}

// HasGlobal ignores any organization scoping: only superuser status and
// direct grants count. Bulk actions gate on this.
func (r *PermissionResolver) HasGlobal(ctx context.Context, user organization.User, p *permission.Permission) bool {
	return r.Resolve(ctx, user, nil).Has(p)
}

func (r *PermissionResolver) compute(ctx context.Context, user organization.User, org *organization.Organization) permission.Set {
	held := permission.Set{}
	global, err := r.provider.GlobalPermissions(ctx, user.ID())
	if err != nil {
		r.logger.WithError(err).WithField("user_id", user.ID()).
			Warn("permission provider lookup failed, treating as no grants")
	} else {
		held = global.Clone()
	}

	if org == nil {
		return held
	}

	if r.isScopedAdmin(ctx, user, *org) {
		held = held.Union(permission.NewSet(permissions.ScopedAdminGrants...))
	}
	return held
}

// isScopedAdmin reports whether the user administers the organization
// directly or through any ancestor.
func (r *PermissionResolver) isScopedAdmin(ctx context.Context, user organization.User, org organization.Organization) bool {
	if org.HasAdminUser(user.ID()) {
		return true
	}
	if org.IsZero() {
		return false
	}
	ancestors, err := r.repo.Ancestors(ctx, org.ID())
	if err != nil {
		r.logger.WithError(err).WithField("org_id", org.ID()).
			Warn("ancestor lookup failed, treating as not administered")
		return false
	}
	for _, ancestor := range ancestors {
		if ancestor.HasAdminUser(user.ID()) {
			return true
		}
	}
	return false
}
