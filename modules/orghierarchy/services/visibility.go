package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/aggregates/organization"
)

// VisibilityFilter narrows organization result sets to the subtrees a
// user administers. Type filters compose underneath: the base query is
// applied first, visibility narrows it.
type VisibilityFilter struct {
	repo   organization.Repository
	logger *logrus.Entry
}

func NewVisibilityFilter(repo organization.Repository, logger *logrus.Entry) *VisibilityFilter {
	if logger == nil {
		logger = logrus.WithField("component", "orghierarchy.visibility")
	}
	return &VisibilityFilter{repo: repo, logger: logger}
}

// VisibleOrganizations returns the organizations matching base that the
// user may see: everything for a superuser, otherwise the administered
// organizations and their descendants at any depth. A user with no
// administered organizations sees nothing.
func (f *VisibilityFilter) VisibleOrganizations(ctx context.Context, user organization.User, base organization.Query) ([]organization.Organization, error) {
	if base == nil {
		base = organization.All()
	}
	if user == nil {
		return []organization.Organization{}, nil
	}
	if user.IsSuperuser() {
		return f.repo.Find(ctx, base)
	}

	rootIDs, err := f.administeredRoots(ctx, user.ID())
	if err != nil {
		return nil, err
	}
	if len(rootIDs) == 0 {
		return []organization.Organization{}, nil
	}
	return f.repo.Find(ctx, organization.And(base, organization.SubtreeOf(rootIDs...)))
}

// CanSee reports whether a single organization is within the user's
// administrative scope.
func (f *VisibilityFilter) CanSee(ctx context.Context, user organization.User, org organization.Organization) (bool, error) {
	if user == nil {
		return false, nil
	}
	if user.IsSuperuser() {
		return true, nil
	}
	if org.HasAdminUser(user.ID()) {
		return true, nil
	}
	ancestors, err := f.repo.Ancestors(ctx, org.ID())
	if err != nil {
		return false, err
	}
	for _, ancestor := range ancestors {
		if ancestor.HasAdminUser(user.ID()) {
			return true, nil
		}
	}
	return false, nil
}

func (f *VisibilityFilter) administeredRoots(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	administered, err := f.repo.Find(ctx, organization.AdministeredBy(userID))
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(administered))
	for _, org := range administered {
		ids = append(ids, org.ID())
	}
	return ids, nil
}
