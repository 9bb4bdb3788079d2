package permissions

import (
	"github.com/google/uuid"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/permission"
)

const (
	ResourceOrganization           permission.Resource = "organization"
	ResourceAffiliatedOrganization permission.Resource = "affiliated_organization"
)

var (
	OrganizationCreate = &permission.Permission{
		ID:       uuid.MustParse("2f8cbd9e-6f0b-4dbb-9c1f-3c2f70a61a11"),
		Name:     "Organization.Create",
		Resource: ResourceOrganization,
		Action:   permission.ActionCreate,
	}
	OrganizationRead = &permission.Permission{
		ID:       uuid.MustParse("0a8f6f3d-9b44-4a4a-9a57-25b8c41c2c7d"),
		Name:     "Organization.Read",
		Resource: ResourceOrganization,
		Action:   permission.ActionRead,
	}
	OrganizationUpdate = &permission.Permission{
		ID:       uuid.MustParse("5d7c6a1b-4a2e-4f63-8f2b-92d0e66f31af"),
		Name:     "Organization.Update",
		Resource: ResourceOrganization,
		Action:   permission.ActionUpdate,
	}
	OrganizationDelete = &permission.Permission{
		ID:       uuid.MustParse("c1c7b6e4-63a8-4b68-9f47-0c7d2ccf5d84"),
		Name:     "Organization.Delete",
		Resource: ResourceOrganization,
		Action:   permission.ActionDelete,
	}
	OrganizationReplace = &permission.Permission{
		ID:       uuid.MustParse("7e54a3fd-2b9f-4a9e-bb1d-4f1f6f0f2a36"),
		Name:     "Organization.Replace",
		Resource: ResourceOrganization,
		Action:   permission.ActionReplace,
	}
	AffiliatedOrganizationCreate = &permission.Permission{
		ID:       uuid.MustParse("9d3b1f60-7c3a-4f2e-a9bb-6b1d2e8f4c55"),
		Name:     "AffiliatedOrganization.Create",
		Resource: ResourceAffiliatedOrganization,
		Action:   permission.ActionCreate,
	}
	AffiliatedOrganizationUpdate = &permission.Permission{
		ID:       uuid.MustParse("e2a9c8d1-30cf-4f8b-8d19-5a9d7b63f2e0"),
		Name:     "AffiliatedOrganization.Update",
		Resource: ResourceAffiliatedOrganization,
		Action:   permission.ActionUpdate,
	}
	AffiliatedOrganizationDelete = &permission.Permission{
		ID:       uuid.MustParse("b4f1e7a2-8c56-4f0d-b2aa-1e3c9d5f8706"),
		Name:     "AffiliatedOrganization.Delete",
		Resource: ResourceAffiliatedOrganization,
		Action:   permission.ActionDelete,
	}
)

// All enumerates every permission the module defines. A superuser holds
// all of them unconditionally.
var All = []*permission.Permission{
	OrganizationCreate,
	OrganizationRead,
	OrganizationUpdate,
	OrganizationDelete,
	OrganizationReplace,
	AffiliatedOrganizationCreate,
	AffiliatedOrganizationUpdate,
	AffiliatedOrganizationDelete,
}

// ScopedAdminGrants are the permissions implied by membership in an
// organization's admin set (directly or via an ancestor). Replace and
// unscoped bulk delete are deliberately absent: those must be granted
// globally.
var ScopedAdminGrants = []*permission.Permission{
	OrganizationCreate,
	OrganizationRead,
	OrganizationUpdate,
	OrganizationDelete,
	AffiliatedOrganizationCreate,
	AffiliatedOrganizationUpdate,
	AffiliatedOrganizationDelete,
}

// ByName resolves a defined permission from its stable name.
func ByName(name string) (*permission.Permission, bool) {
	for _, p := range All {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}
