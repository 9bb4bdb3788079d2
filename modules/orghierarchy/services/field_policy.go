package services

import (
	"context"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/aggregates/organization"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/permission"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/permissions"
)

// FieldPolicy pairs the two readonly tiers of a single admin view.
// Base fields are read-only for everyone; protected fields additionally
// lock down once the acting user lacks the kind-appropriate change
// permission for an existing record. The protected set always contains
// the base set, so losing the change permission only ever widens the
// readonly list.
type FieldPolicy struct {
	Name              string
	BaseReadonly      []string
	ProtectedReadonly []string
}

// OrganizationFieldPolicy covers the full organization change view.
func OrganizationFieldPolicy() FieldPolicy {
	return FieldPolicy{
		Name: "organization",
		BaseReadonly: []string{
			organization.FieldCreatedBy,
			organization.FieldLastModifiedBy,
		},
		ProtectedReadonly: []string{
			organization.FieldCreatedBy,
			organization.FieldLastModifiedBy,
			organization.FieldInternalType,
			organization.FieldDataSource,
			organization.FieldClassification,
			organization.FieldParent,
		},
	}
}

// SubOrganizationFieldPolicy covers the inline sub-organization view,
// whose form does not expose internal_type.
func SubOrganizationFieldPolicy() FieldPolicy {
	return FieldPolicy{
		Name: "sub_organization",
		BaseReadonly: []string{
			organization.FieldCreatedBy,
			organization.FieldLastModifiedBy,
		},
		ProtectedReadonly: []string{
			organization.FieldCreatedBy,
			organization.FieldLastModifiedBy,
			organization.FieldDataSource,
			organization.FieldClassification,
			organization.FieldParent,
		},
	}
}

// AffiliatedOrganizationFieldPolicy covers the affiliated organization
// inline view.
func AffiliatedOrganizationFieldPolicy() FieldPolicy {
	return FieldPolicy{
		Name: "affiliated_organization",
		BaseReadonly: []string{
			organization.FieldCreatedBy,
			organization.FieldLastModifiedBy,
		},
		ProtectedReadonly: []string{
			organization.FieldCreatedBy,
			organization.FieldLastModifiedBy,
			organization.FieldDataSource,
			organization.FieldClassification,
		},
	}
}

// FieldPolicyService computes the readonly field list for a view.
type FieldPolicyService struct {
	resolver *PermissionResolver
}

func NewFieldPolicyService(resolver *PermissionResolver) *FieldPolicyService {
	return &FieldPolicyService{resolver: resolver}
}

// ReadonlyFields returns the ordered field names the presentation layer
// must render read-only for the given user and record. A nil org means
// create mode: protection never applies to a record that does not exist
// yet. The replaced_by field is decided independently of the tiers and
// appended last unless the user holds the replace permission.
func (s *FieldPolicyService) ReadonlyFields(ctx context.Context, user organization.User, org *organization.Organization, policy FieldPolicy) []string {
	var fields []string
	switch {
	case org == nil:
		fields = policy.BaseReadonly
	case org.UserEditable():
		// A user-editable data source overrides type-based protection.
		fields = policy.BaseReadonly
	case !s.resolver.Has(ctx, user, org, changePermissionFor(org.InternalType())):
		fields = policy.ProtectedReadonly
	default:
		fields = policy.BaseReadonly
	}

	out := make([]string, 0, len(fields)+1)
	out = append(out, fields...)
	if !s.holdsReplace(ctx, user, org) {
		out = append(out, organization.FieldReplacedBy)
	}
	return out
}

func (s *FieldPolicyService) holdsReplace(ctx context.Context, user organization.User, org *organization.Organization) bool {
	return s.resolver.Has(ctx, user, org, permissions.OrganizationReplace)
}

func changePermissionFor(kind organization.InternalType) *permission.Permission {
	if kind == organization.Affiliated {
		return permissions.AffiliatedOrganizationUpdate
	}
	return permissions.OrganizationUpdate
}
