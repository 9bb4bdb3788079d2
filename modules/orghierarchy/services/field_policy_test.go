package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/aggregates/organization"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/infrastructure/inmemory"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/permissions"
)

func newFieldPolicyFixture() (*inmemory.Repository, *InMemoryPermissionProvider, *FieldPolicyService) {
	repo := inmemory.NewRepository()
	provider := NewInMemoryPermissionProvider(nil)
	resolver := NewPermissionResolver(repo, provider, nil)
	return repo, provider, NewFieldPolicyService(resolver)
}

func TestReadonlyFieldsCreateMode(t *testing.T) {
	_, _, svc := newFieldPolicyFixture()

	got := svc.ReadonlyFields(context.Background(), newTestUser(), nil, OrganizationFieldPolicy())
	require.Equal(t, []string{
		organization.FieldCreatedBy,
		organization.FieldLastModifiedBy,
		organization.FieldReplacedBy,
	}, got)
}

func TestReadonlyFieldsWithoutChangePermission(t *testing.T) {
	repo, _, svc := newFieldPolicyFixture()

	org := seedOrg(t, repo, seed{name: "Org"})
	got := svc.ReadonlyFields(context.Background(), newTestUser(), &org, OrganizationFieldPolicy())
	require.Equal(t, []string{
		organization.FieldCreatedBy,
		organization.FieldLastModifiedBy,
		organization.FieldInternalType,
		organization.FieldDataSource,
		organization.FieldClassification,
		organization.FieldParent,
		organization.FieldReplacedBy,
	}, got)
}

func TestReadonlyFieldsWithChangePermission(t *testing.T) {
	repo, provider, svc := newFieldPolicyFixture()

	user := newTestUser()
	provider.Grant(user.id, permissions.OrganizationUpdate)
	org := seedOrg(t, repo, seed{name: "Org"})

	got := svc.ReadonlyFields(context.Background(), user, &org, OrganizationFieldPolicy())
	require.Equal(t, []string{
		organization.FieldCreatedBy,
		organization.FieldLastModifiedBy,
		organization.FieldReplacedBy,
	}, got)
}

func TestReadonlyFieldsUserEditableOverridesProtection(t *testing.T) {
	repo, _, svc := newFieldPolicyFixture()

	org := seedOrg(t, repo, seed{name: "Org", ds: editableSource()})
	got := svc.ReadonlyFields(context.Background(), newTestUser(), &org, OrganizationFieldPolicy())
	require.Equal(t, []string{
		organization.FieldCreatedBy,
		organization.FieldLastModifiedBy,
		organization.FieldReplacedBy,
	}, got)
}

func TestReadonlyFieldsReplacePermissionUnlocksReplacedBy(t *testing.T) {
	repo, provider, svc := newFieldPolicyFixture()

	user := newTestUser()
	provider.Grant(user.id, permissions.OrganizationUpdate)
	provider.Grant(user.id, permissions.OrganizationReplace)
	org := seedOrg(t, repo, seed{name: "Org"})

	got := svc.ReadonlyFields(context.Background(), user, &org, OrganizationFieldPolicy())
	require.Equal(t, []string{
		organization.FieldCreatedBy,
		organization.FieldLastModifiedBy,
	}, got)

	// Replace alone does not unlock the protected tier.
	limited := newTestUser()
	provider.Grant(limited.id, permissions.OrganizationReplace)
	got = svc.ReadonlyFields(context.Background(), limited, &org, OrganizationFieldPolicy())
	require.Equal(t, []string{
		organization.FieldCreatedBy,
		organization.FieldLastModifiedBy,
		organization.FieldInternalType,
		organization.FieldDataSource,
		organization.FieldClassification,
		organization.FieldParent,
	}, got)
}

func TestReadonlyFieldsAffiliatedUsesAffiliatedPermission(t *testing.T) {
	repo, provider, svc := newFieldPolicyFixture()

	user := newTestUser()
	provider.Grant(user.id, permissions.AffiliatedOrganizationUpdate)
	org := seedOrg(t, repo, seed{name: "Partner", kind: organization.Affiliated})

	got := svc.ReadonlyFields(context.Background(), user, &org, AffiliatedOrganizationFieldPolicy())
	require.Equal(t, []string{
		organization.FieldCreatedBy,
		organization.FieldLastModifiedBy,
		organization.FieldReplacedBy,
	}, got)

	// The regular update permission does not cover affiliated records.
	other := newTestUser()
	provider.Grant(other.id, permissions.OrganizationUpdate)
	got = svc.ReadonlyFields(context.Background(), other, &org, AffiliatedOrganizationFieldPolicy())
	require.Equal(t, []string{
		organization.FieldCreatedBy,
		organization.FieldLastModifiedBy,
		organization.FieldDataSource,
		organization.FieldClassification,
		organization.FieldReplacedBy,
	}, got)
}

func TestReadonlyFieldsSubOrganizationOmitsInternalType(t *testing.T) {
	repo, _, svc := newFieldPolicyFixture()

	org := seedOrg(t, repo, seed{name: "Org"})
	got := svc.ReadonlyFields(context.Background(), newTestUser(), &org, SubOrganizationFieldPolicy())
	require.NotContains(t, got, organization.FieldInternalType)
	require.Contains(t, got, organization.FieldParent)
}

func TestReadonlyFieldsIdempotent(t *testing.T) {
	repo, _, svc := newFieldPolicyFixture()

	org := seedOrg(t, repo, seed{name: "Org"})
	user := newTestUser()
	first := svc.ReadonlyFields(context.Background(), user, &org, OrganizationFieldPolicy())
	second := svc.ReadonlyFields(context.Background(), user, &org, OrganizationFieldPolicy())
	require.Equal(t, first, second)
}
