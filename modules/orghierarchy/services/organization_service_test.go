package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/aggregates/organization"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/orgclass"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/infrastructure/inmemory"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/permissions"
	"github.com/iota-uz/orghierarchy/pkg/composables"
	"github.com/iota-uz/orghierarchy/pkg/eventbus"
	"github.com/iota-uz/orghierarchy/pkg/serrors"
)

type orgFixture struct {
	repo     *inmemory.Repository
	classes  *inmemory.ClassificationRepository
	sources  *inmemory.DataSourceProvider
	provider *InMemoryPermissionProvider
	svc      *OrganizationService
	classID  uuid.UUID
}

func newOrgFixture(t *testing.T) *orgFixture {
	t.Helper()
	repo := inmemory.NewRepository()
	classes := inmemory.NewClassificationRepository()
	class, err := classes.Save(context.Background(), orgclass.New("Committee"))
	require.NoError(t, err)
	sources := inmemory.NewDataSourceProvider()
	sources.Add(protectedSource())
	sources.Add(editableSource())
	provider := NewInMemoryPermissionProvider(nil)
	resolver := NewPermissionResolver(repo, provider, nil)
	svc := NewOrganizationService(repo, classes, sources, resolver, eventbus.NewEventPublisher(nil), nil)
	return &orgFixture{
		repo:     repo,
		classes:  classes,
		sources:  sources,
		provider: provider,
		svc:      svc,
		classID:  class.ID(),
	}
}

// adopt registers a seeded organization's classification so updates
// through the service pass the reference check.
func (f *orgFixture) adopt(t *testing.T, org organization.Organization) {
	t.Helper()
	_, err := f.classes.Save(context.Background(), orgclass.Hydrate(org.ClassificationID(), "Seeded"))
	require.NoError(t, err)
}

func TestCreateStampsActingUser(t *testing.T) {
	f := newOrgFixture(t)
	alice := newTestUser()
	ctx := composables.WithUser(context.Background(), alice)

	org, err := f.svc.Create(ctx, &organization.CreateDTO{
		Name:             "Acme",
		InternalType:     "normal",
		DataSourceID:     "internal",
		ClassificationID: f.classID,
	})
	require.NoError(t, err)
	require.NotNil(t, org.CreatedByID())
	require.Equal(t, alice.id, *org.CreatedByID())
	require.Equal(t, alice.id, *org.LastModifiedByID())
}

func TestUpdatePreservesCreatedBy(t *testing.T) {
	f := newOrgFixture(t)
	alice := newTestUser()
	bob := newTestUser()

	org, err := f.svc.Create(composables.WithUser(context.Background(), alice), &organization.CreateDTO{
		Name:             "Acme",
		InternalType:     "normal",
		DataSourceID:     "internal",
		ClassificationID: f.classID,
	})
	require.NoError(t, err)

	updated, err := f.svc.Update(composables.WithUser(context.Background(), bob), org.ID(), &organization.UpdateDTO{
		Name:             "Acme Holdings",
		ClassificationID: org.ClassificationID(),
	})
	require.NoError(t, err)
	require.Equal(t, "Acme Holdings", updated.Name())
	require.Equal(t, alice.id, *updated.CreatedByID())
	require.Equal(t, bob.id, *updated.LastModifiedByID())
}

func TestCreateRejectsMissingClassification(t *testing.T) {
	f := newOrgFixture(t)

	_, err := f.svc.Create(context.Background(), &organization.CreateDTO{
		Name:         "Acme",
		InternalType: "normal",
		DataSourceID: "internal",
	})
	require.ErrorIs(t, err, organization.ErrClassificationRequired)
}

func TestCreateRejectsInvalidDTO(t *testing.T) {
	f := newOrgFixture(t)

	_, err := f.svc.Create(context.Background(), &organization.CreateDTO{
		Name:             "Acme",
		InternalType:     "holding",
		DataSourceID:     "internal",
		ClassificationID: uuid.New(),
	})
	var fieldErrs serrors.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Contains(t, fieldErrs, "InternalType")
}

func TestCreateRejectsUnknownDataSource(t *testing.T) {
	f := newOrgFixture(t)

	_, err := f.svc.Create(context.Background(), &organization.CreateDTO{
		Name:             "Acme",
		InternalType:     "normal",
		DataSourceID:     "nope",
		ClassificationID: uuid.New(),
	})
	require.ErrorIs(t, err, inmemory.ErrDataSourceNotFound)
}

func TestCreateRejectsUnknownClassification(t *testing.T) {
	f := newOrgFixture(t)

	_, err := f.svc.Create(context.Background(), &organization.CreateDTO{
		Name:             "Acme",
		InternalType:     "normal",
		DataSourceID:     "internal",
		ClassificationID: uuid.New(),
	})
	require.ErrorIs(t, err, orgclass.ErrNotFound)
}

func TestMoveAcrossFourTiers(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	root := seedOrg(t, f.repo, seed{name: "Root"})
	rootID := root.ID()
	a := seedOrg(t, f.repo, seed{name: "A", parent: &rootID})
	aID := a.ID()
	b := seedOrg(t, f.repo, seed{name: "B", parent: &aID})
	bID := b.ID()
	c := seedOrg(t, f.repo, seed{name: "C", parent: &bID})

	// Hoist the deepest node to the top tier.
	moved, err := f.svc.Move(ctx, c.ID(), &rootID)
	require.NoError(t, err)
	require.Equal(t, rootID, *moved.ParentID())

	ancestors, err := f.repo.Ancestors(ctx, c.ID())
	require.NoError(t, err)
	require.Len(t, ancestors, 1)
	require.Equal(t, rootID, ancestors[0].ID())
}

func TestMoveRepeatedlyBetweenTiers(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	o1 := seedOrg(t, f.repo, seed{name: "O1"})
	o1ID := o1.ID()
	o2 := seedOrg(t, f.repo, seed{name: "O2", parent: &o1ID})
	o2ID := o2.ID()
	o3 := seedOrg(t, f.repo, seed{name: "O3", parent: &o2ID})
	o3ID := o3.ID()
	o4 := seedOrg(t, f.repo, seed{name: "O4", parent: &o3ID})
	o4ID := o4.ID()

	// Bounce the deepest node between tiers; every hop lands on the
	// parent it was just assigned.
	for _, parentID := range []uuid.UUID{o2ID, o3ID, o2ID, o3ID} {
		pid := parentID
		moved, err := f.svc.Move(ctx, o4ID, &pid)
		require.NoError(t, err)
		require.Equal(t, parentID, *moved.ParentID())

		current, err := f.repo.GetByID(ctx, o4ID)
		require.NoError(t, err)
		require.Equal(t, parentID, *current.ParentID())
	}

	// The rest of the chain never moved.
	for id, wantParent := range map[uuid.UUID]uuid.UUID{o2ID: o1ID, o3ID: o2ID} {
		current, err := f.repo.GetByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, wantParent, *current.ParentID())
	}
}

func TestUpdateChangesTypeAndDataSource(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	org, err := f.svc.Create(ctx, &organization.CreateDTO{
		Name:             "Acme",
		InternalType:     "normal",
		DataSourceID:     "internal",
		ClassificationID: f.classID,
	})
	require.NoError(t, err)
	require.False(t, org.UserEditable())

	updated, err := f.svc.Update(ctx, org.ID(), &organization.UpdateDTO{
		Name:             org.Name(),
		InternalType:     "affiliated",
		DataSourceID:     "editable",
		ClassificationID: org.ClassificationID(),
	})
	require.NoError(t, err)
	require.Equal(t, organization.Affiliated, updated.InternalType())
	require.True(t, updated.UserEditable())

	// Omitting both fields keeps them as they are.
	kept, err := f.svc.Update(ctx, org.ID(), &organization.UpdateDTO{
		Name:             "Acme Holdings",
		ClassificationID: org.ClassificationID(),
	})
	require.NoError(t, err)
	require.Equal(t, organization.Affiliated, kept.InternalType())
	require.True(t, kept.UserEditable())

	// An unknown data source fails before anything is saved.
	_, err = f.svc.Update(ctx, org.ID(), &organization.UpdateDTO{
		Name:             org.Name(),
		DataSourceID:     "nope",
		ClassificationID: org.ClassificationID(),
	})
	require.ErrorIs(t, err, inmemory.ErrDataSourceNotFound)
}

func TestMoveRejectsSelfParent(t *testing.T) {
	f := newOrgFixture(t)

	org := seedOrg(t, f.repo, seed{name: "Org"})
	id := org.ID()
	_, err := f.svc.Move(context.Background(), id, &id)
	require.ErrorIs(t, err, ErrParentCycle)
}

func TestMoveRejectsDescendantParent(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	root := seedOrg(t, f.repo, seed{name: "Root"})
	rootID := root.ID()
	mid := seedOrg(t, f.repo, seed{name: "Mid", parent: &rootID})
	midID := mid.ID()
	leaf := seedOrg(t, f.repo, seed{name: "Leaf", parent: &midID})
	leafID := leaf.ID()

	_, err := f.svc.Move(ctx, rootID, &leafID)
	require.ErrorIs(t, err, ErrParentCycle)

	// The failed move leaves the tree untouched.
	current, err := f.repo.GetByID(ctx, rootID)
	require.NoError(t, err)
	require.Nil(t, current.ParentID())
}

func TestUpdateRejectsReplacedByCycle(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	a := seedOrg(t, f.repo, seed{name: "A"})
	b := seedOrg(t, f.repo, seed{name: "B"})
	c := seedOrg(t, f.repo, seed{name: "C"})
	f.adopt(t, a)
	f.adopt(t, b)
	f.adopt(t, c)
	aID, bID, cID := a.ID(), b.ID(), c.ID()

	// A -> B -> C is a valid succession chain.
	_, err := f.svc.Update(ctx, aID, &organization.UpdateDTO{
		Name: a.Name(), ClassificationID: a.ClassificationID(), ReplacedByID: &bID,
	})
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, bID, &organization.UpdateDTO{
		Name: b.Name(), ClassificationID: b.ClassificationID(), ReplacedByID: &cID,
	})
	require.NoError(t, err)

	// Closing the loop C -> A is rejected even though it is multi-hop.
	_, err = f.svc.Update(ctx, cID, &organization.UpdateDTO{
		Name: c.Name(), ClassificationID: c.ClassificationID(), ReplacedByID: &aID,
	})
	require.ErrorIs(t, err, ErrReplacedByCycle)

	// Direct self-succession is rejected too.
	_, err = f.svc.Update(ctx, cID, &organization.UpdateDTO{
		Name: c.Name(), ClassificationID: c.ClassificationID(), ReplacedByID: &cID,
	})
	require.ErrorIs(t, err, ErrReplacedByCycle)
}

func TestDeleteGuards(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	parent := seedOrg(t, f.repo, seed{name: "Parent"})
	parentID := parent.ID()
	seedOrg(t, f.repo, seed{name: "Child", parent: &parentID})

	err := f.svc.Delete(ctx, parentID)
	require.ErrorIs(t, err, ErrHasChildren)

	old := seedOrg(t, f.repo, seed{name: "Old"})
	successor := seedOrg(t, f.repo, seed{name: "New"})
	f.adopt(t, old)
	successorID := successor.ID()
	_, err = f.svc.Update(ctx, old.ID(), &organization.UpdateDTO{
		Name: old.Name(), ClassificationID: old.ClassificationID(), ReplacedByID: &successorID,
	})
	require.NoError(t, err)

	err = f.svc.Delete(ctx, old.ID())
	require.ErrorIs(t, err, ErrHasSuccessor)
}

func TestDeleteNullsInboundSuccessionReferences(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	old := seedOrg(t, f.repo, seed{name: "Old"})
	successor := seedOrg(t, f.repo, seed{name: "New"})
	f.adopt(t, old)
	successorID := successor.ID()
	_, err := f.svc.Update(ctx, old.ID(), &organization.UpdateDTO{
		Name: old.Name(), ClassificationID: old.ClassificationID(), ReplacedByID: &successorID,
	})
	require.NoError(t, err)

	// Deleting the successor is allowed; the old org's pointer is
	// nulled rather than cascading.
	require.NoError(t, f.svc.Delete(ctx, successorID))

	current, err := f.repo.GetByID(ctx, old.ID())
	require.NoError(t, err)
	require.Nil(t, current.ReplacedByID())

	_, err = f.repo.GetByID(ctx, successorID)
	require.True(t, errors.Is(err, organization.ErrNotFound))
}

func TestDeletePublishesEvent(t *testing.T) {
	repo := inmemory.NewRepository()
	sources := inmemory.NewDataSourceProvider()
	sources.Add(protectedSource())
	bus := eventbus.NewEventPublisher(nil)
	resolver := NewPermissionResolver(repo, NewInMemoryPermissionProvider(nil), nil)
	svc := NewOrganizationService(repo, inmemory.NewClassificationRepository(), sources, resolver, bus, nil)

	var gotID uuid.UUID
	bus.Subscribe(func(ev OrganizationDeletedEvent) { gotID = ev.ID })

	org := seedOrg(t, repo, seed{name: "Org"})
	require.NoError(t, svc.Delete(context.Background(), org.ID()))
	require.Equal(t, org.ID(), gotID)
}

func TestCanBulkDelete(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	su := testUser{id: uuid.New(), superuser: true}
	require.True(t, f.svc.CanBulkDelete(ctx, su))

	granted := newTestUser()
	f.provider.Grant(granted.id, permissions.OrganizationDelete)
	require.True(t, f.svc.CanBulkDelete(ctx, granted))

	// Scoped admin rights do not expose the unscoped bulk action.
	admin := newTestUser()
	seedOrg(t, f.repo, seed{name: "Scoped", admins: []uuid.UUID{admin.id}})
	require.False(t, f.svc.CanBulkDelete(ctx, admin))
}
