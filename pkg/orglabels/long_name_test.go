package orglabels

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/aggregates/organization"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/datasource"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/infrastructure/inmemory"
)

func seed(t *testing.T, repo *inmemory.Repository, name string, parent *uuid.UUID) organization.Organization {
	t.Helper()
	org := organization.New(name, organization.Normal, datasource.New("internal", "Internal", false), uuid.New())
	org = org.WithParentID(parent)
	saved, err := repo.Save(context.Background(), org)
	require.NoError(t, err)
	return saved
}

func TestLongName(t *testing.T) {
	repo := inmemory.NewRepository()
	ctx := context.Background()

	city := seed(t, repo, "City", nil)
	cityID := city.ID()
	division := seed(t, repo, "Education", &cityID)
	divisionID := division.ID()
	school := seed(t, repo, "North School", &divisionID)

	got, err := LongName(ctx, repo, school)
	require.NoError(t, err)
	require.Equal(t, "City / Education / North School", got)

	got, err = LongName(ctx, repo, city)
	require.NoError(t, err)
	require.Equal(t, "City", got)
}

func TestResolveLongNames(t *testing.T) {
	repo := inmemory.NewRepository()
	ctx := context.Background()

	root := seed(t, repo, "Root", nil)
	rootID := root.ID()
	child := seed(t, repo, "Child", &rootID)

	got, err := ResolveLongNames(ctx, repo, []organization.Organization{root, child})
	require.NoError(t, err)
	require.Equal(t, "Root", got[root.ID()])
	require.Equal(t, "Root / Child", got[child.ID()])
}
