package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/datasource"
)

func TestDataSourceProviderLookup(t *testing.T) {
	p := NewDataSourceProvider()
	p.Add(datasource.New("Internal", "Internal", false))

	// Identifiers are matched case-insensitively.
	ds, err := p.GetByID(context.Background(), "  INTERNAL ")
	require.NoError(t, err)
	require.Equal(t, "internal", ds.ID())
	require.False(t, ds.UserEditable())

	_, err = p.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrDataSourceNotFound)
}

func TestDataSourceProviderAllSorted(t *testing.T) {
	p := NewDataSourceProvider()
	p.Add(datasource.New("b", "B", false))
	p.Add(datasource.New("a", "A", true))

	all, err := p.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "a", all[0].ID())
	require.Equal(t, "b", all[1].ID())
}

func TestDefaultProviderRegistered(t *testing.T) {
	p, err := datasource.Resolve("default")
	require.NoError(t, err)
	require.NotNil(t, p)

	_, err = datasource.Resolve("no-such-provider")
	require.Error(t, err)
}
