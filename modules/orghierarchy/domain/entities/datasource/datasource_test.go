package datasource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubProvider struct{}

func (stubProvider) GetByID(ctx context.Context, id string) (DataSource, error) {
	return DataSource{}, nil
}

func (stubProvider) All(ctx context.Context) ([]DataSource, error) {
	return nil, nil
}

func TestNewNormalizesID(t *testing.T) {
	ds := New("  HelBiz ", "Helsinki business registry", true)
	require.Equal(t, "helbiz", ds.ID())
	require.Equal(t, "Helsinki business registry", ds.Name())
	require.True(t, ds.UserEditable())
	require.False(t, ds.IsZero())
}

func TestIsZero(t *testing.T) {
	require.True(t, DataSource{}.IsZero())
}

func TestRegistryResolve(t *testing.T) {
	Register("test-provider", stubProvider{})
	p, err := Resolve("test-provider")
	require.NoError(t, err)
	require.NotNil(t, p)

	_, err = Resolve("unregistered")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unregistered")
}
