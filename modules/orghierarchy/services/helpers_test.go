package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/aggregates/organization"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/datasource"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/infrastructure/inmemory"
)

type testUser struct {
	id        uuid.UUID
	superuser bool
}

func (u testUser) ID() uuid.UUID     { return u.id }
func (u testUser) IsSuperuser() bool { return u.superuser }

func newTestUser() testUser {
	return testUser{id: uuid.New()}
}

func protectedSource() datasource.DataSource {
	return datasource.New("internal", "Internal", false)
}

func editableSource() datasource.DataSource {
	return datasource.New("editable", "Editable", true)
}

type seed struct {
	name   string
	kind   organization.InternalType
	ds     datasource.DataSource
	parent *uuid.UUID
	admins []uuid.UUID
}

func seedOrg(t *testing.T, repo *inmemory.Repository, s seed) organization.Organization {
	t.Helper()
	if s.kind == "" {
		s.kind = organization.Normal
	}
	if s.ds.IsZero() {
		s.ds = protectedSource()
	}
	org := organization.New(s.name, s.kind, s.ds, uuid.New())
	org = org.WithParentID(s.parent)
	for _, admin := range s.admins {
		org = org.WithAdminUser(admin)
	}
	saved, err := repo.Save(context.Background(), org)
	require.NoError(t, err)
	return saved
}

func orgIDs(orgs []organization.Organization) map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{}, len(orgs))
	for _, org := range orgs {
		out[org.ID()] = struct{}{}
	}
	return out
}
