package mappers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/aggregates/organization"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/datasource"
)

func node(name string, kind organization.InternalType, parent *uuid.UUID) organization.Organization {
	org := organization.New(name, kind, datasource.New("internal", "Internal", false), uuid.New())
	return org.WithParentID(parent)
}

func TestOrganizationsToTreePreOrder(t *testing.T) {
	root := node("Root", organization.Normal, nil)
	rootID := root.ID()
	a := node("A", organization.Normal, &rootID)
	aID := a.ID()
	a1 := node("A1", organization.Normal, &aID)
	b := node("B", organization.Affiliated, &rootID)

	// Input order is irrelevant; output is pre-order with siblings by name.
	tree := OrganizationsToTree([]organization.Organization{b, a1, root, a}, nil)
	require.Len(t, tree.Nodes, 4)

	require.Equal(t, []uuid.UUID{root.ID(), a.ID(), a1.ID(), b.ID()}, []uuid.UUID{
		tree.Nodes[0].ID, tree.Nodes[1].ID, tree.Nodes[2].ID, tree.Nodes[3].ID,
	})
	require.Equal(t, []int{0, 1, 2, 1}, []int{
		tree.Nodes[0].Depth, tree.Nodes[1].Depth, tree.Nodes[2].Depth, tree.Nodes[3].Depth,
	})
	require.False(t, tree.Nodes[0].Highlighted)
	require.True(t, tree.Nodes[3].Highlighted)
}

func TestOrganizationsToTreeMissingParentBecomesRoot(t *testing.T) {
	missing := uuid.New()
	orphan := node("Orphan", organization.Normal, &missing)

	tree := OrganizationsToTree([]organization.Organization{orphan}, nil)
	require.Len(t, tree.Nodes, 1)
	require.Equal(t, orphan.ID(), tree.Nodes[0].ID)
	require.Equal(t, 0, tree.Nodes[0].Depth)
}

func TestOrganizationsToTreeSelection(t *testing.T) {
	root := node("Root", organization.Normal, nil)
	rootID := root.ID()
	child := node("Child", organization.Normal, &rootID)
	childID := child.ID()

	tree := OrganizationsToTree([]organization.Organization{root, child}, &childID)
	require.False(t, tree.Nodes[0].Selected)
	require.True(t, tree.Nodes[1].Selected)
}

func TestIndentedTitle(t *testing.T) {
	root := node("Root", organization.Normal, nil)
	rootID := root.ID()
	child := node("Child", organization.Normal, &rootID)

	tree := OrganizationsToTree([]organization.Organization{root, child}, nil)
	require.Equal(t, "Root", IndentedTitle(tree.Nodes[0], 4))
	require.Equal(t, "    Child", IndentedTitle(tree.Nodes[1], 4))
	require.Equal(t, "Child", IndentedTitle(tree.Nodes[1], 0))
	require.Equal(t, "Child", IndentedTitle(tree.Nodes[1], -3))
}
