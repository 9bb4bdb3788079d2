package mappers

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/aggregates/organization"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/presentation/viewmodels"
)

// OrganizationsToTree lays a flat result set out in pre-order with
// computed depth. An organization whose parent is absent from the set
// is treated as a root, so a permission-filtered subtree renders from
// its own top. Affiliated organizations are flagged as highlighted.
func OrganizationsToTree(orgs []organization.Organization, selectedID *uuid.UUID) *viewmodels.OrgTree {
	byID := make(map[uuid.UUID]organization.Organization, len(orgs))
	for _, org := range orgs {
		byID[org.ID()] = org
	}

	childrenByParent := make(map[uuid.UUID][]organization.Organization, len(orgs))
	for _, org := range orgs {
		parentID := uuid.Nil
		if org.ParentID() != nil {
			parentID = *org.ParentID()
		}
		childrenByParent[parentID] = append(childrenByParent[parentID], org)
	}
	for parentID := range childrenByParent {
		sortSiblings(childrenByParent[parentID])
	}

	isRoot := func(org organization.Organization) bool {
		if org.ParentID() == nil || *org.ParentID() == uuid.Nil {
			return true
		}
		_, ok := byID[*org.ParentID()]
		return !ok
	}

	roots := make([]organization.Organization, 0, 8)
	for _, org := range orgs {
		if isRoot(org) {
			roots = append(roots, org)
		}
	}
	sortSiblings(roots)

	out := make([]viewmodels.OrgTreeNode, 0, len(orgs))
	visited := make(map[uuid.UUID]struct{}, len(orgs))
	var walk func(org organization.Organization, depth int)
	walk = func(org organization.Organization, depth int) {
		if _, ok := visited[org.ID()]; ok {
			return
		}
		visited[org.ID()] = struct{}{}

		selected := selectedID != nil && *selectedID == org.ID()
		out = append(out, viewmodels.OrgTreeNode{
			ID:           org.ID(),
			Name:         org.Name(),
			InternalType: string(org.InternalType()),
			DataSource:   org.DataSource().ID(),
			Depth:        depth,
			Highlighted:  org.IsAffiliated(),
			Selected:     selected,
		})

		for _, child := range childrenByParent[org.ID()] {
			walk(child, depth+1)
		}
	}

	for _, root := range roots {
		walk(root, 0)
	}

	// Cycles in stored data would leave nodes unvisited; surface them
	// as extra roots rather than dropping them.
	if len(visited) != len(byID) {
		remaining := make([]organization.Organization, 0, len(byID)-len(visited))
		for _, org := range orgs {
			if _, ok := visited[org.ID()]; ok {
				continue
			}
			remaining = append(remaining, org)
		}
		sortSiblings(remaining)
		for _, org := range remaining {
			walk(org, 0)
		}
	}

	return &viewmodels.OrgTree{Nodes: out}
}

// IndentedTitle renders a node's name shifted right by depth times the
// configured indent width.
func IndentedTitle(node viewmodels.OrgTreeNode, indent int) string {
	if indent < 0 {
		indent = 0
	}
	return strings.Repeat(" ", node.Depth*indent) + node.Name
}

func sortSiblings(siblings []organization.Organization) {
	sort.SliceStable(siblings, func(i, j int) bool {
		ni := strings.TrimSpace(siblings[i].Name())
		nj := strings.TrimSpace(siblings[j].Name())
		if ni != nj {
			return ni < nj
		}
		return siblings[i].ID().String() < siblings[j].ID().String()
	})
}
