package viewmodels

import "github.com/google/uuid"

type OrgTreeNode struct {
	ID           uuid.UUID
	Name         string
	InternalType string
	DataSource   string
	Depth        int
	Highlighted  bool
	Selected     bool
}

type OrgTree struct {
	Nodes []OrgTreeNode
}
