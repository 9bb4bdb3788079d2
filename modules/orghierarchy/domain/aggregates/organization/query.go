package organization

import "github.com/google/uuid"

// Query is a composable filter over organizations. Repositories
// interpret the tree: the postgres store compiles it to a WHERE clause,
// the in-memory store evaluates it directly. Ordering of results is
// unspecified; callers compare as sets.
type Query interface {
	isQuery()
}

type AllQuery struct{}

type TypeQuery struct {
	Kind InternalType
}

// UserEditableQuery matches organizations whose data source carries the
// user-editable flag.
type UserEditableQuery struct{}

// SubtreeQuery matches the listed organizations and all of their
// descendants at any depth.
type SubtreeQuery struct {
	RootIDs []uuid.UUID
}

// AdministeredByQuery matches organizations whose admin set contains
// the given user directly (without descendant expansion).
type AdministeredByQuery struct {
	UserID uuid.UUID
}

type AndQuery struct {
	Operands []Query
}

type OrQuery struct {
	Operands []Query
}

func (AllQuery) isQuery()            {}
func (TypeQuery) isQuery()           {}
func (UserEditableQuery) isQuery()   {}
func (SubtreeQuery) isQuery()        {}
func (AdministeredByQuery) isQuery() {}
func (AndQuery) isQuery()            {}
func (OrQuery) isQuery()             {}

func All() Query                       { return AllQuery{} }
func TypeIs(kind InternalType) Query   { return TypeQuery{Kind: kind} }
func UserEditableSource() Query        { return UserEditableQuery{} }
func SubtreeOf(ids ...uuid.UUID) Query { return SubtreeQuery{RootIDs: ids} }
func AdministeredBy(userID uuid.UUID) Query {
	return AdministeredByQuery{UserID: userID}
}
func And(operands ...Query) Query { return AndQuery{Operands: operands} }
func Or(operands ...Query) Query  { return OrQuery{Operands: operands} }

// SubOrganizationQuery is the base filter of the sub-organization view:
// primary-tree nodes plus anything locally editable.
func SubOrganizationQuery() Query {
	return Or(TypeIs(Normal), UserEditableSource())
}

// AffiliatedOrganizationQuery is the base filter of the affiliated
// organization view.
func AffiliatedOrganizationQuery() Query {
	return Or(TypeIs(Affiliated), UserEditableSource())
}
