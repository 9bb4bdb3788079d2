package organization

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/orghierarchy/pkg/serrors"
)

var (
	ErrNotFound = serrors.NewError("ORG_NOT_FOUND", "organization not found", "")
)

// Repository is the record-store port the core consumes. Implementations
// must provide atomic saves and "set null" semantics when referenced
// records disappear: deleting an organization nulls inbound replaced_by
// pointers, deleting a user nulls created_by/last_modified_by stamps.
// Neither ever cascades.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Organization, error)
	Find(ctx context.Context, q Query) ([]Organization, error)
	Children(ctx context.Context, id uuid.UUID) ([]Organization, error)
	// Ancestors returns the parent chain nearest-first, excluding the
	// organization itself.
	Ancestors(ctx context.Context, id uuid.UUID) ([]Organization, error)
	Save(ctx context.Context, org Organization) (Organization, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// SuccessorSources returns organizations whose replaced_by points at id.
	SuccessorSources(ctx context.Context, id uuid.UUID) ([]Organization, error)
	// RemoveUserReferences nulls created_by/last_modified_by stamps and
	// admin memberships held by the given user.
	RemoveUserReferences(ctx context.Context, userID uuid.UUID) error
}
