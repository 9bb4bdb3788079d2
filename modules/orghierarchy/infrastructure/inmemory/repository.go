package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/aggregates/organization"
)

// Repository is the reference record store: a process-local map with
// the same contract as the postgres store, including "set null"
// reference semantics. Saves swap complete copies, so a failed
// validation never leaves partial state behind.
type Repository struct {
	mu   sync.RWMutex
	orgs map[uuid.UUID]organization.Organization
}

func NewRepository() *Repository {
	return &Repository{orgs: map[uuid.UUID]organization.Organization{}}
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (organization.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	org, ok := r.orgs[id]
	if !ok {
		return organization.Organization{}, organization.ErrNotFound.WithDetails(id.String())
	}
	return org, nil
}

func (r *Repository) Find(ctx context.Context, q organization.Query) ([]organization.Organization, error) {
	if q == nil {
		q = organization.All()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []organization.Organization{}
	for _, org := range r.orgs {
		if r.matches(org, q) {
			out = append(out, org)
		}
	}
	return out, nil
}

func (r *Repository) Children(ctx context.Context, id uuid.UUID) ([]organization.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []organization.Organization{}
	for _, org := range r.orgs {
		if parentID := org.ParentID(); parentID != nil && *parentID == id {
			out = append(out, org)
		}
	}
	return out, nil
}

func (r *Repository) Ancestors(ctx context.Context, id uuid.UUID) ([]organization.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []organization.Organization{}
	seen := map[uuid.UUID]struct{}{id: {}}
	current, ok := r.orgs[id]
	if !ok {
		return out, nil
	}
	for {
		parentID := current.ParentID()
		if parentID == nil {
			return out, nil
		}
		if _, dup := seen[*parentID]; dup {
			// Defensive stop; the service rejects cycles before they persist.
			return out, nil
		}
		parent, ok := r.orgs[*parentID]
		if !ok {
			return out, nil
		}
		out = append(out, parent)
		seen[*parentID] = struct{}{}
		current = parent
	}
}

func (r *Repository) Save(ctx context.Context, org organization.Organization) (organization.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.orgs[org.ID()]; ok {
		org = org.WithTimestamps(existing.CreatedAt(), now)
	} else {
		org = org.WithTimestamps(now, now)
	}
	r.orgs[org.ID()] = org
	return org, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orgs[id]; !ok {
		return organization.ErrNotFound.WithDetails(id.String())
	}
	delete(r.orgs, id)

	// Inbound succession pointers are nulled, never cascaded.
	for oid, org := range r.orgs {
		if rb := org.ReplacedByID(); rb != nil && *rb == id {
			r.orgs[oid] = org.WithReplacedByID(nil)
		}
	}
	return nil
}

func (r *Repository) SuccessorSources(ctx context.Context, id uuid.UUID) ([]organization.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []organization.Organization{}
	for _, org := range r.orgs {
		if rb := org.ReplacedByID(); rb != nil && *rb == id {
			out = append(out, org)
		}
	}
	return out, nil
}

func (r *Repository) RemoveUserReferences(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, org := range r.orgs {
		changed := org
		if cb := changed.CreatedByID(); cb != nil && *cb == userID {
			changed = changed.WithCreatedBy(nil)
		}
		if lm := changed.LastModifiedByID(); lm != nil && *lm == userID {
			changed = changed.WithLastModifiedBy(nil)
		}
		if changed.HasAdminUser(userID) {
			changed = changed.WithoutAdminUser(userID)
		}
		r.orgs[id] = changed
	}
	return nil
}

func (r *Repository) matches(org organization.Organization, q organization.Query) bool {
	switch query := q.(type) {
	case organization.AllQuery:
		return true
	case organization.TypeQuery:
		return org.InternalType() == query.Kind
	case organization.UserEditableQuery:
		return org.UserEditable()
	case organization.AdministeredByQuery:
		return org.HasAdminUser(query.UserID)
	case organization.SubtreeQuery:
		return r.inSubtree(org, query.RootIDs)
	case organization.AndQuery:
		for _, operand := range query.Operands {
			if !r.matches(org, operand) {
				return false
			}
		}
		return true
	case organization.OrQuery:
		for _, operand := range query.Operands {
			if r.matches(org, operand) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (r *Repository) inSubtree(org organization.Organization, rootIDs []uuid.UUID) bool {
	roots := make(map[uuid.UUID]struct{}, len(rootIDs))
	for _, id := range rootIDs {
		roots[id] = struct{}{}
	}
	if _, ok := roots[org.ID()]; ok {
		return true
	}

	seen := map[uuid.UUID]struct{}{org.ID(): {}}
	current := org
	for {
		parentID := current.ParentID()
		if parentID == nil {
			return false
		}
		if _, ok := roots[*parentID]; ok {
			return true
		}
		if _, dup := seen[*parentID]; dup {
			return false
		}
		seen[*parentID] = struct{}{}
		parent, ok := r.orgs[*parentID]
		if !ok {
			return false
		}
		current = parent
	}
}
