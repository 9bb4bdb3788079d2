package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/orgclass"
)

// ClassificationRepository is the map-backed classification store.
type ClassificationRepository struct {
	mu      sync.RWMutex
	classes map[uuid.UUID]orgclass.OrganizationClass
}

func NewClassificationRepository() *ClassificationRepository {
	return &ClassificationRepository{classes: map[uuid.UUID]orgclass.OrganizationClass{}}
}

func (r *ClassificationRepository) GetByID(ctx context.Context, id uuid.UUID) (orgclass.OrganizationClass, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	class, ok := r.classes[id]
	if !ok {
		return orgclass.OrganizationClass{}, orgclass.ErrNotFound.WithDetails(id.String())
	}
	return class, nil
}

func (r *ClassificationRepository) All(ctx context.Context) ([]orgclass.OrganizationClass, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]orgclass.OrganizationClass, 0, len(r.classes))
	for _, class := range r.classes {
		out = append(out, class)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (r *ClassificationRepository) Save(ctx context.Context, class orgclass.OrganizationClass) (orgclass.OrganizationClass, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[class.ID()] = class
	return class, nil
}
