package orgclass

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/iota-uz/orghierarchy/pkg/serrors"
)

var ErrNotFound = serrors.NewError("ORG_CLASS_NOT_FOUND", "organization classification not found", "")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (OrganizationClass, error)
	All(ctx context.Context) ([]OrganizationClass, error)
	Save(ctx context.Context, class OrganizationClass) (OrganizationClass, error)
}

// OrganizationClass tags an organization with a classification. The
// core requires it for persistence but treats it as opaque.
type OrganizationClass struct {
	id   uuid.UUID
	name string
}

func New(name string) OrganizationClass {
	return OrganizationClass{
		id:   uuid.New(),
		name: strings.TrimSpace(name),
	}
}

func Hydrate(id uuid.UUID, name string) OrganizationClass {
	return OrganizationClass{id: id, name: strings.TrimSpace(name)}
}

func (c OrganizationClass) ID() uuid.UUID { return c.id }
func (c OrganizationClass) Name() string  { return c.name }
func (c OrganizationClass) IsZero() bool  { return c.id == uuid.Nil }
