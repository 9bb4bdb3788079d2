package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/orgclass"
	"github.com/iota-uz/orghierarchy/pkg/composables"
)

// ClassificationRepository reads classifications from the
// organization_classes table (id uuid pk, name text).
type ClassificationRepository struct{}

func NewClassificationRepository() *ClassificationRepository {
	return &ClassificationRepository{}
}

func (r *ClassificationRepository) GetByID(ctx context.Context, id uuid.UUID) (orgclass.OrganizationClass, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return orgclass.OrganizationClass{}, err
	}

	var name string
	err = tx.QueryRow(ctx, `
SELECT name FROM organization_classes WHERE id = $1
`, pgUUID(id)).Scan(&name)
	if err != nil {
		if err == pgx.ErrNoRows {
			return orgclass.OrganizationClass{}, orgclass.ErrNotFound.WithDetails(id.String())
		}
		return orgclass.OrganizationClass{}, err
	}
	return orgclass.Hydrate(id, name), nil
}

func (r *ClassificationRepository) All(ctx context.Context) ([]orgclass.OrganizationClass, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT id, name FROM organization_classes ORDER BY name
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []orgclass.OrganizationClass{}
	for rows.Next() {
		var (
			id   uuid.UUID
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out = append(out, orgclass.Hydrate(id, name))
	}
	return out, rows.Err()
}

func (r *ClassificationRepository) Save(ctx context.Context, class orgclass.OrganizationClass) (orgclass.OrganizationClass, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return orgclass.OrganizationClass{}, err
	}

	_, err = tx.Exec(ctx, `
INSERT INTO organization_classes (id, name) VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
`, pgUUID(class.ID()), class.Name())
	if err != nil {
		return orgclass.OrganizationClass{}, err
	}
	return class, nil
}
