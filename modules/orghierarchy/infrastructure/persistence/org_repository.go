package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/aggregates/organization"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/datasource"
	"github.com/iota-uz/orghierarchy/pkg/composables"
)

// OrgRepository is the postgres-backed record store. Expected tables:
//
//	data_sources(id text pk, name text, user_editable bool)
//	organizations(id uuid pk, name text, internal_type text,
//	    founding_date date, dissolution_date date,
//	    parent_id uuid, replaced_by_id uuid,
//	    data_source_id text, classification_id uuid,
//	    created_by_id uuid, last_modified_by_id uuid,
//	    created_at timestamptz, updated_at timestamptz)
//	organization_admin_users(organization_id uuid, user_id uuid)
//
// replaced_by_id, created_by_id and last_modified_by_id carry
// ON DELETE SET NULL semantics; Delete and RemoveUserReferences also
// null them explicitly so the contract holds without the constraints.
type OrgRepository struct{}

func NewOrgRepository() *OrgRepository {
	return &OrgRepository{}
}

const orgSelect = `
SELECT o.id, o.name, o.internal_type, o.founding_date, o.dissolution_date,
       o.parent_id, o.replaced_by_id,
       ds.id, ds.name, ds.user_editable,
       o.classification_id, o.created_by_id, o.last_modified_by_id,
       o.created_at, o.updated_at,
       COALESCE((
           SELECT array_agg(au.user_id)
           FROM organization_admin_users au
           WHERE au.organization_id = o.id
       ), '{}')
FROM organizations o
JOIN data_sources ds ON ds.id = o.data_source_id
`

func (r *OrgRepository) GetByID(ctx context.Context, id uuid.UUID) (organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return organization.Organization{}, err
	}

	row := tx.QueryRow(ctx, orgSelect+`WHERE o.id = $1`, pgUUID(id))
	org, err := scanOrganization(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return organization.Organization{}, organization.ErrNotFound.WithDetails(id.String())
		}
		return organization.Organization{}, err
	}
	return org, nil
}

func (r *OrgRepository) Find(ctx context.Context, q organization.Query) ([]organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	if q == nil {
		q = organization.All()
	}

	args := []any{}
	where, err := compileQuery(q, &args)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, orgSelect+`WHERE `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrganizations(rows)
}

func (r *OrgRepository) Children(ctx context.Context, id uuid.UUID) ([]organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, orgSelect+`WHERE o.parent_id = $1`, pgUUID(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrganizations(rows)
}

func (r *OrgRepository) Ancestors(ctx context.Context, id uuid.UUID) ([]organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
WITH RECURSIVE chain AS (
	SELECT o.id, o.parent_id, 1 AS depth
	FROM organizations o
	WHERE o.id = (SELECT parent_id FROM organizations WHERE id = $1)
	UNION ALL
	SELECT o.id, o.parent_id, c.depth + 1
	FROM organizations o
	JOIN chain c ON o.id = c.parent_id
)
`+orgSelect+`JOIN chain c ON c.id = o.id
ORDER BY c.depth
`, pgUUID(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrganizations(rows)
}

func (r *OrgRepository) Save(ctx context.Context, org organization.Organization) (organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return organization.Organization{}, err
	}

	now := time.Now().UTC()
	var createdAt time.Time
	err = tx.QueryRow(ctx, `
INSERT INTO organizations (
	id, name, internal_type, founding_date, dissolution_date,
	parent_id, replaced_by_id, data_source_id, classification_id,
	created_by_id, last_modified_by_id, created_at, updated_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$12)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	internal_type = EXCLUDED.internal_type,
	founding_date = EXCLUDED.founding_date,
	dissolution_date = EXCLUDED.dissolution_date,
	parent_id = EXCLUDED.parent_id,
	replaced_by_id = EXCLUDED.replaced_by_id,
	data_source_id = EXCLUDED.data_source_id,
	classification_id = EXCLUDED.classification_id,
	last_modified_by_id = EXCLUDED.last_modified_by_id,
	updated_at = EXCLUDED.updated_at
RETURNING created_at
`,
		pgUUID(org.ID()),
		org.Name(),
		string(org.InternalType()),
		org.FoundingDate(),
		org.DissolutionDate(),
		pgNullableUUID(org.ParentID()),
		pgNullableUUID(org.ReplacedByID()),
		org.DataSource().ID(),
		pgUUID(org.ClassificationID()),
		pgNullableUUID(org.CreatedByID()),
		pgNullableUUID(org.LastModifiedByID()),
		now,
	).Scan(&createdAt)
	if err != nil {
		return organization.Organization{}, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM organization_admin_users WHERE organization_id = $1`, pgUUID(org.ID())); err != nil {
		return organization.Organization{}, err
	}
	for _, userID := range org.AdminUserIDs() {
		if _, err := tx.Exec(ctx, `
INSERT INTO organization_admin_users (organization_id, user_id) VALUES ($1, $2)
`, pgUUID(org.ID()), pgUUID(userID)); err != nil {
			return organization.Organization{}, err
		}
	}

	return org.WithTimestamps(createdAt, now), nil
}

func (r *OrgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE organizations SET replaced_by_id = NULL WHERE replaced_by_id = $1`, pgUUID(id)); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM organization_admin_users WHERE organization_id = $1`, pgUUID(id)); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, pgUUID(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return organization.ErrNotFound.WithDetails(id.String())
	}
	return nil
}

func (r *OrgRepository) SuccessorSources(ctx context.Context, id uuid.UUID) ([]organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, orgSelect+`WHERE o.replaced_by_id = $1`, pgUUID(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrganizations(rows)
}

func (r *OrgRepository) RemoveUserReferences(ctx context.Context, userID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE organizations SET created_by_id = NULL WHERE created_by_id = $1`, pgUUID(userID)); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE organizations SET last_modified_by_id = NULL WHERE last_modified_by_id = $1`, pgUUID(userID)); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM organization_admin_users WHERE user_id = $1`, pgUUID(userID)); err != nil {
		return err
	}
	return nil
}

// compileQuery renders a query tree as a WHERE clause with positional
// arguments appended to args.
func compileQuery(q organization.Query, args *[]any) (string, error) {
	switch query := q.(type) {
	case organization.AllQuery:
		return "TRUE", nil
	case organization.TypeQuery:
		*args = append(*args, string(query.Kind))
		return fmt.Sprintf("o.internal_type = $%d", len(*args)), nil
	case organization.UserEditableQuery:
		return "ds.user_editable", nil
	case organization.AdministeredByQuery:
		*args = append(*args, pgUUID(query.UserID))
		return fmt.Sprintf(`EXISTS (
			SELECT 1 FROM organization_admin_users au
			WHERE au.organization_id = o.id AND au.user_id = $%d
		)`, len(*args)), nil
	case organization.SubtreeQuery:
		if len(query.RootIDs) == 0 {
			return "FALSE", nil
		}
		*args = append(*args, pgUUIDArray(query.RootIDs))
		return fmt.Sprintf(`o.id IN (
			WITH RECURSIVE subtree AS (
				SELECT id FROM organizations WHERE id = ANY($%d)
				UNION ALL
				SELECT c.id FROM organizations c JOIN subtree s ON c.parent_id = s.id
			)
			SELECT id FROM subtree
		)`, len(*args)), nil
	case organization.AndQuery:
		return compileOperands(query.Operands, " AND ", "TRUE", args)
	case organization.OrQuery:
		return compileOperands(query.Operands, " OR ", "FALSE", args)
	default:
		return "", fmt.Errorf("persistence: unsupported query %T", q)
	}
}

func compileOperands(operands []organization.Query, sep, empty string, args *[]any) (string, error) {
	if len(operands) == 0 {
		return empty, nil
	}
	parts := make([]string, 0, len(operands))
	for _, operand := range operands {
		part, err := compileQuery(operand, args)
		if err != nil {
			return "", err
		}
		parts = append(parts, "("+part+")")
	}
	return strings.Join(parts, sep), nil
}

func scanOrganizations(rows pgx.Rows) ([]organization.Organization, error) {
	out := []organization.Organization{}
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, org)
	}
	return out, rows.Err()
}

func scanOrganization(row pgx.Row) (organization.Organization, error) {
	var (
		id               pgtype.UUID
		name             string
		internalType     string
		foundingDate     pgtype.Date
		dissolutionDate  pgtype.Date
		parentID         pgtype.UUID
		replacedByID     pgtype.UUID
		dsID             string
		dsName           string
		dsUserEditable   bool
		classificationID pgtype.UUID
		createdByID      pgtype.UUID
		lastModifiedByID pgtype.UUID
		createdAt        pgtype.Timestamptz
		updatedAt        pgtype.Timestamptz
		adminUserIDs     []uuid.UUID
	)

	if err := row.Scan(
		&id, &name, &internalType, &foundingDate, &dissolutionDate,
		&parentID, &replacedByID,
		&dsID, &dsName, &dsUserEditable,
		&classificationID, &createdByID, &lastModifiedByID,
		&createdAt, &updatedAt, &adminUserIDs,
	); err != nil {
		return organization.Organization{}, err
	}

	return organization.Hydrate(
		asUUID(id),
		name,
		organization.InternalType(internalType),
		nullableDate(foundingDate),
		nullableDate(dissolutionDate),
		nullableUUID(parentID),
		nullableUUID(replacedByID),
		datasource.Hydrate(dsID, dsName, dsUserEditable),
		asUUID(classificationID),
		adminUserIDs,
		nullableUUID(createdByID),
		nullableUUID(lastModifiedByID),
		asTime(createdAt),
		asTime(updatedAt),
	), nil
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func pgUUIDArray(ids []uuid.UUID) pgtype.FlatArray[uuid.UUID] {
	return pgtype.FlatArray[uuid.UUID](ids)
}

func pgNullableUUID(id *uuid.UUID) pgtype.UUID {
	if id == nil || *id == uuid.Nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

func asUUID(v pgtype.UUID) uuid.UUID {
	if !v.Valid {
		return uuid.Nil
	}
	return uuid.UUID(v.Bytes)
}

func nullableUUID(v pgtype.UUID) *uuid.UUID {
	if !v.Valid {
		return nil
	}
	u := uuid.UUID(v.Bytes)
	return &u
}

func nullableDate(v pgtype.Date) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func asTime(v pgtype.Timestamptz) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return v.Time
}
