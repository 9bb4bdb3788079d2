package organization

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/datasource"
)

type InternalType string

const (
	Normal     InternalType = "normal"
	Affiliated InternalType = "affiliated"
)

// Form field identifiers, as exposed to the presentation layer through
// readonly-field computations.
const (
	FieldName            = "name"
	FieldFoundingDate    = "founding_date"
	FieldDissolutionDate = "dissolution_date"
	FieldInternalType    = "internal_type"
	FieldParent          = "parent"
	FieldReplacedBy      = "replaced_by"
	FieldDataSource      = "data_source"
	FieldClassification  = "classification"
	FieldCreatedBy       = "created_by"
	FieldLastModifiedBy  = "last_modified_by"
)

// User is the minimal view of the hosting application's user the core
// needs. Everything else about users stays outside this module.
type User interface {
	ID() uuid.UUID
	IsSuperuser() bool
}

// Organization is a node in the administrative forest. Parent links
// form the tree; ReplacedBy marks succession.
type Organization struct {
	id               uuid.UUID
	name             string
	internalType     InternalType
	foundingDate     *time.Time
	dissolutionDate  *time.Time
	parentID         *uuid.UUID
	replacedByID     *uuid.UUID
	dataSource       datasource.DataSource
	classificationID uuid.UUID
	adminUserIDs     map[uuid.UUID]struct{}
	createdByID      *uuid.UUID
	lastModifiedByID *uuid.UUID
	createdAt        time.Time
	updatedAt        time.Time
}

func New(name string, internalType InternalType, ds datasource.DataSource, classificationID uuid.UUID) Organization {
	return Organization{
		id:               uuid.New(),
		name:             strings.TrimSpace(name),
		internalType:     internalType,
		dataSource:       ds,
		classificationID: classificationID,
		adminUserIDs:     map[uuid.UUID]struct{}{},
	}
}

func Hydrate(
	id uuid.UUID,
	name string,
	internalType InternalType,
	foundingDate *time.Time,
	dissolutionDate *time.Time,
	parentID *uuid.UUID,
	replacedByID *uuid.UUID,
	ds datasource.DataSource,
	classificationID uuid.UUID,
	adminUserIDs []uuid.UUID,
	createdByID *uuid.UUID,
	lastModifiedByID *uuid.UUID,
	createdAt time.Time,
	updatedAt time.Time,
) Organization {
	admins := make(map[uuid.UUID]struct{}, len(adminUserIDs))
	for _, uid := range adminUserIDs {
		admins[uid] = struct{}{}
	}
	return Organization{
		id:               id,
		name:             strings.TrimSpace(name),
		internalType:     internalType,
		foundingDate:     foundingDate,
		dissolutionDate:  dissolutionDate,
		parentID:         parentID,
		replacedByID:     replacedByID,
		dataSource:       ds,
		classificationID: classificationID,
		adminUserIDs:     admins,
		createdByID:      createdByID,
		lastModifiedByID: lastModifiedByID,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func (o Organization) ID() uuid.UUID                     { return o.id }
func (o Organization) Name() string                      { return o.name }
func (o Organization) InternalType() InternalType        { return o.internalType }
func (o Organization) FoundingDate() *time.Time          { return o.foundingDate }
func (o Organization) DissolutionDate() *time.Time       { return o.dissolutionDate }
func (o Organization) ParentID() *uuid.UUID              { return o.parentID }
func (o Organization) ReplacedByID() *uuid.UUID          { return o.replacedByID }
func (o Organization) DataSource() datasource.DataSource { return o.dataSource }
func (o Organization) ClassificationID() uuid.UUID       { return o.classificationID }
func (o Organization) CreatedByID() *uuid.UUID           { return o.createdByID }
func (o Organization) LastModifiedByID() *uuid.UUID      { return o.lastModifiedByID }
func (o Organization) CreatedAt() time.Time              { return o.createdAt }
func (o Organization) UpdatedAt() time.Time              { return o.updatedAt }
func (o Organization) IsZero() bool                      { return o.id == uuid.Nil }

func (o Organization) IsAffiliated() bool { return o.internalType == Affiliated }

// UserEditable reports whether the record's data source relaxes
// field-level protection.
func (o Organization) UserEditable() bool { return o.dataSource.UserEditable() }

func (o Organization) AdminUserIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(o.adminUserIDs))
	for uid := range o.adminUserIDs {
		out = append(out, uid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func (o Organization) HasAdminUser(userID uuid.UUID) bool {
	_, ok := o.adminUserIDs[userID]
	return ok
}

// Copy-on-write mutators; the receiver is never modified.

func (o Organization) WithName(name string) Organization {
	out := o.clone()
	out.name = strings.TrimSpace(name)
	return out
}

func (o Organization) WithInternalType(t InternalType) Organization {
	out := o.clone()
	out.internalType = t
	return out
}

func (o Organization) WithParentID(parentID *uuid.UUID) Organization {
	out := o.clone()
	out.parentID = copyID(parentID)
	return out
}

func (o Organization) WithReplacedByID(replacedByID *uuid.UUID) Organization {
	out := o.clone()
	out.replacedByID = copyID(replacedByID)
	return out
}

func (o Organization) WithDataSource(ds datasource.DataSource) Organization {
	out := o.clone()
	out.dataSource = ds
	return out
}

func (o Organization) WithClassificationID(id uuid.UUID) Organization {
	out := o.clone()
	out.classificationID = id
	return out
}

func (o Organization) WithFoundingDate(t *time.Time) Organization {
	out := o.clone()
	out.foundingDate = copyTime(t)
	return out
}

func (o Organization) WithDissolutionDate(t *time.Time) Organization {
	out := o.clone()
	out.dissolutionDate = copyTime(t)
	return out
}

func (o Organization) WithAdminUser(userID uuid.UUID) Organization {
	out := o.clone()
	out.adminUserIDs[userID] = struct{}{}
	return out
}

func (o Organization) WithoutAdminUser(userID uuid.UUID) Organization {
	out := o.clone()
	delete(out.adminUserIDs, userID)
	return out
}

func (o Organization) WithCreatedBy(userID *uuid.UUID) Organization {
	out := o.clone()
	out.createdByID = copyID(userID)
	return out
}

func (o Organization) WithLastModifiedBy(userID *uuid.UUID) Organization {
	out := o.clone()
	out.lastModifiedByID = copyID(userID)
	return out
}

func (o Organization) WithTimestamps(createdAt, updatedAt time.Time) Organization {
	out := o.clone()
	out.createdAt = createdAt
	out.updatedAt = updatedAt
	return out
}

func (o Organization) clone() Organization {
	admins := make(map[uuid.UUID]struct{}, len(o.adminUserIDs))
	for uid := range o.adminUserIDs {
		admins[uid] = struct{}{}
	}
	out := o
	out.adminUserIDs = admins
	out.foundingDate = copyTime(o.foundingDate)
	out.dissolutionDate = copyTime(o.dissolutionDate)
	out.parentID = copyID(o.parentID)
	out.replacedByID = copyID(o.replacedByID)
	out.createdByID = copyID(o.createdByID)
	out.lastModifiedByID = copyID(o.lastModifiedByID)
	return out
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
