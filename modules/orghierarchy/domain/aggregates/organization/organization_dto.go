package organization

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/datasource"
	"github.com/iota-uz/orghierarchy/pkg/constants"
	"github.com/iota-uz/orghierarchy/pkg/serrors"
)

var ErrClassificationRequired = serrors.NewError(
	"ORG_CLASSIFICATION_REQUIRED", "organization classification is required", "",
)

type CreateDTO struct {
	Name             string     `validate:"required"`
	InternalType     string     `validate:"required,oneof=normal affiliated"`
	DataSourceID     string     `validate:"required"`
	ClassificationID uuid.UUID  `validate:"required"`
	ParentID         *uuid.UUID `validate:"-"`
	FoundingDate     *time.Time `validate:"-"`
	DissolutionDate  *time.Time `validate:"-"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.InternalType = strings.ToLower(strings.TrimSpace(d.InternalType))
}

// Ok validates the DTO and returns per-field messages. A missing
// classification is reported the same way the save path reports it so
// callers can surface a single error shape.
func (d *CreateDTO) Ok(ctx context.Context) (map[string]string, bool) {
	d.Normalize()

	errs := constants.Validate.Struct(d)
	if errs == nil {
		return map[string]string{}, true
	}

	out := map[string]string{}
	for _, err := range errs.(validator.ValidationErrors) {
		out[err.Field()] = validationMessage(err)
	}
	return out, false
}

// ToEntity builds an unsaved organization from the DTO. Callers must
// have checked Ok first.
func (d *CreateDTO) ToEntity(ds datasource.DataSource) Organization {
	org := New(d.Name, InternalType(d.InternalType), ds, d.ClassificationID)
	org = org.WithParentID(d.ParentID)
	org = org.WithFoundingDate(d.FoundingDate)
	org = org.WithDissolutionDate(d.DissolutionDate)
	return org
}

// UpdateDTO carries every field the change permission unlocks. The
// zero values of InternalType and DataSourceID mean "leave unchanged";
// the data source identifier is resolved by the service, not here.
type UpdateDTO struct {
	Name             string     `validate:"required"`
	InternalType     string     `validate:"omitempty,oneof=normal affiliated"`
	DataSourceID     string     `validate:"-"`
	ClassificationID uuid.UUID  `validate:"required"`
	ParentID         *uuid.UUID `validate:"-"`
	ReplacedByID     *uuid.UUID `validate:"-"`
	FoundingDate     *time.Time `validate:"-"`
	DissolutionDate  *time.Time `validate:"-"`
}

func (d *UpdateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.InternalType = strings.ToLower(strings.TrimSpace(d.InternalType))
	d.DataSourceID = strings.TrimSpace(d.DataSourceID)
}

func (d *UpdateDTO) Ok(ctx context.Context) (map[string]string, bool) {
	d.Normalize()

	errs := constants.Validate.Struct(d)
	if errs == nil {
		return map[string]string{}, true
	}

	out := map[string]string{}
	for _, err := range errs.(validator.ValidationErrors) {
		out[err.Field()] = validationMessage(err)
	}
	return out, false
}

// Apply copies the DTO onto an existing organization. An empty
// InternalType keeps the current one; DataSourceID is applied by the
// caller after resolving it against the provider.
func (d *UpdateDTO) Apply(org Organization) Organization {
	out := org.WithName(d.Name)
	if d.InternalType != "" {
		out = out.WithInternalType(InternalType(d.InternalType))
	}
	out = out.WithClassificationID(d.ClassificationID)
	out = out.WithParentID(d.ParentID)
	out = out.WithReplacedByID(d.ReplacedByID)
	out = out.WithFoundingDate(d.FoundingDate)
	out = out.WithDissolutionDate(d.DissolutionDate)
	return out
}

func validationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
	default:
		return fmt.Sprintf("%s is invalid", err.Field())
	}
}
