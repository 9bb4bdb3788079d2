package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/aggregates/organization"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/datasource"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/domain/entities/orgclass"
	"github.com/iota-uz/orghierarchy/modules/orghierarchy/permissions"
	"github.com/iota-uz/orghierarchy/pkg/composables"
	"github.com/iota-uz/orghierarchy/pkg/eventbus"
	"github.com/iota-uz/orghierarchy/pkg/serrors"
)

var (
	ErrParentCycle = serrors.NewError(
		"ORG_PARENT_CYCLE", "parent assignment would create a cycle", "",
	)
	ErrReplacedByCycle = serrors.NewError(
		"ORG_REPLACED_BY_CYCLE", "succession chain would create a cycle", "",
	)
	ErrHasChildren = serrors.NewError(
		"ORG_HAS_CHILDREN", "organization still has child organizations", "",
	)
	ErrHasSuccessor = serrors.NewError(
		"ORG_HAS_SUCCESSOR", "organization has a live successor", "",
	)
)

// OrganizationService owns tree mutations: saves stamp audit users and
// re-validate tree invariants, deletes pass the succession guard first.
type OrganizationService struct {
	repo       organization.Repository
	classes    orgclass.Repository
	dataSource datasource.Provider
	resolver   *PermissionResolver
	publisher  eventbus.EventBus
	logger     *logrus.Entry
}

func NewOrganizationService(
	repo organization.Repository,
	classes orgclass.Repository,
	ds datasource.Provider,
	resolver *PermissionResolver,
	publisher eventbus.EventBus,
	logger *logrus.Entry,
) *OrganizationService {
	if logger == nil {
		logger = logrus.WithField("component", "orghierarchy.service")
	}
	return &OrganizationService{
		repo:       repo,
		classes:    classes,
		dataSource: ds,
		resolver:   resolver,
		publisher:  publisher,
		logger:     logger,
	}
}

// Create validates the DTO and persists a new organization. The acting
// user from the context becomes both created_by and last_modified_by.
func (s *OrganizationService) Create(ctx context.Context, dto *organization.CreateDTO) (organization.Organization, error) {
	if fieldErrs, ok := dto.Ok(ctx); !ok {
		orgSaves.WithLabelValues("invalid").Inc()
		if _, bad := fieldErrs["ClassificationID"]; bad {
			return organization.Organization{}, organization.ErrClassificationRequired
		}
		return organization.Organization{}, validationError(fieldErrs)
	}

	ds, err := s.dataSource.GetByID(ctx, dto.DataSourceID)
	if err != nil {
		orgSaves.WithLabelValues("invalid").Inc()
		return organization.Organization{}, errors.Wrap(err, "resolving data source")
	}
	if _, err := s.classes.GetByID(ctx, dto.ClassificationID); err != nil {
		orgSaves.WithLabelValues("invalid").Inc()
		return organization.Organization{}, errors.Wrap(err, "resolving classification")
	}

	org := dto.ToEntity(ds)
	if user, err := composables.UseUser(ctx); err == nil {
		id := user.ID()
		org = org.WithCreatedBy(&id).WithLastModifiedBy(&id)
	}

	saved, err := s.save(ctx, org)
	if err != nil {
		return organization.Organization{}, err
	}
	orgSaves.WithLabelValues("created").Inc()
	return saved, nil
}

// Update applies the DTO to an existing organization. created_by is
// never touched; last_modified_by becomes the acting user.
func (s *OrganizationService) Update(ctx context.Context, id uuid.UUID, dto *organization.UpdateDTO) (organization.Organization, error) {
	if fieldErrs, ok := dto.Ok(ctx); !ok {
		orgSaves.WithLabelValues("invalid").Inc()
		if _, bad := fieldErrs["ClassificationID"]; bad {
			return organization.Organization{}, organization.ErrClassificationRequired
		}
		return organization.Organization{}, validationError(fieldErrs)
	}

	if _, err := s.classes.GetByID(ctx, dto.ClassificationID); err != nil {
		orgSaves.WithLabelValues("invalid").Inc()
		return organization.Organization{}, errors.Wrap(err, "resolving classification")
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return organization.Organization{}, err
	}

	org := dto.Apply(current)
	if dto.DataSourceID != "" {
		ds, err := s.dataSource.GetByID(ctx, dto.DataSourceID)
		if err != nil {
			orgSaves.WithLabelValues("invalid").Inc()
			return organization.Organization{}, errors.Wrap(err, "resolving data source")
		}
		org = org.WithDataSource(ds)
	}
	if user, err := composables.UseUser(ctx); err == nil {
		uid := user.ID()
		org = org.WithLastModifiedBy(&uid)
	}

	saved, err := s.save(ctx, org)
	if err != nil {
		return organization.Organization{}, err
	}
	orgSaves.WithLabelValues("updated").Inc()
	return saved, nil
}

// Move re-parents an organization, validating against cycles.
func (s *OrganizationService) Move(ctx context.Context, id uuid.UUID, newParentID *uuid.UUID) (organization.Organization, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return organization.Organization{}, err
	}

	org := current.WithParentID(newParentID)
	if user, err := composables.UseUser(ctx); err == nil {
		uid := user.ID()
		org = org.WithLastModifiedBy(&uid)
	}

	saved, err := s.save(ctx, org)
	if err != nil {
		return organization.Organization{}, err
	}
	orgSaves.WithLabelValues("moved").Inc()
	return saved, nil
}

// Delete removes an organization after the succession guard passes.
// The store nulls inbound replaced_by references; nothing cascades.
func (s *OrganizationService) Delete(ctx context.Context, id uuid.UUID) error {
	org, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	children, err := s.repo.Children(ctx, id)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		guardedDeletes.WithLabelValues("children").Inc()
		return ErrHasChildren.WithDetails(org.Name())
	}
	if org.ReplacedByID() != nil {
		guardedDeletes.WithLabelValues("successor").Inc()
		return ErrHasSuccessor.WithDetails(org.Name())
	}

	err = s.atomic(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if s.publisher != nil {
		s.publisher.Publish(OrganizationDeletedEvent{ID: id})
	}
	return nil
}

// CanBulkDelete gates the bulk delete action: only the unscoped delete
// permission (superuser or explicit global grant) exposes it. Scoped
// admin rights never do.
func (s *OrganizationService) CanBulkDelete(ctx context.Context, user organization.User) bool {
	return s.resolver.HasGlobal(ctx, user, permissions.OrganizationDelete)
}

// save validates tree invariants and persists atomically: either the
// field updates and the cycle check both commit, or neither does.
func (s *OrganizationService) save(ctx context.Context, org organization.Organization) (organization.Organization, error) {
	var saved organization.Organization
	err := s.atomic(ctx, func(ctx context.Context) error {
		if err := s.checkParentCycle(ctx, org); err != nil {
			return err
		}
		if err := s.checkReplacedByCycle(ctx, org); err != nil {
			return err
		}
		var err error
		saved, err = s.repo.Save(ctx, org)
		return err
	})
	if err != nil {
		return organization.Organization{}, err
	}
	return saved, nil
}

// checkParentCycle walks the ancestor chain of the proposed parent and
// fails when the organization being saved appears in it. The walk runs
// on every save, so batches of moves are re-verified at each step.
func (s *OrganizationService) checkParentCycle(ctx context.Context, org organization.Organization) error {
	parentID := org.ParentID()
	if parentID == nil {
		return nil
	}
	if *parentID == org.ID() {
		cycleRejections.WithLabelValues("parent").Inc()
		return ErrParentCycle.WithDetails(org.Name())
	}

	seen := map[uuid.UUID]struct{}{org.ID(): {}}
	currentID := *parentID
	for {
		if _, dup := seen[currentID]; dup {
			cycleRejections.WithLabelValues("parent").Inc()
			return ErrParentCycle.WithDetails(org.Name())
		}
		seen[currentID] = struct{}{}

		ancestor, err := s.repo.GetByID(ctx, currentID)
		if err != nil {
			if errors.Is(err, organization.ErrNotFound) {
				return nil
			}
			return err
		}
		next := ancestor.ParentID()
		if next == nil {
			return nil
		}
		currentID = *next
	}
}

// checkReplacedByCycle walks the succession chain from the proposed
// successor; multi-hop loops are rejected the same as direct ones.
func (s *OrganizationService) checkReplacedByCycle(ctx context.Context, org organization.Organization) error {
	nextID := org.ReplacedByID()
	if nextID == nil {
		return nil
	}

	seen := map[uuid.UUID]struct{}{org.ID(): {}}
	currentID := *nextID
	for {
		if _, dup := seen[currentID]; dup {
			cycleRejections.WithLabelValues("replaced_by").Inc()
			return ErrReplacedByCycle.WithDetails(org.Name())
		}
		seen[currentID] = struct{}{}

		successor, err := s.repo.GetByID(ctx, currentID)
		if err != nil {
			if errors.Is(err, organization.ErrNotFound) {
				return nil
			}
			return err
		}
		next := successor.ReplacedByID()
		if next == nil {
			return nil
		}
		currentID = *next
	}
}

// atomic wraps fn in a store transaction when a pool is attached to the
// context; stores without one (the in-memory reference store) provide
// their own atomicity.
func (s *OrganizationService) atomic(ctx context.Context, fn func(context.Context) error) error {
	if _, err := composables.UsePool(ctx); err == nil {
		return composables.InTx(ctx, fn)
	}
	return fn(ctx)
}

func validationError(fieldErrs map[string]string) error {
	out := serrors.ValidationErrors{}
	for field, msg := range fieldErrs {
		out[field] = &serrors.ValidationError{Field: field, Message: msg}
	}
	return out
}
