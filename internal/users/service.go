package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/teamdesk/calldesk-backend/internal/calls"
	"github.com/teamdesk/calldesk-backend/pkg/db"
	"github.com/teamdesk/calldesk-backend/pkg/db/models"
	"github.com/teamdesk/calldesk-backend/pkg/enums"
	pkgerrors "github.com/teamdesk/calldesk-backend/pkg/errors"
)

// TableName is the logical table announced on the realtime feed when users
// change.
const TableName = "users"

// DeletedSuffix is appended to requester names when the member behind
// them is removed, so historical rows keep a readable origin.
const DeletedSuffix = " (deleted)"

type requesterRewriter interface {
	RewriteRequester(ctx context.Context, oldName, newName string) (int64, error)
}

type changePublisher interface {
	PublishTableChange(ctx context.Context, table string)
}

// Service defines the team member operations exposed to controllers.
type Service interface {
	List(ctx context.Context) ([]UserDTO, error)
	Get(ctx context.Context, name string) (*UserDTO, error)
	Upsert(ctx context.Context, input UpsertInput) (*UserDTO, error)
	BulkUpsert(ctx context.Context, inputs []UpsertInput) ([]UserDTO, error)
	Update(ctx context.Context, name string, patch UpdateInput) (*UserDTO, error)
	Delete(ctx context.Context, name string) error
	UpdateAvailability(ctx context.Context, name string, availability enums.Availability) (*UserDTO, error)
	UpdatePassword(ctx context.Context, name, password string) error
	UpdateNonWorkingDays(ctx context.Context, name string, days []string) (*UserDTO, error)
	UpdateComment(ctx context.Context, name, comment string) (*UserDTO, error)

	// Directory is the read surface other services depend on.
	FindByName(ctx context.Context, name string) (*models.User, error)
	ListModels(ctx context.Context) ([]models.User, error)
}

type service struct {
	repo   Repository
	calls  requesterRewriter
	events changePublisher
	now    func() time.Time
}

// NewService builds the users service. events may be nil when no realtime
// feed is attached.
func NewService(repo Repository, calls requesterRewriter, events changePublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if calls == nil {
		return nil, fmt.Errorf("requester rewriter required")
	}
	return &service{
		repo:   repo,
		calls:  calls,
		events: events,
		now:    time.Now,
	}, nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing users")
	}
	return ToDTOs(rows), nil
}

func (s *service) Get(ctx context.Context, name string) (*UserDTO, error) {
	user, err := s.find(ctx, name)
	if err != nil {
		return nil, err
	}
	dto := ToDTO(user)
	return &dto, nil
}

func (s *service) Upsert(ctx context.Context, input UpsertInput) (*UserDTO, error) {
	row, err := rowFromUpsertInput(input)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.Upsert(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving user")
	}
	s.publish(ctx)
	dto := ToDTO(saved)
	return &dto, nil
}

func (s *service) BulkUpsert(ctx context.Context, inputs []UpsertInput) ([]UserDTO, error) {
	out := make([]UserDTO, 0, len(inputs))
	for _, input := range inputs {
		row, err := rowFromUpsertInput(input)
		if err != nil {
			return nil, err
		}
		saved, err := s.repo.Upsert(ctx, row)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving user")
		}
		out = append(out, ToDTO(saved))
	}
	s.publish(ctx)
	return out, nil
}

func (s *service) Update(ctx context.Context, name string, patch UpdateInput) (*UserDTO, error) {
	if _, err := s.find(ctx, name); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if patch.IsAdmin != nil {
		updates["is_admin"] = *patch.IsAdmin
	}
	if patch.IsLinePrechecker != nil {
		updates["is_line_prechecker"] = *patch.IsLinePrechecker
	}
	if patch.IsSuperAdmin != nil {
		updates["is_super_admin"] = *patch.IsSuperAdmin
	}
	if patch.ProfilePicture != nil {
		updates["profile_picture"] = *patch.ProfilePicture
	}
	if patch.Availability != nil {
		if !patch.Availability.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid availability %q", *patch.Availability))
		}
		updates["availability_status"] = string(*patch.Availability)
	}
	if patch.NonWorkingDays != nil {
		updates["non_working_days"] = pq.StringArray(*patch.NonWorkingDays)
	}
	if patch.AvailableProducts != nil {
		updates["available_products"] = pq.StringArray(*patch.AvailableProducts)
	}
	if patch.Comment != nil {
		now := s.now()
		updates["comment"] = *patch.Comment
		updates["comment_updated_at"] = &now
	}

	if err := s.repo.Update(ctx, name, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating user")
	}
	s.publish(ctx)
	return s.Get(ctx, name)
}

// Delete removes the member and rewrites requester fields on their call
// requests to "<name> (deleted)" instead of cascading.
func (s *service) Delete(ctx context.Context, name string) error {
	if _, err := s.find(ctx, name); err != nil {
		return err
	}
	rewritten, err := s.calls.RewriteRequester(ctx, name, name+DeletedSuffix)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rewriting requester names")
	}
	if err := s.repo.Delete(ctx, name); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting user")
	}
	s.publish(ctx)
	if rewritten > 0 {
		s.publishTable(ctx, calls.TableName)
	}
	return nil
}

func (s *service) UpdateAvailability(ctx context.Context, name string, availability enums.Availability) (*UserDTO, error) {
	return s.Update(ctx, name, UpdateInput{Availability: &availability})
}

func (s *service) UpdatePassword(ctx context.Context, name, password string) error {
	if _, err := s.find(ctx, name); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, name, map[string]any{"password": password}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating password")
	}
	return nil
}

func (s *service) UpdateNonWorkingDays(ctx context.Context, name string, days []string) (*UserDTO, error) {
	return s.Update(ctx, name, UpdateInput{NonWorkingDays: &days})
}

func (s *service) UpdateComment(ctx context.Context, name, comment string) (*UserDTO, error) {
	return s.Update(ctx, name, UpdateInput{Comment: &comment})
}

func (s *service) FindByName(ctx context.Context, name string) (*models.User, error) {
	return s.repo.FindByName(ctx, name)
}

func (s *service) ListModels(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

func (s *service) find(ctx context.Context, name string) (*models.User, error) {
	user, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	return user, nil
}

func (s *service) publish(ctx context.Context) {
	s.publishTable(ctx, TableName)
}

func (s *service) publishTable(ctx context.Context, table string) {
	if s.events == nil {
		return
	}
	s.events.PublishTableChange(ctx, table)
}

func rowFromUpsertInput(input UpsertInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user name is required")
	}
	availability := input.Availability
	if availability == "" {
		availability = enums.AvailabilityAvailable
	}
	if !availability.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid availability %q", availability))
	}
	return &models.User{
		Name:              name,
		IsAdmin:           input.IsAdmin,
		IsLinePrechecker:  input.IsLinePrechecker,
		IsSuperAdmin:      input.IsSuperAdmin,
		Password:          input.Password,
		ProfilePicture:    input.ProfilePicture,
		Availability:      availability,
		NonWorkingDays:    pq.StringArray(input.NonWorkingDays),
		AvailableProducts: pq.StringArray(input.AvailableProducts),
		Comment:           input.Comment,
	}, nil
}
