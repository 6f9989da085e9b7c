package calls

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/teamdesk/calldesk-backend/pkg/db"
	"github.com/teamdesk/calldesk-backend/pkg/db/models"
	dbtypes "github.com/teamdesk/calldesk-backend/pkg/db/types"
	"github.com/teamdesk/calldesk-backend/pkg/enums"
	pkgerrors "github.com/teamdesk/calldesk-backend/pkg/errors"
)

// TableName is the logical table announced on the realtime feed when call
// requests change.
const TableName = "call_requests"

// lookAhead is how far an "unavailable" assignee's schedule is checked
// when the requested date is today.
const lookAhead = 2 * time.Hour

type userDirectory interface {
	FindByName(ctx context.Context, name string) (*models.User, error)
	ListModels(ctx context.Context) ([]models.User, error)
}

type changePublisher interface {
	PublishTableChange(ctx context.Context, table string)
}

// Service defines the call request operations exposed to controllers and jobs.
type Service interface {
	List(ctx context.Context) ([]CallDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CallDTO, error)
	Create(ctx context.Context, input CreateInput) (*CallDTO, *Conflict, error)
	BulkCreate(ctx context.Context, inputs []CreateInput) ([]CallDTO, error)
	Update(ctx context.Context, id uuid.UUID, editor string, patch UpdateInput) (*CallDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExpireCompleted(ctx context.Context) (int64, error)
	DuplicateIDs(ctx context.Context) ([]string, error)
	Alerts(ctx context.Context) (*Alerts, error)
}

type service struct {
	repo          Repository
	users         userDirectory
	events        changePublisher
	precheckQueue string
	now           func() time.Time
	loc           *time.Location
}

// NewService builds the call request service. events may be nil when no
// realtime feed is attached (cron worker).
func NewService(repo Repository, users userDirectory, events changePublisher, precheckQueue string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("calls repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user directory required")
	}
	return &service{
		repo:          repo,
		users:         users,
		events:        events,
		precheckQueue: precheckQueue,
		now:           time.Now,
		loc:           time.Local,
	}, nil
}

func (s *service) List(ctx context.Context) ([]CallDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing call requests")
	}
	dtos := ToDTOs(rows)
	SortCalls(dtos)
	return dtos, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CallDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "call request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading call request")
	}
	dto := ToDTO(row)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*CallDTO, *Conflict, error) {
	if err := validateCreateInput(&input); err != nil {
		return nil, nil, err
	}

	if !input.Confirm {
		conflict, err := s.detectConflict(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		if conflict != nil {
			return nil, conflict, nil
		}
	}

	row := rowFromCreateInput(input)
	if row.Status == enums.CallStatusDone {
		now := s.now()
		row.CompletedAt = &now
	}

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating call request")
	}

	s.publish(ctx)
	dto := ToDTO(created)
	return &dto, nil, nil
}

func (s *service) BulkCreate(ctx context.Context, inputs []CreateInput) ([]CallDTO, error) {
	if len(inputs) == 0 {
		return []CallDTO{}, nil
	}
	rows := make([]models.CallRequest, 0, len(inputs))
	for i := range inputs {
		if err := validateCreateInput(&inputs[i]); err != nil {
			return nil, err
		}
		row := rowFromCreateInput(inputs[i])
		row.Imported = true
		rows = append(rows, *row)
	}

	created, err := s.repo.CreateBatch(ctx, rows)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "importing call requests")
	}

	s.publish(ctx)
	return ToDTOs(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, editor string, patch UpdateInput) (*CallDTO, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "call request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading call request")
	}

	updates, changes, err := diffPatch(current, patch)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil && *patch.Status != current.Status {
		switch *patch.Status {
		case enums.CallStatusDone:
			now := s.now()
			updates["completed_at"] = &now
		case enums.CallStatusInProgress:
			updates["completed_at"] = (*time.Time)(nil)
		}
	}

	if len(changes) > 0 {
		entry := dbtypes.EditEntry{
			Editor:    editor,
			Timestamp: s.now(),
			Changes:   changes,
		}
		updates["history"] = current.History.Prepend(entry)
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating call request")
		}
		s.publish(ctx)
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading call request")
	}
	dto := ToDTO(updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "call request not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading call request")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting call request")
	}
	s.publish(ctx)
	return nil
}

// ExpireCompleted drops done requests completed before the start of the
// current local day and returns how many rows went away.
func (s *service) ExpireCompleted(ctx context.Context) (int64, error) {
	now := s.now().In(s.loc)
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	deleted, err := s.repo.DeleteCompletedBefore(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "expiring completed call requests")
	}
	if deleted > 0 {
		s.publish(ctx)
	}
	return deleted, nil
}

func (s *service) DuplicateIDs(ctx context.Context) ([]string, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing call requests")
	}
	return DuplicateCustomerIDs(ToDTOs(rows)), nil
}

func (s *service) Alerts(ctx context.Context) (*Alerts, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing call requests")
	}
	users, err := s.users.ListModels(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing users")
	}

	known := make(map[string]bool, len(users))
	for _, user := range users {
		known[user.Name] = true
	}
	exclude := map[string]bool{}
	for _, row := range rows {
		if !known[row.Assignee] {
			exclude[row.Assignee] = true
		}
	}

	now := s.now().In(s.loc)
	today := now.Format(dateLayout)

	return &Alerts{
		MissingNextMonth: MissingNextMonthSchedule(users, now),
		Overdue:          OverdueByAssignee(ToDTOs(rows), today, exclude),
	}, nil
}

func (s *service) detectConflict(ctx context.Context, input CreateInput) (*Conflict, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing call requests")
	}

	folded := FoldCustomerID(input.CustomerID)
	newIsPrecheck := s.isPrecheckQueue(input.Assignee)
	duplicates := make([]CallDTO, 0)
	for i := range existing {
		row := &existing[i]
		if FoldCustomerID(row.CustomerID) != folded {
			continue
		}
		if s.isPrecheckQueue(row.Assignee) != newIsPrecheck {
			continue
		}
		duplicates = append(duplicates, ToDTO(row))
	}
	if len(duplicates) > 0 {
		return &Conflict{Reason: ConflictDuplicateCustomer, Existing: duplicates}, nil
	}

	if input.Assignee == s.precheckQueue {
		return nil, nil
	}
	assignee, err := s.users.FindByName(ctx, input.Assignee)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading assignee")
	}

	date, timePart := SplitDateTime(input.DateTime)
	for _, day := range assignee.NonWorkingDays {
		if day == date {
			return &Conflict{Reason: ConflictNonWorkingDay}, nil
		}
	}

	// Self-assigned requests never need an availability confirmation.
	if input.Requester == input.Assignee {
		return nil, nil
	}

	now := s.now().In(s.loc)
	today := now.Format(dateLayout)
	if date != today {
		return nil, nil
	}

	switch assignee.Availability {
	case enums.AvailabilityUnavailableToday:
		return &Conflict{Reason: ConflictUnavailableToday}, nil
	case enums.AvailabilityUnavailable:
		if timePart == TokenUrgent || timePart == TokenAfterOK {
			return &Conflict{Reason: ConflictUnavailableSoon}, nil
		}
		if at, ok := ScheduledAt(input.DateTime, s.loc); ok {
			if at.After(now) && !at.After(now.Add(lookAhead)) {
				return &Conflict{Reason: ConflictUnavailableSoon}, nil
			}
		}
	}
	return nil, nil
}

// Duplicate detection classifies a request by where it is routed, not by
// its rank: only the shared queue assignee makes it a precheck request.
func (s *service) isPrecheckQueue(assignee string) bool {
	return assignee == s.precheckQueue
}

func (s *service) publish(ctx context.Context) {
	if s.events == nil {
		return
	}
	s.events.PublishTableChange(ctx, TableName)
}

func validateCreateInput(input *CreateInput) error {
	if !input.Rank.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid rank %q", input.Rank))
	}
	if !input.ListType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid list type %q", input.ListType))
	}
	if input.Status == "" {
		input.Status = enums.CallStatusInProgress
	}
	if !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", input.Status))
	}
	_, timePart := SplitDateTime(input.DateTime)
	if err := ValidateTimePart(timePart); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	return nil
}

func rowFromCreateInput(input CreateInput) *models.CallRequest {
	return &models.CallRequest{
		CustomerID:   input.CustomerID,
		Requester:    input.Requester,
		Assignee:     input.Assignee,
		ListType:     input.ListType,
		Rank:         input.Rank,
		DateTime:     input.DateTime,
		Notes:        input.Notes,
		Status:       input.Status,
		AbsenceCount: input.AbsenceCount,
		Prechecker:   input.Prechecker,
		Imported:     input.Imported,
		History:      dbtypes.HistoryLog{},
	}
}

func diffPatch(current *models.CallRequest, patch UpdateInput) (map[string]any, []dbtypes.EditChange, error) {
	updates := map[string]any{}
	changes := []dbtypes.EditChange{}

	record := func(field string, oldVal, newVal any) {
		updates[field] = newVal
		changes = append(changes, dbtypes.EditChange{Field: field, OldValue: oldVal, NewValue: newVal})
	}

	if patch.CustomerID != nil && *patch.CustomerID != current.CustomerID {
		record("customer_id", current.CustomerID, *patch.CustomerID)
	}
	if patch.Requester != nil && *patch.Requester != current.Requester {
		record("requester", current.Requester, *patch.Requester)
	}
	if patch.Assignee != nil && *patch.Assignee != current.Assignee {
		record("assignee", current.Assignee, *patch.Assignee)
	}
	if patch.ListType != nil && *patch.ListType != current.ListType {
		if !patch.ListType.IsValid() {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid list type %q", *patch.ListType))
		}
		record("list_type", string(current.ListType), string(*patch.ListType))
	}
	if patch.Rank != nil && *patch.Rank != current.Rank {
		if !patch.Rank.IsValid() {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid rank %q", *patch.Rank))
		}
		record("rank", string(current.Rank), string(*patch.Rank))
	}
	if patch.DateTime != nil && *patch.DateTime != current.DateTime {
		_, timePart := SplitDateTime(*patch.DateTime)
		if err := ValidateTimePart(timePart); err != nil {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		record("date_time", current.DateTime, *patch.DateTime)
	}
	if patch.Notes != nil && *patch.Notes != current.Notes {
		record("notes", current.Notes, *patch.Notes)
	}
	if patch.Status != nil && *patch.Status != current.Status {
		if !patch.Status.IsValid() {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", *patch.Status))
		}
		record("status", string(current.Status), string(*patch.Status))
	}
	if patch.AbsenceCount != nil && *patch.AbsenceCount != current.AbsenceCount {
		record("absence_count", current.AbsenceCount, *patch.AbsenceCount)
	}
	if patch.Prechecker != nil {
		currentVal := ""
		if current.Prechecker != nil {
			currentVal = *current.Prechecker
		}
		if *patch.Prechecker != currentVal {
			record("prechecker", currentVal, *patch.Prechecker)
		}
	}

	return updates, changes, nil
}
