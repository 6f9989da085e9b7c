package calls

import (
	"time"

	"github.com/google/uuid"

	"github.com/teamdesk/calldesk-backend/pkg/db/models"
	dbtypes "github.com/teamdesk/calldesk-backend/pkg/db/types"
	"github.com/teamdesk/calldesk-backend/pkg/enums"
)

// CallDTO is the API shape of a call request.
type CallDTO struct {
	ID           uuid.UUID          `json:"id"`
	CustomerID   string             `json:"customer_id"`
	Requester    string             `json:"requester"`
	Assignee     string             `json:"assignee"`
	ListType     enums.ListType     `json:"list_type"`
	Rank         enums.Rank         `json:"rank"`
	DateTime     string             `json:"date_time"`
	Notes        string             `json:"notes"`
	Status       enums.CallStatus   `json:"status"`
	AbsenceCount int                `json:"absence_count"`
	Prechecker   *string            `json:"prechecker,omitempty"`
	Imported     bool               `json:"imported"`
	History      dbtypes.HistoryLog `json:"history"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// CreateInput carries the fields accepted when creating a call request.
// Confirm skips the pre-insert conflict checks after the caller has seen
// and acknowledged a Conflict.
type CreateInput struct {
	CustomerID   string           `json:"customer_id" validate:"required"`
	Requester    string           `json:"requester" validate:"required"`
	Assignee     string           `json:"assignee" validate:"required"`
	ListType     enums.ListType   `json:"list_type"`
	Rank         enums.Rank       `json:"rank" validate:"required"`
	DateTime     string           `json:"date_time" validate:"required"`
	Notes        string           `json:"notes"`
	Status       enums.CallStatus `json:"status"`
	AbsenceCount int              `json:"absence_count"`
	Prechecker   *string          `json:"prechecker,omitempty"`
	Imported     bool             `json:"imported"`
	Confirm      bool             `json:"confirm"`
}

// UpdateInput is a field-level patch. Nil pointers leave the column as is.
type UpdateInput struct {
	CustomerID   *string           `json:"customer_id,omitempty"`
	Requester    *string           `json:"requester,omitempty"`
	Assignee     *string           `json:"assignee,omitempty"`
	ListType     *enums.ListType   `json:"list_type,omitempty"`
	Rank         *enums.Rank       `json:"rank,omitempty"`
	DateTime     *string           `json:"date_time,omitempty"`
	Notes        *string           `json:"notes,omitempty"`
	Status       *enums.CallStatus `json:"status,omitempty"`
	AbsenceCount *int              `json:"absence_count,omitempty"`
	Prechecker   *string           `json:"prechecker,omitempty"`
}

// ConflictReason tags why a create paused for confirmation.
type ConflictReason string

const (
	ConflictDuplicateCustomer ConflictReason = "duplicate_customer"
	ConflictNonWorkingDay     ConflictReason = "non_working_day"
	ConflictUnavailableToday  ConflictReason = "unavailable_today"
	ConflictUnavailableSoon   ConflictReason = "unavailable_soon"
)

// Conflict is returned instead of inserting when a pre-insert check trips.
// The caller resolves it by cancelling or re-submitting with Confirm set.
type Conflict struct {
	Reason   ConflictReason `json:"reason"`
	Existing []CallDTO      `json:"existing,omitempty"`
}

// Alerts is the admin overview of schedule gaps and overdue work.
type Alerts struct {
	MissingNextMonth []string        `json:"missing_next_month"`
	Overdue          []OverdueMember `json:"overdue"`
}

// OverdueMember lists a member's in-progress requests dated before today.
type OverdueMember struct {
	Assignee string    `json:"assignee"`
	Calls    []CallDTO `json:"calls"`
}

// ToDTO maps a stored row to the API shape.
func ToDTO(m *models.CallRequest) CallDTO {
	history := m.History
	if history == nil {
		history = dbtypes.HistoryLog{}
	}
	return CallDTO{
		ID:           m.ID,
		CustomerID:   m.CustomerID,
		Requester:    m.Requester,
		Assignee:     m.Assignee,
		ListType:     m.ListType,
		Rank:         m.Rank,
		DateTime:     m.DateTime,
		Notes:        m.Notes,
		Status:       m.Status,
		AbsenceCount: m.AbsenceCount,
		Prechecker:   m.Prechecker,
		Imported:     m.Imported,
		History:      history,
		CompletedAt:  m.CompletedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ToDTOs maps a slice of stored rows.
func ToDTOs(rows []models.CallRequest) []CallDTO {
	out := make([]CallDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToDTO(&rows[i]))
	}
	return out
}
