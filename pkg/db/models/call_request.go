package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/teamdesk/calldesk-backend/pkg/db/types"
	"github.com/teamdesk/calldesk-backend/pkg/enums"
)

// CallRequest is a scheduled outreach task assigned to a team member.
//
// DateTime is the composite schedule value: an ISO date joined to either a
// clock time or a sentinel token, e.g. "2026-09-01T11:30" or
// "2026-09-01Turgent".
type CallRequest struct {
	ID           uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID   string             `gorm:"column:customer_id;type:text;not null"`
	Requester    string             `gorm:"type:text;not null"`
	Assignee     string             `gorm:"type:text;not null"`
	ListType     enums.ListType     `gorm:"column:list_type;type:text;not null;default:''"`
	Rank         enums.Rank         `gorm:"type:text;not null"`
	DateTime     string             `gorm:"column:date_time;type:text;not null"`
	Notes        string             `gorm:"type:text;not null;default:''"`
	Status       enums.CallStatus   `gorm:"type:text;not null;default:'in_progress'"`
	AbsenceCount int                `gorm:"column:absence_count;not null;default:0"`
	Prechecker   *string            `gorm:"type:text"`
	Imported     bool               `gorm:"not null;default:false"`
	History      dbtypes.HistoryLog `gorm:"type:jsonb;not null;default:'[]'"`
	CompletedAt  *time.Time         `gorm:"column:completed_at"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
