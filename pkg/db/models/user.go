package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/teamdesk/calldesk-backend/pkg/enums"
)

// User is a team member. The display name is the natural key: call requests
// reference it by value, so renames are full row rewrites.
type User struct {
	Name              string             `gorm:"type:text;primaryKey"`
	IsAdmin           bool               `gorm:"column:is_admin;not null;default:false"`
	IsLinePrechecker  bool               `gorm:"column:is_line_prechecker;not null;default:false"`
	IsSuperAdmin      bool               `gorm:"column:is_super_admin;not null;default:false"`
	Password          string             `gorm:"type:text;not null;default:''"`
	ProfilePicture    *string            `gorm:"column:profile_picture;type:text"`
	Availability      enums.Availability `gorm:"column:availability_status;type:text;not null;default:'available'"`
	NonWorkingDays    pq.StringArray     `gorm:"column:non_working_days;type:text[];not null;default:'{}'"`
	AvailableProducts pq.StringArray     `gorm:"column:available_products;type:text[];not null;default:'{}'"`
	Comment           string             `gorm:"type:text;not null;default:''"`
	CommentUpdatedAt  *time.Time         `gorm:"column:comment_updated_at"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
}
