package users

import (
	"time"

	"github.com/teamdesk/calldesk-backend/pkg/db/models"
	"github.com/teamdesk/calldesk-backend/pkg/enums"
)

// UserDTO is the API shape of a team member. The password never leaves
// the service layer.
type UserDTO struct {
	Name              string             `json:"name"`
	IsAdmin           bool               `json:"is_admin"`
	IsLinePrechecker  bool               `json:"is_line_prechecker"`
	IsSuperAdmin      bool               `json:"is_super_admin"`
	ProfilePicture    *string            `json:"profile_picture,omitempty"`
	Availability      enums.Availability `json:"availability_status"`
	NonWorkingDays    []string           `json:"non_working_days"`
	AvailableProducts []string           `json:"available_products"`
	Comment           string             `json:"comment"`
	CommentUpdatedAt  *time.Time         `json:"comment_updated_at,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
}

// UpsertInput carries the fields accepted when creating or replacing a member.
type UpsertInput struct {
	Name              string             `json:"name" validate:"required"`
	IsAdmin           bool               `json:"is_admin"`
	IsLinePrechecker  bool               `json:"is_line_prechecker"`
	IsSuperAdmin      bool               `json:"is_super_admin"`
	Password          string             `json:"password"`
	ProfilePicture    *string            `json:"profile_picture,omitempty"`
	Availability      enums.Availability `json:"availability_status"`
	NonWorkingDays    []string           `json:"non_working_days"`
	AvailableProducts []string           `json:"available_products"`
	Comment           string             `json:"comment"`
}

// UpdateInput is a field-level patch; nil pointers leave the column as is.
type UpdateInput struct {
	IsAdmin           *bool               `json:"is_admin,omitempty"`
	IsLinePrechecker  *bool               `json:"is_line_prechecker,omitempty"`
	IsSuperAdmin      *bool               `json:"is_super_admin,omitempty"`
	ProfilePicture    *string             `json:"profile_picture,omitempty"`
	Availability      *enums.Availability `json:"availability_status,omitempty"`
	NonWorkingDays    *[]string           `json:"non_working_days,omitempty"`
	AvailableProducts *[]string           `json:"available_products,omitempty"`
	Comment           *string             `json:"comment,omitempty"`
}

// ToDTO maps a stored row to the API shape.
func ToDTO(m *models.User) UserDTO {
	return UserDTO{
		Name:              m.Name,
		IsAdmin:           m.IsAdmin,
		IsLinePrechecker:  m.IsLinePrechecker,
		IsSuperAdmin:      m.IsSuperAdmin,
		ProfilePicture:    m.ProfilePicture,
		Availability:      m.Availability,
		NonWorkingDays:    []string(m.NonWorkingDays),
		AvailableProducts: []string(m.AvailableProducts),
		Comment:           m.Comment,
		CommentUpdatedAt:  m.CommentUpdatedAt,
		CreatedAt:         m.CreatedAt,
	}
}

// ToDTOs maps a slice of stored rows.
func ToDTOs(rows []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToDTO(&rows[i]))
	}
	return out
}
