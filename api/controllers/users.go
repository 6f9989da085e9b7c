package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teamdesk/calldesk-backend/api/responses"
	"github.com/teamdesk/calldesk-backend/api/validators"
	"github.com/teamdesk/calldesk-backend/internal/users"
	"github.com/teamdesk/calldesk-backend/pkg/enums"
	pkgerrors "github.com/teamdesk/calldesk-backend/pkg/errors"
	"github.com/teamdesk/calldesk-backend/pkg/logger"
)

const maxNameLen = 120

// UserList returns every team member.
func UserList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// UserDetail returns a single team member.
func UserDetail(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := userName(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.Get(r.Context(), name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// UserUpsert creates or replaces a team member.
func UserUpsert(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input users.UpsertInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.Upsert(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

// UserBulkUpsert imports a batch of team members.
func UserBulkUpsert(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var inputs []users.UpsertInput
		if err := validators.DecodeJSONBody(r, &inputs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(inputs) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "empty import batch"))
			return
		}
		rows, err := svc.BulkUpsert(r.Context(), inputs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, rows)
	}
}

// UserUpdate applies a field-level patch to a member.
func UserUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := userName(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var patch users.UpdateInput
		if err := validators.DecodeJSONBody(r, &patch); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.Update(r.Context(), name, patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// UserDelete removes a member. Their requester entries on call requests
// are rewritten to keep history readable.
func UserDelete(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := userName(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), name); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// UserUpdateAvailability flips a member's availability status.
func UserUpdateAvailability(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	type body struct {
		Availability enums.Availability `json:"availability_status" validate:"required"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := userName(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input body
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.UpdateAvailability(r.Context(), name, input.Availability)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// UserUpdatePassword replaces a member's password.
func UserUpdatePassword(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	type body struct {
		Password string `json:"password" validate:"required"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := userName(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input body
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.UpdatePassword(r.Context(), name, input.Password); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// UserUpdateNonWorkingDays replaces a member's off-day list.
func UserUpdateNonWorkingDays(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	type body struct {
		NonWorkingDays []string `json:"non_working_days" validate:"required"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := userName(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input body
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.UpdateNonWorkingDays(r.Context(), name, input.NonWorkingDays)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// UserUpdateComment replaces a member's status comment and stamps when it
// changed.
func UserUpdateComment(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	type body struct {
		Comment string `json:"comment"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := userName(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input body
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.UpdateComment(r.Context(), name, input.Comment)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

func userName(r *http.Request) (string, error) {
	name := validators.SanitizeString(chi.URLParam(r, "userName"), maxNameLen)
	if name == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "user name is required")
	}
	return name, nil
}
