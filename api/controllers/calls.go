package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/teamdesk/calldesk-backend/api/middleware"
	"github.com/teamdesk/calldesk-backend/api/responses"
	"github.com/teamdesk/calldesk-backend/api/validators"
	"github.com/teamdesk/calldesk-backend/internal/calls"
	"github.com/teamdesk/calldesk-backend/internal/views"
	pkgerrors "github.com/teamdesk/calldesk-backend/pkg/errors"
	"github.com/teamdesk/calldesk-backend/pkg/logger"
)

// CallList returns every call request in board order.
func CallList(svc calls.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// CallDetail returns a single call request.
func CallDetail(svc calls.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := callID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// CallCreate inserts a call request. When a pre-insert check trips the
// response is a 409 carrying the conflict; the client re-submits with
// confirm set after the user acknowledges it.
func CallCreate(svc calls.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input calls.CreateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, conflict, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if conflict != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeConflict, "confirmation required").WithDetails(conflict))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

// CallBulkCreate imports a batch of call requests, skipping conflict checks.
func CallBulkCreate(svc calls.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var inputs []calls.CreateInput
		if err := validators.DecodeJSONBody(r, &inputs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(inputs) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "empty import batch"))
			return
		}

		rows, err := svc.BulkCreate(r.Context(), inputs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, rows)
	}
}

// CallUpdate applies a field-level patch and records the edit in history.
func CallUpdate(svc calls.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := callID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var patch calls.UpdateInput
		if err := validators.DecodeJSONBody(r, &patch); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		editor := middleware.UserNameFromContext(r.Context())
		row, err := svc.Update(r.Context(), id, editor, patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// CallDelete removes a call request.
func CallDelete(svc calls.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := callID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// CallDuplicates lists customer ids appearing on more than one request.
func CallDuplicates(svc calls.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := svc.DuplicateIDs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"customer_ids": ids})
	}
}

// CallUnreadCounts reports how many requests appeared on each board since
// the caller last opened it. Without a recorded visit every qualifying
// request counts.
func CallUnreadCounts(svc calls.Service, viewsSvc views.Service, precheckQueue string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := middleware.UserNameFromContext(r.Context())

		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lastMine, err := viewsSvc.LastViewed(r.Context(), viewer, views.BoardMine)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lastPrecheck, err := viewsSvc.LastViewed(r.Context(), viewer, views.BoardPrecheck)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mine := calls.UnreadCount(rows, lastMine, func(row calls.CallDTO) bool {
			return row.Assignee == viewer
		})
		precheck := calls.UnreadCount(rows, lastPrecheck, func(row calls.CallDTO) bool {
			return row.Assignee == precheckQueue || row.Rank.IsPrecheck()
		})

		responses.WriteSuccess(w, map[string]int{"mine": mine, "precheck": precheck})
	}
}

// CallAlerts returns the admin overview of schedule gaps and overdue work.
func CallAlerts(svc calls.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alerts, err := svc.Alerts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, alerts)
	}
}

// CallExpire removes done requests completed before today. The cron worker
// runs the same sweep; this endpoint lets an admin trigger it on demand.
func CallExpire(svc calls.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := svc.ExpireCompleted(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"deleted": deleted})
	}
}

func callID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "callId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid call id")
	}
	return id, nil
}
