package controllers

import (
	"net/http"
	"time"

	"github.com/teamdesk/calldesk-backend/api/middleware"
	"github.com/teamdesk/calldesk-backend/api/responses"
	"github.com/teamdesk/calldesk-backend/api/validators"
	"github.com/teamdesk/calldesk-backend/internal/views"
	"github.com/teamdesk/calldesk-backend/pkg/logger"
)

// ViewLastViewed returns when the caller last opened the given board.
func ViewLastViewed(svc views.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userName := middleware.UserNameFromContext(r.Context())
		board := views.Board(r.URL.Query().Get("board"))

		at, err := svc.LastViewed(r.Context(), userName, board)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"board": board, "last_viewed": at})
	}
}

// ViewMarkViewed stamps the caller's board as seen now.
func ViewMarkViewed(svc views.Service, logg *logger.Logger) http.HandlerFunc {
	type body struct {
		Board views.Board `json:"board" validate:"required"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		userName := middleware.UserNameFromContext(r.Context())
		var input body
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.MarkViewed(r.Context(), userName, input.Board, time.Now()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "marked"})
	}
}

// NotificationSettingsGet returns the caller's reminder configuration.
func NotificationSettingsGet(svc views.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userName := middleware.UserNameFromContext(r.Context())
		settings, err := svc.NotificationSettings(r.Context(), userName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings)
	}
}

// NotificationSettingsSave replaces the caller's reminder configuration.
func NotificationSettingsSave(svc views.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userName := middleware.UserNameFromContext(r.Context())
		var settings views.NotificationSettings
		if err := validators.DecodeJSONBody(r, &settings); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SaveNotificationSettings(r.Context(), userName, settings); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings)
	}
}
