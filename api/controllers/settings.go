package controllers

import (
	"net/http"

	"github.com/teamdesk/calldesk-backend/api/responses"
	"github.com/teamdesk/calldesk-backend/api/validators"
	"github.com/teamdesk/calldesk-backend/internal/settings"
	"github.com/teamdesk/calldesk-backend/pkg/logger"
)

// SettingsList returns the app-wide settings bag.
func SettingsList(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := svc.GetAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, all)
	}
}

// SettingsUpsert stores one setting value.
func SettingsUpsert(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	type body struct {
		Key   string `json:"key" validate:"required"`
		Value string `json:"value"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var input body
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Upsert(r.Context(), input.Key, input.Value); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "saved"})
	}
}
