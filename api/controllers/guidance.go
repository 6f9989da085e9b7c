package controllers

import (
	"net/http"

	"github.com/teamdesk/calldesk-backend/api/responses"
	"github.com/teamdesk/calldesk-backend/api/validators"
	"github.com/teamdesk/calldesk-backend/internal/guidance"
	"github.com/teamdesk/calldesk-backend/pkg/logger"
)

// GuidanceGenerate produces a talk script for one call.
func GuidanceGenerate(svc *guidance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input guidance.Input
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Generate(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
