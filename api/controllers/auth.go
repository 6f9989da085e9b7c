package controllers

import (
	"net/http"
	"strings"

	"github.com/teamdesk/calldesk-backend/api/responses"
	"github.com/teamdesk/calldesk-backend/api/validators"
	"github.com/teamdesk/calldesk-backend/internal/auth"
	pkgAuth "github.com/teamdesk/calldesk-backend/pkg/auth"
	"github.com/teamdesk/calldesk-backend/pkg/config"
	pkgerrors "github.com/teamdesk/calldesk-backend/pkg/errors"
	"github.com/teamdesk/calldesk-backend/pkg/logger"
)

// AuthLogin checks credentials and returns a bearer token.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input auth.LoginInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AuthLogout revokes the session behind the presented token. A missing or
// malformed token is still a successful logout.
func AuthLogout(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
			return
		}

		claims, err := pkgAuth.ParseAccessToken(cfg, token)
		if err != nil || claims.SessionID == "" {
			responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
			return
		}

		if err := svc.Logout(r.Context(), claims.SessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "logout"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
