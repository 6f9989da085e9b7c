package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teamdesk/calldesk-backend/api/controllers"
	"github.com/teamdesk/calldesk-backend/api/middleware"
	"github.com/teamdesk/calldesk-backend/internal/auth"
	"github.com/teamdesk/calldesk-backend/internal/calls"
	"github.com/teamdesk/calldesk-backend/internal/guidance"
	"github.com/teamdesk/calldesk-backend/internal/realtime"
	"github.com/teamdesk/calldesk-backend/internal/settings"
	"github.com/teamdesk/calldesk-backend/internal/users"
	"github.com/teamdesk/calldesk-backend/internal/views"
	"github.com/teamdesk/calldesk-backend/pkg/auth/session"
	"github.com/teamdesk/calldesk-backend/pkg/config"
	"github.com/teamdesk/calldesk-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// RouterParams bundles everything the HTTP surface depends on. Guidance
// and Metrics may be nil; their routes are then left unmounted.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       pinger
	Cache    pinger
	Sessions session.Checker
	Auth     auth.Service
	Calls    calls.Service
	Users    users.Service
	Settings settings.Service
	Views    views.Service
	Guidance *guidance.Service
	Hub      *realtime.Hub
	Metrics  *prometheus.Registry
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Cache))
	})

	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(p.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(p.Auth, cfg.JWT, logg))
	})

	// Websocket feed authenticates inside the handler: browsers cannot
	// attach headers to websocket dials.
	if p.Hub != nil {
		r.Get("/api/v1/stream", controllers.Stream(p.Hub, cfg.JWT, p.Sessions, logg))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))

		r.Route("/calls", func(r chi.Router) {
			r.Get("/", controllers.CallList(p.Calls, logg))
			r.Post("/", controllers.CallCreate(p.Calls, logg))
			r.Post("/bulk", controllers.CallBulkCreate(p.Calls, logg))
			r.Get("/duplicates", controllers.CallDuplicates(p.Calls, logg))
			r.Get("/unread", controllers.CallUnreadCounts(p.Calls, p.Views, cfg.Notifier.PrecheckQueue, logg))
			r.Get("/alerts", controllers.CallAlerts(p.Calls, logg))
			r.With(middleware.RequireAdmin(logg)).Post("/expire", controllers.CallExpire(p.Calls, logg))
			r.Get("/{callId}", controllers.CallDetail(p.Calls, logg))
			r.Patch("/{callId}", controllers.CallUpdate(p.Calls, logg))
			r.Delete("/{callId}", controllers.CallDelete(p.Calls, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.UserList(p.Users, logg))
			r.With(middleware.RequireAdmin(logg)).Post("/", controllers.UserUpsert(p.Users, logg))
			r.With(middleware.RequireAdmin(logg)).Post("/bulk", controllers.UserBulkUpsert(p.Users, logg))
			r.Get("/{userName}", controllers.UserDetail(p.Users, logg))
			r.With(middleware.RequireAdmin(logg)).Patch("/{userName}", controllers.UserUpdate(p.Users, logg))
			r.With(middleware.RequireAdmin(logg)).Delete("/{userName}", controllers.UserDelete(p.Users, logg))
			r.Put("/{userName}/availability", controllers.UserUpdateAvailability(p.Users, logg))
			r.Put("/{userName}/password", controllers.UserUpdatePassword(p.Users, logg))
			r.Put("/{userName}/non-working-days", controllers.UserUpdateNonWorkingDays(p.Users, logg))
			r.Put("/{userName}/comment", controllers.UserUpdateComment(p.Users, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.SettingsList(p.Settings, logg))
			r.With(middleware.RequireAdmin(logg)).Put("/", controllers.SettingsUpsert(p.Settings, logg))
		})

		r.Route("/views", func(r chi.Router) {
			r.Get("/last-viewed", controllers.ViewLastViewed(p.Views, logg))
			r.Post("/mark", controllers.ViewMarkViewed(p.Views, logg))
			r.Get("/notification-settings", controllers.NotificationSettingsGet(p.Views, logg))
			r.Put("/notification-settings", controllers.NotificationSettingsSave(p.Views, logg))
		})

		if p.Guidance != nil {
			r.Post("/guidance", controllers.GuidanceGenerate(p.Guidance, logg))
		}
	})

	return r
}
