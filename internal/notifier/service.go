package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/teamdesk/calldesk-backend/internal/calls"
	"github.com/teamdesk/calldesk-backend/internal/views"
	"github.com/teamdesk/calldesk-backend/pkg/config"
	"github.com/teamdesk/calldesk-backend/pkg/db/models"
	"github.com/teamdesk/calldesk-backend/pkg/enums"
	"github.com/teamdesk/calldesk-backend/pkg/logger"
	"github.com/teamdesk/calldesk-backend/pkg/metrics"
)

type callLister interface {
	ListByStatus(ctx context.Context, status enums.CallStatus) ([]models.CallRequest, error)
}

type settingsReader interface {
	NotificationSettings(ctx context.Context, userName string) (*views.NotificationSettings, error)
}

type markerStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	NotifyMarkerKey(callID, timing string) string
}

type notificationSink interface {
	PublishNotification(ctx context.Context, target, title, body string)
}

// Service is the reminder loop: every tick it re-scans in-progress call
// requests and fires each configured (request, timing) reminder at most
// once. Entirely best-effort, matching the dashboard it replaces.
type Service struct {
	calls    callLister
	settings settingsReader
	markers  markerStore
	sink     notificationSink
	metrics  *metrics.NotifierMetrics
	logg     *logger.Logger
	cfg      config.NotifierConfig
	now      func() time.Time
	loc      *time.Location
}

// NewService builds the notifier.
func NewService(
	calls callLister,
	settings settingsReader,
	markers markerStore,
	sink notificationSink,
	m *metrics.NotifierMetrics,
	logg *logger.Logger,
	cfg config.NotifierConfig,
) (*Service, error) {
	if calls == nil {
		return nil, fmt.Errorf("call lister required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings reader required")
	}
	if markers == nil {
		return nil, fmt.Errorf("marker store required")
	}
	if sink == nil {
		return nil, fmt.Errorf("notification sink required")
	}
	return &Service{
		calls:    calls,
		settings: settings,
		markers:  markers,
		sink:     sink,
		metrics:  m,
		logg:     logg,
		cfg:      cfg,
		now:      time.Now,
		loc:      time.Local,
	}, nil
}

// Run ticks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if fired, err := s.Scan(ctx); err != nil {
				if s.metrics != nil {
					s.metrics.IncError()
				}
				if s.logg != nil {
					s.logg.Warn(ctx, fmt.Sprintf("reminder scan failed: %v", err))
				}
			} else if fired > 0 && s.logg != nil {
				s.logg.Info(s.logg.WithField(ctx, "fired", fired), "reminders fired")
			}
		}
	}
}

func (s *Service) scanFailure(ctx context.Context, msg string) {
	if s.metrics != nil {
		s.metrics.IncError()
	}
	if s.logg != nil {
		s.logg.Warn(ctx, msg)
	}
}

// Scan runs one pass and returns how many reminders fired. Per-row
// failures are logged and skipped; only the initial listing aborts the
// pass.
func (s *Service) Scan(ctx context.Context) (int, error) {
	rows, err := s.calls.ListByStatus(ctx, enums.CallStatusInProgress)
	if err != nil {
		return 0, err
	}

	now := s.now().In(s.loc)
	settingsByUser := map[string]*views.NotificationSettings{}
	fired := 0

	for i := range rows {
		row := &rows[i]
		scheduledAt, ok := calls.ScheduledAt(row.DateTime, s.loc)
		if !ok {
			// Sentinel tokens and date-only values carry no instant.
			continue
		}

		settings, ok := settingsByUser[row.Assignee]
		if !ok {
			settings, err = s.settings.NotificationSettings(ctx, row.Assignee)
			if err != nil {
				// One member's broken preferences must not starve the rest
				// of the scan.
				s.scanFailure(ctx, fmt.Sprintf("loading settings for %s: %v", row.Assignee, err))
				continue
			}
			settingsByUser[row.Assignee] = settings
		}
		if !settings.Enabled {
			continue
		}

		for _, timing := range settings.Timings {
			target := scheduledAt.Add(-timing.Offset())
			if now.Before(target) || !now.Before(target.Add(s.cfg.FiringWindow)) {
				continue
			}

			key := s.markers.NotifyMarkerKey(row.ID.String(), string(timing))
			first, err := s.markers.SetNX(ctx, key, now.UnixMilli(), s.cfg.MarkerTTL)
			if err != nil {
				s.scanFailure(ctx, fmt.Sprintf("marking reminder %s: %v", key, err))
				continue
			}
			if !first {
				continue
			}

			s.sink.PublishNotification(ctx, row.Assignee,
				fmt.Sprintf("Call %s", row.CustomerID),
				fmt.Sprintf("Scheduled call %s.", timing.Label()))
			if s.metrics != nil {
				s.metrics.IncFired(string(timing))
			}
			fired++
		}
	}
	return fired, nil
}
