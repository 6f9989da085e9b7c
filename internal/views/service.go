package views

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/teamdesk/calldesk-backend/pkg/enums"
	pkgerrors "github.com/teamdesk/calldesk-backend/pkg/errors"
)

// Board names the tabs whose last-viewed timestamps are tracked.
type Board string

const (
	BoardMine     Board = "mine"
	BoardPrecheck Board = "precheck"
)

func (b Board) IsValid() bool {
	return b == BoardMine || b == BoardPrecheck
}

// NotificationSettings is a member's reminder configuration. Replaces the
// browser-local preference flags of the original dashboard.
type NotificationSettings struct {
	Enabled bool                 `json:"enabled"`
	Timings []enums.NotifyTiming `json:"timings"`
}

// DefaultNotificationSettings applies when a member has never saved any.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		Enabled: true,
		Timings: []enums.NotifyTiming{enums.NotifyTimingExact},
	}
}

type kvStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	GetOrEmpty(ctx context.Context, key string) (string, error)
	LastViewKey(userName, board string) string
	NotifyPrefsKey(userName string) string
}

// Service persists per-user view state in redis.
type Service interface {
	LastViewed(ctx context.Context, userName string, board Board) (*time.Time, error)
	MarkViewed(ctx context.Context, userName string, board Board, at time.Time) error
	NotificationSettings(ctx context.Context, userName string) (*NotificationSettings, error)
	SaveNotificationSettings(ctx context.Context, userName string, settings NotificationSettings) error
}

type service struct {
	store kvStore
}

// NewService builds the views service.
func NewService(store kvStore) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store required")
	}
	return &service{store: store}, nil
}

// LastViewed returns when the user last opened the board, or nil if never
// recorded.
func (s *service) LastViewed(ctx context.Context, userName string, board Board) (*time.Time, error) {
	if !board.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid board %q", board))
	}
	raw, err := s.store.GetOrEmpty(ctx, s.store.LastViewKey(userName, string(board)))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading last-viewed timestamp")
	}
	if raw == "" {
		return nil, nil
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, nil
	}
	at := time.UnixMilli(millis)
	return &at, nil
}

func (s *service) MarkViewed(ctx context.Context, userName string, board Board, at time.Time) error {
	if !board.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid board %q", board))
	}
	key := s.store.LastViewKey(userName, string(board))
	if err := s.store.Set(ctx, key, strconv.FormatInt(at.UnixMilli(), 10), 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving last-viewed timestamp")
	}
	return nil
}

func (s *service) NotificationSettings(ctx context.Context, userName string) (*NotificationSettings, error) {
	raw, err := s.store.GetOrEmpty(ctx, s.store.NotifyPrefsKey(userName))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading notification settings")
	}
	if raw == "" {
		defaults := DefaultNotificationSettings()
		return &defaults, nil
	}
	var settings NotificationSettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		defaults := DefaultNotificationSettings()
		return &defaults, nil
	}
	return &settings, nil
}

func (s *service) SaveNotificationSettings(ctx context.Context, userName string, settings NotificationSettings) error {
	for _, timing := range settings.Timings {
		if !timing.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid notify timing %q", timing))
		}
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding notification settings")
	}
	if err := s.store.Set(ctx, s.store.NotifyPrefsKey(userName), string(raw), 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving notification settings")
	}
	return nil
}
