package settings

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/teamdesk/calldesk-backend/pkg/db/models"
	pkgerrors "github.com/teamdesk/calldesk-backend/pkg/errors"
)

// TableName is the logical table announced on the realtime feed when
// settings change.
const TableName = "app_settings"

// Known setting keys.
const (
	KeyAnnouncement = "announcement"
	KeyAppVersion   = "app_version"
)

type changePublisher interface {
	PublishTableChange(ctx context.Context, table string)
}

// Service exposes the app-wide key/value settings bag.
type Service interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Upsert(ctx context.Context, key, value string) error
}

type service struct {
	db     *gorm.DB
	events changePublisher
}

// NewService builds the settings service. events may be nil.
func NewService(db *gorm.DB, events changePublisher) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &service{db: db, events: events}, nil
}

func (s *service) GetAll(ctx context.Context) (map[string]string, error) {
	var rows []models.AppSetting
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading settings")
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

func (s *service) Upsert(ctx context.Context, key, value string) error {
	if key == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "setting key is required")
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&models.AppSetting{Key: key, Value: value}).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving setting")
	}
	if s.events != nil {
		s.events.PublishTableChange(ctx, TableName)
	}
	return nil
}
