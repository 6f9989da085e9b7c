package calls

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teamdesk/calldesk-backend/pkg/db/models"
	"github.com/teamdesk/calldesk-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a call request repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, call *models.CallRequest) (*models.CallRequest, error) {
	if call.ID == uuid.Nil {
		call.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(call).Error; err != nil {
		return nil, err
	}
	return call, nil
}

func (r *repository) CreateBatch(ctx context.Context, rows []models.CallRequest) ([]models.CallRequest, error) {
	if len(rows) == 0 {
		return rows, nil
	}
	for i := range rows {
		if rows[i].ID == uuid.Nil {
			rows[i].ID = uuid.New()
		}
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CallRequest, error) {
	var call models.CallRequest
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&call).Error
	if err != nil {
		return nil, err
	}
	return &call, nil
}

func (r *repository) List(ctx context.Context) ([]models.CallRequest, error) {
	var rows []models.CallRequest
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByStatus(ctx context.Context, status enums.CallStatus) ([]models.CallRequest, error) {
	var rows []models.CallRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.CallRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.CallRequest{}).Error
}

func (r *repository) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("status = ? AND completed_at IS NOT NULL AND completed_at < ?", enums.CallStatusDone, cutoff).
		Delete(&models.CallRequest{})
	return res.RowsAffected, res.Error
}

func (r *repository) RewriteRequester(ctx context.Context, oldName, newName string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CallRequest{}).
		Where("requester = ?", oldName).
		Update("requester", newName)
	return res.RowsAffected, res.Error
}
