package calls

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teamdesk/calldesk-backend/pkg/db/models"
	"github.com/teamdesk/calldesk-backend/pkg/enums"
)

// Repository defines persistence operations for call requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, call *models.CallRequest) (*models.CallRequest, error)
	CreateBatch(ctx context.Context, rows []models.CallRequest) ([]models.CallRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CallRequest, error)
	List(ctx context.Context) ([]models.CallRequest, error)
	ListByStatus(ctx context.Context, status enums.CallStatus) ([]models.CallRequest, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	RewriteRequester(ctx context.Context, oldName, newName string) (int64, error)
}
