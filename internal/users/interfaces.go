package users

import (
	"context"

	"gorm.io/gorm"

	"github.com/teamdesk/calldesk-backend/pkg/db/models"
)

// Repository defines persistence operations for team members.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByName(ctx context.Context, name string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Upsert(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, name string, updates map[string]any) error
	Delete(ctx context.Context, name string) error
}
