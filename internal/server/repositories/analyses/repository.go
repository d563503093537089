package analyses

import (
	"context"

	"github.com/sibeni-li/khronos/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, analysis *models.Analysis) (int64, error)
	GetByID(ctx context.Context, userID, id int64) (*models.Analysis, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Analysis, error)
}
