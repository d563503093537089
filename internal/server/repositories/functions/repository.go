package functions

import (
	"context"

	"github.com/sibeni-li/khronos/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, fn *models.Function) (int64, error)
	ListByAnalysis(ctx context.Context, analysisID int64) ([]*models.Function, error)
}
