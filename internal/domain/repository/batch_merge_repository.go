package repository

import (
	"context"

	"github.com/jhoicas/lotes-erp/internal/domain/entity"
)

// BatchMergeRepository historial de fusiones (solo inserción).
type BatchMergeRepository interface {
	Create(ctx context.Context, merge *entity.BatchMerge) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.BatchMerge, error)
}
