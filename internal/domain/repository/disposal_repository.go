package repository

import (
	"context"

	"github.com/jhoicas/lotes-erp/internal/domain/entity"
)

// DisposalRepository persiste bajas de inventario.
type DisposalRepository interface {
	Create(ctx context.Context, disposal *entity.Disposal) error
}
