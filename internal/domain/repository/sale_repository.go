package repository

import (
	"context"

	"github.com/jhoicas/lotes-erp/internal/domain/entity"
)

// SaleRepository persiste ventas con sus ítems.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
}
