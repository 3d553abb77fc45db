package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-erp/internal/domain/entity"
)

// ProcurementRepository persiste abastecimientos con sus ítems.
type ProcurementRepository interface {
	Create(ctx context.Context, procurement *entity.Procurement) error
	// LastPriceForProduct precio del ítem de compra más reciente del producto; nil si nunca se compró.
	LastPriceForProduct(ctx context.Context, productID string) (*decimal.Decimal, error)
}
