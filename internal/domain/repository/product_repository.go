package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-erp/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// AdjustStock suma delta (puede ser negativo) al stock agregado y devuelve el nuevo valor.
	AdjustStock(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error)
	UpdateAveragePrice(ctx context.Context, id string, price decimal.Decimal) error
	// ListLowStock productos con current_stock <= min_stock; categoryID vacío = todas.
	ListLowStock(ctx context.Context, categoryID string) ([]*entity.Product, error)
}
