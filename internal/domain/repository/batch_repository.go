package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-erp/internal/domain/entity"
)

// BatchFilter filtro de listado; se usa exactamente uno de los dos campos.
type BatchFilter struct {
	ProductID  string
	CategoryID string
}

// BatchRepository puerto del almacén de lotes.
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.Batch) error
	GetByID(ctx context.Context, id string) (*entity.Batch, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Batch, error)
	// ListAvailableForUpdate lotes con saldo > 0 del producto, ordenados por created_at, id y bloqueados.
	ListAvailableForUpdate(ctx context.Context, productID string) ([]*entity.Batch, error)
	UpdateRemaining(ctx context.Context, id string, remaining decimal.Decimal) error
	// UpdateQuantityAndPrice usado solo sobre el lote destino de una fusión; no toca created_at.
	UpdateQuantityAndPrice(ctx context.Context, id string, remaining, price decimal.Decimal) error
	Delete(ctx context.Context, id string) error
	ListAvailable(ctx context.Context, filter BatchFilter) ([]*entity.BatchView, error)
}
