package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-erp/internal/application/dto"
	"github.com/jhoicas/lotes-erp/internal/domain/entity"
)

// ReplenishmentUseCase lista los productos en o bajo su stock mínimo con la cantidad sugerida de compra.
type ReplenishmentUseCase struct {
	runner TxRunner
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(runner TxRunner) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{runner: runner}
}

// LowStock devuelve los productos con current_stock <= min_stock. categoryID vacío = todas las categorías.
// Orden: mayor faltante relativo al mínimo primero.
func (uc *ReplenishmentUseCase) LowStock(ctx context.Context, categoryID string) ([]dto.LowStockItemDTO, error) {
	var products []*entity.Product
	err := uc.runner.Run(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		products, err = tx.Products.ListLowStock(ctx, categoryID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}

	factor := decimal.RequireFromString("1.5")
	items := make([]dto.LowStockItemDTO, 0, len(products))
	for _, p := range products {
		ideal := p.MinStock.Mul(factor)
		suggested := ideal.Sub(p.CurrentStock)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		items = append(items, dto.LowStockItemDTO{
			ProductID:          p.ID,
			ProductName:        p.Name,
			Unit:               p.Unit,
			CurrentStock:       p.CurrentStock,
			MinStock:           p.MinStock,
			IdealStock:         ideal,
			SuggestedOrderQty:  suggested,
			UnitCost:           p.AveragePurchasePrice,
			EstimatedOrderCost: suggested.Mul(p.AveragePurchasePrice),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		defA := a.MinStock.Sub(a.CurrentStock)
		defB := b.MinStock.Sub(b.CurrentStock)
		if !defA.Equal(defB) {
			return defA.GreaterThan(defB)
		}
		return a.ProductName < b.ProductName
	})
	return items, nil
}
