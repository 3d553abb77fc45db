package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-erp/internal/domain"
	"github.com/jhoicas/lotes-erp/internal/domain/entity"
)

// MergePlan resultado calculado de fusionar source dentro de target.
type MergePlan struct {
	Quantity          decimal.Decimal
	NewTargetQuantity decimal.Decimal
	NewTargetPrice    decimal.Decimal
	SourceRemaining   decimal.Decimal
	FullMerge         bool // el lote origen queda en cero y se elimina
	CrossProduct      bool
}

// WeightedPrice precio promedio ponderado: (q×Ps + Rt×Pt) / (q + Rt).
func WeightedPrice(qty, price, targetQty, targetPrice decimal.Decimal) decimal.Decimal {
	sum := qty.Add(targetQty)
	if !sum.IsPositive() {
		return targetPrice
	}
	return qty.Mul(price).Add(targetQty.Mul(targetPrice)).Div(sum).Round(PriceScale)
}

// PlanMerge valida y calcula la fusión. quantity nil = todo el saldo del origen.
func PlanMerge(source, target *entity.Batch, quantity *decimal.Decimal) (MergePlan, error) {
	if source.ID == target.ID {
		return MergePlan{}, fmt.Errorf("%w: origen y destino son el mismo lote", domain.ErrInvalidInput)
	}
	qty := source.RemainingQuantity
	if quantity != nil {
		qty = *quantity
	}
	if err := CheckQuantity(qty); err != nil {
		return MergePlan{}, err
	}
	if qty.GreaterThan(source.RemainingQuantity) {
		return MergePlan{}, fmt.Errorf("%w: se piden %s y el lote %s tiene %s",
			domain.ErrInsufficientBatchRemainder, qty, source.ID, source.RemainingQuantity)
	}

	sourceRemaining := source.RemainingQuantity.Sub(qty)
	return MergePlan{
		Quantity:          qty,
		NewTargetQuantity: target.RemainingQuantity.Add(qty),
		NewTargetPrice:    WeightedPrice(qty, source.PricePerUnit, target.RemainingQuantity, target.PricePerUnit),
		SourceRemaining:   sourceRemaining,
		FullMerge:         sourceRemaining.IsZero(),
		CrossProduct:      source.ProductID != target.ProductID,
	}, nil
}
