package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-erp/internal/domain/entity"
)

// Allocation cantidad a tomar de un lote.
type Allocation struct {
	Batch    *entity.Batch
	Quantity decimal.Decimal
}

// FIFOPlan resultado de repartir una cantidad entre lotes.
type FIFOPlan struct {
	Allocations []Allocation
	Shortfall   decimal.Decimal // cantidad no cubierta por lotes (cero si está dentro de la tolerancia)
}

// PlanFIFO reparte quantity entre los lotes con saldo, del más antiguo (CreatedAt, ID) al más nuevo.
// No modifica los lotes. Un faltante menor o igual a tolerance se descarta.
func PlanFIFO(batches []*entity.Batch, quantity, tolerance decimal.Decimal) FIFOPlan {
	ordered := make([]*entity.Batch, 0, len(batches))
	for _, b := range batches {
		if b.HasRemainder() {
			ordered = append(ordered, b)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	plan := FIFOPlan{Shortfall: decimal.Zero}
	pending := quantity
	for _, b := range ordered {
		if !pending.IsPositive() {
			break
		}
		take := decimal.Min(pending, b.RemainingQuantity)
		plan.Allocations = append(plan.Allocations, Allocation{Batch: b, Quantity: take})
		pending = pending.Sub(take)
	}
	if pending.GreaterThan(tolerance) {
		plan.Shortfall = pending
	}
	return plan
}
