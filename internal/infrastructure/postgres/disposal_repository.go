package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/lotes-erp/internal/domain/entity"
	"github.com/jhoicas/lotes-erp/internal/domain/repository"
)

var _ repository.DisposalRepository = (*DisposalRepo)(nil)

// DisposalRepo bajas de inventario sobre PostgreSQL.
type DisposalRepo struct {
	q Querier
}

// NewDisposalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDisposalRepository(q Querier) *DisposalRepo {
	return &DisposalRepo{q: q}
}

// Create persiste la baja con el detalle de lotes consumidos (JSONB).
func (r *DisposalRepo) Create(ctx context.Context, d *entity.Disposal) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO disposals (id, product_id, batch_id, quantity, reason, user_id, total_cost, price_per_unit, details, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		d.ID, d.ProductID, d.BatchID, d.Quantity, d.Reason, d.UserID,
		d.TotalCost, d.PricePerUnit, jsonOrNull(d.Details), d.Date,
	)
	if err != nil {
		return fmt.Errorf("insert disposal: %w", err)
	}
	return nil
}
