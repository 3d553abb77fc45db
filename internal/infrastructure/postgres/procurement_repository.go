package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-erp/internal/domain/entity"
	"github.com/jhoicas/lotes-erp/internal/domain/repository"
)

var _ repository.ProcurementRepository = (*ProcurementRepo)(nil)

// ProcurementRepo abastecimientos sobre PostgreSQL.
type ProcurementRepo struct {
	q Querier
}

// NewProcurementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProcurementRepository(q Querier) *ProcurementRepo {
	return &ProcurementRepo{q: q}
}

// Create inserta la cabecera y sus ítems. Debe correr dentro de una transacción.
func (r *ProcurementRepo) Create(ctx context.Context, p *entity.Procurement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO procurements (id, supplier, payment_source, status, total_amount, user_id, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Supplier, p.PaymentSource, p.Status, p.TotalAmount, p.UserID, p.Date,
	)
	if err != nil {
		return fmt.Errorf("insert procurement: %w", err)
	}
	for _, it := range p.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO procurement_items (id, procurement_id, product_id, quantity, price_per_unit)
			VALUES ($1, $2, $3, $4, $5)`,
			it.ID, p.ID, it.ProductID, it.Quantity, it.PricePerUnit,
		)
		if err != nil {
			return fmt.Errorf("insert procurement item: %w", err)
		}
	}
	return nil
}

// LastPriceForProduct precio unitario de la compra más reciente del producto; nil si nunca se compró.
func (r *ProcurementRepo) LastPriceForProduct(ctx context.Context, productID string) (*decimal.Decimal, error) {
	var price decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT pi.price_per_unit
		FROM procurement_items pi
		JOIN procurements p ON p.id = pi.procurement_id
		WHERE pi.product_id = $1
		ORDER BY p.date DESC, pi.id DESC
		LIMIT 1`, productID,
	).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("last procurement price: %w", err)
	}
	return &price, nil
}
