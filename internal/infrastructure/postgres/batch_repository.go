package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-erp/internal/domain"
	"github.com/jhoicas/lotes-erp/internal/domain/entity"
	"github.com/jhoicas/lotes-erp/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, product_id, initial_quantity, remaining_quantity, price_per_unit, procurement_item_id, production_item_id, created_at, updated_at`

// BatchRepo implementación del almacén de lotes sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persiste un lote nuevo (abastecimiento o salida de producción).
func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO batches (`+batchColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		b.ID, b.ProductID, b.InitialQuantity, b.RemainingQuantity, b.PricePerUnit,
		b.ProcurementItemID, b.ProductionItemID, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID sin bloquearlo.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.Batch, error) {
	return r.get(ctx, `SELECT `+batchColumns+` FROM batches WHERE id = $1`, id)
}

// GetForUpdate obtiene y bloquea el lote hasta el fin de la transacción.
func (r *BatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.Batch, error) {
	return r.get(ctx, `SELECT `+batchColumns+` FROM batches WHERE id = $1 FOR UPDATE`, id)
}

func (r *BatchRepo) get(ctx context.Context, query, id string) (*entity.Batch, error) {
	if !validID(id) {
		return nil, nil
	}
	b, err := scanBatch(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// ListAvailableForUpdate lotes con saldo del producto en orden FIFO, bloqueados en ese mismo orden.
func (r *BatchRepo) ListAvailableForUpdate(ctx context.Context, productID string) ([]*entity.Batch, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+batchColumns+` FROM batches
		WHERE product_id = $1 AND remaining_quantity > 0
		ORDER BY created_at ASC, id ASC
		FOR UPDATE`, productID)
	if err != nil {
		return nil, fmt.Errorf("list available batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// UpdateRemaining fija el saldo del lote.
func (r *BatchRepo) UpdateRemaining(ctx context.Context, id string, remaining decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE batches SET remaining_quantity = $2, updated_at = now() WHERE id = $1`, id, remaining)
	if err != nil {
		return fmt.Errorf("update batch remaining: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrBatchNotFound, id)
	}
	return nil
}

// UpdateQuantityAndPrice saldo y precio del destino de una fusión. created_at no se toca.
func (r *BatchRepo) UpdateQuantityAndPrice(ctx context.Context, id string, remaining, price decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE batches SET remaining_quantity = $2, price_per_unit = $3, updated_at = now() WHERE id = $1`,
		id, remaining, price)
	if err != nil {
		return fmt.Errorf("update batch quantity and price: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrBatchNotFound, id)
	}
	return nil
}

// Delete elimina un lote (origen de una fusión completa).
func (r *BatchRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrBatchNotFound, id)
	}
	return nil
}

// ListAvailable lotes con saldo de un producto o categoría con su origen (proveedor o producción).
func (r *BatchRepo) ListAvailable(ctx context.Context, f repository.BatchFilter) ([]*entity.BatchView, error) {
	query := `
		SELECT b.id, b.product_id, b.initial_quantity, b.remaining_quantity, b.price_per_unit,
		       b.procurement_item_id, b.production_item_id, b.created_at, b.updated_at,
		       p.name, p.unit, p.category_id,
		       COALESCE(pr.supplier, ''), pr.id, pi.production_id
		FROM batches b
		JOIN products p ON p.id = b.product_id
		LEFT JOIN procurement_items pit ON pit.id = b.procurement_item_id
		LEFT JOIN procurements pr ON pr.id = pit.procurement_id
		LEFT JOIN production_items pi ON pi.id = b.production_item_id
		WHERE b.remaining_quantity > 0`
	var arg string
	switch {
	case f.ProductID != "":
		query += ` AND b.product_id = $1`
		arg = f.ProductID
	case f.CategoryID != "":
		query += ` AND p.category_id = $1`
		arg = f.CategoryID
	default:
		return nil, fmt.Errorf("%w: filtro de lotes vacío", domain.ErrInvalidInput)
	}
	if !validID(arg) {
		return nil, nil
	}
	query += ` ORDER BY b.created_at ASC, b.id ASC`

	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.BatchView
	for rows.Next() {
		var v entity.BatchView
		if err := rows.Scan(&v.ID, &v.ProductID, &v.InitialQuantity, &v.RemainingQuantity, &v.PricePerUnit,
			&v.ProcurementItemID, &v.ProductionItemID, &v.CreatedAt, &v.UpdatedAt,
			&v.ProductName, &v.Unit, &v.CategoryID,
			&v.Supplier, &v.ProcurementID, &v.ProductionID); err != nil {
			return nil, fmt.Errorf("scan batch view: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	err := row.Scan(&b.ID, &b.ProductID, &b.InitialQuantity, &b.RemainingQuantity, &b.PricePerUnit,
		&b.ProcurementItemID, &b.ProductionItemID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
