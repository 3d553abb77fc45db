package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/lotes-erp/internal/domain/entity"
	"github.com/jhoicas/lotes-erp/internal/domain/repository"
)

var _ repository.BatchMergeRepository = (*BatchMergeRepo)(nil)

// BatchMergeRepo historial de fusiones; solo INSERT y SELECT.
type BatchMergeRepo struct {
	q Querier
}

// NewBatchMergeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchMergeRepository(q Querier) *BatchMergeRepo {
	return &BatchMergeRepo{q: q}
}

func (r *BatchMergeRepo) Create(ctx context.Context, m *entity.BatchMerge) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO batch_merges (id, product_id, direction, source_batch_id, source_description, target_batch_id, quantity, price_at_merge, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.ProductID, m.Direction, m.SourceBatchID, m.SourceDescription,
		m.TargetBatchID, m.Quantity, m.PriceAtMerge, m.UserID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert batch merge: %w", err)
	}
	return nil
}

// ListByProduct fusiones etiquetadas al producto, más recientes primero.
func (r *BatchMergeRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.BatchMerge, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, direction, source_batch_id, source_description, target_batch_id, quantity, price_at_merge, user_id, created_at
		FROM batch_merges WHERE product_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list batch merges: %w", err)
	}
	defer rows.Close()
	var list []*entity.BatchMerge
	for rows.Next() {
		var m entity.BatchMerge
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Direction, &m.SourceBatchID, &m.SourceDescription,
			&m.TargetBatchID, &m.Quantity, &m.PriceAtMerge, &m.UserID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan batch merge: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
