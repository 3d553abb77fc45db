package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/lotes-erp/internal/domain"
	"github.com/jhoicas/lotes-erp/internal/domain/entity"
	"github.com/jhoicas/lotes-erp/internal/domain/repository"
)

var _ repository.ProductionRepository = (*ProductionRepo)(nil)

const productionColumns = `id, performed_by, status, note, initial_weight, final_weight, prep_time, drying_time, smoking_time, boiling_time, total_cost, date, completed_at`

// ProductionRepo producciones con ítems y materiales sobre PostgreSQL.
type ProductionRepo struct {
	q Querier
}

// NewProductionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionRepository(q Querier) *ProductionRepo {
	return &ProductionRepo{q: q}
}

// Create inserta cabecera, materiales e ítems conservando el orden de las líneas.
func (r *ProductionRepo) Create(ctx context.Context, p *entity.Production) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO productions (`+productionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.PerformedBy, p.Status, p.Note, p.InitialWeight, p.FinalWeight,
		p.PrepTime, p.DryingTime, p.SmokingTime, p.BoilingTime, p.TotalCost, p.Date, p.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert production: %w", err)
	}
	for i, m := range p.Materials {
		_, err := r.q.Exec(ctx, `
			INSERT INTO production_materials (id, production_id, line_no, product_id, quantity_used, batch_id, total_cost, price_per_unit, details)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			m.ID, p.ID, i, m.ProductID, m.QuantityUsed, m.BatchID, m.TotalCost, m.PricePerUnit, jsonOrNull(m.Details),
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: material %s", domain.ErrInvalidInput, m.ProductID)
			}
			return fmt.Errorf("insert production material: %w", err)
		}
	}
	for i, it := range p.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO production_items (id, production_id, line_no, product_id, quantity_produced, calculated_cost_per_unit, batch_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, p.ID, i, it.ProductID, it.QuantityProduced, it.CalculatedCostPerUnit, it.BatchID,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: ítem %s", domain.ErrInvalidInput, it.ProductID)
			}
			return fmt.Errorf("insert production item: %w", err)
		}
	}
	return nil
}

// GetForUpdate carga la producción bloqueando la cabecera; nil si no existe.
func (r *ProductionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Production, error) {
	if !validID(id) {
		return nil, nil
	}
	p, err := scanProduction(r.q.QueryRow(ctx, `SELECT `+productionColumns+` FROM productions WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production: %w", err)
	}
	if err := r.loadLines(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SaveCompletion persiste el cierre: cabecera, costo congelado por material y costo unitario + lote por ítem.
func (r *ProductionRepo) SaveCompletion(ctx context.Context, p *entity.Production) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE productions SET status = $2, note = $3, final_weight = $4, prep_time = $5, drying_time = $6,
			smoking_time = $7, boiling_time = $8, total_cost = $9, completed_at = $10
		WHERE id = $1`,
		p.ID, p.Status, p.Note, p.FinalWeight, p.PrepTime, p.DryingTime,
		p.SmokingTime, p.BoilingTime, p.TotalCost, p.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update production: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrProductionNotFound, p.ID)
	}
	for _, m := range p.Materials {
		if _, err := r.q.Exec(ctx,
			`UPDATE production_materials SET total_cost = $2, price_per_unit = $3, details = $4 WHERE id = $1`,
			m.ID, m.TotalCost, m.PricePerUnit, jsonOrNull(m.Details),
		); err != nil {
			return fmt.Errorf("update production material: %w", err)
		}
	}
	for _, it := range p.Items {
		if _, err := r.q.Exec(ctx,
			`UPDATE production_items SET calculated_cost_per_unit = $2, batch_id = $3 WHERE id = $1`,
			it.ID, it.CalculatedCostPerUnit, it.BatchID,
		); err != nil {
			return fmt.Errorf("update production item: %w", err)
		}
	}
	return nil
}

// List producciones más recientes primero, con sus líneas.
func (r *ProductionRepo) List(ctx context.Context, limit, offset int) ([]*entity.Production, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+productionColumns+` FROM productions ORDER BY date DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list productions: %w", err)
	}
	var list []*entity.Production
	for rows.Next() {
		p, err := scanProduction(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan production: %w", err)
		}
		list = append(list, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// las líneas se cargan después de cerrar rows: una conexión/tx no admite dos consultas abiertas
	for _, p := range list {
		if err := r.loadLines(ctx, p); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *ProductionRepo) loadLines(ctx context.Context, p *entity.Production) error {
	mrows, err := r.q.Query(ctx, `
		SELECT id, production_id, product_id, quantity_used, batch_id, total_cost, price_per_unit, details
		FROM production_materials WHERE production_id = $1 ORDER BY line_no`, p.ID)
	if err != nil {
		return fmt.Errorf("list production materials: %w", err)
	}
	materials, err := pgx.CollectRows(mrows, func(row pgx.CollectableRow) (entity.ProductionMaterial, error) {
		var (
			m       entity.ProductionMaterial
			details []byte
		)
		err := row.Scan(&m.ID, &m.ProductionID, &m.ProductID, &m.QuantityUsed, &m.BatchID,
			&m.TotalCost, &m.PricePerUnit, &details)
		m.Details = details
		return m, err
	})
	if err != nil {
		return fmt.Errorf("scan production material: %w", err)
	}

	irows, err := r.q.Query(ctx, `
		SELECT id, production_id, product_id, quantity_produced, calculated_cost_per_unit, batch_id
		FROM production_items WHERE production_id = $1 ORDER BY line_no`, p.ID)
	if err != nil {
		return fmt.Errorf("list production items: %w", err)
	}
	items, err := pgx.CollectRows(irows, func(row pgx.CollectableRow) (entity.ProductionItem, error) {
		var it entity.ProductionItem
		err := row.Scan(&it.ID, &it.ProductionID, &it.ProductID, &it.QuantityProduced,
			&it.CalculatedCostPerUnit, &it.BatchID)
		return it, err
	})
	if err != nil {
		return fmt.Errorf("scan production item: %w", err)
	}

	p.Materials = materials
	p.Items = items
	return nil
}

func scanProduction(row pgx.Row) (*entity.Production, error) {
	var p entity.Production
	err := row.Scan(&p.ID, &p.PerformedBy, &p.Status, &p.Note, &p.InitialWeight, &p.FinalWeight,
		&p.PrepTime, &p.DryingTime, &p.SmokingTime, &p.BoilingTime, &p.TotalCost, &p.Date, &p.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
