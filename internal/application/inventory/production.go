package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-erp/internal/application/dto"
	"github.com/jhoicas/lotes-erp/internal/domain"
	"github.com/jhoicas/lotes-erp/internal/domain/entity"
	"github.com/jhoicas/lotes-erp/internal/domain/inventory"
	"github.com/jhoicas/lotes-erp/pkg/logger"
)

// ProductionUseCase registra producciones y, al completarlas, traslada el costo exacto
// de las materias primas consumidas a los lotes de producto terminado.
type ProductionUseCase struct {
	runner  TxRunner
	engine  *DeductionEngine
	audit   auditor
	log     *logger.Logger
	metrics Metrics
	now     func() time.Time
}

// NewProductionUseCase construye el caso de uso.
func NewProductionUseCase(runner TxRunner, engine *DeductionEngine, audit AuditSink, log *logger.Logger, metrics Metrics) *ProductionUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductionUseCase{
		runner:  runner,
		engine:  engine,
		audit:   newAuditor(audit, log),
		log:     log.Component("production"),
		metrics: orNopMetrics(metrics),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateProduction guarda la producción. Con status COMPLETED se completa en la misma transacción.
func (uc *ProductionUseCase) CreateProduction(ctx context.Context, userID string, in dto.CreateProductionRequest) (resp *dto.ProductionResponse, err error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveOperation("production_create", time.Since(start), err) }()

	for _, m := range in.Materials {
		if err := inventory.CheckQuantity(m.Quantity); err != nil {
			return nil, fmt.Errorf("material %s: %w", m.ProductID, err)
		}
	}
	for _, it := range in.Items {
		if err := inventory.CheckQuantity(it.Quantity); err != nil {
			return nil, fmt.Errorf("ítem %s: %w", it.ProductID, err)
		}
	}

	var out *entity.Production
	err = uc.runner.Run(ctx, func(ctx context.Context, tx Tx) error {
		p := uc.newProduction(userID, in)
		for _, id := range productionProductIDs(p) {
			product, err := tx.Products.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("production: product: %w", err)
			}
			if product == nil {
				return fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
			}
		}
		for _, m := range p.Materials {
			if m.BatchID == nil {
				continue
			}
			batch, err := tx.Batches.GetByID(ctx, *m.BatchID)
			if err != nil {
				return fmt.Errorf("production: batch: %w", err)
			}
			if batch == nil || batch.ProductID != m.ProductID {
				return fmt.Errorf("%w: %s", domain.ErrBatchNotFound, *m.BatchID)
			}
		}
		if err := tx.Productions.Create(ctx, p); err != nil {
			return fmt.Errorf("production: create: %w", err)
		}
		if in.Status == entity.ProductionStatusCompleted {
			if err := uc.complete(ctx, tx, p, userID); err != nil {
				return err
			}
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	r := toProductionResponse(out)
	uc.audit.record(ctx, userID, AuditProductionCreated, r)
	if out.IsCompleted() {
		uc.audit.record(ctx, userID, AuditProductionCompleted, r)
	}
	return &r, nil
}

// CompleteProduction pasa una producción IN_PROGRESS a COMPLETED: descuenta materiales,
// costea los productos obtenidos y crea sus lotes. Todo o nada.
func (uc *ProductionUseCase) CompleteProduction(ctx context.Context, userID, productionID string, in dto.CompleteProductionRequest) (resp *dto.ProductionResponse, err error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveOperation("production_complete", time.Since(start), err) }()

	var out *entity.Production
	err = uc.runner.Run(ctx, func(ctx context.Context, tx Tx) error {
		p, err := tx.Productions.GetForUpdate(ctx, productionID)
		if err != nil {
			return fmt.Errorf("production: get: %w", err)
		}
		if p == nil {
			return fmt.Errorf("%w: %s", domain.ErrProductionNotFound, productionID)
		}
		if p.IsCompleted() {
			return fmt.Errorf("%w: la producción %s ya está completada", domain.ErrConflict, productionID)
		}
		applyCompletionFields(p, in)
		if err := uc.complete(ctx, tx, p, userID); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	r := toProductionResponse(out)
	uc.audit.record(ctx, userID, AuditProductionCompleted, r)
	return &r, nil
}

// ListProductions historial de producciones, más recientes primero.
func (uc *ProductionUseCase) ListProductions(ctx context.Context, page dto.PageRequest) (*dto.ProductionListResponse, error) {
	page.DefaultPage()
	var list []*entity.Production
	err := uc.runner.Run(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		list, err = tx.Productions.List(ctx, page.Limit, page.Offset)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("production: list: %w", err)
	}
	resp := &dto.ProductionListResponse{
		Items: make([]dto.ProductionResponse, 0, len(list)),
		Page:  page.Response(),
	}
	for _, p := range list {
		resp.Items = append(resp.Items, toProductionResponse(p))
	}
	return resp, nil
}

// complete aplica el cierre sobre tx.
//
// Cada ítem producido recibe el costo total de la producción dividido por su propia cantidad;
// con varios ítems el costo no se reparte entre ellos.
func (uc *ProductionUseCase) complete(ctx context.Context, tx Tx, p *entity.Production, userID string) error {
	for _, it := range p.Items {
		if err := inventory.CheckQuantity(it.QuantityProduced); err != nil {
			return fmt.Errorf("ítem %s: %w", it.ProductID, err)
		}
	}

	total := decimal.Zero
	for i := range p.Materials {
		m := &p.Materials[i]
		rec, err := uc.engine.Deduct(ctx, tx, DeductionInput{
			ProductID:     m.ProductID,
			Quantity:      m.QuantityUsed,
			BatchID:       m.BatchID,
			MovementType:  entity.MovementTypeProductionOut,
			TransactionID: p.ID,
			UserID:        userID,
		})
		if err != nil {
			return fmt.Errorf("production %s: material %s: %w", p.ID, m.ProductID, err)
		}
		details, err := rec.Details()
		if err != nil {
			return fmt.Errorf("production: details: %w", err)
		}
		cost, price := rec.TotalCost, rec.UnitPrice()
		m.TotalCost, m.PricePerUnit, m.Details = &cost, &price, details
		total = total.Add(rec.TotalCost)
	}

	now := uc.now()
	for i := range p.Items {
		it := &p.Items[i]
		unitCost := inventory.UnitCost(total, it.QuantityProduced)
		it.CalculatedCostPerUnit = unitCost

		product, err := tx.Products.GetForUpdate(ctx, it.ProductID)
		if err != nil {
			return fmt.Errorf("production: output product: %w", err)
		}
		if product == nil {
			return fmt.Errorf("%w: %s", domain.ErrProductNotFound, it.ProductID)
		}
		avg := inventory.CostCalculator(product.CurrentStock, product.AveragePurchasePrice, it.QuantityProduced, unitCost)
		if err := tx.Products.UpdateAveragePrice(ctx, product.ID, avg); err != nil {
			return fmt.Errorf("production: average price: %w", err)
		}
		if _, err := tx.Products.AdjustStock(ctx, product.ID, it.QuantityProduced); err != nil {
			return fmt.Errorf("production: adjust stock: %w", err)
		}

		itemID := it.ID
		batch := &entity.Batch{
			ID:                uuid.New().String(),
			ProductID:         product.ID,
			InitialQuantity:   it.QuantityProduced,
			RemainingQuantity: it.QuantityProduced,
			PricePerUnit:      unitCost,
			ProductionItemID:  &itemID,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := tx.Batches.Create(ctx, batch); err != nil {
			return fmt.Errorf("production: output batch: %w", err)
		}
		batchID := batch.ID
		it.BatchID = &batchID

		if err := tx.Movements.Create(ctx, &entity.InventoryMovement{
			ID:            uuid.New().String(),
			TransactionID: p.ID,
			ProductID:     product.ID,
			BatchID:       &batchID,
			Type:          entity.MovementTypeProductionIn,
			Quantity:      it.QuantityProduced,
			UnitCost:      unitCost,
			TotalCost:     it.QuantityProduced.Mul(unitCost),
			Date:          now,
			CreatedBy:     userID,
		}); err != nil {
			return fmt.Errorf("production: movement: %w", err)
		}
	}

	p.Status = entity.ProductionStatusCompleted
	p.TotalCost = &total
	p.CompletedAt = &now
	if err := tx.Productions.SaveCompletion(ctx, p); err != nil {
		return fmt.Errorf("production: save completion: %w", err)
	}
	uc.log.Info().Str("production_id", p.ID).Str("total_cost", total.String()).Msg("producción completada")
	return nil
}

func (uc *ProductionUseCase) newProduction(userID string, in dto.CreateProductionRequest) *entity.Production {
	p := &entity.Production{
		ID:            uuid.New().String(),
		PerformedBy:   userID,
		Status:        entity.ProductionStatusInProgress,
		Note:          in.Note,
		InitialWeight: in.InitialWeight,
		FinalWeight:   in.FinalWeight,
		PrepTime:      in.PrepTime,
		DryingTime:    in.DryingTime,
		SmokingTime:   in.SmokingTime,
		BoilingTime:   in.BoilingTime,
		Date:          uc.now(),
	}
	for _, m := range in.Materials {
		p.Materials = append(p.Materials, entity.ProductionMaterial{
			ID:           uuid.New().String(),
			ProductionID: p.ID,
			ProductID:    m.ProductID,
			QuantityUsed: m.Quantity,
			BatchID:      m.BatchID,
		})
	}
	for _, it := range in.Items {
		p.Items = append(p.Items, entity.ProductionItem{
			ID:               uuid.New().String(),
			ProductionID:     p.ID,
			ProductID:        it.ProductID,
			QuantityProduced: it.Quantity,
		})
	}
	return p
}

func applyCompletionFields(p *entity.Production, in dto.CompleteProductionRequest) {
	if in.Note != nil {
		p.Note = *in.Note
	}
	if in.FinalWeight != nil {
		p.FinalWeight = in.FinalWeight
	}
	if in.PrepTime != nil {
		p.PrepTime = in.PrepTime
	}
	if in.DryingTime != nil {
		p.DryingTime = in.DryingTime
	}
	if in.SmokingTime != nil {
		p.SmokingTime = in.SmokingTime
	}
	if in.BoilingTime != nil {
		p.BoilingTime = in.BoilingTime
	}
}

func productionProductIDs(p *entity.Production) []string {
	seen := map[string]bool{}
	var ids []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, m := range p.Materials {
		add(m.ProductID)
	}
	for _, it := range p.Items {
		add(it.ProductID)
	}
	return ids
}
