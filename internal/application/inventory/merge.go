package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-erp/internal/application/dto"
	"github.com/jhoicas/lotes-erp/internal/domain"
	"github.com/jhoicas/lotes-erp/internal/domain/entity"
	"github.com/jhoicas/lotes-erp/internal/domain/inventory"
	"github.com/jhoicas/lotes-erp/pkg/logger"
)

// MergeUseCase fusiona lotes recalculando el precio del destino por promedio ponderado.
type MergeUseCase struct {
	runner  TxRunner
	audit   auditor
	log     *logger.Logger
	metrics Metrics
	now     func() time.Time
}

// NewMergeUseCase construye el caso de uso.
func NewMergeUseCase(runner TxRunner, audit AuditSink, log *logger.Logger, metrics Metrics) *MergeUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &MergeUseCase{
		runner:  runner,
		audit:   newAuditor(audit, log),
		log:     log.Component("merge"),
		metrics: orNopMetrics(metrics),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// MergeInput parámetros de una fusión. ProductID debe ser el producto del lote destino.
type MergeInput struct {
	ProductID     string
	SourceBatchID string
	TargetBatchID string
	Quantity      *decimal.Decimal // nil = todo el saldo del origen
	UserID        string
}

type mergeOutcome struct {
	source *entity.Batch
	target *entity.Batch
	plan   inventory.MergePlan
}

// MergeBatches ejecuta la fusión en su propia transacción.
func (uc *MergeUseCase) MergeBatches(ctx context.Context, in MergeInput) (resp *dto.MergeBatchesResponse, err error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveOperation("merge", time.Since(start), err) }()

	var out mergeOutcome
	err = uc.runner.Run(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		out, err = uc.merge(ctx, tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp = &dto.MergeBatchesResponse{
		Target:          toBatchResponse(out.target),
		SourceBatchID:   out.source.ID,
		SourceDeleted:   out.plan.FullMerge,
		SourceRemaining: out.plan.SourceRemaining,
		Quantity:        out.plan.Quantity,
		PriceAtMerge:    out.source.PricePerUnit,
		CrossProduct:    out.plan.CrossProduct,
	}
	uc.audit.record(ctx, in.UserID, AuditBatchesMerged, resp)
	return resp, nil
}

// ConsolidateProduct fusiona por completo todos los demás lotes con saldo del producto en targetBatchID.
func (uc *MergeUseCase) ConsolidateProduct(ctx context.Context, productID, targetBatchID, userID string) (resp *dto.ConsolidateProductResponse, err error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveOperation("consolidate", time.Since(start), err) }()

	var target *entity.Batch
	var merged []string
	err = uc.runner.Run(ctx, func(ctx context.Context, tx Tx) error {
		target, merged = nil, nil

		product, err := tx.Products.GetForUpdate(ctx, productID)
		if err != nil {
			return fmt.Errorf("consolidate: product: %w", err)
		}
		if product == nil {
			return fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
		}
		t, err := tx.Batches.GetByID(ctx, targetBatchID)
		if err != nil {
			return fmt.Errorf("consolidate: target: %w", err)
		}
		if t == nil || t.ProductID != productID {
			return fmt.Errorf("%w: %s", domain.ErrBatchNotFound, targetBatchID)
		}

		batches, err := tx.Batches.ListAvailableForUpdate(ctx, productID)
		if err != nil {
			return fmt.Errorf("consolidate: list batches: %w", err)
		}
		for _, b := range batches {
			if b.ID == targetBatchID {
				continue
			}
			out, err := uc.merge(ctx, tx, MergeInput{
				ProductID:     productID,
				SourceBatchID: b.ID,
				TargetBatchID: targetBatchID,
				UserID:        userID,
			})
			if err != nil {
				return err
			}
			target = out.target
			merged = append(merged, b.ID)
		}
		if target == nil {
			target = t
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if merged == nil {
		merged = []string{}
	}
	resp = &dto.ConsolidateProductResponse{Target: toBatchResponse(target), MergedBatches: merged}
	uc.audit.record(ctx, userID, AuditProductConsolidated, resp)
	return resp, nil
}

// merge aplica una fusión sobre tx. Bloquea primero los productos y luego los lotes,
// cada grupo en orden de id, igual que el descuento (producto antes que lotes).
func (uc *MergeUseCase) merge(ctx context.Context, tx Tx, in MergeInput) (mergeOutcome, error) {
	if in.SourceBatchID == in.TargetBatchID {
		return mergeOutcome{}, fmt.Errorf("%w: origen y destino son el mismo lote", domain.ErrInvalidInput)
	}

	// lectura sin bloqueo solo para conocer los productos y fijar el orden de los bloqueos
	src, err := tx.Batches.GetByID(ctx, in.SourceBatchID)
	if err != nil {
		return mergeOutcome{}, fmt.Errorf("merge: source: %w", err)
	}
	if src == nil {
		return mergeOutcome{}, fmt.Errorf("%w: %s", domain.ErrBatchNotFound, in.SourceBatchID)
	}
	dst, err := tx.Batches.GetByID(ctx, in.TargetBatchID)
	if err != nil {
		return mergeOutcome{}, fmt.Errorf("merge: target: %w", err)
	}
	if dst == nil {
		return mergeOutcome{}, fmt.Errorf("%w: %s", domain.ErrBatchNotFound, in.TargetBatchID)
	}
	if dst.ProductID != in.ProductID {
		return mergeOutcome{}, fmt.Errorf("%w: el lote destino no pertenece al producto %s", domain.ErrInvalidInput, in.ProductID)
	}

	products := map[string]*entity.Product{}
	for _, id := range sortedUnique(src.ProductID, dst.ProductID) {
		p, err := tx.Products.GetForUpdate(ctx, id)
		if err != nil {
			return mergeOutcome{}, fmt.Errorf("merge: product: %w", err)
		}
		if p == nil {
			return mergeOutcome{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
		}
		products[id] = p
	}

	locked := map[string]*entity.Batch{}
	for _, id := range sortedUnique(src.ID, dst.ID) {
		b, err := tx.Batches.GetForUpdate(ctx, id)
		if err != nil {
			return mergeOutcome{}, fmt.Errorf("merge: lock batch: %w", err)
		}
		if b == nil {
			return mergeOutcome{}, fmt.Errorf("%w: %s", domain.ErrBatchNotFound, id)
		}
		locked[id] = b
	}
	source, target := locked[src.ID], locked[dst.ID]

	plan, err := inventory.PlanMerge(source, target, in.Quantity)
	if err != nil {
		return mergeOutcome{}, err
	}

	if err := tx.Batches.UpdateQuantityAndPrice(ctx, target.ID, plan.NewTargetQuantity, plan.NewTargetPrice); err != nil {
		return mergeOutcome{}, fmt.Errorf("merge: update target: %w", err)
	}
	if plan.FullMerge {
		if err := tx.Batches.Delete(ctx, source.ID); err != nil {
			return mergeOutcome{}, fmt.Errorf("merge: delete source: %w", err)
		}
	} else {
		if err := tx.Batches.UpdateRemaining(ctx, source.ID, plan.SourceRemaining); err != nil {
			return mergeOutcome{}, fmt.Errorf("merge: update source: %w", err)
		}
	}

	now := uc.now()
	description := fmt.Sprintf("Lote %s · %s · %s @ %s",
		shortID(source.ID), products[source.ProductID].Name, plan.Quantity, source.PricePerUnit)
	inRecord := &entity.BatchMerge{
		ID:                uuid.New().String(),
		ProductID:         target.ProductID,
		Direction:         entity.MergeDirectionIn,
		SourceBatchID:     source.ID,
		SourceDescription: description,
		TargetBatchID:     target.ID,
		Quantity:          plan.Quantity,
		PriceAtMerge:      source.PricePerUnit,
		UserID:            in.UserID,
		CreatedAt:         now,
	}
	if err := tx.Merges.Create(ctx, inRecord); err != nil {
		return mergeOutcome{}, fmt.Errorf("merge: record: %w", err)
	}

	if plan.CrossProduct {
		outRecord := *inRecord
		outRecord.ID = uuid.New().String()
		outRecord.ProductID = source.ProductID
		outRecord.Direction = entity.MergeDirectionOut
		outRecord.SourceDescription = fmt.Sprintf("Transferido a %s (lote %s)",
			products[target.ProductID].Name, shortID(target.ID))
		if err := tx.Merges.Create(ctx, &outRecord); err != nil {
			return mergeOutcome{}, fmt.Errorf("merge: record out: %w", err)
		}
		if err := uc.transferStock(ctx, tx, source, target, plan, in.UserID, now); err != nil {
			return mergeOutcome{}, err
		}
	}

	target.RemainingQuantity = plan.NewTargetQuantity
	target.PricePerUnit = plan.NewTargetPrice
	target.UpdatedAt = now
	source.RemainingQuantity = plan.SourceRemaining
	return mergeOutcome{source: source, target: target, plan: plan}, nil
}

// transferStock mueve la cantidad fusionada entre los stocks agregados de ambos productos.
func (uc *MergeUseCase) transferStock(ctx context.Context, tx Tx, source, target *entity.Batch, plan inventory.MergePlan, userID string, now time.Time) error {
	newStock, err := tx.Products.AdjustStock(ctx, source.ProductID, plan.Quantity.Neg())
	if err != nil {
		return fmt.Errorf("merge: adjust source stock: %w", err)
	}
	if newStock.IsNegative() {
		uc.metrics.IncNegativeStock()
		uc.log.Warn().Str("product_id", source.ProductID).Str("stock", newStock.String()).
			Msg("stock agregado negativo tras fusión")
	}
	if _, err := tx.Products.AdjustStock(ctx, target.ProductID, plan.Quantity); err != nil {
		return fmt.Errorf("merge: adjust target stock: %w", err)
	}

	txID := uuid.New().String()
	sourceID, targetID := source.ID, target.ID
	value := plan.Quantity.Mul(source.PricePerUnit)
	movements := []*entity.InventoryMovement{
		{
			ID:            uuid.New().String(),
			TransactionID: txID,
			ProductID:     source.ProductID,
			BatchID:       &sourceID,
			Type:          entity.MovementTypeMergeOut,
			Quantity:      plan.Quantity.Neg(),
			UnitCost:      source.PricePerUnit,
			TotalCost:     value,
			Date:          now,
			CreatedBy:     userID,
		},
		{
			ID:            uuid.New().String(),
			TransactionID: txID,
			ProductID:     target.ProductID,
			BatchID:       &targetID,
			Type:          entity.MovementTypeMergeIn,
			Quantity:      plan.Quantity,
			UnitCost:      source.PricePerUnit,
			TotalCost:     value,
			Date:          now,
			CreatedBy:     userID,
		},
	}
	if plan.FullMerge {
		movements[0].BatchID = nil
	}
	for _, m := range movements {
		if err := tx.Movements.Create(ctx, m); err != nil {
			return fmt.Errorf("merge: movement: %w", err)
		}
	}
	return nil
}

func sortedUnique(a, b string) []string {
	if a == b {
		return []string{a}
	}
	ids := []string{a, b}
	sort.Strings(ids)
	return ids
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
