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

// ProcurementUseCase recibe compras: cada ítem genera un lote y actualiza el precio promedio.
type ProcurementUseCase struct {
	runner  TxRunner
	audit   auditor
	metrics Metrics
	now     func() time.Time
}

// NewProcurementUseCase construye el caso de uso.
func NewProcurementUseCase(runner TxRunner, audit AuditSink, log *logger.Logger, metrics Metrics) *ProcurementUseCase {
	return &ProcurementUseCase{
		runner:  runner,
		audit:   newAuditor(audit, log),
		metrics: orNopMetrics(metrics),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ReceiveProcurement registra la compra y sus lotes en una transacción.
func (uc *ProcurementUseCase) ReceiveProcurement(ctx context.Context, userID string, in dto.CreateProcurementRequest) (resp *dto.ProcurementResponse, err error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveOperation("procurement", time.Since(start), err) }()

	for _, it := range in.Items {
		if err := inventory.CheckQuantity(it.Quantity); err != nil {
			return nil, err
		}
		if it.PricePerUnit.IsNegative() {
			return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
		}
	}

	batchByItem := map[string]string{}
	var proc *entity.Procurement
	err = uc.runner.Run(ctx, func(ctx context.Context, tx Tx) error {
		// productos bloqueados antes de insertar los ítems que los referencian
		for _, id := range procurementProductIDs(in.Items) {
			product, err := tx.Products.GetForUpdate(ctx, id)
			if err != nil {
				return fmt.Errorf("procurement: product: %w", err)
			}
			if product == nil {
				return fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
			}
		}

		now := uc.now()
		proc = &entity.Procurement{
			ID:            uuid.New().String(),
			Supplier:      in.Supplier,
			PaymentSource: in.PaymentSource,
			Status:        entity.ProcurementStatusCompleted,
			TotalAmount:   decimal.Zero,
			UserID:        userID,
			Date:          now,
		}
		for _, it := range in.Items {
			proc.Items = append(proc.Items, entity.ProcurementItem{
				ID:            uuid.New().String(),
				ProcurementID: proc.ID,
				ProductID:     it.ProductID,
				Quantity:      it.Quantity,
				PricePerUnit:  it.PricePerUnit,
			})
			proc.TotalAmount = proc.TotalAmount.Add(it.Quantity.Mul(it.PricePerUnit))
		}
		if err := tx.Procurements.Create(ctx, proc); err != nil {
			return fmt.Errorf("procurement: create: %w", err)
		}

		for _, it := range proc.Items {
			product, err := tx.Products.GetForUpdate(ctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("procurement: product: %w", err)
			}
			if product == nil {
				return fmt.Errorf("%w: %s", domain.ErrProductNotFound, it.ProductID)
			}
			avg := inventory.CostCalculator(product.CurrentStock, product.AveragePurchasePrice, it.Quantity, it.PricePerUnit)
			if err := tx.Products.UpdateAveragePrice(ctx, product.ID, avg); err != nil {
				return fmt.Errorf("procurement: average price: %w", err)
			}
			if _, err := tx.Products.AdjustStock(ctx, product.ID, it.Quantity); err != nil {
				return fmt.Errorf("procurement: adjust stock: %w", err)
			}

			itemID := it.ID
			batch := &entity.Batch{
				ID:                uuid.New().String(),
				ProductID:         product.ID,
				InitialQuantity:   it.Quantity,
				RemainingQuantity: it.Quantity,
				PricePerUnit:      it.PricePerUnit.Round(inventory.PriceScale),
				ProcurementItemID: &itemID,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			if err := tx.Batches.Create(ctx, batch); err != nil {
				return fmt.Errorf("procurement: batch: %w", err)
			}
			batchByItem[it.ID] = batch.ID

			batchID := batch.ID
			if err := tx.Movements.Create(ctx, &entity.InventoryMovement{
				ID:            uuid.New().String(),
				TransactionID: proc.ID,
				ProductID:     product.ID,
				BatchID:       &batchID,
				Type:          entity.MovementTypeProcurement,
				Quantity:      it.Quantity,
				UnitCost:      batch.PricePerUnit,
				TotalCost:     it.Quantity.Mul(it.PricePerUnit),
				Note:          in.Supplier,
				Date:          now,
				CreatedBy:     userID,
			}); err != nil {
				return fmt.Errorf("procurement: movement: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp = &dto.ProcurementResponse{
		ID:            proc.ID,
		Supplier:      proc.Supplier,
		PaymentSource: proc.PaymentSource,
		Status:        proc.Status,
		TotalAmount:   proc.TotalAmount,
		Date:          proc.Date,
		Items:         make([]dto.ProcurementItemResponse, 0, len(proc.Items)),
	}
	for _, it := range proc.Items {
		resp.Items = append(resp.Items, dto.ProcurementItemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			PricePerUnit: it.PricePerUnit,
			BatchID:      batchByItem[it.ID],
		})
	}
	uc.audit.record(ctx, userID, AuditProcurementReceived, resp)
	return resp, nil
}

func procurementProductIDs(items []dto.ProcurementItemRequest) []string {
	seen := map[string]bool{}
	var ids []string
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	sort.Strings(ids)
	return ids
}
