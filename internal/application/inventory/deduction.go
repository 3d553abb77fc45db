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

// DeductionEngine descuenta stock de los lotes de un producto y devuelve el costo exacto consumido.
// Trabaja siempre sobre la transacción recibida; no hace commit ni rollback.
type DeductionEngine struct {
	log       *logger.Logger
	metrics   Metrics
	tolerance decimal.Decimal
	now       func() time.Time
}

// NewDeductionEngine construye el motor. tolerance <= 0 usa inventory.DefaultTolerance.
func NewDeductionEngine(log *logger.Logger, metrics Metrics, tolerance decimal.Decimal) *DeductionEngine {
	if log == nil {
		log = logger.Nop()
	}
	if !tolerance.IsPositive() {
		tolerance = inventory.DefaultTolerance
	}
	return &DeductionEngine{
		log:       log.Component("deduction"),
		metrics:   orNopMetrics(metrics),
		tolerance: tolerance,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// DeductionInput parámetros de un descuento.
type DeductionInput struct {
	ProductID     string
	Quantity      decimal.Decimal
	BatchID       *string // nil = FIFO
	MovementType  string
	TransactionID string // venta, producción o baja que origina el descuento
	UserID        string
	Note          string
}

// Deduct aplica el descuento dentro de tx.
//
// Con lote forzado la cantidad sale solo de ese lote y debe alcanzar su saldo.
// Sin lote se consumen los lotes del más antiguo al más nuevo; lo que falte se cobra
// al precio de respaldo en una línea sin lote. El stock agregado siempre baja en la
// cantidad pedida, aunque quede negativo.
func (e *DeductionEngine) Deduct(ctx context.Context, tx Tx, in DeductionInput) (inventory.DeductionRecord, error) {
	var rec inventory.DeductionRecord
	if err := inventory.CheckQuantity(in.Quantity); err != nil {
		return rec, err
	}

	product, err := tx.Products.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return rec, fmt.Errorf("deduct: product: %w", err)
	}
	if product == nil {
		return rec, fmt.Errorf("%w: %s", domain.ErrProductNotFound, in.ProductID)
	}

	if in.BatchID != nil {
		if err := e.deductFromBatch(ctx, tx, &rec, in); err != nil {
			return rec, err
		}
	} else {
		if err := e.deductFIFO(ctx, tx, &rec, product, in); err != nil {
			return rec, err
		}
	}

	newStock, err := tx.Products.AdjustStock(ctx, product.ID, in.Quantity.Neg())
	if err != nil {
		return rec, fmt.Errorf("deduct: adjust stock: %w", err)
	}
	if newStock.IsNegative() {
		e.metrics.IncNegativeStock()
		e.log.Warn().
			Str("product_id", product.ID).
			Str("requested", in.Quantity.String()).
			Str("stock", newStock.String()).
			Msg("stock agregado negativo tras descuento")
	}

	mov := &entity.InventoryMovement{
		ID:            uuid.New().String(),
		TransactionID: in.TransactionID,
		ProductID:     product.ID,
		BatchID:       in.BatchID,
		Type:          in.MovementType,
		Quantity:      in.Quantity.Neg(),
		UnitCost:      rec.UnitPrice(),
		TotalCost:     rec.TotalCost,
		Note:          in.Note,
		Date:          e.now(),
		CreatedBy:     in.UserID,
	}
	if err := tx.Movements.Create(ctx, mov); err != nil {
		return rec, fmt.Errorf("deduct: movement: %w", err)
	}
	return rec, nil
}

func (e *DeductionEngine) deductFromBatch(ctx context.Context, tx Tx, rec *inventory.DeductionRecord, in DeductionInput) error {
	batch, err := tx.Batches.GetForUpdate(ctx, *in.BatchID)
	if err != nil {
		return fmt.Errorf("deduct: batch: %w", err)
	}
	if batch == nil || batch.ProductID != in.ProductID {
		return fmt.Errorf("%w: %s", domain.ErrBatchNotFound, *in.BatchID)
	}
	if batch.RemainingQuantity.LessThan(in.Quantity) {
		return fmt.Errorf("%w: lote %s tiene %s, se piden %s",
			domain.ErrInsufficientBatchRemainder, batch.ID, batch.RemainingQuantity, in.Quantity)
	}
	if err := tx.Batches.UpdateRemaining(ctx, batch.ID, batch.RemainingQuantity.Sub(in.Quantity)); err != nil {
		return fmt.Errorf("deduct: update batch: %w", err)
	}
	id := batch.ID
	rec.Add(&id, in.Quantity, batch.PricePerUnit)
	return nil
}

func (e *DeductionEngine) deductFIFO(ctx context.Context, tx Tx, rec *inventory.DeductionRecord, product *entity.Product, in DeductionInput) error {
	batches, err := tx.Batches.ListAvailableForUpdate(ctx, product.ID)
	if err != nil {
		return fmt.Errorf("deduct: list batches: %w", err)
	}

	plan := inventory.PlanFIFO(batches, in.Quantity, e.tolerance)
	for _, a := range plan.Allocations {
		if err := tx.Batches.UpdateRemaining(ctx, a.Batch.ID, a.Batch.RemainingQuantity.Sub(a.Quantity)); err != nil {
			return fmt.Errorf("deduct: update batch: %w", err)
		}
		id := a.Batch.ID
		rec.Add(&id, a.Quantity, a.Batch.PricePerUnit)
	}

	if plan.Shortfall.IsPositive() {
		last, err := tx.Procurements.LastPriceForProduct(ctx, product.ID)
		if err != nil {
			return fmt.Errorf("deduct: last procurement price: %w", err)
		}
		price := inventory.FallbackPrice(last, product.AveragePurchasePrice)
		rec.Add(nil, plan.Shortfall, price)
		e.metrics.IncDeficit()
		e.log.Warn().
			Str("product_id", product.ID).
			Str("requested", in.Quantity.String()).
			Str("shortfall", plan.Shortfall.String()).
			Str("fallback_price", price.String()).
			Msg("lotes agotados: faltante costeado con precio de respaldo")
	}
	return nil
}

// DeductStockUseCase expone el motor como operación independiente (ajuste de salida).
type DeductStockUseCase struct {
	runner  TxRunner
	engine  *DeductionEngine
	audit   auditor
	metrics Metrics
}

// NewDeductStockUseCase construye el caso de uso.
func NewDeductStockUseCase(runner TxRunner, engine *DeductionEngine, audit AuditSink, log *logger.Logger, metrics Metrics) *DeductStockUseCase {
	return &DeductStockUseCase{
		runner:  runner,
		engine:  engine,
		audit:   newAuditor(audit, log),
		metrics: orNopMetrics(metrics),
	}
}

// DeductStock abre su propia transacción y descuenta con tipo ADJUSTMENT_OUT.
func (uc *DeductStockUseCase) DeductStock(ctx context.Context, userID string, in dto.DeductStockRequest) (resp *dto.DeductionResponse, err error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveOperation("deduct", time.Since(start), err) }()

	var rec inventory.DeductionRecord
	txID := uuid.New().String()
	err = uc.runner.Run(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		rec, err = uc.engine.Deduct(ctx, tx, DeductionInput{
			ProductID:     in.ProductID,
			Quantity:      in.Quantity,
			BatchID:       in.BatchID,
			MovementType:  entity.MovementTypeAdjustmentOut,
			TransactionID: txID,
			UserID:        userID,
			Note:          in.Note,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	resp = toDeductionResponse(in.ProductID, rec)
	uc.audit.record(ctx, userID, AuditStockDeducted, resp)
	return resp, nil
}
