package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/lotes-erp/internal/application/dto"
	"github.com/jhoicas/lotes-erp/internal/domain/entity"
	"github.com/jhoicas/lotes-erp/internal/domain/inventory"
	"github.com/jhoicas/lotes-erp/pkg/logger"
)

// DisposalUseCase registra bajas costeadas con el mismo motor de descuento.
type DisposalUseCase struct {
	runner  TxRunner
	engine  *DeductionEngine
	audit   auditor
	metrics Metrics
	now     func() time.Time
}

// NewDisposalUseCase construye el caso de uso.
func NewDisposalUseCase(runner TxRunner, engine *DeductionEngine, audit AuditSink, log *logger.Logger, metrics Metrics) *DisposalUseCase {
	return &DisposalUseCase{
		runner:  runner,
		engine:  engine,
		audit:   newAuditor(audit, log),
		metrics: orNopMetrics(metrics),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateDisposal descuenta la cantidad (lote forzado o FIFO) y guarda la baja con su costo
// y desglose en la misma transacción.
func (uc *DisposalUseCase) CreateDisposal(ctx context.Context, userID string, in dto.CreateDisposalRequest) (resp *dto.DisposalResponse, err error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveOperation("disposal", time.Since(start), err) }()

	var (
		disposal *entity.Disposal
		rec      inventory.DeductionRecord
	)
	err = uc.runner.Run(ctx, func(ctx context.Context, tx Tx) error {
		id := uuid.New().String()
		var err error
		rec, err = uc.engine.Deduct(ctx, tx, DeductionInput{
			ProductID:     in.ProductID,
			Quantity:      in.Quantity,
			BatchID:       in.BatchID,
			MovementType:  entity.MovementTypeDisposal,
			TransactionID: id,
			UserID:        userID,
			Note:          in.Reason,
		})
		if err != nil {
			return err
		}
		details, err := rec.Details()
		if err != nil {
			return fmt.Errorf("disposal: details: %w", err)
		}
		disposal = &entity.Disposal{
			ID:           id,
			ProductID:    in.ProductID,
			BatchID:      in.BatchID,
			Quantity:     in.Quantity,
			Reason:       in.Reason,
			UserID:       userID,
			TotalCost:    rec.TotalCost,
			PricePerUnit: inventory.UnitCost(rec.TotalCost, in.Quantity),
			Details:      details,
			Date:         uc.now(),
		}
		if err := tx.Disposals.Create(ctx, disposal); err != nil {
			return fmt.Errorf("disposal: create: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp = &dto.DisposalResponse{
		ID:           disposal.ID,
		ProductID:    disposal.ProductID,
		BatchID:      disposal.BatchID,
		Quantity:     disposal.Quantity,
		Reason:       disposal.Reason,
		TotalCost:    disposal.TotalCost,
		PricePerUnit: disposal.PricePerUnit,
		Lines:        toDeductionLines(rec),
		Date:         disposal.Date,
	}
	uc.audit.record(ctx, userID, AuditDisposalCreated, resp)
	return resp, nil
}
