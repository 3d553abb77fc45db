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

// SaleUseCase registra ventas; el costo de mercadería sale de los lotes consumidos por FIFO.
type SaleUseCase struct {
	runner  TxRunner
	engine  *DeductionEngine
	audit   auditor
	metrics Metrics
	now     func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(runner TxRunner, engine *DeductionEngine, audit AuditSink, log *logger.Logger, metrics Metrics) *SaleUseCase {
	return &SaleUseCase{
		runner:  runner,
		engine:  engine,
		audit:   newAuditor(audit, log),
		metrics: orNopMetrics(metrics),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateSale valida stock suficiente por ítem y descuenta por FIFO.
// A diferencia de producción y bajas, una venta sin stock se rechaza.
func (uc *SaleUseCase) CreateSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (resp *dto.SaleResponse, err error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveOperation("sale", time.Since(start), err) }()

	for _, it := range in.Items {
		if err := inventory.CheckQuantity(it.Quantity); err != nil {
			return nil, err
		}
		if it.PricePerUnit.IsNegative() {
			return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
		}
	}

	var sale *entity.Sale
	err = uc.runner.Run(ctx, func(ctx context.Context, tx Tx) error {
		sale = &entity.Sale{
			ID:           uuid.New().String(),
			Customer:     in.Customer,
			UserID:       userID,
			TotalRevenue: decimal.Zero,
			TotalCost:    decimal.Zero,
			Date:         uc.now(),
		}
		for _, it := range in.Items {
			product, err := tx.Products.GetForUpdate(ctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("sale: product: %w", err)
			}
			if product == nil {
				return fmt.Errorf("%w: %s", domain.ErrProductNotFound, it.ProductID)
			}
			if product.CurrentStock.LessThan(it.Quantity) {
				return fmt.Errorf("%w: %s tiene %s, se piden %s",
					domain.ErrInsufficientStock, product.Name, product.CurrentStock, it.Quantity)
			}

			rec, err := uc.engine.Deduct(ctx, tx, DeductionInput{
				ProductID:     it.ProductID,
				Quantity:      it.Quantity,
				MovementType:  entity.MovementTypeSale,
				TransactionID: sale.ID,
				UserID:        userID,
			})
			if err != nil {
				return err
			}
			sale.Items = append(sale.Items, entity.SaleItem{
				ID:           uuid.New().String(),
				SaleID:       sale.ID,
				ProductID:    it.ProductID,
				Quantity:     it.Quantity,
				PricePerUnit: it.PricePerUnit,
				CostOfGoods:  rec.TotalCost,
			})
			sale.TotalRevenue = sale.TotalRevenue.Add(it.Quantity.Mul(it.PricePerUnit))
			sale.TotalCost = sale.TotalCost.Add(rec.TotalCost)
		}
		if err := tx.Sales.Create(ctx, sale); err != nil {
			return fmt.Errorf("sale: create: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp = &dto.SaleResponse{
		ID:           sale.ID,
		Customer:     sale.Customer,
		TotalRevenue: sale.TotalRevenue,
		TotalCost:    sale.TotalCost,
		Margin:       sale.TotalRevenue.Sub(sale.TotalCost),
		Date:         sale.Date,
		Items:        make([]dto.SaleItemResponse, 0, len(sale.Items)),
	}
	for _, it := range sale.Items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			PricePerUnit: it.PricePerUnit,
			CostOfGoods:  it.CostOfGoods,
		})
	}
	uc.audit.record(ctx, userID, AuditSaleCreated, resp)
	return resp, nil
}
