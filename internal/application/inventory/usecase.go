package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-erp/internal/application/dto"
	"github.com/jhoicas/lotes-erp/internal/domain"
	"github.com/jhoicas/lotes-erp/internal/domain/entity"
	"github.com/jhoicas/lotes-erp/internal/domain/repository"
)

// QueryUseCase consultas de lotes e historial (sin efectos sobre stock).
type QueryUseCase struct {
	runner TxRunner
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(runner TxRunner) *QueryUseCase {
	return &QueryUseCase{runner: runner}
}

// ListBatches lotes con saldo de un producto o de una categoría (exactamente uno), del más antiguo al más nuevo.
func (uc *QueryUseCase) ListBatches(ctx context.Context, in dto.ListBatchesRequest) (*dto.BatchListResponse, error) {
	if (in.ProductID == "") == (in.CategoryID == "") {
		return nil, fmt.Errorf("%w: indique product_id o category_id", domain.ErrInvalidInput)
	}

	var views []*entity.BatchView
	err := uc.runner.Run(ctx, func(ctx context.Context, tx Tx) error {
		if in.ProductID != "" {
			p, err := tx.Products.GetByID(ctx, in.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: %s", domain.ErrProductNotFound, in.ProductID)
			}
		} else {
			c, err := tx.Categories.GetByID(ctx, in.CategoryID)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, in.CategoryID)
			}
		}
		var err error
		views, err = tx.Batches.ListAvailable(ctx, repository.BatchFilter{ProductID: in.ProductID, CategoryID: in.CategoryID})
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.BatchListResponse{Items: make([]dto.BatchResponse, 0, len(views)), TotalValue: decimal.Zero}
	for _, v := range views {
		r := toBatchViewResponse(v)
		resp.Items = append(resp.Items, r)
		resp.TotalValue = resp.TotalValue.Add(r.Value)
	}
	return resp, nil
}

// ProductHistory movimientos del producto, más recientes primero.
func (uc *QueryUseCase) ProductHistory(ctx context.Context, productID string, page dto.PageRequest) (*dto.ProductHistoryResponse, error) {
	page.DefaultPage()
	var (
		product   *entity.Product
		movements []*entity.InventoryMovement
	)
	err := uc.runner.Run(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		product, err = tx.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
		}
		movements, err = tx.Movements.ListByProduct(ctx, productID, page.Limit, page.Offset)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.ProductHistoryResponse{
		Product:   toProductResponse(product),
		Movements: make([]dto.MovementResponse, 0, len(movements)),
		Page:      page.Response(),
	}
	for _, m := range movements {
		resp.Movements = append(resp.Movements, toMovementResponse(m))
	}
	return resp, nil
}
