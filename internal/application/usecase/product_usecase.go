package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-erp/internal/application/dto"
	"github.com/jhoicas/lotes-erp/internal/application/inventory"
	"github.com/jhoicas/lotes-erp/internal/domain"
	"github.com/jhoicas/lotes-erp/internal/domain/entity"
)

// ProductUseCase alta y consulta de categorías y productos. Stock y precio promedio se manejan vía movimientos.
type ProductUseCase struct {
	runner inventory.TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(runner inventory.TxRunner) *ProductUseCase {
	return &ProductUseCase{runner: runner}
}

// CreateCategory crea una categoría; ParentID, si viene, debe existir.
func (uc *ProductUseCase) CreateCategory(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	category := &entity.Category{
		ID:        uuid.New().String(),
		ParentID:  in.ParentID,
		Name:      in.Name,
		Type:      in.Type,
		Color:     in.Color,
		CreatedAt: time.Now().UTC(),
	}
	err := uc.runner.Run(ctx, func(ctx context.Context, tx inventory.Tx) error {
		if in.ParentID != "" {
			parent, err := tx.Categories.GetByID(ctx, in.ParentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return fmt.Errorf("%w: categoría padre %s", domain.ErrInvalidInput, in.ParentID)
			}
		}
		return tx.Categories.Create(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{
		ID:        category.ID,
		ParentID:  category.ParentID,
		Name:      category.Name,
		Type:      category.Type,
		Color:     category.Color,
		CreatedAt: category.CreatedAt,
	}, nil
}

// Create crea un nuevo producto. Stock y precio promedio inician en 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.MinStock.IsNegative() {
		return nil, fmt.Errorf("%w: min_stock no puede ser negativo", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:                   uuid.New().String(),
		CategoryID:           in.CategoryID,
		Name:                 in.Name,
		Unit:                 in.Unit,
		CurrentStock:         decimal.Zero,
		AveragePurchasePrice: decimal.Zero,
		MinStock:             in.MinStock,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	err := uc.runner.Run(ctx, func(ctx context.Context, tx inventory.Tx) error {
		category, err := tx.Categories.GetByID(ctx, in.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return fmt.Errorf("%w: categoría %s", domain.ErrInvalidInput, in.CategoryID)
		}
		return tx.Products.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.runner.Run(ctx, func(ctx context.Context, tx inventory.Tx) error {
		var err error
		product, err = tx.Products.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                   p.ID,
		CategoryID:           p.CategoryID,
		Name:                 p.Name,
		Unit:                 p.Unit,
		CurrentStock:         p.CurrentStock,
		AveragePurchasePrice: p.AveragePurchasePrice,
		MinStock:             p.MinStock,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}
