package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	ParentID string `json:"parent_id"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Type     string `json:"type" validate:"required,oneof=RAW_MATERIAL PRODUCT"`
	Color    string `json:"color" validate:"omitempty,max=20"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parent_id,omitempty"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateProductRequest entrada para crear un producto. El stock arranca en 0 y solo cambia por movimientos.
type CreateProductRequest struct {
	CategoryID string          `json:"category_id" validate:"required"`
	Name       string          `json:"name" validate:"required,min=1,max=200"`
	Unit       string          `json:"unit" validate:"required,oneof=KG G L ML PCS"`
	MinStock   decimal.Decimal `json:"min_stock"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                   string          `json:"id"`
	CategoryID           string          `json:"category_id"`
	Name                 string          `json:"name"`
	Unit                 string          `json:"unit"`
	CurrentStock         decimal.Decimal `json:"current_stock"`
	AveragePurchasePrice decimal.Decimal `json:"average_purchase_price"`
	MinStock             decimal.Decimal `json:"min_stock"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}
