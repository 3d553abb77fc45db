package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ProductionMaterialRequest materia prima a consumir; BatchID fuerza el lote.
type ProductionMaterialRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	BatchID   *string         `json:"batch_id,omitempty"`
}

// ProductionItemRequest producto terminado a obtener.
type ProductionItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateProductionRequest body para POST /api/productions.
// Status vacío = IN_PROGRESS; COMPLETED cierra la producción en la misma transacción.
type CreateProductionRequest struct {
	Status        string                      `json:"status" validate:"omitempty,oneof=IN_PROGRESS COMPLETED"`
	Note          string                      `json:"note" validate:"max=1000"`
	InitialWeight *decimal.Decimal            `json:"initial_weight,omitempty"`
	FinalWeight   *decimal.Decimal            `json:"final_weight,omitempty"`
	PrepTime      *int                        `json:"prep_time,omitempty" validate:"omitempty,min=0"`
	DryingTime    *int                        `json:"drying_time,omitempty" validate:"omitempty,min=0"`
	SmokingTime   *int                        `json:"smoking_time,omitempty" validate:"omitempty,min=0"`
	BoilingTime   *int                        `json:"boiling_time,omitempty" validate:"omitempty,min=0"`
	Materials     []ProductionMaterialRequest `json:"materials" validate:"required,min=1,dive"`
	Items         []ProductionItemRequest     `json:"items" validate:"required,min=1,dive"`
}

// CompleteProductionRequest body para POST /api/productions/:id/complete. Todos los campos opcionales.
type CompleteProductionRequest struct {
	Note        *string          `json:"note,omitempty" validate:"omitempty,max=1000"`
	FinalWeight *decimal.Decimal `json:"final_weight,omitempty"`
	PrepTime    *int             `json:"prep_time,omitempty" validate:"omitempty,min=0"`
	DryingTime  *int             `json:"drying_time,omitempty" validate:"omitempty,min=0"`
	SmokingTime *int             `json:"smoking_time,omitempty" validate:"omitempty,min=0"`
	BoilingTime *int             `json:"boiling_time,omitempty" validate:"omitempty,min=0"`
}

// ProductionMaterialResponse material con costo congelado al completar.
type ProductionMaterialResponse struct {
	ID           string           `json:"id"`
	ProductID    string           `json:"product_id"`
	QuantityUsed decimal.Decimal  `json:"quantity_used"`
	BatchID      *string          `json:"batch_id,omitempty"`
	TotalCost    *decimal.Decimal `json:"total_cost,omitempty"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit,omitempty"`
	Details      json.RawMessage  `json:"details,omitempty"`
}

// ProductionItemResponse producto obtenido con su costo unitario.
type ProductionItemResponse struct {
	ID                    string          `json:"id"`
	ProductID             string          `json:"product_id"`
	QuantityProduced      decimal.Decimal `json:"quantity_produced"`
	CalculatedCostPerUnit decimal.Decimal `json:"calculated_cost_per_unit"`
	BatchID               *string         `json:"batch_id,omitempty"`
}

// ProductionResponse salida de una producción.
type ProductionResponse struct {
	ID            string                       `json:"id"`
	PerformedBy   string                       `json:"performed_by"`
	Status        string                       `json:"status"`
	Note          string                       `json:"note,omitempty"`
	InitialWeight *decimal.Decimal             `json:"initial_weight,omitempty"`
	FinalWeight   *decimal.Decimal             `json:"final_weight,omitempty"`
	YieldPercent  *decimal.Decimal             `json:"yield_percent,omitempty"`
	PrepTime      *int                         `json:"prep_time,omitempty"`
	DryingTime    *int                         `json:"drying_time,omitempty"`
	SmokingTime   *int                         `json:"smoking_time,omitempty"`
	BoilingTime   *int                         `json:"boiling_time,omitempty"`
	TotalCost     *decimal.Decimal             `json:"total_cost,omitempty"`
	Date          time.Time                    `json:"date"`
	CompletedAt   *time.Time                   `json:"completed_at,omitempty"`
	Materials     []ProductionMaterialResponse `json:"materials"`
	Items         []ProductionItemResponse     `json:"items"`
}

// ProductionListResponse lista paginada de producciones.
type ProductionListResponse struct {
	Items []ProductionResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
