package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeductStockRequest body para POST /api/inventory/deductions (ajuste de salida).
// BatchID opcional: si viene, se descuenta solo de ese lote; si no, FIFO.
type DeductStockRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	BatchID   *string         `json:"batch_id,omitempty"`
	Note      string          `json:"note" validate:"max=500"`
}

// DeductionLineDTO porción de un descuento; batch_id null = déficit cobrado a precio de respaldo.
type DeductionLineDTO struct {
	BatchID  *string         `json:"batch_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// DeductionResponse resultado de un descuento.
type DeductionResponse struct {
	ProductID       string             `json:"product_id"`
	Quantity        decimal.Decimal    `json:"quantity"`
	TotalCost       decimal.Decimal    `json:"total_cost"`
	DeficitQuantity decimal.Decimal    `json:"deficit_quantity"`
	Lines           []DeductionLineDTO `json:"lines"`
}

// MergeBatchesRequest body para POST /api/inventory/batches/merge.
// ProductID es el producto del lote destino. Quantity nil = todo el saldo del origen.
type MergeBatchesRequest struct {
	ProductID     string           `json:"product_id" validate:"required"`
	SourceBatchID string           `json:"source_batch_id" validate:"required"`
	TargetBatchID string           `json:"target_batch_id" validate:"required,nefield=SourceBatchID"`
	Quantity      *decimal.Decimal `json:"quantity,omitempty"`
}

// MergeBatchesResponse resultado de una fusión.
type MergeBatchesResponse struct {
	Target          BatchResponse   `json:"target"`
	SourceBatchID   string          `json:"source_batch_id"`
	SourceDeleted   bool            `json:"source_deleted"`
	SourceRemaining decimal.Decimal `json:"source_remaining"`
	Quantity        decimal.Decimal `json:"quantity"`
	PriceAtMerge    decimal.Decimal `json:"price_at_merge"`
	CrossProduct    bool            `json:"cross_product"`
}

// ConsolidateProductRequest body para POST /api/inventory/products/:id/consolidate.
type ConsolidateProductRequest struct {
	TargetBatchID string `json:"target_batch_id" validate:"required"`
}

// ConsolidateProductResponse lote resultante de fusionar todos los demás lotes del producto.
type ConsolidateProductResponse struct {
	Target        BatchResponse `json:"target"`
	MergedBatches []string      `json:"merged_batches"`
}

// CreateDisposalRequest body para POST /api/inventory/disposals.
type CreateDisposalRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	BatchID   *string         `json:"batch_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason" validate:"required,min=1,max=255"`
}

// DisposalResponse baja registrada con su costo.
type DisposalResponse struct {
	ID           string             `json:"id"`
	ProductID    string             `json:"product_id"`
	BatchID      *string            `json:"batch_id,omitempty"`
	Quantity     decimal.Decimal    `json:"quantity"`
	Reason       string             `json:"reason"`
	TotalCost    decimal.Decimal    `json:"total_cost"`
	PricePerUnit decimal.Decimal    `json:"price_per_unit"`
	Lines        []DeductionLineDTO `json:"lines"`
	Date         time.Time          `json:"date"`
}

// ListBatchesRequest query de GET /api/inventory/batches; exactamente uno de los dos filtros.
type ListBatchesRequest struct {
	ProductID  string `query:"product_id"`
	CategoryID string `query:"category_id"`
}

// BatchResponse lote con saldo y origen.
type BatchResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name,omitempty"`
	Unit              string          `json:"unit,omitempty"`
	InitialQuantity   decimal.Decimal `json:"initial_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	PricePerUnit      decimal.Decimal `json:"price_per_unit"`
	Value             decimal.Decimal `json:"value"`
	Supplier          string          `json:"supplier,omitempty"`
	ProcurementID     *string         `json:"procurement_id,omitempty"`
	ProductionID      *string         `json:"production_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// BatchListResponse lista de lotes disponibles.
type BatchListResponse struct {
	Items      []BatchResponse `json:"items"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// MovementResponse fila del historial de un producto.
type MovementResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	BatchID       *string         `json:"batch_id,omitempty"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Note          string          `json:"note,omitempty"`
	Date          time.Time       `json:"date"`
	CreatedBy     string          `json:"created_by"`
}

// ProductHistoryResponse historial paginado de un producto.
type ProductHistoryResponse struct {
	Product   ProductResponse    `json:"product"`
	Movements []MovementResponse `json:"movements"`
	Page      PageResponse       `json:"page"`
}

// LowStockItemDTO producto en o por debajo del mínimo con la cantidad sugerida de compra.
type LowStockItemDTO struct {
	ProductID          string          `json:"product_id"`
	ProductName        string          `json:"product_name"`
	Unit               string          `json:"unit"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	MinStock           decimal.Decimal `json:"min_stock"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`          // MinStock * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`            // precio promedio de compra
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
}
