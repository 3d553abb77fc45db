package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProcurementItemRequest línea de compra.
type ProcurementItemRequest struct {
	ProductID    string          `json:"product_id" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

// CreateProcurementRequest body para POST /api/procurements.
type CreateProcurementRequest struct {
	Supplier      string                   `json:"supplier" validate:"required,min=1,max=200"`
	PaymentSource string                   `json:"payment_source" validate:"required,oneof=CASH BANK BUSINESS_CASH"`
	Items         []ProcurementItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ProcurementItemResponse línea recibida con el lote generado.
type ProcurementItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	BatchID      string          `json:"batch_id"`
}

// ProcurementResponse abastecimiento recibido.
type ProcurementResponse struct {
	ID            string                    `json:"id"`
	Supplier      string                    `json:"supplier"`
	PaymentSource string                    `json:"payment_source"`
	Status        string                    `json:"status"`
	TotalAmount   decimal.Decimal           `json:"total_amount"`
	Date          time.Time                 `json:"date"`
	Items         []ProcurementItemResponse `json:"items"`
}
