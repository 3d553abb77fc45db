package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta.
type SaleItemRequest struct {
	ProductID    string          `json:"product_id" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	Customer string            `json:"customer" validate:"max=200"`
	Items    []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleItemResponse línea vendida con su costo de mercadería.
type SaleItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	CostOfGoods  decimal.Decimal `json:"cost_of_goods"`
}

// SaleResponse venta registrada; Margin = ingreso - costo.
type SaleResponse struct {
	ID           string             `json:"id"`
	Customer     string             `json:"customer,omitempty"`
	TotalRevenue decimal.Decimal    `json:"total_revenue"`
	TotalCost    decimal.Decimal    `json:"total_cost"`
	Margin       decimal.Decimal    `json:"margin"`
	Date         time.Time          `json:"date"`
	Items        []SaleItemResponse `json:"items"`
}
