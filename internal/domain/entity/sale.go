package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale venta; cada ítem descuenta stock por FIFO.
type Sale struct {
	ID           string
	Customer     string
	UserID       string
	TotalRevenue decimal.Decimal
	TotalCost    decimal.Decimal
	Date         time.Time
	Items        []SaleItem
}

// SaleItem línea de venta con el costo de mercadería efectivamente consumido.
type SaleItem struct {
	ID           string
	SaleID       string
	ProductID    string
	Quantity     decimal.Decimal
	PricePerUnit decimal.Decimal
	CostOfGoods  decimal.Decimal
}
