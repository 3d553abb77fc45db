package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fuentes de pago de un abastecimiento.
const (
	PaymentSourceCash         = "CASH"
	PaymentSourceBank         = "BANK"
	PaymentSourceBusinessCash = "BUSINESS_CASH"
)

// ProcurementStatusCompleted único estado que maneja el motor (recepción inmediata).
const ProcurementStatusCompleted = "COMPLETED"

// Procurement recepción de compra; cada ítem genera un lote.
type Procurement struct {
	ID            string
	Supplier      string
	PaymentSource string
	Status        string
	TotalAmount   decimal.Decimal
	UserID        string
	Date          time.Time
	Items         []ProcurementItem
}

// ProcurementItem línea de compra.
type ProcurementItem struct {
	ID            string
	ProcurementID string
	ProductID     string
	Quantity      decimal.Decimal
	PricePerUnit  decimal.Decimal
}
