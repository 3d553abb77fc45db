package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Disposal baja de inventario (merma, vencimiento, degustación) registrada como pérdida.
type Disposal struct {
	ID           string
	ProductID    string
	BatchID      *string
	Quantity     decimal.Decimal
	Reason       string
	UserID       string
	TotalCost    decimal.Decimal
	PricePerUnit decimal.Decimal
	Details      json.RawMessage
	Date         time.Time
}
