package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del historial de producto.
const (
	MovementTypeProcurement   = "PROCUREMENT"
	MovementTypeSale          = "SALE"
	MovementTypeProductionIn  = "PRODUCTION_IN"
	MovementTypeProductionOut = "PRODUCTION_OUT"
	MovementTypeDisposal      = "DISPOSAL"
	MovementTypeMergeIn       = "MERGE_IN"
	MovementTypeMergeOut      = "MERGE_OUT"
	MovementTypeAdjustmentOut = "ADJUSTMENT_OUT"
)

// InventoryMovement registro de cada cambio del stock agregado de un producto.
type InventoryMovement struct {
	ID            string
	TransactionID string // venta, producción, abastecimiento, baja o fusión que lo originó
	ProductID     string
	BatchID       *string
	Type          string
	Quantity      decimal.Decimal // positivo entrada, negativo salida
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	Note          string
	Date          time.Time
	CreatedBy     string
}
