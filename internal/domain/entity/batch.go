package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch es un lote con cantidad y costo unitario propios.
// InitialQuantity no cambia tras la creación; RemainingQuantity solo baja, salvo cuando el lote
// es destino de una fusión. CreatedAt es la clave de orden FIFO y se conserva en las fusiones.
type Batch struct {
	ID                string
	ProductID         string
	InitialQuantity   decimal.Decimal
	RemainingQuantity decimal.Decimal
	PricePerUnit      decimal.Decimal
	ProcurementItemID *string
	ProductionItemID  *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Value valor monetario del saldo (saldo × precio).
func (b *Batch) Value() decimal.Decimal {
	return b.RemainingQuantity.Mul(b.PricePerUnit)
}

// HasRemainder indica si el lote aún tiene saldo.
func (b *Batch) HasRemainder() bool {
	return b.RemainingQuantity.GreaterThan(decimal.Zero)
}

// BatchView lote con datos de producto y origen para listados.
type BatchView struct {
	Batch
	ProductName   string
	Unit          string
	CategoryID    string
	Supplier      string // proveedor del abastecimiento de origen, si aplica
	ProcurementID *string
	ProductionID  *string
}
