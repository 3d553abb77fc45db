package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida admitidas.
const (
	UnitKG  = "KG"
	UnitG   = "G"
	UnitL   = "L"
	UnitML  = "ML"
	UnitPCS = "PCS"
)

// Product representa un SKU de materia prima o producto terminado.
// CurrentStock es la suma de los saldos de sus lotes (puede quedar negativo tras un déficit).
// AveragePurchasePrice es informativo: el costeo de descuentos usa los precios de los lotes.
type Product struct {
	ID                   string
	CategoryID           string
	Name                 string
	Unit                 string
	CurrentStock         decimal.Decimal
	AveragePurchasePrice decimal.Decimal
	MinStock             decimal.Decimal
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsLowStock indica si el stock está en o por debajo del mínimo.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock.LessThanOrEqual(p.MinStock)
}
