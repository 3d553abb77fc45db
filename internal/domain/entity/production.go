package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producción.
const (
	ProductionStatusInProgress = "IN_PROGRESS"
	ProductionStatusCompleted  = "COMPLETED"
)

// Production corrida de cocción/ahumado. Solo la transición a COMPLETED afecta stock.
type Production struct {
	ID            string
	PerformedBy   string
	Status        string
	Note          string
	InitialWeight *decimal.Decimal
	FinalWeight   *decimal.Decimal
	PrepTime      *int // minutos
	DryingTime    *int
	SmokingTime   *int
	BoilingTime   *int
	TotalCost     *decimal.Decimal
	Date          time.Time
	CompletedAt   *time.Time
	Items         []ProductionItem
	Materials     []ProductionMaterial
}

// IsCompleted indica si la producción ya fue cerrada.
func (p *Production) IsCompleted() bool {
	return p.Status == ProductionStatusCompleted
}

// YieldPercent rendimiento final/inicial × 100 (ej. 80 = 20% de merma). Nil si faltan pesos.
func (p *Production) YieldPercent() *decimal.Decimal {
	if p.InitialWeight == nil || p.FinalWeight == nil || !p.InitialWeight.IsPositive() {
		return nil
	}
	y := p.FinalWeight.Div(*p.InitialWeight).Mul(decimal.NewFromInt(100)).Round(2)
	return &y
}

// ProductionItem producto terminado obtenido.
type ProductionItem struct {
	ID                    string
	ProductionID          string
	ProductID             string
	QuantityProduced      decimal.Decimal
	CalculatedCostPerUnit decimal.Decimal
	BatchID               *string // lote de salida creado al completar
}

// ProductionMaterial materia prima consumida. TotalCost/PricePerUnit se congelan al completar.
type ProductionMaterial struct {
	ID           string
	ProductionID string
	ProductID    string
	QuantityUsed decimal.Decimal
	BatchID      *string // lote forzado; nil = FIFO
	TotalCost    *decimal.Decimal
	PricePerUnit *decimal.Decimal
	Details      json.RawMessage
}
