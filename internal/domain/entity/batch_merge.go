package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dirección de un registro de fusión respecto del producto al que se etiqueta.
const (
	MergeDirectionIn  = "IN"
	MergeDirectionOut = "OUT"
)

// BatchMerge historial de fusiones. Solo se inserta; nunca se modifica ni borra.
type BatchMerge struct {
	ID                string
	ProductID         string // producto al que se etiqueta el registro
	Direction         string
	SourceBatchID     string
	SourceDescription string
	TargetBatchID     string
	Quantity          decimal.Decimal
	PriceAtMerge      decimal.Decimal
	UserID            string
	CreatedAt         time.Time
}
