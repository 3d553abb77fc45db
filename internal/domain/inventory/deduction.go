package inventory

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// DefaultTolerance faltante por debajo del cual no se registra déficit.
var DefaultTolerance = decimal.New(1, -5)

// DeductionLine porción de un descuento. BatchID nil marca la porción en déficit.
type DeductionLine struct {
	BatchID  *string         `json:"batch_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Cost costo de la línea (cantidad × precio).
func (l DeductionLine) Cost() decimal.Decimal {
	return l.Quantity.Mul(l.Price)
}

// IsDeficit indica si la línea no proviene de un lote.
func (l DeductionLine) IsDeficit() bool {
	return l.BatchID == nil
}

// DeductionRecord desglose de un descuento. No se persiste como entidad propia:
// quien lo recibe lo guarda serializado con Details.
type DeductionRecord struct {
	TotalCost decimal.Decimal `json:"total_cost"`
	Lines     []DeductionLine `json:"lines"`
}

// Add agrega una línea y acumula su costo.
func (r *DeductionRecord) Add(batchID *string, quantity, price decimal.Decimal) {
	line := DeductionLine{BatchID: batchID, Quantity: quantity, Price: price}
	r.Lines = append(r.Lines, line)
	r.TotalCost = r.TotalCost.Add(line.Cost())
}

// Quantity cantidad total descontada.
func (r DeductionRecord) Quantity() decimal.Decimal {
	total := decimal.Zero
	for _, l := range r.Lines {
		total = total.Add(l.Quantity)
	}
	return total
}

// DeficitQuantity cantidad cobrada sin lote.
func (r DeductionRecord) DeficitQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, l := range r.Lines {
		if l.IsDeficit() {
			total = total.Add(l.Quantity)
		}
	}
	return total
}

// UnitPrice costo promedio por unidad del descuento.
func (r DeductionRecord) UnitPrice() decimal.Decimal {
	return UnitCost(r.TotalCost, r.Quantity())
}

// Details serializa el desglose para guardarlo junto al registro que lo originó.
// Usa los mismos nombres de campo que la respuesta de la API (total_cost, lines, batch_id).
func (r DeductionRecord) Details() (json.RawMessage, error) {
	if r.Lines == nil {
		r.Lines = []DeductionLine{}
	}
	return json.Marshal(r)
}

// FallbackPrice precio para la porción en déficit: último precio de compra,
// si no el precio promedio del producto, si no cero.
func FallbackPrice(lastProcurementPrice *decimal.Decimal, averagePrice decimal.Decimal) decimal.Decimal {
	if lastProcurementPrice != nil {
		return *lastProcurementPrice
	}
	if averagePrice.IsPositive() {
		return averagePrice
	}
	return decimal.Zero
}
