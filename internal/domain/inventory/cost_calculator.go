package inventory

import "github.com/shopspring/decimal"

// PriceScale decimales con que se guardan precios unitarios (NUMERIC(18,4)).
const PriceScale int32 = 4

// CostCalculator promedio móvil ponderado del precio informativo del producto.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Un stock negativo (déficit ya costeado) no aporta valor: se toma como cero.
// Si la suma no es positiva se conserva el costo actual.
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	if stockActual.IsNegative() {
		stockActual = decimal.Zero
	}
	sum := stockActual.Add(cantEntrada)
	if !sum.IsPositive() {
		return costoActual
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum).Round(PriceScale)
}

// UnitCost costo real por unidad de una salida de producción.
func UnitCost(totalCost, quantity decimal.Decimal) decimal.Decimal {
	if !quantity.IsPositive() {
		return decimal.Zero
	}
	return totalCost.Div(quantity).Round(PriceScale)
}
