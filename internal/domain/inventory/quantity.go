package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-erp/internal/domain"
)

// QuantityScale decimales con que se guardan las cantidades (NUMERIC(18,4)).
// Una cantidad más fina se redondearía al guardarla y el lote no bajaría lo que se cobró.
const QuantityScale int32 = 4

// CheckQuantity exige una cantidad positiva representable con QuantityScale decimales.
func CheckQuantity(q decimal.Decimal) error {
	if !q.IsPositive() {
		return fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	if !q.Equal(q.Truncate(QuantityScale)) {
		return fmt.Errorf("%w: la cantidad %s admite como máximo %d decimales", domain.ErrInvalidInput, q, QuantityScale)
	}
	return nil
}
