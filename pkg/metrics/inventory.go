package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// InventoryMetrics métricas del motor de lotes. Un *InventoryMetrics nil es válido y no registra nada.
type InventoryMetrics struct {
	duration      *prometheus.HistogramVec
	operations    *prometheus.CounterVec
	deficits      prometheus.Counter
	negativeStock prometheus.Counter
}

// NewInventoryMetrics registra las métricas en el registerer indicado.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_operation_duration_seconds",
		Help:    "Duración de las operaciones del motor de inventario.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_operations_total",
		Help: "Operaciones del motor de inventario por resultado.",
	}, []string{"operation", "result"})
	deficits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_deficit_total",
		Help: "Descuentos que agotaron los lotes y se costearon con precio de respaldo.",
	})
	negativeStock := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_negative_stock_total",
		Help: "Descuentos que dejaron el stock agregado en negativo.",
	})
	reg.MustRegister(duration, operations, deficits, negativeStock)
	return &InventoryMetrics{
		duration:      duration,
		operations:    operations,
		deficits:      deficits,
		negativeStock: negativeStock,
	}
}

// ObserveOperation registra duración y resultado (ok/error) de una operación.
func (m *InventoryMetrics) ObserveOperation(operation string, d time.Duration, err error) {
	if m == nil || m.duration == nil {
		return
	}
	op := normalizeLabel(operation)
	m.duration.WithLabelValues(op).Observe(d.Seconds())
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(op, result).Inc()
}

// IncDeficit cuenta un descuento con faltante cubierto por precio de respaldo.
func (m *InventoryMetrics) IncDeficit() {
	if m == nil || m.deficits == nil {
		return
	}
	m.deficits.Inc()
}

// IncNegativeStock cuenta un stock agregado que quedó negativo.
func (m *InventoryMetrics) IncNegativeStock() {
	if m == nil || m.negativeStock == nil {
		return
	}
	m.negativeStock.Inc()
}

func normalizeLabel(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
