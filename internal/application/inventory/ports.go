package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/lotes-erp/internal/domain/entity"
	"github.com/jhoicas/lotes-erp/internal/domain/repository"
)

// Tx repositorios atados a una misma transacción de BD.
// Se pasa explícitamente a cada paso del motor; ningún paso abre su propia transacción.
type Tx struct {
	Products     repository.ProductRepository
	Categories   repository.CategoryRepository
	Batches      repository.BatchRepository
	Procurements repository.ProcurementRepository
	Sales        repository.SaleRepository
	Productions  repository.ProductionRepository
	Disposals    repository.DisposalRepository
	Merges       repository.BatchMergeRepository
	Movements    repository.InventoryMovementRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback si no.
// La implementación puede reintentar fn completo ante fallos de serialización.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// AuditSink destino de auditoría. Se invoca después del commit; un fallo no revierte la operación.
type AuditSink interface {
	Record(ctx context.Context, entry *entity.AuditLog) error
}

// Metrics contadores del motor (implementado por pkg/metrics).
type Metrics interface {
	ObserveOperation(operation string, d time.Duration, err error)
	IncDeficit()
	IncNegativeStock()
}

type nopMetrics struct{}

func (nopMetrics) ObserveOperation(string, time.Duration, error) {}
func (nopMetrics) IncDeficit()                                   {}
func (nopMetrics) IncNegativeStock()                             {}

func orNopMetrics(m Metrics) Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}
