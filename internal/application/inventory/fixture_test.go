package inventory_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/lotes-erp/internal/application/inventory"
	"github.com/jhoicas/lotes-erp/internal/application/inventory/inventorytest"
	"github.com/jhoicas/lotes-erp/pkg/logger"
	"github.com/jhoicas/lotes-erp/pkg/metrics"
)

var (
	dec = inventorytest.Dec
	t0  = time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
)

const userID = "3b0e7f0a-0000-4000-8000-000000000001"

type fixture struct {
	store       *inventorytest.Store
	registry    *prometheus.Registry
	engine      *inventory.DeductionEngine
	deduct      *inventory.DeductStockUseCase
	merge       *inventory.MergeUseCase
	production  *inventory.ProductionUseCase
	disposal    *inventory.DisposalUseCase
	procurement *inventory.ProcurementUseCase
	sale        *inventory.SaleUseCase
	query       *inventory.QueryUseCase
	replenish   *inventory.ReplenishmentUseCase
	category    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := inventorytest.NewStore()
	reg := prometheus.NewRegistry()
	m := metrics.NewInventoryMetrics(reg)
	log := logger.Nop()
	engine := inventory.NewDeductionEngine(log, m, decimal.Zero)

	return &fixture{
		store:       store,
		registry:    reg,
		engine:      engine,
		deduct:      inventory.NewDeductStockUseCase(store, engine, store, log, m),
		merge:       inventory.NewMergeUseCase(store, store, log, m),
		production:  inventory.NewProductionUseCase(store, engine, store, log, m),
		disposal:    inventory.NewDisposalUseCase(store, engine, store, log, m),
		procurement: inventory.NewProcurementUseCase(store, store, log, m),
		sale:        inventory.NewSaleUseCase(store, engine, store, log, m),
		query:       inventory.NewQueryUseCase(store),
		replenish:   inventory.NewReplenishmentUseCase(store),
		category:    store.SeedCategory("Carnes"),
	}
}

// counter valor actual de un contador sin etiquetas del registro del fixture.
func (f *fixture) counter(t *testing.T, name string) float64 {
	t.Helper()
	families, err := f.registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "esperado %s, obtenido %s", want, got)
}
