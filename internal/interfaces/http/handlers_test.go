package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lotes-erp/internal/application/dto"
	"github.com/jhoicas/lotes-erp/internal/application/inventory"
	"github.com/jhoicas/lotes-erp/internal/application/inventory/inventorytest"
	"github.com/jhoicas/lotes-erp/internal/application/usecase"
	apphttp "github.com/jhoicas/lotes-erp/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/lotes-erp/pkg/jwt"
	"github.com/jhoicas/lotes-erp/pkg/logger"
)

var t0 = time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)

type apiEnv struct {
	app      *fiber.App
	store    *inventorytest.Store
	category string
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	store := inventorytest.NewStore()
	log := logger.Nop()
	engine := inventory.NewDeductionEngine(log, nil, decimal.Zero)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:   usecase.NewProductUseCase(store),
		Deduct:      inventory.NewDeductStockUseCase(store, engine, store, log, nil),
		Merge:       inventory.NewMergeUseCase(store, store, log, nil),
		Disposal:    inventory.NewDisposalUseCase(store, engine, store, log, nil),
		Production:  inventory.NewProductionUseCase(store, engine, store, log, nil),
		Procurement: inventory.NewProcurementUseCase(store, store, log, nil),
		Sale:        inventory.NewSaleUseCase(store, engine, store, log, nil),
		Query:       inventory.NewQueryUseCase(store),
		Replenish:   inventory.NewReplenishmentUseCase(store),
		JWTSecret:   testJWTSecret,
		Logger:      log,
	})
	return &apiEnv{app: app, store: store, category: store.SeedCategory("Carnes")}
}

// call envía la petición con un token del rol indicado y decodifica la respuesta en out (si no es nil).
func (e *apiEnv) call(t *testing.T, role, method, path string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "esperado %s, obtenido %s", want, got)
}

func TestDeductions_FIFO(t *testing.T) {
	env := newAPIEnv(t)
	p := env.store.SeedProduct(env.category, "Pechuga", "20", "0")
	env.store.SeedBatch(p, "5", "2000", t0)
	env.store.SeedBatch(p, "15", "2500", t0.Add(time.Hour))

	var out dto.DeductionResponse
	status := env.call(t, pkgjwt.RoleManager, http.MethodPost, "/api/inventory/deductions",
		map[string]any{"product_id": p, "quantity": "10"}, &out)

	assert.Equal(t, http.StatusCreated, status)
	assertDec(t, "22500", out.TotalCost)
	require.Len(t, out.Lines, 2)
	assertDec(t, "10", env.store.Product(p).CurrentStock)
}

func TestDeductions_LoteForzadoSinSaldo409(t *testing.T) {
	env := newAPIEnv(t)
	p := env.store.SeedProduct(env.category, "Pechuga", "5", "0")
	b := env.store.SeedBatch(p, "5", "2000", t0)

	var out dto.ErrorResponse
	status := env.call(t, pkgjwt.RoleAdmin, http.MethodPost, "/api/inventory/deductions",
		map[string]any{"product_id": p, "quantity": "8", "batch_id": b}, &out)

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_BATCH_REMAINDER", out.Code)
	assertDec(t, "5", env.store.Batch(b).RemainingQuantity)
}

func TestDeductions_Validacion(t *testing.T) {
	env := newAPIEnv(t)

	var out dto.ErrorResponse
	status := env.call(t, pkgjwt.RoleAdmin, http.MethodPost, "/api/inventory/deductions",
		map[string]any{"quantity": "1"}, &out)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", out.Code)
	assert.Contains(t, out.Message, "product_id")

	status = env.call(t, pkgjwt.RoleAdmin, http.MethodPost, "/api/inventory/deductions",
		map[string]any{"product_id": "no-existe", "quantity": "1"}, &out)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", out.Code)
}

func TestDeductions_WorkerSinPermiso(t *testing.T) {
	env := newAPIEnv(t)
	p := env.store.SeedProduct(env.category, "Pechuga", "5", "0")

	status := env.call(t, pkgjwt.RoleWorker, http.MethodPost, "/api/inventory/deductions",
		map[string]any{"product_id": p, "quantity": "1"}, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestMerge_FusionCompleta(t *testing.T) {
	env := newAPIEnv(t)
	p := env.store.SeedProduct(env.category, "Pechuga", "15", "0")
	target := env.store.SeedBatch(p, "10", "2500", t0)
	source := env.store.SeedBatch(p, "5", "3000", t0.Add(time.Hour))

	var out dto.MergeBatchesResponse
	status := env.call(t, pkgjwt.RoleManager, http.MethodPost, "/api/inventory/batches/merge",
		map[string]any{"product_id": p, "source_batch_id": source, "target_batch_id": target}, &out)

	assert.Equal(t, http.StatusOK, status)
	assert.True(t, out.SourceDeleted)
	assert.Equal(t, "2666.67", out.Target.PricePerUnit.StringFixed(2))
	assert.Nil(t, env.store.Batch(source))
}

func TestMerge_MismoLoteRechazado(t *testing.T) {
	env := newAPIEnv(t)

	var out dto.ErrorResponse
	status := env.call(t, pkgjwt.RoleManager, http.MethodPost, "/api/inventory/batches/merge",
		map[string]any{"product_id": "p", "source_batch_id": "b", "target_batch_id": "b"}, &out)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", out.Code)
	assert.Contains(t, out.Message, "target_batch_id")
}

func TestDisposal_Worker(t *testing.T) {
	env := newAPIEnv(t)
	p := env.store.SeedProduct(env.category, "Chorizo", "2", "0")
	env.store.SeedBatch(p, "2", "1000", t0)

	var out dto.DisposalResponse
	status := env.call(t, pkgjwt.RoleWorker, http.MethodPost, "/api/inventory/disposals",
		map[string]any{"product_id": p, "quantity": "1", "reason": "Vencido"}, &out)

	assert.Equal(t, http.StatusCreated, status)
	assertDec(t, "1000", out.TotalCost)
	assert.Len(t, env.store.Disposals(), 1)
}

func TestDisposal_CantidadConMasDecimales400(t *testing.T) {
	env := newAPIEnv(t)
	p := env.store.SeedProduct(env.category, "Chorizo", "2", "0")
	b := env.store.SeedBatch(p, "2", "1000", t0)

	var out dto.ErrorResponse
	status := env.call(t, pkgjwt.RoleWorker, http.MethodPost, "/api/inventory/disposals",
		map[string]any{"product_id": p, "quantity": "0.00001", "reason": "Vencido"}, &out)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", out.Code)
	assertDec(t, "2", env.store.Batch(b).RemainingQuantity)
	assert.Empty(t, env.store.Disposals())
}

func TestListBatches_SinFiltro400(t *testing.T) {
	env := newAPIEnv(t)

	var out dto.ErrorResponse
	status := env.call(t, pkgjwt.RoleWorker, http.MethodGet, "/api/inventory/batches", nil, &out)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", out.Code)
}

func TestListBatches_PorProducto(t *testing.T) {
	env := newAPIEnv(t)
	p := env.store.SeedProduct(env.category, "Pechuga", "7", "0")
	env.store.SeedBatch(p, "3", "100", t0)
	env.store.SeedBatch(p, "4", "200", t0.Add(time.Hour))

	var out dto.BatchListResponse
	status := env.call(t, pkgjwt.RoleWorker, http.MethodGet, "/api/inventory/batches?product_id="+p, nil, &out)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, out.Items, 2)
	assertDec(t, "1100", out.TotalValue)
}

func TestProductions_CrearYCompletar(t *testing.T) {
	env := newAPIEnv(t)
	raw := env.store.SeedProduct(env.category, "Panceta cruda", "20", "0")
	smoked := env.store.SeedProduct(env.category, "Panceta ahumada", "0", "0")
	env.store.SeedBatch(raw, "20", "2000", t0)

	var created dto.ProductionResponse
	status := env.call(t, pkgjwt.RoleWorker, http.MethodPost, "/api/productions", map[string]any{
		"materials": []map[string]any{{"product_id": raw, "quantity": "10"}},
		"items":     []map[string]any{{"product_id": smoked, "quantity": "8"}},
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "IN_PROGRESS", created.Status)

	var done dto.ProductionResponse
	status = env.call(t, pkgjwt.RoleWorker, http.MethodPost, "/api/productions/"+created.ID+"/complete", nil, &done)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "COMPLETED", done.Status)
	require.NotNil(t, done.TotalCost)
	assertDec(t, "20000", *done.TotalCost)
	assertDec(t, "8", env.store.Product(smoked).CurrentStock)

	var list dto.ProductionListResponse
	status = env.call(t, pkgjwt.RoleWorker, http.MethodGet, "/api/productions?limit=5", nil, &list)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 5, list.Page.Limit)

	var missing dto.ErrorResponse
	status = env.call(t, pkgjwt.RoleWorker, http.MethodPost, "/api/productions/no-existe/complete", nil, &missing)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestProcurementYVenta(t *testing.T) {
	env := newAPIEnv(t)
	p := env.store.SeedProduct(env.category, "Jamón", "0", "0")

	var proc dto.ProcurementResponse
	status := env.call(t, pkgjwt.RoleManager, http.MethodPost, "/api/procurements", map[string]any{
		"supplier":       "Granja Sur",
		"payment_source": "CASH",
		"items":          []map[string]any{{"product_id": p, "quantity": "4", "price_per_unit": "1000"}},
	}, &proc)
	require.Equal(t, http.StatusCreated, status)
	assertDec(t, "4000", proc.TotalAmount)

	var bad dto.ErrorResponse
	status = env.call(t, pkgjwt.RoleManager, http.MethodPost, "/api/procurements", map[string]any{
		"supplier":       "Granja Sur",
		"payment_source": "CHEQUE",
		"items":          []map[string]any{{"product_id": p, "quantity": "1", "price_per_unit": "1"}},
	}, &bad)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, bad.Message, "payment_source")

	var sale dto.SaleResponse
	status = env.call(t, pkgjwt.RoleWorker, http.MethodPost, "/api/sales", map[string]any{
		"items": []map[string]any{{"product_id": p, "quantity": "3", "price_per_unit": "1500"}},
	}, &sale)
	require.Equal(t, http.StatusCreated, status)
	assertDec(t, "1500", sale.Margin)

	var short dto.ErrorResponse
	status = env.call(t, pkgjwt.RoleWorker, http.MethodPost, "/api/sales", map[string]any{
		"items": []map[string]any{{"product_id": p, "quantity": "5", "price_per_unit": "1500"}},
	}, &short)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", short.Code)
}

func TestProducts_CrearYObtener(t *testing.T) {
	env := newAPIEnv(t)

	var cat dto.CategoryResponse
	status := env.call(t, pkgjwt.RoleAdmin, http.MethodPost, "/api/categories",
		map[string]any{"name": "Embutidos", "type": "PRODUCT"}, &cat)
	require.Equal(t, http.StatusCreated, status)

	var prod dto.ProductResponse
	status = env.call(t, pkgjwt.RoleAdmin, http.MethodPost, "/api/products",
		map[string]any{"category_id": cat.ID, "name": "Salame", "unit": "KG", "min_stock": "2"}, &prod)
	require.Equal(t, http.StatusCreated, status)

	var got dto.ProductResponse
	status = env.call(t, pkgjwt.RoleWorker, http.MethodGet, "/api/products/"+prod.ID, nil, &got)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Salame", got.Name)

	status = env.call(t, pkgjwt.RoleWorker, http.MethodGet, "/api/products/no-existe", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHistoryYLowStock(t *testing.T) {
	env := newAPIEnv(t)
	p := env.store.SeedProduct(env.category, "Pollo", "2", "500")
	env.store.SetMinStock(p, "10")

	var hist dto.ProductHistoryResponse
	status := env.call(t, pkgjwt.RoleWorker, http.MethodGet, "/api/inventory/products/"+p+"/history", nil, &hist)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 20, hist.Page.Limit)

	status = env.call(t, pkgjwt.RoleWorker, http.MethodGet, "/api/inventory/products/"+p+"/history?limit=500", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	var low []dto.LowStockItemDTO
	status = env.call(t, pkgjwt.RoleWorker, http.MethodGet, "/api/inventory/low-stock", nil, &low)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, low, 1)
	assertDec(t, "13", low[0].SuggestedOrderQty)
}
