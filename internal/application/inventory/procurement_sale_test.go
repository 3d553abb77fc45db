package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lotes-erp/internal/application/dto"
	"github.com/jhoicas/lotes-erp/internal/domain"
	"github.com/jhoicas/lotes-erp/internal/domain/entity"
)

func TestReceiveProcurement_CreaLotesYPromedia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.store.SeedProduct(f.category, "Cerdo", "0", "0")

	first, err := f.procurement.ReceiveProcurement(ctx, userID, dto.CreateProcurementRequest{
		Supplier:      "Granja Sur",
		PaymentSource: entity.PaymentSourceBank,
		Items:         []dto.ProcurementItemRequest{{ProductID: p, Quantity: dec("10"), PricePerUnit: dec("2000")}},
	})
	require.NoError(t, err)
	assertDec(t, "20000", first.TotalAmount)
	require.Len(t, first.Items, 1)
	require.NotEmpty(t, first.Items[0].BatchID)

	_, err = f.procurement.ReceiveProcurement(ctx, userID, dto.CreateProcurementRequest{
		Supplier:      "Granja Norte",
		PaymentSource: entity.PaymentSourceCash,
		Items:         []dto.ProcurementItemRequest{{ProductID: p, Quantity: dec("10"), PricePerUnit: dec("3000")}},
	})
	require.NoError(t, err)

	product := f.store.Product(p)
	assertDec(t, "20", product.CurrentStock)
	assertDec(t, "2500", product.AveragePurchasePrice)

	batches := f.store.BatchesOf(p)
	require.Len(t, batches, 2)
	batch := f.store.Batch(first.Items[0].BatchID)
	require.NotNil(t, batch)
	require.NotNil(t, batch.ProcurementItemID)
	assert.Equal(t, first.Items[0].ID, *batch.ProcurementItemID)

	movs := f.store.Movements(p)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTypeProcurement, movs[0].Type)
}

func TestReceiveProcurement_ProductoInexistenteRevierte(t *testing.T) {
	f := newFixture(t)
	p := f.store.SeedProduct(f.category, "Cerdo", "0", "0")

	_, err := f.procurement.ReceiveProcurement(context.Background(), userID, dto.CreateProcurementRequest{
		Supplier:      "Granja Sur",
		PaymentSource: entity.PaymentSourceCash,
		Items: []dto.ProcurementItemRequest{
			{ProductID: p, Quantity: dec("1"), PricePerUnit: dec("10")},
			{ProductID: "no-existe", Quantity: dec("1"), PricePerUnit: dec("10")},
		},
	})
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	assertDec(t, "0", f.store.Product(p).CurrentStock)
	assert.Empty(t, f.store.BatchesOf(p))
}

func TestDeficitUsaUltimoPrecioDeCompra(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.store.SeedProduct(f.category, "Cerdo", "0", "0")

	for _, price := range []string{"2000", "2600"} {
		_, err := f.procurement.ReceiveProcurement(ctx, userID, dto.CreateProcurementRequest{
			Supplier:      "Granja",
			PaymentSource: entity.PaymentSourceCash,
			Items:         []dto.ProcurementItemRequest{{ProductID: p, Quantity: dec("1"), PricePerUnit: dec(price)}},
		})
		require.NoError(t, err)
	}

	resp, err := f.deduct.DeductStock(ctx, userID, dto.DeductStockRequest{ProductID: p, Quantity: dec("3")})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 3)
	assert.Nil(t, resp.Lines[2].BatchID)
	assertDec(t, "2600", resp.Lines[2].Price)
}

func TestCreateSale_CostoDeMercaderia(t *testing.T) {
	f := newFixture(t)
	p := f.store.SeedProduct(f.category, "Jamón", "6", "0")
	f.store.SeedBatch(p, "2", "1000", t0)
	f.store.SeedBatch(p, "4", "1200", t0.AddDate(0, 0, 1))

	resp, err := f.sale.CreateSale(context.Background(), userID, dto.CreateSaleRequest{
		Customer: "Restaurante Centro",
		Items:    []dto.SaleItemRequest{{ProductID: p, Quantity: dec("3"), PricePerUnit: dec("2000")}},
	})
	require.NoError(t, err)
	assertDec(t, "6000", resp.TotalRevenue)
	assertDec(t, "3200", resp.TotalCost) // 2×1000 + 1×1200
	assertDec(t, "2800", resp.Margin)
	require.Len(t, resp.Items, 1)
	assertDec(t, "3200", resp.Items[0].CostOfGoods)
	assertDec(t, "3", f.store.Product(p).CurrentStock)

	sales := f.store.Sales()
	require.Len(t, sales, 1)
	assert.Equal(t, "Restaurante Centro", sales[0].Customer)
}

func TestCreateSale_StockInsuficiente(t *testing.T) {
	f := newFixture(t)
	p := f.store.SeedProduct(f.category, "Jamón", "2", "0")
	f.store.SeedBatch(p, "2", "1000", t0)

	_, err := f.sale.CreateSale(context.Background(), userID, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: p, Quantity: dec("3"), PricePerUnit: dec("2000")}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assertDec(t, "2", f.store.Product(p).CurrentStock)
	assert.Empty(t, f.store.Sales())
}

func TestCompraYVenta_CantidadConMasDecimalesQueElEsquema(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.store.SeedProduct(f.category, "Jamón", "2", "0")
	f.store.SeedBatch(p, "2", "1000", t0)

	_, err := f.procurement.ReceiveProcurement(ctx, userID, dto.CreateProcurementRequest{
		Supplier:      "Frigorífico Sur",
		PaymentSource: entity.PaymentSourceBank,
		Items:         []dto.ProcurementItemRequest{{ProductID: p, Quantity: dec("1.00001"), PricePerUnit: dec("900")}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.sale.CreateSale(ctx, userID, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: p, Quantity: dec("0.12345"), PricePerUnit: dec("2000")}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	assertDec(t, "2", f.store.Product(p).CurrentStock)
	assert.Len(t, f.store.BatchesOf(p), 1)
	assert.Empty(t, f.store.Sales())
	assert.Empty(t, f.store.Movements(p))
}
