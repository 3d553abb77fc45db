package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lotes-erp/internal/application/dto"
	"github.com/jhoicas/lotes-erp/internal/application/inventory"
	"github.com/jhoicas/lotes-erp/internal/domain"
	"github.com/jhoicas/lotes-erp/internal/domain/entity"
)

func TestMergeBatches_EscenarioCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.store.SeedProduct(f.category, "Pechuga", "25", "0")
	f.store.SeedBatch(p, "5", "2000", t0)
	b2 := f.store.SeedBatch(p, "15", "2500", t0.Add(time.Hour))
	b3 := f.store.SeedBatch(p, "5", "3000", t0.Add(2*time.Hour))

	_, err := f.deduct.DeductStock(ctx, userID, dto.DeductStockRequest{ProductID: p, Quantity: dec("10")})
	require.NoError(t, err)

	resp, err := f.merge.MergeBatches(ctx, inventory.MergeInput{
		ProductID:     p,
		SourceBatchID: b3,
		TargetBatchID: b2,
		UserID:        userID,
	})
	require.NoError(t, err)

	assert.True(t, resp.SourceDeleted)
	assert.False(t, resp.CrossProduct)
	assertDec(t, "15", resp.Target.RemainingQuantity)
	assertDec(t, "2666.6667", resp.Target.PricePerUnit)
	assert.Equal(t, "2666.67", resp.Target.PricePerUnit.StringFixed(2))

	assert.Nil(t, f.store.Batch(b3), "fusión completa elimina el origen")
	target := f.store.Batch(b2)
	require.NotNil(t, target)
	assertDec(t, "15", target.RemainingQuantity)
	assertDec(t, "15", target.InitialQuantity) // cantidad inicial original, no la fusionada
	assert.True(t, target.CreatedAt.Equal(t0.Add(time.Hour)), "el destino conserva created_at")

	// mismo producto: el agregado no cambia
	assertDec(t, "15", f.store.Product(p).CurrentStock)

	merges := f.store.Merges()
	require.Len(t, merges, 1)
	assert.Equal(t, entity.MergeDirectionIn, merges[0].Direction)
	assert.Equal(t, b3, merges[0].SourceBatchID)
	assert.Equal(t, b2, merges[0].TargetBatchID)
	assertDec(t, "5", merges[0].Quantity)
	assertDec(t, "3000", merges[0].PriceAtMerge)
	assert.Equal(t, userID, merges[0].UserID)
	assert.Contains(t, merges[0].SourceDescription, "Pechuga")
}

func TestMergeBatches_ConservaValor(t *testing.T) {
	cases := []struct {
		name             string
		srcQty, srcPrice string
		dstQty, dstPrice string
		qty              string
	}{
		{"enteros", "5", "3000", "10", "2500", "5"},
		{"fracciones", "2.375", "1234.5678", "7.125", "987.6543", "1.1"},
		{"destino vacío", "3", "10", "0", "99", "3"},
		{"periódico", "1", "1", "2", "2", "1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			p := f.store.SeedProduct(f.category, "Carne", "0", "0")
			src := f.store.SeedBatch(p, tc.srcQty, tc.srcPrice, t0)
			dst := f.store.SeedBatch(p, tc.dstQty, tc.dstPrice, t0.Add(time.Hour))
			q := dec(tc.qty)

			before := dec(tc.qty).Mul(dec(tc.srcPrice)).Add(dec(tc.dstQty).Mul(dec(tc.dstPrice)))
			_, err := f.merge.MergeBatches(context.Background(), inventory.MergeInput{
				ProductID: p, SourceBatchID: src, TargetBatchID: dst, Quantity: &q, UserID: userID,
			})
			require.NoError(t, err)

			target := f.store.Batch(dst)
			after := target.RemainingQuantity.Mul(target.PricePerUnit)
			// precio a 4 decimales: error máximo 0.00005 por unidad
			maxErr := target.RemainingQuantity.Mul(dec("0.00005"))
			assert.Truef(t, before.Sub(after).Abs().LessThanOrEqual(maxErr),
				"valor antes %s, después %s", before, after)
		})
	}
}

func TestMergeBatches_Parcial(t *testing.T) {
	f := newFixture(t)
	p := f.store.SeedProduct(f.category, "Carne", "10", "0")
	src := f.store.SeedBatch(p, "8", "100", t0)
	dst := f.store.SeedBatch(p, "2", "200", t0.Add(time.Hour))
	q := dec("3")

	resp, err := f.merge.MergeBatches(context.Background(), inventory.MergeInput{
		ProductID: p, SourceBatchID: src, TargetBatchID: dst, Quantity: &q, UserID: userID,
	})
	require.NoError(t, err)
	assert.False(t, resp.SourceDeleted)
	assertDec(t, "5", resp.SourceRemaining)

	source := f.store.Batch(src)
	require.NotNil(t, source)
	assertDec(t, "5", source.RemainingQuantity)
	assertDec(t, "100", source.PricePerUnit)
	assertDec(t, "8", source.InitialQuantity)

	target := f.store.Batch(dst)
	assertDec(t, "5", target.RemainingQuantity)
	assertDec(t, "140", target.PricePerUnit)
}

func TestMergeBatches_EntreProductos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.store.SeedProduct(f.category, "Muslo", "12", "0")
	b := f.store.SeedProduct(f.category, "Pierna", "4", "0")
	src := f.store.SeedBatch(a, "12", "1000", t0)
	dst := f.store.SeedBatch(b, "4", "1500", t0)
	q := dec("5")

	resp, err := f.merge.MergeBatches(ctx, inventory.MergeInput{
		ProductID: b, SourceBatchID: src, TargetBatchID: dst, Quantity: &q, UserID: userID,
	})
	require.NoError(t, err)
	assert.True(t, resp.CrossProduct)

	assertDec(t, "7", f.store.Product(a).CurrentStock)
	assertDec(t, "9", f.store.Product(b).CurrentStock)

	merges := f.store.Merges()
	require.Len(t, merges, 2)
	assert.Equal(t, b, merges[0].ProductID)
	assert.Equal(t, entity.MergeDirectionIn, merges[0].Direction)
	assert.Equal(t, a, merges[1].ProductID)
	assert.Equal(t, entity.MergeDirectionOut, merges[1].Direction)
	assert.Contains(t, merges[1].SourceDescription, "Pierna")

	outMovs := f.store.Movements(a)
	require.Len(t, outMovs, 1)
	assert.Equal(t, entity.MovementTypeMergeOut, outMovs[0].Type)
	assertDec(t, "-5", outMovs[0].Quantity)
	inMovs := f.store.Movements(b)
	require.Len(t, inMovs, 1)
	assert.Equal(t, entity.MovementTypeMergeIn, inMovs[0].Type)
	assertDec(t, "5000", inMovs[0].TotalCost)
}

func TestMergeBatches_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.store.SeedProduct(f.category, "Carne", "10", "0")
	other := f.store.SeedProduct(f.category, "Otra", "0", "0")
	src := f.store.SeedBatch(p, "5", "100", t0)
	dst := f.store.SeedBatch(p, "5", "200", t0)

	tooMuch := dec("6")
	_, err := f.merge.MergeBatches(ctx, inventory.MergeInput{ProductID: p, SourceBatchID: src, TargetBatchID: dst, Quantity: &tooMuch})
	assert.ErrorIs(t, err, domain.ErrInsufficientBatchRemainder)

	_, err = f.merge.MergeBatches(ctx, inventory.MergeInput{ProductID: p, SourceBatchID: src, TargetBatchID: src})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.merge.MergeBatches(ctx, inventory.MergeInput{ProductID: other, SourceBatchID: src, TargetBatchID: dst})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el producto debe ser el del lote destino")

	_, err = f.merge.MergeBatches(ctx, inventory.MergeInput{ProductID: p, SourceBatchID: "x", TargetBatchID: dst})
	assert.ErrorIs(t, err, domain.ErrBatchNotFound)

	// nada cambió
	assertDec(t, "5", f.store.Batch(src).RemainingQuantity)
	assertDec(t, "200", f.store.Batch(dst).PricePerUnit)
	assert.Empty(t, f.store.Merges())
}

func TestConsolidateProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.store.SeedProduct(f.category, "Carne", "9", "0")
	b1 := f.store.SeedBatch(p, "2", "100", t0)
	b2 := f.store.SeedBatch(p, "3", "200", t0.Add(time.Hour))
	b3 := f.store.SeedBatch(p, "4", "300", t0.Add(2*time.Hour))
	empty := f.store.SeedBatch(p, "0", "999", t0.Add(3*time.Hour))

	resp, err := f.merge.ConsolidateProduct(ctx, p, b2, userID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{b1, b3}, resp.MergedBatches)

	assert.Nil(t, f.store.Batch(b1))
	assert.Nil(t, f.store.Batch(b3))
	assert.NotNil(t, f.store.Batch(empty), "lotes sin saldo no se fusionan")
	target := f.store.Batch(b2)
	assertDec(t, "9", target.RemainingQuantity)
	// (2×100 + 3×200 + 4×300) / 9 = 222.22…
	assert.Equal(t, "222.22", target.PricePerUnit.StringFixed(2))
	assertDec(t, "9", f.store.Product(p).CurrentStock)
	assert.Len(t, f.store.Merges(), 2)

	logs := f.store.AuditLog()
	require.NotEmpty(t, logs)
	assert.Equal(t, inventory.AuditProductConsolidated, logs[len(logs)-1].Action)
}

func TestConsolidateProduct_DestinoDeOtroProducto(t *testing.T) {
	f := newFixture(t)
	p := f.store.SeedProduct(f.category, "Carne", "2", "0")
	other := f.store.SeedProduct(f.category, "Otra", "2", "0")
	b := f.store.SeedBatch(other, "2", "100", t0)

	_, err := f.merge.ConsolidateProduct(context.Background(), p, b, userID)
	assert.ErrorIs(t, err, domain.ErrBatchNotFound)
}

func TestMergeBatches_CantidadConMasDecimalesQueElEsquema(t *testing.T) {
	f := newFixture(t)
	p := f.store.SeedProduct(f.category, "Carne", "10", "0")
	src := f.store.SeedBatch(p, "5", "100", t0)
	dst := f.store.SeedBatch(p, "5", "200", t0)
	q := dec("1.23456")

	_, err := f.merge.MergeBatches(context.Background(), inventory.MergeInput{
		ProductID: p, SourceBatchID: src, TargetBatchID: dst, Quantity: &q, UserID: userID,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	assertDec(t, "5", f.store.Batch(src).RemainingQuantity)
	assertDec(t, "5", f.store.Batch(dst).RemainingQuantity)
	assertDec(t, "200", f.store.Batch(dst).PricePerUnit)
	assert.Empty(t, f.store.Merges())
}

func TestDeduct_LoteForzadoYaFusionado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.store.SeedProduct(f.category, "Pechuga", "8", "0")
	src := f.store.SeedBatch(p, "3", "100", t0)
	dst := f.store.SeedBatch(p, "5", "200", t0.Add(time.Hour))

	_, err := f.merge.MergeBatches(ctx, inventory.MergeInput{
		ProductID: p, SourceBatchID: src, TargetBatchID: dst, UserID: userID,
	})
	require.NoError(t, err)
	require.Nil(t, f.store.Batch(src))

	// el usuario eligió el lote antes de la fusión: falla sin caer en FIFO
	_, err = f.deduct.DeductStock(ctx, userID, dto.DeductStockRequest{ProductID: p, Quantity: dec("1"), BatchID: &src})
	require.ErrorIs(t, err, domain.ErrBatchNotFound)

	_, err = f.disposal.CreateDisposal(ctx, userID, dto.CreateDisposalRequest{
		ProductID: p, BatchID: &src, Quantity: dec("1"), Reason: "Vencido",
	})
	require.ErrorIs(t, err, domain.ErrBatchNotFound)

	assertDec(t, "8", f.store.Product(p).CurrentStock)
	target := f.store.Batch(dst)
	assertDec(t, "8", target.RemainingQuantity)
	assertDec(t, "162.5", target.PricePerUnit) // (3×100 + 5×200) / 8
	assert.Empty(t, f.store.Movements(p))
	assert.Empty(t, f.store.Disposals())
}
