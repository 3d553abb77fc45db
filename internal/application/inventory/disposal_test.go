package inventory_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lotes-erp/internal/application/dto"
	"github.com/jhoicas/lotes-erp/internal/domain"
	"github.com/jhoicas/lotes-erp/internal/domain/entity"
)

func TestCreateDisposal_FIFO(t *testing.T) {
	f := newFixture(t)
	p := f.store.SeedProduct(f.category, "Chorizo", "6", "0")
	f.store.SeedBatch(p, "2", "1000", t0)
	f.store.SeedBatch(p, "4", "1300", t0.Add(time.Hour))

	resp, err := f.disposal.CreateDisposal(context.Background(), userID, dto.CreateDisposalRequest{
		ProductID: p,
		Quantity:  dec("3"),
		Reason:    "Vencido",
	})
	require.NoError(t, err)

	assertDec(t, "3300", resp.TotalCost)    // 2×1000 + 1×1300
	assertDec(t, "1100", resp.PricePerUnit) // 3300 / 3
	require.Len(t, resp.Lines, 2)
	assertDec(t, "3", f.store.Product(p).CurrentStock)

	disposals := f.store.Disposals()
	require.Len(t, disposals, 1)
	d := disposals[0]
	assert.Equal(t, "Vencido", d.Reason)
	assert.Equal(t, userID, d.UserID)
	assert.Nil(t, d.BatchID)
	assert.True(t, json.Valid(d.Details))

	movs := f.store.Movements(p)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeDisposal, movs[0].Type)
	assert.Equal(t, d.ID, movs[0].TransactionID)
}

func TestCreateDisposal_LoteForzado(t *testing.T) {
	f := newFixture(t)
	p := f.store.SeedProduct(f.category, "Chorizo", "6", "0")
	f.store.SeedBatch(p, "2", "1000", t0)
	b := f.store.SeedBatch(p, "4", "1300", t0.Add(time.Hour))

	resp, err := f.disposal.CreateDisposal(context.Background(), userID, dto.CreateDisposalRequest{
		ProductID: p,
		BatchID:   &b,
		Quantity:  dec("1"),
		Reason:    "Degustación",
	})
	require.NoError(t, err)
	assertDec(t, "1300", resp.TotalCost)
	assert.Equal(t, b, *resp.BatchID)
	assertDec(t, "3", f.store.Batch(b).RemainingQuantity)
}

func TestCreateDisposal_LoteSinSaldoNoRegistra(t *testing.T) {
	f := newFixture(t)
	p := f.store.SeedProduct(f.category, "Chorizo", "2", "0")
	b := f.store.SeedBatch(p, "2", "1000", t0)

	_, err := f.disposal.CreateDisposal(context.Background(), userID, dto.CreateDisposalRequest{
		ProductID: p,
		BatchID:   &b,
		Quantity:  dec("5"),
		Reason:    "Merma",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientBatchRemainder)
	assert.Empty(t, f.store.Disposals())
	assertDec(t, "2", f.store.Product(p).CurrentStock)
}

func TestCreateDisposal_DeficitNoFalla(t *testing.T) {
	f := newFixture(t)
	p := f.store.SeedProduct(f.category, "Chorizo", "1", "900")
	f.store.SeedBatch(p, "1", "1000", t0)

	resp, err := f.disposal.CreateDisposal(context.Background(), userID, dto.CreateDisposalRequest{
		ProductID: p,
		Quantity:  dec("3"),
		Reason:    "Merma",
	})
	require.NoError(t, err)
	assertDec(t, "2800", resp.TotalCost) // 1×1000 + 2×900 (promedio)
	assertDec(t, "-2", f.store.Product(p).CurrentStock)
	assert.Nil(t, resp.Lines[1].BatchID)
}
