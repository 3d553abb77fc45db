package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/lotes-erp/internal/application/inventory"
	"github.com/jhoicas/lotes-erp/pkg/config"
	"github.com/jhoicas/lotes-erp/pkg/logger"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool       *pgxpool.Pool
	isoLevel   pgx.TxIsoLevel
	maxRetries int
	log        *logger.Logger
}

// NewTxRunner construye el runner con el pool y los parámetros de aislamiento/reintento.
func NewTxRunner(pool *pgxpool.Pool, cfg config.InventoryConfig, log *logger.Logger) *TxRunner {
	iso := pgx.ReadCommitted
	if cfg.TxIsolation == "serializable" {
		iso = pgx.Serializable
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TxRunner{pool: pool, isoLevel: iso, maxRetries: cfg.TxMaxRetries, log: log.Component("tx_runner")}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Ante un fallo de serialización o deadlock se repite fn completo hasta maxRetries veces.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, tx inventory.Tx) error) error {
	for attempt := 0; ; attempt++ {
		err := r.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) || attempt >= r.maxRetries {
			return err
		}
		r.log.Warn().Err(err).Int("attempt", attempt+1).Msg("transacción abortada por concurrencia, reintentando")

		backoff := time.Duration(attempt+1) * 20 * time.Millisecond
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, tx inventory.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: r.isoLevel})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepositories agrupa los repositorios del motor sobre un mismo Querier (pool o tx).
func NewRepositories(q Querier) inventory.Tx {
	return inventory.Tx{
		Products:     NewProductRepository(q),
		Categories:   NewCategoryRepository(q),
		Batches:      NewBatchRepository(q),
		Procurements: NewProcurementRepository(q),
		Sales:        NewSaleRepository(q),
		Productions:  NewProductionRepository(q),
		Disposals:    NewDisposalRepository(q),
		Merges:       NewBatchMergeRepository(q),
		Movements:    NewInventoryMovementRepository(q),
	}
}
