package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vacutrack/vacutrack-api/internal/application/cascade"
	"github.com/vacutrack/vacutrack-api/internal/application/stock"
	"github.com/vacutrack/vacutrack-api/internal/application/transfer"
	"github.com/vacutrack/vacutrack-api/internal/domain/repository"
)

// Ensure TxRunner implements the application ports.
var _ stock.TxRunner = (*StockTxRunner)(nil)
var _ transfer.TxRunner = (*TransferTxRunner)(nil)
var _ cascade.TxRunner = (*CascadeTxRunner)(nil)

// StockTxRunner ejecuta callbacks del almacén de lotes dentro de una
// transacción PostgreSQL.
type StockTxRunner struct {
	pool *pgxpool.Pool
}

// NewStockTxRunner construye el runner con el pool.
func NewStockTxRunner(pool *pgxpool.Pool) *StockTxRunner {
	return &StockTxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *StockTxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	aggRepo repository.AggregateRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewLotRepository(tx), NewAggregateRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// TransferTxRunner ejecuta callbacks del motor de transferencias dentro de
// una transacción PostgreSQL. La reserva FEFO y la creación de la
// transferencia comparten la misma tx con bloqueo de filas.
type TransferTxRunner struct {
	pool *pgxpool.Pool
}

// NewTransferTxRunner construye el runner con el pool.
func NewTransferTxRunner(pool *pgxpool.Pool) *TransferTxRunner {
	return &TransferTxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TransferTxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	aggRepo repository.AggregateRepository,
	transferRepo repository.TransferRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewLotRepository(tx), NewAggregateRepository(tx), NewTransferRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// CascadeTxRunner ejecuta la eliminación en cascada dentro de una sola
// transacción: o se borra todo en orden o no se borra nada.
type CascadeTxRunner struct {
	pool *pgxpool.Pool
}

// NewCascadeTxRunner construye el runner con el pool.
func NewCascadeTxRunner(pool *pgxpool.Pool) *CascadeTxRunner {
	return &CascadeTxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *CascadeTxRunner) Run(ctx context.Context, fn func(
	cascadeRepo repository.CascadeRepository,
	lotRepo repository.LotRepository,
	aggRepo repository.AggregateRepository,
	adminRepo repository.AdminTreeRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(
		NewCascadeRepository(tx),
		NewLotRepository(tx),
		NewAggregateRepository(tx),
		NewAdminTreeRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
