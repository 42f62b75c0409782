package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cotiza-api/internal/application/workflow"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

var _ workflow.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	db TxStarter
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db TxStarter) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// La cancelación del contexto aborta la transacción completa.
func (r *TxRunner) Run(ctx context.Context, fn func(
	rfqRepo repository.RFQRepository,
	quoteRepo repository.QuoteRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewRFQRepository(tx),
		NewQuoteRepository(tx),
		NewOrderRepository(tx),
		NewProductRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
