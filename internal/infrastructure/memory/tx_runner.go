package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cotiza-api/internal/application/workflow"
	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

type transition struct {
	id   string
	from entity.RFQStatus
}

// txState escrituras pendientes de una transacción.
type txState struct {
	products    collection[entity.Product]
	rfqs        collection[entity.RFQ]
	quotes      collection[entity.Quote]
	orders      collection[entity.Order]
	transitions []transition
}

// TxRunner implementa workflow.TxRunner sobre el Store.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

var _ workflow.TxRunner = (*TxRunner)(nil)

// Run ejecuta fn con repositorios transaccionales. Si fn falla o el contexto se cancela
// antes del commit, ninguna escritura se aplica.
func (t *TxRunner) Run(ctx context.Context, fn func(
	rfqRepo repository.RFQRepository,
	quoteRepo repository.QuoteRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	tx := &txState{
		products: collection[entity.Product]{},
		rfqs:     collection[entity.RFQ]{},
		quotes:   collection[entity.Quote]{},
		orders:   collection[entity.Order]{},
	}
	err := fn(
		&RFQRepo{s: t.s, tx: tx},
		&QuoteRepo{s: t.s, tx: tx},
		&OrderRepo{s: t.s, tx: tx},
		&ProductRepo{s: t.s, tx: tx},
	)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.s.commit(tx)
}

func (s *Store) commit(tx *txState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Un CAS fuera de transacción pudo cambiar el estado entre tanto.
	for _, tr := range tx.transitions {
		if cur, ok := s.rfqs[tr.id]; ok && cur.val.Status != tr.from {
			return fmt.Errorf("%w: la rfq %s cambió de estado", domain.ErrInvalidState, tr.id)
		}
	}
	for id, rec := range tx.products {
		s.products[id] = rec
	}
	for id, rec := range tx.rfqs {
		s.rfqs[id] = rec
	}
	for id, rec := range tx.quotes {
		s.quotes[id] = rec
	}
	for id, rec := range tx.orders {
		s.orders[id] = rec
	}
	return nil
}
