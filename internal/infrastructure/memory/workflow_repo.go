package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

// RFQRepo implementa repository.RFQRepository.
type RFQRepo struct {
	s  *Store
	tx *txState
}

// NewRFQRepo construye el repositorio fuera de transacción.
func NewRFQRepo(s *Store) *RFQRepo { return &RFQRepo{s: s} }

var _ repository.RFQRepository = (*RFQRepo)(nil)

// Create inserta la RFQ.
func (r *RFQRepo) Create(_ context.Context, rfq *entity.RFQ) error {
	rec := record[entity.RFQ]{val: *rfq, seq: r.s.nextSeq()}
	if r.tx != nil {
		r.tx.rfqs[rfq.ID] = rec
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.rfqs[rfq.ID] = rec
	return nil
}

func (r *RFQRepo) get(id string) (record[entity.RFQ], bool) {
	if r.tx != nil {
		if rec, ok := r.tx.rfqs[id]; ok {
			return rec, true
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.rfqs[id]
	return rec, ok
}

// GetByID devuelve (nil, nil) si no existe.
func (r *RFQRepo) GetByID(_ context.Context, id string) (*entity.RFQ, error) {
	rec, ok := r.get(id)
	if !ok {
		return nil, nil
	}
	v := rec.val
	return &v, nil
}

// GetForUpdate dentro de TxRunner.Run las transacciones ya están serializadas,
// así que equivale a GetByID.
func (r *RFQRepo) GetForUpdate(ctx context.Context, id string) (*entity.RFQ, error) {
	return r.GetByID(ctx, id)
}

// List RFQs que cumplen el filtro, más recientes primero.
func (r *RFQRepo) List(_ context.Context, f repository.RFQFilter) ([]*entity.RFQ, error) {
	r.s.mu.RLock()
	recs := merge(r.s.rfqs, r.overlay(), matchRFQ(f))
	r.s.mu.RUnlock()

	vals := sorted(recs, func(v entity.RFQ) time.Time { return v.CreatedAt })
	out := make([]*entity.RFQ, 0, len(vals))
	for i := range vals {
		out = append(out, &vals[i])
	}
	return out, nil
}

// Count cantidad de RFQs que cumplen el filtro.
func (r *RFQRepo) Count(_ context.Context, f repository.RFQFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(merge(r.s.rfqs, r.overlay(), matchRFQ(f))), nil
}

// TransitionStatus compare-and-set sobre el estado. Una arista fuera de la máquina de estados es ErrInvalidState.
func (r *RFQRepo) TransitionStatus(_ context.Context, id string, from, to entity.RFQStatus) (bool, error) {
	if !entity.CanTransition(from, to) {
		return false, fmt.Errorf("%w: transición %s -> %s", domain.ErrInvalidState, from, to)
	}
	if r.tx != nil {
		rec, ok := r.get(id)
		if !ok || rec.val.Status != from {
			return false, nil
		}
		if _, touched := r.tx.rfqs[id]; !touched {
			r.tx.transitions = append(r.tx.transitions, transition{id: id, from: from})
		}
		rec.val.Status = to
		r.tx.rfqs[id] = rec
		return true, nil
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.rfqs[id]
	if !ok || rec.val.Status != from {
		return false, nil
	}
	rec.val.Status = to
	r.s.rfqs[id] = rec
	return true, nil
}

func (r *RFQRepo) overlay() collection[entity.RFQ] {
	if r.tx == nil {
		return nil
	}
	return r.tx.rfqs
}

func matchRFQ(f repository.RFQFilter) func(entity.RFQ) bool {
	return func(v entity.RFQ) bool {
		if f.BuyerID != "" && v.BuyerID != f.BuyerID {
			return false
		}
		if f.Status != "" && v.Status != f.Status {
			return false
		}
		if f.ProductIDs != nil && !slices.Contains(f.ProductIDs, v.ProductID) {
			return false
		}
		return true
	}
}

// QuoteRepo implementa repository.QuoteRepository.
type QuoteRepo struct {
	s  *Store
	tx *txState
}

// NewQuoteRepo construye el repositorio fuera de transacción.
func NewQuoteRepo(s *Store) *QuoteRepo { return &QuoteRepo{s: s} }

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// Create inserta la quote.
func (r *QuoteRepo) Create(_ context.Context, q *entity.Quote) error {
	rec := record[entity.Quote]{val: *q, seq: r.s.nextSeq()}
	if r.tx != nil {
		r.tx.quotes[q.ID] = rec
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.quotes[q.ID] = rec
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *QuoteRepo) GetByID(_ context.Context, id string) (*entity.Quote, error) {
	if r.tx != nil {
		if rec, ok := r.tx.quotes[id]; ok {
			v := rec.val
			return &v, nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.quotes[id]
	if !ok {
		return nil, nil
	}
	v := rec.val
	return &v, nil
}

// ListByRFQ quotes de la RFQ, más recientes primero.
func (r *QuoteRepo) ListByRFQ(_ context.Context, rfqID string) ([]*entity.Quote, error) {
	var overlay collection[entity.Quote]
	if r.tx != nil {
		overlay = r.tx.quotes
	}
	r.s.mu.RLock()
	recs := merge(r.s.quotes, overlay, func(v entity.Quote) bool { return v.RFQID == rfqID })
	r.s.mu.RUnlock()

	vals := sorted(recs, func(v entity.Quote) time.Time { return v.CreatedAt })
	out := make([]*entity.Quote, 0, len(vals))
	for i := range vals {
		out = append(out, &vals[i])
	}
	return out, nil
}

// OrderRepo implementa repository.OrderRepository.
type OrderRepo struct {
	s  *Store
	tx *txState
}

// NewOrderRepo construye el repositorio fuera de transacción.
func NewOrderRepo(s *Store) *OrderRepo { return &OrderRepo{s: s} }

var _ repository.OrderRepository = (*OrderRepo)(nil)

// Create inserta la orden. Una quote genera como máximo una orden.
func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	sameQuote := func(v entity.Order) bool { return v.QuoteID == o.QuoteID }
	rec := record[entity.Order]{val: *o, seq: r.s.nextSeq()}
	if r.tx != nil {
		r.s.mu.RLock()
		dup := len(merge(r.s.orders, r.tx.orders, sameQuote)) > 0
		r.s.mu.RUnlock()
		if dup {
			return fmt.Errorf("%w: orden para quote %s", domain.ErrDuplicate, o.QuoteID)
		}
		r.tx.orders[o.ID] = rec
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if len(merge(r.s.orders, nil, sameQuote)) > 0 {
		return fmt.Errorf("%w: orden para quote %s", domain.ErrDuplicate, o.QuoteID)
	}
	r.s.orders[o.ID] = rec
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	if r.tx != nil {
		if rec, ok := r.tx.orders[id]; ok {
			v := rec.val
			return &v, nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	v := rec.val
	return &v, nil
}

// List órdenes que cumplen el filtro, más recientes primero.
func (r *OrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	r.s.mu.RLock()
	recs := merge(r.s.orders, r.overlay(), matchOrder(f))
	r.s.mu.RUnlock()

	vals := sorted(recs, func(v entity.Order) time.Time { return v.CreatedAt })
	out := make([]*entity.Order, 0, len(vals))
	for i := range vals {
		out = append(out, &vals[i])
	}
	return out, nil
}

// Count cantidad de órdenes que cumplen el filtro.
func (r *OrderRepo) Count(_ context.Context, f repository.OrderFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(merge(r.s.orders, r.overlay(), matchOrder(f))), nil
}

func (r *OrderRepo) overlay() collection[entity.Order] {
	if r.tx == nil {
		return nil
	}
	return r.tx.orders
}

func matchOrder(f repository.OrderFilter) func(entity.Order) bool {
	return func(v entity.Order) bool {
		return (f.BuyerID == "" || v.BuyerID == f.BuyerID) &&
			(f.SupplierID == "" || v.SupplierID == f.SupplierID)
	}
}
