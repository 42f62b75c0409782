package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

var _ repository.RFQRepository = (*RFQRepo)(nil)

const rfqColumns = `id, buyer_id, product_id, quantity, message, status, created_at, expires_at`

// RFQRepo implementación del puerto RFQRepository sobre PostgreSQL (usable con pool o tx).
type RFQRepo struct {
	q Querier
}

// NewRFQRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRFQRepository(q Querier) *RFQRepo {
	return &RFQRepo{q: q}
}

// Create persiste la RFQ.
func (r *RFQRepo) Create(ctx context.Context, rfq *entity.RFQ) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO rfqs (`+rfqColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rfq.ID, rfq.BuyerID, rfq.ProductID, rfq.Quantity, rfq.Message, string(rfq.Status), rfq.CreatedAt, rfq.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert rfq: %w", err)
	}
	return nil
}

// GetByID obtiene una RFQ por ID.
func (r *RFQRepo) GetByID(ctx context.Context, id string) (*entity.RFQ, error) {
	return r.getOne(ctx, `SELECT `+rfqColumns+` FROM rfqs WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID con SELECT ... FOR UPDATE: la fila queda bloqueada hasta el fin de la tx.
func (r *RFQRepo) GetForUpdate(ctx context.Context, id string) (*entity.RFQ, error) {
	return r.getOne(ctx, `SELECT `+rfqColumns+` FROM rfqs WHERE id = $1 FOR UPDATE`, id)
}

// List RFQs según el filtro, más recientes primero.
func (r *RFQRepo) List(ctx context.Context, f repository.RFQFilter) ([]*entity.RFQ, error) {
	w, ok := rfqWhere(f)
	if !ok {
		return []*entity.RFQ{}, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+rfqColumns+` FROM rfqs`+w.sql()+` ORDER BY created_at DESC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list rfqs: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.RFQ, 0)
	for rows.Next() {
		rfq, err := scanRFQ(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rfq: %w", err)
		}
		list = append(list, rfq)
	}
	return list, rows.Err()
}

// Count cantidad de RFQs que cumplen el filtro.
func (r *RFQRepo) Count(ctx context.Context, f repository.RFQFilter) (int, error) {
	w, ok := rfqWhere(f)
	if !ok {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM rfqs`+w.sql(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rfqs: %w", err)
	}
	return n, nil
}

// TransitionStatus compare-and-set: UPDATE ... WHERE status = from. 0 filas => false.
// Una arista fuera de la máquina de estados es ErrInvalidState y no llega a la DB.
func (r *RFQRepo) TransitionStatus(ctx context.Context, id string, from, to entity.RFQStatus) (bool, error) {
	if !entity.CanTransition(from, to) {
		return false, fmt.Errorf("%w: transición %s -> %s", domain.ErrInvalidState, from, to)
	}
	if !validID(id) {
		return false, nil
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE rfqs SET status = $3 WHERE id = $1 AND status = $2`,
		id, string(from), string(to),
	)
	if err != nil {
		return false, fmt.Errorf("transition rfq: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *RFQRepo) getOne(ctx context.Context, query, id string) (*entity.RFQ, error) {
	if !validID(id) {
		return nil, nil
	}
	rfq, err := scanRFQ(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rfq: %w", err)
	}
	return rfq, nil
}

// rfqWhere false si el filtro no puede coincidir con nada (IDs inválidos o conjunto vacío).
func rfqWhere(f repository.RFQFilter) (whereBuilder, bool) {
	var w whereBuilder
	if f.BuyerID != "" {
		if !validID(f.BuyerID) {
			return w, false
		}
		w.add("buyer_id = ?", f.BuyerID)
	}
	if f.ProductIDs != nil {
		if len(f.ProductIDs) == 0 {
			return w, false
		}
		w.add("product_id = ANY(?::uuid[])", f.ProductIDs)
	}
	if f.Status != "" {
		w.add("status = ?", string(f.Status))
	}
	return w, true
}

func scanRFQ(row pgx.Row) (*entity.RFQ, error) {
	var rfq entity.RFQ
	var status string
	if err := row.Scan(
		&rfq.ID, &rfq.BuyerID, &rfq.ProductID, &rfq.Quantity, &rfq.Message,
		&status, &rfq.CreatedAt, &rfq.ExpiresAt,
	); err != nil {
		return nil, err
	}
	rfq.Status = entity.RFQStatus(status)
	return &rfq, nil
}
