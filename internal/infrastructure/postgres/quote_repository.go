package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

const quoteColumns = `id, rfq_id, supplier_id, price_per_unit, total_price, delivery_time, message, created_at`

// QuoteRepo implementación del puerto QuoteRepository sobre PostgreSQL (usable con pool o tx).
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador.
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

// Create persiste la quote.
func (r *QuoteRepo) Create(ctx context.Context, quote *entity.Quote) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO quotes (`+quoteColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		quote.ID, quote.RFQID, quote.SupplierID, quote.PricePerUnit, quote.TotalPrice,
		quote.DeliveryTime, quote.Message, quote.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// GetByID obtiene una quote por ID.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	if !validID(id) {
		return nil, nil
	}
	q, err := scanQuote(r.q.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return q, nil
}

// ListByRFQ quotes de una RFQ, más recientes primero.
func (r *QuoteRepo) ListByRFQ(ctx context.Context, rfqID string) ([]*entity.Quote, error) {
	if !validID(rfqID) {
		return []*entity.Quote{}, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE rfq_id = $1 ORDER BY created_at DESC`, rfqID)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Quote, 0)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

func scanQuote(row pgx.Row) (*entity.Quote, error) {
	var q entity.Quote
	if err := row.Scan(
		&q.ID, &q.RFQID, &q.SupplierID, &q.PricePerUnit, &q.TotalPrice,
		&q.DeliveryTime, &q.Message, &q.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &q, nil
}
