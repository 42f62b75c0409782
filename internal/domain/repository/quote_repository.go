package repository

import (
	"context"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

// QuoteRepository define el puerto de persistencia para Quote (DIP). Las quotes son append-only.
type QuoteRepository interface {
	Create(ctx context.Context, quote *entity.Quote) error
	GetByID(ctx context.Context, id string) (*entity.Quote, error)
	ListByRFQ(ctx context.Context, rfqID string) ([]*entity.Quote, error)
}
