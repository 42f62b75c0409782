package repository

import (
	"context"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

// OrderFilter filtros por igualdad. Campos vacíos no filtran.
type OrderFilter struct {
	BuyerID    string
	SupplierID string
}

// OrderRepository define el puerto de persistencia para Order (DIP).
type OrderRepository interface {
	// Create devuelve domain.ErrDuplicate si ya existe una orden para la misma quote.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
	Count(ctx context.Context, filter OrderFilter) (int, error)
}
