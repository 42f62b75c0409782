package repository

import (
	"context"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

// RFQFilter filtros por igualdad / pertenencia. Campos vacíos no filtran.
type RFQFilter struct {
	BuyerID    string
	ProductIDs []string // pertenencia; un slice no nil y vacío no devuelve nada
	Status     entity.RFQStatus
}

// RFQRepository define el puerto de persistencia para RFQ (DIP).
type RFQRepository interface {
	Create(ctx context.Context, rfq *entity.RFQ) error
	GetByID(ctx context.Context, id string) (*entity.RFQ, error)
	// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.RFQ, error)
	List(ctx context.Context, filter RFQFilter) ([]*entity.RFQ, error)
	// TransitionStatus compare-and-set: cambia el estado a `to` solo si el actual es `from`.
	// Devuelve false (sin error) si el estado ya no era `from`.
	TransitionStatus(ctx context.Context, id string, from, to entity.RFQStatus) (bool, error)
	Count(ctx context.Context, filter RFQFilter) (int, error)
}
