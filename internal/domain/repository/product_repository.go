package repository

import (
	"context"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

// ProductFilter filtros por igualdad para listar productos. Campos vacíos no filtran.
type ProductFilter struct {
	CategoryID string
	SupplierID string
	OnlyActive bool
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Para el flujo de cotización solo se usan GetByID e IDsBySupplier.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// IDsBySupplier IDs de todos los productos del proveedor (activos o no).
	IDsBySupplier(ctx context.Context, supplierID string) ([]string, error)
}
