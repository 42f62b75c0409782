package workflow

import (
	"context"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda ninguna escritura aplicada (ni la quote/orden ni la transición de la RFQ).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		rfqRepo repository.RFQRepository,
		quoteRepo repository.QuoteRepository,
		orderRepo repository.OrderRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// OrderPDFGenerator genera la orden de compra en PDF.
type OrderPDFGenerator interface {
	GenerateOrderPDF(ctx context.Context, doc OrderDocument) ([]byte, error)
}

// OrderDocument datos enriquecidos para imprimir una orden.
type OrderDocument struct {
	Order    *entity.Order
	Quote    *entity.Quote
	Product  *entity.Product // puede ser nil si el producto fue retirado del catálogo
	Buyer    *entity.User
	Supplier *entity.User
}
