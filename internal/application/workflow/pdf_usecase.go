package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

// ErrPDFDisabled el motor se construyó sin generador de PDF.
var ErrPDFDisabled = errors.New("generación de PDF no configurada")

// DownloadOrderPDF genera la orden de compra en PDF con la misma visibilidad que GetOrder.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la orden no existe.
//   - domain.ErrForbidden        si el usuario no es admin ni parte de la orden.
func (uc *WorkflowUseCase) DownloadOrderPDF(
	ctx context.Context,
	user *entity.User,
	orderID string,
) (pdfBytes []byte, filename string, err error) {
	if uc.pdf == nil {
		return nil, "", ErrPDFDisabled
	}
	order, err := uc.GetOrder(ctx, user, orderID)
	if err != nil {
		return nil, "", err
	}

	doc := OrderDocument{Order: order}
	if doc.Quote, err = uc.quoteRepo.GetByID(ctx, order.QuoteID); err != nil {
		return nil, "", fmt.Errorf("pdf: obtener quote: %w", err)
	}
	if doc.Product, err = uc.productRepo.GetByID(ctx, order.ProductID); err != nil {
		return nil, "", fmt.Errorf("pdf: obtener producto: %w", err)
	}
	if doc.Buyer, err = uc.userRepo.GetByID(ctx, order.BuyerID); err != nil {
		return nil, "", fmt.Errorf("pdf: obtener comprador: %w", err)
	}
	if doc.Supplier, err = uc.userRepo.GetByID(ctx, order.SupplierID); err != nil {
		return nil, "", fmt.Errorf("pdf: obtener proveedor: %w", err)
	}

	pdfBytes, err = uc.pdf.GenerateOrderPDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("orden_%s.pdf", order.ID), nil
}
