// Package workflow contiene el motor del flujo de compra RFQ → Quote → Order.
//
// Es dueño de la máquina de estados de la RFQ:
//
//	open --(primera quote)--> quoted --(orden creada)--> closed
//
// Cada transición se aplica con compare-and-set dentro de la misma transacción
// que escribe la quote u orden asociada (TxRunner), de modo que dos proveedores
// concurrentes nunca pueden cotizar la misma RFQ ni una quote convertirse dos veces.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/access"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
	"github.com/jhoicas/Cotiza-api/pkg/logger"
)

const tracerName = "github.com/jhoicas/Cotiza-api/internal/application/workflow"

// WorkflowUseCase motor de flujo de compra.
type WorkflowUseCase struct {
	txRunner    TxRunner
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	rfqRepo     repository.RFQRepository
	quoteRepo   repository.QuoteRepository
	orderRepo   repository.OrderRepository
	pdf         OrderPDFGenerator
	log         *logger.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewWorkflowUseCase construye el motor. pdf puede ser nil (descarga de PDF deshabilitada).
func NewWorkflowUseCase(
	txRunner TxRunner,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	rfqRepo repository.RFQRepository,
	quoteRepo repository.QuoteRepository,
	orderRepo repository.OrderRepository,
	pdf OrderPDFGenerator,
	log *logger.Logger,
) *WorkflowUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &WorkflowUseCase{
		txRunner:    txRunner,
		userRepo:    userRepo,
		productRepo: productRepo,
		rfqRepo:     rfqRepo,
		quoteRepo:   quoteRepo,
		orderRepo:   orderRepo,
		pdf:         pdf,
		log:         log.Component("workflow"),
		tracer:      otel.Tracer(tracerName),
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests de expiración).
func (uc *WorkflowUseCase) WithClock(now func() time.Time) *WorkflowUseCase {
	uc.now = now
	return uc
}

// CreateRFQ crea una RFQ en estado open para un producto existente y activo.
// Falla con ErrInvalidInput si quantity <= 0, expiry fuera de (0, MaxRFQExpiry] o quantity < mínimo de pedido,
// y con ErrNotFound si el producto no existe.
func (uc *WorkflowUseCase) CreateRFQ(
	ctx context.Context,
	buyer *entity.User,
	productID string,
	quantity int,
	message string,
	expiry time.Duration,
) (rfq *entity.RFQ, err error) {
	ctx, span := uc.tracer.Start(ctx, "workflow.CreateRFQ", trace.WithAttributes(attribute.String("product.id", productID)))
	defer func() { endSpan(span, err) }()

	if err := access.Authorize(buyer, access.OpCreateRFQ); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity debe ser > 0", domain.ErrInvalidInput)
	}
	if expiry <= 0 || expiry > entity.MaxRFQExpiry {
		return nil, fmt.Errorf("%w: la vigencia debe ser > 0 y de máximo %d días", domain.ErrInvalidInput, entity.MaxRFQExpiryDays)
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if product == nil || !product.IsActive {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	if quantity < product.MinOrderQuantity {
		return nil, fmt.Errorf("%w: la cantidad mínima de pedido es %d", domain.ErrInvalidInput, product.MinOrderQuantity)
	}

	now := uc.now().UTC()
	rfq = &entity.RFQ{
		ID:        uuid.New().String(),
		BuyerID:   buyer.ID,
		ProductID: product.ID,
		Quantity:  quantity,
		Message:   strings.TrimSpace(message),
		Status:    entity.RFQStatusOpen,
		CreatedAt: now,
		ExpiresAt: now.Add(expiry),
	}
	if err := uc.rfqRepo.Create(ctx, rfq); err != nil {
		return nil, fmt.Errorf("crear rfq: %w", err)
	}

	uc.log.Info().
		Str("rfq_id", rfq.ID).
		Str("buyer_id", buyer.ID).
		Str("product_id", product.ID).
		Int("quantity", quantity).
		Time("expires_at", rfq.ExpiresAt).
		Msg("rfq creada")
	return rfq, nil
}

// SubmitQuote registra la cotización de un proveedor y pasa la RFQ de open a quoted.
//
// Orden de validación: RFQ inexistente => ErrNotFound; RFQ no open o vencida => ErrInvalidState;
// producto de otro proveedor => ErrForbidden. Solo la primera quote gana: cualquier envío
// posterior (o concurrente perdedor) observa ErrInvalidState y no deja rastro en la base.
func (uc *WorkflowUseCase) SubmitQuote(
	ctx context.Context,
	supplier *entity.User,
	rfqID string,
	pricePerUnit decimal.Decimal,
	deliveryTime string,
	message string,
) (quote *entity.Quote, err error) {
	ctx, span := uc.tracer.Start(ctx, "workflow.SubmitQuote", trace.WithAttributes(attribute.String("rfq.id", rfqID)))
	defer func() { endSpan(span, err) }()

	if err := access.Authorize(supplier, access.OpSubmitQuote); err != nil {
		return nil, err
	}
	if !pricePerUnit.IsPositive() {
		return nil, fmt.Errorf("%w: price_per_unit debe ser > 0", domain.ErrInvalidInput)
	}
	if !pricePerUnit.Equal(pricePerUnit.Round(2)) {
		return nil, fmt.Errorf("%w: price_per_unit admite máximo 2 decimales", domain.ErrInvalidInput)
	}
	deliveryTime = strings.TrimSpace(deliveryTime)
	if deliveryTime == "" {
		return nil, fmt.Errorf("%w: delivery_time es requerido", domain.ErrInvalidInput)
	}

	err = uc.txRunner.Run(ctx, func(
		rfqRepo repository.RFQRepository,
		quoteRepo repository.QuoteRepository,
		_ repository.OrderRepository,
		productRepo repository.ProductRepository,
	) error {
		// Bloquea la fila de la RFQ hasta el commit
		rfq, err := rfqRepo.GetForUpdate(ctx, rfqID)
		if err != nil {
			return fmt.Errorf("obtener rfq: %w", err)
		}
		if rfq == nil {
			return fmt.Errorf("%w: rfq %s", domain.ErrNotFound, rfqID)
		}
		now := uc.now().UTC()
		if !rfq.AcceptsQuotes(now) {
			if rfq.Status == entity.RFQStatusOpen {
				return fmt.Errorf("%w: la rfq venció el %s", domain.ErrInvalidState, rfq.ExpiresAt.Format(time.RFC3339))
			}
			return fmt.Errorf("%w: la rfq está %s", domain.ErrInvalidState, rfq.Status)
		}

		product, err := productRepo.GetByID(ctx, rfq.ProductID)
		if err != nil {
			return fmt.Errorf("obtener producto: %w", err)
		}
		if !product.OwnedBy(supplier.ID) {
			return fmt.Errorf("%w: el producto no pertenece al proveedor", domain.ErrForbidden)
		}

		ok, err := rfqRepo.TransitionStatus(ctx, rfq.ID, entity.RFQStatusOpen, entity.RFQStatusQuoted)
		if err != nil {
			return fmt.Errorf("transición rfq: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: la rfq ya fue cotizada", domain.ErrInvalidState)
		}

		quote = &entity.Quote{
			ID:           uuid.New().String(),
			RFQID:        rfq.ID,
			SupplierID:   supplier.ID,
			PricePerUnit: pricePerUnit,
			TotalPrice:   entity.QuoteTotal(pricePerUnit, rfq.Quantity),
			DeliveryTime: deliveryTime,
			Message:      strings.TrimSpace(message),
			CreatedAt:    now,
		}
		if err := quoteRepo.Create(ctx, quote); err != nil {
			return fmt.Errorf("crear quote: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidState) || errors.Is(err, domain.ErrForbidden) {
			uc.log.Warn().
				Err(err).
				Str("rfq_id", rfqID).
				Str("supplier_id", supplier.ID).
				Str("price_per_unit", pricePerUnit.String()).
				Msg("cotización rechazada")
		}
		return nil, err
	}

	uc.log.Info().
		Str("rfq_id", rfqID).
		Str("quote_id", quote.ID).
		Str("supplier_id", supplier.ID).
		Str("total", quote.TotalPrice.String()).
		Str("from", string(entity.RFQStatusOpen)).
		Str("to", string(entity.RFQStatusQuoted)).
		Msg("rfq cotizada")
	return quote, nil
}

// CreateOrder convierte una quote en orden de compra y cierra la RFQ.
//
// Dirección de envío vacía => ErrInvalidInput; quote inexistente => ErrNotFound; RFQ de otro comprador => ErrForbidden;
// RFQ ya cerrada (orden existente) => ErrInvalidState. No es idempotente: una segunda
// llamada con la misma quote falla en lugar de duplicar la orden.
func (uc *WorkflowUseCase) CreateOrder(
	ctx context.Context,
	buyer *entity.User,
	quoteID string,
	shippingAddress string,
) (order *entity.Order, err error) {
	ctx, span := uc.tracer.Start(ctx, "workflow.CreateOrder", trace.WithAttributes(attribute.String("quote.id", quoteID)))
	defer func() { endSpan(span, err) }()

	if err := access.Authorize(buyer, access.OpCreateOrder); err != nil {
		return nil, err
	}
	shippingAddress = strings.TrimSpace(shippingAddress)
	if shippingAddress == "" {
		return nil, fmt.Errorf("%w: shipping_address es requerido", domain.ErrInvalidInput)
	}

	err = uc.txRunner.Run(ctx, func(
		rfqRepo repository.RFQRepository,
		quoteRepo repository.QuoteRepository,
		orderRepo repository.OrderRepository,
		_ repository.ProductRepository,
	) error {
		quote, err := quoteRepo.GetByID(ctx, quoteID)
		if err != nil {
			return fmt.Errorf("obtener quote: %w", err)
		}
		if quote == nil {
			return fmt.Errorf("%w: quote %s", domain.ErrNotFound, quoteID)
		}
		rfq, err := rfqRepo.GetForUpdate(ctx, quote.RFQID)
		if err != nil {
			return fmt.Errorf("obtener rfq: %w", err)
		}
		if rfq == nil || rfq.BuyerID != buyer.ID {
			return fmt.Errorf("%w: la rfq de la quote no pertenece al comprador", domain.ErrForbidden)
		}
		if rfq.Status != entity.RFQStatusQuoted {
			return fmt.Errorf("%w: la rfq está %s", domain.ErrInvalidState, rfq.Status)
		}

		ok, err := rfqRepo.TransitionStatus(ctx, rfq.ID, entity.RFQStatusQuoted, entity.RFQStatusClosed)
		if err != nil {
			return fmt.Errorf("transición rfq: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: la rfq ya fue convertida en orden", domain.ErrInvalidState)
		}

		// Snapshot de la cadena RFQ/Quote
		order = &entity.Order{
			ID:              uuid.New().String(),
			QuoteID:         quote.ID,
			RFQID:           rfq.ID,
			BuyerID:         buyer.ID,
			SupplierID:      quote.SupplierID,
			ProductID:       rfq.ProductID,
			Quantity:        rfq.Quantity,
			PricePerUnit:    quote.PricePerUnit,
			TotalAmount:     quote.TotalPrice,
			Status:          entity.OrderStatusPending,
			ShippingAddress: shippingAddress,
			CreatedAt:       uc.now().UTC(),
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return fmt.Errorf("%w: la quote ya tiene una orden", domain.ErrInvalidState)
			}
			return fmt.Errorf("crear orden: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("order_id", order.ID).
		Str("quote_id", quoteID).
		Str("rfq_id", order.RFQID).
		Str("buyer_id", buyer.ID).
		Str("supplier_id", order.SupplierID).
		Str("total_amount", order.TotalAmount.String()).
		Str("from", string(entity.RFQStatusQuoted)).
		Str("to", string(entity.RFQStatusClosed)).
		Msg("orden creada, rfq cerrada")
	return order, nil
}

// ListRFQs RFQs visibles para el usuario: admin todas, buyer las propias,
// supplier las open sobre productos que le pertenecen. Cada llamada es una lectura nueva.
func (uc *WorkflowUseCase) ListRFQs(ctx context.Context, user *entity.User) ([]*entity.RFQ, error) {
	if err := access.Authorize(user, access.OpListRFQs); err != nil {
		return nil, err
	}
	var filter repository.RFQFilter
	switch {
	case access.ScopeFor(user.Role, access.OpListRFQs) == access.ScopeAll:
	case user.Role == entity.RoleBuyer:
		filter.BuyerID = user.ID
	case user.Role == entity.RoleSupplier:
		ids, err := uc.productRepo.IDsBySupplier(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("productos del proveedor: %w", err)
		}
		if len(ids) == 0 {
			return []*entity.RFQ{}, nil
		}
		filter.ProductIDs = ids
		filter.Status = entity.RFQStatusOpen
	}
	list, err := uc.rfqRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar rfqs: %w", err)
	}
	if list == nil {
		list = []*entity.RFQ{}
	}
	return list, nil
}

// GetRFQ devuelve una RFQ si el usuario puede verla (admin, su comprador o el dueño del producto).
func (uc *WorkflowUseCase) GetRFQ(ctx context.Context, user *entity.User, rfqID string) (*entity.RFQ, error) {
	if err := access.Authorize(user, access.OpListRFQs); err != nil {
		return nil, err
	}
	rfq, err := uc.rfqRepo.GetByID(ctx, rfqID)
	if err != nil {
		return nil, fmt.Errorf("obtener rfq: %w", err)
	}
	if rfq == nil {
		return nil, fmt.Errorf("%w: rfq %s", domain.ErrNotFound, rfqID)
	}
	if err := uc.canSeeRFQ(ctx, user, rfq); err != nil {
		return nil, err
	}
	return rfq, nil
}

// QuotesForRFQ quotes de una RFQ. El comprador solo ve las de sus RFQs y el proveedor
// solo las de RFQs sobre sus productos.
func (uc *WorkflowUseCase) QuotesForRFQ(ctx context.Context, user *entity.User, rfqID string) ([]*entity.Quote, error) {
	if err := access.Authorize(user, access.OpListQuotes); err != nil {
		return nil, err
	}
	rfq, err := uc.rfqRepo.GetByID(ctx, rfqID)
	if err != nil {
		return nil, fmt.Errorf("obtener rfq: %w", err)
	}
	if rfq == nil {
		return nil, fmt.Errorf("%w: rfq %s", domain.ErrNotFound, rfqID)
	}
	if err := uc.canSeeRFQ(ctx, user, rfq); err != nil {
		return nil, err
	}
	quotes, err := uc.quoteRepo.ListByRFQ(ctx, rfqID)
	if err != nil {
		return nil, fmt.Errorf("listar quotes: %w", err)
	}
	if quotes == nil {
		quotes = []*entity.Quote{}
	}
	return quotes, nil
}

// ListOrders órdenes visibles: admin todas; buyer y supplier las propias.
func (uc *WorkflowUseCase) ListOrders(ctx context.Context, user *entity.User) ([]*entity.Order, error) {
	if err := access.Authorize(user, access.OpListOrders); err != nil {
		return nil, err
	}
	var filter repository.OrderFilter
	switch {
	case access.ScopeFor(user.Role, access.OpListOrders) == access.ScopeAll:
	case user.Role == entity.RoleBuyer:
		filter.BuyerID = user.ID
	case user.Role == entity.RoleSupplier:
		filter.SupplierID = user.ID
	}
	list, err := uc.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar órdenes: %w", err)
	}
	if list == nil {
		list = []*entity.Order{}
	}
	return list, nil
}

// GetOrder devuelve una orden si el usuario es admin, su comprador o su proveedor.
func (uc *WorkflowUseCase) GetOrder(ctx context.Context, user *entity.User, orderID string) (*entity.Order, error) {
	if err := access.Authorize(user, access.OpViewOrder); err != nil {
		return nil, err
	}
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("obtener orden: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, orderID)
	}
	if access.ScopeFor(user.Role, access.OpViewOrder) != access.ScopeAll && !order.InvolvesUser(user.ID) {
		return nil, fmt.Errorf("%w: la orden no pertenece al usuario", domain.ErrForbidden)
	}
	return order, nil
}

func (uc *WorkflowUseCase) canSeeRFQ(ctx context.Context, user *entity.User, rfq *entity.RFQ) error {
	switch user.Role {
	case entity.RoleAdmin:
		return nil
	case entity.RoleBuyer:
		if rfq.BuyerID == user.ID {
			return nil
		}
	case entity.RoleSupplier:
		product, err := uc.productRepo.GetByID(ctx, rfq.ProductID)
		if err != nil {
			return fmt.Errorf("obtener producto: %w", err)
		}
		if product.OwnedBy(user.ID) {
			return nil
		}
	}
	return fmt.Errorf("%w: la rfq no pertenece al usuario", domain.ErrForbidden)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
