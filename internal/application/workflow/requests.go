package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

// CreateRFQFromRequest adapta el request HTTP a CreateRFQ. Sin expires_in_days se usan 7 días;
// fuera de 1..365 es ErrInvalidInput antes de convertir a duración.
func (uc *WorkflowUseCase) CreateRFQFromRequest(ctx context.Context, buyer *entity.User, in dto.CreateRFQRequest) (*dto.RFQResponse, error) {
	days := entity.DefaultRFQExpiryDays
	if in.ExpiresInDays != nil {
		days = *in.ExpiresInDays
	}
	if days <= 0 || days > entity.MaxRFQExpiryDays {
		return nil, fmt.Errorf("%w: expires_in_days debe estar entre 1 y %d", domain.ErrInvalidInput, entity.MaxRFQExpiryDays)
	}
	rfq, err := uc.CreateRFQ(ctx, buyer, in.ProductID, in.Quantity, in.Message, time.Duration(days)*24*time.Hour)
	if err != nil {
		return nil, err
	}
	return dto.ToRFQResponse(rfq), nil
}

// SubmitQuoteFromRequest adapta el request HTTP a SubmitQuote.
func (uc *WorkflowUseCase) SubmitQuoteFromRequest(ctx context.Context, supplier *entity.User, in dto.SubmitQuoteRequest) (*dto.QuoteResponse, error) {
	quote, err := uc.SubmitQuote(ctx, supplier, in.RFQID, in.PricePerUnit, in.DeliveryTime, in.Message)
	if err != nil {
		return nil, err
	}
	return dto.ToQuoteResponse(quote), nil
}

// CreateOrderFromRequest adapta el request HTTP a CreateOrder.
func (uc *WorkflowUseCase) CreateOrderFromRequest(ctx context.Context, buyer *entity.User, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	order, err := uc.CreateOrder(ctx, buyer, in.QuoteID, in.ShippingAddress)
	if err != nil {
		return nil, err
	}
	return dto.ToOrderResponse(order), nil
}

// ListRFQResponses ListRFQs convertido a DTO.
func (uc *WorkflowUseCase) ListRFQResponses(ctx context.Context, user *entity.User) ([]*dto.RFQResponse, error) {
	list, err := uc.ListRFQs(ctx, user)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.RFQResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.ToRFQResponse(r))
	}
	return out, nil
}

// ListOrderResponses ListOrders convertido a DTO.
func (uc *WorkflowUseCase) ListOrderResponses(ctx context.Context, user *entity.User) ([]*dto.OrderResponse, error) {
	list, err := uc.ListOrders(ctx, user)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, dto.ToOrderResponse(o))
	}
	return out, nil
}

// QuoteResponsesForRFQ QuotesForRFQ convertido a DTO.
func (uc *WorkflowUseCase) QuoteResponsesForRFQ(ctx context.Context, user *entity.User, rfqID string) ([]*dto.QuoteResponse, error) {
	list, err := uc.QuotesForRFQ(ctx, user, rfqID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.QuoteResponse, 0, len(list))
	for _, q := range list {
		out = append(out, dto.ToQuoteResponse(q))
	}
	return out, nil
}
