package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

// CreateRFQRequest entrada para POST /api/rfqs.
// ExpiresInDays nil => 7 días; debe estar entre 1 y 365.
type CreateRFQRequest struct {
	ProductID     string `json:"product_id"`
	Quantity      int    `json:"quantity"`
	Message       string `json:"message"`
	ExpiresInDays *int   `json:"expires_in_days"`
}

// RFQResponse salida de una RFQ.
type RFQResponse struct {
	ID        string    `json:"id"`
	BuyerID   string    `json:"buyer_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SubmitQuoteRequest entrada para POST /api/quotes.
type SubmitQuoteRequest struct {
	RFQID        string          `json:"rfq_id"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	DeliveryTime string          `json:"delivery_time"`
	Message      string          `json:"message"`
}

// QuoteResponse salida de una Quote.
type QuoteResponse struct {
	ID           string          `json:"id"`
	RFQID        string          `json:"rfq_id"`
	SupplierID   string          `json:"supplier_id"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	DeliveryTime string          `json:"delivery_time"`
	Message      string          `json:"message"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CreateOrderRequest entrada para POST /api/orders.
type CreateOrderRequest struct {
	QuoteID         string `json:"quote_id"`
	ShippingAddress string `json:"shipping_address"`
}

// OrderResponse salida de una Order.
type OrderResponse struct {
	ID              string          `json:"id"`
	QuoteID         string          `json:"quote_id"`
	RFQID           string          `json:"rfq_id"`
	BuyerID         string          `json:"buyer_id"`
	SupplierID      string          `json:"supplier_id"`
	ProductID       string          `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PricePerUnit    decimal.Decimal `json:"price_per_unit"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          string          `json:"status"`
	ShippingAddress string          `json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToRFQResponse convierte la entidad.
func ToRFQResponse(r *entity.RFQ) *RFQResponse {
	if r == nil {
		return nil
	}
	return &RFQResponse{
		ID:        r.ID,
		BuyerID:   r.BuyerID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		Message:   r.Message,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		ExpiresAt: r.ExpiresAt,
	}
}

// ToQuoteResponse convierte la entidad.
func ToQuoteResponse(q *entity.Quote) *QuoteResponse {
	if q == nil {
		return nil
	}
	return &QuoteResponse{
		ID:           q.ID,
		RFQID:        q.RFQID,
		SupplierID:   q.SupplierID,
		PricePerUnit: q.PricePerUnit,
		TotalPrice:   q.TotalPrice,
		DeliveryTime: q.DeliveryTime,
		Message:      q.Message,
		CreatedAt:    q.CreatedAt,
	}
}

// ToOrderResponse convierte la entidad.
func ToOrderResponse(o *entity.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	return &OrderResponse{
		ID:              o.ID,
		QuoteID:         o.QuoteID,
		RFQID:           o.RFQID,
		BuyerID:         o.BuyerID,
		SupplierID:      o.SupplierID,
		ProductID:       o.ProductID,
		Quantity:        o.Quantity,
		PricePerUnit:    o.PricePerUnit,
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		CreatedAt:       o.CreatedAt,
	}
}
