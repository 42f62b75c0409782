package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado de una orden de compra.
type OrderStatus string

// Estados de orden. En este servicio toda orden nace pending; el resto los gestiona logística.
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order compromiso del comprador derivado de una Quote.
// Cantidad, precios, producto y proveedor son una copia (snapshot) de la cadena RFQ/Quote
// al momento de crearla; cambios posteriores en la fuente no la afectan.
type Order struct {
	ID              string
	QuoteID         string
	RFQID           string
	BuyerID         string
	SupplierID      string
	ProductID       string
	Quantity        int
	PricePerUnit    decimal.Decimal
	TotalAmount     decimal.Decimal
	Status          OrderStatus
	ShippingAddress string
	CreatedAt       time.Time
}

// InvolvesUser true si userID es el comprador o el proveedor de la orden.
func (o *Order) InvolvesUser(userID string) bool {
	return userID != "" && (o.BuyerID == userID || o.SupplierID == userID)
}
