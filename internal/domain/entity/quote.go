package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote respuesta con precio de un proveedor a una RFQ. Inmutable una vez creada.
// TotalPrice = PricePerUnit × RFQ.Quantity, calculado al crearla.
type Quote struct {
	ID           string
	RFQID        string
	SupplierID   string
	PricePerUnit decimal.Decimal
	TotalPrice   decimal.Decimal
	DeliveryTime string
	Message      string
	CreatedAt    time.Time
}

// QuoteTotal total exacto de una cotización.
func QuoteTotal(pricePerUnit decimal.Decimal, quantity int) decimal.Decimal {
	return pricePerUnit.Mul(decimal.NewFromInt(int64(quantity)))
}
